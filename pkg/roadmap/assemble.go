package roadmap

import (
	"time"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

// criticalScoreThreshold marks the importance score at which a milestone
// counts as critical in the roadmap summary.
const criticalScoreThreshold = 7.0

// assembleRoadmap builds the final roadmap document out of the pipeline's
// intermediate results. The milestone slice is expected to be ordered and
// scored already.
func assembleRoadmap(
	goalTitle string,
	milestones []common.Milestone,
	analysis *common.DependencyAnalysis,
	classification roadmapClassification,
) *common.Roadmap {
	distribution := make(map[string]int)
	for _, m := range milestones {
		if m.Type != "" {
			distribution[m.Type]++
		}
	}

	var critical []string
	for _, m := range milestones {
		if m.ImportanceScore >= criticalScoreThreshold {
			critical = append(critical, m.Description)
		}
	}

	complexity := 0.0
	if len(milestones) > 0 {
		complexity = float64(len(analysis.Dependencies)) / float64(len(milestones))
	}

	return &common.Roadmap{
		Metadata: common.RoadmapMetadata{
			ExtractionTimestamp: time.Now().UTC(),
			GoalTitle:           goalTitle,
			TotalMilestones:     len(milestones),
			TotalDependencies:   len(analysis.Dependencies),
			PrimaryRoadmapType:  classification.PrimaryType,
			TypeConfidence:      classification.Confidence,
			SecondaryTypes:      classification.SecondaryTypes,
			MilestoneTypes:      distribution,
		},
		Milestones:   milestones,
		Dependencies: analysis.Dependencies,
		Network:      analysis.NetworkProperties,
		AnalysisMeta: analysis.Metadata,
		Analysis: common.RoadmapAnalysis{
			GoalTitle:           goalTitle,
			CriticalMilestones:  critical,
			RoadmapComplexity:   complexity,
			TotalSteps:          len(milestones),
			HighImportanceSteps: len(critical),
		},
	}
}
