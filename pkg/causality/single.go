package causality

import (
	"context"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

// IdentifySingleGroup analyzes the complete milestone set as one group. For
// small sets this gives the model the full pairwise picture in a single
// request, so no sampling or iteration is needed. The relation judgments go
// through the same validation and deduplication as the iterative path.
func IdentifySingleGroup(
	ctx context.Context,
	goalTitle string,
	milestones []common.Milestone,
	analyzer GroupAnalyzer,
) (*common.DependencyAnalysis, error) {
	n := len(milestones)
	totalPossiblePairs := n * (n - 1)

	if totalPossiblePairs == 0 {
		return &common.DependencyAnalysis{
			Dependencies:      []common.Relation{},
			NetworkProperties: ComputeNetworkProperties(nil, milestones),
			Metadata: &common.AnalysisMetadata{
				CoveragePercentage: 1.0,
				GroupsPerIteration: 1,
			},
		}, nil
	}

	judged, err := analyzer.AnalyzeGroup(ctx, goalTitle, milestones)
	if err != nil {
		return nil, err
	}

	tracker := newCoverageTracker(milestones)
	for _, rel := range judged {
		tracker.add(rel)
	}

	relations := tracker.list()
	return &common.DependencyAnalysis{
		Dependencies:      relations,
		NetworkProperties: ComputeNetworkProperties(relations, milestones),
		Metadata: &common.AnalysisMetadata{
			TotalIterations:    1,
			PairsAnalyzed:      tracker.pairsCovered(),
			TotalPossiblePairs: totalPossiblePairs,
			CoveragePercentage: float64(tracker.pairsCovered()) / float64(totalPossiblePairs),
			DependenciesFound:  len(relations),
			GroupsPerIteration: 1,
		},
	}, nil
}
