package roadmap

import (
	"math"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

// highValueTypes get a scoring bonus: formal credentials and substantial
// experience tend to matter more for reaching a goal than ancillary steps.
var highValueTypes = map[string]bool{
	"Degree":         true,
	"Certificate":    true,
	"Award":          true,
	"Job experience": true,
	"Paper":          true,
}

// scoreMilestones assigns every milestone an importance score on a 1 to 10
// scale. The score combines the extraction-time importance tier, degree
// centrality in the dependency network, a bonus for high-value milestone
// types and a bonus for explicit goal relevance.
func scoreMilestones(milestones []common.Milestone, relations []common.Relation) []common.Milestone {
	known := make(map[string]bool, len(milestones))
	for _, m := range milestones {
		known[m.ID] = true
	}

	inDegree := make(map[string]int, len(milestones))
	outDegree := make(map[string]int, len(milestones))
	for _, rel := range relations {
		if !known[rel.PrerequisiteID] || !known[rel.DependentID] {
			continue
		}
		outDegree[rel.PrerequisiteID]++
		inDegree[rel.DependentID]++
	}

	maxIn, maxOut := 1, 1
	for _, d := range inDegree {
		if d > maxIn {
			maxIn = d
		}
	}
	for _, d := range outDegree {
		if d > maxOut {
			maxOut = d
		}
	}

	for i := range milestones {
		m := &milestones[i]

		base := 0.5
		switch m.Importance {
		case "high":
			base = 0.7
		case "low":
			base = 0.3
		}

		inNorm := float64(inDegree[m.ID]) / float64(maxIn)
		outNorm := float64(outDegree[m.ID]) / float64(maxOut)
		centrality := (inNorm + outNorm) / 2
		connectivity := inNorm*0.3 + outNorm*0.2

		typeBonus := 0.0
		if highValueTypes[m.Type] {
			typeBonus = 0.1
		}
		relevanceBonus := 0.0
		if m.GoalRelevance != "" {
			relevanceBonus = 0.15
		}

		raw := base*0.3 + centrality*0.25 + connectivity*0.15 + typeBonus*0.1 + relevanceBonus*0.2

		score := raw * 10
		if score < 1 {
			score = 1
		}
		if score > 10 {
			score = 10
		}
		m.ImportanceScore = math.Round(score*100) / 100
	}

	return milestones
}
