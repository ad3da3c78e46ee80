package roadmap

import (
	"sort"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

// strongStrengthThreshold is the minimum strength at which a prerequisite
// relation is treated as a hard ordering constraint.
const strongStrengthThreshold = 0.6

type orderEdge struct {
	from, to string
	strength float64
}

// orderMilestones sequences milestones by their strong prerequisite
// relations. Only prerequisite edges with strength above the threshold
// constrain the order; everything else is advisory. Cycles are resolved by
// repeatedly dropping the weakest edge still participating in one. Ties and
// unconstrained milestones keep their input order. Without any strong edges
// the order falls back to importance tiers. Every milestone receives a
// 1-based OrderPosition.
func orderMilestones(milestones []common.Milestone, relations []common.Relation) []common.Milestone {
	n := len(milestones)
	position := make(map[string]int, n)
	for i, m := range milestones {
		position[m.ID] = i
	}

	edges := make([]orderEdge, 0, len(relations))
	for _, rel := range relations {
		if rel.Type != common.RelationPrerequisite || rel.Strength <= strongStrengthThreshold {
			continue
		}
		if _, ok := position[rel.PrerequisiteID]; !ok {
			continue
		}
		if _, ok := position[rel.DependentID]; !ok {
			continue
		}
		if rel.PrerequisiteID == rel.DependentID {
			continue
		}
		edges = append(edges, orderEdge{from: rel.PrerequisiteID, to: rel.DependentID, strength: rel.Strength})
	}

	if len(edges) == 0 {
		return orderByImportance(milestones)
	}

	orderedIDs := topoSort(milestones, edges)
	for orderedIDs == nil {
		// A cycle survived. Drop the weakest strong edge and retry; the
		// edge count shrinks every round so this terminates.
		weakest := 0
		for i := 1; i < len(edges); i++ {
			if edges[i].strength < edges[weakest].strength {
				weakest = i
			}
		}
		edges = append(edges[:weakest], edges[weakest+1:]...)
		orderedIDs = topoSort(milestones, edges)
	}

	byID := make(map[string]common.Milestone, n)
	for _, m := range milestones {
		byID[m.ID] = m
	}
	ordered := make([]common.Milestone, 0, n)
	for i, id := range orderedIDs {
		m := byID[id]
		m.OrderPosition = i + 1
		ordered = append(ordered, m)
	}
	return ordered
}

// topoSort runs Kahn's algorithm over the strong-edge graph. Among the
// milestones that are currently unblocked it always picks the earliest in
// input order, which keeps the result deterministic. Returns nil when the
// graph has a cycle.
func topoSort(milestones []common.Milestone, edges []orderEdge) []string {
	inDegree := make(map[string]int, len(milestones))
	succ := make(map[string][]string, len(milestones))
	for _, m := range milestones {
		inDegree[m.ID] = 0
	}
	for _, e := range edges {
		inDegree[e.to]++
		succ[e.from] = append(succ[e.from], e.to)
	}

	ordered := make([]string, 0, len(milestones))
	placed := make(map[string]bool, len(milestones))

	for len(ordered) < len(milestones) {
		next := ""
		for _, m := range milestones {
			if !placed[m.ID] && inDegree[m.ID] == 0 {
				next = m.ID
				break
			}
		}
		if next == "" {
			return nil
		}
		placed[next] = true
		ordered = append(ordered, next)
		for _, to := range succ[next] {
			inDegree[to]--
		}
	}
	return ordered
}

// orderByImportance is the fallback ordering when no dependency information
// exists: high before medium before low, stable within a tier.
func orderByImportance(milestones []common.Milestone) []common.Milestone {
	rank := map[string]int{"high": 0, "medium": 1, "low": 2}
	ordered := make([]common.Milestone, len(milestones))
	copy(ordered, milestones)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, ok := rank[ordered[i].Importance]
		if !ok {
			ri = 1
		}
		rj, ok := rank[ordered[j].Importance]
		if !ok {
			rj = 1
		}
		return ri < rj
	})
	for i := range ordered {
		ordered[i].OrderPosition = i + 1
	}
	return ordered
}
