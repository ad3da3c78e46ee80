package causality

import (
	"fmt"
	"sort"

	"github.com/trailmap-ai/trailmap/pkg/common"
)

const (
	maxCriticalPathLen = 6
	maxFeedbackLoops   = 3
	maxBottlenecks     = 3
	maxStrongestDeps   = 3
	maxInfluenceRanked = 5
)

// nodeDegrees tracks a milestone's connectivity, split by edge class. Hard
// edges (prerequisite, direct_cause, temporal) impose ordering; soft edges
// (supports, enables, indirect_cause) only add weight.
type nodeDegrees struct {
	hardOut int
	hardIn  int
	softOut int
	softIn  int
}

// ComputeNetworkProperties derives the structural summary of a relation set:
// distribution and confidence statistics, foundational and terminal
// milestones, bottlenecks, a critical path, feedback loops, density and
// influence rankings. It is a pure function of its inputs; given the same
// relations in the same order it always returns the same result. Milestone
// slice order breaks all ties, so ids never need to be sorted globally.
func ComputeNetworkProperties(relations []common.Relation, milestones []common.Milestone) common.NetworkProperties {
	props := common.NetworkProperties{
		TotalRelationships: len(relations),
		TotalMilestones:    len(milestones),
	}

	n := len(milestones)
	if n == 0 {
		return props
	}

	ids := make([]string, 0, n)
	position := make(map[string]int, n)
	importance := make(map[string]float64, n)
	for i, m := range milestones {
		ids = append(ids, m.ID)
		position[m.ID] = i
		importance[m.ID] = m.ImportanceScore
	}

	degrees := make(map[string]*nodeDegrees, n)
	for _, id := range ids {
		degrees[id] = &nodeDegrees{}
	}

	// hardSucc preserves relation insertion order per source node.
	hardSucc := make(map[string][]string, n)

	typeDist := make(map[common.RelationKind]int)
	confidenceSum := 0.0
	for _, rel := range relations {
		typeDist[rel.Type]++
		confidenceSum += rel.Confidence

		from, to := degrees[rel.PrerequisiteID], degrees[rel.DependentID]
		if from == nil || to == nil {
			continue
		}
		if common.HardKinds[rel.Type] {
			from.hardOut++
			to.hardIn++
			hardSucc[rel.PrerequisiteID] = append(hardSucc[rel.PrerequisiteID], rel.DependentID)
		} else if common.SoftKinds[rel.Type] {
			from.softOut++
			to.softIn++
		}
	}

	if len(typeDist) > 0 {
		props.TypeDistribution = typeDist
	}
	if len(relations) > 0 {
		props.AverageConfidence = confidenceSum / float64(len(relations))
	}
	if n > 1 {
		props.Density = float64(len(relations)) / float64(n*(n-1))
	}

	for _, id := range ids {
		d := degrees[id]
		if d.hardIn == 0 {
			props.FoundationalIDs = append(props.FoundationalIDs, id)
		}
		if d.hardOut == 0 && d.hardIn > 0 {
			props.TerminalIDs = append(props.TerminalIDs, id)
		}
	}

	props.BottleneckIDs = rankBottlenecks(ids, degrees)
	props.CriticalPath = findCriticalPath(ids, degrees, hardSucc, importance)
	props.FeedbackLoops = findFeedbackLoops(ids, hardSucc)
	props.InfluenceRanking = rankInfluence(ids, degrees)
	props.StrongestDependencies = rankStrongest(relations)

	return props
}

// rankBottlenecks returns the ids with the highest total in-degree, hard and
// soft combined. Milestones nothing points at are not bottlenecks.
func rankBottlenecks(ids []string, degrees map[string]*nodeDegrees) []string {
	type scored struct {
		id    string
		score int
	}
	candidates := make([]scored, 0, len(ids))
	for _, id := range ids {
		d := degrees[id]
		if score := d.hardIn + d.softIn; score > 0 {
			candidates = append(candidates, scored{id: id, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id < candidates[j].id
	})
	if len(candidates) > maxBottlenecks {
		candidates = candidates[:maxBottlenecks]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.id)
	}
	return out
}

// findCriticalPath walks the hard-edge graph greedily. It starts at the most
// important milestone that has no hard prerequisites and repeatedly steps to
// the most important unvisited successor. When every milestone has a hard
// prerequisite (the graph is fully cyclic) it falls back to the first few
// milestones in input order.
func findCriticalPath(
	ids []string,
	degrees map[string]*nodeDegrees,
	hardSucc map[string][]string,
	importance map[string]float64,
) []string {
	start := ""
	for _, id := range ids {
		if degrees[id].hardIn != 0 {
			continue
		}
		if start == "" || importance[id] > importance[start] {
			start = id
		}
	}

	if start == "" {
		fallback := len(ids)
		if fallback > 3 {
			fallback = 3
		}
		path := make([]string, fallback)
		copy(path, ids[:fallback])
		return path
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for len(path) < maxCriticalPathLen {
		next := ""
		for _, succ := range hardSucc[current] {
			if visited[succ] {
				continue
			}
			if next == "" || importance[succ] > importance[next] {
				next = succ
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		visited[next] = true
		current = next
	}
	return path
}

// findFeedbackLoops reports up to maxFeedbackLoops cycles in the hard-edge
// graph using an iterative depth-first search. The traversal keeps an
// explicit stack so deep chains cannot overflow the goroutine stack.
func findFeedbackLoops(ids []string, hardSucc map[string][]string) [][]string {
	var loops [][]string
	visited := make(map[string]bool, len(ids))
	onPath := make(map[string]bool, len(ids))

	type frame struct {
		id   string
		next int
	}

	for _, startID := range ids {
		if visited[startID] {
			continue
		}

		stack := []frame{{id: startID}}
		path := []string{startID}
		visited[startID] = true
		onPath[startID] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := hardSucc[top.id]

			if top.next >= len(succs) {
				onPath[top.id] = false
				stack = stack[:len(stack)-1]
				path = path[:len(path)-1]
				continue
			}

			succ := succs[top.next]
			top.next++

			if onPath[succ] {
				loop := extractLoop(path, succ)
				loops = append(loops, loop)
				if len(loops) >= maxFeedbackLoops {
					return loops
				}
				continue
			}
			if visited[succ] {
				continue
			}

			visited[succ] = true
			onPath[succ] = true
			stack = append(stack, frame{id: succ})
			path = append(path, succ)
		}
	}

	return loops
}

// extractLoop copies the cycle portion of the current traversal path, from
// the revisited node to the end.
func extractLoop(path []string, from string) []string {
	for i, id := range path {
		if id == from {
			loop := make([]string, len(path)-i)
			copy(loop, path[i:])
			return loop
		}
	}
	return nil
}

// rankInfluence scores every milestone by its weighted connectivity. Driving
// other milestones counts the most, being driven counts the least.
func rankInfluence(ids []string, degrees map[string]*nodeDegrees) []common.InfluenceScore {
	ranking := make([]common.InfluenceScore, 0, len(ids))
	for _, id := range ids {
		d := degrees[id]
		score := 3*d.hardOut + 2*d.softOut + d.hardIn
		if score > 0 {
			ranking = append(ranking, common.InfluenceScore{MilestoneID: id, Score: score})
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})
	if len(ranking) > maxInfluenceRanked {
		ranking = ranking[:maxInfluenceRanked]
	}
	return ranking
}

// rankStrongest renders the highest-strength relations as readable edges.
func rankStrongest(relations []common.Relation) []string {
	sorted := make([]common.Relation, len(relations))
	copy(sorted, relations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Strength > sorted[j].Strength
	})
	if len(sorted) > maxStrongestDeps {
		sorted = sorted[:maxStrongestDeps]
	}
	out := make([]string, 0, len(sorted))
	for _, rel := range sorted {
		out = append(out, fmt.Sprintf("%s -> %s", rel.PrerequisiteID, rel.DependentID))
	}
	return out
}
