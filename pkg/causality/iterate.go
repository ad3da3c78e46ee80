package causality

import (
	"context"
	"sync"

	"github.com/trailmap-ai/trailmap/pkg/common"
	"github.com/trailmap-ai/trailmap/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// IdentifyDependencies runs the iterative, group-based dependency analysis:
// sample overlapping milestone groups, have the analyzer judge each group,
// merge the judgments keeping the highest-confidence relation per ordered
// pair, and repeat until the coverage target or the iteration budget is
// reached. Analyzer failures for a single group are logged and treated as
// zero relations; they never abort the run. Relations whose endpoints are
// not both members of the group they came from are discarded at the merge,
// whatever the analyzer implementation returned.
//
// Milestone sets of size 0 or 1 have no pairs to judge and return a trivial
// result without invoking the analyzer.
func (c *CausalityClient) IdentifyDependencies(
	ctx context.Context,
	goalTitle string,
	milestones []common.Milestone,
	analyzer GroupAnalyzer,
) (*common.DependencyAnalysis, error) {
	n := len(milestones)
	totalPossiblePairs := n * (n - 1)

	if totalPossiblePairs == 0 {
		props := ComputeNetworkProperties(nil, milestones)
		return &common.DependencyAnalysis{
			Dependencies:      []common.Relation{},
			NetworkProperties: props,
			Metadata: &common.AnalysisMetadata{
				TotalIterations:    0,
				PairsAnalyzed:      0,
				TotalPossiblePairs: 0,
				CoveragePercentage: 1.0,
				DependenciesFound:  0,
				GroupsPerIteration: c.groupsPerIteration,
			},
		}, nil
	}

	targetPairs := int(float64(totalPossiblePairs) * c.coverageThreshold)

	logger.Info(
		"[Causality] Starting iterative dependency analysis",
		"milestones", n,
		"groups_per_iteration", c.groupsPerIteration,
		"total_possible_pairs", totalPossiblePairs,
		"target_pairs", targetPairs,
	)

	milestoneIDs := make([]string, 0, n)
	byID := make(map[string]common.Milestone, n)
	for _, m := range milestones {
		milestoneIDs = append(milestoneIDs, m.ID)
		byID[m.ID] = m
	}

	tracker := newCoverageTracker(milestones)
	iterationsRun := 0

	for iteration := 0; iteration < c.maxIterations; iteration++ {
		iterationsRun = iteration + 1
		groups := generateGroups(c.rng, milestoneIDs, c.groupsPerIteration)

		eg, gCtx := errgroup.WithContext(ctx)
		eg.SetLimit(c.parallelGroups)
		var mergeMu sync.Mutex

		for idx, group := range groups {
			groupIdx, groupIDs := idx, group
			eg.Go(func() error {
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				default:
				}

				groupMilestones := make([]common.Milestone, 0, len(groupIDs))
				members := make(map[string]bool, len(groupIDs))
				for _, id := range groupIDs {
					groupMilestones = append(groupMilestones, byID[id])
					members[id] = true
				}

				relations, err := analyzer.AnalyzeGroup(gCtx, goalTitle, groupMilestones)
				if err != nil {
					if gCtx.Err() != nil {
						return gCtx.Err()
					}
					logger.Warn(
						"[Causality] Group analysis failed, continuing",
						"iteration", iteration+1,
						"group", groupIdx+1,
						"size", len(groupIDs),
						"err", err,
					)
					return nil
				}

				mergeMu.Lock()
				defer mergeMu.Unlock()
				for _, rel := range relations {
					// The tracker only knows the full milestone set, so
					// group membership has to be enforced here. An analyzer
					// that leaks ids from outside its group must not gain
					// coverage for pairs it never actually judged.
					if !members[rel.PrerequisiteID] || !members[rel.DependentID] {
						continue
					}
					tracker.add(rel)
				}
				return nil
			})
		}

		if err := eg.Wait(); err != nil {
			return nil, err
		}

		coverage := float64(tracker.pairsCovered()) / float64(totalPossiblePairs)
		logger.Info(
			"[Causality] Iteration complete",
			"iteration", iteration+1,
			"pairs_analyzed", tracker.pairsCovered(),
			"relations", tracker.relationCount(),
			"coverage", coverage,
		)

		if tracker.pairsCovered() >= targetPairs {
			logger.Info("[Causality] Reached target coverage, stopping early", "iteration", iteration+1)
			break
		}
	}

	relations := tracker.list()
	props := ComputeNetworkProperties(relations, milestones)

	return &common.DependencyAnalysis{
		Dependencies:      relations,
		NetworkProperties: props,
		Metadata: &common.AnalysisMetadata{
			TotalIterations:    iterationsRun,
			PairsAnalyzed:      tracker.pairsCovered(),
			TotalPossiblePairs: totalPossiblePairs,
			CoveragePercentage: float64(tracker.pairsCovered()) / float64(totalPossiblePairs),
			DependenciesFound:  len(relations),
			GroupsPerIteration: c.groupsPerIteration,
		},
	}, nil
}
