package causality

import (
	"math/rand/v2"
	"slices"
)

// generateGroups partitions milestone ids into overlapping groups for
// analysis. The ids are shuffled, split into groupCount nearly-equal
// contiguous slices (padded with small random combinations when groupCount
// meets or exceeds the id count), and every group is then extended with a
// sample of its circular successor's members. Groups overlap by design:
// pairs that land on a partition boundary would otherwise never be judged
// together in a single pass.
//
// Every id appears in at least one group. There is no guarantee that every
// pair co-occurs in one pass, which is why the caller iterates.
func generateGroups(rng *rand.Rand, milestoneIDs []string, groupCount int) [][]string {
	ids := slices.Clone(milestoneIDs)
	rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	n := len(ids)
	groups := make([][]string, 0, groupCount)

	if groupCount >= n {
		for _, id := range ids {
			groups = append(groups, []string{id})
		}
		for len(groups) < groupCount {
			size := 2
			if n >= 3 && rng.IntN(2) == 1 {
				size = 3
			}
			if size > n {
				size = n
			}
			groups = append(groups, sampleIDs(rng, ids, size))
		}
	} else {
		baseSize := n / groupCount
		remainder := n % groupCount

		start := 0
		for i := 0; i < groupCount; i++ {
			size := baseSize
			if i < remainder {
				size++
			}
			groups = append(groups, slices.Clone(ids[start:start+size]))
			start += size
		}
	}

	extendWithOverlap(rng, groups, n)

	return groups
}

// extendWithOverlap grows each group with a random sample (~30% of the
// average group size, at least one) of the next group's members that it does
// not already contain, wrapping around circularly.
func extendWithOverlap(rng *rand.Rand, groups [][]string, totalIDs int) {
	if len(groups) < 2 {
		return
	}

	overlapSize := int(float64(totalIDs) / float64(len(groups)) * 0.3)
	if overlapSize < 1 {
		overlapSize = 1
	}

	for i := range groups {
		next := (i + 1) % len(groups)

		present := make(map[string]bool, len(groups[i]))
		for _, id := range groups[i] {
			present[id] = true
		}

		candidates := make([]string, 0, len(groups[next]))
		for _, id := range groups[next] {
			if !present[id] {
				candidates = append(candidates, id)
			}
		}

		take := overlapSize
		if take > len(candidates) {
			take = len(candidates)
		}
		groups[i] = append(groups[i], sampleIDs(rng, candidates, take)...)
	}
}

// sampleIDs returns k distinct ids drawn uniformly from ids.
func sampleIDs(rng *rand.Rand, ids []string, k int) []string {
	if k <= 0 {
		return nil
	}
	if k > len(ids) {
		k = len(ids)
	}
	pool := slices.Clone(ids)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
