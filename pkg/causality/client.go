package causality

import (
	"math/rand/v2"
	"time"
)

// CausalityClient runs iterative, group-based dependency analysis over a
// milestone set. It controls how the pairwise space is sampled (group count,
// iteration budget, coverage target) and how group analyses are executed
// (parallelism, retries).
//
// A CausalityClient should be created using NewCausalityClient. A client is
// not meant to be shared across concurrent runs for different milestone
// sets; each run owns its own accumulator.
type CausalityClient struct {
	groupsPerIteration int
	maxIterations      int
	coverageThreshold  float64
	parallelGroups     int

	rng *rand.Rand
}

// NewCausalityClientParams defines the configuration for creating a new
// CausalityClient.
//
// GroupsPerIteration is the number of milestone groups sampled per round.
// MaxIterations bounds the number of rounds. CoverageThreshold in (0,1]
// stops the loop early once that fraction of ordered pairs has been
// observed. ParallelGroups bounds concurrent group analyses within a round.
// Seed makes the group sampling reproducible; 0 seeds from the clock.
type NewCausalityClientParams struct {
	GroupsPerIteration int
	MaxIterations      int
	CoverageThreshold  float64
	ParallelGroups     int
	Seed               int64
}

// NewCausalityClient creates and returns a CausalityClient configured with
// the provided parameters, applying defaults for zero values.
//
// Example:
//
//	client := causality.NewCausalityClient(causality.NewCausalityClientParams{
//		GroupsPerIteration: 6,
//		MaxIterations:      8,
//		CoverageThreshold:  0.85,
//	})
func NewCausalityClient(params NewCausalityClientParams) *CausalityClient {
	groups := params.GroupsPerIteration
	if groups <= 0 {
		groups = 6
	}
	iterations := params.MaxIterations
	if iterations <= 0 {
		iterations = 8
	}
	threshold := params.CoverageThreshold
	if threshold <= 0 || threshold > 1 {
		threshold = 0.85
	}
	parallel := params.ParallelGroups
	if parallel <= 0 {
		parallel = 1
	}
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &CausalityClient{
		groupsPerIteration: groups,
		maxIterations:      iterations,
		coverageThreshold:  threshold,
		parallelGroups:     parallel,
		rng:                rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1)),
	}
}
