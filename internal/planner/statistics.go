package planner

import "fmt"

// Statistics is the opaque search_statistics() struct of spec.md §6:
// integer counters a host may print in any convenient key-value
// format. It is not a wire protocol.
type Statistics struct {
	Nodes         int
	Infosets      int
	BeliefSize    int
	AvgDepth      float64
	CFRIterations int64
	Expansions    int64
	ElapsedMs     int64

	// Bootstrapped reports that no CFR iteration completed before the
	// stop signal (spec.md §7 DeadlineReachedBeforeFirstIteration): the
	// returned move is the evaluator's argmax child at the root rather
	// than a purified CFR strategy sample.
	Bootstrapped bool
}

// String renders Statistics in the convenient key-value format spec.md
// §6 calls for, grounded on the teacher's Report.String() (pkg/search/
// stats.go), which folds a search's counters into one line of
// space-separated "key value" pairs.
func (s Statistics) String() string {
	return fmt.Sprintf(
		"nodes %d infosets %d belief_size %d avg_depth %.2f cfr_iterations %d expansions %d time %d bootstrapped %t",
		s.Nodes, s.Infosets, s.BeliefSize, s.AvgDepth, s.CFRIterations, s.Expansions, s.ElapsedMs, s.Bootstrapped,
	)
}
