// Package planner implements the orchestrator that ties Visibility,
// BeliefTracker, Subgame, Expander and CFRSolver together into one
// deadline-bounded move decision (spec.md §4.7).
package planner

// Config holds every recognized configuration key of spec.md §6. The
// core reads no on-disk formats or environment variables; a host
// constructs a Config however it likes and passes it to PlanMove.
type Config struct {
	// MinInfosetSize is the number of belief samples used to seed the
	// subgame root (spec.md "min_infoset_size").
	MinInfosetSize int

	// NumExpanderThreads is N_E, the number of Expander goroutines.
	NumExpanderThreads int

	// NumSolverThreads is the number of CFRSolver goroutines (spec.md
	// default 1; the core does not require more than one for the
	// single-threaded last-iterate contract to hold, but nothing
	// prevents a host from running several against disjoint regret
	// tables in a future extension).
	NumSolverThreads int

	// PuctConstant is C in the PUCT score (spec.md §4.5).
	PuctConstant float64

	// MaxSupport bounds the number of actions purification may mix
	// over under Maxmargin (spec.md §4.8).
	MaxSupport int

	// MaxTimeMs is the wall-clock budget for one plan_move call.
	MaxTimeMs int

	// EnableIncrementalBelief selects BeliefTracker.IncrementalFilter
	// over RebuildFromScratch between moves (spec.md §4.2).
	EnableIncrementalBelief bool

	// GracePeriodMs is the pause between stopping the Expanders and
	// stopping the CFRSolver during the graceful-stop sequence (spec.md
	// §4.7 step 7).
	GracePeriodMs int

	// OnTick, when set, is called roughly every TickIntervalMs while
	// workers are running with a live snapshot of Statistics, for a
	// host to drive a progress display. It is never called from more
	// than one goroutine at a time. The core itself never reads it.
	OnTick func(Statistics)

	// TickIntervalMs is the polling period for OnTick; defaulted to
	// 100ms by DefaultConfig. Ignored if OnTick is nil.
	TickIntervalMs int
}

// DefaultConfig returns the configuration defaults listed in spec.md §6.
func DefaultConfig() Config {
	return Config{
		MinInfosetSize:          256,
		NumExpanderThreads:      2,
		NumSolverThreads:        1,
		PuctConstant:            1.0,
		MaxSupport:              3,
		MaxTimeMs:               5000,
		EnableIncrementalBelief: false,
		GracePeriodMs:           10,
		TickIntervalMs:          100,
	}
}
