package planner

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fowchess/planner/internal/belief"
	"github.com/fowchess/planner/internal/cfr"
	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
	"github.com/fowchess/planner/internal/expander"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/subgame"
	"github.com/fowchess/planner/internal/timemgr"
	"github.com/fowchess/planner/internal/visibility"
)

// Planner orchestrates one depth-limited imperfect-information move
// decision per spec.md §4.7: it ingests an Observation, builds a
// Subgame, runs Expander and CFRSolver workers concurrently until a
// deadline, purifies the root strategy, and emits a Move.
//
// A Planner is reused across an entire game: it owns the belief
// tracker (which accumulates observation history within the game) and
// the prior equilibrium value the Resolve gadget's v_alt needs across
// successive re-solves (spec.md §4.4, §9).
type Planner struct {
	rules rules.Rules
	score expander.ScoreFunc

	tracker *belief.Tracker

	mu             sync.Mutex
	priorRootValue float64
	lastGadgetMode subgame.GadgetMode
}

// New returns a Planner bound to a Rules collaborator; the Evaluator
// collaborator is internal/evaluator's score_children, reached through
// the rules.Position-typed adapter so the core stays polymorphic over
// both (spec.md §6, §9).
func New(r rules.Rules) *Planner {
	return NewWithEvaluator(r, evaluator.ScoreChildrenPosition)
}

// NewWithEvaluator returns a Planner bound to an explicit Evaluator
// collaborator, letting a host (or a test) swap in a different scoring
// function without touching the core (spec.md §9 "polymorphic over two
// capability sets").
func NewWithEvaluator(r rules.Rules, score expander.ScoreFunc) *Planner {
	return &Planner{
		rules:   r,
		score:   score,
		tracker: belief.NewTracker(r),
	}
}

// NewGame clears the observation history and prior equilibrium value
// between games (spec.md §3 ObservationHistory: "append-only within a
// game; cleared between games").
func (p *Planner) NewGame() {
	p.tracker.Reset()
	p.mu.Lock()
	p.priorRootValue = 0
	p.lastGadgetMode = subgame.Resolve
	p.mu.Unlock()
}

// BeliefEnumerationCap returns the bound on a from-scratch rebuild's
// Monte-Carlo completion pass (spec.md §4.2), for a host sizing a
// progress bar around it.
func (p *Planner) BeliefEnumerationCap() int {
	return belief.EnumerationCap
}

// SetBeliefProgress wires a progress callback into the belief
// tracker's from-scratch rebuild pass, for a host to drive a progress
// bar over BeliefState's candidate enumeration (spec.md §4.2).
func (p *Planner) SetBeliefProgress(fn func(done, total int)) {
	p.tracker.Progress = fn
}

// LastGadgetMode reports the gadget mode the most recently completed
// PlanMove call ended in, for a host to surface alongside
// search_statistics.
func (p *Planner) LastGadgetMode() subgame.GadgetMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastGadgetMode
}

// PlanMove implements spec.md §4.7's plan_move(pos, config) -> Move.
// seed drives the belief RNGs this call touches (belief sampling,
// Monte-Carlo completion); each Expander's exploration RNG is seeded
// with its worker index plus one; stochastic purified-strategy
// sampling uses a separate, non-deterministic source per spec.md §9.
func (p *Planner) PlanMove(pos rules.Position, cfg Config, seed uint64) (chess.Move, Statistics, error) {
	obs, err := visibility.Observe(p.rules, pos)
	if err != nil {
		return chess.Null, Statistics{}, fmt.Errorf("%w: %w", ErrMalformedObservation, err)
	}

	if cfg.EnableIncrementalBelief && p.tracker.Size() > 0 {
		p.tracker.IncrementalFilter(obs)
	} else {
		p.tracker.RebuildFromScratch(pos, obs, seed)
	}

	samples := p.tracker.Sample(cfg.MinInfosetSize, seed)
	if len(samples) == 0 {
		// ObservationInconsistent (spec.md §7): the belief filter
		// emptied P. Fall back to seeding with the true position.
		log.Printf("planner: belief set empty after filtering, seeding subgame with the true position")
		samples = []rules.Position{pos}
	}

	sg := subgame.Construct(p.rules, samples)
	sg.AltValue = p.altValue

	stats := Statistics{BeliefSize: len(samples), Nodes: 1}

	if cfg.MaxTimeMs <= 0 {
		// DeadlineReachedBeforeFirstIteration (spec.md §7): a
		// non-positive time budget never runs a worker.
		stats.Bootstrapped = true
		move, value := bestScoredMove(p.score(samples[0]))
		p.mu.Lock()
		p.priorRootValue = value
		p.mu.Unlock()
		return move, stats, nil
	}

	start := time.Now()

	iterations, expansions := p.runWorkers(sg, cfg)
	stats.CFRIterations = iterations
	stats.Expansions = expansions

	stats.ElapsedMs = time.Since(start).Milliseconds()
	stats.Nodes = sg.NodeCount()
	stats.Infosets = sg.InfosetCount()
	stats.AvgDepth = sg.AvgDepth()

	rootKey := subgame.InfosetKey{Player: sg.RootMover, Seq: subgame.RootSequence}
	root := sg.Infoset(rootKey)
	if root == nil || len(root.Actions) == 0 {
		return chess.Null, stats, ErrRootHasNoActions
	}

	p.mu.Lock()
	p.lastGadgetMode = sg.GadgetMode
	p.mu.Unlock()

	if stats.CFRIterations == 0 {
		// DeadlineReachedBeforeFirstIteration (spec.md §7): bootstrap
		// with the evaluator's argmax child at the root.
		stats.Bootstrapped = true
		move, value := bestScoredMove(p.score(samples[0]))
		p.mu.Lock()
		p.priorRootValue = value
		p.mu.Unlock()
		return move, stats, nil
	}

	purified := subgame.Purify(root, sg.GadgetMode, cfg.MaxSupport)
	move := p.sampleMove(root, purified, sg.GadgetMode)

	p.mu.Lock()
	p.priorRootValue = root.Value
	p.mu.Unlock()

	return move, stats, nil
}

// runWorkers launches cfg.NumExpanderThreads Expander goroutines and
// cfg.NumSolverThreads CFRSolver goroutines against sg, sleeps for the
// configured time budget, then performs the mandatory graceful stop
// sequence of spec.md §4.7 step 7: stop Expanders, wait a grace
// period so the tree stops growing, stop the CFRSolver, join.
func (p *Planner) runWorkers(sg *subgame.Subgame, cfg Config) (iterations, expansions int64) {
	var runningExpanders int32 = 1
	var runningSolvers int32 = 1
	var exploringSide uint32

	var wg sync.WaitGroup

	expanders := make([]*expander.Expander, cfg.NumExpanderThreads)
	for i := range expanders {
		ex := expander.New(p.rules, p.score, cfg.PuctConstant, &exploringSide, uint64(i)+1)
		expanders[i] = ex
		wg.Add(1)
		go func(ex *expander.Expander) {
			defer wg.Done()
			ex.Run(sg, &runningExpanders)
		}(ex)
	}

	solvers := make([]*cfr.Solver, cfg.NumSolverThreads)
	for i := range solvers {
		s := cfr.New(p.rules)
		solvers[i] = s
		wg.Add(1)
		go func(s *cfr.Solver) {
			defer wg.Done()
			s.Run(sg, &runningSolvers)
		}(s)
	}

	if cfg.MaxTimeMs > 0 {
		mgr := &timemgr.MoveManager{Duration: time.Duration(cfg.MaxTimeMs) * time.Millisecond}
		mgr.GetDeadline()

		interval := pollInterval
		if cfg.OnTick != nil && cfg.TickIntervalMs > 0 {
			interval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
		}

		for !mgr.Expired() {
			time.Sleep(minDuration(mgr.Remaining(), interval))
			if cfg.OnTick != nil {
				cfg.OnTick(Statistics{
					Nodes:         sg.NodeCount(),
					Infosets:      sg.InfosetCount(),
					AvgDepth:      sg.AvgDepth(),
					CFRIterations: sumIterations(solvers),
					Expansions:    sumExpansions(expanders),
				})
			}
		}
	}

	atomic.StoreInt32(&runningExpanders, 0)
	if cfg.GracePeriodMs > 0 {
		time.Sleep(time.Duration(cfg.GracePeriodMs) * time.Millisecond)
	}
	atomic.StoreInt32(&runningSolvers, 0)

	wg.Wait()

	return sumIterations(solvers), sumExpansions(expanders)
}

func sumExpansions(expanders []*expander.Expander) int64 {
	var total int64
	for _, ex := range expanders {
		total += ex.Expansions()
	}
	return total
}

func sumIterations(solvers []*cfr.Solver) int64 {
	var total int64
	for _, s := range solvers {
		total += s.Iterations()
	}
	return total
}

// altValue supplies v_alt for a Resolve entry infoset (spec.md §4.4):
// min(heuristic_eval(state), v*). The core's InfosetNode does not
// carry a live position handle, so the entry's own current value
// estimate stands in for heuristic_eval(state); v* is the prior
// solve's root infoset value (or, after a bootstrapped call, the
// evaluator's best root score), persisted across PlanMove calls on this
// Planner (spec.md §9 flags compute_alternative_value as stubbed in
// the source; this is the concrete choice this implementation makes).
func (p *Planner) altValue(entry *subgame.InfosetNode) float64 {
	p.mu.Lock()
	prior := p.priorRootValue
	p.mu.Unlock()
	if entry.Value < prior {
		return entry.Value
	}
	return prior
}

// sampleMove draws a move from the purified distribution dist over
// root.Actions. Under Resolve, or whenever the purified distribution
// has collapsed to a single action, play is deterministic (spec.md
// §4.7 step 8); otherwise math/rand's global, non-deterministic source
// samples the mix, distinct from the deterministic belief-sampling RNG
// (spec.md §9).
func (p *Planner) sampleMove(root *subgame.InfosetNode, dist []float64, mode subgame.GadgetMode) chess.Move {
	support := 0
	argmax := 0
	for a, w := range dist {
		if w > 0 {
			support++
			if w > dist[argmax] {
				argmax = a
			}
		}
	}

	if mode == subgame.Resolve || support <= 1 {
		return root.Actions[argmax]
	}

	r := rand.Float64()
	var cum float64
	for a, w := range dist {
		cum += w
		if r < cum {
			return root.Actions[a]
		}
	}
	return root.Actions[argmax]
}

// pollInterval bounds how long runWorkers sleeps between deadline
// checks, so a short MaxTimeMs budget still gets a responsive stop.
const pollInterval = 10 * time.Millisecond

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// bestScoredMove returns the highest-valued move from scored and its
// value, used by the bootstrap policy (spec.md §7) when no CFR
// iteration completed in time.
func bestScoredMove(scored []evaluator.Scored) (chess.Move, float64) {
	if len(scored) == 0 {
		return chess.Null, 0
	}
	best := 0
	for i, s := range scored {
		if s.Value > scored[best].Value {
			best = i
		}
	}
	return scored[best].Move, float64(scored[best].Value)
}
