// Package expander grows the subgame's tree, PUCT-guided, on N_E worker
// goroutines (spec.md §4.5).
package expander

import (
	"math"
	"sync/atomic"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/subgame"
	"github.com/fowchess/planner/internal/util"
)

// ScoreFunc evaluates the children of a live position, matching the
// Evaluator collaborator's score_children operation (spec.md §6).
type ScoreFunc func(live rules.Position) []evaluator.Scored

// Expander performs PUCT-guided expansion steps against a shared
// Subgame. A single instance's exploringSide field is shared state
// toggled once per step; callers running multiple Expander goroutines
// against the same Subgame must use separate Expander values (one per
// goroutine) constructed with New from the same *uint32 so the toggle itself stays
// correctly serialized under the Subgame's expansion lock.
type Expander struct {
	rules rules.Rules
	score ScoreFunc
	puctC float64

	exploring *uint32 // 0 = white explores, 1 = black explores; shared across workers
	rng       util.PRNG

	expansions int64 // count of leaves expanded with an initialized infoset, for search_statistics
}

// New returns an Expander bound to a shared exploring-side toggle, so
// that N_E goroutines constructed from the same *uint32 alternate the
// exploring side correctly across all of them combined.
func New(r rules.Rules, score ScoreFunc, puctC float64, exploring *uint32, seed uint64) *Expander {
	e := &Expander{rules: r, score: score, puctC: puctC, exploring: exploring}
	e.rng.Seed(seed)
	return e
}

// Expansions returns the number of leaves this Expander has expanded
// and initialized an infoset for, for Planner.search_statistics
// (spec.md §6); expansions that end in a terminal or soft-terminal
// leaf are not counted. Callers
// running N_E Expander instances sum each instance's count.
func (e *Expander) Expansions() int64 {
	return atomic.LoadInt64(&e.expansions)
}

// Run executes expansion steps until running reports zero, checked at
// the top of every loop iteration (spec.md §5 cancellation semantics).
func (e *Expander) Run(sg *subgame.Subgame, running *int32) {
	for atomic.LoadInt32(running) != 0 {
		e.Step(sg)
	}
}

// Step performs one expansion step (spec.md §4.5): acquire the
// expansion lock, descend to an unexpanded node or terminal, expand it,
// score and initialize its infoset, then toggle the exploring side.
func (e *Expander) Step(sg *subgame.Subgame) {
	sg.ExpansionLock.Lock()
	defer sg.ExpansionLock.Unlock()

	root := sg.Root()
	live, err := e.rules.Parse(root.PositionKey)
	if err != nil {
		e.toggleExploringSide()
		return
	}

	cur := root
	for !cur.Terminal && cur.Expanded {
		key := subgame.InfosetKey{Player: cur.Mover, Seq: cur.Sequence(cur.Mover)}
		in := sg.Infoset(key)
		if in == nil || len(in.Actions) == 0 || len(cur.Children) != len(in.Actions) {
			break
		}

		action := e.chooseAction(cur, in)
		live = e.rules.Apply(live, in.Actions[action])
		cur = sg.Node(cur.Children[action])
	}

	if cur.Terminal || cur.Expanded {
		e.toggleExploringSide()
		return
	}

	moves := sg.ExpandNode(cur, live)
	if cur.Terminal {
		e.toggleExploringSide()
		return
	}

	scored := e.score(live)
	if len(scored) == 0 {
		// EvaluatorFailed (spec.md §7): treat as a soft terminal.
		sg.MarkSoftTerminal(cur)
		e.toggleExploringSide()
		return
	}
	if len(scored) != len(moves) {
		// Defensive: an Evaluator that disagrees with Rules about the
		// legal move count cannot seed a consistent infoset.
		sg.MarkSoftTerminal(cur)
		e.toggleExploringSide()
		return
	}

	key := subgame.InfosetKey{Player: cur.Mover, Seq: cur.Sequence(cur.Mover)}
	sg.InitializeInfoset(cur, key, scored)
	atomic.AddInt64(&e.expansions, 1)
	e.toggleExploringSide()
}

// chooseAction picks the descent action at cur's infoset: PUCT argmax
// when cur's mover is the current exploring side, otherwise a sample
// from the infoset's current strategy (spec.md §4.5).
func (e *Expander) chooseAction(cur *subgame.GameTreeNode, in *subgame.InfosetNode) int {
	if cur.Mover != e.exploringSideColor() {
		return e.sampleStrategy(in)
	}

	// 50/50 mix of PUCT argmax and uniform-over-support exploration
	// (spec.md §4.5's exploration-strategy mixing).
	if e.rng.Uint64()%2 == 0 {
		return e.puctArgmax(in)
	}
	if idx, ok := e.sampleUniformSupport(in); ok {
		return idx
	}
	return e.puctArgmax(in)
}

// puctArgmax implements PUCT(I,a) = Q(I,a) + C*sqrt(variance[a])*sqrt(N(I))/(1+N(I,a)).
func (e *Expander) puctArgmax(in *subgame.InfosetNode) int {
	var total int64
	for _, n := range in.VisitCount {
		total += n
	}
	sqrtTotal := math.Sqrt(float64(total))

	best := 0
	bestScore := math.Inf(-1)
	for a := range in.Actions {
		score := in.QValue[a] + e.puctC*math.Sqrt(in.Variance[a])*sqrtTotal/(1+float64(in.VisitCount[a]))
		if score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

func (e *Expander) sampleStrategy(in *subgame.InfosetNode) int {
	if len(in.Strategy) == 0 {
		return 0
	}
	r := float64(e.rng.Uint64()%1_000_000) / 1_000_000
	var cum float64
	for a, p := range in.Strategy {
		cum += p
		if r < cum {
			return a
		}
	}
	return len(in.Strategy) - 1
}

func (e *Expander) sampleUniformSupport(in *subgame.InfosetNode) (int, bool) {
	var support []int
	for a, p := range in.Strategy {
		if p > 0 {
			support = append(support, a)
		}
	}
	if len(support) == 0 {
		return 0, false
	}
	return support[e.rng.Uint64()%uint64(len(support))], true
}

func (e *Expander) exploringSideColor() chess.Color {
	if atomic.LoadUint32(e.exploring) == 0 {
		return chess.White
	}
	return chess.Black
}

func (e *Expander) toggleExploringSide() {
	for {
		old := atomic.LoadUint32(e.exploring)
		if atomic.CompareAndSwapUint32(e.exploring, old, old^1) {
			return
		}
	}
}
