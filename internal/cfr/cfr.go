// Package cfr implements the last-iterate, regret-matching-plus
// traversal of a Subgame's tree (spec.md §4.6): PCFR+ with PRM+.
package cfr

import (
	"math"
	"sync/atomic"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/subgame"
)

// Solver runs CFR traversals against a shared Subgame on a single
// goroutine (spec.md §5: one CFRSolver worker).
type Solver struct {
	rules      rules.Rules
	iterations int64
}

// New returns a Solver bound to a Rules collaborator.
func New(r rules.Rules) *Solver {
	return &Solver{rules: r}
}

// Iterations returns the number of completed CFR iterations.
func (s *Solver) Iterations() int64 {
	return atomic.LoadInt64(&s.iterations)
}

// Run executes iterations until running reports zero, checked at the
// top of every loop iteration (spec.md §5).
func (s *Solver) Run(sg *subgame.Subgame, running *int32) {
	for atomic.LoadInt32(running) != 0 {
		s.Iterate(sg)
	}
}

// Iterate performs one CFR iteration (spec.md §4.6): gadget switching,
// then one traversal updating WHITE's regrets and one updating
// BLACK's.
func (s *Solver) Iterate(sg *subgame.Subgame) {
	sg.SwitchGadget()

	root := sg.Root()
	if root.Terminal {
		atomic.AddInt64(&s.iterations, 1)
		return
	}
	if !root.Expanded {
		// Nothing to traverse yet: the Expander has not published the
		// root infoset. Do not count this as a completed iteration, so
		// Planner's DeadlineReachedBeforeFirstIteration check (spec.md
		// §7) reflects whether any real traversal happened.
		return
	}

	live, err := s.rules.Parse(root.PositionKey)
	if err != nil {
		return
	}

	s.traverse(sg, root, live, chess.White, 1, 1)
	s.traverse(sg, root, live, chess.Black, 1, 1)

	atomic.AddInt64(&s.iterations, 1)
}

// traverse returns the value of node from updatePlayer's perspective,
// updating updatePlayer's regrets and strategy at every node it owns
// along the way. Children outside the 2-KLUSS frontier, and children
// not yet expanded, take the parent infoset's stored QValue without
// recursion (spec.md §4.6). A node whose child list does not line up
// with its infoset's actions contributes 0.
func (s *Solver) traverse(sg *subgame.Subgame, node *subgame.GameTreeNode, live rules.Position, updatePlayer chess.Color, reachUpdate, reachOpp float64) float64 {
	if node.Terminal {
		if node.Mover == updatePlayer {
			return float64(node.TerminalValue)
		}
		return -float64(node.TerminalValue)
	}

	key := subgame.InfosetKey{Player: node.Mover, Seq: node.Sequence(node.Mover)}
	in := sg.Infoset(key)
	if in == nil || len(in.Actions) == 0 || len(node.Children) != len(in.Actions) {
		return 0
	}
	if sum(in.Strategy) == 0 {
		in.RegretMatch()
	}

	actionValues := make([]float64, len(in.Actions))
	var nodeValue float64

	for a, move := range in.Actions {
		child := sg.Node(node.Children[a])

		var v float64
		if !child.InKLUSS || !child.Expanded {
			v = in.QValue[a]
			if node.Mover != updatePlayer {
				v = -v
			}
		} else {
			childLive := s.rules.Apply(live, move)
			nextUpdate, nextOpp := reachUpdate, reachOpp
			if node.Mover == updatePlayer {
				nextUpdate = reachUpdate * in.Strategy[a]
			} else {
				nextOpp = reachOpp * in.Strategy[a]
			}
			v = s.traverse(sg, child, childLive, updatePlayer, nextUpdate, nextOpp)
		}

		actionValues[a] = v
		nodeValue += in.Strategy[a] * v
	}

	if sg.GadgetMode == subgame.Resolve && sg.IsEntry(key) {
		nodeValue = s.applyResolveGadget(sg, in, nodeValue)
	}

	if node.Mover == updatePlayer {
		for a := range in.Actions {
			instant := actionValues[a] - nodeValue
			in.Regret[a] = math.Max(0, in.Regret[a]+reachOpp*instant)
			in.VisitCount[a]++
		}
		in.RegretMatch()
		in.TotalVisits++
	}

	in.Value = nodeValue
	return nodeValue
}

// applyResolveGadget gives the opponent an opt-out at a subgame entry
// infoset (spec.md §4.4, §4.6): v_alt(I) is added to the counterfactual
// value so the opponent is free to opt out, and a strategy
// concentrating away from the opt-out latches resolve_entered,
// switching every subsequent iteration to Maxmargin.
func (s *Solver) applyResolveGadget(sg *subgame.Subgame, in *subgame.InfosetNode, nodeValue float64) float64 {
	vAlt := in.Value // stubbed fallback (spec.md §9 compute_alternative_value)
	if sg.AltValue != nil {
		vAlt = sg.AltValue(in)
	}

	committed := 0.0
	for _, p := range in.Strategy {
		if p > committed {
			committed = p
		}
	}
	if committed >= resolveExitThreshold {
		sg.LatchResolveEntered()
	}

	return nodeValue + vAlt
}

const resolveExitThreshold = 0.5

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
