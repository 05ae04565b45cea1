package cfr_test

import (
	"testing"

	"github.com/fowchess/planner/internal/cfr"
	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/subgame"
)

func mustParse(t *testing.T, fen string) rules.Position {
	t.Helper()
	pos, err := rules.Chess{}.Parse(fen)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return pos
}

// expandRootFully expands the root and initializes its infoset, the
// minimum a test needs before CFR can traverse anything.
func expandRootFully(t *testing.T, r rules.Rules, sg *subgame.Subgame, pos rules.Position) {
	t.Helper()
	root := sg.Root()
	moves := sg.ExpandNode(root, pos)
	if moves == nil {
		t.Fatalf("expected root to have legal moves")
	}
	scored := evaluator.ScoreChildrenPosition(pos)
	key := subgame.InfosetKey{Player: root.Mover, Seq: subgame.RootSequence}
	sg.InitializeInfoset(root, key, scored)
}

func TestIterateDoesNotPanicOnExpandedRoot(t *testing.T) {
	r := rules.Chess{}
	pos := mustParse(t, chess.StartFEN)
	sg := subgame.Construct(r, []rules.Position{pos})
	expandRootFully(t, r, sg, pos)

	solver := cfr.New(r)
	for i := 0; i < 10; i++ {
		solver.Iterate(sg)
	}
	if solver.Iterations() != 10 {
		t.Fatalf("expected 10 iterations, got %d", solver.Iterations())
	}

	key := subgame.InfosetKey{Player: chess.White, Seq: subgame.RootSequence}
	in := sg.Infoset(key)
	var sum float64
	for _, p := range in.Strategy {
		sum += p
	}
	if sum < 1-1e-6 || sum > 1+1e-6 {
		t.Errorf("root strategy should stay normalized, got sum %v", sum)
	}
}

func TestIterateOnTerminalRootIsNoop(t *testing.T) {
	r := rules.Chess{}
	pos := mustParse(t, "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	sg := subgame.Construct(r, []rules.Position{pos})
	sg.ExpandNode(sg.Root(), pos) // marks root terminal, no children

	solver := cfr.New(r)
	solver.Iterate(sg)
	if solver.Iterations() != 1 {
		t.Fatalf("expected the iteration counter to advance even on a terminal root")
	}
	if sg.NodeCount() != 1 {
		t.Fatalf("a terminal root must never grow children under CFR")
	}
}

func TestIterateSwitchesGadgetOnce(t *testing.T) {
	r := rules.Chess{}
	pos := mustParse(t, chess.StartFEN)
	sg := subgame.Construct(r, []rules.Position{pos})
	expandRootFully(t, r, sg, pos)

	if sg.GadgetMode != subgame.Resolve {
		t.Fatalf("expected Resolve gadget before the first iteration")
	}

	solver := cfr.New(r)
	solver.Iterate(sg)

	sg.LatchResolveEntered()
	solver.Iterate(sg)
	if sg.GadgetMode != subgame.Maxmargin {
		t.Errorf("expected Maxmargin once resolve_entered latches")
	}
}

func TestIterateConcentratesStrategyTowardBetterMove(t *testing.T) {
	r := rules.Chess{}
	// from the starting position, with only the root expanded, each
	// opening move's value is its evaluator-seeded Q-value; after enough
	// iterations the regret-matched strategy gives the best-evaluated
	// move positive weight and no move more weight than it.
	pos := mustParse(t, chess.StartFEN)
	sg := subgame.Construct(r, []rules.Position{pos})
	expandRootFully(t, r, sg, pos)

	key := subgame.InfosetKey{Player: chess.White, Seq: subgame.RootSequence}
	in := sg.Infoset(key)
	best := in.BestAction()

	solver := cfr.New(r)
	for i := 0; i < 200; i++ {
		solver.Iterate(sg)
	}

	if in.Strategy[best] <= 0 {
		t.Errorf("expected the best-evaluated opening move to retain positive weight, got %v", in.Strategy[best])
	}
	for a, w := range in.Strategy {
		if w > in.Strategy[best] {
			t.Errorf("action %d has weight %v, more than the best-evaluated move's %v", a, w, in.Strategy[best])
		}
	}
}
