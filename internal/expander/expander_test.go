package expander_test

import (
	"testing"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
	"github.com/fowchess/planner/internal/expander"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/subgame"
)

func TestStepExpandsRootThenGrowsTree(t *testing.T) {
	r := rules.Chess{}
	pos, err := r.Parse(chess.StartFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sg := subgame.Construct(r, []rules.Position{pos})

	var exploring uint32
	ex := expander.New(r, evaluator.ScoreChildrenPosition, 1.0, &exploring, 1)

	ex.Step(sg)
	if sg.NodeCount() != 21 {
		t.Fatalf("expected root expansion to add 20 children, got %d nodes", sg.NodeCount())
	}
	root := sg.Root()
	if !root.Expanded {
		t.Fatalf("root should be expanded after one step")
	}

	before := sg.NodeCount()
	ex.Step(sg)
	after := sg.NodeCount()
	if after <= before {
		t.Fatalf("expected a second step to expand a new leaf: before %d, after %d", before, after)
	}
}

func TestStepTogglesExploringSide(t *testing.T) {
	r := rules.Chess{}
	pos, _ := r.Parse(chess.StartFEN)
	sg := subgame.Construct(r, []rules.Position{pos})

	var exploring uint32
	ex := expander.New(r, evaluator.ScoreChildrenPosition, 1.0, &exploring, 1)

	ex.Step(sg)
	first := exploring
	ex.Step(sg)
	second := exploring
	if first == second {
		t.Errorf("exploring side should toggle after each step")
	}
}

func TestStepHandlesTerminalRoot(t *testing.T) {
	r := rules.Chess{}
	pos, _ := r.Parse("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	sg := subgame.Construct(r, []rules.Position{pos})

	var exploring uint32
	ex := expander.New(r, evaluator.ScoreChildrenPosition, 1.0, &exploring, 1)

	ex.Step(sg)
	if sg.NodeCount() != 1 {
		t.Fatalf("a terminal root should never grow children, got %d nodes", sg.NodeCount())
	}
	if !sg.Root().Terminal {
		t.Fatalf("root should be marked terminal")
	}

	before := sg.NodeCount()
	ex.Step(sg) // idempotent: re-stepping a terminal root must not grow the tree
	if sg.NodeCount() != before {
		t.Fatalf("stepping past a terminal root should be a no-op")
	}
}
