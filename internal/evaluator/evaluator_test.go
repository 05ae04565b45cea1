package evaluator_test

import (
	"testing"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
)

func TestScoreRange(t *testing.T) {
	b, err := chess.NewBoard(chess.StartFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	v := evaluator.Score(b)
	if v < -1 || v > 1 {
		t.Errorf("score out of range: %v", v)
	}
}

func TestScoreSymmetricAtStartpos(t *testing.T) {
	b, err := chess.NewBoard(chess.StartFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if v := evaluator.Score(b); v != 0 {
		t.Errorf("expected a perfectly symmetric startpos to score 0, got %v", v)
	}
}

func TestScoreChildrenCoversAllLegalMoves(t *testing.T) {
	b, err := chess.NewBoard(chess.StartFEN)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	scored := evaluator.ScoreChildren(b)
	if len(scored) != 20 {
		t.Fatalf("expected 20 scored children at startpos, got %d", len(scored))
	}

	for _, s := range scored {
		if s.Value < -1 || s.Value > 1 {
			t.Errorf("move %s: value out of range: %v", s.Move, s.Value)
		}
	}
}

func TestScoreDetectsCheckmate(t *testing.T) {
	// fool's mate final position: white to move, checkmated.
	b, err := chess.NewBoard("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if v := evaluator.Score(b); v != -1 {
		t.Errorf("expected checkmated side to score -1, got %v", v)
	}
}
