package evaluator

import (
	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/rules"
)

// Scored pairs a legal move with its evaluation, in [-1, +1] from the
// perspective of the side to move in the position the move is played
// against.
type Scored struct {
	Move  chess.Move
	Value float32
}

// ScoreChildren evaluates every legal child of pos, returning one
// Scored entry per legal move. It implements the Evaluator
// collaborator's score_children operation: a position with no legal
// moves yields an empty slice, letting the caller distinguish
// checkmate from stalemate using InCheck.
func ScoreChildren(pos *chess.Board) []Scored {
	moves := pos.LegalMoves()
	scored := make([]Scored, len(moves))

	for i, m := range moves {
		child := pos.Apply(m)
		// Score(child) is from the perspective of the side to move in
		// child, i.e. pos's opponent; negate so Value reflects how
		// good the move is for the side choosing it at pos.
		scored[i] = Scored{Move: m, Value: -Score(child)}
	}

	return scored
}

// ScoreChildrenPosition adapts ScoreChildren to the rules.Position
// handle the planner core operates over; the Evaluator collaborator
// is only ever instantiated against internal/chess in this module, so
// the assertion always holds.
func ScoreChildrenPosition(pos rules.Position) []Scored {
	return ScoreChildren(pos.(*chess.Board))
}

// ScorePosition adapts Score to the rules.Position handle, for callers
// (such as cmd/fowplan's "d" command) that do not otherwise need a
// concrete *chess.Board.
func ScorePosition(pos rules.Position) float32 {
	return Score(pos.(*chess.Board))
}

// Score evaluates pos from the perspective of the side to move,
// saturating at +/-1 for checkmate and returning 0 for stalemate.
func Score(pos *chess.Board) float32 {
	if len(pos.LegalMoves()) == 0 {
		if pos.InCheck(pos.SideToMove) {
			return -1 // the side to move has been checkmated
		}
		return 0 // stalemate
	}

	return squash(centipawns(pos))
}
