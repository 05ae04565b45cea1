// Package evaluator implements the scalar position evaluator the planner
// core treats as an external collaborator (spec.md §6, "Evaluator").
// The scoring function is a tapered PeSTO evaluation, grounded on
// pkg/search/eval/pesto.go of the teacher repository, squashed into the
// [-1,+1] range the core requires instead of raw centipawns.
package evaluator

import (
	"math"

	"github.com/fowchess/planner/internal/chess"
)

var mgPieceValues = [chess.NType]int{0, 82, 337, 365, 477, 1025, 0}
var egPieceValues = [chess.NType]int{0, 94, 281, 297, 512, 936, 0}

var mgPieceTable = [chess.NType][64]int{
	chess.Pawn:   mgPawn,
	chess.Knight: mgKnight,
	chess.Bishop: mgBishop,
	chess.Rook:   mgRook,
	chess.Queen:  mgQueen,
	chess.King:   mgKing,
}

var egPieceTable = [chess.NType][64]int{
	chess.Pawn:   egPawn,
	chess.Knight: egKnight,
	chess.Bishop: egBishop,
	chess.Rook:   egRook,
	chess.Queen:  egQueen,
	chess.King:   egKing,
}

var phaseInc = [chess.NType]int{0, 0, 1, 1, 2, 4, 0}

// 16 possible Piece values, White/Black x 7 types (type 0 unused).
var mgTable [16][64]int
var egTable [16][64]int

func init() {
	for s := chess.Square(0); s < chess.N; s++ {
		for t := chess.Pawn; t <= chess.King; t++ {
			white := chess.NewPiece(t, chess.White)
			black := chess.NewPiece(t, chess.Black)

			mgTable[white][s] = mgPieceValues[t] + mgPieceTable[t][s^56]
			mgTable[black][s] = mgPieceValues[t] + mgPieceTable[t][s]
			egTable[white][s] = egPieceValues[t] + egPieceTable[t][s^56]
			egTable[black][s] = egPieceValues[t] + egPieceTable[t][s]
		}
	}
}

// centipawns returns the tapered PeSTO evaluation of b from the
// perspective of the side to move, in (roughly) centipawn units.
func centipawns(b *chess.Board) int {
	var mg, eg [chess.NColor]int
	var phase int

	for s := chess.Square(0); s < chess.N; s++ {
		p := b.PieceAt(s)
		if p == chess.NoPiece {
			continue
		}
		c := p.Color()
		mg[c] += mgTable[p][s]
		eg[c] += egTable[p][s]
		phase += phaseInc[p.Type()]
	}

	us, them := b.SideToMove, b.SideToMove.Other()
	mgScore := mg[us] - mg[them]
	egScore := eg[us] - eg[them]

	mgPhase := phase
	if mgPhase > 24 {
		mgPhase = 24
	}
	egPhase := 24 - mgPhase

	return (mgScore*mgPhase + egScore*egPhase) / 24
}

// squash maps a centipawn score onto (-1, +1) with a logistic curve,
// the way chess engines commonly convert a raw score into a win
// probability-like quantity; 400cp maps to roughly +/-0.46.
func squash(cp int) float32 {
	return float32(2/(1+math.Exp(-float64(cp)/400)) - 1)
}
