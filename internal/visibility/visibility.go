// Package visibility computes what a player actually sees of a Fog-of-War
// chess position: a deterministic, pure function of the position and the
// side to move (spec.md §4.1).
package visibility

import (
	"fmt"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/rules"
)

// Observation is a snapshot of what the acting player knows at one ply.
type Observation struct {
	SideToMove         chess.Color
	VisibleSquares     chess.Bitboard
	OwnPieces          map[chess.Square]chess.Piece
	SeenOpponentPieces map[chess.Square]chess.Piece
	EnPassantTarget    chess.Square
	OwnCastlingRights  chess.CastlingRights
	HalfmoveClock      int
	FullmoveNumber     int
}

// Observe computes the Observation of pos from the perspective of its
// side to move.
func Observe(r rules.Rules, pos rules.Position) (Observation, error) {
	own := r.SideToMove(pos)
	them := own.Other()

	occupied := occupiedSquares(r, pos)

	visible := ownPiecesBB(r, pos, own)
	visible |= pawnVisibility(r, pos, own, occupied)
	visible |= pieceVisibility(r, pos, own)

	epTarget := chess.NoSquare
	if ep := r.EnPassant(pos); ep != chess.NoSquare {
		if chess.PawnAttacks(own, ep)&r.PiecesOf(pos, own, chess.Pawn) != chess.Empty {
			visible.Set(ep)
			epTarget = ep
		}
	}

	ownPieces := placementOf(r, pos, own)
	if len(ownPieces) == 0 {
		return Observation{}, fmt.Errorf("visibility: side to move %v has no pieces on board", own)
	}
	if _, ok := ownPieces[r.PiecesOf(pos, own, chess.King).FirstOne()]; !ok {
		return Observation{}, fmt.Errorf("visibility: malformed position: side to move %v has no king", own)
	}

	seenOpponent := make(map[chess.Square]chess.Piece)
	for s := chess.Square(0); s < chess.N; s++ {
		if !visible.IsSet(s) {
			continue
		}
		for t := chess.Pawn; t <= chess.King; t++ {
			if r.PiecesOf(pos, them, t).IsSet(s) {
				seenOpponent[s] = chess.NewPiece(t, them)
				break
			}
		}
	}

	return Observation{
		SideToMove:         own,
		VisibleSquares:     visible,
		OwnPieces:          ownPieces,
		SeenOpponentPieces: seenOpponent,
		EnPassantTarget:    epTarget,
		OwnCastlingRights:  r.CastlingRights(pos, own),
		HalfmoveClock:      r.HalfmoveClock(pos),
		FullmoveNumber:     r.FullmoveNumber(pos),
	}, nil
}

func occupiedSquares(r rules.Rules, pos rules.Position) chess.Bitboard {
	var occ chess.Bitboard
	for _, c := range [2]chess.Color{chess.White, chess.Black} {
		for t := chess.Pawn; t <= chess.King; t++ {
			occ |= r.PiecesOf(pos, c, t)
		}
	}
	return occ
}

func ownPiecesBB(r rules.Rules, pos rules.Position, own chess.Color) chess.Bitboard {
	var bb chess.Bitboard
	for t := chess.Pawn; t <= chess.King; t++ {
		bb |= r.PiecesOf(pos, own, t)
	}
	return bb
}

func placementOf(r rules.Rules, pos rules.Position, c chess.Color) map[chess.Square]chess.Piece {
	placement := make(map[chess.Square]chess.Piece)
	for t := chess.Pawn; t <= chess.King; t++ {
		r.PiecesOf(pos, c, t).Squares(func(s chess.Square) {
			placement[s] = chess.NewPiece(t, c)
		})
	}
	return placement
}

// pawnVisibility implements V_pawn (spec.md §4.1): diagonal attacks are
// always visible; push destinations are visible only when the squares
// in between are empty, so a blocked pawn never reveals its blocker.
func pawnVisibility(r rules.Rules, pos rules.Position, own chess.Color, occupied chess.Bitboard) chess.Bitboard {
	var visible chess.Bitboard

	startRank := 1
	if own == chess.Black {
		startRank = 6
	}

	r.PiecesOf(pos, own, chess.Pawn).Squares(func(from chess.Square) {
		visible |= chess.PawnAttacks(own, from)

		single := chess.SquareBB(from).Up(own) &^ occupied
		if single == chess.Empty {
			return
		}
		visible |= single

		if from.Rank() != startRank {
			return
		}
		double := single.Up(own) &^ occupied
		if double != chess.Empty {
			visible |= double
		}
	})

	return visible
}

// pieceVisibility implements V_piece (spec.md §4.1): the union, over
// every non-pawn own piece, of the squares it could move to in one
// ply. attacks_to(pos, sq, own) returns true for any square attacked by
// any own piece including pawns; unioning it in is harmless since
// pawn-diagonal squares are already covered by pawnVisibility.
func pieceVisibility(r rules.Rules, pos rules.Position, own chess.Color) chess.Bitboard {
	var visible chess.Bitboard
	for _, s := range r.BoardSquares() {
		if r.AttacksTo(pos, s, own) {
			visible.Set(s)
		}
	}
	return visible
}
