// Package rules adapts internal/chess to the Rules collaborator
// interface the planner core is polymorphic over (spec.md §6): move
// generation, make/undo, hashing, and serialization, exposed behind a
// narrow interface so the core never depends on a concrete rules
// engine. Grounded on the teacher's own split between pkg/board (the
// concrete representation) and the UCI layer that only ever calls
// through board.Board's exported methods.
package rules

import (
	"fmt"

	"github.com/fowchess/planner/internal/chess"
)

// Position is an opaque handle to a game position. The core never
// inspects it directly; it only ever round-trips Positions through a
// Rules implementation.
type Position interface {
	fmt.Stringer
}

// Rules is the collaborator interface the planner core consumes in
// place of a concrete rules engine.
type Rules interface {
	LegalMoves(pos Position) []chess.Move
	Apply(pos Position, m chess.Move) Position
	SideToMove(pos Position) chess.Color
	InCheck(pos Position) bool
	PositionKey(pos Position) [16]byte
	Serialize(pos Position) string
	Parse(s string) (Position, error)
	AttacksTo(pos Position, sq chess.Square, by chess.Color) bool
	PiecesOf(pos Position, c chess.Color, t chess.PieceType) chess.Bitboard
	BoardSquares() []chess.Square

	// EnPassant, CastlingRights, HalfmoveClock and FullmoveNumber go
	// beyond the collaborator's minimal listed surface; Visibility
	// needs them to populate the remaining Observation fields without
	// re-parsing the serialized position.
	EnPassant(pos Position) chess.Square
	CastlingRights(pos Position, c chess.Color) chess.CastlingRights
	HalfmoveClock(pos Position) int
	FullmoveNumber(pos Position) int
}

// Chess implements Rules over internal/chess.Board.
type Chess struct{}

var _ Rules = Chess{}

func (Chess) LegalMoves(pos Position) []chess.Move {
	return pos.(*chess.Board).LegalMoves()
}

func (Chess) Apply(pos Position, m chess.Move) Position {
	return pos.(*chess.Board).Apply(m)
}

func (Chess) SideToMove(pos Position) chess.Color {
	return pos.(*chess.Board).SideToMove
}

func (Chess) InCheck(pos Position) bool {
	b := pos.(*chess.Board)
	return b.InCheck(b.SideToMove)
}

func (Chess) PositionKey(pos Position) [16]byte {
	return pos.(*chess.Board).Hash128()
}

func (Chess) Serialize(pos Position) string {
	return pos.(*chess.Board).FEN()
}

func (Chess) Parse(s string) (Position, error) {
	b, err := chess.NewBoard(s)
	if err != nil {
		return nil, fmt.Errorf("rules: parse: %w", err)
	}
	return b, nil
}

func (Chess) AttacksTo(pos Position, sq chess.Square, by chess.Color) bool {
	return pos.(*chess.Board).AttacksTo(sq, by)
}

func (Chess) PiecesOf(pos Position, c chess.Color, t chess.PieceType) chess.Bitboard {
	return pos.(*chess.Board).PiecesOf(c, t)
}

func (Chess) EnPassant(pos Position) chess.Square {
	return pos.(*chess.Board).EnPassant
}

func (Chess) CastlingRights(pos Position, c chess.Color) chess.CastlingRights {
	return pos.(*chess.Board).Castling.Own(c)
}

func (Chess) HalfmoveClock(pos Position) int {
	return pos.(*chess.Board).HalfmoveClock
}

func (Chess) FullmoveNumber(pos Position) int {
	return pos.(*chess.Board).FullmoveNumber
}

func (Chess) BoardSquares() []chess.Square {
	squares := make([]chess.Square, chess.N)
	for s := chess.Square(0); s < chess.N; s++ {
		squares[s] = s
	}
	return squares
}
