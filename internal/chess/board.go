package chess

import "strings"

// Board is a complete chess position. It is a plain value type (no
// pointers), so copying a Board deep-copies the position — callers
// reconstruct a live Board from a serialized key rather than share one,
// matching the "node owns a position_key, not a live position object"
// contract of internal/subgame.GameTreeNode.
type Board struct {
	squares [N]Piece

	pieceBB [NColor][NType]Bitboard
	colorBB [NColor]Bitboard

	SideToMove      Color
	Castling        CastlingRights
	EnPassant       Square
	HalfmoveClock   int
	FullmoveNumber  int

	Hash Key
}

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func (b *Board) Occupied() Bitboard {
	return b.colorBB[White] | b.colorBB[Black]
}

func (b *Board) PiecesOf(c Color, t PieceType) Bitboard {
	return b.pieceBB[c][t]
}

func (b *Board) PieceAt(s Square) Piece {
	return b.squares[s]
}

// King returns the square of the given color's king, or NoSquare if
// the position is malformed (no king of that color).
func (b *Board) King(c Color) Square {
	kings := b.pieceBB[c][King]
	if kings == Empty {
		return NoSquare
	}
	return kings.FirstOne()
}

func (b *Board) clearSquare(s Square) {
	p := b.squares[s]
	if p == NoPiece {
		return
	}
	b.colorBB[p.Color()].Unset(s)
	b.pieceBB[p.Color()][p.Type()].Unset(s)
	b.squares[s] = NoPiece
}

func (b *Board) fillSquare(s Square, p Piece) {
	b.colorBB[p.Color()].Set(s)
	b.pieceBB[p.Color()][p.Type()].Set(s)
	b.squares[s] = p
}

// AttacksTo reports whether any piece of color `by` attacks square s.
func (b *Board) AttacksTo(s Square, by Color) bool {
	occ := b.Occupied()

	if PawnAttacks(by.Other(), s)&b.pieceBB[by][Pawn] != Empty {
		return true
	}
	if KnightAttacks(s)&b.pieceBB[by][Knight] != Empty {
		return true
	}
	if KingAttacks(s)&b.pieceBB[by][King] != Empty {
		return true
	}
	bishops := b.pieceBB[by][Bishop] | b.pieceBB[by][Queen]
	if BishopAttacks(s, occ)&bishops != Empty {
		return true
	}
	rooks := b.pieceBB[by][Rook] | b.pieceBB[by][Queen]
	if RookAttacks(s, occ)&rooks != Empty {
		return true
	}
	return false
}

// InCheck reports whether the given color's king is currently attacked.
func (b *Board) InCheck(c Color) bool {
	k := b.King(c)
	if k == NoSquare {
		return false
	}
	return b.AttacksTo(k, c.Other())
}

// BoardSquares returns every square on the board, used by Visibility.
func BoardSquares() []Square {
	squares := make([]Square, N)
	for s := Square(0); s < N; s++ {
		squares[s] = s
	}
	return squares
}

func computeHash(b *Board) Key {
	var h Key
	for s := Square(0); s < N; s++ {
		if p := b.squares[s]; p != NoPiece {
			h ^= pieceKey(p, s)
		}
	}
	h ^= castlingKeys[b.Castling]
	if b.EnPassant != NoSquare {
		h ^= enPassantKeys[b.EnPassant.File()]
	}
	if b.SideToMove == Black {
		h ^= sideToMoveKey
	}
	return h
}

// Hash128 returns a 128-bit fingerprint of the position, combining the
// zobrist key with a splitmix64-derived second key so that it can serve
// as the Rules.PositionKey 128-bit hash required by spec §6.
func (b *Board) Hash128() [16]byte {
	lo := uint64(b.Hash)
	hi := lo + 0x9E3779B97F4A7C15
	hi ^= hi >> 30
	hi *= 0xBF58476D1CE4E5B9
	hi ^= hi >> 27
	hi *= 0x94D049BB133111EB
	hi ^= hi >> 31

	var out [16]byte
	for i := 0; i < 8; i++ {
		out[i] = byte(lo >> (8 * i))
		out[8+i] = byte(hi >> (8 * i))
	}
	return out
}

// clone returns a deep copy (Board has no pointers, a value copy suffices).
func (b *Board) clone() *Board {
	c := *b
	return &c
}

// rankFEN renders one board rank (0=rank1..7=rank8) in FEN order.
func (b *Board) rankFEN(rank int) string {
	var sb strings.Builder
	empty := 0
	for file := 0; file < 8; file++ {
		p := b.squares[NewSquare(file, rank)]
		if p == NoPiece {
			empty++
			continue
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
			empty = 0
		}
		sb.WriteByte(p.FEN())
	}
	if empty > 0 {
		sb.WriteByte(byte('0' + empty))
	}
	return sb.String()
}

func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			p := b.squares[NewSquare(file, rank)]
			if p == NoPiece {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(p.FEN())
			}
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
