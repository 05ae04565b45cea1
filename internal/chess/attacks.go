package chess

// Precomputed attack tables for the non-sliding pieces, grounded on the
// teacher's pkg/attacks package; the sliding (bishop/rook/queen) attacks
// are computed by ray-casting against the live occupancy instead of the
// teacher's magic-bitboard lookup, see DESIGN.md.

var knightAttacks [N]Bitboard
var kingAttacks [N]Bitboard
var pawnAttacks [NColor][N]Bitboard

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func init() {
	for s := Square(0); s < N; s++ {
		f, r := s.File(), s.Rank()

		for _, o := range knightOffsets {
			if nf, nr := f+o[0], r+o[1]; inBoard(nf, nr) {
				knightAttacks[s].Set(NewSquare(nf, nr))
			}
		}

		for _, o := range kingOffsets {
			if nf, nr := f+o[0], r+o[1]; inBoard(nf, nr) {
				kingAttacks[s].Set(NewSquare(nf, nr))
			}
		}

		if nf, nr := f-1, r+1; inBoard(nf, nr) {
			pawnAttacks[White][s].Set(NewSquare(nf, nr))
		}
		if nf, nr := f+1, r+1; inBoard(nf, nr) {
			pawnAttacks[White][s].Set(NewSquare(nf, nr))
		}
		if nf, nr := f-1, r-1; inBoard(nf, nr) {
			pawnAttacks[Black][s].Set(NewSquare(nf, nr))
		}
		if nf, nr := f+1, r-1; inBoard(nf, nr) {
			pawnAttacks[Black][s].Set(NewSquare(nf, nr))
		}
	}
}

func inBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// KnightAttacks returns the knight attack set from s.
func KnightAttacks(s Square) Bitboard { return knightAttacks[s] }

// KingAttacks returns the king attack set from s.
func KingAttacks(s Square) Bitboard { return kingAttacks[s] }

// PawnAttacks returns the diagonal pawn attack set from s for color c.
func PawnAttacks(c Color, s Square) Bitboard { return pawnAttacks[c][s] }

// rayAttacks casts rays from s along dirs until blocked by occ (inclusive
// of the blocking square) or the board edge.
func rayAttacks(s Square, occ Bitboard, dirs [4][2]int) Bitboard {
	var attacks Bitboard
	f, r := s.File(), s.Rank()

	for _, d := range dirs {
		nf, nr := f+d[0], r+d[1]
		for inBoard(nf, nr) {
			sq := NewSquare(nf, nr)
			attacks.Set(sq)
			if occ.IsSet(sq) {
				break
			}
			nf += d[0]
			nr += d[1]
		}
	}

	return attacks
}

// BishopAttacks returns the diagonal slider attack set from s given occ.
func BishopAttacks(s Square, occ Bitboard) Bitboard {
	return rayAttacks(s, occ, bishopDirs)
}

// RookAttacks returns the orthogonal slider attack set from s given occ.
func RookAttacks(s Square, occ Bitboard) Bitboard {
	return rayAttacks(s, occ, rookDirs)
}

// QueenAttacks returns the combined diagonal+orthogonal attack set.
func QueenAttacks(s Square, occ Bitboard) Bitboard {
	return BishopAttacks(s, occ) | RookAttacks(s, occ)
}

// AttacksFrom returns the squares attacked by a piece of type t and
// color c standing on s, given the board occupancy occ. Visibility and
// Board.AttacksTo use the per-piece functions above directly rather
// than this dispatcher.
func AttacksFrom(t PieceType, c Color, s Square, occ Bitboard) Bitboard {
	switch t {
	case Pawn:
		return PawnAttacks(c, s)
	case Knight:
		return KnightAttacks(s)
	case Bishop:
		return BishopAttacks(s, occ)
	case Rook:
		return RookAttacks(s, occ)
	case Queen:
		return QueenAttacks(s, occ)
	case King:
		return KingAttacks(s)
	default:
		return Empty
	}
}
