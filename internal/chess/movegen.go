package chess

// pseudoLegalMoves generates every move obeying piece movement rules,
// without checking whether the mover's own king ends up in check.
func (b *Board) pseudoLegalMoves() []Move {
	us, them := b.SideToMove, b.SideToMove.Other()
	occ := b.Occupied()
	ownOcc := b.colorBB[us]
	theirOcc := b.colorBB[them]

	moves := make([]Move, 0, 32)

	// pawns
	pawns := b.pieceBB[us][Pawn]
	pawns.Squares(func(from Square) {
		single := SquareBB(from).Up(us) &^ occ
		promoRank := 7
		if us == Black {
			promoRank = 0
		}

		if single != Empty {
			to := single.FirstOne()
			moves = append(moves, pawnMoves(from, to, to.Rank() == promoRank, false)...)

			startRank := 1
			if us == Black {
				startRank = 6
			}
			if from.Rank() == startRank {
				double := single.Up(us) &^ occ
				if double != Empty {
					moves = append(moves, Move{From: from, To: double.FirstOne(), Flag: DoublePawnPush})
				}
			}
		}

		captures := PawnAttacks(us, from) & theirOcc
		captures.Squares(func(to Square) {
			moves = append(moves, pawnMoves(from, to, to.Rank() == promoRank, true)...)
		})

		if b.EnPassant != NoSquare && PawnAttacks(us, from).IsSet(b.EnPassant) {
			moves = append(moves, Move{From: from, To: b.EnPassant, Flag: EnPassantCapture})
		}
	})

	// knights
	b.pieceBB[us][Knight].Squares(func(from Square) {
		addSliderLike(&moves, from, KnightAttacks(from)&^ownOcc, theirOcc)
	})

	// bishops / rooks / queens
	b.pieceBB[us][Bishop].Squares(func(from Square) {
		addSliderLike(&moves, from, BishopAttacks(from, occ)&^ownOcc, theirOcc)
	})
	b.pieceBB[us][Rook].Squares(func(from Square) {
		addSliderLike(&moves, from, RookAttacks(from, occ)&^ownOcc, theirOcc)
	})
	b.pieceBB[us][Queen].Squares(func(from Square) {
		addSliderLike(&moves, from, QueenAttacks(from, occ)&^ownOcc, theirOcc)
	})

	// king
	kingSq := b.King(us)
	addSliderLike(&moves, kingSq, KingAttacks(kingSq)&^ownOcc, theirOcc)
	moves = append(moves, b.castlingMoves()...)

	return moves
}

func pawnMoves(from, to Square, promotes, capture bool) []Move {
	if !promotes {
		if capture {
			return []Move{{From: from, To: to, Flag: Capture}}
		}
		return []Move{{From: from, To: to, Flag: Quiet}}
	}

	flag := Promotion
	if capture {
		flag = PromotionCapture
	}

	moves := make([]Move, len(Promotions))
	for i, t := range Promotions {
		moves[i] = Move{From: from, To: to, Flag: flag, Promotion: t}
	}
	return moves
}

func addSliderLike(moves *[]Move, from Square, targets, theirOcc Bitboard) {
	targets.Squares(func(to Square) {
		if theirOcc.IsSet(to) {
			*moves = append(*moves, Move{From: from, To: to, Flag: Capture})
		} else {
			*moves = append(*moves, Move{From: from, To: to, Flag: Quiet})
		}
	})
}

func (b *Board) castlingMoves() []Move {
	us := b.SideToMove
	them := us.Other()
	occ := b.Occupied()

	var moves []Move

	rank := 0
	if us == Black {
		rank = 7
	}
	kingFrom := NewSquare(4, rank)
	if b.King(us) != kingFrom {
		return nil // king has moved off its home square in a variant start; no castling
	}

	kingside, queenside := WhiteKingside, WhiteQueenside
	if us == Black {
		kingside, queenside = BlackKingside, BlackQueenside
	}

	if b.Castling&kingside != 0 {
		f, g := NewSquare(5, rank), NewSquare(6, rank)
		if !occ.IsSet(f) && !occ.IsSet(g) &&
			!b.AttacksTo(kingFrom, them) && !b.AttacksTo(f, them) && !b.AttacksTo(g, them) {
			moves = append(moves, Move{From: kingFrom, To: g, Flag: CastleKingside})
		}
	}

	if b.Castling&queenside != 0 {
		d, c, aFile := NewSquare(3, rank), NewSquare(2, rank), NewSquare(1, rank)
		if !occ.IsSet(d) && !occ.IsSet(c) && !occ.IsSet(aFile) &&
			!b.AttacksTo(kingFrom, them) && !b.AttacksTo(d, them) && !b.AttacksTo(c, them) {
			moves = append(moves, Move{From: kingFrom, To: c, Flag: CastleQueenside})
		}
	}

	return moves
}

// LegalMoves returns every pseudo-legal move that does not leave the
// mover's own king in check.
func (b *Board) LegalMoves() []Move {
	pseudo := b.pseudoLegalMoves()
	legal := make([]Move, 0, len(pseudo))

	us := b.SideToMove
	for _, m := range pseudo {
		child := b.Apply(m)
		if !child.InCheck(us) {
			legal = append(legal, m)
		}
	}
	return legal
}

// Apply returns the board resulting from playing m. It does not
// validate that m is legal or even pseudo-legal.
func (b *Board) Apply(m Move) *Board {
	nb := b.clone()
	us := nb.SideToMove
	them := us.Other()

	movingPiece := nb.squares[m.From]

	nb.EnPassant = NoSquare

	switch m.Flag {
	case EnPassantCapture:
		capturedSq := NewSquare(m.To.File(), m.From.Rank())
		nb.clearSquare(capturedSq)
		nb.clearSquare(m.From)
		nb.fillSquare(m.To, movingPiece)

	case CastleKingside, CastleQueenside:
		rank := m.From.Rank()
		nb.clearSquare(m.From)
		nb.fillSquare(m.To, movingPiece)

		rookFrom, rookTo := NewSquare(7, rank), NewSquare(5, rank)
		if m.Flag == CastleQueenside {
			rookFrom, rookTo = NewSquare(0, rank), NewSquare(3, rank)
		}
		rook := nb.squares[rookFrom]
		nb.clearSquare(rookFrom)
		nb.fillSquare(rookTo, rook)

	case Promotion, PromotionCapture:
		nb.clearSquare(m.To) // no-op unless capture
		nb.clearSquare(m.From)
		nb.fillSquare(m.To, NewPiece(m.Promotion, us))

	default:
		nb.clearSquare(m.To) // no-op unless capture
		nb.clearSquare(m.From)
		nb.fillSquare(m.To, movingPiece)

		if m.Flag == DoublePawnPush {
			nb.EnPassant = NewSquare(m.From.File(), (m.From.Rank()+m.To.Rank())/2)
		}
	}

	// castling rights: moving/capturing a king or rook revokes rights
	nb.Castling &^= castlingLoss(m.From) | castlingLoss(m.To)

	if movingPiece.Type() == Pawn || m.IsCapture() {
		nb.HalfmoveClock = 0
	} else {
		nb.HalfmoveClock++
	}

	if us == Black {
		nb.FullmoveNumber++
	}

	nb.SideToMove = them
	nb.Hash = computeHash(nb)

	return nb
}

func castlingLoss(s Square) CastlingRights {
	switch s {
	case NewSquare(4, 0):
		return WhiteKingside | WhiteQueenside
	case NewSquare(0, 0):
		return WhiteQueenside
	case NewSquare(7, 0):
		return WhiteKingside
	case NewSquare(4, 7):
		return BlackKingside | BlackQueenside
	case NewSquare(0, 7):
		return BlackQueenside
	case NewSquare(7, 7):
		return BlackKingside
	default:
		return NoCastling
	}
}
