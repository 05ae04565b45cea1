package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// NewBoard parses a FEN string into a Board.
func NewBoard(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("chess: invalid fen %q: not enough fields", fen)
	}

	b := &Board{EnPassant: NoSquare}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("chess: invalid fen %q: expected 8 ranks", fen)
	}

	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, r := range rankStr {
			switch {
			case r >= '1' && r <= '8':
				file += int(r - '0')
			default:
				if file > 7 {
					return nil, fmt.Errorf("chess: invalid fen %q: rank overflow", fen)
				}
				b.fillSquare(NewSquare(file, rank), NewPieceFromFEN(byte(r)))
				file++
			}
		}
	}

	switch fields[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
	default:
		return nil, fmt.Errorf("chess: invalid fen %q: bad side to move", fen)
	}

	b.Castling = ParseCastlingRights(fields[2])
	b.EnPassant = ParseSquare(fields[3])

	if len(fields) > 4 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			b.HalfmoveClock = n
		}
	}
	b.FullmoveNumber = 1
	if len(fields) > 5 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			b.FullmoveNumber = n
		}
	}

	b.Hash = computeHash(b)
	return b, nil
}

// FEN serializes the Board into Forsyth-Edwards Notation. This is the
// concrete "position_key" a GameTreeNode stores (§3) and what Rules.Serialize
// returns (§6).
func (b *Board) FEN() string {
	ranks := make([]string, 8)
	for rank := 7; rank >= 0; rank-- {
		ranks[7-rank] = b.rankFEN(rank)
	}

	return fmt.Sprintf(
		"%s %s %s %s %d %d",
		strings.Join(ranks, "/"),
		b.SideToMove,
		b.Castling,
		b.EnPassant,
		b.HalfmoveClock,
		b.FullmoveNumber,
	)
}
