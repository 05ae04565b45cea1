// Package chess implements a small, self-contained chess rules engine:
// board representation, legal move generation, FEN parsing/serialization,
// and zobrist hashing. It backs the concrete Rules collaborator the
// planner core depends on (see internal/rules).
package chess

// Color represents the color of a Piece or a side to move.
type Color int8

const (
	White Color = iota
	Black

	NColor = 2
)

// Other returns the opposing color.
func (c Color) Other() Color {
	return c ^ 1
}

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// PieceType represents the kind of a Piece, ignoring color.
type PieceType int8

const (
	NoType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	NType = 7
)

// Piece is a colored chess piece, or NoPiece.
type Piece int8

const NoPiece Piece = 0

// NewPiece builds a Piece from a type and color. t must not be NoType.
func NewPiece(t PieceType, c Color) Piece {
	return Piece(c)<<3 | Piece(t)
}

// NewPieceFromFEN parses a single FEN piece letter.
func NewPieceFromFEN(r byte) Piece {
	var c Color
	if r >= 'a' && r <= 'z' {
		c = Black
	} else {
		c = White
	}

	switch r {
	case 'P', 'p':
		return NewPiece(Pawn, c)
	case 'N', 'n':
		return NewPiece(Knight, c)
	case 'B', 'b':
		return NewPiece(Bishop, c)
	case 'R', 'r':
		return NewPiece(Rook, c)
	case 'Q', 'q':
		return NewPiece(Queen, c)
	case 'K', 'k':
		return NewPiece(King, c)
	default:
		return NoPiece
	}
}

// Type returns the piece's type.
func (p Piece) Type() PieceType {
	if p == NoPiece {
		return NoType
	}
	return PieceType(p & 7)
}

// Color returns the piece's color. Only valid for p != NoPiece.
func (p Piece) Color() Color {
	return Color(p >> 3)
}

var pieceFENLetters = [...]byte{
	NoType: '.',
	Pawn:   'p',
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
	King:   'k',
}

// FEN returns the single-letter FEN representation of the piece.
func (p Piece) FEN() byte {
	if p == NoPiece {
		return '.'
	}

	letter := pieceFENLetters[p.Type()]
	if p.Color() == White {
		letter -= 'a' - 'A'
	}
	return letter
}

func (p Piece) String() string {
	return string(p.FEN())
}

// Promotions lists the piece types a pawn may promote to, queen first
// so that evaluators which only look at the best child still see the
// strongest promotion by convention.
var Promotions = []PieceType{Queen, Rook, Bishop, Knight}
