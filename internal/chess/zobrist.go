package chess

import "github.com/fowchess/planner/internal/util"

// Key is a zobrist hash of a position, used as Board.Hash and as the
// basis for the 128-bit PositionKey fingerprint required by the Rules
// collaborator (see internal/rules).
type Key uint64

var (
	pieceSquareKeys [NColor][NType][N]Key
	castlingKeys    [16]Key
	enPassantKeys   [8]Key // keyed by file
	sideToMoveKey   Key
)

// zobristSeed is fixed so that Key values (and therefore PositionKey
// values derived from them) are reproducible across runs, which the
// belief-state dedup logic in internal/belief relies on.
const zobristSeed uint64 = 0x9E3779B97F4A7C15

func init() {
	var prng util.PRNG
	prng.Seed(zobristSeed)

	for c := Color(0); c < NColor; c++ {
		for t := PieceType(1); t < NType; t++ {
			for s := Square(0); s < N; s++ {
				pieceSquareKeys[c][t][s] = Key(prng.Uint64())
			}
		}
	}

	for i := range castlingKeys {
		castlingKeys[i] = Key(prng.Uint64())
	}

	for i := range enPassantKeys {
		enPassantKeys[i] = Key(prng.Uint64())
	}

	sideToMoveKey = Key(prng.Uint64())
}

func pieceKey(p Piece, s Square) Key {
	return pieceSquareKeys[p.Color()][p.Type()][s]
}
