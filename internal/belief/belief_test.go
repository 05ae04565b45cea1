package belief

import (
	"testing"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/visibility"
)

func mustParse(t *testing.T, fen string) rules.Position {
	t.Helper()
	pos, err := rules.Chess{}.Parse(fen)
	if err != nil {
		t.Fatalf("parse %q: %v", fen, err)
	}
	return pos
}

// TestIncrementalFilterNarrowsBeliefSet realizes the five-states-down-
// to-three scenario of spec.md §8 scenario 5: five candidate positions
// differ only in where black's queenside knight sits (three with it
// unmoved on b8, two with it developed to c6), all consistent with a
// first observation that does not see the queenside; a second observation
// that reveals c6 to be empty narrows the set to the three candidates
// consistent with that.
func TestIncrementalFilterNarrowsBeliefSet(t *testing.T) {
	r := rules.Chess{}

	const knightOnC6 = "r1bqkbnr/pppppppp/2n5/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"
	const knightOnB8 = "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2"

	// two candidates place black's knight on c6 (to be eliminated once
	// c6 is observed empty), three leave it on b8 (consistent either way).
	fens := []string{knightOnC6, knightOnC6, knightOnB8, knightOnB8, knightOnB8}

	var states []rules.Position
	for _, fen := range fens {
		states = append(states, mustParse(t, fen))
	}

	tr := &Tracker{rules: r, states: states}

	// obs sees only own (white) pieces and the e-file push; c6 is not visible.
	obsNarrow := visibility.Observation{
		SideToMove:         chess.White,
		VisibleSquares:     ownSquaresOnly(r, states[0], chess.White),
		OwnPieces:          placementWithin(r, states[0], chess.White, chess.Empty, true),
		SeenOpponentPieces: map[chess.Square]chess.Piece{},
		EnPassantTarget:    chess.NoSquare,
		OwnCastlingRights:  r.CastlingRights(states[0], chess.White),
		HalfmoveClock:      0,
		FullmoveNumber:     1,
	}

	tr.IncrementalFilter(obsNarrow)
	if tr.Size() != 5 {
		t.Fatalf("expected all 5 candidates to survive the first filter, got %d", tr.Size())
	}

	// second observation additionally sees c6 as empty, eliminating the
	// two candidates with a piece on c6.
	c6 := chess.ParseSquare("c6")
	obsSeesC6 := obsNarrow
	obsSeesC6.VisibleSquares = obsNarrow.VisibleSquares
	obsSeesC6.VisibleSquares.Set(c6)

	tr.IncrementalFilter(obsSeesC6)
	if tr.Size() != 3 {
		t.Fatalf("expected 3 candidates to survive the second filter, got %d", tr.Size())
	}
}

func ownSquaresOnly(r rules.Rules, p rules.Position, c chess.Color) chess.Bitboard {
	var bb chess.Bitboard
	for t := chess.Pawn; t <= chess.King; t++ {
		bb |= r.PiecesOf(p, c, t)
	}
	return bb
}

func TestIncrementalFilterNeverAddsStates(t *testing.T) {
	r := rules.Chess{}
	tr := NewTracker(r)
	tr.states = []rules.Position{mustParse(t, chess.StartFEN)}

	obs := visibility.Observation{
		SideToMove:         chess.White,
		VisibleSquares:     ownSquaresOnly(r, tr.states[0], chess.White),
		OwnPieces:          placementWithin(r, tr.states[0], chess.White, chess.Empty, true),
		SeenOpponentPieces: map[chess.Square]chess.Piece{},
		OwnCastlingRights:  r.CastlingRights(tr.states[0], chess.White),
	}

	before := tr.Size()
	tr.IncrementalFilter(obs)
	if tr.Size() > before {
		t.Errorf("filter must never grow the belief set: before %d, after %d", before, tr.Size())
	}
}

func TestSamplePreservesSmallSets(t *testing.T) {
	r := rules.Chess{}
	tr := NewTracker(r)
	tr.states = []rules.Position{mustParse(t, chess.StartFEN), mustParse(t, chess.StartFEN)}

	sampled := tr.Sample(10, 42)
	if len(sampled) != 2 {
		t.Errorf("expected Sample(k > |P|) to return the whole set, got %d", len(sampled))
	}
}

func TestSampleIsDeterministic(t *testing.T) {
	r := rules.Chess{}
	tr := NewTracker(r)
	for i := 0; i < 10; i++ {
		tr.states = append(tr.states, mustParse(t, chess.StartFEN))
	}

	a := tr.Sample(4, 7)
	b := tr.Sample(4, 7)
	if len(a) != len(b) {
		t.Fatalf("sample length mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("sample %d differs between calls with the same seed", i)
		}
	}
}
