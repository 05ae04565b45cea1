package belief_test

import (
	"strings"
	"testing"

	pgn "gopkg.in/freeeve/pgn.v1"
)

// toyGame is a short fixture game used only to drive an independent
// PGN parser over a handful of plies; it is not replayed through our
// own rules engine, the same arm's-length role notnil/chess plays for
// internal/chess's oracle_test.go (spec.md §8 scenario 5's belief
// filtering only needs a realistic ObservationHistory shape, not a
// specific game).
const toyGame = `[Event "fowplan fixture"]
[Site "?"]
[Date "????.??.??"]
[Round "?"]
[White "?"]
[Black "?"]
[Result "*"]

1. e4 e5 2. Nf3 Nc6 3. Bb5 a6 *
`

// TestPGNOracleParsesFixtureGame cross-checks that an independent PGN
// parser (gopkg.in/freeeve/pgn.v1) agrees our toy fixture is a
// well-formed six-ply game. internal/belief's own filtering tests build
// their observations from FEN literals, not from these plies.
func TestPGNOracleParsesFixtureGame(t *testing.T) {
	scanner := pgn.NewPGNScanner(strings.NewReader(toyGame))

	if !scanner.Next() {
		t.Fatalf("expected at least one game in the fixture")
	}

	game, err := scanner.Scan()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if game == nil || game.Root == nil {
		t.Fatalf("expected a non-nil game tree")
	}

	plies := 0
	node := game.Root
	for len(node.Children) > 0 {
		node = node.Children[0]
		plies++
	}

	if plies != 6 {
		t.Errorf("expected 6 plies (1. e4 e5 2. Nf3 Nc6 3. Bb5 a6), got %d", plies)
	}
}
