// Package belief maintains the set of positions consistent with a
// player's observation history (spec.md §4.2) and samples from it to
// seed a subgame.
package belief

import (
	"reflect"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/rules"
	"github.com/fowchess/planner/internal/util"
	"github.com/fowchess/planner/internal/visibility"
)

// EnumerationCap bounds the from-scratch rebuild's Monte-Carlo
// completion pass.
const EnumerationCap = 256

// Tracker owns the belief set P: every position consistent with the
// full observation history collected so far in the current game.
type Tracker struct {
	rules   rules.Rules
	history []visibility.Observation
	states  []rules.Position

	// Progress, when set, is called periodically during a from-scratch
	// rebuild's Monte-Carlo completion pass with the candidates
	// generated so far and the configured cap, for a host to drive a
	// progress bar (spec.md §4.2's bounded enumeration can run long).
	Progress func(done, total int)
}

// NewTracker returns an empty Tracker bound to a Rules collaborator.
func NewTracker(r rules.Rules) *Tracker {
	return &Tracker{rules: r}
}

// Reset clears the history and belief set between games.
func (t *Tracker) Reset() {
	t.history = nil
	t.states = nil
}

// Size returns |P|.
func (t *Tracker) Size() int { return len(t.states) }

// States returns the current belief set. Callers must not mutate the
// returned slice.
func (t *Tracker) States() []rules.Position { return t.states }

// IncrementalFilter removes from P every position inconsistent with
// obs, then appends obs to the history. Filtering never adds states;
// it strictly shrinks or preserves P (spec.md §8).
func (t *Tracker) IncrementalFilter(obs visibility.Observation) {
	kept := t.states[:0]
	for _, p := range t.states {
		if consistent(t.rules, p, obs) {
			kept = append(kept, p)
		}
	}
	t.states = kept
	t.history = append(t.history, obs)
}

// RebuildFromScratch reconstructs P from the full observation history,
// seeding from the known true position and completing it with a
// bounded Monte-Carlo search over opponent piece placements restricted
// to unseen squares. obs is appended to the history before candidates
// are filtered, so the rebuilt set also respects the observation that
// triggered it. It never retains a position inconsistent with any
// historical observation, and the true position always survives the
// filter.
func (t *Tracker) RebuildFromScratch(truth rules.Position, obs visibility.Observation, seed uint64) {
	t.history = append(t.history, obs)

	candidates := []rules.Position{truth}
	candidates = append(candidates, monteCarloCompletions(t.rules, obs, seed, EnumerationCap, t.Progress)...)

	seen := make(map[[16]byte]bool, len(candidates))
	kept := candidates[:0]
	for _, p := range candidates {
		consistentWithAll := true
		for _, obs := range t.history {
			if !consistent(t.rules, p, obs) {
				consistentWithAll = false
				break
			}
		}
		if !consistentWithAll {
			continue
		}
		key := t.rules.PositionKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}

	t.states = kept
}

// Sample returns min(k, |P|) states drawn uniformly without
// replacement using a deterministic RNG seeded by seed.
func (t *Tracker) Sample(k int, seed uint64) []rules.Position {
	if k >= len(t.states) {
		out := make([]rules.Position, len(t.states))
		copy(out, t.states)
		return out
	}

	shuffled := make([]rules.Position, len(t.states))
	copy(shuffled, t.states)

	var prng util.PRNG
	prng.Seed(seed)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(prng.Uint64() % uint64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:k]
}

// consistent implements the filter predicate of spec.md §4.2.
func consistent(r rules.Rules, p rules.Position, obs visibility.Observation) bool {
	if r.SideToMove(p) != obs.SideToMove {
		return false
	}

	own := placementWithin(r, p, obs.SideToMove, chess.Empty, true)
	if !reflect.DeepEqual(own, obs.OwnPieces) {
		return false
	}

	opponent := obs.SideToMove.Other()
	seenOpponent := placementWithin(r, p, opponent, obs.VisibleSquares, false)
	if !reflect.DeepEqual(seenOpponent, obs.SeenOpponentPieces) {
		return false
	}

	if obs.EnPassantTarget != chess.NoSquare && r.EnPassant(p) != obs.EnPassantTarget {
		return false
	}

	if r.CastlingRights(p, obs.SideToMove) != obs.OwnCastlingRights {
		return false
	}

	return true
}

// placementWithin returns p's pieces of color c. If all is false, only
// squares set in mask are considered (used to recover the portion of
// the opponent's placement a player has actually seen); if all is
// true, mask is ignored and every piece of that color is returned.
func placementWithin(r rules.Rules, p rules.Position, c chess.Color, mask chess.Bitboard, all bool) map[chess.Square]chess.Piece {
	placement := make(map[chess.Square]chess.Piece)
	for t := chess.Pawn; t <= chess.King; t++ {
		bb := r.PiecesOf(p, c, t)
		if !all {
			bb &= mask
		}
		bb.Squares(func(s chess.Square) {
			placement[s] = chess.NewPiece(t, c)
		})
	}
	return placement
}

// legallyReachable reports that the position is one the game could
// actually have reached: the side not to move must not be in check,
// else the position implies the prior ply failed to escape a capture
// of its own king.
func legallyReachable(r rules.Rules, p rules.Position) bool {
	sideToMove := r.SideToMove(p)
	opponent := sideToMove.Other()
	king := r.PiecesOf(p, opponent, chess.King)
	if king == chess.Empty {
		return false
	}
	return !r.AttacksTo(p, king.FirstOne(), sideToMove)
}

// standardCounts is the starting piece budget for one side, used to
// infer how many opponent pieces of each type still lurk unseen.
var standardCounts = map[chess.PieceType]int{
	chess.Pawn:   8,
	chess.Knight: 2,
	chess.Bishop: 2,
	chess.Rook:   2,
	chess.Queen:  1,
	chess.King:   1,
}

// monteCarloCompletions makes up to cap attempts, keeping at most
// cap/4+1 legally reachable candidate positions, each built by
// randomly placing the opponent's unseen remaining pieces (inferred
// from the standard piece budget minus what has been seen) onto
// unseen squares, consistent with obs by construction. This realizes
// the "bounded enumeration with Monte-Carlo fallback" spec.md §4.2
// permits in place of full enumeration.
func monteCarloCompletions(r rules.Rules, obs visibility.Observation, seed uint64, cap int, progress func(done, total int)) []rules.Position {
	opponent := obs.SideToMove.Other()

	remaining := make(map[chess.PieceType]int, len(standardCounts))
	for t, n := range standardCounts {
		remaining[t] = n
	}
	for _, p := range obs.SeenOpponentPieces {
		remaining[p.Type()]--
	}

	var unseenSquares []chess.Square
	for s := chess.Square(0); s < chess.N; s++ {
		if !obs.VisibleSquares.IsSet(s) {
			unseenSquares = append(unseenSquares, s)
		}
	}
	if len(unseenSquares) == 0 {
		return nil
	}

	var prng util.PRNG
	prng.Seed(seed ^ 0xD1B54A32D192ED03)

	var out []rules.Position
	for i := 0; i < cap && len(out) < cap/4+1; i++ {
		if progress != nil {
			progress(i, cap)
		}
		fen := completionFEN(obs, opponent, remaining, unseenSquares, &prng)
		pos, err := r.Parse(fen)
		if err != nil {
			continue
		}
		if !legallyReachable(r, pos) {
			continue
		}
		out = append(out, pos)
	}
	if progress != nil {
		progress(cap, cap)
	}
	return out
}

// completionFEN assembles one candidate FEN: own pieces and seen
// opponent pieces exactly as observed, the opponent's remaining
// unseen pieces scattered onto a random subset of unseen squares
// (pawns never placed on the back ranks), everything else empty.
func completionFEN(obs visibility.Observation, opponent chess.Color, remaining map[chess.PieceType]int, unseenSquares []chess.Square, prng *util.PRNG) string {
	var squares [chess.N]chess.Piece

	for s, p := range obs.OwnPieces {
		squares[s] = p
	}
	for s, p := range obs.SeenOpponentPieces {
		squares[s] = p
	}

	shuffled := make([]chess.Square, len(unseenSquares))
	copy(shuffled, unseenSquares)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := int(prng.Uint64() % uint64(i+1))
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	cursor := 0
	for t := chess.King; t >= chess.Pawn; t-- {
		for n := 0; n < remaining[t] && cursor < len(shuffled); {
			s := shuffled[cursor]
			cursor++
			if t == chess.Pawn && (s.Rank() == 0 || s.Rank() == 7) {
				continue
			}
			squares[s] = chess.NewPiece(t, opponent)
			n++
		}
	}

	var b [8]string
	for rank := 7; rank >= 0; rank-- {
		run := 0
		row := ""
		for file := 0; file < 8; file++ {
			s := chess.NewSquare(file, rank)
			p := squares[s]
			if p == chess.NoPiece {
				run++
				continue
			}
			if run > 0 {
				row += string(rune('0' + run))
				run = 0
			}
			row += string(p.FEN())
		}
		if run > 0 {
			row += string(rune('0' + run))
		}
		b[7-rank] = row
	}

	placement := b[0]
	for i := 1; i < 8; i++ {
		placement += "/" + b[i]
	}

	ep := "-"
	if obs.EnPassantTarget != chess.NoSquare {
		ep = obs.EnPassantTarget.String()
	}

	return placement + " " + obs.SideToMove.String() + " " + obs.OwnCastlingRights.String() + " " + ep +
		" " + itoa(obs.HalfmoveClock) + " " + itoa(obs.FullmoveNumber)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}
