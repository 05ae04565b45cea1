package subgame

import "github.com/fowchess/planner/internal/chess"

// SequenceId is a 64-bit fingerprint of one player's move sequence; two
// sequences that differ in any move collide only with negligible
// probability (spec.md §3). Under the perfect-opponent-observer
// assumption, an information set is uniquely determined by the acting
// player's own move sequence, so SequenceId doubles as the per-player
// infoset key.
type SequenceId uint64

// RootSequence is the empty sequence: no moves played yet by either
// player, used to key the root infoset.
const RootSequence SequenceId = 0

// fnvPrime is the 64-bit FNV-1a prime, used here as a simple rolling
// hash over the move encoding.
const fnvPrime = 1099511628211

// Extend folds m into s, producing the sequence id after additionally
// playing m.
func (s SequenceId) Extend(m chess.Move) SequenceId {
	h := uint64(s)
	enc := moveEncoding(m)
	for i := 0; i < 8; i++ {
		h ^= enc & 0xff
		h *= fnvPrime
		enc >>= 8
	}
	return SequenceId(h)
}

func moveEncoding(m chess.Move) uint64 {
	return uint64(m.From)<<24 | uint64(m.To)<<16 | uint64(m.Promotion)<<8 | uint64(m.Flag)
}

// InfosetKey identifies one information set: a player's decision point,
// keyed by that player's own move sequence (spec.md §4.3
// get_or_create_infoset(seq_id, player)).
type InfosetKey struct {
	Player chess.Color
	Seq    SequenceId
}
