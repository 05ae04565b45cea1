package subgame

import (
	"sort"

	"github.com/fowchess/planner/internal/util"
)

// Purify extracts the purified mixed strategy from an infoset's
// last-iterate strategy and Q-value margins (spec.md §4.8). Under
// Resolve play is always deterministic, a one-hot distribution at the
// strategy's argmax. Under Maxmargin, mixing is restricted to the
// actions that are both currently favored (strategy > 0) and stable
// (margin to the best Q-value is >= 0), keeping only the top
// maxSupport of those by strategy weight.
func Purify(in *InfosetNode, mode GadgetMode, maxSupport int) []float64 {
	n := len(in.Strategy)
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	if mode == Resolve {
		out[argmax(in.Strategy)] = 1
		return out
	}

	best := in.QValue[0]
	for _, q := range in.QValue[1:] {
		best = util.Max(best, q)
	}

	type candidate struct {
		action int
		weight float64
	}
	var stable []candidate
	for a := range in.Strategy {
		if in.Strategy[a] > 0 && in.QValue[a]-best >= 0 {
			stable = append(stable, candidate{a, in.Strategy[a]})
		}
	}

	if len(stable) == 0 {
		// Nothing passed the margin filter: fall back to uniform over
		// the original support (spec.md §4.8).
		for a, p := range in.Strategy {
			if p > 0 {
				out[a] = 1
			}
		}
		normalize(out)
		return out
	}

	sort.Slice(stable, func(i, j int) bool { return stable[i].weight > stable[j].weight })
	stable = stable[:util.Min(len(stable), maxSupport)]
	for _, c := range stable {
		out[c.action] = c.weight
	}
	normalize(out)
	return out
}

func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

func normalize(xs []float64) {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	if sum <= 0 {
		return
	}
	for i := range xs {
		xs[i] /= sum
	}
}
