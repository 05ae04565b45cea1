package subgame

import "github.com/fowchess/planner/internal/chess"

// InfosetNode holds per-action regret-matching state for one decision
// point of one player, keyed by InfosetKey (spec.md §3). Every slice is
// sized exactly once, at expansion; after that, only element-wise
// numeric mutation occurs.
type InfosetNode struct {
	Player chess.Color

	// Actions are the legal moves at this infoset, in the order the
	// Evaluator scored them.
	Actions []chess.Move

	Regret             []float64
	Strategy           []float64
	CumulativeStrategy []float64
	VisitCount         []int64
	QValue             []float64
	Variance           []float64

	TotalVisits int64
	Value       float64

	Expanded bool
}

// initialVariance is the variance of a {-1,+1}-valued distribution
// with mean 0: 2 - mu^2 = 2 - 0 = 2.0 (spec.md §3).
const initialVariance = 2.0

// BestAction returns the index of the action with the highest QValue,
// ties broken by lowest index.
func (in *InfosetNode) BestAction() int {
	best := 0
	for a := 1; a < len(in.QValue); a++ {
		if in.QValue[a] > in.QValue[best] {
			best = a
		}
	}
	return best
}

// RegretMatch recomputes Strategy from Regret by regret matching
// (spec.md §4.6): proportional to positive regret, or uniform if no
// action has positive regret.
func (in *InfosetNode) RegretMatch() {
	var sum float64
	for _, r := range in.Regret {
		if r > 0 {
			sum += r
		}
	}

	n := len(in.Actions)
	if sum <= 0 {
		uniform := 1.0 / float64(n)
		for a := range in.Strategy {
			in.Strategy[a] = uniform
		}
		return
	}

	for a := range in.Strategy {
		if in.Regret[a] > 0 {
			in.Strategy[a] = in.Regret[a] / sum
		} else {
			in.Strategy[a] = 0
		}
	}
}
