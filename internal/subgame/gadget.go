package subgame

// GadgetMode selects the re-solving safety gadget a CFR iteration runs
// under (spec.md §4.4).
type GadgetMode int

const (
	Resolve GadgetMode = iota
	Maxmargin
)

// resolveExitThreshold is epsilon in spec.md §4.4's resolve_entered
// latch: once an opponent infoset commits at least this much
// probability mass away from the alternative (opt-out) action, Resolve
// is no longer safe and the subgame switches to Maxmargin for the rest
// of its lifetime.
const resolveExitThreshold = 0.5

// AltValueFunc supplies v_alt for an entry infoset: the externally
// stored equilibrium value the opponent could get by declining to
// enter the subgame (spec.md §4.4). The Planner supplies one per
// plan_move call, built from the entry infoset's own value estimate and
// the root infoset value of the previous solve.
type AltValueFunc func(entry *InfosetNode) float64
