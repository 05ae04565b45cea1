package planner

import "errors"

// ErrRootHasNoActions is returned when the root infoset reports zero
// legal actions after expansion (spec.md §7 RootHasNoActions). It is
// non-fatal to the engine but fatal to the game in progress; the host
// must apply its own game-end logic on receiving it.
var ErrRootHasNoActions = errors.New("planner: root has no legal actions")

// ErrMalformedObservation wraps a Visibility failure (a side to move
// missing a king), propagated from plan_move's first step.
var ErrMalformedObservation = errors.New("planner: could not observe position")
