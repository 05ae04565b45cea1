// Package subgame owns the partial game tree, the information-set
// table, the 2-KLUSS frontier, and the active re-solving gadget mode
// for one depth-limited planning call (spec.md §3, §4.3).
package subgame

import (
	"sync"

	"github.com/fowchess/planner/internal/chess"
	"github.com/fowchess/planner/internal/evaluator"
	"github.com/fowchess/planner/internal/rules"
)

// Subgame is constructed at the start of each move decision and
// discarded at its end; it is shared, read-mostly, across the
// Expander and CFRSolver workers for the duration of one
// deadline-bounded search (spec.md §3, §5).
type Subgame struct {
	rules rules.Rules

	// ExpansionLock serializes the whole "select leaf -> expand ->
	// initialize infoset" sequence across Expander workers (spec.md
	// §5). Callers other than Expander should not need it.
	ExpansionLock sync.Mutex

	// mu guards the node arena and infoset map against the data race
	// between Expander's writes (append/initialize, held under
	// ExpansionLock) and CFRSolver's concurrent reads; the Unlock/Lock
	// pair is Go's idiomatic substitute for the explicit release/
	// acquire fence spec.md §5 describes.
	mu       sync.RWMutex
	nodes    []*GameTreeNode
	infosets map[InfosetKey]*InfosetNode

	// RootMover is the color to move at the root; the opponent's first
	// decision inside the subgame is always keyed at RootSequence,
	// since their own move sequence has not advanced yet (spec.md
	// §4.4's "subgame entry infoset").
	RootMover chess.Color

	GadgetMode     GadgetMode
	resolveEntered bool
	AltValue       AltValueFunc
}

// Construct builds the root node and root infoset from a sampled
// belief state (spec.md §4.3). samples[0] is the canonical
// representative seeding the root position_key.
func Construct(r rules.Rules, samples []rules.Position) *Subgame {
	root := samples[0]

	sg := &Subgame{
		rules:      r,
		infosets:   make(map[InfosetKey]*InfosetNode),
		RootMover:  r.SideToMove(root),
		GadgetMode: Resolve,
	}

	rootKey := InfosetKey{Player: sg.RootMover, Seq: RootSequence}
	sg.infosets[rootKey] = &InfosetNode{Player: sg.RootMover}

	sg.nodes = append(sg.nodes, &GameTreeNode{
		ID:          0,
		Parent:      NoNode,
		PositionKey: r.Serialize(root),
		Depth:       0,
		InKLUSS:     true,
		Mover:       sg.RootMover,
	})

	return sg
}

// Root returns the root GameTreeNode.
func (sg *Subgame) Root() *GameTreeNode {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return sg.nodes[0]
}

// Node fetches a node by id.
func (sg *Subgame) Node(id NodeID) *GameTreeNode {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return sg.nodes[id]
}

// NodeCount returns the number of nodes in the arena; it is monotone
// non-decreasing across expansion steps (spec.md §8).
func (sg *Subgame) NodeCount() int {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return len(sg.nodes)
}

// Infoset returns the infoset at key, or nil if it has not been
// created yet.
func (sg *Subgame) Infoset(key InfosetKey) *InfosetNode {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return sg.infosets[key]
}

// InfosetCount returns the number of infosets created so far, for
// Planner.search_statistics (spec.md §6).
func (sg *Subgame) InfosetCount() int {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return len(sg.infosets)
}

// AvgDepth returns the mean depth of every node in the tree, for
// Planner.search_statistics (spec.md §6).
func (sg *Subgame) AvgDepth() float64 {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	if len(sg.nodes) == 0 {
		return 0
	}
	var sum int
	for _, n := range sg.nodes {
		sum += n.Depth
	}
	return float64(sum) / float64(len(sg.nodes))
}

// GetOrCreateInfoset returns the (possibly newly created, empty)
// infoset at key, inserting it if absent (spec.md §4.3). The returned
// infoset is unexpanded until ExpandNode's caller fills in its action
// vectors.
func (sg *Subgame) GetOrCreateInfoset(key InfosetKey) *InfosetNode {
	sg.mu.Lock()
	defer sg.mu.Unlock()
	in, ok := sg.infosets[key]
	if !ok {
		in = &InfosetNode{Player: key.Player}
		sg.infosets[key] = in
	}
	return in
}

// IsEntry reports whether key identifies the opponent's first decision
// point inside the subgame, the entry point for the Resolve/Maxmargin
// gadget (spec.md §4.4).
func (sg *Subgame) IsEntry(key InfosetKey) bool {
	return key.Player != sg.RootMover && key.Seq == RootSequence
}

// LatchResolveEntered marks that the opponent has committed probability
// mass into the subgame under Resolve; it is monotone (spec.md §8) and
// irreversible for the rest of this Subgame's lifetime.
func (sg *Subgame) LatchResolveEntered() {
	sg.mu.Lock()
	sg.resolveEntered = true
	sg.mu.Unlock()
}

// ResolveEntered reports the latch's current state.
func (sg *Subgame) ResolveEntered() bool {
	sg.mu.RLock()
	defer sg.mu.RUnlock()
	return sg.resolveEntered
}

// SwitchGadget applies the switching protocol of spec.md §4.4,
// evaluated at the top of every CFR iteration.
func (sg *Subgame) SwitchGadget() GadgetMode {
	if sg.ResolveEntered() {
		sg.GadgetMode = Maxmargin
	} else {
		sg.GadgetMode = Resolve
	}
	return sg.GadgetMode
}

// ExpandNode generates leaf's children from a live position
// reconstructed from leaf.PositionKey (spec.md §4.3). It must be called
// under ExpansionLock. If live has no legal moves, leaf is marked
// terminal (and expanded, with no children). A node in_kluss member's children
// inherit in_kluss membership only while still within the 2-KLUSS
// frontier (root plus its direct children, spec.md §4.3).
func (sg *Subgame) ExpandNode(leaf *GameTreeNode, live rules.Position) []chess.Move {
	moves := sg.rules.LegalMoves(live)

	sg.mu.Lock()
	defer sg.mu.Unlock()

	if len(moves) == 0 {
		leaf.Terminal = true
		if sg.rules.InCheck(live) {
			leaf.TerminalValue = -1
		} else {
			leaf.TerminalValue = 0
		}
		leaf.Expanded = true
		return nil
	}

	childInKLUSS := leaf.Depth == 0

	for _, m := range moves {
		child := sg.newChildLocked(leaf, live, m, childInKLUSS)
		leaf.Children = append(leaf.Children, child.ID)
	}

	return moves
}

// MarkSoftTerminal marks node terminal with value 0, the EvaluatorFailed
// fallback of spec.md §7: an evaluator that returns no scored children
// for a non-terminal leaf degrades that leaf to a drawn terminal rather
// than propagating an error through the traversal.
func (sg *Subgame) MarkSoftTerminal(node *GameTreeNode) {
	sg.mu.Lock()
	defer sg.mu.Unlock()
	node.Terminal = true
	node.TerminalValue = 0
	node.Expanded = true
}

func (sg *Subgame) newChildLocked(parent *GameTreeNode, parentPos rules.Position, m chess.Move, inKLUSS bool) *GameTreeNode {
	childPos := sg.rules.Apply(parentPos, m)

	whiteSeq, blackSeq := parent.WhiteSeq, parent.BlackSeq
	if parent.Mover == chess.White {
		whiteSeq = whiteSeq.Extend(m)
	} else {
		blackSeq = blackSeq.Extend(m)
	}

	child := &GameTreeNode{
		ID:          NodeID(len(sg.nodes)),
		Parent:      parent.ID,
		PositionKey: sg.rules.Serialize(childPos),
		WhiteSeq:    whiteSeq,
		BlackSeq:    blackSeq,
		Depth:       parent.Depth + 1,
		InKLUSS:     inKLUSS,
		Mover:       sg.rules.SideToMove(childPos),
	}
	sg.nodes = append(sg.nodes, child)
	return child
}

// InitializeInfoset populates the infoset at key from the Evaluator's
// scored children, seeding the strategy at the greedy policy of the
// leaf evaluator (spec.md §4.5 steps 5-7). Must be called under
// ExpansionLock; takes sg.mu itself so the publication is visible to
// concurrent CFRSolver reads under the Go happens-before rules that
// sync.RWMutex provides. An infoset already expanded through another
// node sharing its key is left unchanged; only leaf is marked expanded.
func (sg *Subgame) InitializeInfoset(leaf *GameTreeNode, key InfosetKey, scored []evaluator.Scored) *InfosetNode {
	sg.mu.Lock()
	defer sg.mu.Unlock()

	in, ok := sg.infosets[key]
	if !ok {
		in = &InfosetNode{Player: key.Player}
		sg.infosets[key] = in
	}
	if in.Expanded {
		leaf.Expanded = true
		return in
	}

	n := len(scored)
	in.Actions = make([]chess.Move, n)
	in.Regret = make([]float64, n)
	in.Strategy = make([]float64, n)
	in.CumulativeStrategy = make([]float64, n)
	in.VisitCount = make([]int64, n)
	in.QValue = make([]float64, n)
	in.Variance = make([]float64, n)

	best := 0
	for a, sc := range scored {
		in.Actions[a] = sc.Move
		in.QValue[a] = float64(sc.Value)
		in.Variance[a] = initialVariance
		if sc.Value > scored[best].Value {
			best = a
		}
	}
	in.Strategy[best] = 1
	in.Value = float64(scored[best].Value)
	in.Expanded = true
	leaf.Expanded = true

	return in
}
