package subgame

import "github.com/fowchess/planner/internal/chess"

// NodeID indexes a GameTreeNode within a Subgame's arena. The root is
// always NodeID 0. NoNode marks the absence of a parent.
type NodeID int32

const NoNode NodeID = -1

// GameTreeNode is a concrete position reached by some (white, black)
// move-sequence pair (spec.md §3). It owns a position_key rather than a
// live position object: the game tree is a lightweight skeleton, and
// any component that needs to inspect the actual board reconstructs it
// from PositionKey through a Rules collaborator.
type GameTreeNode struct {
	ID       NodeID
	Parent   NodeID
	Children []NodeID

	PositionKey string

	// WhiteSeq and BlackSeq are each side's SequenceId after the moves
	// played to reach this node; only the mover's own sequence advances
	// on each ply.
	WhiteSeq SequenceId
	BlackSeq SequenceId

	Depth int

	// InKLUSS marks membership in the 2-KLUSS frontier (spec.md §4.3):
	// the root and its direct children.
	InKLUSS bool

	Terminal      bool
	TerminalValue float32

	// Expanded reports whether Children has been populated and the
	// node's infoset initialized. Subgame.mu's lock/unlock around every
	// write and read of node state gives CFRSolver the same
	// read-after-expanded-implies-fields-visible guarantee spec.md §5
	// asks for from an explicit acquire/release fence.
	Expanded bool

	// Mover is the color to act at this node, established by
	// reconstructing the live position at expansion time rather than
	// inferred from depth parity (spec.md §9 flags depth%2 as wrong
	// once belief samples can start from either color to move).
	Mover chess.Color
}

// Sequence returns the node's own-sequence SequenceId for color c: the
// key under which c's infoset at this node is stored.
func (n *GameTreeNode) Sequence(c chess.Color) SequenceId {
	if c == chess.White {
		return n.WhiteSeq
	}
	return n.BlackSeq
}
