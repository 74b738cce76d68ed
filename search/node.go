package search

import (
	"fmt"

	"github.com/crosscram/crosscram/board"
	"github.com/crosscram/crosscram/move"
)

// A Node is one vertex of the search tree. Nodes are plain values; the
// tree is never materialized. Only the recursion path and the cached
// move lists exist at any one time.
type Node struct {
	// Mover is the side to act at this node.
	Mover board.Side
	// Depth is the ply distance from the search root.
	Depth int
	// Move is the placement the previous mover made to reach this
	// node. It is the null move at the root.
	Move move.Move
	// Score is meaningful only once Scored is set. A score of
	// ±Infinity marks a proven outcome.
	Score  int
	Scored bool
	// Terminal means Mover has no legal placement here and has lost.
	Terminal bool
}

// searchResult carries a subtree's resolution back to its caller: the
// best child found (or the leaf or terminal node itself), its score,
// and whether that score is a proven outcome rather than a heuristic.
type searchResult struct {
	best     Node
	score    int
	terminal bool
}

// Before is the move-ordering relation: scored nodes ahead of unscored
// ones, then whichever score serves mover better, then placement
// coordinates. It is a strict total order over any one child list.
func (n Node) Before(o Node, mover board.Side) bool {
	if n.Scored != o.Scored {
		return n.Scored
	}
	if n.Scored && n.Score != o.Score {
		if mover == board.Horizontal {
			return n.Score > o.Score
		}
		return n.Score < o.Score
	}
	return n.Move.Less(o.Move)
}

// String allocates, and is only used for logs and tests.
func (n Node) String() string {
	score := "unset"
	if n.Scored {
		score = fmt.Sprintf("%d", n.Score)
	}
	return fmt.Sprintf("<%v depth %d move %v score %s terminal %v>",
		n.Mover, n.Depth, n.Move, score, n.Terminal)
}
