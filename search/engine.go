// Package search implements a depth-limited minimax search with
// alpha-beta pruning for domineering. Successive searches cooperate:
// positions visited two plies below one root are the candidate roots
// of the next search, so the engine records their child lists and a
// background task sorts them best-first while the program waits for
// the opponent. A search that starts on a remembered position walks
// its strongest line first, which is exactly what alpha-beta wants.
package search

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/crosscram/crosscram/board"
	"github.com/crosscram/crosscram/eval"
)

// The recursion below follows the textbook alpha-beta shape: the
// maximizer raises alpha as its children resolve and stops once a
// child reaches beta, and the minimizer mirrors it. Two departures
// from the textbook version: a child that resolves to a proven win or
// loss ends its whole level immediately, and the child lists built two
// plies below the root are kept for the next search instead of being
// thrown away.

// An Engine runs searches over domineering positions. It is not safe
// for concurrent use; a single engine serves one game at a time.
type Engine struct {
	pipeline eval.Pipeline
	ordered  map[uint64][]Node
	sorter   *errgroup.Group

	totalNodes     int
	disablePruning bool
}

// Init prepares the engine with the pipeline it will score leaves
// with. It must be called before the first Search.
func (e *Engine) Init(pipeline eval.Pipeline) {
	e.pipeline = pipeline
	e.ordered = make(map[uint64][]Node)
}

// SetPruningDisabled makes the engine search the full minimax tree
// with no cutoffs. Only useful for tests that compare pruned and
// unpruned results.
func (e *Engine) SetPruningDisabled(i bool) {
	e.disablePruning = i
}

// ResetCache drops every remembered move ordering, for a fresh game.
func (e *Engine) ResetCache() {
	e.joinSorter()
	e.ordered = make(map[uint64][]Node)
}

// Cleanup blocks until the background sorter from the last Search has
// finished. Call it before discarding the engine.
func (e *Engine) Cleanup() {
	e.joinSorter()
}

// Search finds the best placement for the side to move on pos, looking
// depthLimit plies ahead. A depth limit of zero scores pos itself and
// returns the root node. The returned node carries the placement, its
// score, and whether that score is a proven outcome. pos is not
// modified.
//
// Search first joins the sorter launched by the previous call, so the
// move-order cache is owned by exactly one task at a time, and hands
// the cache to a fresh sorter before returning.
func (e *Engine) Search(pos *board.Position, depthLimit int) (Node, error) {
	if pos == nil {
		return Node{}, errors.New("no position to search")
	}
	if depthLimit < 0 {
		return Node{}, fmt.Errorf("depth limit must not be negative; got %d", depthLimit)
	}
	e.joinSorter()
	e.totalNodes = 0

	root := Node{Mover: pos.OnMove()}
	res := e.searchUnder(root, FullWindow(), pos, depthLimit)

	log.Debug().Msgf("Best placement found: %v with score %v (terminal: %v)",
		res.best.Move, res.score, res.terminal)
	log.Debug().Msgf("Number of expanded nodes: %d", e.totalNodes)
	log.Debug().Msgf("Cached move lists: %d", len(e.ordered))

	e.launchSorter(root.Mover)
	return res.best, nil
}

// searchUnder resolves the subtree below parent. win carries the
// alpha-beta bounds accumulated on the path from the root; pos is the
// position parent's mover faces, and is restored before returning.
func (e *Engine) searchUnder(parent Node, win Window, pos *board.Position, depthLimit int) searchResult {
	if parent.Depth >= depthLimit {
		parent.Score = e.evaluate(pos)
		parent.Scored = true
		return searchResult{best: parent, score: parent.Score}
	}

	children := e.cachedChildren(parent, pos)
	if children == nil {
		children = e.expand(parent, pos)
	}
	if len(children) == 0 {
		// parent's mover cannot place a domino, so the game is over
		// and the other side has won.
		parent.Terminal = true
		parent.Scored = true
		parent.Score = winScore(parent.Mover.Other())
		return searchResult{best: parent, score: parent.Score, terminal: true}
	}

	var fp uint64
	if parent.Depth == 2 {
		// This level's children become the candidate ordering if the
		// game reaches this position two plies from now. Each visit
		// starts a fresh list, so a transposed revisit replaces the
		// old ordering rather than merging with it.
		fp = pos.Fingerprint()
		delete(e.ordered, fp)
	}

	next := pos.Copy()
	next.ToggleOnMove()

	var best Node
	haveBest := false
	bestScore := winScore(parent.Mover.Other())

	for i := 0; i < len(children); i++ {
		child := children[i]
		next.Place(child.Move, parent.Mover)
		res := e.searchUnder(child, win, next, depthLimit)
		next.Unplace(child.Move)

		child.Score = res.score
		child.Scored = true

		if res.terminal {
			// A proven outcome is the exact value of this whole
			// level; no sibling needs examining.
			child.Terminal = true
			if parent.Depth == 2 {
				e.ordered[fp] = append(e.ordered[fp], child)
				e.ordered[fp] = append(e.ordered[fp], children[i+1:]...)
			}
			return searchResult{best: child, score: child.Score, terminal: true}
		}

		if parent.Depth == 2 {
			e.ordered[fp] = append(e.ordered[fp], child)
		}

		if !haveBest || improves(child.Score, bestScore, parent.Mover) {
			best = child
			haveBest = true
			bestScore = child.Score
			win.Update(child.Score, parent.Mover)
			if !e.disablePruning && win.CanPrune(child.Score, parent.Mover) {
				// The unexamined siblings still belong in the cached
				// ordering. They carry no score and sort last.
				if parent.Depth == 2 {
					e.ordered[fp] = append(e.ordered[fp], children[i+1:]...)
				}
				break
			}
		}
	}
	return searchResult{best: best, score: bestScore}
}

// evaluate scores a leaf through the pipeline. The pipeline works on
// its own copy, so pos comes back untouched even when calculators
// mark cells.
func (e *Engine) evaluate(pos *board.Position) int {
	return e.pipeline.Score(pos)
}

// expand creates one child per open placement for parent's mover, in
// reading order.
func (e *Engine) expand(parent Node, pos *board.Position) []Node {
	placements := pos.Placements(parent.Mover)
	children := make([]Node, 0, len(placements))
	for _, m := range placements {
		children = append(children, Node{
			Mover: parent.Mover.Other(),
			Depth: parent.Depth + 1,
			Move:  m,
		})
	}
	e.totalNodes += len(children)
	return children
}

// cachedChildren consumes the move ordering a previous search recorded
// for this position, if there is one. Only the root consumes; deeper
// levels always expand. The entry is removed from the cache and its
// nodes renumbered as root children with their stale results cleared,
// leaving only the order itself.
func (e *Engine) cachedChildren(parent Node, pos *board.Position) []Node {
	if parent.Depth != 0 {
		return nil
	}
	fp := pos.Fingerprint()
	children, ok := e.ordered[fp]
	if !ok {
		return nil
	}
	delete(e.ordered, fp)
	log.Debug().Msgf("Reusing %d ordered placements for the root position", len(children))
	for i := range children {
		children[i].Mover = parent.Mover.Other()
		children[i].Depth = parent.Depth + 1
		children[i].Scored = false
		children[i].Terminal = false
	}
	return children
}

// launchSorter hands the cache to a background task that sorts every
// remembered list best-first for rootMover. The engine takes the cache
// back by joining the task at the start of the next Search, or in
// Cleanup; until then it must not touch e.ordered.
func (e *Engine) launchSorter(rootMover board.Side) {
	g := &errgroup.Group{}
	g.Go(func() error {
		for _, nodes := range e.ordered {
			sort.Slice(nodes, func(i, j int) bool {
				return nodes[i].Before(nodes[j], rootMover)
			})
		}
		return nil
	})
	e.sorter = g
}

func (e *Engine) joinSorter() {
	if e.sorter == nil {
		return
	}
	e.sorter.Wait()
	e.sorter = nil
}

// winScore is the proven-outcome score with winner having won.
func winScore(winner board.Side) int {
	if winner == board.Horizontal {
		return Infinity
	}
	return -Infinity
}

// improves reports whether score is strictly better than best from
// mover's point of view.
func improves(score, best int, mover board.Side) bool {
	if mover == board.Horizontal {
		return score > best
	}
	return score < best
}
