package search

import (
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/crosscram/crosscram/board"
	"github.com/crosscram/crosscram/eval"
	"github.com/crosscram/crosscram/move"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func newEngine() *Engine {
	e := &Engine{}
	e.Init(eval.Default())
	return e
}

func mustPosition(t *testing.T, rows, cols int, mover board.Side) *board.Position {
	t.Helper()
	p, err := board.New(rows, cols)
	if err != nil {
		t.Fatal(err)
	}
	p.SetOnMove(mover)
	return p
}

func TestWindowUpdate(t *testing.T) {
	is := is.New(t)
	w := FullWindow()
	is.Equal(w.Alpha, -Infinity)
	is.Equal(w.Beta, Infinity)

	// The maximizer raises alpha, never beta.
	w.Update(5, board.Horizontal)
	is.Equal(w, Window{Alpha: 5, Beta: Infinity})
	w.Update(3, board.Horizontal)
	is.Equal(w.Alpha, 5)

	// The minimizer lowers beta, never alpha.
	w.Update(8, board.Vertical)
	is.Equal(w, Window{Alpha: 5, Beta: 8})
	w.Update(11, board.Vertical)
	is.Equal(w.Beta, 8)
}

func TestWindowCanPrune(t *testing.T) {
	is := is.New(t)
	w := Window{Alpha: 2, Beta: 7}

	is.True(w.CanPrune(7, board.Horizontal))
	is.True(w.CanPrune(9, board.Horizontal))
	is.True(!w.CanPrune(6, board.Horizontal))

	is.True(w.CanPrune(2, board.Vertical))
	is.True(w.CanPrune(0, board.Vertical))
	is.True(!w.CanPrune(3, board.Vertical))
}

func TestNodeOrdering(t *testing.T) {
	is := is.New(t)
	scored := func(r1, c1, r2, c2, score int) Node {
		return Node{Move: move.New(r1, c1, r2, c2), Score: score, Scored: true}
	}
	unscored := func(r1, c1, r2, c2 int) Node {
		return Node{Move: move.New(r1, c1, r2, c2)}
	}

	// Scored nodes come first regardless of score.
	is.True(scored(0, 0, 0, 1, -99).Before(unscored(0, 0, 1, 0), board.Horizontal))
	is.True(!unscored(0, 0, 1, 0).Before(scored(0, 0, 0, 1, -99), board.Horizontal))

	// Between scored nodes the mover's better score wins.
	is.True(scored(1, 0, 1, 1, 4).Before(scored(0, 0, 0, 1, 2), board.Horizontal))
	is.True(scored(1, 0, 1, 1, -4).Before(scored(0, 0, 0, 1, 2), board.Vertical))

	// Ties fall back to placement coordinates, so the order is total.
	is.True(scored(0, 0, 0, 1, 4).Before(scored(1, 0, 1, 1, 4), board.Horizontal))
	is.True(unscored(0, 1, 0, 2).Before(unscored(1, 0, 1, 1), board.Vertical))
}

func TestSearchArgumentErrors(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	_, err := e.Search(nil, 3)
	is.True(err != nil)

	p := mustPosition(t, 2, 2, board.Horizontal)
	_, err = e.Search(p, -1)
	is.True(err != nil)
}

func TestDepthZeroScoresTheRoot(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	// On an empty square board the open pairs balance exactly.
	p := mustPosition(t, 2, 2, board.Horizontal)
	n, err := e.Search(p, 0)
	is.NoErr(err)
	is.True(n.Move.IsNull())
	is.True(n.Scored)
	is.Equal(n.Score, 0)
	is.True(!n.Terminal)
}

func TestTerminalRoot(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	// Vertical cannot place anything on a single row and loses on the
	// spot. The stuck side is the minimizer, so the value is +Infinity.
	p := mustPosition(t, 1, 2, board.Vertical)
	n, err := e.Search(p, 5)
	is.NoErr(err)
	is.True(n.Terminal)
	is.True(n.Move.IsNull())
	is.Equal(n.Score, Infinity)

	// A full board with horizontal to move is the mirror image.
	full, err := board.FromPlaintext("--")
	is.NoErr(err)
	n, err = e.Search(full, 5)
	is.NoErr(err)
	is.True(n.Terminal)
	is.Equal(n.Score, -Infinity)
}

func TestOneMoveWin(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	// Horizontal fills the only row and vertical is left with nothing.
	p := mustPosition(t, 1, 2, board.Horizontal)
	n, err := e.Search(p, 5)
	is.NoErr(err)
	is.Equal(n.Move.String(), "a1-b1")
	is.Equal(n.Score, Infinity)
	is.True(n.Terminal)

	// The caller's position must come back untouched.
	is.True(p.EmptyAt(0, 0))
	is.True(p.EmptyAt(0, 1))
	is.Equal(p.OnMove(), board.Horizontal)
}

func TestDepthOneKeepsFirstBest(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	// Both placements on the empty square leave the remaining row
	// reserved for horizontal, scoring +2 each. Strict improvement
	// keeps the first one seen.
	p := mustPosition(t, 2, 2, board.Horizontal)
	n, err := e.Search(p, 1)
	is.NoErr(err)
	is.Equal(n.Move.String(), "a1-b1")
	is.Equal(n.Score, 2)
	is.True(!n.Terminal)
	is.Equal(e.totalNodes, 2)

	// Leaves sit above the caching depth, so nothing was remembered.
	is.Equal(len(e.ordered), 0)
}

func TestHorizontalWinsTwoByThree(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	// On two rows by three columns the first placement wins for
	// horizontal: a1-b1 leaves vertical only c1-c2, then a2-b2 fills
	// the rest of the board and vertical is stuck.
	p := mustPosition(t, 2, 3, board.Horizontal)
	n, err := e.Search(p, 10)
	is.NoErr(err)
	is.Equal(n.Move.String(), "a1-b1")
	is.Equal(n.Score, Infinity)
	is.True(n.Terminal)

	// The square is even simpler: either row blocks both columns.
	sq := mustPosition(t, 2, 2, board.Horizontal)
	n, err = e.Search(sq, 10)
	is.NoErr(err)
	is.Equal(n.Move.String(), "a1-b1")
	is.Equal(n.Score, Infinity)
	is.True(n.Terminal)
}

func TestVerticalWinsThreeByTwo(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	// The transposed board belongs to vertical: a1-a2 leaves
	// horizontal only the bottom row, then b1-b2 finishes it.
	p := mustPosition(t, 3, 2, board.Vertical)
	n, err := e.Search(p, 10)
	is.NoErr(err)
	is.Equal(n.Move.String(), "a1-a2")
	is.Equal(n.Score, -Infinity)
	is.True(n.Terminal)
}

func TestPruningDoesNotChangeTheResult(t *testing.T) {
	is := is.New(t)

	pruned := newEngine()
	defer pruned.Cleanup()
	unpruned := newEngine()
	defer unpruned.Cleanup()
	unpruned.SetPruningDisabled(true)

	p1 := mustPosition(t, 3, 4, board.Horizontal)
	p2 := mustPosition(t, 3, 4, board.Horizontal)

	a, err := pruned.Search(p1, 4)
	is.NoErr(err)
	b, err := unpruned.Search(p2, 4)
	is.NoErr(err)

	// Cutoffs may skip subtrees but never change the chosen placement
	// or its score.
	is.Equal(a.Move, b.Move)
	is.Equal(a.Score, b.Score)
	is.True(pruned.totalNodes <= unpruned.totalNodes)
}

func TestSearchLeavesPositionUntouched(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	p := mustPosition(t, 3, 3, board.Horizontal)
	before := p.ToDisplayText()
	_, err := e.Search(p, 4)
	is.NoErr(err)
	is.Equal(p.ToDisplayText(), before)
}

func TestCacheIsRecordedSortedAndConsumed(t *testing.T) {
	is := is.New(t)
	e := newEngine()

	p := mustPosition(t, 3, 3, board.Horizontal)
	first, err := e.Search(p, 4)
	is.NoErr(err)
	is.True(!first.Move.IsNull())

	// Cleanup joins the background sorter, after which every cached
	// list is in best-first order for the root mover.
	e.Cleanup()
	is.True(len(e.ordered) > 0)
	for _, nodes := range e.ordered {
		for i := 0; i+1 < len(nodes); i++ {
			is.True(!nodes[i+1].Before(nodes[i], board.Horizontal))
		}
	}

	// Advance the game two plies along a line the first search
	// examined: its best placement, then whichever vertical reply
	// leads to a remembered position.
	is.NoErr(p.Play(first.Move))
	var reply move.Move
	var fp uint64
	found := false
	for _, r := range p.Placements(board.Vertical) {
		q := p.Copy()
		q.Place(r, board.Vertical)
		q.ToggleOnMove()
		if _, ok := e.ordered[q.Fingerprint()]; ok {
			reply, fp, found = r, q.Fingerprint(), true
			break
		}
	}
	is.True(found)
	is.NoErr(p.Play(reply))
	is.Equal(p.Fingerprint(), fp)

	cached, ok := e.ordered[fp]
	is.True(ok)
	// The remembered list covers every placement horizontal has here,
	// even those the first search pruned away.
	is.Equal(len(cached), len(p.Placements(board.Horizontal)))

	// The second search consumes the entry and must agree with a cold
	// engine on the same position.
	warm, err := e.Search(p, 4)
	is.NoErr(err)
	e.Cleanup()
	_, still := e.ordered[fp]
	is.True(!still)

	cold := newEngine()
	defer cold.Cleanup()
	fresh := mustPosition(t, 3, 3, board.Horizontal)
	is.NoErr(fresh.Play(first.Move))
	is.NoErr(fresh.Play(reply))
	want, err := cold.Search(fresh, 4)
	is.NoErr(err)

	is.Equal(warm.Move, want.Move)
	is.Equal(warm.Score, want.Score)
}

func TestResetCacheForgetsEverything(t *testing.T) {
	is := is.New(t)
	e := newEngine()
	defer e.Cleanup()

	p := mustPosition(t, 3, 3, board.Horizontal)
	_, err := e.Search(p, 4)
	is.NoErr(err)
	e.ResetCache()
	is.Equal(len(e.ordered), 0)
}
