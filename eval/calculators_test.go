package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/crosscram/crosscram/board"
)

func mustBoard(t *testing.T, text string) *board.Position {
	t.Helper()
	p, err := board.FromPlaintext(text)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBoundaryReservation(t *testing.T) {
	is := is.New(t)
	// On a 1x2 grid the single horizontal pair is flanked only by the
	// board edge, so it is reserved, not merely open.
	p := mustBoard(t, `..`)
	is.Equal(ReservedPairs{board.Horizontal}.Evaluate(p.Copy()), 1)
	is.Equal(Default().Score(p), 2)
}

func TestOpenPairsEmptySquare(t *testing.T) {
	is := is.New(t)
	p := mustBoard(t, `
		..
		..
	`)
	is.Equal(ReservedPairs{board.Horizontal}.Evaluate(p.Copy()), 0)
	is.Equal(OpenPairs{board.Horizontal}.Evaluate(p.Copy()), 2)
	is.Equal(OpenPairs{board.Vertical}.Evaluate(p.Copy()), 2)
	// The square is symmetric, so the sides cancel.
	is.Equal(Default().Score(p), 0)
}

func TestNoDoubleCounting(t *testing.T) {
	is := is.New(t)
	// Four cells in a row hold two disjoint reserved pairs, never
	// three: the middle overlap is consumed by the marking.
	p := mustBoard(t, `....`)
	is.Equal(ReservedPairs{board.Horizontal}.Evaluate(p.Copy()), 2)
	is.Equal(Default().Score(p), 4)
}

func TestReservedByTiles(t *testing.T) {
	is := is.New(t)
	// The a2-b2 gap is walled in above and below by played tiles, so
	// only a horizontal domino can ever fill it.
	p := mustBoard(t, `
		--..
		....
		--..
	`)
	scratch := p.Copy()
	is.Equal(ReservedPairs{board.Horizontal}.Evaluate(scratch), 1)
	// The right half of each row still holds an open pair.
	is.Equal(OpenPairs{board.Horizontal}.Evaluate(scratch), 3)
}

func TestClearMarksOrderMatters(t *testing.T) {
	is := is.New(t)
	p := mustBoard(t, `
		..
		..
	`)
	// Without the sweep between sides, horizontal's marks starve the
	// vertical count completely.
	greedy := Pipeline{
		{Eval: OpenPairs{board.Horizontal}, Weight: Fixed(1)},
		{Eval: OpenPairs{board.Vertical}, Weight: Fixed(-1)},
	}
	is.Equal(greedy.Score(p), 2)

	swept := Pipeline{
		{Eval: OpenPairs{board.Horizontal}, Weight: Fixed(1)},
		{Eval: ClearMarks{}, Weight: Fixed(0)},
		{Eval: OpenPairs{board.Vertical}, Weight: Fixed(-1)},
	}
	is.Equal(swept.Score(p), 0)
}

func TestScoreDeterministicAndPure(t *testing.T) {
	is := is.New(t)
	p := mustBoard(t, `
		--|.
		..|.
		....
	`)
	before := p.ToDisplayText()
	fp := p.Fingerprint()
	s1 := Default().Score(p)
	s2 := Default().Score(p)
	is.Equal(s1, s2)
	is.Equal(p.ToDisplayText(), before)
	is.Equal(p.Fingerprint(), fp)
}

func TestTransposedBoardsNegate(t *testing.T) {
	is := is.New(t)
	// 2x3: the marking admits two non-overlapping horizontal pairs
	// against three disjoint vertical ones.
	wide := mustBoard(t, `
		...
		...
	`)
	is.Equal(Default().Score(wide), -1)
	// The transpose flips the counts, and so the sign.
	tall := mustBoard(t, `
		..
		..
		..
	`)
	is.Equal(Default().Score(tall), 1)
}

type stubEval struct {
	n int
}

func (s stubEval) Evaluate(*board.Position) int { return s.n }

func TestPipelineIsPluggable(t *testing.T) {
	is := is.New(t)
	p := mustBoard(t, `..`)
	pl := Pipeline{
		{Eval: stubEval{3}, Weight: Fixed(10)},
		{Eval: stubEval{1}, Weight: Fixed(-7)},
	}
	is.Equal(pl.Score(p), 23)
	is.Equal(Pipeline{}.Score(p), 0)
}

func TestLoadWeights(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "weights.yaml")
	is.NoErr(os.WriteFile(path, []byte("reserved: 3\nopen: 2\n"), 0644))
	w, err := LoadWeights(path)
	is.NoErr(err)
	is.Equal(w, Weights{Reserved: 3, Open: 2})

	_, err = LoadWeights(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for a missing file")
	}

	is.NoErr(os.WriteFile(path, []byte("reserved: -1\nopen: 1\n"), 0644))
	_, err = LoadWeights(path)
	if err == nil {
		t.Error("expected error for negative weights")
	}

	is.NoErr(os.WriteFile(path, []byte("reserved: [nope\n"), 0644))
	_, err = LoadWeights(path)
	if err == nil {
		t.Error("expected error for malformed yaml")
	}
}
