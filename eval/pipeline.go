// Package eval implements the heuristic evaluation pipeline: an
// ordered list of weighted calculators that together score a leaf
// position, positive when the horizontal side stands better.
package eval

import "github.com/crosscram/crosscram/board"

// An Evaluator measures one feature of a position. Evaluators run
// against a scratch copy of the position, never the live one, and may
// mark cells on the copy so overlapping features are not counted
// twice.
type Evaluator interface {
	Evaluate(p *board.Position) int
}

// A Weight scales an evaluator's count into the final score. Weights
// see the original position, not the scratch copy.
type Weight func(p *board.Position) int

// Fixed returns a position-independent weight.
func Fixed(n int) Weight {
	return func(*board.Position) int { return n }
}

// A Term is one (evaluator, weight) pair of the pipeline.
type Term struct {
	Eval   Evaluator
	Weight Weight
}

// A Pipeline is an ordered list of terms. Order matters: a side's
// reservation count must run, and its marks must be cleared, before
// the other side's counts see the board.
type Pipeline []Term

// Score copies the position once and accumulates
// weight(position) * evaluator(scratch) over the terms in order. The
// original position is never written.
func (pl Pipeline) Score(p *board.Position) int {
	scratch := p.Copy()
	total := 0
	for _, t := range pl {
		total += t.Weight(p) * t.Eval.Evaluate(scratch)
	}
	return total
}

// New builds the canonical pipeline: horizontal reservations, then
// leftover horizontal pairs, a mark sweep, and the vertical mirror
// with negated weights.
func New(w Weights) Pipeline {
	return Pipeline{
		{Eval: ReservedPairs{board.Horizontal}, Weight: Fixed(w.Reserved)},
		{Eval: OpenPairs{board.Horizontal}, Weight: Fixed(w.Open)},
		{Eval: ClearMarks{}, Weight: Fixed(0)},
		{Eval: ReservedPairs{board.Vertical}, Weight: Fixed(-w.Reserved)},
		{Eval: OpenPairs{board.Vertical}, Weight: Fixed(-w.Open)},
		{Eval: ClearMarks{}, Weight: Fixed(0)},
	}
}

// Default is New with DefaultWeights.
func Default() Pipeline {
	return New(DefaultWeights())
}
