package eval

import "github.com/crosscram/crosscram/board"

// ReservedPairs counts the empty pairs only its side can ever fill:
// the perpendicular neighbors of both cells are occupied or off the
// board, so the opposing orientation can never reach them. Counted
// cells are marked.
type ReservedPairs struct {
	Side board.Side
}

func (e ReservedPairs) Evaluate(p *board.Position) int {
	count := 0
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			if reserved(p, e.Side, r, c) {
				markPair(p, e.Side, r, c)
				count++
			}
		}
	}
	return count
}

// OpenPairs counts the empty adjacent pairs its side could still fill,
// marking them. Run after ReservedPairs it sees only the unreserved
// remainder.
type OpenPairs struct {
	Side board.Side
}

func (e OpenPairs) Evaluate(p *board.Position) int {
	count := 0
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			if open(p, e.Side, r, c) {
				markPair(p, e.Side, r, c)
				count++
			}
		}
	}
	return count
}

// ClearMarks erases the marks the counting evaluators left, so one
// side's counts do not starve the other's. It never contributes to the
// score.
type ClearMarks struct{}

func (ClearMarks) Evaluate(p *board.Position) int {
	p.ClearMarks()
	return 0
}

func open(p *board.Position, s board.Side, r, c int) bool {
	if s == board.Horizontal {
		return p.EmptyAt(r, c) && p.EmptyAt(r, c+1)
	}
	return p.EmptyAt(r, c) && p.EmptyAt(r+1, c)
}

func reserved(p *board.Position, s board.Side, r, c int) bool {
	if !open(p, s, r, c) {
		return false
	}
	if s == board.Horizontal {
		return !p.EmptyAt(r-1, c) && !p.EmptyAt(r-1, c+1) &&
			!p.EmptyAt(r+1, c) && !p.EmptyAt(r+1, c+1)
	}
	return !p.EmptyAt(r, c-1) && !p.EmptyAt(r+1, c-1) &&
		!p.EmptyAt(r, c+1) && !p.EmptyAt(r+1, c+1)
}

func markPair(p *board.Position, s board.Side, r, c int) {
	p.Mark(r, c)
	if s == board.Horizontal {
		p.Mark(r, c+1)
	} else {
		p.Mark(r+1, c)
	}
}
