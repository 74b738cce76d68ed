package search

import "github.com/crosscram/crosscram/board"

const (
	// Infinity is 10 million. Proven wins and losses sit at the
	// extremes; heuristic scores stay orders of magnitude inside them.
	Infinity = 10000000
)

// A Window holds the alpha-beta bounds for one branch of the search.
// It travels by value: each recursive call receives the window as
// narrowed by the earlier siblings at its level and narrows its own
// copy as its children resolve.
type Window struct {
	Alpha int
	Beta  int
}

// FullWindow is the root bracket, wide open in both directions.
func FullWindow() Window {
	return Window{Alpha: -Infinity, Beta: Infinity}
}

// Update raises Alpha with the maximizer's candidate score, or lowers
// Beta with the minimizer's. Alpha only ever rises and Beta only ever
// falls within one call chain.
func (w *Window) Update(score int, mover board.Side) {
	if mover == board.Horizontal {
		if score > w.Alpha {
			w.Alpha = score
		}
	} else if score < w.Beta {
		w.Beta = score
	}
}

// CanPrune reports whether the candidate score ends its level: a beta
// cutoff for the maximizer, an alpha cutoff for the minimizer.
func (w Window) CanPrune(score int, mover board.Side) bool {
	if mover == board.Horizontal {
		return score >= w.Beta
	}
	return score <= w.Alpha
}
