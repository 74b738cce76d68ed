// Package board implements the domineering grid: cell storage, move
// legality, placements and their undo, evaluation marks, and the
// zobrist fingerprint the search engine keys its caches by.
package board

import (
	"fmt"

	"github.com/crosscram/crosscram/move"
	"github.com/crosscram/crosscram/zobrist"
)

// Cell symbols. A cell holds exactly one of these.
const (
	EmptySym  byte = '.'
	HorizSym  byte = '-'
	VertSym   byte = '|'
	MarkedSym byte = 'x'
)

// MaxDim bounds board dimensions so move coordinates fit in a byte.
const MaxDim = 255

// Side identifies a player by tiling direction. Horizontal is the
// maximizing side throughout the engine; Vertical minimizes.
type Side uint8

const (
	Horizontal Side = iota
	Vertical
)

func (s Side) String() string {
	if s == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Other returns the opponent.
func (s Side) Other() Side {
	if s == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Sym returns the cell symbol for this side's tiles.
func (s Side) Sym() byte {
	if s == Horizontal {
		return HorizSym
	}
	return VertSym
}

// Placement builds this side's domino anchored at (row, col): one cell
// to the right for Horizontal, one cell down for Vertical.
func (s Side) Placement(row, col int) move.Move {
	if s == Horizontal {
		return move.New(row, col, row, col+1)
	}
	return move.New(row, col, row+1, col)
}

// A Position is one domineering game state: the grid contents plus the
// side to move. Positions are mutable; the search engine and the
// evaluation pipeline work on copies and leave the caller's position
// untouched.
type Position struct {
	rows, cols int
	cells      []byte
	onMove     Side
}

// New returns an empty rows x cols position with Horizontal to move.
func New(rows, cols int) (*Position, error) {
	if rows < 1 || cols < 1 || rows > MaxDim || cols > MaxDim {
		return nil, fmt.Errorf("board dimensions %dx%d outside 1..%d", rows, cols, MaxDim)
	}
	p := &Position{rows: rows, cols: cols, cells: make([]byte, rows*cols)}
	for i := range p.cells {
		p.cells[i] = EmptySym
	}
	return p, nil
}

func (p *Position) Rows() int { return p.rows }
func (p *Position) Cols() int { return p.cols }

// OnMove returns the side to move.
func (p *Position) OnMove() Side { return p.onMove }

// SetOnMove sets the side to move.
func (p *Position) SetOnMove(s Side) { p.onMove = s }

// ToggleOnMove passes the turn to the other side.
func (p *Position) ToggleOnMove() { p.onMove = p.onMove.Other() }

func (p *Position) idx(r, c int) int { return r*p.cols + c }

// CellAt returns the symbol at (r, c), which must be on the grid.
func (p *Position) CellAt(r, c int) byte { return p.cells[p.idx(r, c)] }

// EmptyAt reports whether (r, c) is an empty cell. Coordinates off the
// grid read as not empty, so neighbor probes never need bounds checks.
func (p *Position) EmptyAt(r, c int) bool {
	if r < 0 || r >= p.rows || c < 0 || c >= p.cols {
		return false
	}
	return p.cells[p.idx(r, c)] == EmptySym
}

// Mark flags (r, c) as counted by an evaluator. Only empty cells can
// be marked; anything else is left alone.
func (p *Position) Mark(r, c int) {
	if p.EmptyAt(r, c) {
		p.cells[p.idx(r, c)] = MarkedSym
	}
}

// ClearMarks erases every evaluator mark, restoring those cells to
// empty.
func (p *Position) ClearMarks() {
	for i, cell := range p.cells {
		if cell == MarkedSym {
			p.cells[i] = EmptySym
		}
	}
}

// MoveLegal reports whether m may be played in this position: a proper
// domino for the side on move, fully on the grid, over two empty
// cells.
func (p *Position) MoveLegal(m move.Move) bool {
	r1, c1, r2, c2 := int(m.R1), int(m.C1), int(m.R2), int(m.C2)
	var s Side
	switch {
	case r1 == r2 && c2 == c1+1:
		s = Horizontal
	case c1 == c2 && r2 == r1+1:
		s = Vertical
	default:
		return false
	}
	return s == p.onMove && p.EmptyAt(r1, c1) && p.EmptyAt(r2, c2)
}

// Place sets m's cells to side s's symbol. No validation; this is the
// search engine's tap primitive, undone by Unplace.
func (p *Position) Place(m move.Move, s Side) {
	p.cells[p.idx(int(m.R1), int(m.C1))] = s.Sym()
	p.cells[p.idx(int(m.R2), int(m.C2))] = s.Sym()
}

// Unplace restores m's cells to empty.
func (p *Position) Unplace(m move.Move) {
	p.cells[p.idx(int(m.R1), int(m.C1))] = EmptySym
	p.cells[p.idx(int(m.R2), int(m.C2))] = EmptySym
}

// Play makes a validated move for the side on move and passes the
// turn.
func (p *Position) Play(m move.Move) error {
	if !p.MoveLegal(m) {
		return fmt.Errorf("illegal move %v for %v", m, p.onMove)
	}
	p.Place(m, p.onMove)
	p.ToggleOnMove()
	return nil
}

// Placements enumerates every open placement for side s, in reading
// order of the anchor cell. The side on move is not consulted; the
// search engine calls this for whichever side moves at a node.
func (p *Position) Placements(s Side) []move.Move {
	dr, dc := 0, 1
	if s == Vertical {
		dr, dc = 1, 0
	}
	var ms []move.Move
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.EmptyAt(r, c) && p.EmptyAt(r+dr, c+dc) {
				ms = append(ms, move.New(r, c, r+dr, c+dc))
			}
		}
	}
	return ms
}

// HasPlacement reports whether side s has any open placement left.
func (p *Position) HasPlacement(s Side) bool {
	dr, dc := 0, 1
	if s == Vertical {
		dr, dc = 1, 0
	}
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.EmptyAt(r, c) && p.EmptyAt(r+dr, c+dc) {
				return true
			}
		}
	}
	return false
}

// Copy returns an independent copy of the position.
func (p *Position) Copy() *Position {
	c := &Position{rows: p.rows, cols: p.cols, onMove: p.onMove}
	c.cells = make([]byte, len(p.cells))
	copy(c.cells, p.cells)
	return c
}

// Fingerprint hashes the grid contents plus the side to move. Empty
// and marked cells contribute nothing, so a scratch copy carrying
// evaluator marks fingerprints the same as its source.
func (p *Position) Fingerprint() uint64 {
	z := zobrist.For(p.rows, p.cols)
	var key uint64
	for i, cell := range p.cells {
		switch cell {
		case HorizSym:
			key ^= z.PlacementKey(i, false)
		case VertSym:
			key ^= z.PlacementKey(i, true)
		}
	}
	if p.onMove == Vertical {
		key ^= z.SideToMoveKey()
	}
	return key
}
