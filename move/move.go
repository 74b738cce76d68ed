// Package move defines the domino placement type shared by the board,
// the evaluation pipeline, and the search engine.
package move

import (
	"fmt"
	"strconv"
	"strings"
)

// A Move is one domino placement: two orthogonally adjacent cells as
// (row, col) pairs, kept in reading order (top-left half first). The
// zero value is the null move, which stands for "no placement" at the
// root of a search tree.
type Move struct {
	R1, C1 uint8
	R2, C2 uint8
}

// New builds a placement from two coordinate pairs, reordering them
// into reading order if needed. It does not verify adjacency; the
// board's legality predicate owns that.
func New(r1, c1, r2, c2 int) Move {
	if r2 < r1 || (r1 == r2 && c2 < c1) {
		r1, c1, r2, c2 = r2, c2, r1, c1
	}
	return Move{R1: uint8(r1), C1: uint8(c1), R2: uint8(r2), C2: uint8(c2)}
}

// IsNull reports whether this is the null move. A real placement always
// covers two distinct cells.
func (m Move) IsNull() bool {
	return m.R1 == m.R2 && m.C1 == m.C2
}

// IsHorizontal reports whether the placement lies within one row.
func (m Move) IsHorizontal() bool {
	return !m.IsNull() && m.R1 == m.R2
}

// IsVertical reports whether the placement lies within one column.
func (m Move) IsVertical() bool {
	return !m.IsNull() && m.C1 == m.C2
}

// Less orders moves by coordinates in reading order. It is the sort
// tie-break when two candidate moves carry equal scores.
func (m Move) Less(o Move) bool {
	if m.R1 != o.R1 {
		return m.R1 < o.R1
	}
	if m.C1 != o.C1 {
		return m.C1 < o.C1
	}
	if m.R2 != o.R2 {
		return m.R2 < o.R2
	}
	return m.C2 < o.C2
}

// String renders the placement in letter-number coordinates, for
// example "a1-b1" for the top-left horizontal placement.
func (m Move) String() string {
	if m.IsNull() {
		return "(none)"
	}
	return cellString(m.R1, m.C1) + "-" + cellString(m.R2, m.C2)
}

func cellString(r, c uint8) string {
	return fmt.Sprintf("%c%d", 'a'+rune(c), int(r)+1)
}

// Parse reads a placement in the same letter-number form String
// produces ("a1-b1", case-insensitive, either cell first). The two
// cells must be orthogonally adjacent.
func Parse(s string) (Move, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "-")
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("move %q must name two cells, like a1-b1", s)
	}
	r1, c1, err := parseCell(parts[0])
	if err != nil {
		return Move{}, err
	}
	r2, c2, err := parseCell(parts[1])
	if err != nil {
		return Move{}, err
	}
	m := New(r1, c1, r2, c2)
	if !(m.R1 == m.R2 && m.C2 == m.C1+1) && !(m.C1 == m.C2 && m.R2 == m.R1+1) {
		return Move{}, fmt.Errorf("cells in %q are not adjacent", s)
	}
	return m, nil
}

func parseCell(s string) (int, int, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'z' {
		return 0, 0, fmt.Errorf("bad cell %q; want a column letter then a row number", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 || row > 256 {
		return 0, 0, fmt.Errorf("bad row in cell %q", s)
	}
	return row - 1, int(s[0] - 'a'), nil
}
