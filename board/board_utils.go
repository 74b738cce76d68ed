package board

import (
	"errors"
	"fmt"
	"strings"
)

// ToDisplayText returns the position as a bordered grid with lettered
// columns and numbered rows, plus the side to move.
func (p *Position) ToDisplayText() string {
	var str string
	row := "   "
	for c := 0; c < p.cols; c++ {
		row = row + fmt.Sprintf("%c", 'A'+c) + " "
	}
	str = str + row + "\n"
	str = str + "   " + strings.Repeat("-", p.cols*2) + "\n"
	for r := 0; r < p.rows; r++ {
		row := fmt.Sprintf("%2d|", r+1)
		for c := 0; c < p.cols; c++ {
			row = row + string(p.CellAt(r, c)) + " "
		}
		row = row + "|"
		str = str + row + "\n"
	}
	str = str + "   " + strings.Repeat("-", p.cols*2) + "\n"
	str = str + fmt.Sprintf("%v to move\n", p.onMove)
	return "\n" + str
}

// FromPlaintext builds a position from one line of cell symbols per
// row ('.' empty, '-' horizontal tile, '|' vertical tile). Blank lines
// and surrounding whitespace are ignored. Horizontal starts on move;
// fixtures that need the other side call SetOnMove afterward.
func FromPlaintext(text string) (*Position, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New("empty board text")
	}
	p, err := New(len(lines), len(lines[0]))
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		if len(line) != p.cols {
			return nil, fmt.Errorf("row %d has %d cells; want %d", r+1, len(line), p.cols)
		}
		for c := 0; c < p.cols; c++ {
			switch line[c] {
			case EmptySym, HorizSym, VertSym:
				p.cells[p.idx(r, c)] = line[c]
			default:
				return nil, fmt.Errorf("bad cell %q at row %d col %d", line[c], r+1, c+1)
			}
		}
	}
	return p, nil
}
