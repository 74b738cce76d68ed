package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/crosscram/crosscram/board"
	"github.com/crosscram/crosscram/move"
	"github.com/crosscram/crosscram/search"
)

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func sideFromStr(s string) (board.Side, error) {
	switch strings.ToLower(s) {
	case "h", "horizontal":
		return board.Horizontal, nil
	case "v", "vertical":
		return board.Vertical, nil
	}
	return board.Horizontal, errors.New("side " + s + " is not a valid choice")
}

func scoreText(n search.Node) string {
	switch {
	case n.Score >= search.Infinity:
		return "a proven win for horizontal"
	case n.Score <= -search.Infinity:
		return "a proven win for vertical"
	}
	return fmt.Sprintf("score %d", n.Score)
}

// loserLine announces the loser when the side now on move is stuck.
func (sc *ShellController) loserLine() string {
	onMove := sc.game.OnMove()
	if sc.game.HasPlacement(onMove) {
		return ""
	}
	return fmt.Sprintf("\n%v has no placement left and loses", onMove)
}

// rememberValue records a resolved root value in the table. With a
// full window at the root the search value is exact, never a bound.
func (sc *ShellController) rememberValue(fp uint64, n search.Node, plies int) {
	if sc.table == nil {
		return
	}
	if plies > 255 {
		plies = 255
	}
	sc.table.Store(fp, search.TableEntry{
		Score: int32(n.Score),
		Depth: uint8(plies),
		Flag:  search.TTExact,
	})
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	rows := sc.cfg.GetInt("rows")
	cols := sc.cfg.GetInt("cols")
	if len(cmd.args) == 2 {
		var err error
		if rows, err = strconv.Atoi(cmd.args[0]); err != nil {
			return nil, err
		}
		if cols, err = strconv.Atoi(cmd.args[1]); err != nil {
			return nil, err
		}
	} else if len(cmd.args) != 0 {
		return nil, errors.New("usage: new [rows cols]")
	}
	g, err := board.New(rows, cols)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.engine.ResetCache()
	if sc.table == nil || !sc.table.Fits(g) {
		sc.table = search.NewTable(rows, cols)
	}
	return msg(g.ToDisplayText()), nil
}

func (sc *ShellController) playMove(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <placement>, for example `play a1-b1`")
	}
	m, err := move.Parse(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.Play(m); err != nil {
		return nil, err
	}
	return msg(sc.game.ToDisplayText() + sc.loserLine()), nil
}

func (sc *ShellController) autoMove(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	plies, err := cmd.options.IntDefault("plies", sc.plies)
	if err != nil {
		return nil, err
	}
	mover := sc.game.OnMove()
	n, err := sc.engine.Search(sc.game, plies)
	if err != nil {
		return nil, err
	}
	if n.Move.IsNull() {
		return msg(fmt.Sprintf("%v has no placement left and loses", mover)), nil
	}
	sc.rememberValue(sc.game.Fingerprint(), n, plies)
	if err := sc.game.Play(n.Move); err != nil {
		return nil, err
	}
	out := fmt.Sprintf("%v plays %v (%s)\n%s",
		mover, n.Move, scoreText(n), sc.game.ToDisplayText())
	return msg(out + sc.loserLine()), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	plies, err := cmd.options.IntDefault("plies", sc.plies)
	if err != nil {
		return nil, err
	}
	n, err := sc.engine.Search(sc.game, plies)
	if err != nil {
		return nil, err
	}
	if n.Terminal && n.Move.IsNull() {
		return msg(fmt.Sprintf("%v has no placement left and loses", sc.game.OnMove())), nil
	}
	sc.rememberValue(sc.game.Fingerprint(), n, plies)
	if n.Move.IsNull() {
		return msg(fmt.Sprintf("position has %s with no lookahead", scoreText(n))), nil
	}
	return msg(fmt.Sprintf("best placement %v (%s) at %d plies", n.Move, scoreText(n), plies)), nil
}

func (sc *ShellController) listMoves(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	mover := sc.game.OnMove()
	placements := sc.game.Placements(mover)
	if len(placements) == 0 {
		return msg(fmt.Sprintf("%v has no placement left", mover)), nil
	}
	rows := lo.Map(placements, func(m move.Move, idx int) string {
		return fmt.Sprintf("%3d: %v", idx+1, m)
	})
	header := fmt.Sprintf("%d placements for %v:\n", len(placements), mover)
	return msg(header + strings.Join(rows, "\n")), nil
}

func (sc *ShellController) evalPosition(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(fmt.Sprintf("static evaluation: %d", sc.pipeline.Score(sc.game))), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) setTurn(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: turn h|v")
	}
	side, err := sideFromStr(cmd.args[0])
	if err != nil {
		return nil, err
	}
	sc.game.SetOnMove(side)
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) ttInfo(cmd *shellcmd) (*Response, error) {
	if sc.table == nil {
		return msg("no table; start a game or use `ttload`"), nil
	}
	created, lookups, hits := sc.table.Stats()
	lines := []string{
		fmt.Sprintf("table for %dx%d boards: %d entries",
			sc.table.Rows(), sc.table.Cols(), sc.table.Len()),
		fmt.Sprintf("stores %d, lookups %d, hits %d", created, lookups, hits),
	}
	if sc.game != nil && sc.table.Fits(sc.game) {
		if entry, ok := sc.table.Lookup(sc.game.Fingerprint()); ok {
			lines = append(lines, fmt.Sprintf("current position: score %d at depth %d",
				entry.Score, entry.Depth))
		} else {
			lines = append(lines, "current position: not in table")
		}
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) ttSave(cmd *shellcmd) (*Response, error) {
	if sc.table == nil {
		return nil, errors.New("no table to save")
	}
	path := sc.cfg.GetString("ttable-file")
	if len(cmd.args) == 1 {
		path = cmd.args[0]
	}
	if path == "" {
		return nil, errors.New("usage: ttsave <file>")
	}
	if err := sc.table.Save(path); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("saved %d entries to %v", sc.table.Len(), path)), nil
}

func (sc *ShellController) ttLoad(cmd *shellcmd) (*Response, error) {
	path := sc.cfg.GetString("ttable-file")
	if len(cmd.args) == 1 {
		path = cmd.args[0]
	}
	if path == "" {
		return nil, errors.New("usage: ttload <file>")
	}
	t, err := search.LoadTable(path)
	if err != nil {
		return nil, err
	}
	if sc.game != nil && !t.Fits(sc.game) {
		return nil, fmt.Errorf("table is for %dx%d boards; the current game is %dx%d",
			t.Rows(), t.Cols(), sc.game.Rows(), sc.game.Cols())
	}
	sc.table = t
	return msg(fmt.Sprintf("loaded %d entries from %v", t.Len(), path)), nil
}
