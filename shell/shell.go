// Package shell is the interactive controller: it owns the game
// position, the search engine, and the value table, and maps typed
// commands onto them.
package shell

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/crosscram/crosscram/board"
	"github.com/crosscram/crosscram/config"
	"github.com/crosscram/crosscram/eval"
	"github.com/crosscram/crosscram/search"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	game     *board.Position
	engine   *search.Engine
	pipeline eval.Pipeline
	table    *search.Table

	plies int
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mcrosscram>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}

	weights := eval.DefaultWeights()
	if wf := cfg.GetString("weights-file"); wf != "" {
		w, err := eval.LoadWeights(wf)
		if err != nil {
			log.Err(err).Msg("could not load weights; using defaults")
		} else {
			weights = w
		}
	}
	pipeline := eval.New(weights)

	engine := &search.Engine{}
	engine.Init(pipeline)

	sc := &ShellController{
		l:        l,
		cfg:      cfg,
		engine:   engine,
		pipeline: pipeline,
		plies:    cfg.GetInt("plies"),
	}
	if tf := cfg.GetString("ttable-file"); tf != "" {
		t, err := search.LoadTable(tf)
		if err != nil {
			log.Err(err).Msg("could not load table file; starting without one")
		} else {
			sc.table = t
		}
	}
	return sc
}

var (
	errNoData            = errors.New("no data in command")
	errWrongOptionSyntax = errors.New("options need to come in pairs")
	errNoGame            = errors.New("please start a game first with the `new` command")
)

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

// extractFields splits a command line into the command word, its plain
// arguments, and -key value option pairs.
func extractFields(line string) (*shellcmd, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	idx := 1
	for idx < len(fields) && !strings.HasPrefix(fields[idx], "-") {
		args = append(args, fields[idx])
		idx++
	}
	for idx < len(fields) {
		opt := strings.TrimPrefix(fields[idx], "-")
		if idx+1 >= len(fields) {
			return nil, errWrongOptionSyntax
		}
		options[opt] = fields[idx+1]
		idx += 2
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) standardModeSwitch(line string, sig chan os.Signal) error {
	cmd, err := extractFields(line)
	if err != nil {
		if errors.Is(err, errNoData) {
			return nil
		}
		sc.showError(err)
		return nil
	}

	var out *Response
	switch cmd.cmd {
	case "new":
		out, err = sc.newGame(cmd)
	case "play":
		out, err = sc.playMove(cmd)
	case "auto":
		out, err = sc.autoMove(cmd)
	case "solve":
		out, err = sc.solve(cmd)
	case "moves":
		out, err = sc.listMoves(cmd)
	case "eval":
		out, err = sc.evalPosition(cmd)
	case "show":
		out, err = sc.show(cmd)
	case "turn":
		out, err = sc.setTurn(cmd)
	case "ttinfo":
		out, err = sc.ttInfo(cmd)
	case "ttsave":
		out, err = sc.ttSave(cmd)
	case "ttload":
		out, err = sc.ttLoad(cmd)
	case "help":
		out, err = usage()
	case "bye", "exit":
		sig <- syscall.SIGINT
		return errors.New("sending quit signal")
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(line))
	}
	if err != nil {
		sc.showError(err)
		return nil
	}
	if out != nil {
		sc.showMessage(out.message)
	}
	return nil
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)

		err = sc.standardModeSwitch(line, sig)
		if err != nil {
			log.Error().Err(err).Msg("")
			break
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Execute runs a single command line, for one-shot invocations from
// the command line.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	defer sc.l.Close()
	if err := sc.standardModeSwitch(line, sig); err != nil {
		log.Error().Err(err).Msg("")
	}
}

// Cleanup joins the engine's background sorter and, when a table file
// is configured, persists the table before exit.
func (sc *ShellController) Cleanup() {
	if sc.table != nil {
		if tf := sc.cfg.GetString("ttable-file"); tf != "" {
			if err := sc.table.Save(tf); err != nil {
				log.Err(err).Msg("could not save table file")
			}
		}
	}
	sc.engine.Cleanup()
}
