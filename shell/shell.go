// Package shell is the interactive readline front end: play the trapper
// against the engine, reshape the board, tune the search and run self-play
// batches.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/hextrap/hextrap/automatic"
	"github.com/hextrap/hextrap/board"
	"github.com/hextrap/hextrap/config"
	"github.com/hextrap/hextrap/eval"
	"github.com/hextrap/hextrap/game"
	"github.com/hextrap/hextrap/search"
)

var errNoGame = errors.New("please start a game first with the `new` command")

// Options are the tunable settings behind the block, solve and trials
// commands.
type Options struct {
	strategy  string
	depth     int
	alphaBeta bool
	allotted  float64
	evaluator string
}

func NewOptions(cfg *config.Config) *Options {
	return &Options{
		strategy:  cfg.GetString("strategy"),
		depth:     cfg.GetInt("depth"),
		alphaBeta: cfg.GetBool("alpha-beta"),
		allotted:  cfg.GetFloat64("allotted-time"),
		evaluator: "proximity",
	}
}

func (o *Options) Show(key string) (bool, string) {
	switch key {
	case "strategy":
		return true, o.strategy
	case "depth":
		return true, strconv.Itoa(o.depth)
	case "ab":
		return true, fmt.Sprintf("%v", o.alphaBeta)
	case "time":
		return true, fmt.Sprintf("%gs", o.allotted)
	case "eval":
		return true, o.evaluator
	default:
		return false, "No such option: " + key
	}
}

func (o *Options) ToDisplayText() string {
	keys := []string{"strategy", "depth", "ab", "time", "eval"}
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range keys {
		_, val := o.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

// searchStrategy folds the named strategy into the selection flag chain.
func (o *Options) searchStrategy() (search.Strategy, bool) {
	return search.FromFlags(
		o.strategy == "random",
		o.strategy == "minimax",
		o.strategy == "limited",
		o.strategy == "iterative",
		o.depth,
		o.alphaBeta,
	)
}

func (o *Options) searchOptions() search.Options {
	opts := search.Options{
		AllottedTime: time.Duration(o.allotted * float64(time.Second)),
	}
	if o.evaluator == "mobility" {
		opts.Evaluator = eval.Mobility{}
	}
	return opts
}

type Response struct {
	message string
}

func Msg(message string) *Response {
	return &Response{message: message}
}

type ShellController struct {
	l       *readline.Instance
	cfg     *config.Config
	options *Options
	game    *game.Game
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func writeln(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func (sc *ShellController) showMessage(msg string) {
	writeln(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func NewShellController(cfg *config.Config) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mhextrap>\033[0m ",
		HistoryFile:     "/tmp/hextrap-readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg, options: NewOptions(cfg)}
}

func (sc *ShellController) newGame(args []string) (*Response, error) {
	size := sc.cfg.GetInt("board-size")
	if len(args) > 0 {
		var err error
		size, err = strconv.Atoi(args[0])
		if err != nil {
			return nil, err
		}
	}
	if size < 2 {
		return nil, fmt.Errorf("board size %d is not playable", size)
	}
	sc.game = game.New(size)
	return Msg(sc.game.Board().ToDisplayText()), nil
}

func (sc *ShellController) show() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return Msg(sc.game.Board().ToDisplayText()), nil
}

// block plays one full round: the given tile is walled off and the evader
// answers with the configured strategy.
func (sc *ShellController) block(args []string) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	t, err := parseTile(args)
	if err != nil {
		return nil, err
	}
	strat, ok := sc.options.searchStrategy()
	if !ok {
		return nil, fmt.Errorf("strategy %v is not playable", strconv.Quote(sc.options.strategy))
	}
	res, err := sc.game.PlayRound(t, strat, sc.options.searchOptions())
	if err != nil {
		return nil, err
	}
	out := strings.Builder{}
	if sc.game.Status() == game.GameOn {
		fmt.Fprintf(&out, "the evader moves to %v\n", res.Move)
	}
	out.WriteString(sc.game.Board().ToDisplayText())
	if v := verdict(sc.game.Status()); v != "" {
		out.WriteString(v + "\n")
		sc.game.AcknowledgeTimeout()
	}
	return Msg(out.String()), nil
}

func (sc *ShellController) solve() (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if !sc.game.Board().HasEvader() {
		return nil, game.ErrNoEvader
	}
	strat, ok := sc.options.searchStrategy()
	if !ok {
		return nil, fmt.Errorf("strategy %v is not playable", strconv.Quote(sc.options.strategy))
	}
	res, err := search.SelectMove(sc.game.Board(), strat, sc.options.searchOptions())
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("best move: %v  value: %.1f  nodes: %d", res.Move, res.Value, res.Nodes)
	if res.Terminated {
		msg += "  (ran out of time)"
	}
	return Msg(msg), nil
}

func (sc *ShellController) edit(args []string) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(args) != 3 {
		return nil, errors.New("edit block|unblock|cat <row> <col>")
	}
	t, err := parseTile(args[1:])
	if err != nil {
		return nil, err
	}
	switch args[0] {
	case "block":
		err = sc.game.EditBlock(t)
	case "unblock":
		err = sc.game.EditUnblock(t)
	case "cat":
		err = sc.game.EditPlaceEvader(t)
	default:
		return nil, fmt.Errorf("edit action %v is not one of block, unblock, cat", strconv.Quote(args[0]))
	}
	if err != nil {
		return nil, err
	}
	return Msg(sc.game.Board().ToDisplayText()), nil
}

func (sc *ShellController) setStrategy(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("strategy random|minimax|limited|iterative")
	}
	switch args[0] {
	case "random", "minimax", "limited", "iterative":
		sc.options.strategy = args[0]
	default:
		return nil, fmt.Errorf("strategy %v is not one of random, minimax, limited, iterative",
			strconv.Quote(args[0]))
	}
	return Msg(sc.options.ToDisplayText()), nil
}

func (sc *ShellController) setDepth(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("depth <plies>")
	}
	d, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, errors.New("depth must not be negative")
	}
	sc.options.depth = d
	return Msg(sc.options.ToDisplayText()), nil
}

func (sc *ShellController) setAlphaBeta(args []string) (*Response, error) {
	if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
		return nil, errors.New("ab on|off")
	}
	sc.options.alphaBeta = args[0] == "on"
	return Msg(sc.options.ToDisplayText()), nil
}

func (sc *ShellController) setTime(args []string) (*Response, error) {
	if len(args) != 1 {
		return nil, errors.New("time <seconds>")
	}
	secs, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return nil, err
	}
	if secs < 0 {
		return nil, errors.New("time must not be negative")
	}
	sc.options.allotted = secs
	return Msg(sc.options.ToDisplayText()), nil
}

func (sc *ShellController) setEvaluator(args []string) (*Response, error) {
	if len(args) != 1 || (args[0] != "proximity" && args[0] != "mobility") {
		return nil, errors.New("eval proximity|mobility")
	}
	sc.options.evaluator = args[0]
	return Msg(sc.options.ToDisplayText()), nil
}

func (sc *ShellController) trials(args []string) (*Response, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, errors.New("trials <games> [threads]")
	}
	games, err := strconv.Atoi(args[0])
	if err != nil {
		return nil, err
	}
	threads := 1
	if len(args) == 2 {
		threads, err = strconv.Atoi(args[1])
		if err != nil {
			return nil, err
		}
	}
	strat, ok := sc.options.searchStrategy()
	if !ok {
		return nil, fmt.Errorf("strategy %v is not playable", strconv.Quote(sc.options.strategy))
	}
	tc := automatic.TrialConfig{
		Games:    games,
		Threads:  threads,
		Size:     sc.cfg.GetInt("board-size"),
		Strategy: strat,
		Opts:     sc.options.searchOptions(),
	}
	if path := sc.cfg.GetString("trial-log"); path != "" {
		gameLog, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer gameLog.Close()
		moveLog, err := os.Create(path + ".csv")
		if err != nil {
			return nil, err
		}
		defer moveLog.Close()
		tc.GameLog = gameLog
		tc.MoveLog = moveLog
		sc.showMessage("trials will log to " + path)
	}

	ts, err := automatic.RunTrials(context.Background(), tc)
	if err != nil {
		return nil, err
	}
	out := strings.Builder{}
	out.WriteString(ts.Summary())
	out.WriteString("\nRounds per game:\n")
	if err := histogram.Fprint(&out, ts.Histogram(), histogram.Linear(40)); err != nil {
		return nil, err
	}
	return Msg(out.String()), nil
}

func (sc *ShellController) help() (*Response, error) {
	return Msg(usageText), nil
}

func verdict(st game.Status) string {
	switch st {
	case game.TrapperWins:
		return "The evader is trapped. Trapper wins!"
	case game.EvaderWins:
		return "The evader reached the edge and escaped. Evader wins!"
	case game.EvaderTimeout:
		return "The evader ran out of time and forfeits the move."
	}
	return ""
}

func parseTile(args []string) (board.Coord, error) {
	if len(args) != 2 {
		return board.NoCoord, errors.New("expected <row> <col>")
	}
	r, err := strconv.Atoi(args[0])
	if err != nil {
		return board.NoCoord, err
	}
	c, err := strconv.Atoi(args[1])
	if err != nil {
		return board.NoCoord, err
	}
	return board.Coord{Row: r, Col: c}, nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "new", "n":
		return sc.newGame(args)
	case "show", "s":
		return sc.show()
	case "block", "b":
		return sc.block(args)
	case "strategy":
		return sc.setStrategy(args)
	case "depth":
		return sc.setDepth(args)
	case "ab":
		return sc.setAlphaBeta(args)
	case "time":
		return sc.setTime(args)
	case "eval":
		return sc.setEvaluator(args)
	case "solve":
		return sc.solve()
	case "edit":
		return sc.edit(args)
	case "trials":
		return sc.trials(args)
	case "help":
		return sc.help()
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line and returns once it completes.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	defer sc.l.Close()
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
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

		if line == "exit" || line == "bye" {
			sig <- syscall.SIGINT
			break
		}
		resp, err := sc.handle(line)
		if err != nil {
			sc.showError(err)
		} else if resp != nil {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
