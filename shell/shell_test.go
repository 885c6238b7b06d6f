package shell

import (
	"os"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/hextrap/hextrap/board"
	"github.com/hextrap/hextrap/config"
	"github.com/hextrap/hextrap/game"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// testController builds a controller without a readline instance; handle
// never touches it.
func testController(t *testing.T, args ...string) *ShellController {
	t.Helper()
	cfg := &config.Config{}
	if err := cfg.Load(args); err != nil {
		t.Fatal(err)
	}
	return &ShellController{cfg: cfg, options: NewOptions(cfg)}
}

func gameFrom(t *testing.T, rows [][]int) *game.Game {
	t.Helper()
	g, err := game.FromGrid(rows)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func escapeRows() [][]int {
	return [][]int{
		{1, 1, 1, 1},
		{1, 0, 6, 0},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	}
}

func trappedRows() [][]int {
	return [][]int{
		{0, 1, 1, 0},
		{1, 6, 1, 0},
		{0, 1, 1, 0},
		{0, 0, 0, 0},
	}
}

func TestHandleRequiresGame(t *testing.T) {
	is := is.New(t)
	for _, line := range []string{"show", "block 1 1", "solve", "edit block 1 1"} {
		sc := testController(t)
		resp, err := sc.handle(line)
		is.Equal(resp, (*Response)(nil))
		is.Equal(err, errNoGame)
	}
}

func TestHandleNew(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	resp, err := sc.handle("new 5")
	is.NoErr(err)
	is.True(resp.message != "")
	is.Equal(sc.game.Board().Dim(), 5)

	// Without a size argument the configured default applies.
	_, err = sc.handle("new")
	is.NoErr(err)
	is.Equal(sc.game.Board().Dim(), 7)

	_, err = sc.handle("new five")
	is.True(err != nil)

	_, err = sc.handle("new 1")
	is.True(err != nil)
}

func TestHandleSettings(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	// Config defaults seed the options.
	is.Equal(sc.options.strategy, "iterative")
	is.Equal(sc.options.depth, 4)
	is.Equal(sc.options.alphaBeta, true)
	is.Equal(sc.options.allotted, 2.0)
	is.Equal(sc.options.evaluator, "proximity")

	resp, err := sc.handle("strategy minimax")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "strategy: minimax"))

	_, err = sc.handle("depth 6")
	is.NoErr(err)
	is.Equal(sc.options.depth, 6)

	_, err = sc.handle("ab off")
	is.NoErr(err)
	is.Equal(sc.options.alphaBeta, false)

	_, err = sc.handle("time 0.5")
	is.NoErr(err)
	is.Equal(sc.options.allotted, 0.5)

	_, err = sc.handle("eval mobility")
	is.NoErr(err)
	is.Equal(sc.options.evaluator, "mobility")

	for _, bad := range []string{
		"strategy bogus", "depth x", "depth -1", "ab maybe", "time -1", "eval none",
	} {
		_, err = sc.handle(bad)
		is.True(err != nil)
	}
}

func TestHandleBlockPlaysRound(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	sc.game = gameFrom(t, trappedRows())
	sc.options.strategy = "minimax"

	resp, err := sc.handle("block 3 3")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "trapped"))
	is.Equal(sc.game.Status(), game.TrapperWins)
	is.Equal(sc.game.Board().At(board.Coord{Row: 3, Col: 3}), board.Blocked)
}

func TestHandleBlockReportsEvaderMove(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	sc.game = gameFrom(t, escapeRows())
	sc.options.strategy = "minimax"

	resp, err := sc.handle("block 1 1")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "the evader moves to (1, 3)"))
	is.Equal(sc.game.Status(), game.GameOn)

	resp, err = sc.handle("block 1 2")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "escaped"))
	is.Equal(sc.game.Status(), game.EvaderWins)
}

func TestHandleSolveDoesNotMutate(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	sc.game = gameFrom(t, escapeRows())
	sc.options.strategy = "minimax"

	resp, err := sc.handle("solve")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "best move: (1, 3)"))
	is.Equal(sc.game.Board().Evader(), board.Coord{Row: 1, Col: 2})
	is.Equal(sc.game.Rounds(), 0)
}

func TestHandleEdit(t *testing.T) {
	is := is.New(t)
	sc := testController(t)
	sc.game = game.NewEmpty(5)

	_, err := sc.handle("edit block 0 0")
	is.NoErr(err)
	is.Equal(sc.game.Board().At(board.Coord{Row: 0, Col: 0}), board.Blocked)

	_, err = sc.handle("edit unblock 0 0")
	is.NoErr(err)
	is.Equal(sc.game.Board().At(board.Coord{Row: 0, Col: 0}), board.Empty)

	_, err = sc.handle("edit cat 1 1")
	is.NoErr(err)
	is.Equal(sc.game.Board().Evader(), board.Coord{Row: 1, Col: 1})

	_, err = sc.handle("edit warp 0 0")
	is.True(err != nil)

	_, err = sc.handle("edit block 9 9")
	is.True(err != nil)
}

func TestHandleTrials(t *testing.T) {
	is := is.New(t)
	sc := testController(t, "--board-size", "5")

	_, err := sc.handle("strategy limited")
	is.NoErr(err)
	_, err = sc.handle("depth 2")
	is.NoErr(err)

	resp, err := sc.handle("trials 6 2")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Games played: 6"))
	is.True(strings.Contains(resp.message, "Rounds per game"))

	_, err = sc.handle("trials")
	is.True(err != nil)
}

func TestHandleUnknownCommand(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	_, err := sc.handle("frobnicate")
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "not found"))
}

func TestHandleEmptyLine(t *testing.T) {
	is := is.New(t)
	sc := testController(t)

	resp, err := sc.handle("")
	is.NoErr(err)
	is.Equal(resp, (*Response)(nil))
}
