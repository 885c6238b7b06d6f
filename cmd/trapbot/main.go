// trapbot drives a running hextrap server over its websocket protocol: it
// starts games and plays uniformly random trapper clicks until each game is
// decided, then prints a tally. Useful for exercising a server end to end.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/hextrap/hextrap/config"
	"github.com/hextrap/hextrap/game"
	"github.com/hextrap/hextrap/server"
)

// reply folds both server message shapes; Command discriminates.
type reply struct {
	Command string `json:"command"`
	Data    string `json:"data,omitempty"`
	Reason  int    `json:"reason,omitempty"`
}

type tile struct{ row, col int }

type tally struct {
	games       int
	trapperWins int
	evaderWins  int
	timeouts    int
	rounds      int
}

func main() {

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		panic(err)
	}
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	games := 10
	if args := cfg.Args(); len(args) > 0 {
		var err error
		games, err = strconv.Atoi(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("usage: trapbot [games]")
		}
	}

	addr := cfg.GetString("ws-address")
	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			var err error
			conn, _, err = websocket.DefaultDialer.Dial("ws://"+addr+"/", nil)
			return err
		},
		retry.Attempts(5),
		retry.Delay(500*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			log.Info().Uint("attempt", n).Err(err).Msg("dial failed, retrying")
		}),
	)
	if err != nil {
		log.Fatal().Err(err).Str("ws-address", addr).Msg("could not reach the server")
	}
	defer conn.Close()

	start := time.Now()
	var t tally
	for i := 0; i < games; i++ {
		if err := playGame(conn, cfg, &t); err != nil {
			log.Fatal().Err(err).Int("game", i).Msg("game aborted")
		}
		t.games++
	}

	fmt.Printf("Played %d games in %v\n", t.games, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Trapper wins: %d\n", t.trapperWins)
	fmt.Printf("Evader wins: %d\n", t.evaderWins)
	fmt.Printf("Timed-out rounds: %d\n", t.timeouts)
	fmt.Printf("Total rounds: %d\n", t.rounds)
}

func playGame(conn *websocket.Conn, cfg *config.Config, t *tally) error {
	size := cfg.GetInt("board-size")
	if err := send(conn, server.Request{Command: "new_game", Size: size}); err != nil {
		return err
	}
	rep, err := recv(conn)
	if err != nil {
		return err
	}
	grid, err := gridOf(rep)
	if err != nil {
		return err
	}

	// Every round blocks a tile, so the game must end within one round per
	// tile on the board.
	for round := 0; round <= size*size; round++ {
		clicked, ok := randomEmpty(grid)
		if !ok {
			return errors.New("no empty tiles left to click")
		}
		req := server.Request{
			Command:     "move",
			ClickedTile: []int{clicked.row, clicked.col},
			Deadline:    cfg.GetFloat64("allotted-time"),
			Strategy:    cfg.GetString("strategy"),
			Depth:       cfg.GetInt("depth"),
			AlphaBeta:   cfg.GetBool("alpha-beta"),
		}
		if err := send(conn, req); err != nil {
			return err
		}
		rep, err := recv(conn)
		if err != nil {
			return err
		}
		next, err := gridOf(rep)
		if err != nil {
			return err
		}
		t.rounds++

		// An evader that stays put always means a verdict follows: trapped,
		// an escape detected at the start of the round, or a timeout.
		if evaderOf(next) != evaderOf(grid) {
			grid = next
			continue
		}
		grid = next
		rep, err = recv(conn)
		if err != nil {
			return err
		}
		if rep.Command != "endgame" {
			return fmt.Errorf("expected an endgame report, got %q", rep.Command)
		}
		switch game.Status(rep.Reason) {
		case game.TrapperWins:
			t.trapperWins++
			log.Debug().Int("round", round).Msg("trapped the evader")
			return nil
		case game.EvaderWins:
			t.evaderWins++
			log.Debug().Int("round", round).Msg("the evader escaped")
			return nil
		case game.EvaderTimeout:
			// The server resets a reported timeout to an ongoing game.
			t.timeouts++
		default:
			return fmt.Errorf("unexpected endgame reason %d", rep.Reason)
		}
	}
	return errors.New("game did not finish within the round bound")
}

func evaderOf(rows [][]int) tile {
	for r, row := range rows {
		for c, v := range row {
			if v == 6 {
				return tile{r, c}
			}
		}
	}
	return tile{-1, -1}
}

func randomEmpty(rows [][]int) (tile, bool) {
	var empties []tile
	for r, row := range rows {
		for c, v := range row {
			if v == 0 {
				empties = append(empties, tile{r, c})
			}
		}
	}
	if len(empties) == 0 {
		return tile{}, false
	}
	return empties[frand.Intn(len(empties))], true
}

func gridOf(rep reply) ([][]int, error) {
	if rep.Command != "updateGrid" {
		return nil, fmt.Errorf("expected a grid update, got %q", rep.Command)
	}
	var rows [][]int
	if err := sonic.UnmarshalString(rep.Data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func send(conn *websocket.Conn, v any) error {
	out, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, out)
}

func recv(conn *websocket.Conn) (reply, error) {
	var rep reply
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return rep, err
	}
	if err := sonic.Unmarshal(raw, &rep); err != nil {
		return rep, err
	}
	return rep, nil
}
