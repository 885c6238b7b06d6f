// Package game holds the session-level state machine around a board: who has
// won, the round flow of a trapper click followed by an engine reply, and the
// raw edit operations the grid editor uses. One Game is one session; nothing
// here is safe for concurrent use.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hextrap/hextrap/board"
	"github.com/hextrap/hextrap/search"
)

var (
	// ErrNoEvader means the grid has no occupied tile, which can happen with
	// grids assembled in edit mode. Such a game can be edited but not played.
	ErrNoEvader = errors.New("grid has no evader tile")

	// ErrGameOver rejects a round on a game that is already decided.
	ErrGameOver = errors.New("game is already decided")

	// ErrOffBoard rejects coordinates outside the grid.
	ErrOffBoard = errors.New("tile is off the board")
)

// Status is the game state. The integer values are the wire contract for the
// endgame message and must not be reordered.
type Status int

const (
	GameOn Status = iota
	TrapperWins
	EvaderWins
	EvaderTimeout
)

func (s Status) String() string {
	switch s {
	case GameOn:
		return "ongoing"
	case TrapperWins:
		return "trapper-wins"
	case EvaderWins:
		return "evader-wins"
	case EvaderTimeout:
		return "evader-timeout"
	}
	return fmt.Sprintf("status-%d", int(s))
}

// Game couples a board with a status and a uid for logging.
type Game struct {
	uid    string
	board  *board.HexGrid
	status Status
	rounds int
}

// New starts a game on a randomly blocked board of the given size, with the
// evader at the center.
func New(size int) *Game {
	b := board.NewHexGrid(size)
	b.FillRandomBlocks()
	g := &Game{uid: uuid.New().String(), board: b, status: GameOn}
	log.Debug().Str("gid", g.uid).Int("size", size).Msg("new-game")
	return g
}

// NewEmpty starts a game on an all-empty board, evader at the center. Used by
// self-play configurations that want no initial blocks.
func NewEmpty(size int) *Game {
	return &Game{uid: uuid.New().String(), board: board.NewHexGrid(size), status: GameOn}
}

// FromGrid rebuilds a game from wire-format rows, as when a client reconnects
// holding its own grid. The game may lack an evader; see ErrNoEvader.
func FromGrid(rows [][]int) (*Game, error) {
	b, err := board.FromRows(rows)
	if err != nil {
		return nil, err
	}
	return &Game{uid: uuid.New().String(), board: b, status: GameOn}, nil
}

func (g *Game) UID() string {
	return g.uid
}

// Board exposes the live board. Callers must not mutate it mid-round.
func (g *Game) Board() *board.HexGrid {
	return g.board
}

func (g *Game) Status() Status {
	return g.status
}

// Rounds is how many rounds have been played, counting any round that got as
// far as blocking a tile.
func (g *Game) Rounds() int {
	return g.rounds
}

// PlayRound advances the game by one full round: the trapper blocks the
// clicked tile, then the evader answers via the search engine.
//
// Status transitions, settled in this order: an evader already standing on a
// border tile has escaped and no engine move is made (EvaderWins); a search
// that timed out before producing any move leaves the evader in place, with
// the clicked tile still blocked (EvaderTimeout); an answer equal to the
// evader's current position means it is trapped (TrapperWins). Otherwise the
// evader relocates and the game goes on. An evader that just stepped onto
// the border is not an immediate win; the escape is detected at the start of
// the next round, after the trapper has seen the position.
func (g *Game) PlayRound(clicked board.Coord, strat search.Strategy, opts search.Options) (search.Result, error) {
	if g.status != GameOn {
		return search.Result{}, ErrGameOver
	}
	if !g.board.HasEvader() {
		return search.Result{}, ErrNoEvader
	}
	if !g.board.OnBoard(clicked) {
		return search.Result{}, fmt.Errorf("%w: clicked %v", ErrOffBoard, clicked)
	}

	g.rounds++
	g.board.Block(clicked)

	if g.board.Escaped() {
		g.status = EvaderWins
		log.Debug().Str("gid", g.uid).Stringer("evader", g.board.Evader()).Msg("evader-escaped")
		return search.Result{Move: g.board.Evader()}, nil
	}

	res, err := search.SelectMove(g.board, strat, opts)
	if err != nil {
		return res, err
	}
	if res.Move == search.NoMove {
		g.status = EvaderTimeout
		return res, nil
	}
	if res.Move == g.board.Evader() {
		g.status = TrapperWins
		log.Debug().Str("gid", g.uid).Stringer("evader", g.board.Evader()).Msg("evader-trapped")
	}
	g.board.MoveEvader(res.Move)
	return res, nil
}

// AcknowledgeTimeout resets an EvaderTimeout back to GameOn. A timed-out
// round leaves the game playable; the status only marks the round that failed
// to produce a move, and is cleared once it has been reported.
func (g *Game) AcknowledgeTimeout() {
	if g.status == EvaderTimeout {
		g.status = GameOn
	}
}

// The edit operations mutate tiles with no occupancy rules and put the game
// back in play, so a decided game can be reshaped and continued.

func (g *Game) EditBlock(t board.Coord) error {
	if !g.board.OnBoard(t) {
		return fmt.Errorf("%w: %v", ErrOffBoard, t)
	}
	g.board.Block(t)
	g.status = GameOn
	return nil
}

func (g *Game) EditUnblock(t board.Coord) error {
	if !g.board.OnBoard(t) {
		return fmt.Errorf("%w: %v", ErrOffBoard, t)
	}
	g.board.Unblock(t)
	g.status = GameOn
	return nil
}

// EditPlaceEvader stamps an evader onto t. An existing evader tile is left
// as-is; editors replace the whole grid when that matters.
func (g *Game) EditPlaceEvader(t board.Coord) error {
	if !g.board.OnBoard(t) {
		return fmt.Errorf("%w: %v", ErrOffBoard, t)
	}
	g.board.PlaceEvader(t)
	g.status = GameOn
	return nil
}
