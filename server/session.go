package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hextrap/hextrap/board"
	"github.com/hextrap/hextrap/game"
	"github.com/hextrap/hextrap/search"
)

// Session is the per-connection state machine: at most one game, driven by
// the requests decoded from that connection. Handle is not safe for
// concurrent use; the connection's read loop is its only caller.
type Session struct {
	game *game.Game
	log  zerolog.Logger
}

func NewSession() *Session {
	return &Session{
		log: log.With().Str("sid", uuid.New().String()).Logger(),
	}
}

// Handle runs one request and returns the replies to write back, in order.
// Whatever the command itself produced, a decided game appends an endgame
// report, and an evader timeout reverts to ongoing once it has been
// reported. Bad input never kills the session; it is logged and the grid is
// echoed back where one exists.
func (s *Session) Handle(req Request) []any {
	var replies []any

	switch req.Command {
	case cmdNewGame:
		replies = s.handleNewGame(req, replies)
	case cmdMove:
		replies = s.handleMove(req, replies)
	case cmdEdit:
		replies = s.handleEdit(req, replies)
	case cmdRequestGrid:
		replies = s.handleRequestGrid(req, replies)
	default:
		s.log.Warn().Str("command", req.Command).Msg("unknown command")
	}

	if s.game != nil && s.game.Status() != game.GameOn {
		replies = append(replies, Endgame{Command: cmdEndgame, Reason: int(s.game.Status())})
		s.game.AcknowledgeTimeout()
	}
	return replies
}

func (s *Session) handleNewGame(req Request, replies []any) []any {
	if req.Size < 2 {
		s.log.Warn().Int("size", req.Size).Msg("unplayable board size")
		return replies
	}
	s.game = game.New(req.Size)
	s.log.Info().Str("gid", s.game.UID()).Int("size", req.Size).Msg("game-started")
	return s.echo(replies)
}

func (s *Session) handleMove(req Request, replies []any) []any {
	if !s.ensureGame(req.Grid) {
		return replies
	}
	if s.game.Status() == game.GameOn {
		s.playRound(req)
	}
	return s.echo(replies)
}

// playRound validates the move request and advances the game one round.
// Validation failures leave the game untouched; the caller echoes the grid
// either way.
func (s *Session) playRound(req Request) {
	clicked, ok := coordOf(req.ClickedTile)
	if !ok {
		s.log.Warn().Ints("clicked_tile", req.ClickedTile).Msg("malformed clicked tile")
		return
	}
	strat, ok := strategyOf(req)
	if !ok {
		s.log.Warn().Str("strategy", req.Strategy).Msg("unknown strategy selector")
		return
	}
	opts := search.Options{
		AllottedTime: time.Duration(req.Deadline * float64(time.Second)),
	}
	res, err := s.game.PlayRound(clicked, strat, opts)
	if err != nil {
		s.log.Warn().Err(err).Stringer("clicked", clicked).Msg("round rejected")
		return
	}
	s.log.Debug().
		Str("gid", s.game.UID()).
		Stringer("clicked", clicked).
		Stringer("evader", res.Move).
		Stringer("status", s.game.Status()).
		Int("round", s.game.Rounds()).
		Msg("round-played")
}

func (s *Session) handleEdit(req Request, replies []any) []any {
	if !s.ensureGame(req.Grid) {
		return replies
	}
	tile, ok := coordOf(req.Tile)
	if !ok {
		s.log.Warn().Ints("tile", req.Tile).Msg("malformed edit tile")
		return s.echo(replies)
	}
	var err error
	switch req.Action {
	case actionBlock:
		err = s.game.EditBlock(tile)
	case actionUnblock:
		err = s.game.EditUnblock(tile)
	case actionPlaceEvader:
		err = s.game.EditPlaceEvader(tile)
	default:
		s.log.Warn().Str("action", req.Action).Msg("unknown edit action")
	}
	if err != nil {
		s.log.Warn().Err(err).Str("action", req.Action).Stringer("tile", tile).Msg("edit rejected")
	}
	return s.echo(replies)
}

func (s *Session) handleRequestGrid(req Request, replies []any) []any {
	if !s.ensureGame(req.Grid) {
		return replies
	}
	return s.echo(replies)
}

// ensureGame rebuilds the game from a client-supplied grid when the session
// does not hold one yet, so a client can carry its board across reconnects.
func (s *Session) ensureGame(rows [][]int) bool {
	if s.game != nil {
		return true
	}
	if rows == nil {
		s.log.Warn().Msg("no game and no grid to rebuild from")
		return false
	}
	g, err := game.FromGrid(rows)
	if err != nil {
		s.log.Warn().Err(err).Msg("grid rejected")
		return false
	}
	s.game = g
	s.log.Info().Str("gid", g.UID()).Int("size", g.Board().Dim()).Msg("game-rebuilt")
	return true
}

func (s *Session) echo(replies []any) []any {
	upd, err := newGridUpdate(s.game.Board().Rows())
	if err != nil {
		s.log.Error().Err(err).Msg("grid encoding failed")
		return replies
	}
	return append(replies, upd)
}

func coordOf(tile []int) (board.Coord, bool) {
	if len(tile) != 2 {
		return board.NoCoord, false
	}
	return board.Coord{Row: tile[0], Col: tile[1]}, true
}

// strategyOf maps the wire selector onto a search strategy. "limited" honors
// the request's depth and pruning flag, "iterative" and "minimax" honor the
// pruning flag alone.
func strategyOf(req Request) (search.Strategy, bool) {
	return search.FromFlags(
		req.Strategy == "random",
		req.Strategy == "minimax",
		req.Strategy == "limited",
		req.Strategy == "iterative",
		req.Depth,
		req.AlphaBeta,
	)
}
