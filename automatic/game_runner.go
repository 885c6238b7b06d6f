// Package automatic plays unattended games: a uniformly random trapper
// against the engine's evader. It is used to benchmark strategies, from a
// single game up to multi-threaded trial batches with statistics.
package automatic

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/hextrap/hextrap/game"
	"github.com/hextrap/hextrap/search"
)

// TrialGame is the record of one self-play game, serialized to the YAML
// trial log.
type TrialGame struct {
	UID      string      `json:"uid" yaml:"uid"`
	Winner   string      `json:"winner" yaml:"winner"`
	Rounds   int         `json:"rounds" yaml:"rounds"`
	Timeouts int         `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
	Thread   int         `json:"thread" yaml:"thread"`
	Moves    []TrialMove `json:"moves,omitempty" yaml:"moves,omitempty,flow"`

	// winner in typed form, for aggregation; the Winner string is for the log.
	winner game.Status
}

// TrialMove is a single round: the trapper's block, then the evader's answer.
type TrialMove struct {
	Round   int     `json:"round" yaml:"round"`
	Blocked string  `json:"blocked" yaml:"blocked"`
	Evader  string  `json:"evader" yaml:"evader"`
	Value   float32 `json:"value,omitempty" yaml:"value,omitempty"`
	Nodes   int     `json:"nodes,omitempty" yaml:"nodes,omitempty"`
}

// GameRunner plays unattended games on fresh random boards.
type GameRunner struct {
	size     int
	strategy search.Strategy
	opts     search.Options
	logchan  chan string
}

// NewGameRunner instantiates a runner. A nil logchan disables the per-move
// CSV log lines.
func NewGameRunner(size int, strat search.Strategy, opts search.Options, logchan chan string) *GameRunner {
	return &GameRunner{size: size, strategy: strat, opts: opts, logchan: logchan}
}

// PlayGame plays one game to the end and returns its record. The trapper
// blocks a uniformly random empty tile each round, so every round shrinks the
// board and the game always terminates. A timed-out round is counted and the
// game goes on, exactly as a live session would after reporting the timeout.
func (r *GameRunner) PlayGame(thread int) TrialGame {
	g := game.New(r.size)
	tg := TrialGame{UID: g.UID(), Thread: thread}

	for g.Status() == game.GameOn {
		empties := g.Board().EmptyTiles()
		if len(empties) == 0 {
			log.Warn().Str("gid", g.UID()).Msg("no tiles left to block on an undecided board")
			break
		}
		clicked := empties[frand.Intn(len(empties))]

		res, err := g.PlayRound(clicked, r.strategy, r.opts)
		if err != nil {
			log.Err(err).Str("gid", g.UID()).Msg("self-play round failed")
			break
		}
		tg.Moves = append(tg.Moves, TrialMove{
			Round:   g.Rounds(),
			Blocked: clicked.String(),
			Evader:  res.Move.String(),
			Value:   res.Value,
			Nodes:   res.Nodes,
		})
		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%v,%v,%v,%v-%v,%v-%v,%.1f,%v\n",
				thread,
				g.UID(),
				g.Rounds(),
				clicked.Row, clicked.Col,
				res.Move.Row, res.Move.Col,
				res.Value,
				res.Nodes)
		}
		if g.Status() == game.EvaderTimeout {
			tg.Timeouts++
			g.AcknowledgeTimeout()
		}
	}

	tg.winner = g.Status()
	tg.Winner = g.Status().String()
	tg.Rounds = g.Rounds()
	return tg
}
