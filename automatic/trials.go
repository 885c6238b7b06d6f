package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hextrap/hextrap/game"
	"github.com/hextrap/hextrap/search"
	"github.com/hextrap/hextrap/stats"
)

var (
	// TrialCounter and IsPlaying are published for expvar scrapes.
	TrialCounter *expvar.Int
	IsPlaying    *expvar.Int
)

func init() {
	TrialCounter = expvar.NewInt("trialCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// TrialConfig drives one RunTrials batch.
type TrialConfig struct {
	Games    int
	Threads  int
	Size     int
	Strategy search.Strategy
	Opts     search.Options

	// MoveLog receives per-move CSV lines; nil disables them.
	MoveLog io.Writer
	// GameLog receives per-game YAML records; nil disables them. Every game
	// is marshalled as a one-element list, so the concatenated stream reads
	// back as a single YAML list.
	GameLog io.Writer
}

// TrialStats aggregates a finished batch.
type TrialStats struct {
	Games       int
	TrapperWins int
	EvaderWins  int
	Timeouts    int // timed-out rounds across all games
	Rounds      stats.Statistic
	RoundCounts []float64
}

// Summary formats the batch results for terminal display.
func (ts *TrialStats) Summary() string {
	if ts.Games == 0 {
		return "no games played\n"
	}
	s := fmt.Sprintf("Games played: %d\n", ts.Games)
	s += fmt.Sprintf("Evader wins: %d (%.1f%% ± %.1f%% at 95%% confidence)\n",
		ts.EvaderWins,
		100*float64(ts.EvaderWins)/float64(ts.Games),
		100*stats.WinRateCI(ts.EvaderWins, ts.Games, 95))
	s += fmt.Sprintf("Trapper wins: %d (%.1f%%)\n",
		ts.TrapperWins,
		100*float64(ts.TrapperWins)/float64(ts.Games))
	if ts.Timeouts > 0 {
		s += fmt.Sprintf("Timed-out rounds: %d\n", ts.Timeouts)
	}
	s += fmt.Sprintf("Rounds per game: mean %.2f  stdev %.2f  min %v  max %v\n",
		ts.Rounds.Mean(), ts.Rounds.Stdev(), ts.Rounds.Min(), ts.Rounds.Max())
	return s
}

// Histogram buckets the per-game round counts for terminal display.
func (ts *TrialStats) Histogram() histogram.Histogram {
	return histogram.Hist(15, ts.RoundCounts)
}

// RunTrials plays tc.Games self-play games across tc.Threads workers and
// blocks until the batch is aggregated. Cancelling ctx stops queueing new
// games; games already started still finish and are counted.
func RunTrials(ctx context.Context, tc TrialConfig) (*TrialStats, error) {
	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	if tc.Games < 1 {
		return nil, errors.New("need at least one game")
	}
	if tc.Threads < 1 {
		tc.Threads = 1
	}
	log.Debug().Int("games", tc.Games).Int("threads", tc.Threads).
		Stringer("strategy", tc.Strategy).Msg("starting-trials")
	TrialCounter.Set(0)

	jobs := make(chan int, 100)
	gameChan := make(chan TrialGame, 100)
	var logChan chan string
	if tc.MoveLog != nil {
		logChan = make(chan string, 100)
	}

	var wg sync.WaitGroup
	wg.Add(tc.Threads)
	for t := 1; t <= tc.Threads; t++ {
		go func(thread int) {
			defer wg.Done()
			r := NewGameRunner(tc.Size, tc.Strategy, tc.Opts, logChan)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				gameChan <- r.PlayGame(thread)
				TrialCounter.Add(1)
			}
		}(t)
	}

	go func() {
	gameLoop:
		for i := 1; i <= tc.Games; i++ {
			select {
			case <-ctx.Done():
				log.Info().Msg("got stop signal, not queueing more games")
				break gameLoop
			case jobs <- i:
			}
		}
		close(jobs)
		wg.Wait()
		if logChan != nil {
			close(logChan)
		}
		close(gameChan)
	}()

	var eg errgroup.Group
	if logChan != nil {
		eg.Go(func() error {
			_, werr := io.WriteString(tc.MoveLog, "thread,gameID,round,blocked,evader,value,nodes\n")
			for line := range logChan {
				if werr != nil {
					// Keep draining so the workers never block on a dead log.
					continue
				}
				_, werr = io.WriteString(tc.MoveLog, line)
			}
			return werr
		})
	}

	tickerDone := make(chan bool)
	eg.Go(func() error {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-tickerDone:
				return nil
			case <-ticker.C:
				log.Info().Int64("games-finished", TrialCounter.Value()).Msg("trial-progress")
			}
		}
	})

	ts := &TrialStats{}
	for tg := range gameChan {
		ts.Games++
		switch tg.winner {
		case game.TrapperWins:
			ts.TrapperWins++
		case game.EvaderWins:
			ts.EvaderWins++
		}
		ts.Timeouts += tg.Timeouts
		ts.Rounds.Push(float64(tg.Rounds))
		ts.RoundCounts = append(ts.RoundCounts, float64(tg.Rounds))
		if tc.GameLog != nil {
			out, err := yaml.Marshal([]TrialGame{tg})
			if err != nil {
				log.Err(err).Msg("marshalling trial game")
			} else if _, err := tc.GameLog.Write(out); err != nil {
				log.Err(err).Msg("writing trial log")
			}
		}
	}
	tickerDone <- true
	if err := eg.Wait(); err != nil {
		return ts, err
	}
	log.Info().Int("games", ts.Games).Msg("trials-done")
	return ts, nil
}
