package automatic

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hextrap/hextrap/game"
	"github.com/hextrap/hextrap/search"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestPlayGameTerminates(t *testing.T) {
	r := NewGameRunner(5, search.RandomStrategy(), search.Options{}, nil)
	tg := r.PlayGame(1)

	if tg.winner != game.TrapperWins && tg.winner != game.EvaderWins {
		t.Errorf("expected a decided game, got %v", tg.Winner)
	}
	if tg.Rounds < 1 {
		t.Errorf("expected at least one round, got %v", tg.Rounds)
	}
	if len(tg.Moves) != tg.Rounds {
		t.Errorf("expected %v move records, got %v", tg.Rounds, len(tg.Moves))
	}
	if tg.UID == "" {
		t.Error("expected a game uid")
	}
	if tg.Winner != tg.winner.String() {
		t.Errorf("winner string %q does not match status %v", tg.Winner, tg.winner)
	}
}

func TestRunTrials(t *testing.T) {
	moveLog := &bytes.Buffer{}
	gameLog := &bytes.Buffer{}
	ts, err := RunTrials(context.Background(), TrialConfig{
		Games:    20,
		Threads:  4,
		Size:     5,
		Strategy: search.DepthLimitedStrategy(2, true),
		MoveLog:  moveLog,
		GameLog:  gameLog,
	})
	if err != nil {
		t.Fatal(err)
	}

	if ts.Games != 20 {
		t.Errorf("expected 20 games, got %v", ts.Games)
	}
	if ts.TrapperWins+ts.EvaderWins != 20 {
		t.Errorf("wins don't reconcile: %v + %v != 20", ts.TrapperWins, ts.EvaderWins)
	}
	if ts.Rounds.Iterations() != 20 || len(ts.RoundCounts) != 20 {
		t.Errorf("round statistics don't cover every game")
	}
	if TrialCounter.Value() != 20 {
		t.Errorf("expected trialCounter 20, got %v", TrialCounter.Value())
	}
	if IsPlaying.Value() != 0 {
		t.Errorf("expected isPlaying 0 after the batch, got %v", IsPlaying.Value())
	}

	lines := strings.Split(strings.TrimSpace(moveLog.String()), "\n")
	if lines[0] != "thread,gameID,round,blocked,evader,value,nodes" {
		t.Errorf("unexpected CSV header %q", lines[0])
	}
	if len(lines) < 21 {
		t.Errorf("expected at least one CSV line per game, got %v lines", len(lines))
	}

	// The concatenated per-game documents read back as one YAML list.
	var games []TrialGame
	if err := yaml.Unmarshal(gameLog.Bytes(), &games); err != nil {
		t.Fatal(err)
	}
	if len(games) != 20 {
		t.Errorf("expected 20 YAML game records, got %v", len(games))
	}
	for _, tg := range games {
		if tg.Winner != game.TrapperWins.String() && tg.Winner != game.EvaderWins.String() {
			t.Errorf("undecided winner %q in trial log", tg.Winner)
		}
	}
}

func TestRunTrialsRejectsConcurrentBatches(t *testing.T) {
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)

	_, err := RunTrials(context.Background(), TrialConfig{Games: 1, Size: 5, Strategy: search.RandomStrategy()})
	if err == nil {
		t.Error("expected an error while a batch is in flight")
	}
}

func TestSummary(t *testing.T) {
	ts := &TrialStats{Games: 10, EvaderWins: 6, TrapperWins: 4}
	for _, r := range []float64{10, 12, 9, 14, 11, 10, 13, 9, 12, 10} {
		ts.Rounds.Push(r)
		ts.RoundCounts = append(ts.RoundCounts, r)
	}

	s := ts.Summary()
	for _, want := range []string{"Games played: 10", "Evader wins: 6 (60.0%", "Trapper wins: 4 (40.0%)"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}

	hist := ts.Histogram()
	if hist.Count != 10 {
		t.Errorf("expected histogram over 10 games, got %v", hist.Count)
	}
}

func BenchmarkPlayGame(b *testing.B) {
	r := NewGameRunner(7, search.RandomStrategy(), search.Options{}, nil)
	for i := 0; i < b.N; i++ {
		r.PlayGame(1)
	}
}
