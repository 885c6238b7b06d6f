// Package search computes evader moves. It contains the minimax and
// alpha-beta drivers over hex grid positions, a depth-limited variant that
// scores the frontier with a heuristic evaluator, an iterative deepener that
// layers the depth-limited search under a wall-clock deadline, and a uniform
// random fallback used as a baseline opponent.
//
// A search never mutates the position it is given. Each recursive call clones
// its parent's board, applies the one incoming move, and hands the clone
// down, so there is no undo machinery and no sharing to coordinate. The tree
// alternates strictly: maximizing nodes branch on the evader's six hex
// directions, minimizing nodes branch on every empty tile the trapper could
// block, scanned in row-major order.
package search

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/hextrap/hextrap/board"
	"github.com/hextrap/hextrap/eval"
)

// Infinity is beyond any reachable position value. The weighted utility of a
// terminal is at most size²·100, far below this for any sane board.
const Infinity = float32(10000000)

// NoMove is the answer of a search that timed out before completing a single
// root branch. Callers treat it as "no usable move".
var NoMove = board.NoCoord

// Result is what a SelectMove call produced.
type Result struct {
	// Move is the tile the evader should step to, NoMove if the search was
	// cut off before producing one, or the evader's own position when it is
	// trapped (or when iterative deepening never finished depth 1).
	Move board.Coord

	// Value is the searched value of Move, in the weighted utility scale.
	Value float32

	// Terminated reports that the deadline expired mid-search.
	Terminated bool

	// Nodes counts recursive entries across the whole call, all iterative
	// deepening passes included.
	Nodes int
}

// searcher is the per-call state bundle. One is created for each SelectMove
// and thrown away afterwards; nothing here is safe for concurrent use.
type searcher struct {
	budget *SearchBudget
	eval   eval.Evaluator
	size   int
	nodes  int
	err    error
}

// SelectMove runs the strategy's driver against a snapshot of g and returns
// the evader move it picked. g itself is never touched. The allotted time in
// opts arms a deadline shared by every driver except the random one.
func SelectMove(g *board.HexGrid, strat Strategy, opts Options) (Result, error) {
	evaluator := opts.Evaluator
	if evaluator == nil {
		evaluator = eval.Proximity{}
	}
	s := &searcher{
		budget: newBudget(opts.AllottedTime),
		eval:   evaluator,
		size:   g.Dim(),
	}
	log.Debug().
		Stringer("strategy", strat).
		Dur("allotted", opts.AllottedTime).
		Stringer("evader", g.Evader()).
		Msg("select-move-config")
	start := time.Now()

	var mv board.Coord
	var value float32
	switch strat.kind {
	case kindRandom:
		mv = s.randomMove(g)
	case kindMinimax:
		mv, value = s.minimax(g)
	case kindAlphaBeta:
		mv, value = s.alphabeta(g)
	case kindDepthLimited:
		s.budget.maxDepth = strat.maxDepth
		if strat.useAlphaBeta {
			mv, value = s.alphabeta(g)
		} else {
			mv, value = s.minimax(g)
		}
	case kindIterativeDeepening:
		mv, value = s.iterativelyDeepen(g, strat.useAlphaBeta)
	}
	if s.err != nil {
		return Result{}, s.err
	}
	log.Debug().
		Stringer("move", mv).
		Float32("value", value).
		Int("nodes", s.nodes).
		Bool("terminated", s.budget.terminated).
		Float64("time-elapsed-sec", time.Since(start).Seconds()).
		Msg("select-move-returning")
	return Result{Move: mv, Value: value, Terminated: s.budget.terminated, Nodes: s.nodes}, nil
}

// randomMove picks uniformly among the valid directions. With nowhere to go
// it answers the evader's own position, which the caller reads as trapped.
func (s *searcher) randomMove(g *board.HexGrid) board.Coord {
	dirs := g.ValidDirections(g.Evader())
	if len(dirs) == 0 {
		return g.Evader()
	}
	return board.TargetOf(g.Evader(), dirs[frand.Intn(len(dirs))])
}

// utility scores a position where search stopped. Escape dominates
// everything, a moveless evader is lost, and anything in between is the
// evaluator's call. Minimizing nodes always pass numMoves 1: only the evader
// can run out of moves.
func (s *searcher) utility(g *board.HexGrid, numMoves int, evaderToMove bool) float32 {
	if g.Escaped() {
		return 100
	}
	if numMoves == 0 {
		return -100
	}
	return s.eval.Score(g, evaderToMove)
}

// weighted scales a utility so that outcomes reached sooner outrank equal
// outcomes reached later. A win at depth 2 beats the same win at depth 6.
func (s *searcher) weighted(u float32, depth int) float32 {
	return float32(s.size*s.size-depth) * u
}

// apply plays the incoming move on a freshly cloned child board. The turn
// flag has already been flipped for the child, so when the evader moves next
// the incoming move was a trapper block, and the other way around. A failure
// here means the parent generated an illegal candidate; it aborts the whole
// search through the termination unwind and surfaces as SelectMove's error.
func (s *searcher) apply(g *board.HexGrid, mv board.Coord, evaderToMove bool) bool {
	var err error
	if evaderToMove {
		err = g.ApplyTrapperMove(mv)
	} else {
		err = g.ApplyEvaderMove(mv)
	}
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		s.budget.terminated = true
		return false
	}
	return true
}

// evaderCandidates lists the targets of the valid directions, in direction
// order.
func evaderCandidates(g *board.HexGrid) []board.Coord {
	return lo.Map(g.ValidDirections(g.Evader()), func(d board.Direction, _ int) board.Coord {
		return board.TargetOf(g.Evader(), d)
	})
}
