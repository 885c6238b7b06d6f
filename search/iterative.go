package search

import (
	"github.com/rs/zerolog/log"

	"github.com/hextrap/hextrap/board"
)

// iterativelyDeepen runs depth-limited searches at caps 1, 2, 3, … and keeps
// the move and value of the last iteration that ran to completion. An
// iteration interrupted by the deadline is discarded wholesale; partial trees
// prefer whatever branch happened to be scanned first and cannot be trusted.
// When an iteration finishes without ever touching its depth cap the tree was
// solved outright and deeper caps cannot change the answer.
//
// The fallback before any iteration completes is the evader's own position
// with value 0, which the caller reads as trapped. That situation only comes
// up when the allotted time is too short for even the depth 1 tree.
func (s *searcher) iterativelyDeepen(g *board.HexGrid, useAlphaBeta bool) (board.Coord, float32) {
	bestMove := g.Evader()
	bestValue := float32(0)
	bestDepth := 0

	for depth := 1; depth < s.size*s.size; depth++ {
		s.budget.reachedDepthLimit = false
		s.budget.maxDepth = depth

		var mv board.Coord
		var value float32
		if useAlphaBeta {
			mv, value = s.alphabeta(g)
		} else {
			mv, value = s.minimax(g)
		}
		if s.budget.terminated {
			break
		}
		bestMove, bestValue, bestDepth = mv, value, depth
		log.Debug().
			Int("maxdepth", depth).
			Stringer("move", mv).
			Float32("value", value).
			Int("nodes", s.nodes).
			Msg("deepening-iteration-done")
		if !s.budget.reachedDepthLimit {
			break
		}
	}

	log.Debug().Int("depth-reached", bestDepth).Msg("iterative-deepening-done")
	return bestMove, bestValue
}
