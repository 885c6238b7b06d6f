package search

import "github.com/hextrap/hextrap/board"

// minimax searches the position to the budget's depth cap (unbounded unless
// one was set) and returns the best evader move with its value.
func (s *searcher) minimax(g *board.HexGrid) (board.Coord, float32) {
	return s.maxValue(g, NoMove, true, 0)
}

// maxValue is the evader's ply. mv is the move that leads here from the
// parent position, NoMove at the root. The evaderToMove flag describes the
// parent; it is flipped before mv is applied so that it describes this node.
func (s *searcher) maxValue(upper *board.HexGrid, mv board.Coord, evaderToMove bool, depth int) (board.Coord, float32) {
	if s.budget.outOfTime() {
		s.budget.terminated = true
		return NoMove, 0
	}
	s.nodes++

	g := upper.Copy()
	if mv != NoMove {
		evaderToMove = !evaderToMove
		if !s.apply(g, mv, evaderToMove) {
			return NoMove, 0
		}
	}

	candidates := evaderCandidates(g)
	if len(candidates) == 0 || depth == s.budget.maxDepth {
		if depth == s.budget.maxDepth {
			s.budget.reachedDepthLimit = true
		}
		return g.Evader(), s.weighted(s.utility(g, len(candidates), evaderToMove), depth)
	}

	bestValue := -Infinity
	bestMove := candidates[0]
	for _, target := range candidates {
		value := s.minValue(g, target, evaderToMove, depth+1)
		if s.budget.terminated {
			return NoMove, 0
		}
		if value > bestValue {
			bestValue = value
			bestMove = target
		}
	}
	return bestMove, bestValue
}

// minValue is the trapper's ply. It branches on every empty tile in
// row-major order and keeps only the value; the trapper's actual block is
// never reported upward.
func (s *searcher) minValue(upper *board.HexGrid, mv board.Coord, evaderToMove bool, depth int) float32 {
	if s.budget.outOfTime() {
		s.budget.terminated = true
		return 0
	}
	s.nodes++

	g := upper.Copy()
	evaderToMove = !evaderToMove
	if !s.apply(g, mv, evaderToMove) {
		return 0
	}

	// Escape is checked before move generation: the evader's step onto a
	// border tile ends the game no matter what the trapper might block.
	if depth == s.budget.maxDepth || g.Escaped() {
		if depth == s.budget.maxDepth {
			s.budget.reachedDepthLimit = true
		}
		return s.weighted(s.utility(g, 1, evaderToMove), depth)
	}

	bestValue := Infinity
	for _, tile := range g.EmptyTiles() {
		_, value := s.maxValue(g, tile, evaderToMove, depth+1)
		if s.budget.terminated {
			return 0
		}
		if value < bestValue {
			bestValue = value
		}
	}
	return bestValue
}
