package search

// Alpha-beta pruning, following the classic fail-soft formulation:
//
// function alphabeta(node, depth, α, β, maximizingPlayer) is
//     if depth = 0 or node is a terminal node then
//         return the heuristic value of node
//     if maximizingPlayer then
//         value := −∞
//         for each child of node do
//             value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
//             if value ≥ β then
//                 break (* β cutoff *)
//             α := max(α, value)
//         return value
//     else
//         value := +∞
//         for each child of node do
//             value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
//             if value ≤ α then
//                 break (* α cutoff *)
//             β := min(β, value)
//         return value
//
// The node shape (clone parent, apply incoming move, alternate direction
// branching with empty-tile branching) is identical to the plain minimax in
// minimax.go, so a pruned search returns the same root value, just visiting
// fewer nodes. The pruned move can differ when several moves tie.

import "github.com/hextrap/hextrap/board"

// alphabeta searches the position with pruning to the budget's depth cap and
// returns the best evader move with its value.
func (s *searcher) alphabeta(g *board.HexGrid) (board.Coord, float32) {
	return s.alphabetaMax(g, NoMove, -Infinity, Infinity, true, 0)
}

func (s *searcher) alphabetaMax(upper *board.HexGrid, mv board.Coord, α, β float32, evaderToMove bool, depth int) (board.Coord, float32) {
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
		value := s.alphabetaMin(g, target, α, β, evaderToMove, depth+1)
		if s.budget.terminated {
			return NoMove, 0
		}
		if value > bestValue {
			bestValue = value
			bestMove = target
		}
		if bestValue >= β {
			// β cutoff
			return bestMove, bestValue
		}
		α = max32(α, bestValue)
	}
	return bestMove, bestValue
}

func (s *searcher) alphabetaMin(upper *board.HexGrid, mv board.Coord, α, β float32, evaderToMove bool, depth int) float32 {
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

	if depth == s.budget.maxDepth || g.Escaped() {
		if depth == s.budget.maxDepth {
			s.budget.reachedDepthLimit = true
		}
		return s.weighted(s.utility(g, 1, evaderToMove), depth)
	}

	bestValue := Infinity
	for _, tile := range g.EmptyTiles() {
		_, value := s.alphabetaMax(g, tile, α, β, evaderToMove, depth+1)
		if s.budget.terminated {
			return 0
		}
		if value < bestValue {
			bestValue = value
		}
		if bestValue <= α {
			// α cutoff
			return bestValue
		}
		β = min32(β, bestValue)
	}
	return bestValue
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
