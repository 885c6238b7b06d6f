// Package eval contains the heuristic evaluation functions consulted by the
// search engine at non-terminal cutoffs.
package eval

import (
	"sort"

	"github.com/hextrap/hextrap/board"
)

// Evaluator scores a position from the evader's perspective. Higher is better
// for the evader. evaderToMove is the ply being scored; evaluators may score
// the two plies differently.
type Evaluator interface {
	Score(g *board.HexGrid, evaderToMove bool) float32
}

// Proximity scores the evader's distance to the board edge. For every
// direction currently open to the evader it walks in that fixed direction,
// counting steps until the walk leaves the grid, or lands on a non-empty tile
// in which case the count is multiplied by 5: a blocked route is penalized
// but not excluded. Two sentinel distances of 100 guarantee at least two
// entries. On the evader's ply the score credits the single nearest escape
// route; on the trapper's ply it credits the second nearest, since the
// trapper's reply is likely to close the best one. The asymmetry is a fixed
// contract of the heuristic.
type Proximity struct{}

func (Proximity) Score(g *board.HexGrid, evaderToMove bool) float32 {
	distances := []int{100, 100}
	from := g.Evader()
	for _, d := range g.ValidDirections(from) {
		distance := 0
		pos := from
		for {
			distance++
			pos = board.TargetOf(pos, d)
			if !g.OnBoard(pos) {
				break
			}
			if g.At(pos) != board.Empty {
				distance *= 5
				break
			}
		}
		distances = append(distances, distance)
	}
	sort.Ints(distances)

	d := distances[0]
	if !evaderToMove {
		d = distances[1]
	}
	return float32(2*g.Dim() - d)
}

// Mobility scores the number of directions open to the evader, less one on
// the trapper's ply.
type Mobility struct{}

func (Mobility) Score(g *board.HexGrid, evaderToMove bool) float32 {
	n := len(g.ValidDirections(g.Evader()))
	if evaderToMove {
		return float32(n)
	}
	return float32(n - 1)
}
