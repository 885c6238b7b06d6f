package board

import "fmt"

// Tile is the contents of a single hex cell. The numeric values are part of
// the wire protocol and must not be renumbered.
type Tile uint8

const (
	Empty    Tile = 0
	Blocked  Tile = 1
	Occupied Tile = 6
)

func (t Tile) String() string {
	switch t {
	case Empty:
		return "empty"
	case Blocked:
		return "blocked"
	case Occupied:
		return "occupied"
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// Coord is a zero-indexed (row, col) position on the grid.
type Coord struct {
	Row int
	Col int
}

// NoCoord marks the absence of a position; search drivers use it as their
// timed-out sentinel and grids under edit may have no evader.
var NoCoord = Coord{Row: -1, Col: -1}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Direction is one of the six hex neighbor directions in an odd-row offset
// layout.
type Direction uint8

const (
	East Direction = iota
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest
)

// AllDirections is ordered; move generation and the evaluator walk candidates
// in exactly this order.
var AllDirections = [6]Direction{East, West, NorthEast, NorthWest, SouthEast, SouthWest}

func (d Direction) String() string {
	switch d {
	case East:
		return "E"
	case West:
		return "W"
	case NorthEast:
		return "NE"
	case NorthWest:
		return "NW"
	case SouthEast:
		return "SE"
	case SouthWest:
		return "SW"
	}
	return "?"
}

// TargetOf returns the neighbor of pos in the given direction. It is a pure
// transform: no bounds checking is done, and callers that need a legal tile
// must verify bounds and occupancy themselves. The evaluator deliberately
// walks targets off the edge of the grid.
//
// Neighbor geometry differs by row parity. From (r, c):
//
//	E = (r, c+1)   W = (r, c-1)
//	even r:  NE = (r-1, c)    NW = (r-1, c-1)  SE = (r+1, c)    SW = (r+1, c-1)
//	odd  r:  NE = (r-1, c+1)  NW = (r-1, c)    SE = (r+1, c+1)  SW = (r+1, c)
func TargetOf(pos Coord, dir Direction) Coord {
	r, c := pos.Row, pos.Col
	even := r%2 == 0
	switch dir {
	case East:
		return Coord{r, c + 1}
	case West:
		return Coord{r, c - 1}
	case NorthEast:
		if even {
			return Coord{r - 1, c}
		}
		return Coord{r - 1, c + 1}
	case NorthWest:
		if even {
			return Coord{r - 1, c - 1}
		}
		return Coord{r - 1, c}
	case SouthEast:
		if even {
			return Coord{r + 1, c}
		}
		return Coord{r + 1, c + 1}
	case SouthWest:
		if even {
			return Coord{r + 1, c - 1}
		}
		return Coord{r + 1, c}
	}
	return pos
}
