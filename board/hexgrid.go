// Package board implements the hexagonally-addressed grid for the pursuit
// game: an evader token tries to walk off the edge of an N×N grid while the
// trapper fills in tiles behind it. Rows use an odd-row offset layout, so
// neighbor geometry depends on row parity (see TargetOf).
package board

import (
	"errors"
	"fmt"
	"math"

	"lukechampine.com/frand"
)

// ErrInvalidMove is returned when an apply operation targets a tile that is
// not empty. The search engine never generates such a target itself; this
// guards against stale or externally edited grids.
var ErrInvalidMove = errors.New("invalid move: target tile is not empty")

// HexGrid is an N×N grid of tiles plus a cached evader position, kept
// consistent with the tiles on every mutation.
type HexGrid struct {
	size   int
	tiles  []Tile // row-major
	evader Coord
}

// NewHexGrid returns an all-empty grid with the evader at the center tile.
func NewHexGrid(size int) *HexGrid {
	g := &HexGrid{
		size:   size,
		tiles:  make([]Tile, size*size),
		evader: Coord{size / 2, size / 2},
	}
	g.set(g.evader, Occupied)
	return g
}

// FromRows builds a grid from wire-format rows. The evader cache takes the
// first occupied tile in row-major order; a grid under edit may legitimately
// have none, in which case the evader is NoCoord.
func FromRows(rows [][]int) (*HexGrid, error) {
	size := len(rows)
	if size == 0 {
		return nil, errors.New("empty grid")
	}
	g := &HexGrid{size: size, tiles: make([]Tile, size*size), evader: NoCoord}
	for r, row := range rows {
		if len(row) != size {
			return nil, fmt.Errorf("grid is not square: row %d has %d tiles, want %d", r, len(row), size)
		}
		for c, v := range row {
			switch Tile(v) {
			case Empty, Blocked, Occupied:
				g.tiles[r*size+c] = Tile(v)
			default:
				return nil, fmt.Errorf("bad tile value %d at (%d, %d)", v, r, c)
			}
			if Tile(v) == Occupied && g.evader == NoCoord {
				g.evader = Coord{r, c}
			}
		}
	}
	return g, nil
}

// FillRandomBlocks scatters blocked tiles on empty cells. The block count is
// drawn uniformly from [round(0.067·N²), round(0.13·N²)] inclusive, the
// density range the game has always used.
func (g *HexGrid) FillRandomBlocks() {
	n := float64(g.size * g.size)
	lo := int(math.Round(0.067 * n))
	hi := int(math.Round(0.13 * n))
	numBlocks := lo + frand.Intn(hi-lo+1)

	count := 0
	for count < numBlocks {
		c := Coord{frand.Intn(g.size), frand.Intn(g.size)}
		if g.At(c) == Empty {
			g.set(c, Blocked)
			count++
		}
	}
}

func (g *HexGrid) Dim() int {
	return g.size
}

// At returns the tile at c. The coordinate must be on the board.
func (g *HexGrid) At(c Coord) Tile {
	return g.tiles[c.Row*g.size+c.Col]
}

func (g *HexGrid) OnBoard(c Coord) bool {
	return c.Row >= 0 && c.Row < g.size && c.Col >= 0 && c.Col < g.size
}

func (g *HexGrid) Evader() Coord {
	return g.evader
}

func (g *HexGrid) HasEvader() bool {
	return g.evader != NoCoord
}

// Escaped reports whether the evader stands on a boundary row or column,
// which ends the game in its favor.
func (g *HexGrid) Escaped() bool {
	r, c := g.evader.Row, g.evader.Col
	return r == 0 || r == g.size-1 || c == 0 || c == g.size-1
}

// ValidDirections returns the directions whose target tile is on the board
// and empty, in AllDirections order.
func (g *HexGrid) ValidDirections(from Coord) []Direction {
	var dirs []Direction
	for _, d := range AllDirections {
		t := TargetOf(from, d)
		if g.OnBoard(t) && g.At(t) == Empty {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// EmptyTiles returns every empty tile in row-major order. This is the
// trapper's candidate move list, which is exhaustive rather than directional.
func (g *HexGrid) EmptyTiles() []Coord {
	var empties []Coord
	for r := 0; r < g.size; r++ {
		for c := 0; c < g.size; c++ {
			if g.tiles[r*g.size+c] == Empty {
				empties = append(empties, Coord{r, c})
			}
		}
	}
	return empties
}

// ApplyEvaderMove relocates the evader to an empty tile.
func (g *HexGrid) ApplyEvaderMove(to Coord) error {
	if !g.OnBoard(to) || g.At(to) != Empty {
		return fmt.Errorf("%w: evader to %v", ErrInvalidMove, to)
	}
	g.set(g.evader, Empty)
	g.set(to, Occupied)
	g.evader = to
	return nil
}

// ApplyTrapperMove blocks an empty tile.
func (g *HexGrid) ApplyTrapperMove(to Coord) error {
	if !g.OnBoard(to) || g.At(to) != Empty {
		return fmt.Errorf("%w: trapper to %v", ErrInvalidMove, to)
	}
	g.set(to, Blocked)
	return nil
}

// Block, Unblock and PlaceEvader are the raw mutators behind the session's
// edit commands. They perform no occupancy checks; PlaceEvader does not clear
// a previously occupied tile (the editor sends a full grid when it matters).

func (g *HexGrid) Block(c Coord) {
	g.set(c, Blocked)
}

func (g *HexGrid) Unblock(c Coord) {
	g.set(c, Empty)
}

func (g *HexGrid) PlaceEvader(c Coord) {
	g.set(c, Occupied)
	g.evader = c
}

// MoveEvader clears the old evader tile and places the evader at c.
func (g *HexGrid) MoveEvader(c Coord) {
	g.set(g.evader, Empty)
	g.PlaceEvader(c)
}

// Copy returns a fully independent deep copy. Search isolates tree branches
// by copying on descent, so a child's mutations never reach its parent.
func (g *HexGrid) Copy() *HexGrid {
	tiles := make([]Tile, len(g.tiles))
	copy(tiles, g.tiles)
	return &HexGrid{size: g.size, tiles: tiles, evader: g.evader}
}

// Count returns how many tiles hold t.
func (g *HexGrid) Count(t Tile) int {
	n := 0
	for _, v := range g.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Rows exports the grid in wire format.
func (g *HexGrid) Rows() [][]int {
	rows := make([][]int, g.size)
	for r := 0; r < g.size; r++ {
		rows[r] = make([]int, g.size)
		for c := 0; c < g.size; c++ {
			rows[r][c] = int(g.tiles[r*g.size+c])
		}
	}
	return rows
}

func (g *HexGrid) set(c Coord, t Tile) {
	g.tiles[c.Row*g.size+c.Col] = t
}
