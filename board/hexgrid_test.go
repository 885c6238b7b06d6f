package board

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func TestValidDirectionsCenterOddRow(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(3)
	is.Equal(g.Evader(), Coord{1, 1})

	dirs := g.ValidDirections(g.Evader())
	is.Equal(dirs, []Direction{East, West, NorthEast, NorthWest, SouthEast, SouthWest})

	// Row 1 is odd, so the diagonal neighbors shift east.
	is.Equal(TargetOf(Coord{1, 1}, NorthEast), Coord{0, 2})
	is.Equal(TargetOf(Coord{1, 1}, NorthWest), Coord{0, 1})
	is.Equal(TargetOf(Coord{1, 1}, SouthEast), Coord{2, 2})
	is.Equal(TargetOf(Coord{1, 1}, SouthWest), Coord{2, 1})
	is.Equal(TargetOf(Coord{1, 1}, East), Coord{1, 2})
	is.Equal(TargetOf(Coord{1, 1}, West), Coord{1, 0})
}

func TestTargetOfEvenRow(t *testing.T) {
	is := is.New(t)
	is.Equal(TargetOf(Coord{2, 2}, NorthEast), Coord{1, 2})
	is.Equal(TargetOf(Coord{2, 2}, NorthWest), Coord{1, 1})
	is.Equal(TargetOf(Coord{2, 2}, SouthEast), Coord{3, 2})
	is.Equal(TargetOf(Coord{2, 2}, SouthWest), Coord{3, 1})
}

func TestValidDirectionsRespectsBoundsAndOccupancy(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(5)
	// Corner tile: from (0,0) only E=(0,1), SE=(1,0) exist; SW=(1,-1) is off
	// the board and N* rows do not exist.
	dirs := g.ValidDirections(Coord{0, 0})
	is.Equal(dirs, []Direction{East, SouthEast})

	g.Block(Coord{0, 1})
	dirs = g.ValidDirections(Coord{0, 0})
	is.Equal(dirs, []Direction{SouthEast})
}

func TestValidDirectionsSurrounded(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(4)
	// Evader starts at (2,2); block all six neighbors.
	for _, d := range AllDirections {
		g.Block(TargetOf(g.Evader(), d))
	}
	is.Equal(len(g.ValidDirections(g.Evader())), 0)
}

func TestApplyEvaderMove(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(5)
	from := g.Evader()
	to := TargetOf(from, East)

	err := g.ApplyEvaderMove(to)
	is.NoErr(err)
	is.Equal(g.Evader(), to)
	is.Equal(g.At(from), Empty)
	is.Equal(g.At(to), Occupied)
	is.Equal(g.Count(Occupied), 1)

	// The vacated tile is a legal target again.
	is.NoErr(g.ApplyEvaderMove(from))
	is.Equal(g.Count(Occupied), 1)
}

func TestApplyMoveRejectsNonEmptyTargets(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(5)
	blocked := Coord{0, 0}
	g.Block(blocked)

	err := g.ApplyEvaderMove(blocked)
	is.True(errors.Is(err, ErrInvalidMove))
	err = g.ApplyTrapperMove(blocked)
	is.True(errors.Is(err, ErrInvalidMove))
	err = g.ApplyTrapperMove(g.Evader())
	is.True(errors.Is(err, ErrInvalidMove))
	err = g.ApplyTrapperMove(Coord{-1, 2})
	is.True(errors.Is(err, ErrInvalidMove))

	// Nothing changed.
	is.Equal(g.Count(Blocked), 1)
	is.Equal(g.Count(Occupied), 1)
}

func TestEscaped(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(5)
	is.True(!g.Escaped())

	g.MoveEvader(Coord{0, 3})
	is.True(g.Escaped())
	g.MoveEvader(Coord{2, 4})
	is.True(g.Escaped())
	g.MoveEvader(Coord{4, 1})
	is.True(g.Escaped())
	g.MoveEvader(Coord{3, 0})
	is.True(g.Escaped())
	g.MoveEvader(Coord{2, 2})
	is.True(!g.Escaped())
}

func TestFromRows(t *testing.T) {
	is := is.New(t)
	rows := [][]int{
		{0, 1, 0},
		{0, 6, 0},
		{1, 0, 0},
	}
	g, err := FromRows(rows)
	is.NoErr(err)
	is.Equal(g.Dim(), 3)
	is.Equal(g.Evader(), Coord{1, 1})
	is.Equal(g.Count(Blocked), 2)
	is.Equal(g.Rows(), rows)
}

func TestFromRowsWithoutEvader(t *testing.T) {
	is := is.New(t)
	g, err := FromRows([][]int{{0, 1}, {0, 0}})
	is.NoErr(err)
	is.True(!g.HasEvader())
	is.Equal(g.Evader(), NoCoord)
}

func TestFromRowsErrors(t *testing.T) {
	is := is.New(t)
	_, err := FromRows(nil)
	is.True(err != nil)
	_, err = FromRows([][]int{{0, 0}, {0}})
	is.True(err != nil)
	_, err = FromRows([][]int{{0, 3}, {6, 0}})
	is.True(err != nil)
}

func TestEmptyTilesRowMajorOrder(t *testing.T) {
	is := is.New(t)
	g, err := FromRows([][]int{
		{1, 0, 0},
		{0, 6, 1},
		{0, 1, 0},
	})
	is.NoErr(err)
	is.Equal(g.EmptyTiles(), []Coord{
		{0, 1}, {0, 2}, {1, 0}, {2, 0}, {2, 2},
	})
}

func TestCopyIsolation(t *testing.T) {
	is := is.New(t)
	g := NewHexGrid(4)
	clone := g.Copy()

	is.NoErr(clone.ApplyTrapperMove(Coord{0, 0}))
	is.NoErr(clone.ApplyEvaderMove(TargetOf(clone.Evader(), East)))

	is.Equal(g.At(Coord{0, 0}), Empty)
	is.Equal(g.Evader(), Coord{2, 2})
	is.Equal(clone.Evader(), Coord{2, 3})
}

func TestFillRandomBlocksDensity(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 20; i++ {
		g := NewHexGrid(7)
		g.FillRandomBlocks()
		blocks := g.Count(Blocked)
		lo := int(math.Round(0.067 * 49))
		hi := int(math.Round(0.13 * 49))
		is.True(blocks >= lo && blocks <= hi)
		is.Equal(g.Count(Occupied), 1)
		is.Equal(g.Evader(), Coord{3, 3})
	}
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	g, err := FromRows([][]int{
		{0, 1},
		{6, 0},
	})
	is.NoErr(err)
	is.Equal(g.ToDisplayText(), "⬡ ⬢\n 🐈 ⬡\n")
}
