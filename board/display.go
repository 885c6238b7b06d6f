package board

import "strings"

var tileGlyphs = map[Tile]string{
	Empty:    "⬡",
	Blocked:  "⬢",
	Occupied: "🐈",
}

// ToDisplayText returns a hex-staggered rendering of the grid, one row per
// line with odd rows indented by a space.
func (g *HexGrid) ToDisplayText() string {
	var sb strings.Builder
	for r := 0; r < g.size; r++ {
		if r%2 != 0 {
			sb.WriteString(" ")
		}
		for c := 0; c < g.size; c++ {
			if c > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(tileGlyphs[g.tiles[r*g.size+c]])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
