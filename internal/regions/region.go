package regions

import (
	"fmt"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// Rect is an axis-aligned box of columns and rows. X may wrap on wrapped maps.
type Rect struct {
	X, Y, Width, Height int
}

// Region is a balanced share of land meant to host one major faction.
type Region struct {
	Rect      Rect
	Continent int // -1 covers every tile of the rectangle

	TerrainCounts  map[string]int
	TotalFertility int
	Type           string
	Luxury         string
	Start          *world.Coord
	Minors         []*ruleset.Nation

	tiles        []*world.Tile // derived from Rect and Continent
	landTiles    int
	coastalTiles int
	claimed      bool
}

// Tiles returns the member tiles as of the last bounds change.
func (r *Region) Tiles() []*world.Tile {
	return r.tiles
}

// LandTiles returns the number of land member tiles.
func (r *Region) LandTiles() int {
	return r.landTiles
}

// String returns a summary of the region.
func (r *Region) String() string {
	return fmt.Sprintf("Region(%s at %d,%d %dx%d, continent=%d, fertility=%d, tiles=%d)",
		r.Type, r.Rect.X, r.Rect.Y, r.Rect.Width, r.Rect.Height, r.Continent, r.TotalFertility, len(r.tiles))
}

func (g *generation) newRegion(rect Rect, continent int) *Region {
	r := &Region{Rect: rect, Continent: continent, Type: ruleset.HybridRegion}
	g.trimRegion(r)
	return r
}

// updateRegion recomputes the member tiles and their totals from the bounds.
func (g *generation) updateRegion(r *Region) {
	rect := r.Rect
	r.tiles = make([]*world.Tile, 0, rect.Width*rect.Height)
	r.TotalFertility = 0
	r.landTiles = 0
	r.coastalTiles = 0
	for _, t := range g.m.Rect(rect.X, rect.Y, rect.Width, rect.Height) {
		if r.Continent >= 0 && t.Continent != r.Continent {
			continue
		}
		r.tiles = append(r.tiles, t)
		r.TotalFertility += g.data(t).fertility
		if g.m.IsLand(t) {
			r.landTiles++
			if g.m.IsCoastal(t) {
				r.coastalTiles++
			}
		}
	}
}

// trimRegion shrinks the bounds to the smallest box holding every land
// member, then refreshes the member set.
func (g *generation) trimRegion(r *Region) {
	g.updateRegion(r)
	if r.landTiles == 0 {
		return
	}
	cols := make([]bool, r.Rect.Width)
	rows := make([]bool, r.Rect.Height)
	for _, t := range r.tiles {
		if g.m.IsWater(t) {
			continue
		}
		cols[g.localX(r.Rect, t.Coord.X)] = true
		rows[t.Coord.Y-r.Rect.Y] = true
	}
	left, right := firstLast(cols)
	top, bottom := firstLast(rows)
	if left == 0 && top == 0 && right == len(cols)-1 && bottom == len(rows)-1 {
		return
	}
	r.Rect = Rect{
		X:      g.wrapX(r.Rect.X + left),
		Y:      r.Rect.Y + top,
		Width:  right - left + 1,
		Height: bottom - top + 1,
	}
	g.updateRegion(r)
}

// localX returns the column offset of x inside rect.
func (g *generation) localX(rect Rect, x int) int {
	dx := x - rect.X
	if dx < 0 && g.m.WorldWrap {
		dx += g.m.Width
	}
	return dx
}

func (g *generation) wrapX(x int) int {
	if !g.m.WorldWrap {
		return x
	}
	return ((x % g.m.Width) + g.m.Width) % g.m.Width
}

func (r *Region) contains(g *generation, t *world.Tile) bool {
	if r.Continent >= 0 && t.Continent != r.Continent {
		return false
	}
	dx := g.localX(r.Rect, t.Coord.X)
	dy := t.Coord.Y - r.Rect.Y
	return dx >= 0 && dx < r.Rect.Width && dy >= 0 && dy < r.Rect.Height
}

func firstLast(marks []bool) (int, int) {
	first, last := -1, -1
	for i, m := range marks {
		if m {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return first, last
}
