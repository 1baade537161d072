package regions

import (
	"log/slog"
	"slices"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// generateRegions splits the land into n regions. When the largest
// continent holds too little of the land the whole map is split at once.
func (g *generation) generateRegions(n int) error {
	if n <= 0 {
		return nil
	}
	sizes := world.ContinentSizes(g.m)
	if len(sizes) == 0 {
		return ErrNoLandContinents
	}
	totalLand, largest := 0, 0
	for _, size := range sizes {
		totalLand += size
		largest = max(largest, size)
	}

	if float64(largest) < g.opts.ArchipelagoThreshold*float64(totalLand) {
		g.archipelago = true
		g.computeFertility(true)
		slog.Info("archipelago mode", "continents", len(sizes), "largest", largest, "land", totalLand)
		g.divide(g.newRegion(Rect{X: 0, Y: 0, Width: g.m.Width, Height: g.m.Height}, -1), n)
		return nil
	}

	g.computeFertility(false)
	fertility := make(map[int]int, len(sizes))
	for i, t := range g.m.Tiles {
		if t.Continent >= 0 {
			fertility[t.Continent] += g.tiles[i].fertility
		}
	}
	ids := make([]int, 0, len(sizes))
	for id := range sizes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	given := make(map[int]int, len(ids))
	for i := 0; i < n; i++ {
		best := ids[0]
		bestScore := -1.0
		for _, id := range ids {
			score := float64(fertility[id]) / float64(1+given[id])
			if score > bestScore {
				best, bestScore = id, score
			}
		}
		given[best]++
	}

	for _, id := range ids {
		if given[id] == 0 {
			continue
		}
		slog.Debug("dividing continent", "continent", id, "regions", given[id], "fertility", fertility[id])
		g.divide(g.newRegion(g.continentRect(id), id), given[id])
	}
	return nil
}

// continentRect returns the bounding box of a continent. On wrapped maps a
// continent crossing the seam starts at the rightmost column whose left
// neighbor column holds none of its tiles.
func (g *generation) continentRect(id int) Rect {
	w := g.m.Width
	cols := make([]bool, w)
	minY, maxY := g.m.Height, -1
	for _, t := range g.m.Tiles {
		if t.Continent != id {
			continue
		}
		cols[t.Coord.X] = true
		minY = min(minY, t.Coord.Y)
		maxY = max(maxY, t.Coord.Y)
	}

	if g.wraps() && cols[0] && cols[w-1] {
		origin := -1
		for x := w - 1; x >= 0; x-- {
			if cols[x] && !cols[(x-1+w)%w] {
				origin = x
				break
			}
		}
		if origin < 0 {
			return Rect{X: 0, Y: minY, Width: w, Height: maxY - minY + 1}
		}
		width := 0
		for x, used := range cols {
			if used {
				width = max(width, (x-origin+w)%w+1)
			}
		}
		return Rect{X: origin, Y: minY, Width: width, Height: maxY - minY + 1}
	}

	left, right := firstLast(cols)
	return Rect{X: left, Y: minY, Width: right - left + 1, Height: maxY - minY + 1}
}

func (g *generation) wraps() bool {
	return g.opts.WorldWrap && g.m.WorldWrap
}

// divide recursively halves r until each piece hosts one faction.
func (g *generation) divide(r *Region, n int) {
	if n <= 1 {
		r.Type = ruleset.HybridRegion
		g.regions = append(g.regions, r)
		return
	}
	first := n / 2
	a, b := g.splitOff(r, first, n)
	g.divide(a, first)
	g.divide(b, n-first)
}

// splitOff cuts r along its longer axis so that the first piece holds about
// num/den of its fertility. Equal errors prefer the cut nearest the middle.
func (g *generation) splitOff(r *Region, num, den int) (*Region, *Region) {
	byColumns := r.Rect.Width >= r.Rect.Height
	length := r.Rect.Width
	if !byColumns {
		length = r.Rect.Height
	}
	if length < 2 {
		byColumns = !byColumns
		length = max(r.Rect.Width, r.Rect.Height)
	}
	if length < 2 {
		// A single tile cannot be cut; the second piece is empty.
		return r, g.newRegion(Rect{X: r.Rect.X, Y: r.Rect.Y}, r.Continent)
	}

	lines := make([]int, length)
	for _, t := range r.tiles {
		i := t.Coord.Y - r.Rect.Y
		if byColumns {
			i = g.localX(r.Rect, t.Coord.X)
		}
		lines[i] += g.data(t).fertility
	}

	target := r.TotalFertility * num
	best, bestDiff, bestMid := 1, -1, 0
	cum := 0
	for k := 1; k < length; k++ {
		cum += lines[k-1]
		diff := abs(cum*den - target)
		mid := abs(2*k - length)
		if bestDiff < 0 || diff < bestDiff || (diff == bestDiff && mid < bestMid) {
			best, bestDiff, bestMid = k, diff, mid
		}
	}

	first, second := r.Rect, r.Rect
	if byColumns {
		first.Width = best
		second.X = g.wrapX(r.Rect.X + best)
		second.Width = r.Rect.Width - best
	} else {
		first.Height = best
		second.Y = r.Rect.Y + best
		second.Height = r.Rect.Height - best
	}
	return g.newRegion(first, r.Continent), g.newRegion(second, r.Continent)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
