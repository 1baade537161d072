package regions

import (
	"log/slog"
	"math"

	"github.com/talgya/startlayout/internal/world"
)

type candidate struct {
	tile  *world.Tile
	score int
	good  bool
}

// findStart picks the region's start: the center third first, then the
// middle band, then the rest. Within a band river tiles beat fresh water or
// coastal tiles, which beat the rest, but only tiles passing every ring
// minimum qualify. The best unqualified tile per bucket is kept as fallback.
func (g *generation) findStart(r *Region) {
	center := scaledRect(r.Rect, centerAreaScale)
	middle := scaledRect(r.Rect, middleAreaScale)

	levels := [3][]*world.Tile{}
	for _, t := range r.tiles {
		dx, dy := g.localX(r.Rect, t.Coord.X), t.Coord.Y-r.Rect.Y
		switch {
		case center.has(dx, dy):
			levels[0] = append(levels[0], t)
		case middle.has(dx, dy):
			levels[1] = append(levels[1], t)
		default:
			levels[2] = append(levels[2], t)
		}
	}

	var fallback []candidate
	for level, tiles := range levels {
		var buckets [3][]candidate
		for _, t := range tiles {
			if !g.canStartOn(r, t) {
				continue
			}
			score, good := g.evaluateCandidate(t)
			g.data(t).startScore = score
			c := candidate{tile: t, score: score, good: good}
			switch {
			case g.m.IsAdjacentToRiver(t):
				buckets[0] = append(buckets[0], c)
			case g.m.IsAdjacentToFreshWater(t) || g.m.IsCoastal(t):
				buckets[1] = append(buckets[1], c)
			default:
				buckets[2] = append(buckets[2], c)
			}
		}
		for _, bucket := range buckets {
			if best, ok := bestCandidate(bucket, true); ok {
				slog.Debug("start found", "region", r.Type, "level", level, "coord", best.tile.Coord, "score", best.score)
				g.setStart(r, best.tile)
				return
			}
		}
		for _, bucket := range buckets {
			if best, ok := bestCandidate(bucket, false); ok {
				fallback = append(fallback, best)
			}
		}
	}

	if best, ok := bestCandidate(fallback, false); ok {
		slog.Debug("start from fallback", "region", r.Type, "coord", best.tile.Coord, "score", best.score)
		g.setStart(r, best.tile)
		return
	}

	g.setStart(r, g.panicStart(r))
}

func (g *generation) canStartOn(r *Region, t *world.Tile) bool {
	if g.m.IsWater(t) || g.m.IsImpassable(t) || g.data(t).twoFromCoast {
		return false
	}
	if r.Continent >= 0 && t.Continent != r.Continent {
		return false
	}
	return !g.isStartTile(t.Coord)
}

func bestCandidate(cs []candidate, goodOnly bool) (candidate, bool) {
	var best candidate
	found := false
	for _, c := range cs {
		if goodOnly && !c.good {
			continue
		}
		if !found || c.score > best.score {
			best, found = c, true
		}
	}
	return best, found
}

// evaluateCandidate scores rings 1-3 around t and reports whether every ring
// meets its food, production and good minimums with junk under the ceiling.
func (g *generation) evaluateCandidate(t *world.Tile) (int, bool) {
	total, junkTotal := 0, 0
	good := true
	for ring := 1; ring <= 3; ring++ {
		food, prod, goodCount, junk, river := 0, 0, 0, 0, 0
		for _, n := range g.m.TilesAtDistance(t.Coord, ring) {
			d := g.data(n)
			if d.food {
				food++
			}
			if d.production {
				prod++
			}
			if d.good {
				goodCount++
			}
			if d.junk {
				junk++
			}
			if g.m.IsAdjacentToRiver(n) {
				river++
			}
		}
		if food < minimumFoodForRing[ring] || prod < minimumProdForRing[ring] || goodCount < minimumGoodForRing[ring] {
			good = false
		}
		junkTotal += junk

		switch ring {
		case 1:
			total += firstRingFoodScores[min(food, len(firstRingFoodScores)-1)]
			total += firstRingProdScores[min(prod, len(firstRingProdScores)-1)]
		case 2:
			total += secondRingFoodScores[min(food, len(secondRingFoodScores)-1)]
			total += secondRingProdScores[min(prod, len(secondRingProdScores)-1)]
		default:
			total += food*4 + prod*4
		}
		total += goodCount*goodTileScore + river - junk*junkPenalty
	}
	if junkTotal > maximumJunk {
		good = false
	}

	penalty := g.data(t).closeStartPenalty
	total = total * (100 - penalty) / 100
	return total, good
}

// panicStart turns the region's corner into plain land when no tile could
// host a start at all.
func (g *generation) panicStart(r *Region) *world.Tile {
	t := g.m.Get(world.Coord{X: r.Rect.X, Y: r.Rect.Y})
	if t == nil || g.isStartTile(t.Coord) {
		t = g.freeTileNear(world.Coord{X: r.Rect.X, Y: r.Rect.Y})
	}
	land := g.rules.FirstLandTerrain()
	slog.Warn("no start candidate, synthesizing one", "region", r.String(), "coord", t.Coord)
	if land != nil {
		t.Terrain = land.Name
	}
	t.Features = nil
	t.Resource, t.ResourceAmount = "", 0
	if r.Continent >= 0 {
		t.Continent = r.Continent
	}
	g.refreshTileData(t)
	return t
}

// freeTileNear returns the closest tile to c that hosts no start, preferring land.
func (g *generation) freeTileNear(c world.Coord) *world.Tile {
	var best *world.Tile
	bestDist := math.MaxInt
	for _, t := range g.m.Tiles {
		if g.isStartTile(t.Coord) {
			continue
		}
		d := g.m.Distance(c, t.Coord)
		if g.m.IsWater(t) {
			d += g.m.Width + g.m.Height
		}
		if d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

func (g *generation) setStart(r *Region, t *world.Tile) {
	c := t.Coord
	r.Start = &c
	g.setCloseStartPenalty(c)
}

// isStartTile reports whether c already hosts a region start or a
// registered start.
func (g *generation) isStartTile(c world.Coord) bool {
	for _, r := range g.regions {
		if r.Start != nil && *r.Start == c {
			return true
		}
	}
	return g.m.IsStart(c)
}

type localRect struct{ x0, y0, x1, y1 int }

func (l localRect) has(x, y int) bool {
	return x >= l.x0 && x < l.x1 && y >= l.y0 && y < l.y1
}

// scaledRect returns a centered sub-box in region-local coordinates.
func scaledRect(r Rect, scale float64) localRect {
	w := max(1, int(math.Round(float64(r.Width)*scale)))
	h := max(1, int(math.Round(float64(r.Height)*scale)))
	x0 := (r.Width - w) / 2
	y0 := (r.Height - h) / 2
	return localRect{x0: x0, y0: y0, x1: x0 + w, y1: y0 + h}
}

// isFlat reports a land tile without rough terrain or features.
func (g *generation) isFlat(t *world.Tile) bool {
	return g.m.IsLand(t) && len(t.Features) == 0 && !g.m.IsRough(t) && !g.m.IsImpassable(t)
}
