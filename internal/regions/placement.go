package regions

import (
	"slices"

	"github.com/talgya/startlayout/internal/entropy"
	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// chooser picks the resource and amount to put on t, or nil when t cannot
// take any.
type chooser func(t *world.Tile) (*ruleset.Resource, int)

// canPlace reports whether res may go on t: the tile is free, hosts no
// start, and matches the resource's terrains and condition.
func (g *generation) canPlace(res *ruleset.Resource, t *world.Tile) bool {
	if t.Resource != "" || g.isStartTile(t.Coord) {
		return false
	}
	if !res.FoundOn(t.LastTerrain()) {
		return false
	}
	return res.Allows(g.m.TileEnv(t))
}

// placeResources puts up to want resources on tiles. The first pass only
// uses tiles untouched on the channel; the second repeatedly takes the
// least impacted tile left. Every placement stamps base plus up to jitter
// impact. It returns the number placed.
func (g *generation) placeResources(tiles []*world.Tile, want int, typ ImpactType, base, jitter int, choose chooser) int {
	if want <= 0 || len(tiles) == 0 {
		return 0
	}
	pool := slices.Clone(tiles)
	entropy.Shuffle(g.rng, pool)

	placed := 0
	var crowded []*world.Tile
	for _, t := range pool {
		if placed >= want {
			return placed
		}
		if g.impact(t, typ) > 0 {
			crowded = append(crowded, t)
			continue
		}
		if g.tryPlace(t, typ, base, jitter, choose) {
			placed++
		}
	}

	for placed < want && len(crowded) > 0 {
		i := 0
		for j, t := range crowded {
			if g.impact(t, typ) < g.impact(crowded[i], typ) {
				i = j
			}
		}
		t := crowded[i]
		crowded = slices.Delete(crowded, i, i+1)
		if g.tryPlace(t, typ, base, jitter, choose) {
			placed++
		}
	}
	return placed
}

func (g *generation) tryPlace(t *world.Tile, typ ImpactType, base, jitter int, choose chooser) bool {
	if t.Resource != "" {
		return false
	}
	res, amount := choose(t)
	if res == nil {
		return false
	}
	g.setResource(t, res, amount)
	g.placeImpact(typ, t.Coord, base+g.rng.Intn(jitter+1))
	return true
}

func (g *generation) setResource(t *world.Tile, res *ruleset.Resource, amount int) {
	t.Resource = res.Name
	t.ResourceAmount = amount
	switch res.Type {
	case ruleset.Luxury:
		g.stats.Luxuries++
	case ruleset.Strategic:
		g.stats.Strategics++
	default:
		g.stats.Bonuses++
	}
}

// only returns a chooser placing a single resource kind.
func (g *generation) only(res *ruleset.Resource, amount int) chooser {
	return func(t *world.Tile) (*ruleset.Resource, int) {
		if g.canPlace(res, t) {
			return res, amount
		}
		return nil, 0
	}
}

// anyOf returns a chooser drawing among the resources legal on the tile,
// weighted by weight.
func (g *generation) anyOf(list []*ruleset.Resource, weight func(*ruleset.Resource) int, amount func(*ruleset.Resource) int) chooser {
	return func(t *world.Tile) (*ruleset.Resource, int) {
		var legal []*ruleset.Resource
		var weights []int
		for _, res := range list {
			if g.canPlace(res, t) {
				legal = append(legal, res)
				weights = append(weights, weight(res))
			}
		}
		res, ok := entropy.WeightedChoice(g.rng, legal, weights)
		if !ok {
			return nil, 0
		}
		return res, amount(res)
	}
}

// landTiles returns every passable land tile.
func (g *generation) landTiles() []*world.Tile {
	var out []*world.Tile
	for _, t := range g.m.Tiles {
		if g.m.IsLand(t) && !g.m.IsImpassable(t) {
			out = append(out, t)
		}
	}
	return out
}

func one(*ruleset.Resource) int { return 1 }
