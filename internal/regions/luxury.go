package regions

import (
	"log/slog"
	"slices"

	"github.com/talgya/startlayout/internal/entropy"
	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// assignLuxuries gives every region a luxury, reserves a few for
// city-states and leaves the rest to be sprinkled at random. Regions are
// served from the least to the most developed type.
func (g *generation) assignLuxuries() {
	luxuries := g.rules.ResourcesOfType(ruleset.Luxury)
	limit := luxuryCap(len(g.regions))

	order := slices.Clone(g.regions)
	slices.SortStableFunc(order, func(a, b *Region) int {
		return g.rules.RegionPriority(a.Type) - g.rules.RegionPriority(b.Type)
	})

	for _, r := range order {
		var candidates []*ruleset.Resource
		var weights []float64
		for _, res := range luxuries {
			used := g.luxuryAssignCount[res.Name]
			if used >= limit {
				continue
			}
			w := res.RegionWeight(r.Type)
			if w <= 0 || !g.luxuryFits(res, r) {
				continue
			}
			candidates = append(candidates, res)
			weights = append(weights, float64(w)/float64(1+used))
		}
		res, ok := entropy.WeightedChoice(g.rng, candidates, weights)
		if !ok {
			slog.Debug("no luxury fits region", "region", r.String())
			continue
		}
		r.Luxury = res.Name
		g.luxuryAssignCount[res.Name]++
	}

	for len(g.cityStateLuxuries) < cityStateLuxuryCount {
		var candidates []*ruleset.Resource
		var weights []int
		for _, res := range luxuries {
			if g.luxuryAssignCount[res.Name] > 0 || slices.Contains(g.cityStateLuxuries, res.Name) {
				continue
			}
			if w := res.CityStateWeight(); w > 0 {
				candidates = append(candidates, res)
				weights = append(weights, w)
			}
		}
		res, ok := entropy.WeightedChoice(g.rng, candidates, weights)
		if !ok {
			break
		}
		g.cityStateLuxuries = append(g.cityStateLuxuries, res.Name)
	}

	for _, res := range luxuries {
		if g.luxuryAssignCount[res.Name] == 0 && !slices.Contains(g.cityStateLuxuries, res.Name) {
			g.randomLuxuries = append(g.randomLuxuries, res.Name)
		}
	}
	slog.Debug("luxuries assigned",
		"cap", limit,
		"city_state", g.cityStateLuxuries,
		"random", g.randomLuxuries,
	)
}

// luxuryFits reports whether the region offers enough tiles for res.
func (g *generation) luxuryFits(res *ruleset.Resource, r *Region) bool {
	n := 0
	for _, t := range g.placementTiles(r) {
		if res.FoundOn(t.LastTerrain()) && res.Allows(g.m.TileEnv(t)) {
			n++
			if n >= minLuxuryTilesInRegion {
				return true
			}
		}
	}
	return false
}

// placementTiles returns the region's tiles plus the water touching its
// land, so coastal luxuries can belong to a continental region.
func (g *generation) placementTiles(r *Region) []*world.Tile {
	if r.Continent < 0 {
		return r.tiles
	}
	out := slices.Clone(r.tiles)
	seen := make(map[int]bool)
	for _, t := range r.tiles {
		if g.m.IsWater(t) {
			continue
		}
		for _, n := range g.m.Neighbors(t.Coord) {
			i := g.m.Index(n.Coord)
			if g.m.IsWater(n) && !seen[i] {
				seen[i] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// placeLuxuries puts luxuries on the map: at every major start, across each
// region, next to every city-state and finally at random.
func (g *generation) placeLuxuries() {
	lux := func(name string) *ruleset.Resource {
		if res := g.rules.Resource(name); res != nil && res.Type == ruleset.Luxury {
			return res
		}
		return nil
	}

	for _, a := range g.majors {
		res := lux(a.Region.Luxury)
		if res == nil {
			continue
		}
		near := g.ringTiles(a.Start, 1, 2)
		if g.placeLuxury(near, luxuriesAtStart, g.only(res, 1)) == 0 {
			g.placeLuxury(near, luxuriesAtStart, g.anyOf(g.spareLuxuries(), one, one))
		}
	}

	for _, r := range g.regions {
		res := lux(r.Luxury)
		if res == nil {
			continue
		}
		want := min(max(r.landTiles/regionalLuxuryTilesPer, 1), regionalLuxuryMax)
		g.placeLuxury(g.placementTiles(r), want, g.only(res, 1))
	}

	for i, a := range g.minors {
		var res *ruleset.Resource
		if len(g.cityStateLuxuries) > 0 {
			res = lux(g.cityStateLuxuries[i%len(g.cityStateLuxuries)])
		}
		near := g.ringTiles(a.Start, 1, 2)
		if res == nil || g.placeLuxury(near, 1, g.only(res, 1)) == 0 {
			g.placeLuxury(near, 1, g.anyOf(g.spareLuxuries(), one, one))
		}
	}

	if len(g.randomLuxuries) == 0 {
		return
	}
	target := g.m.TileCount() / randomLuxuryTilesPer * randomLuxuryKeepPercent(g.m.TileCount()) / 100
	each := max(target/len(g.randomLuxuries), 1)
	for _, name := range g.randomLuxuries {
		if res := lux(name); res != nil {
			g.placeLuxury(g.m.Tiles, each, g.only(res, 1))
		}
	}
}

func (g *generation) placeLuxury(tiles []*world.Tile, want int, choose chooser) int {
	return g.placeResources(tiles, want, ImpactLuxury, luxuryBaseImpact, luxuryRandomImpact, choose)
}

// spareLuxuries are the luxuries no region owns.
func (g *generation) spareLuxuries() []*ruleset.Resource {
	var out []*ruleset.Resource
	for _, name := range slices.Concat(g.cityStateLuxuries, g.randomLuxuries) {
		if res := g.rules.Resource(name); res != nil {
			out = append(out, res)
		}
	}
	return out
}
