package regions

import (
	"log/slog"
	"math"
	"slices"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// placeMinorCivs distributes city-states: some to continents no major
// lives on, a ratio-driven share to every region, then extras to regions
// with a widely shared luxury, round-robin, and finally the least fertile
// regions. Each one is seated on a free interior tile and normalized.
func (g *generation) placeMinorCivs(minors []*ruleset.Nation) {
	if len(minors) == 0 {
		return
	}
	queue := slices.Clone(minors)
	take := func() *ruleset.Nation {
		n := queue[0]
		queue = queue[1:]
		return n
	}

	var uninhabited []*ruleset.Nation
	var remote []*world.Tile
	if !g.archipelago {
		remote = g.uninhabitedTiles()
		if len(remote) > 0 {
			share := float64(len(remote)) / float64(max(len(g.landTiles()), 1))
			reserve := min(len(minors)/2, int(math.Round(share*float64(len(minors)))))
			for range reserve {
				uninhabited = append(uninhabited, take())
			}
		}
	}

	if len(g.regions) > 0 {
		perRegion := minorCivsPerRegion(float64(len(minors)) / float64(len(g.regions)))
		for _, r := range g.regions {
			for i := 0; i < perRegion && len(queue) > 0; i++ {
				r.Minors = append(r.Minors, take())
			}
		}
		for _, r := range g.regions {
			if len(queue) > 0 && r.Luxury != "" && g.luxuryAssignCount[r.Luxury] >= luxurySharedForExtraMinor {
				r.Minors = append(r.Minors, take())
			}
		}
		for len(queue) >= len(g.regions) {
			for _, r := range g.regions {
				r.Minors = append(r.Minors, take())
			}
		}
		poorest := slices.Clone(g.regions)
		slices.SortStableFunc(poorest, func(a, b *Region) int { return a.TotalFertility - b.TotalFertility })
		for i := 0; len(queue) > 0; i++ {
			poorest[i%len(poorest)].Minors = append(poorest[i%len(poorest)].Minors, take())
		}
	}

	for _, n := range uninhabited {
		t := g.minorSpot(remote, true)
		if t == nil {
			t = g.minorSpot(g.m.Tiles, false)
		}
		g.seatMinor(n, nil, t)
	}
	for _, r := range g.regions {
		seated := r.Minors[:0]
		for _, n := range r.Minors {
			region := r
			t := g.minorSpot(r.tiles, false)
			if t == nil {
				region = nil
				t = g.minorSpot(g.m.Tiles, false)
			}
			if g.seatMinor(n, region, t) && region != nil {
				seated = append(seated, n)
			}
		}
		r.Minors = seated
	}
	// Leftovers when there are no regions at all.
	for _, n := range queue {
		g.seatMinor(n, nil, g.minorSpot(g.m.Tiles, false))
	}
}

// uninhabitedTiles returns the land of continents without a region.
func (g *generation) uninhabitedTiles() []*world.Tile {
	inhabited := make(map[int]bool)
	for _, r := range g.regions {
		inhabited[r.Continent] = true
	}
	var out []*world.Tile
	for _, t := range g.m.Tiles {
		if t.Continent >= 0 && !inhabited[t.Continent] && g.m.IsLand(t) {
			out = append(out, t)
		}
	}
	return out
}

// minorSpot picks a random eligible tile from pool, coastal ones first
// when preferCoast is set.
func (g *generation) minorSpot(pool []*world.Tile, preferCoast bool) *world.Tile {
	var eligible, coastal []*world.Tile
	for _, t := range pool {
		if !g.canHostMinor(t) {
			continue
		}
		eligible = append(eligible, t)
		if g.m.IsCoastal(t) {
			coastal = append(coastal, t)
		}
	}
	if preferCoast && len(coastal) > 0 {
		eligible = coastal
	}
	if len(eligible) == 0 {
		return nil
	}
	return eligible[g.rng.Intn(len(eligible))]
}

func (g *generation) canHostMinor(t *world.Tile) bool {
	return g.m.IsLand(t) &&
		!g.m.IsImpassable(t) &&
		!g.data(t).junk &&
		g.m.IsInterior(t) &&
		g.impact(t, ImpactMinorCiv) == 0 &&
		!g.isStartTile(t.Coord)
}

// seatMinor registers a city-state at t and normalizes around it.
func (g *generation) seatMinor(n *ruleset.Nation, r *Region, t *world.Tile) bool {
	if t == nil {
		slog.Debug("no room for city-state", "nation", n.Name)
		return false
	}
	if !g.m.AddStartLocation(n.Name, t.Coord, true) {
		return false
	}
	g.stampStartImpacts(t.Coord, true)
	g.normalizeStart(t, true)
	g.minors = append(g.minors, Assignment{Nation: n, Region: r, Start: t.Coord})
	g.stats.Minors++
	return true
}
