package regions

import (
	"log/slog"
	"slices"

	"github.com/talgya/startlayout/internal/entropy"
	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// biasBucket orders nations during assignment.
type biasBucket int

const (
	biasCoastal biasBucket = iota
	biasPositive
	biasNegative
	biasRandom
)

func (g *generation) bucketOf(n *ruleset.Nation) biasBucket {
	switch {
	case g.opts.NoStartBias:
		return biasRandom
	case n.PreferCoast:
		return biasCoastal
	case len(n.Prefer) > 0:
		return biasPositive
	case len(n.Avoid) > 0:
		return biasNegative
	default:
		return biasRandom
	}
}

// assignNations seats every major in its own region: coastal lovers first,
// then nations preferring a terrain, then those avoiding one, then the rest.
func (g *generation) assignNations(majors []*ruleset.Nation) {
	var coastal, positive, negative, random []*ruleset.Nation
	for _, n := range majors {
		switch g.bucketOf(n) {
		case biasCoastal:
			coastal = append(coastal, n)
		case biasPositive:
			positive = append(positive, n)
		case biasNegative:
			negative = append(negative, n)
		default:
			random = append(random, n)
		}
	}

	for _, n := range coastal {
		if r := g.pickCoastal(); r != nil {
			g.assign(n, r)
		} else {
			random = append(random, n)
		}
	}

	// Single-preference nations go first; they also get a fallback pass.
	slices.SortStableFunc(positive, func(a, b *ruleset.Nation) int {
		return min(len(a.Prefer), 2) - min(len(b.Prefer), 2)
	})
	var fallback []*ruleset.Nation
	for _, n := range positive {
		if r := g.pickPreferred(n, true); r != nil {
			g.assign(n, r)
			continue
		}
		if len(n.Prefer) == 1 {
			fallback = append(fallback, n)
		} else {
			random = append(random, n)
		}
	}
	for _, n := range fallback {
		if r := g.pickPreferred(n, false); r != nil {
			g.assign(n, r)
		} else {
			random = append(random, n)
		}
	}

	slices.SortStableFunc(negative, func(a, b *ruleset.Nation) int {
		return len(b.Avoid) - len(a.Avoid)
	})
	for _, n := range negative {
		if r := g.pickAvoiding(n); r != nil {
			g.assign(n, r)
		} else {
			random = append(random, n)
		}
	}

	open := g.unclaimed()
	entropy.Shuffle(g.rng, open)
	for i, n := range random {
		if i >= len(open) {
			slog.Warn("more nations than regions", "nation", n.Name)
			continue
		}
		g.assign(n, open[i])
	}
}

func (g *generation) unclaimed() []*Region {
	var out []*Region
	for _, r := range g.regions {
		if !r.claimed && r.Start != nil {
			out = append(out, r)
		}
	}
	return out
}

// pickCoastal returns the unclaimed region whose start is coastal, with
// the most coastline, degrading to fresh water, then river, then a river
// nearby.
func (g *generation) pickCoastal() *Region {
	tests := []func(*world.Tile) bool{
		g.m.IsCoastal,
		g.m.IsAdjacentToFreshWater,
		g.m.IsAdjacentToRiver,
		g.m.IsNearRiver,
	}
	for _, test := range tests {
		var best *Region
		for _, r := range g.unclaimed() {
			if !test(g.m.Get(*r.Start)) {
				continue
			}
			if best == nil || r.coastalTiles > best.coastalTiles {
				best = r
			}
		}
		if best != nil {
			return best
		}
	}
	return nil
}

func countOf(r *Region, terrains []string) int {
	total := 0
	for _, name := range terrains {
		total += r.TerrainCounts[name]
	}
	return total
}

// pickPreferred returns the unclaimed region with the most preferred
// terrain. With typed set only regions classified as a preferred terrain
// qualify.
func (g *generation) pickPreferred(n *ruleset.Nation, typed bool) *Region {
	var best *Region
	bestCount := -1
	for _, r := range g.unclaimed() {
		if typed && !slices.Contains(n.Prefer, r.Type) {
			continue
		}
		if c := countOf(r, n.Prefer); c > bestCount {
			best, bestCount = r, c
		}
	}
	return best
}

// pickAvoiding returns the unclaimed region minimizing twice the avoided
// terrain minus the preferred terrain, skipping regions of an avoided type.
func (g *generation) pickAvoiding(n *ruleset.Nation) *Region {
	var best *Region
	bestScore := 0
	for _, r := range g.unclaimed() {
		if slices.Contains(n.Avoid, r.Type) {
			continue
		}
		score := 2*countOf(r, n.Avoid) - countOf(r, n.Prefer)
		if best == nil || score < bestScore {
			best, bestScore = r, score
		}
	}
	return best
}

func (g *generation) assign(n *ruleset.Nation, r *Region) {
	r.claimed = true
	c := *r.Start
	if !g.m.AddStartLocation(n.Name, c, false) {
		slog.Warn("start already taken", "nation", n.Name, "coord", c)
	}
	g.stampStartImpacts(c, false)
	g.majors = append(g.majors, Assignment{Nation: n, Region: r, Start: c})
	slog.Debug("nation assigned", "nation", n.Name, "region", r.Type, "coord", c)
}
