// Package regions computes a fair starting layout: it partitions land into
// balanced regions, seats major and minor factions, normalizes their
// surroundings and distributes luxury, strategic and bonus resources.
package regions

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// ErrNoLandContinents is returned when regions are requested on a map
// without land.
var ErrNoLandContinents = errors.New("no land continents")

// Assignment records where a faction starts.
type Assignment struct {
	Nation *ruleset.Nation
	Region *Region // nil for minors placed outside every region
	Start  world.Coord
}

// Stats counts what the resource passes placed.
type Stats struct {
	Luxuries   int
	Strategics int
	Bonuses    int
	Minors     int
	Normalized int
}

// Result is the finished layout.
type Result struct {
	Regions           []*Region
	Majors            []Assignment
	Minors            []Assignment
	Archipelago       bool
	CityStateLuxuries []string
	RandomLuxuries    []string
	Stats             Stats
}

// StartOf returns the start of the named nation.
func (r *Result) StartOf(nation string) (world.Coord, bool) {
	for _, list := range [][]Assignment{r.Majors, r.Minors} {
		for _, a := range list {
			if a.Nation.Name == nation {
				return a.Start, true
			}
		}
	}
	return world.Coord{}, false
}

// tileData is the per-tile scratch record, alive for one generation.
type tileData struct {
	food, production, good, junk bool
	twoFromCoast                 bool
	closeStartPenalty            int
	startScore                   int
	fertility                    int
	impacts                      [numImpactTypes]int
}

// generation is the state of one Generate call.
type generation struct {
	m     *world.Map
	rules *ruleset.Ruleset
	opts  ruleset.Options
	rng   *rand.Rand

	tiles       []tileData
	regions     []*Region
	archipelago bool

	luxuryAssignCount map[string]int
	cityStateLuxuries []string
	randomLuxuries    []string

	majors []Assignment
	minors []Assignment
	stats  Stats
}

func newGeneration(m *world.Map, opts ruleset.Options, rng *rand.Rand) *generation {
	g := &generation{
		m:                 m,
		rules:             m.Rules,
		opts:              opts,
		rng:               rng,
		tiles:             make([]tileData, len(m.Tiles)),
		luxuryAssignCount: make(map[string]int),
	}
	g.setupTileData()
	return g
}

// Generate runs the whole start layout pipeline on m. Nations flagged as
// city-states become minors; every other nation gets a region.
func Generate(m *world.Map, nations []*ruleset.Nation, opts ruleset.Options, rng *rand.Rand) (*Result, error) {
	if m.Rules == nil {
		return nil, fmt.Errorf("generate: map has no ruleset")
	}
	var majors, minors []*ruleset.Nation
	for _, n := range nations {
		if n.CityState {
			minors = append(minors, n)
		} else {
			majors = append(majors, n)
		}
	}

	g := newGeneration(m, opts, rng)

	if err := g.generateRegions(len(majors)); err != nil {
		return nil, fmt.Errorf("generate regions: %w", err)
	}
	for _, r := range g.regions {
		g.classify(r)
	}
	for _, r := range g.regions {
		g.findStart(r)
	}
	g.assignNations(majors)
	g.assignLuxuries()

	for _, a := range g.majors {
		g.normalizeStart(g.m.Get(a.Start), false)
	}

	g.placeMinorCivs(minors)
	g.placeLuxuries()
	g.placeStrategicResources()
	g.placeBonusResources()

	slog.Info("start layout generated",
		"regions", len(g.regions),
		"majors", len(g.majors),
		"minors", len(g.minors),
		"archipelago", g.archipelago,
		"luxuries", g.stats.Luxuries,
		"strategics", g.stats.Strategics,
		"bonuses", g.stats.Bonuses,
	)

	return &Result{
		Regions:           g.regions,
		Majors:            g.majors,
		Minors:            g.minors,
		Archipelago:       g.archipelago,
		CityStateLuxuries: g.cityStateLuxuries,
		RandomLuxuries:    g.randomLuxuries,
		Stats:             g.stats,
	}, nil
}

func (g *generation) data(t *world.Tile) *tileData {
	return &g.tiles[g.m.Index(t.Coord)]
}

// setupTileData evaluates start quality flags for every tile.
func (g *generation) setupTileData() {
	for _, t := range g.m.Tiles {
		g.refreshTileData(t)
		g.data(t).twoFromCoast = g.isTwoFromCoast(t)
	}
}

// refreshTileData re-reads quality flags after the tile's terrain changed.
// Feature tags replace base terrain tags when a feature carries any.
func (g *generation) refreshTileData(t *world.Tile) {
	d := g.data(t)
	d.food, d.production, d.good, d.junk = false, false, false, false
	for _, tag := range g.qualityTags(t) {
		switch tag {
		case ruleset.TagFood:
			d.food = true
		case ruleset.TagProduction:
			d.production = true
		case ruleset.TagGood:
			d.good = true
		case ruleset.TagJunk:
			d.junk = true
		}
	}
}

func (g *generation) qualityTags(t *world.Tile) []string {
	var featureTags []string
	for _, f := range t.Features {
		if def := g.rules.Terrain(f); def != nil {
			for _, tag := range def.Tags {
				if isQualityTag(tag) {
					featureTags = append(featureTags, tag)
				}
			}
		}
	}
	if len(featureTags) > 0 {
		return featureTags
	}
	if def := g.rules.Terrain(t.Terrain); def != nil {
		return def.Tags
	}
	return nil
}

func isQualityTag(tag string) bool {
	switch tag {
	case ruleset.TagFood, ruleset.TagProduction, ruleset.TagGood, ruleset.TagJunk:
		return true
	}
	return false
}

// isTwoFromCoast marks land that is not coastal but has salt water exactly
// two tiles away.
func (g *generation) isTwoFromCoast(t *world.Tile) bool {
	if g.m.IsWater(t) || g.m.IsCoastal(t) {
		return false
	}
	for _, n := range g.m.TilesAtDistance(t.Coord, 2) {
		if g.m.IsWater(n) && !g.m.HasTerrainTag(n, ruleset.TagFreshWater) {
			return true
		}
	}
	return false
}
