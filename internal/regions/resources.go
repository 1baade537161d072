package regions

import (
	"log/slog"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// placeStrategicResources lays major deposits terrain by terrain, sprinkles
// minor deposits over all land, tops every resource up to a minimum and
// gives each city-state a small modern deposit.
func (g *generation) placeStrategicResources() {
	strategics := g.rules.ResourcesOfType(ruleset.Strategic)
	if len(strategics) == 0 {
		return
	}
	major := func(res *ruleset.Resource) int { return max(res.MajorDepositAmount, 1) }
	minor := func(res *ruleset.Resource) int { return max(res.MinorDepositAmount, 1) }
	weight := (*ruleset.Resource).DepositChoiceWeight

	byTerrain := make(map[string][]*world.Tile)
	for _, t := range g.m.Tiles {
		top := t.LastTerrain()
		byTerrain[top] = append(byTerrain[top], t)
	}
	for _, def := range g.rules.Terrains {
		tiles := byTerrain[def.Name]
		var eligible []*ruleset.Resource
		for _, res := range strategics {
			if res.FoundOn(def.Name) {
				eligible = append(eligible, res)
			}
		}
		if len(tiles) == 0 || len(eligible) == 0 {
			continue
		}
		freq := def.MajorDepositFrequency
		if freq <= 0 {
			freq = defaultMajorDepositFrequency
		}
		g.placeStrategic(tiles, len(tiles)/freq, g.anyOf(eligible, weight, major))
	}

	land := g.landTiles()
	g.placeStrategic(land, len(land)/minorDepositFrequency, g.anyOf(strategics, weight, minor))

	counts := make(map[string]int)
	for _, t := range g.m.Tiles {
		if t.Resource != "" {
			counts[t.Resource]++
		}
	}
	floor := min(minStrategicDepositsPerRes, len(g.regions))
	for _, res := range strategics {
		if missing := floor - counts[res.Name]; missing > 0 {
			placed := g.placeStrategic(g.m.Tiles, missing, g.only(res, minor(res)))
			if placed < missing {
				slog.Debug("strategic short of minimum", "resource", res.Name, "placed", counts[res.Name]+placed)
			}
		}
	}

	var modern []*ruleset.Resource
	for _, res := range strategics {
		if res.Era == modernEra {
			modern = append(modern, res)
		}
	}
	if len(modern) == 0 {
		return
	}
	for _, a := range g.minors {
		g.placeStrategic(g.ringTiles(a.Start, 1, 3), 1, g.anyOf(modern, weight, minor))
	}
}

func (g *generation) placeStrategic(tiles []*world.Tile, want int, choose chooser) int {
	return g.placeResources(tiles, want, ImpactStrategic, strategicBaseImpact, strategicRandomImpact, choose)
}

func (g *generation) placeBonus(tiles []*world.Tile, want int, choose chooser) int {
	return g.placeResources(tiles, want, ImpactBonus, bonusBaseImpact, bonusRandomImpact, choose)
}

// placeBonusResources sprinkles each bonus by its frequency, then adds an
// extra one in the third ring of every major start.
func (g *generation) placeBonusResources() {
	g.sprinkleBonuses()
	g.placeStartExtras()
}

func (g *generation) sprinkleBonuses() {
	for _, res := range g.rules.ResourcesOfType(ruleset.Bonus) {
		var eligible []*world.Tile
		for _, t := range g.m.Tiles {
			if g.canPlace(res, t) {
				eligible = append(eligible, t)
			}
		}
		freq := res.Frequency
		if freq <= 0 {
			freq = defaultBonusFrequency
		}
		g.placeBonus(eligible, len(eligible)/freq, g.only(res, 1))
	}
}

// placeStartExtras puts the region's own extra resource twice in ring 3 of
// each major start, or else one random land bonus, or else fish.
func (g *generation) placeStartExtras() {
	bonuses := g.rules.ResourcesOfType(ruleset.Bonus)
	var fish []*ruleset.Resource
	for _, res := range bonuses {
		if res.HasTag(ruleset.TagFish) {
			fish = append(fish, res)
		}
	}
	for _, a := range g.majors {
		ring := g.m.TilesAtDistance(a.Start, 3)
		if res := g.extraResource(a.Region); res != nil {
			g.placeBonus(ring, extraResourceOverrideCount, g.only(res, 1))
			continue
		}
		var land []*world.Tile
		for _, t := range ring {
			if g.m.IsLand(t) {
				land = append(land, t)
			}
		}
		if g.placeBonus(land, 1, g.anyOf(bonuses, one, one)) == 0 {
			g.placeBonus(ring, 1, g.anyOf(fish, one, one))
		}
	}
}

// extraResource returns the bonus the region's type names for itself.
func (g *generation) extraResource(r *Region) *ruleset.Resource {
	if r == nil {
		return nil
	}
	def := g.rules.Terrain(r.Type)
	if def == nil || def.RegionExtraResource == "" {
		return nil
	}
	return g.rules.Resource(def.RegionExtraResource)
}
