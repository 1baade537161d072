package regions

import (
	"log/slog"
	"slices"

	"github.com/talgya/startlayout/internal/entropy"
	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

// normalizeStart patches the surroundings of a start so it meets a minimum
// bar for production and food.
func (g *generation) normalizeStart(start *world.Tile, minor bool) {
	if start == nil {
		return
	}
	g.clearImpassableFeatures(start)
	if !minor && g.opts.StrategicBalance {
		g.balanceStrategics(start)
	}
	g.normalizeProduction(start, minor)
	g.normalizeFood(start, minor)
	if !minor {
		g.balanceGrass(start)
	}
	g.stats.Normalized++
}

// ringTiles returns the tiles from ring first to ring last around c.
func (g *generation) ringTiles(c world.Coord, first, last int) []*world.Tile {
	var out []*world.Tile
	for ring := first; ring <= last; ring++ {
		out = append(out, g.m.TilesAtDistance(c, ring)...)
	}
	return out
}

func (g *generation) clearImpassableFeatures(start *world.Tile) {
	for _, t := range g.m.Neighbors(start.Coord) {
		changed := false
		for _, f := range slices.Clone(t.Features) {
			if def := g.rules.Terrain(f); def != nil && def.Impassable {
				t.RemoveFeature(f)
				changed = true
			}
		}
		if changed {
			g.refreshTileData(t)
		}
	}
}

// balanceStrategics guarantees each balance resource within three tiles of
// a major start, forcing it onto any open land tile if no legal one exists.
func (g *generation) balanceStrategics(start *world.Tile) {
	near := g.ringTiles(start.Coord, 1, 3)
	for _, res := range g.rules.ResourcesOfType(ruleset.Strategic) {
		if !res.HasTag(ruleset.TagStrategicBalance) {
			continue
		}
		if slices.ContainsFunc(near, func(t *world.Tile) bool { return t.Resource == res.Name }) {
			continue
		}
		amount := max(res.MajorDepositAmount, 1)
		pool := slices.Clone(near)
		entropy.Shuffle(g.rng, pool)

		var target *world.Tile
		for _, t := range pool {
			if g.canPlace(res, t) {
				target = t
				break
			}
		}
		if target == nil {
			for _, t := range pool {
				if t.Resource == "" && g.m.IsLand(t) && !g.m.IsImpassable(t) && !g.isStartTile(t.Coord) {
					target = t
					break
				}
			}
		}
		if target == nil {
			slog.Debug("no room for balance resource", "resource", res.Name, "start", start.Coord)
			continue
		}
		g.setResource(target, res, amount)
		g.placeImpact(ImpactStrategic, target.Coord, strategicBaseImpact)
	}
}

// production sums potential production (native plus best improvement) of
// land tiles and the native production of those already yielding food.
func (g *generation) production(tiles []*world.Tile) (potential, early int) {
	for _, t := range tiles {
		if g.m.IsWater(t) || g.m.IsImpassable(t) {
			continue
		}
		food, prod, _ := g.m.Yields(t)
		potential += prod + g.m.ImprovedProduction(t)
		if food > 0 {
			early += prod
		}
	}
	return potential, early
}

func (g *generation) normalizeProduction(start *world.Tile, minor bool) {
	inner := g.m.TilesAtDistance(start.Coord, 1)
	outer := g.m.TilesAtDistance(start.Coord, 2)

	innerLow, earlyLow := majorInnerProductionLow, majorEarlyProductionLow
	if minor {
		innerLow, earlyLow = minorInnerProductionLow, minorEarlyProductionLow
	}

	innerProd, innerEarly := g.production(inner)
	outerProd, outerEarly := g.production(outer)
	if innerProd == 0 || (innerProd < innerLow && outerProd < outerProductionLow) {
		if g.addHill(inner) {
			_, innerEarly = g.production(inner)
		}
	}

	if innerEarly+outerEarly >= earlyLow {
		return
	}
	g.addEarlyStrategic(append(slices.Clone(inner), outer...))
}

// addHill raises one flat, dry neighbor into a hill.
func (g *generation) addHill(tiles []*world.Tile) bool {
	var hill *ruleset.Terrain
	for _, t := range g.rules.TerrainsWithTag(ruleset.TagHillEquivalent) {
		if t.Type == ruleset.Feature {
			hill = t
			break
		}
	}
	if hill == nil {
		return false
	}
	var flat []*world.Tile
	for _, t := range tiles {
		if g.isFlat(t) && t.Resource == "" && !g.m.IsAdjacentToFreshWater(t) &&
			(len(hill.OccursOn) == 0 || slices.Contains(hill.OccursOn, t.Terrain)) {
			flat = append(flat, t)
		}
	}
	if len(flat) == 0 {
		return false
	}
	t := flat[g.rng.Intn(len(flat))]
	t.AddFeature(hill.Name)
	g.refreshTileData(t)
	return true
}

// addEarlyStrategic drops one small deposit of a strategic resource already
// known in the starting era.
func (g *generation) addEarlyStrategic(tiles []*world.Tile) {
	era := max(g.rules.EraIndex(g.opts.StartingEra), 0)
	var early []*ruleset.Resource
	for _, res := range g.rules.ResourcesOfType(ruleset.Strategic) {
		if max(g.rules.EraIndex(res.Era), 0) <= era {
			early = append(early, res)
		}
	}
	if len(early) == 0 {
		return
	}
	amount := func(res *ruleset.Resource) int { return max(res.MinorDepositAmount, 1) }
	pool := slices.Clone(tiles)
	entropy.Shuffle(g.rng, pool)
	choose := g.anyOf(early, (*ruleset.Resource).DepositChoiceWeight, amount)
	for _, t := range pool {
		if res, n := choose(t); res != nil {
			g.setResource(t, res, n)
			return
		}
	}
}

// foodScore weighs rings 1-2 by food squared over four, plus the count of
// tiles yielding two food on their own.
func (g *generation) foodScore(tiles []*world.Tile) (score, nativeTwo int) {
	squares := 0
	for _, t := range tiles {
		food, _, _ := g.m.Yields(t)
		squares += food * food
		if t.Resource == "" && food >= 2 && g.m.IsLand(t) {
			nativeTwo++
		}
	}
	return squares/4 + nativeTwo, nativeTwo
}

type foodCandidate struct {
	tile *world.Tile
	ring int
}

func (g *generation) normalizeFood(start *world.Tile, minor bool) {
	inner := g.m.TilesAtDistance(start.Coord, 1)
	outer := g.m.TilesAtDistance(start.Coord, 2)
	score, nativeTwo := g.foodScore(append(slices.Clone(inner), outer...))

	needed := foodBonusesNeeded(score, minor)
	if g.opts.LegendaryStart {
		needed += legendaryFoodBonus
	}
	if needed > 0 && nativeTwo == 0 && needed <= lowFoodRequirement {
		if !g.convertToFoodTerrain(inner) {
			needed = escalatedFoodBonuses
		}
	}
	if needed == 0 {
		return
	}

	queue := make([]foodCandidate, 0, len(inner)+len(outer))
	for _, t := range shuffled(g, inner) {
		queue = append(queue, foodCandidate{t, 1})
	}
	for _, t := range shuffled(g, outer) {
		queue = append(queue, foodCandidate{t, 2})
	}

	var foods []*ruleset.Resource
	for _, res := range g.rules.ResourcesOfType(ruleset.Bonus) {
		if res.Food > 0 {
			foods = append(foods, res)
		}
	}
	choose := g.anyOf(foods, one, one)

	placed, innerPlaced, outerPlaced := 0, 0, 0
	oasis := false
	for i := 0; i < len(queue) && placed < needed; i++ {
		c := queue[i]
		if res, n := choose(c.tile); res != nil {
			g.setResource(c.tile, res, n)
		} else if !oasis && g.addRareFeature(c.tile) {
			oasis = true
		} else {
			continue
		}
		placed++
		rest := queue[i+1:]
		switch {
		case c.ring == 1:
			innerPlaced++
			if innerPlaced == 2 {
				// Move on to the second ring before crowding the first.
				slices.SortStableFunc(rest, func(a, b foodCandidate) int { return b.ring - a.ring })
			}
		default:
			outerPlaced++
			if outerPlaced == 3 {
				entropy.Shuffle(g.rng, rest)
			}
		}
	}
	if placed < needed {
		slog.Debug("start short of food bonuses", "start", start.Coord, "needed", needed, "placed", placed)
	}
}

func shuffled(g *generation, tiles []*world.Tile) []*world.Tile {
	out := slices.Clone(tiles)
	entropy.Shuffle(g.rng, out)
	return out
}

// convertToFoodTerrain turns one featureless neighbor whose terrain
// converts (plains) into its richer terrain.
func (g *generation) convertToFoodTerrain(tiles []*world.Tile) bool {
	for _, t := range shuffled(g, tiles) {
		def := g.rules.Terrain(t.Terrain)
		if def == nil || def.ConvertsTo == "" || len(t.Features) > 0 || t.Resource != "" {
			continue
		}
		t.Terrain = def.ConvertsTo
		g.refreshTileData(t)
		return true
	}
	return false
}

// addRareFeature puts the rare fresh water feature on t if it can occur there.
func (g *generation) addRareFeature(t *world.Tile) bool {
	if t.Resource != "" || len(t.Features) > 0 || g.m.IsWater(t) || g.isStartTile(t.Coord) {
		return false
	}
	for _, def := range g.rules.TerrainsWithTag(ruleset.TagRareFeature) {
		if def.Type == ruleset.Feature && slices.Contains(def.OccursOn, t.Terrain) {
			t.AddFeature(def.Name)
			g.refreshTileData(t)
			return true
		}
	}
	return false
}

// balanceGrass adds production bonuses around a major start that sits on
// grass with almost nothing to build with.
func (g *generation) balanceGrass(start *world.Tile) {
	var dead []*world.Tile
	alternatives := 0
	for _, t := range g.ringTiles(start.Coord, 1, 2) {
		if g.m.IsWater(t) || g.m.IsImpassable(t) {
			continue
		}
		_, prod, _ := g.m.Yields(t)
		switch {
		case prod > 0:
			alternatives++
		case len(t.Features) == 0 && g.m.ImprovedProduction(t) == 0:
			dead = append(dead, t)
		}
	}

	want := 0
	switch {
	case len(dead) >= grassHeavy && alternatives == 0:
		want = 2
	case len(dead) >= grassModerate && alternatives <= plainsSparse:
		want = 1
	}
	if want == 0 {
		return
	}

	var prods []*ruleset.Resource
	for _, res := range g.rules.ResourcesOfType(ruleset.Bonus) {
		if res.Production > 0 && res.Food == 0 {
			prods = append(prods, res)
		}
	}
	choose := g.anyOf(prods, one, one)
	for _, t := range shuffled(g, dead) {
		if want == 0 {
			return
		}
		if res, n := choose(t); res != nil {
			g.setResource(t, res, n)
			want--
		}
	}
}
