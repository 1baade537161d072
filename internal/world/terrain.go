package world

import "github.com/talgya/startlayout/internal/ruleset"

// terrainOf returns the ruleset entry for name, or nil.
func (m *Map) terrainOf(name string) *ruleset.Terrain {
	if m.Rules == nil {
		return nil
	}
	return m.Rules.Terrain(name)
}

// IsWater reports whether the tile's base terrain is water.
func (m *Map) IsWater(t *Tile) bool {
	if def := m.terrainOf(t.Terrain); def != nil {
		return def.Type == ruleset.Water
	}
	return t.Continent < 0
}

// IsLand reports whether the tile's base terrain is land.
func (m *Map) IsLand(t *Tile) bool {
	return !m.IsWater(t)
}

// IsImpassable reports whether the base terrain or any feature blocks movement.
func (m *Map) IsImpassable(t *Tile) bool {
	if def := m.terrainOf(t.Terrain); def != nil && def.Impassable {
		return true
	}
	for _, f := range t.Features {
		if def := m.terrainOf(f); def != nil && def.Impassable {
			return true
		}
	}
	return false
}

// HasTerrainTag reports whether the base terrain or any feature carries tag.
func (m *Map) HasTerrainTag(t *Tile, tag string) bool {
	if def := m.terrainOf(t.Terrain); def != nil && def.HasTag(tag) {
		return true
	}
	for _, f := range t.Features {
		if def := m.terrainOf(f); def != nil && def.HasTag(tag) {
			return true
		}
	}
	return false
}

// IsRough reports whether the tile carries rough terrain.
func (m *Map) IsRough(t *Tile) bool {
	if def := m.terrainOf(t.Terrain); def != nil && def.Rough {
		return true
	}
	for _, f := range t.Features {
		if def := m.terrainOf(f); def != nil && def.Rough {
			return true
		}
	}
	return false
}

// IsCoastal reports whether a land tile touches water other than lakes.
func (m *Map) IsCoastal(t *Tile) bool {
	if m.IsWater(t) {
		return false
	}
	for _, n := range m.Neighbors(t.Coord) {
		if m.IsWater(n) && !m.HasTerrainTag(n, ruleset.TagFreshWater) {
			return true
		}
	}
	return false
}

// IsAdjacentToRiver reports whether a river runs along the tile.
func (m *Map) IsAdjacentToRiver(t *Tile) bool {
	return t.River
}

// IsNearRiver reports whether a river runs within two tiles.
func (m *Map) IsNearRiver(t *Tile) bool {
	for _, n := range m.TilesInDistance(t.Coord, 2) {
		if n.River {
			return true
		}
	}
	return false
}

// IsAdjacentToFreshWater reports river access or a fresh water neighbor
// (lake, oasis).
func (m *Map) IsAdjacentToFreshWater(t *Tile) bool {
	if t.River {
		return true
	}
	for _, n := range m.Neighbors(t.Coord) {
		if m.HasTerrainTag(n, ruleset.TagFreshWater) {
			return true
		}
	}
	return false
}

// IsInterior reports whether all six neighbors exist.
func (m *Map) IsInterior(t *Tile) bool {
	return len(m.Neighbors(t.Coord)) == 6
}

// Yields returns the tile's unimproved food, production and gold. Features
// that override yields replace what is beneath them; others add to it.
func (m *Map) Yields(t *Tile) (food, production, gold int) {
	if def := m.terrainOf(t.Terrain); def != nil {
		food, production, gold = def.Food, def.Production, def.Gold
	}
	for _, f := range t.Features {
		def := m.terrainOf(f)
		if def == nil {
			continue
		}
		if def.OverrideYields {
			food, production, gold = def.Food, def.Production, def.Gold
		} else {
			food += def.Food
			production += def.Production
			gold += def.Gold
		}
	}
	if t.Resource != "" && m.Rules != nil {
		if res := m.Rules.Resource(t.Resource); res != nil {
			food += res.Food
			production += res.Production
			gold += res.Gold
		}
	}
	return max(food, 0), max(production, 0), max(gold, 0)
}

// ImprovedProduction is the extra production the best improvement on the
// tile would add.
func (m *Map) ImprovedProduction(t *Tile) int {
	best := 0
	if def := m.terrainOf(t.Terrain); def != nil {
		best = def.ImprovedProduction
	}
	for _, f := range t.Features {
		if def := m.terrainOf(f); def != nil {
			best = max(best, def.ImprovedProduction)
		}
	}
	return best
}

// TileEnv builds the environment resource conditions are evaluated against.
func (m *Map) TileEnv(t *Tile) ruleset.TileEnv {
	return ruleset.TileEnv{
		Terrain:     t.Terrain,
		Features:    t.Features,
		Elevation:   t.Elevation,
		Rainfall:    t.Rainfall,
		Temperature: t.Temperature,
		Coastal:     m.IsCoastal(t),
		River:       t.River,
	}
}

// TerrainCounts returns a summary of base terrain distribution.
func TerrainCounts(m *Map) map[string]int {
	counts := make(map[string]int)
	for _, t := range m.Tiles {
		counts[t.Terrain]++
	}
	return counts
}
