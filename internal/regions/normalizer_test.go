package regions

import (
	"testing"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

func countResources(m *world.Map, tiles []*world.Tile, match func(*ruleset.Resource) bool) int {
	n := 0
	for _, tile := range tiles {
		if res := m.Rules.Resource(tile.Resource); res != nil && match(res) {
			n++
		}
	}
	return n
}

func TestNormalizeFoodOnPlains(t *testing.T) {
	// On bare plains the needed count is 5: the first two bonuses go to
	// ring 1, the next three to ring 2, and anything past that anywhere.
	tests := []struct {
		name      string
		legendary bool
		want      int
		minOuter  int
	}{
		{"standard", false, 5, 3},
		{"legendary start", true, 5 + legendaryFoodBonus, 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMap(t, 15, 15, uniform(ruleset.Plains))
			opts := ruleset.DefaultOptions()
			opts.LegendaryStart = tc.legendary
			g := newTestGeneration(m, opts)
			start := world.Coord{X: 7, Y: 7}
			g.normalizeStart(m.Get(start), false)

			isWheat := func(r *ruleset.Resource) bool { return r.Name == "Wheat" }
			inner := countResources(m, m.TilesAtDistance(start, 1), isWheat)
			outer := countResources(m, m.TilesAtDistance(start, 2), isWheat)
			if inner+outer != tc.want {
				t.Errorf("placed %d Wheat, want %d", inner+outer, tc.want)
			}
			if !tc.legendary && (inner != 2 || outer != 3) {
				t.Errorf("ring 1 has %d Wheat and ring 2 has %d, want 2 and 3", inner, outer)
			}
			if inner < 2 || outer < tc.minOuter {
				t.Errorf("ring 1 has %d Wheat and ring 2 has %d, want at least 2 and %d", inner, outer, tc.minOuter)
			}
			if m.Get(start).Resource != "" {
				t.Error("resource placed on the start itself")
			}
			if g.stats.Normalized != 1 {
				t.Errorf("Normalized = %d, want 1", g.stats.Normalized)
			}
		})
	}
}

// paintRings repaints the given rings around c. Unlisted tiles keep their
// terrain.
func paintRings(m *world.Map, c world.Coord, rings map[int]func(*world.Tile)) {
	for ring, paint := range rings {
		for _, tile := range m.TilesAtDistance(c, ring) {
			paint(tile)
		}
	}
	world.AssignContinents(m)
}

func paintAs(terrain string, features ...string) func(*world.Tile) {
	return func(tile *world.Tile) {
		tile.Terrain = terrain
		tile.Features = append([]string(nil), features...)
	}
}

func TestNormalizeFoodLadder(t *testing.T) {
	// Plains in ring 1 and lakes in ring 2 score 13 for a minor: two bonuses
	// are needed and no land tile yields two food on its own.
	tests := []struct {
		name       string
		ring1      func(*world.Tile)
		grassland  int // ring 1 tiles turned into grassland
		foodBonus  int // food bonuses placed in rings 1-2
		ring1Bonus int
	}{
		{"plains convert to grassland", paintAs(ruleset.Plains), 1, 2, 2},
		{"forest blocks conversion and raises the count", paintAs(ruleset.Plains, ruleset.Forest), 0, escalatedFoodBonuses, escalatedFoodBonuses},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMap(t, 15, 15, uniform(ruleset.Plains))
			start := world.Coord{X: 7, Y: 7}
			paintRings(m, start, map[int]func(*world.Tile){
				1: tc.ring1,
				2: paintAs(ruleset.Lakes),
			})
			g := newTestGeneration(m, ruleset.DefaultOptions())

			inner := m.TilesAtDistance(start, 1)
			if score, nativeTwo := g.foodScore(append(inner, m.TilesAtDistance(start, 2)...)); score != 13 || nativeTwo != 0 {
				t.Fatalf("food score = %d (native two-food %d), want 13 and 0", score, nativeTwo)
			}

			g.normalizeFood(m.Get(start), true)

			grass := 0
			for _, tile := range inner {
				if tile.Terrain == ruleset.Grassland {
					grass++
				}
			}
			if grass != tc.grassland {
				t.Errorf("%d ring 1 tiles became grassland, want %d", grass, tc.grassland)
			}
			isFood := func(r *ruleset.Resource) bool { return r.Type == ruleset.Bonus && r.Food > 0 }
			if n := countResources(m, m.TilesInDistance(start, 2), isFood); n != tc.foodBonus {
				t.Errorf("placed %d food bonuses, want %d", n, tc.foodBonus)
			}
			if n := countResources(m, inner, isFood); n != tc.ring1Bonus {
				t.Errorf("placed %d food bonuses in ring 1, want %d", n, tc.ring1Bonus)
			}
		})
	}
}

func TestNormalizeFoodAddsOneOasis(t *testing.T) {
	// No food bonus fits desert, so the oasis is the only thing placed, once.
	m := newTestMap(t, 15, 15, uniform(ruleset.Desert))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	start := world.Coord{X: 7, Y: 7}
	g.normalizeFood(m.Get(start), false)

	oases := 0
	for _, tile := range m.TilesInDistance(start, 2) {
		if tile.HasFeature(ruleset.Oasis) {
			oases++
		}
		if tile.Resource != "" {
			t.Errorf("%s placed at %v", tile.Resource, tile.Coord)
		}
	}
	if oases != 1 {
		t.Errorf("added %d oases, want 1", oases)
	}
	if m.Get(start).HasFeature(ruleset.Oasis) {
		t.Error("oasis placed on the start itself")
	}
}

func TestNormalizeProductionOnGrass(t *testing.T) {
	m := newTestMap(t, 15, 15, uniform(ruleset.Grassland))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	start := world.Coord{X: 7, Y: 7}
	g.normalizeStart(m.Get(start), false)

	hills := 0
	for _, tile := range m.TilesAtDistance(start, 1) {
		if tile.HasFeature(ruleset.Hill) {
			hills++
		}
	}
	if hills != 1 {
		t.Errorf("raised %d hills next to the start, want 1", hills)
	}

	near := m.TilesInDistance(start, 2)
	strategic := countResources(m, near, func(r *ruleset.Resource) bool { return r.Type == ruleset.Strategic })
	if strategic != 1 {
		t.Errorf("placed %d early strategics, want 1", strategic)
	}
	stone := countResources(m, near, func(r *ruleset.Resource) bool { return r.Name == "Stone" })
	if stone != 1 {
		t.Errorf("placed %d Stone on the grass, want 1", stone)
	}
}

func TestNormalizeMinorSkipsGrassBalance(t *testing.T) {
	m := newTestMap(t, 15, 15, uniform(ruleset.Grassland))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	start := world.Coord{X: 7, Y: 7}
	g.normalizeStart(m.Get(start), true)

	near := m.TilesInDistance(start, 2)
	if n := countResources(m, near, func(r *ruleset.Resource) bool { return r.Name == "Stone" }); n != 0 {
		t.Errorf("minor start got %d Stone, want 0", n)
	}
}

func TestNormalizeStrategicBalance(t *testing.T) {
	m := newTestMap(t, 15, 15, uniform(ruleset.Grassland))
	opts := ruleset.DefaultOptions()
	opts.StrategicBalance = true
	g := newTestGeneration(m, opts)
	start := world.Coord{X: 7, Y: 7}
	g.normalizeStart(m.Get(start), false)

	near := m.TilesInDistance(start, 3)
	for _, res := range m.Rules.ResourcesOfType(ruleset.Strategic) {
		if !res.HasTag(ruleset.TagStrategicBalance) {
			continue
		}
		if n := countResources(m, near, func(r *ruleset.Resource) bool { return r == res }); n == 0 {
			t.Errorf("%s missing within three tiles", res.Name)
		}
	}
}

func TestNormalizeClearsIce(t *testing.T) {
	m := newTestMap(t, 10, 10, func(x, _ int) (string, []string) {
		if x == 5 {
			return ruleset.Coast, []string{ruleset.Ice}
		}
		return ruleset.Grassland, nil
	})
	g := newTestGeneration(m, ruleset.DefaultOptions())
	start := world.Coord{X: 4, Y: 4}
	g.normalizeStart(m.Get(start), false)
	for _, tile := range m.Neighbors(start) {
		if tile.HasFeature(ruleset.Ice) {
			t.Errorf("ice left at %v", tile.Coord)
		}
	}
}
