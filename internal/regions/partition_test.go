package regions

import (
	"testing"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

func TestDivideUniformFertility(t *testing.T) {
	m := newTestMap(t, 20, 10, uniform(ruleset.Grassland))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	if err := g.generateRegions(4); err != nil {
		t.Fatalf("generateRegions: %v", err)
	}
	if len(g.regions) != 4 {
		t.Fatalf("got %d regions, want 4", len(g.regions))
	}
	total := 0
	for _, d := range g.tiles {
		total += d.fertility
	}
	want := total / 4
	column := 10 * g.tiles[0].fertility
	for _, r := range g.regions {
		if diff := abs(r.TotalFertility - want); diff > column {
			t.Errorf("%s: fertility off by %d, more than one line (%d)", r, diff, column)
		}
	}
}

func TestRegionsPartitionLand(t *testing.T) {
	// Two 10x10 continents split by a water column.
	m := newTestMap(t, 21, 10, func(x, _ int) (string, []string) {
		if x == 10 {
			return ruleset.Ocean, nil
		}
		return ruleset.Plains, nil
	})
	g := newTestGeneration(m, ruleset.DefaultOptions())
	if err := g.generateRegions(5); err != nil {
		t.Fatalf("generateRegions: %v", err)
	}
	if len(g.regions) != 5 {
		t.Fatalf("got %d regions, want 5", len(g.regions))
	}
	owner := make(map[world.Coord]int)
	for i, r := range g.regions {
		for _, tile := range r.Tiles() {
			if j, ok := owner[tile.Coord]; ok {
				t.Errorf("tile %v in regions %d and %d", tile.Coord, j, i)
			}
			owner[tile.Coord] = i
			if tile.Continent != r.Continent {
				t.Errorf("tile %v of continent %d in region of continent %d", tile.Coord, tile.Continent, r.Continent)
			}
		}
	}
	for _, tile := range m.Tiles {
		_, owned := owner[tile.Coord]
		if m.IsLand(tile) && !owned {
			t.Errorf("land tile %v in no region", tile.Coord)
		}
		if m.IsWater(tile) && owned {
			t.Errorf("water tile %v in a region", tile.Coord)
		}
	}
}

func TestContinentRectAcrossSeam(t *testing.T) {
	m := world.NewMap(20, 6, true, ruleset.Default())
	for _, tile := range m.Tiles {
		if x := tile.Coord.X; x >= 17 || x <= 2 {
			tile.Terrain = ruleset.Grassland
		}
	}
	if n := world.AssignContinents(m); n != 1 {
		t.Fatalf("AssignContinents = %d, want 1 across the seam", n)
	}
	opts := ruleset.DefaultOptions()
	opts.WorldWrap = true
	g := newTestGeneration(m, opts)

	got := g.continentRect(0)
	want := Rect{X: 17, Y: 0, Width: 6, Height: 6}
	if got != want {
		t.Fatalf("continentRect = %+v, want %+v", got, want)
	}

	if err := g.generateRegions(2); err != nil {
		t.Fatalf("generateRegions: %v", err)
	}
	if len(g.regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(g.regions))
	}
	if g.regions[0].Rect.X != 17 || g.regions[1].Rect.X != 0 {
		t.Errorf("regions start at columns %d and %d, want 17 and 0", g.regions[0].Rect.X, g.regions[1].Rect.X)
	}
	for _, r := range g.regions {
		if r.LandTiles() != 18 {
			t.Errorf("%s has %d land tiles, want 18", r, r.LandTiles())
		}
	}
}

func TestArchipelagoMode(t *testing.T) {
	m := newTestMap(t, 30, 12, func(x, y int) (string, []string) {
		if y >= 4 && y <= 5 && x%6 >= 2 && x%6 <= 3 {
			return ruleset.Grassland, nil
		}
		return ruleset.Ocean, nil
	})
	g := newTestGeneration(m, ruleset.DefaultOptions())
	if err := g.generateRegions(2); err != nil {
		t.Fatalf("generateRegions: %v", err)
	}
	if !g.archipelago {
		t.Fatal("five equal islands should trigger archipelago mode")
	}
	for _, r := range g.regions {
		if r.Continent != -1 {
			t.Errorf("%s: archipelago regions span every continent", r)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		paint func(i int) (string, []string)
		want  string
	}{
		{"desert", func(i int) (string, []string) {
			if i < 10 {
				return ruleset.Desert, nil
			}
			return ruleset.Grassland, nil
		}, ruleset.Desert},
		{"grass and plains cancel out", func(i int) (string, []string) {
			if i < 10 {
				return ruleset.Plains, nil
			}
			return ruleset.Grassland, nil
		}, ruleset.HybridRegion},
		{"tundra counts snow", func(i int) (string, []string) {
			switch {
			case i < 4:
				return ruleset.Tundra, nil
			case i < 8:
				return ruleset.Snow, nil
			}
			return ruleset.Grassland, nil
		}, ruleset.Tundra},
		{"hills hide their base", func(i int) (string, []string) {
			if i < 8 {
				return ruleset.Grassland, []string{ruleset.Hill}
			}
			return ruleset.Plains, nil
		}, ruleset.Hill},
		{"grassland", func(i int) (string, []string) {
			if i < 6 {
				return ruleset.Plains, nil
			}
			return ruleset.Grassland, nil
		}, ruleset.Grassland},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestMap(t, 10, 2, func(x, y int) (string, []string) {
				return tc.paint(y*10 + x)
			})
			g := newTestGeneration(m, ruleset.DefaultOptions())
			r := g.newRegion(Rect{Width: 10, Height: 2}, 0)
			g.classify(r)
			if r.Type != tc.want {
				t.Errorf("Type = %s, want %s (counts %v)", r.Type, tc.want, r.TerrainCounts)
			}
		})
	}
}
