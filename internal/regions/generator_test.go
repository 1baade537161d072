package regions

import (
	"errors"
	"testing"

	"github.com/talgya/startlayout/internal/entropy"
	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

type painter func(x, y int) (string, []string)

// newTestMap paints a w by h unwrapped map and labels its continents.
func newTestMap(t *testing.T, w, h int, paint painter) *world.Map {
	t.Helper()
	m := world.NewMap(w, h, false, ruleset.Default())
	for _, tile := range m.Tiles {
		tile.Terrain, tile.Features = paint(tile.Coord.X, tile.Coord.Y)
	}
	world.AssignContinents(m)
	return m
}

func newTestGeneration(m *world.Map, opts ruleset.Options) *generation {
	return newGeneration(m, opts, entropy.New(1))
}

func uniform(terrain string, features ...string) painter {
	return func(int, int) (string, []string) {
		return terrain, features
	}
}

// varied paints bands of every common terrain inside a coast border.
func varied(w, h int) painter {
	return func(x, y int) (string, []string) {
		if x == 0 || y == 0 || x == w-1 || y == h-1 {
			return ruleset.Coast, nil
		}
		switch (x/3 + y/2) % 6 {
		case 0:
			return ruleset.Grassland, nil
		case 1:
			return ruleset.Plains, nil
		case 2:
			return ruleset.Grassland, []string{ruleset.Forest}
		case 3:
			return ruleset.Plains, []string{ruleset.Hill}
		case 4:
			return ruleset.Desert, nil
		default:
			return ruleset.Tundra, nil
		}
	}
}

func TestGenerateNoLand(t *testing.T) {
	m := newTestMap(t, 10, 10, uniform(ruleset.Ocean))
	_, err := Generate(m, ruleset.Default().Majors(2), ruleset.DefaultOptions(), entropy.New(1))
	if !errors.Is(err, ErrNoLandContinents) {
		t.Fatalf("Generate on an ocean map: err = %v, want ErrNoLandContinents", err)
	}
}

// Four factions without bias on four regions get four distinct starts, and
// with the cap at one no luxury repeats.
func TestGenerateRandomBiasScenario(t *testing.T) {
	m := newTestMap(t, 40, 20, varied(40, 20))
	nations := []*ruleset.Nation{{Name: "A"}, {Name: "B"}, {Name: "C"}, {Name: "D"}}
	res, err := Generate(m, nations, ruleset.DefaultOptions(), entropy.New(3))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Regions) != 4 || len(res.Majors) != 4 {
		t.Fatalf("got %d regions and %d majors, want 4 and 4", len(res.Regions), len(res.Majors))
	}
	seen := make(map[world.Coord]string)
	for _, a := range res.Majors {
		if other, ok := seen[a.Start]; ok {
			t.Errorf("%s and %s share start %v", a.Nation.Name, other, a.Start)
		}
		seen[a.Start] = a.Nation.Name
	}
	luxuries := make(map[string]int)
	for _, r := range res.Regions {
		if r.Luxury != "" {
			luxuries[r.Luxury]++
		}
	}
	for name, n := range luxuries {
		if n > 1 {
			t.Errorf("luxury %s assigned to %d regions, cap is 1", name, n)
		}
	}
	if len(m.Starts) != 4 {
		t.Errorf("registered %d starts, want 4", len(m.Starts))
	}
}

func TestGenerateFullPipeline(t *testing.T) {
	rules := ruleset.Default()
	m := world.Generate(world.SmallTestConfig(), rules)
	nations := append(rules.Majors(4), rules.CityStates(4)...)
	opts := ruleset.DefaultOptions()
	opts.StrategicBalance = true

	res, err := Generate(m, nations, opts, entropy.New(7))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(res.Majors) != 4 {
		t.Fatalf("placed %d majors, want 4", len(res.Majors))
	}
	if len(res.Minors) > 4 {
		t.Errorf("placed %d minors, only 4 requested", len(res.Minors))
	}
	if got := len(m.Starts); got != len(res.Majors)+len(res.Minors) {
		t.Errorf("registered %d starts, want %d", got, len(res.Majors)+len(res.Minors))
	}
	seen := make(map[world.Coord]bool)
	for _, s := range m.Starts {
		if seen[s.Coord] {
			t.Errorf("start %v used twice", s.Coord)
		}
		seen[s.Coord] = true
	}
	for _, a := range res.Majors {
		tile := m.Get(a.Start)
		if !m.IsLand(tile) || m.IsImpassable(tile) {
			t.Errorf("%s starts on %s", a.Nation.Name, tile.Terrain)
		}
		if got, ok := res.StartOf(a.Nation.Name); !ok || got != a.Start {
			t.Errorf("StartOf(%s) = %v, %v", a.Nation.Name, got, ok)
		}
	}
	if res.Stats.Normalized < len(res.Majors) {
		t.Errorf("normalized %d starts, want at least %d", res.Stats.Normalized, len(res.Majors))
	}
}

func TestConstantTables(t *testing.T) {
	ratios := []struct {
		ratio float64
		want  int
	}{
		{0.5, 0}, {1.35, 0}, {1.5, 1}, {3, 2}, {5, 3}, {6, 4}, {9, 6}, {12, 8}, {20, maxMinorsPerRegion},
	}
	for _, tc := range ratios {
		if got := minorCivsPerRegion(tc.ratio); got != tc.want {
			t.Errorf("minorCivsPerRegion(%v) = %d, want %d", tc.ratio, got, tc.want)
		}
	}

	caps := map[int]int{1: 1, 8: 1, 9: 2, 12: 2, 13: 3, 20: 3}
	for regions, want := range caps {
		if got := luxuryCap(regions); got != want {
			t.Errorf("luxuryCap(%d) = %d, want %d", regions, got, want)
		}
	}

	keep := map[int]int{800: 50, 2000: 75, 5000: 90}
	for tiles, want := range keep {
		if got := randomLuxuryKeepPercent(tiles); got != want {
			t.Errorf("randomLuxuryKeepPercent(%d) = %d, want %d", tiles, got, want)
		}
	}

	food := []struct {
		score int
		minor bool
		want  int
	}{
		{0, false, 5}, {12, false, 4}, {18, false, 3}, {25, false, 2}, {31, false, 1}, {40, false, 0},
		{0, true, 3}, {10, true, 2}, {19, true, 1}, {25, true, 0},
	}
	for _, tc := range food {
		if got := foodBonusesNeeded(tc.score, tc.minor); got != tc.want {
			t.Errorf("foodBonusesNeeded(%d, %v) = %d, want %d", tc.score, tc.minor, got, tc.want)
		}
	}
}
