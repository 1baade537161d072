package ruleset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultPrepares(t *testing.T) {
	rs := Default()
	if rs.Terrain(Grassland) == nil {
		t.Fatal("default ruleset missing Grassland")
	}
	if rs.Resource("Horses") == nil {
		t.Fatal("default ruleset missing Horses")
	}
	if got := rs.FirstLandTerrain().Name; got != Grassland {
		t.Errorf("FirstLandTerrain() = %s, want %s", got, Grassland)
	}
}

func TestRegionRulesSortedByPriority(t *testing.T) {
	rules := Default().RegionRules()
	if len(rules) == 0 {
		t.Fatal("no region rules")
	}
	for i := 1; i < len(rules); i++ {
		if rules[i].Region.Priority < rules[i-1].Region.Priority {
			t.Errorf("region rules not sorted: %s (%d) before %s (%d)",
				rules[i-1].Name, rules[i-1].Region.Priority, rules[i].Name, rules[i].Region.Priority)
		}
	}
	rs := Default()
	if rs.RegionPriority(Tundra) >= rs.RegionPriority(Grassland) {
		t.Error("Tundra should be less developed than Grassland")
	}
	if rs.RegionPriority(HybridRegion) != len(rules) {
		t.Errorf("Hybrid priority = %d, want %d", rs.RegionPriority(HybridRegion), len(rules))
	}
}

func TestRegionWeight(t *testing.T) {
	tests := []struct {
		name   string
		ws     []Weighting
		region string
		want   int
	}{
		{"undeclared is flat", nil, Desert, 1},
		{"matching type", regionWeights(1, Desert, 5), Desert, 5},
		{"unconditional fallback", regionWeights(2, Desert, 5), Plains, 2},
		{"no fallback", regionWeights(0, Desert, 5), Plains, 0},
	}
	for _, tc := range tests {
		r := &Resource{Name: "X", RegionWeights: tc.ws}
		if got := r.RegionWeight(tc.region); got != tc.want {
			t.Errorf("%s: RegionWeight(%s) = %d, want %d", tc.name, tc.region, got, tc.want)
		}
	}
}

func TestDuplicateWeightingsMerged(t *testing.T) {
	ws := dedupWeightings([]Weighting{
		{Weight: 3, Conditions: []string{"RegionType:Desert", "Coastal"}},
		{Weight: 9, Conditions: []string{"Coastal", " RegionType:Desert"}},
		{Weight: 1},
	})
	if len(ws) != 2 {
		t.Fatalf("expected 2 weightings after dedup, got %d", len(ws))
	}
	if ws[0].Weight != 3 {
		t.Errorf("first weighting should win, got weight %d", ws[0].Weight)
	}
	if ws[0].Conditions[0] != "Coastal" {
		t.Errorf("conditions not normalized: %v", ws[0].Conditions)
	}
}

func TestConditionEvaluation(t *testing.T) {
	u := Default().Resource("Uranium")
	if u.Allows(TileEnv{Terrain: Snow}) {
		t.Error("Uranium should not be allowed on flat Snow")
	}
	if !u.Allows(TileEnv{Terrain: Snow, Features: []string{Hill}}) {
		t.Error("Uranium should be allowed on Snow hills")
	}
	if !Default().Resource("Iron").Allows(TileEnv{Terrain: Snow}) {
		t.Error("resources without a condition allow every tile")
	}
}

func TestPrepareRejectsBadCatalog(t *testing.T) {
	tests := []struct {
		name string
		rs   *Ruleset
	}{
		{"unknown occursOn", &Ruleset{Terrains: []*Terrain{{Name: "A", Type: Feature, OccursOn: []string{"B"}}}}},
		{"bad percent", &Ruleset{Terrains: []*Terrain{{Name: "A", Type: Land, Region: &RegionRule{Percent: 0}}}}},
		{"duplicate terrain", &Ruleset{Terrains: []*Terrain{{Name: "A"}, {Name: "A"}}}},
		{"bad condition", &Ruleset{
			Terrains:  []*Terrain{{Name: "A", Type: Land}},
			Resources: []*Resource{{Name: "R", TerrainsCanBeFoundOn: []string{"A"}, Condition: "Terrain +"}},
		}},
		{"unknown era", &Ruleset{
			Terrains:  []*Terrain{{Name: "A", Type: Land}},
			Resources: []*Resource{{Name: "R", Era: "Future"}},
		}},
	}
	for _, tc := range tests {
		if err := tc.rs.Prepare(); !errors.Is(err, ErrInvalidRuleset) {
			t.Errorf("%s: Prepare() = %v, want ErrInvalidRuleset", tc.name, err)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	data, err := json.Marshal(Default())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ruleset.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rs.Resources) != len(Default().Resources) {
		t.Errorf("loaded %d resources, want %d", len(rs.Resources), len(Default().Resources))
	}
	if rs.Resource("Uranium").Allows(TileEnv{Terrain: Snow}) {
		t.Error("loaded condition not compiled")
	}
}

func TestSchema(t *testing.T) {
	s := Schema()
	if s.Title == "" {
		t.Error("schema has no title")
	}
	if _, err := json.Marshal(s); err != nil {
		t.Errorf("schema does not marshal: %v", err)
	}
}

func TestPickNations(t *testing.T) {
	rs := Default()
	majors := rs.Majors(4)
	if len(majors) != 4 {
		t.Fatalf("Majors(4) returned %d", len(majors))
	}
	for _, n := range majors {
		if n.CityState {
			t.Errorf("%s is a city-state", n.Name)
		}
	}
	for _, n := range rs.CityStates(3) {
		if !n.CityState {
			t.Errorf("%s is not a city-state", n.Name)
		}
	}
}
