// Package ruleset holds the terrain, resource, nation and era catalogs that
// start layout generation reads, plus the game-setup options.
package ruleset

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
)

// ErrInvalidRuleset is returned when a catalog references unknown entries or
// carries a malformed rule.
var ErrInvalidRuleset = errors.New("invalid ruleset")

// TerrainType separates base land, base water and features layered on top.
type TerrainType string

const (
	Land    TerrainType = "Land"
	Water   TerrainType = "Water"
	Feature TerrainType = "TerrainFeature"
)

// Start-quality and behaviour tags carried by terrains.
const (
	TagFood                = "Food"
	TagProduction          = "Production"
	TagGood                = "Good"
	TagJunk                = "Junk"
	TagIgnoreBaseForRegion = "IgnoreBaseForRegion"
	TagFreshWater          = "FreshWaterSource"
	TagHillEquivalent      = "HillEquivalent"
	TagRareFeature         = "RareFeature"
)

// Resource tags.
const (
	TagStrategicBalance = "StrategicBalance"
	TagFish             = "Fish"
)

// HybridRegion is the region type used when no terrain rule matches.
const HybridRegion = "Hybrid"

// RegionRule decides whether a region is classified as the owning terrain.
// The rule holds when at least Percent of the region's land counts as the
// terrain (plus With, when set) and the exclusion does not hold.
type RegionRule struct {
	Priority  int              `json:"priority"`
	Percent   int              `json:"percent"`
	With      string           `json:"with,omitempty"`
	ExcludeIf *CountComparison `json:"excludeIf,omitempty"`
}

// CountComparison holds when count(More) >= count(Than).
type CountComparison struct {
	More string `json:"more"`
	Than string `json:"than"`
}

// Terrain describes a base terrain or a feature.
type Terrain struct {
	Name               string      `json:"name" jsonschema:"required"`
	Type               TerrainType `json:"type" jsonschema:"enum=Land,enum=Water,enum=TerrainFeature"`
	Food               int         `json:"food,omitempty"`
	Production         int         `json:"production,omitempty"`
	Gold               int         `json:"gold,omitempty"`
	OverrideYields     bool        `json:"overrideYields,omitempty"`
	Impassable         bool        `json:"impassable,omitempty"`
	Rough              bool        `json:"rough,omitempty"`
	Fertility          int         `json:"fertility,omitempty"`
	ImprovedProduction int         `json:"improvedProduction,omitempty" jsonschema:"description=Extra production from the best improvement buildable on this terrain"`
	OccursOn           []string    `json:"occursOn,omitempty"`
	Tags               []string    `json:"tags,omitempty"`
	Region             *RegionRule `json:"region,omitempty"`
	// RegionExtraResource overrides the random extra bonus placed near starts
	// in regions of this type.
	RegionExtraResource   string `json:"regionExtraResource,omitempty"`
	ConvertsTo            string `json:"convertsTo,omitempty"`
	MajorDepositFrequency int    `json:"majorDepositFrequency,omitempty"`
}

// HasTag reports whether the terrain carries tag.
func (t *Terrain) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// Nation is a major civilization or a city-state with its start preferences.
type Nation struct {
	Name        string   `json:"name" jsonschema:"required"`
	CityState   bool     `json:"cityState,omitempty"`
	PreferCoast bool     `json:"preferCoast,omitempty"`
	Prefer      []string `json:"prefer,omitempty"`
	Avoid       []string `json:"avoid,omitempty"`
}

// Options are the game-setup switches read during generation.
type Options struct {
	ArchipelagoThreshold float64 `json:"archipelagoThreshold"`
	StrategicBalance     bool    `json:"strategicBalance,omitempty"`
	LegendaryStart       bool    `json:"legendaryStart,omitempty"`
	WorldWrap            bool    `json:"worldWrap,omitempty"`
	NoStartBias          bool    `json:"noStartBias,omitempty"`
	StartingEra          string  `json:"startingEra,omitempty"`
}

// DefaultOptions returns the standard setup.
func DefaultOptions() Options {
	return Options{
		ArchipelagoThreshold: 0.25,
		StartingEra:          "Ancient",
	}
}

// Ruleset is the full catalog. Call Prepare before use.
type Ruleset struct {
	Name      string      `json:"name"`
	Eras      []string    `json:"eras"`
	Terrains  []*Terrain  `json:"terrains"`
	Resources []*Resource `json:"resources"`
	Nations   []*Nation   `json:"nations"`

	terrains    map[string]*Terrain
	resources   map[string]*Resource
	regionRules []*Terrain
}

// Prepare indexes the catalog, validates references, compiles resource
// conditions and merges duplicate weighting rules.
func (rs *Ruleset) Prepare() error {
	rs.terrains = make(map[string]*Terrain, len(rs.Terrains))
	for _, t := range rs.Terrains {
		if t.Name == "" {
			return fmt.Errorf("%w: terrain without name", ErrInvalidRuleset)
		}
		if _, dup := rs.terrains[t.Name]; dup {
			return fmt.Errorf("%w: duplicate terrain %q", ErrInvalidRuleset, t.Name)
		}
		rs.terrains[t.Name] = t
	}

	rs.regionRules = rs.regionRules[:0]
	for _, t := range rs.Terrains {
		for _, name := range t.OccursOn {
			if rs.terrains[name] == nil {
				return fmt.Errorf("%w: terrain %q occurs on unknown %q", ErrInvalidRuleset, t.Name, name)
			}
		}
		if t.ConvertsTo != "" && rs.terrains[t.ConvertsTo] == nil {
			return fmt.Errorf("%w: terrain %q converts to unknown %q", ErrInvalidRuleset, t.Name, t.ConvertsTo)
		}
		if r := t.Region; r != nil {
			if r.Percent <= 0 || r.Percent > 100 {
				return fmt.Errorf("%w: terrain %q region percent %d", ErrInvalidRuleset, t.Name, r.Percent)
			}
			if r.With != "" && rs.terrains[r.With] == nil {
				return fmt.Errorf("%w: region rule %q combines unknown %q", ErrInvalidRuleset, t.Name, r.With)
			}
			if c := r.ExcludeIf; c != nil && (rs.terrains[c.More] == nil || rs.terrains[c.Than] == nil) {
				return fmt.Errorf("%w: region rule %q excludes on unknown terrain", ErrInvalidRuleset, t.Name)
			}
			rs.regionRules = append(rs.regionRules, t)
		}
	}
	sort.SliceStable(rs.regionRules, func(i, j int) bool {
		return rs.regionRules[i].Region.Priority < rs.regionRules[j].Region.Priority
	})

	rs.resources = make(map[string]*Resource, len(rs.Resources))
	for _, r := range rs.Resources {
		if _, dup := rs.resources[r.Name]; dup {
			return fmt.Errorf("%w: duplicate resource %q", ErrInvalidRuleset, r.Name)
		}
		for _, name := range r.TerrainsCanBeFoundOn {
			if rs.terrains[name] == nil {
				return fmt.Errorf("%w: resource %q found on unknown %q", ErrInvalidRuleset, r.Name, name)
			}
		}
		if r.Era != "" && rs.EraIndex(r.Era) < 0 {
			return fmt.Errorf("%w: resource %q has unknown era %q", ErrInvalidRuleset, r.Name, r.Era)
		}
		if r.Condition != "" {
			program, err := expr.Compile(r.Condition, expr.Env(TileEnv{}), expr.AsBool())
			if err != nil {
				return fmt.Errorf("%w: resource %q condition: %v", ErrInvalidRuleset, r.Name, err)
			}
			r.program = program
		}
		r.RegionWeights = dedupWeightings(r.RegionWeights)
		r.CityStateWeights = dedupWeightings(r.CityStateWeights)
		rs.resources[r.Name] = r
	}

	for _, t := range rs.Terrains {
		if t.RegionExtraResource != "" && rs.resources[t.RegionExtraResource] == nil {
			return fmt.Errorf("%w: terrain %q extra resource %q unknown", ErrInvalidRuleset, t.Name, t.RegionExtraResource)
		}
	}
	return nil
}

// Terrain returns the named terrain, or nil.
func (rs *Ruleset) Terrain(name string) *Terrain {
	return rs.terrains[name]
}

// Resource returns the named resource, or nil.
func (rs *Ruleset) Resource(name string) *Resource {
	return rs.resources[name]
}

// RegionRules returns the terrains carrying a region rule, by priority.
func (rs *Ruleset) RegionRules() []*Terrain {
	return rs.regionRules
}

// RegionPriority orders region types from least to most developed.
// Hybrid sorts after every rule.
func (rs *Ruleset) RegionPriority(regionType string) int {
	for i, t := range rs.regionRules {
		if t.Name == regionType {
			return i
		}
	}
	return len(rs.regionRules)
}

// ResourcesOfType returns resources of the given type in catalog order.
func (rs *Ruleset) ResourcesOfType(typ ResourceType) []*Resource {
	var out []*Resource
	for _, r := range rs.Resources {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// FirstLandTerrain returns the first plain land terrain in the catalog.
func (rs *Ruleset) FirstLandTerrain() *Terrain {
	for _, t := range rs.Terrains {
		if t.Type == Land && !t.Impassable {
			return t
		}
	}
	return nil
}

// TerrainsWithTag returns every terrain carrying tag.
func (rs *Ruleset) TerrainsWithTag(tag string) []*Terrain {
	var out []*Terrain
	for _, t := range rs.Terrains {
		if t.HasTag(tag) {
			out = append(out, t)
		}
	}
	return out
}

// EraIndex returns the position of era in the era ordering, or -1.
func (rs *Ruleset) EraIndex(era string) int {
	return slices.Index(rs.Eras, era)
}

// String returns a summary of the catalog.
func (rs *Ruleset) String() string {
	return fmt.Sprintf("Ruleset(%s, terrains=%d, resources=%d, nations=%d)",
		strings.TrimSpace(rs.Name), len(rs.Terrains), len(rs.Resources), len(rs.Nations))
}
