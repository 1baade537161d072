package ruleset

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/expr-lang/expr/vm"
)

// ResourceType enumerates the three resource families.
type ResourceType string

const (
	Bonus     ResourceType = "Bonus"
	Luxury    ResourceType = "Luxury"
	Strategic ResourceType = "Strategic"
)

// RegionTypeCondition prefixes weighting conditions that match a region type.
const RegionTypeCondition = "RegionType:"

// Weighting is a relative weight that applies when every condition holds.
// An empty condition list applies everywhere.
type Weighting struct {
	Weight     int      `json:"weight"`
	Conditions []string `json:"conditions,omitempty"`
}

// Resource describes a placeable resource.
type Resource struct {
	Name                 string       `json:"name" jsonschema:"required"`
	Type                 ResourceType `json:"type" jsonschema:"enum=Bonus,enum=Luxury,enum=Strategic"`
	Food                 int          `json:"food,omitempty"`
	Production           int          `json:"production,omitempty"`
	Gold                 int          `json:"gold,omitempty"`
	TerrainsCanBeFoundOn []string     `json:"terrainsCanBeFoundOn"`
	// Condition is an expression over TileEnv gating placement, e.g.
	// `Terrain != "Snow" || HasFeature("Hill")`.
	Condition          string      `json:"condition,omitempty"`
	RegionWeights      []Weighting `json:"regionWeights,omitempty"`
	CityStateWeights   []Weighting `json:"cityStateWeights,omitempty"`
	MajorDepositAmount int         `json:"majorDepositAmount,omitempty"`
	MinorDepositAmount int         `json:"minorDepositAmount,omitempty"`
	DepositWeight      int         `json:"depositWeight,omitempty"`
	Frequency          int         `json:"frequency,omitempty" jsonschema:"description=Bonus resources: one placement per this many eligible tiles"`
	Era                string      `json:"era,omitempty"`
	Tags               []string    `json:"tags,omitempty"`

	program *vm.Program
}

// TileEnv is the environment resource conditions are evaluated against.
type TileEnv struct {
	Terrain     string
	Features    []string
	Elevation   float64
	Rainfall    float64
	Temperature float64
	Coastal     bool
	River       bool
}

// HasFeature reports whether the tile carries the named feature.
func (e TileEnv) HasFeature(name string) bool {
	return slices.Contains(e.Features, name)
}

// HasTag reports whether the resource carries tag.
func (r *Resource) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// FoundOn reports whether the resource may sit on the given top terrain.
func (r *Resource) FoundOn(terrain string) bool {
	return slices.Contains(r.TerrainsCanBeFoundOn, terrain)
}

// Allows evaluates the resource condition. Resources without a condition
// allow every tile.
func (r *Resource) Allows(env TileEnv) bool {
	if r.program == nil {
		return true
	}
	out, err := vm.Run(r.program, env)
	if err != nil {
		slog.Debug("resource condition error", "resource", r.Name, "error", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}

// RegionWeight returns the declared weight for a region type. A weighting
// tied to the type wins over an unconditional one; a resource that declares
// no weighting at all weighs 1 everywhere.
func (r *Resource) RegionWeight(regionType string) int {
	return weightFor(r.RegionWeights, regionType, 1)
}

// CityStateWeight returns the weight used when reserving city-state
// luxuries. Resources without a city-state weighting are not reserved.
func (r *Resource) CityStateWeight() int {
	return weightFor(r.CityStateWeights, "", 0)
}

// DepositChoiceWeight is the weight used when choosing among strategic
// resources for a deposit.
func (r *Resource) DepositChoiceWeight() int {
	if r.DepositWeight <= 0 {
		return 1
	}
	return r.DepositWeight
}

func weightFor(ws []Weighting, regionType string, undeclared int) int {
	if len(ws) == 0 {
		return undeclared
	}
	fallback := 0
	for _, w := range ws {
		if len(w.Conditions) == 0 {
			fallback = w.Weight
			continue
		}
		if regionType != "" && slices.Contains(w.Conditions, RegionTypeCondition+regionType) {
			return w.Weight
		}
	}
	return fallback
}

// dedupWeightings drops weightings whose condition set repeats an earlier
// one. Conditions compare as sorted tag lists.
func dedupWeightings(ws []Weighting) []Weighting {
	if len(ws) < 2 {
		return ws
	}
	out := ws[:0:0]
	var seen [][]string
	for _, w := range ws {
		key := normalizeConditions(w.Conditions)
		if slices.ContainsFunc(seen, func(k []string) bool { return slices.Equal(k, key) }) {
			slog.Debug("dropping duplicate weighting", "conditions", key)
			continue
		}
		seen = append(seen, key)
		w.Conditions = key
		out = append(out, w)
	}
	return out
}

func normalizeConditions(conds []string) []string {
	key := make([]string, 0, len(conds))
	for _, c := range conds {
		c = strings.TrimSpace(c)
		if c != "" && !slices.Contains(key, c) {
			key = append(key, c)
		}
	}
	slices.Sort(key)
	return key
}
