package ruleset

// Terrain names of the default catalog. The world painter paints with these.
const (
	Grassland   = "Grassland"
	Plains      = "Plains"
	Desert      = "Desert"
	Tundra      = "Tundra"
	Snow        = "Snow"
	Mountain    = "Mountain"
	Coast       = "Coast"
	Ocean       = "Ocean"
	Lakes       = "Lakes"
	Hill        = "Hill"
	Forest      = "Forest"
	Jungle      = "Jungle"
	Marsh       = "Marsh"
	FloodPlains = "Flood plains"
	Oasis       = "Oasis"
	Ice         = "Ice"
)

// Default returns the built-in catalog, already prepared.
func Default() *Ruleset {
	rs := &Ruleset{
		Name:      "default",
		Eras:      []string{"Ancient", "Classical", "Medieval", "Renaissance", "Industrial", "Modern", "Atomic", "Information"},
		Terrains:  defaultTerrains(),
		Resources: defaultResources(),
		Nations:   defaultNations(),
	}
	if err := rs.Prepare(); err != nil {
		panic(err) // built-in catalog is static
	}
	return rs
}

func defaultTerrains() []*Terrain {
	flat := []string{Grassland, Plains, Desert, Tundra, Snow}
	return []*Terrain{
		{Name: Grassland, Type: Land, Food: 2, Fertility: 3, Tags: []string{TagFood, TagGood},
			Region:              &RegionRule{Priority: 7, Percent: 30, ExcludeIf: &CountComparison{More: Plains, Than: Grassland}},
			RegionExtraResource: "Cattle"},
		{Name: Plains, Type: Land, Food: 1, Production: 1, Fertility: 2, Tags: []string{TagGood}, ConvertsTo: Grassland,
			Region: &RegionRule{Priority: 6, Percent: 30, ExcludeIf: &CountComparison{More: Grassland, Than: Plains}}},
		{Name: Desert, Type: Land, Fertility: 1, Tags: []string{TagJunk},
			Region: &RegionRule{Priority: 4, Percent: 25}},
		{Name: Tundra, Type: Land, Food: 1, Fertility: 1,
			Region: &RegionRule{Priority: 1, Percent: 30, With: Snow}, RegionExtraResource: "Deer"},
		{Name: Snow, Type: Land, Tags: []string{TagJunk}},
		{Name: Mountain, Type: Land, Impassable: true, Tags: []string{TagJunk}},
		{Name: Coast, Type: Water, Food: 1, Gold: 1, Tags: []string{TagFood}},
		{Name: Ocean, Type: Water, Food: 1},
		{Name: Lakes, Type: Water, Food: 2, Gold: 1, Tags: []string{TagFood, TagGood, TagFreshWater}},

		{Name: Hill, Type: Feature, Production: 2, OverrideYields: true, Rough: true, ImprovedProduction: 1,
			OccursOn: flat, Tags: []string{TagProduction, TagGood, TagHillEquivalent, TagIgnoreBaseForRegion},
			Region: &RegionRule{Priority: 5, Percent: 30}, RegionExtraResource: "Sheep"},
		{Name: Forest, Type: Feature, Food: 1, Production: 1, OverrideYields: true, Rough: true, ImprovedProduction: 1,
			OccursOn: []string{Grassland, Plains, Tundra}, Tags: []string{TagProduction, TagIgnoreBaseForRegion},
			Region: &RegionRule{Priority: 3, Percent: 30}, RegionExtraResource: "Deer"},
		{Name: Jungle, Type: Feature, Food: 1, OverrideYields: true, Rough: true,
			OccursOn: []string{Grassland, Plains}, Tags: []string{TagIgnoreBaseForRegion},
			Region: &RegionRule{Priority: 2, Percent: 30}, RegionExtraResource: "Bananas"},
		{Name: Marsh, Type: Feature, Food: -1, Fertility: -1,
			OccursOn: []string{Grassland}, Tags: []string{TagJunk, TagIgnoreBaseForRegion}},
		{Name: FloodPlains, Type: Feature, Food: 2, OverrideYields: true, Fertility: 2,
			OccursOn: []string{Desert}, Tags: []string{TagFood, TagGood}},
		{Name: Oasis, Type: Feature, Food: 3, Gold: 1, OverrideYields: true, Fertility: 3,
			OccursOn: []string{Desert}, Tags: []string{TagFood, TagGood, TagRareFeature, TagFreshWater}},
		{Name: Ice, Type: Feature, Impassable: true, OverrideYields: true,
			OccursOn: []string{Ocean, Coast}, Tags: []string{TagJunk}},
	}
}

func regionWeights(fallback int, pairs ...any) []Weighting {
	ws := make([]Weighting, 0, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		ws = append(ws, Weighting{Weight: pairs[i+1].(int), Conditions: []string{RegionTypeCondition + pairs[i].(string)}})
	}
	if fallback > 0 {
		ws = append(ws, Weighting{Weight: fallback})
	}
	return ws
}

func cityStateWeight(w int) []Weighting {
	return []Weighting{{Weight: w}}
}

func defaultResources() []*Resource {
	return []*Resource{
		// Bonus
		{Name: "Wheat", Type: Bonus, Food: 1, TerrainsCanBeFoundOn: []string{Plains, FloodPlains}, Frequency: 14},
		{Name: "Cattle", Type: Bonus, Food: 1, TerrainsCanBeFoundOn: []string{Grassland}, Frequency: 16},
		{Name: "Sheep", Type: Bonus, Food: 1, TerrainsCanBeFoundOn: []string{Hill}, Frequency: 14},
		{Name: "Deer", Type: Bonus, Food: 1, TerrainsCanBeFoundOn: []string{Forest, Tundra}, Frequency: 14},
		{Name: "Bananas", Type: Bonus, Food: 1, TerrainsCanBeFoundOn: []string{Jungle}, Frequency: 12},
		{Name: "Fish", Type: Bonus, Food: 2, TerrainsCanBeFoundOn: []string{Coast}, Frequency: 12, Tags: []string{TagFish}},
		{Name: "Stone", Type: Bonus, Production: 1, TerrainsCanBeFoundOn: []string{Grassland, Plains, Desert, Tundra}, Frequency: 24},

		// Strategic
		{Name: "Horses", Type: Strategic, Production: 1, Era: "Ancient", TerrainsCanBeFoundOn: []string{Grassland, Plains, Tundra},
			MajorDepositAmount: 4, MinorDepositAmount: 2, DepositWeight: 3, Tags: []string{TagStrategicBalance}},
		{Name: "Iron", Type: Strategic, Production: 1, Era: "Ancient", TerrainsCanBeFoundOn: []string{Hill, Forest, Desert, Tundra, Snow, Grassland, Plains},
			MajorDepositAmount: 4, MinorDepositAmount: 2, DepositWeight: 3, Tags: []string{TagStrategicBalance}},
		{Name: "Coal", Type: Strategic, Production: 1, Era: "Industrial", TerrainsCanBeFoundOn: []string{Hill, Grassland, Plains},
			MajorDepositAmount: 7, MinorDepositAmount: 3, DepositWeight: 2},
		{Name: "Oil", Type: Strategic, Production: 1, Era: "Industrial", TerrainsCanBeFoundOn: []string{Desert, Marsh, Tundra, Snow, Jungle},
			MajorDepositAmount: 7, MinorDepositAmount: 3, DepositWeight: 2, Tags: []string{TagStrategicBalance}},
		{Name: "Aluminum", Type: Strategic, Production: 1, Era: "Modern", TerrainsCanBeFoundOn: []string{Hill, Plains, Desert, Tundra},
			MajorDepositAmount: 8, MinorDepositAmount: 3, DepositWeight: 2, Tags: []string{TagStrategicBalance}},
		{Name: "Uranium", Type: Strategic, Production: 1, Era: "Atomic", TerrainsCanBeFoundOn: []string{Hill, Forest, Jungle, Marsh, Desert, Tundra, Snow},
			Condition:          `Terrain != "Snow" || HasFeature("Hill")`,
			MajorDepositAmount: 4, MinorDepositAmount: 2},

		// Luxury
		{Name: "Gold Ore", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Plains, Desert, Hill},
			RegionWeights: regionWeights(1, Desert, 5, Hill, 4), CityStateWeights: cityStateWeight(10)},
		{Name: "Silver", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Tundra, Desert, Hill},
			RegionWeights: regionWeights(1, Tundra, 5, Hill, 3)},
		{Name: "Gems", Type: Luxury, Gold: 3, TerrainsCanBeFoundOn: []string{Jungle, Hill, Grassland},
			RegionWeights: regionWeights(1, Jungle, 6, Hill, 2)},
		{Name: "Marble", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Plains, Grassland, Desert, Hill},
			RegionWeights: regionWeights(1, Plains, 3), CityStateWeights: cityStateWeight(5)},
		{Name: "Ivory", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Plains, Grassland},
			RegionWeights: regionWeights(1, Plains, 4)},
		{Name: "Furs", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Tundra, Forest},
			RegionWeights: regionWeights(0, Tundra, 6, Forest, 4)},
		{Name: "Dyes", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Forest, Jungle},
			RegionWeights: regionWeights(1, Forest, 5, Jungle, 3)},
		{Name: "Spices", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Jungle, Forest},
			RegionWeights: regionWeights(1, Jungle, 5)},
		{Name: "Silk", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Forest},
			RegionWeights: regionWeights(1, Forest, 5)},
		{Name: "Sugar", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{FloodPlains, Marsh},
			RegionWeights: regionWeights(1, Grassland, 3), CityStateWeights: cityStateWeight(4)},
		{Name: "Cotton", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Grassland, Plains, Desert},
			RegionWeights: regionWeights(1, Grassland, 4, Plains, 4)},
		{Name: "Wine", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Grassland, Plains},
			RegionWeights: regionWeights(1, Grassland, 5, Plains, 3)},
		{Name: "Incense", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Desert, Plains},
			RegionWeights: regionWeights(1, Desert, 5, Plains, 2)},
		{Name: "Whales", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Coast},
			RegionWeights: regionWeights(2)},
		{Name: "Pearls", Type: Luxury, Gold: 2, TerrainsCanBeFoundOn: []string{Coast},
			RegionWeights: regionWeights(2), CityStateWeights: cityStateWeight(6)},
	}
}

func defaultNations() []*Nation {
	return []*Nation{
		{Name: "England", PreferCoast: true},
		{Name: "Japan", PreferCoast: true},
		{Name: "Arabia", Prefer: []string{Desert}},
		{Name: "Russia", Prefer: []string{Tundra}},
		{Name: "Inca", Prefer: []string{Hill}},
		{Name: "Iroquois", Prefer: []string{Forest, Jungle}},
		{Name: "Brazil", Prefer: []string{Jungle}},
		{Name: "China", Avoid: []string{Tundra}},
		{Name: "Siam", Avoid: []string{Tundra, Desert}},
		{Name: "Greece"},
		{Name: "Rome"},
		{Name: "Mongolia", Prefer: []string{Plains, Grassland}},

		{Name: "Venice", CityState: true},
		{Name: "Geneva", CityState: true},
		{Name: "Sidon", CityState: true},
		{Name: "Kabul", CityState: true},
		{Name: "Almaty", CityState: true},
		{Name: "Zanzibar", CityState: true},
		{Name: "Ragusa", CityState: true},
		{Name: "Vilnius", CityState: true},
		{Name: "Singapore", CityState: true},
		{Name: "Monaco", CityState: true},
		{Name: "Quebec City", CityState: true},
		{Name: "Belgrade", CityState: true},
		{Name: "Budapest", CityState: true},
		{Name: "Mombasa", CityState: true},
		{Name: "Hanoi", CityState: true},
		{Name: "Lhasa", CityState: true},
	}
}

// Majors returns the first n major nations of the catalog.
func (rs *Ruleset) Majors(n int) []*Nation {
	return rs.pickNations(n, false)
}

// CityStates returns the first n city-states of the catalog.
func (rs *Ruleset) CityStates(n int) []*Nation {
	return rs.pickNations(n, true)
}

func (rs *Ruleset) pickNations(n int, cityState bool) []*Nation {
	var out []*Nation
	for _, nat := range rs.Nations {
		if len(out) >= n {
			break
		}
		if nat.CityState == cityState {
			out = append(out, nat)
		}
	}
	return out
}
