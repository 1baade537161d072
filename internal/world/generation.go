// World painting using layered simplex noise.
// Generates elevation, rainfall, and temperature maps, then derives base
// terrain, features, rivers and continents. Start layout runs on top.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/startlayout/internal/ruleset"
)

// GenConfig holds world painting parameters.
type GenConfig struct {
	Width       int     // Columns
	Height      int     // Rows
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0–1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0–1.0)
	HillLvl     float64 // Elevation threshold for hills (0.0–1.0)
	WorldWrap   bool    // Columns wrap around the seam
}

// DefaultGenConfig returns a standard-size configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:       66,
		Height:      42,
		Seed:        0,
		SeaLevel:    0.42,
		MountainLvl: 0.80,
		HillLvl:     0.66,
		WorldWrap:   true,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:       32,
		Height:      20,
		Seed:        42,
		SeaLevel:    0.38,
		MountainLvl: 0.82,
		HillLvl:     0.68,
		WorldWrap:   false,
	}
}

// Generate paints a complete map with terrain, features, rivers and continents.
func Generate(cfg GenConfig, rules *ruleset.Ruleset) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Three noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	m := NewMap(cfg.Width, cfg.Height, cfg.WorldWrap, rules)

	for _, t := range m.Tiles {
		x, y := hexCenter(t.Coord)

		elev := sampleNoise(elevNoise, x, y, cfg, 4, 0.12)
		rain := sampleNoise(rainNoise, x, y, cfg, 3, 0.09)
		temp := sampleNoise(tempNoise, x, y, cfg, 3, 0.07)

		// Oceans at the map edges; wrapped maps only lose the poles.
		edge := edgeFalloff(t.Coord, cfg)
		elev *= edge

		// Latitude dominates temperature: poles at the top and bottom rows.
		lat := math.Abs(float64(t.Coord.Y)/float64(max(cfg.Height-1, 1))*2 - 1)
		temp = temp*0.35 + (1.0-lat)*0.55 + (1.0-elev)*0.1

		t.Elevation = elev
		t.Rainfall = rain
		t.Temperature = temp
		paintTerrain(t, cfg)
	}

	// Post-pass: shallow water next to land becomes coast.
	markCoast(m)

	// Post-pass: place rivers flowing from high elevation to the sea.
	placeRivers(m, seed)

	// Post-pass: flood plains and the occasional oasis along desert water.
	placeDesertFeatures(m, seed)

	AssignContinents(m)
	return m
}

func hexCenter(c Coord) (float64, float64) {
	x := float64(c.X)
	if c.Y&1 == 1 {
		x += 0.5
	}
	return x, float64(c.Y) * math.Sqrt(3.0) / 2.0
}

// sampleNoise samples octave noise; wrapped maps sample a cylinder so the
// seam is continuous.
func sampleNoise(noise opensimplex.Noise, x, y float64, cfg GenConfig, octaves int, frequency float64) float64 {
	if !cfg.WorldWrap {
		return octaveNoise(func(f float64) float64 { return noise.Eval2(x*f, y*f) }, octaves, frequency, 0.5)
	}
	circumference := float64(cfg.Width)
	radius := circumference / (2 * math.Pi)
	angle := x / circumference * 2 * math.Pi
	cx, cz := math.Cos(angle)*radius, math.Sin(angle)*radius
	return octaveNoise(func(f float64) float64 { return noise.Eval3(cx*f, y*f, cz*f) }, octaves, frequency, 0.5)
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(eval func(frequency float64) float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += eval(frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

func edgeFalloff(c Coord, cfg GenConfig) float64 {
	dy := math.Abs(float64(c.Y)/float64(max(cfg.Height-1, 1))*2 - 1)
	d := dy
	if !cfg.WorldWrap {
		dx := math.Abs(float64(c.X)/float64(max(cfg.Width-1, 1))*2 - 1)
		d = math.Max(dx, dy)
	}
	f := 1.0 - math.Pow(d, 4)
	if f < 0 {
		return 0
	}
	return 0.35 + 0.65*f
}

// paintTerrain derives base terrain and features from the climate layers.
func paintTerrain(t *Tile, cfg GenConfig) {
	t.Features = nil
	switch {
	case t.Elevation < cfg.SeaLevel:
		t.Terrain = ruleset.Ocean
		if t.Temperature < 0.2 {
			t.Features = append(t.Features, ruleset.Ice)
		}
		return
	case t.Elevation > cfg.MountainLvl:
		t.Terrain = ruleset.Mountain
		return
	}

	switch {
	case t.Temperature < 0.22:
		t.Terrain = ruleset.Snow
	case t.Temperature < 0.35:
		t.Terrain = ruleset.Tundra
	case t.Rainfall < 0.33 && t.Temperature > 0.55:
		t.Terrain = ruleset.Desert
	case t.Rainfall > 0.55:
		t.Terrain = ruleset.Grassland
	default:
		t.Terrain = ruleset.Plains
	}

	if t.Elevation > cfg.HillLvl {
		t.Features = append(t.Features, ruleset.Hill)
		return
	}
	switch {
	case t.Terrain == ruleset.Grassland && t.Rainfall > 0.72 && t.Elevation < cfg.SeaLevel+0.04:
		t.Features = append(t.Features, ruleset.Marsh)
	case (t.Terrain == ruleset.Grassland || t.Terrain == ruleset.Plains) && t.Rainfall > 0.62 && t.Temperature > 0.7:
		t.Features = append(t.Features, ruleset.Jungle)
	case t.Terrain != ruleset.Desert && t.Terrain != ruleset.Snow && t.Rainfall > 0.5 && t.Elevation > cfg.SeaLevel+0.1:
		t.Features = append(t.Features, ruleset.Forest)
	}
}

// markCoast converts ocean tiles adjacent to land into coast.
func markCoast(m *Map) {
	var toMark []*Tile
	for _, t := range m.Tiles {
		if t.Terrain != ruleset.Ocean {
			continue
		}
		for _, n := range m.Neighbors(t.Coord) {
			if m.IsLand(n) {
				toMark = append(toMark, t)
				break
			}
		}
	}
	for _, t := range toMark {
		t.Terrain = ruleset.Coast
	}
}

// placeRivers traces paths from high elevation to the sea.
func placeRivers(m *Map, seed int64) {
	rng := rand.New(rand.NewSource(seed + 100))

	var sources []*Tile
	for _, t := range m.Tiles {
		if t.Elevation > 0.62 && m.IsLand(t) {
			sources = append(sources, t)
		}
	}

	// Only a handful of rivers; most highland stays dry.
	numRivers := len(sources) / 10
	numRivers = min(max(numRivers, 2), 14)

	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > numRivers {
		sources = sources[:numRivers]
	}

	for _, start := range sources {
		traceRiver(m, start)
	}
}

// traceRiver follows the steepest descent from a source tile until reaching
// water or running out of downhill path.
func traceRiver(m *Map, start *Tile) {
	current := start
	visited := make(map[Coord]bool)
	maxSteps := 40

	for step := 0; step < maxSteps; step++ {
		visited[current.Coord] = true
		if m.IsWater(current) {
			break
		}
		if current.Terrain != ruleset.Mountain {
			current.River = true
		}

		var best *Tile
		bestElev := current.Elevation
		for _, n := range m.Neighbors(current.Coord) {
			if visited[n.Coord] {
				continue
			}
			if n.Elevation < bestElev {
				bestElev = n.Elevation
				best = n
			}
		}
		if best == nil {
			break // No downhill path left
		}
		current = best
	}
}

func placeDesertFeatures(m *Map, seed int64) {
	rng := rand.New(rand.NewSource(seed + 200))
	for _, t := range m.Tiles {
		if t.Terrain != ruleset.Desert || len(t.Features) > 0 {
			continue
		}
		switch {
		case t.River:
			t.Features = append(t.Features, ruleset.FloodPlains)
		case rng.Float64() < 0.03:
			t.Features = append(t.Features, ruleset.Oasis)
		}
	}
}
