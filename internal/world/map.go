package world

import (
	"fmt"
	"slices"

	"github.com/talgya/startlayout/internal/ruleset"
)

// Tile is a single map cell.
type Tile struct {
	Coord          Coord    `json:"coord"`
	Terrain        string   `json:"terrain"`
	Features       []string `json:"features,omitempty"`
	Resource       string   `json:"resource,omitempty"`
	ResourceAmount int      `json:"resource_amount,omitempty"`
	Continent      int      `json:"continent"` // -1 for water
	River          bool     `json:"river,omitempty"`

	// Climate data set by the painter.
	Elevation   float64 `json:"elevation"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
}

// HasFeature reports whether the tile carries the named feature.
func (t *Tile) HasFeature(name string) bool {
	return slices.Contains(t.Features, name)
}

// AddFeature layers a feature on top of the tile.
func (t *Tile) AddFeature(name string) {
	if !t.HasFeature(name) {
		t.Features = append(t.Features, name)
	}
}

// RemoveFeature strips a feature from the tile.
func (t *Tile) RemoveFeature(name string) {
	t.Features = slices.DeleteFunc(t.Features, func(f string) bool { return f == name })
}

// LastTerrain returns the topmost terrain: the last feature, or the base.
func (t *Tile) LastTerrain() string {
	if n := len(t.Features); n > 0 {
		return t.Features[n-1]
	}
	return t.Terrain
}

// StartLocation registers a faction's starting tile.
type StartLocation struct {
	Nation    string `json:"nation"`
	Coord     Coord  `json:"coord"`
	CityState bool   `json:"city_state"`
}

// Map holds a rectangular hex grid. Columns wrap when WorldWrap is set.
type Map struct {
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	WorldWrap bool            `json:"world_wrap"`
	Tiles     []*Tile         `json:"-"` // row-major
	Starts    []StartLocation `json:"starts"`

	Rules *ruleset.Ruleset `json:"-"`
}

// NewMap creates a map filled with the ruleset's Ocean terrain.
func NewMap(width, height int, wrap bool, rules *ruleset.Ruleset) *Map {
	m := &Map{
		Width:     width,
		Height:    height,
		WorldWrap: wrap,
		Tiles:     make([]*Tile, width*height),
		Rules:     rules,
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Tiles[y*width+x] = &Tile{Coord: Coord{X: x, Y: y}, Terrain: ruleset.Ocean, Continent: -1}
		}
	}
	return m
}

// Index returns the slice index of c, or -1 if it lies off the map.
// Columns are wrapped first when the map wraps.
func (m *Map) Index(c Coord) int {
	if c.Y < 0 || c.Y >= m.Height {
		return -1
	}
	if m.WorldWrap {
		c.X = ((c.X % m.Width) + m.Width) % m.Width
	}
	if c.X < 0 || c.X >= m.Width {
		return -1
	}
	return c.Y*m.Width + c.X
}

// Get returns the tile at c, or nil if out of bounds.
func (m *Map) Get(c Coord) *Tile {
	i := m.Index(c)
	if i < 0 {
		return nil
	}
	return m.Tiles[i]
}

// Neighbors returns the existing tiles adjacent to c.
func (m *Map) Neighbors(c Coord) []*Tile {
	out := make([]*Tile, 0, 6)
	for _, n := range c.Hex().Neighbors() {
		if t := m.Get(n.Offset()); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// Distance returns the hex distance between a and b, taking the shorter
// way around the seam on wrapped maps.
func (m *Map) Distance(a, b Coord) int {
	d := Distance(a.Hex(), b.Hex())
	if m.WorldWrap {
		d = min(d,
			Distance(a.Hex(), Coord{X: b.X + m.Width, Y: b.Y}.Hex()),
			Distance(a.Hex(), Coord{X: b.X - m.Width, Y: b.Y}.Hex()))
	}
	return d
}

// TilesAtDistance returns the tiles exactly radius steps from c.
func (m *Map) TilesAtDistance(c Coord, radius int) []*Tile {
	ring := c.Hex().Ring(radius)
	out := make([]*Tile, 0, len(ring))
	seen := make(map[int]bool, len(ring))
	for _, h := range ring {
		i := m.Index(h.Offset())
		if i < 0 || seen[i] {
			continue
		}
		// Small wrapped maps fold rings over themselves.
		if m.WorldWrap && m.Distance(c, m.Tiles[i].Coord) != radius {
			continue
		}
		seen[i] = true
		out = append(out, m.Tiles[i])
	}
	return out
}

// TilesInDistance returns the tiles within radius of c, nearest first.
func (m *Map) TilesInDistance(c Coord, radius int) []*Tile {
	var out []*Tile
	for r := 0; r <= radius; r++ {
		out = append(out, m.TilesAtDistance(c, r)...)
	}
	return out
}

// Rect returns the tiles of the rectangle with origin (x, y). Columns past
// the right edge wrap on wrapped maps and are dropped otherwise.
func (m *Map) Rect(x, y, width, height int) []*Tile {
	out := make([]*Tile, 0, max(width, 0)*max(height, 0))
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			if t := m.Get(Coord{X: x + dx, Y: y + dy}); t != nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// AddStartLocation registers a start. It returns false if the tile already
// hosts another start.
func (m *Map) AddStartLocation(nation string, c Coord, cityState bool) bool {
	if m.IsStart(c) {
		return false
	}
	m.Starts = append(m.Starts, StartLocation{Nation: nation, Coord: c, CityState: cityState})
	return true
}

// IsStart reports whether c hosts a registered start.
func (m *Map) IsStart(c Coord) bool {
	for _, s := range m.Starts {
		if s.Coord == c {
			return true
		}
	}
	return false
}

// TileCount returns the total number of tiles in the map.
func (m *Map) TileCount() int {
	return len(m.Tiles)
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(%dx%d, wrap=%t, starts=%d)", m.Width, m.Height, m.WorldWrap, len(m.Starts))
}
