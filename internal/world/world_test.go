package world

import (
	"testing"

	"github.com/talgya/startlayout/internal/ruleset"
)

func TestOffsetAxialRoundTrip(t *testing.T) {
	for y := -3; y < 6; y++ {
		for x := -3; x < 6; x++ {
			c := Coord{X: x, Y: y}
			if got := c.Hex().Offset(); got != c {
				t.Errorf("round trip %v -> %v", c, got)
			}
		}
	}
}

func TestNeighborsAreAtDistanceOne(t *testing.T) {
	m := NewMap(10, 10, false, ruleset.Default())
	for _, c := range []Coord{{4, 4}, {5, 5}, {3, 6}} {
		ns := m.Neighbors(c)
		if len(ns) != 6 {
			t.Fatalf("Neighbors(%v) = %d tiles, want 6", c, len(ns))
		}
		for _, n := range ns {
			if d := m.Distance(c, n.Coord); d != 1 {
				t.Errorf("neighbor %v of %v at distance %d", n.Coord, c, d)
			}
		}
	}
}

func TestRingSizes(t *testing.T) {
	m := NewMap(30, 30, false, ruleset.Default())
	center := Coord{X: 15, Y: 15}
	for r := 0; r <= 8; r++ {
		want := 6 * r
		if r == 0 {
			want = 1
		}
		ring := m.TilesAtDistance(center, r)
		if len(ring) != want {
			t.Errorf("ring %d has %d tiles, want %d", r, len(ring), want)
		}
		for _, tile := range ring {
			if d := m.Distance(center, tile.Coord); d != r {
				t.Errorf("ring %d tile %v at distance %d", r, tile.Coord, d)
			}
		}
	}
	if got := len(m.TilesInDistance(center, 2)); got != 19 {
		t.Errorf("disc of radius 2 has %d tiles, want 19", got)
	}
}

func TestWrapDistance(t *testing.T) {
	m := NewMap(20, 10, true, ruleset.Default())
	if d := m.Distance(Coord{X: 0, Y: 4}, Coord{X: 19, Y: 4}); d != 1 {
		t.Errorf("distance across seam = %d, want 1", d)
	}
	if len(m.Neighbors(Coord{X: 0, Y: 4})) != 6 {
		t.Error("seam tile should have six neighbors on a wrapped map")
	}

	flat := NewMap(20, 10, false, ruleset.Default())
	if d := flat.Distance(Coord{X: 0, Y: 4}, Coord{X: 19, Y: 4}); d != 19 {
		t.Errorf("distance without wrap = %d, want 19", d)
	}
}

func TestRectWraps(t *testing.T) {
	m := NewMap(10, 5, true, ruleset.Default())
	tiles := m.Rect(8, 0, 4, 2)
	if len(tiles) != 8 {
		t.Fatalf("Rect returned %d tiles, want 8", len(tiles))
	}
	if tiles[2].Coord.X != 0 {
		t.Errorf("third tile column = %d, want wrapped 0", tiles[2].Coord.X)
	}

	flat := NewMap(10, 5, false, ruleset.Default())
	if got := len(flat.Rect(8, 0, 4, 2)); got != 4 {
		t.Errorf("unwrapped Rect returned %d tiles, want 4", got)
	}
}

func TestAssignContinents(t *testing.T) {
	m := NewMap(12, 6, false, ruleset.Default())
	for _, tile := range m.Tiles {
		if tile.Coord.X < 4 || tile.Coord.X > 7 {
			tile.Terrain = ruleset.Grassland
		}
	}
	if n := AssignContinents(m); n != 2 {
		t.Fatalf("AssignContinents = %d, want 2", n)
	}
	left := m.Get(Coord{X: 0, Y: 0}).Continent
	right := m.Get(Coord{X: 11, Y: 5}).Continent
	if left == right {
		t.Error("separated land masses share a continent id")
	}
	if m.Get(Coord{X: 5, Y: 3}).Continent != -1 {
		t.Error("water tile has a continent id")
	}
	sizes := ContinentSizes(m)
	if sizes[left] != 24 || sizes[right] != 24 {
		t.Errorf("continent sizes = %v, want 24 each", sizes)
	}
}

func TestYieldsOverride(t *testing.T) {
	m := NewMap(3, 3, false, ruleset.Default())
	tile := m.Get(Coord{X: 1, Y: 1})
	tile.Terrain = ruleset.Grassland
	if f, p, _ := m.Yields(tile); f != 2 || p != 0 {
		t.Errorf("grassland yields %d/%d, want 2/0", f, p)
	}
	tile.AddFeature(ruleset.Forest)
	if f, p, _ := m.Yields(tile); f != 1 || p != 1 {
		t.Errorf("forest yields %d/%d, want 1/1", f, p)
	}
	tile.RemoveFeature(ruleset.Forest)
	tile.AddFeature(ruleset.Marsh)
	if f, _, _ := m.Yields(tile); f != 1 {
		t.Errorf("marsh food = %d, want 1", f)
	}
}

func TestCoastalAndFreshWater(t *testing.T) {
	m := NewMap(6, 6, false, ruleset.Default())
	for _, tile := range m.Tiles {
		tile.Terrain = ruleset.Grassland
	}
	m.Get(Coord{X: 0, Y: 2}).Terrain = ruleset.Coast
	m.Get(Coord{X: 4, Y: 4}).Terrain = ruleset.Lakes

	if !m.IsCoastal(m.Get(Coord{X: 1, Y: 2})) {
		t.Error("tile next to coast should be coastal")
	}
	if m.IsCoastal(m.Get(Coord{X: 3, Y: 4})) {
		t.Error("tile next to a lake is not coastal")
	}
	if !m.IsAdjacentToFreshWater(m.Get(Coord{X: 3, Y: 4})) {
		t.Error("tile next to a lake has fresh water")
	}
}

func TestGenerateSmallWorld(t *testing.T) {
	m := Generate(SmallTestConfig(), ruleset.Default())
	if m.TileCount() != 32*20 {
		t.Fatalf("TileCount = %d, want %d", m.TileCount(), 32*20)
	}
	land := 0
	for _, tile := range m.Tiles {
		if m.IsLand(tile) {
			land++
			if tile.Continent < 0 {
				t.Fatalf("land tile %v without continent", tile.Coord)
			}
		}
	}
	if land == 0 {
		t.Fatal("generated world has no land")
	}
	// Same seed, same world.
	again := Generate(SmallTestConfig(), ruleset.Default())
	for i := range m.Tiles {
		if m.Tiles[i].Terrain != again.Tiles[i].Terrain {
			t.Fatalf("generation not deterministic at %v", m.Tiles[i].Coord)
		}
	}
}

func TestStartRegistry(t *testing.T) {
	m := NewMap(4, 4, false, ruleset.Default())
	if !m.AddStartLocation("Rome", Coord{X: 1, Y: 1}, false) {
		t.Fatal("first start rejected")
	}
	if m.AddStartLocation("Greece", Coord{X: 1, Y: 1}, false) {
		t.Error("second start on the same tile accepted")
	}
}
