package regions

import (
	"testing"

	"github.com/talgya/startlayout/internal/ruleset"
	"github.com/talgya/startlayout/internal/world"
)

func TestPlaceImpact(t *testing.T) {
	m := newTestMap(t, 20, 20, uniform(ruleset.Grassland))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	center := world.Coord{X: 10, Y: 10}
	g.placeImpact(ImpactBonus, center, 3)

	for ring, want := range []int{99, 3, 2, 1, 0} {
		for _, tile := range m.TilesAtDistance(center, ring) {
			if got := g.impact(tile, ImpactBonus); got != want {
				t.Fatalf("ring %d impact = %d, want %d", ring, got, want)
			}
			if got := g.impact(tile, ImpactLuxury); got != 0 {
				t.Fatalf("luxury channel touched: %d", got)
			}
		}
	}

	for range 30 {
		g.placeImpact(ImpactMinorCiv, center, 6)
	}
	for _, tile := range m.TilesAtDistance(center, 1) {
		if got := g.impact(tile, ImpactMinorCiv); got != maxRingImpactStacking {
			t.Errorf("stacked impact = %d, want cap %d", got, maxRingImpactStacking)
		}
	}
	if got := g.impact(m.Get(center), ImpactMinorCiv); got != 99 {
		t.Errorf("center impact = %d, want 99", got)
	}
}

func TestCloseStartPenaltyMonotonic(t *testing.T) {
	m := newTestMap(t, 30, 30, uniform(ruleset.Grassland))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	starts := []world.Coord{{X: 10, Y: 10}, {X: 14, Y: 10}, {X: 12, Y: 13}, {X: 20, Y: 20}, {X: 11, Y: 11}}

	prev := make([]int, len(g.tiles))
	for _, c := range starts {
		g.setCloseStartPenalty(c)
		for i, d := range g.tiles {
			if d.closeStartPenalty < prev[i] {
				t.Fatalf("penalty at %v dropped from %d to %d", m.Tiles[i].Coord, prev[i], d.closeStartPenalty)
			}
			if d.closeStartPenalty > maxCloseStartPenalty {
				t.Fatalf("penalty at %v is %d, above %d", m.Tiles[i].Coord, d.closeStartPenalty, maxCloseStartPenalty)
			}
			prev[i] = d.closeStartPenalty
		}
	}
	if got := g.data(m.Get(world.Coord{X: 0, Y: 0})).closeStartPenalty; got != 0 {
		t.Errorf("far corner penalty = %d, want 0", got)
	}
}

func TestFindStartInCenter(t *testing.T) {
	m := newTestMap(t, 20, 20, func(x, y int) (string, []string) {
		if (x+y)%4 == 0 {
			return ruleset.Grassland, []string{ruleset.Hill}
		}
		return ruleset.Grassland, nil
	})
	g := newTestGeneration(m, ruleset.DefaultOptions())
	r := g.newRegion(Rect{Width: 20, Height: 20}, 0)
	g.regions = []*Region{r}
	g.findStart(r)

	if r.Start == nil {
		t.Fatal("no start found")
	}
	if s := *r.Start; s.X < 6 || s.X > 12 || s.Y < 6 || s.Y > 12 {
		t.Errorf("start %v outside the center third", s)
	}
	if got := g.data(m.Get(*r.Start)).closeStartPenalty; got != maxCloseStartPenalty {
		t.Errorf("penalty on start = %d, want %d", got, maxCloseStartPenalty)
	}
}

func TestFindStartSynthesizes(t *testing.T) {
	m := newTestMap(t, 10, 10, uniform(ruleset.Mountain))
	g := newTestGeneration(m, ruleset.DefaultOptions())
	r := g.newRegion(Rect{Width: 10, Height: 10}, 0)
	g.regions = []*Region{r}
	g.findStart(r)

	if r.Start == nil || *r.Start != (world.Coord{}) {
		t.Fatalf("start = %v, want the region corner", r.Start)
	}
	if tile := m.Get(*r.Start); tile.Terrain != ruleset.Grassland || m.IsImpassable(tile) {
		t.Errorf("synthesized start is %s", tile.Terrain)
	}
}

func TestFindStartAvoidsTwoFromCoast(t *testing.T) {
	m := newTestMap(t, 16, 16, func(x, y int) (string, []string) {
		if x < 2 {
			return ruleset.Ocean, nil
		}
		return ruleset.Plains, nil
	})
	g := newTestGeneration(m, ruleset.DefaultOptions())
	r := g.newRegion(Rect{Width: 16, Height: 16}, 0)
	g.regions = []*Region{r}
	g.findStart(r)
	if r.Start == nil {
		t.Fatal("no start found")
	}
	if g.data(m.Get(*r.Start)).twoFromCoast {
		t.Errorf("start %v is two tiles from the coast", *r.Start)
	}
}
