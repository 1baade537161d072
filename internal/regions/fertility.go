package regions

import (
	"github.com/talgya/startlayout/internal/world"
)

// tileFertility scores a tile's yield potential. Water scores zero.
func (g *generation) tileFertility(t *world.Tile, checkCoasts bool) int {
	if g.m.IsWater(t) {
		return 0
	}
	fertility := 0
	if def := g.rules.Terrain(t.Terrain); def != nil {
		fertility += def.Fertility
	}
	for _, f := range t.Features {
		if def := g.rules.Terrain(f); def != nil {
			fertility += def.Fertility
		}
	}
	if g.m.IsAdjacentToRiver(t) {
		fertility++
	}
	if g.m.IsAdjacentToFreshWater(t) {
		fertility++
	}
	if checkCoasts && g.m.IsCoastal(t) {
		fertility += 2
	}
	return max(fertility, 0)
}

func (g *generation) computeFertility(checkCoasts bool) {
	for i, t := range g.m.Tiles {
		g.tiles[i].fertility = g.tileFertility(t, checkCoasts)
	}
}
