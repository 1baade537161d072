package regions

import (
	"github.com/talgya/startlayout/internal/ruleset"
)

// classify counts terrain among the region's land and labels it with the
// first region rule that holds. Terrains flagged to ignore their base count
// only the feature.
func (g *generation) classify(r *Region) {
	r.TerrainCounts = make(map[string]int)
	land := 0
	for _, t := range r.tiles {
		if g.m.IsWater(t) {
			r.TerrainCounts[t.Terrain]++
			continue
		}
		land++
		ignoreBase := false
		for _, f := range t.Features {
			r.TerrainCounts[f]++
			if def := g.rules.Terrain(f); def != nil && def.HasTag(ruleset.TagIgnoreBaseForRegion) {
				ignoreBase = true
			}
		}
		if !ignoreBase {
			r.TerrainCounts[t.Terrain]++
		}
	}

	r.Type = ruleset.HybridRegion
	if land == 0 {
		return
	}
	for _, terrain := range g.rules.RegionRules() {
		rule := terrain.Region
		count := r.TerrainCounts[terrain.Name]
		if rule.With != "" {
			count += r.TerrainCounts[rule.With]
		}
		if count*100 < rule.Percent*land {
			continue
		}
		if ex := rule.ExcludeIf; ex != nil && r.TerrainCounts[ex.More] >= r.TerrainCounts[ex.Than] {
			continue
		}
		r.Type = terrain.Name
		return
	}
}
