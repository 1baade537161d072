package world

// AssignContinents labels connected land masses with ids 0..n-1 (largest
// first is not guaranteed) and marks water -1. It returns the continent count.
func AssignContinents(m *Map) int {
	for _, t := range m.Tiles {
		t.Continent = -1
	}
	next := 0
	for _, start := range m.Tiles {
		if start.Continent >= 0 || m.IsWater(start) {
			continue
		}
		id := next
		next++
		start.Continent = id
		queue := []*Tile{start}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, n := range m.Neighbors(cur.Coord) {
				if n.Continent >= 0 || m.IsWater(n) {
					continue
				}
				n.Continent = id
				queue = append(queue, n)
			}
		}
	}
	return next
}

// ContinentSizes returns the land tile count per continent id.
func ContinentSizes(m *Map) map[int]int {
	sizes := make(map[int]int)
	for _, t := range m.Tiles {
		if t.Continent >= 0 {
			sizes[t.Continent]++
		}
	}
	return sizes
}
