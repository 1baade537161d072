// Package world provides the hex grid, tile storage and geometry queries that
// start layout generation runs against.
// Tiles are addressed by column/row offset coordinates (odd rows shifted
// right); distance and ring math go through axial coordinates.
package world

// Coord is an offset position: X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Hex converts an offset coordinate to axial.
func (c Coord) Hex() HexCoord {
	return HexCoord{Q: c.X - (c.Y-(c.Y&1))/2, R: c.Y}
}

// Offset converts an axial coordinate to column/row.
func (h HexCoord) Offset() Coord {
	return Coord{X: h.Q + (h.R-(h.R&1))/2, Y: h.R}
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = HexCoord{Q: h.Q + dir.Q, R: h.R + dir.R}
	}
	return result
}

// Ring returns the axial coordinates exactly radius steps from h.
func (h HexCoord) Ring(radius int) []HexCoord {
	if radius <= 0 {
		return []HexCoord{h}
	}
	out := make([]HexCoord, 0, 6*radius)
	cur := HexCoord{Q: h.Q + HexNeighborDirections[4].Q*radius, R: h.R + HexNeighborDirections[4].R*radius}
	for side := 0; side < 6; side++ {
		dir := HexNeighborDirections[side]
		for step := 0; step < radius; step++ {
			out = append(out, cur)
			cur = HexCoord{Q: cur.Q + dir.Q, R: cur.R + dir.R}
		}
	}
	return out
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
