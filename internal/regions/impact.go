package regions

import (
	"github.com/talgya/startlayout/internal/world"
)

// ImpactType is an independent spacing channel.
type ImpactType uint8

const (
	ImpactStrategic ImpactType = iota
	ImpactLuxury
	ImpactBonus
	ImpactMinorCiv
	numImpactTypes
)

// String returns the channel name.
func (t ImpactType) String() string {
	switch t {
	case ImpactStrategic:
		return "Strategic"
	case ImpactLuxury:
		return "Luxury"
	case ImpactBonus:
		return "Bonus"
	case ImpactMinorCiv:
		return "MinorCiv"
	default:
		return "Unknown"
	}
}

func (g *generation) impact(t *world.Tile, typ ImpactType) int {
	return g.data(t).impacts[typ]
}

// placeImpact stamps a channel around center. The center takes 99; rings
// decay with distance and overlapping stamps stack a little, capped at 50.
func (g *generation) placeImpact(typ ImpactType, center world.Coord, radius int) {
	if t := g.m.Get(center); t != nil {
		g.data(t).impacts[typ] = 99
	}
	for ring := 1; ring <= radius; ring++ {
		value := radius - ring + 1
		for _, t := range g.m.TilesAtDistance(center, ring) {
			d := g.data(t)
			cur := d.impacts[typ]
			switch {
			case cur == 0:
				d.impacts[typ] = value
			case cur < 99:
				d.impacts[typ] = min(maxRingImpactStacking, max(cur, value)+2)
			}
		}
	}
}

// stampStartImpacts reserves space around a faction's start on all four
// channels.
func (g *generation) stampStartImpacts(c world.Coord, minor bool) {
	if minor {
		g.placeImpact(ImpactMinorCiv, c, minorMinorCivImpact)
		g.placeImpact(ImpactLuxury, c, minorLuxuryImpact)
		g.placeImpact(ImpactStrategic, c, minorStrategicImpact)
		g.placeImpact(ImpactBonus, c, minorBonusImpact)
		return
	}
	g.placeImpact(ImpactMinorCiv, c, majorMinorCivImpact)
	g.placeImpact(ImpactLuxury, c, majorLuxuryImpact)
	g.placeImpact(ImpactStrategic, c, majorStrategicImpact)
	g.placeImpact(ImpactBonus, c, majorBonusImpact)
}

// setCloseStartPenalty discourages later starts near c. Overlaps keep the
// larger value scaled by 1.2, never above 97.
func (g *generation) setCloseStartPenalty(c world.Coord) {
	for ring, penalty := range closeStartPenaltyForRing {
		for _, t := range g.m.TilesAtDistance(c, ring) {
			d := g.data(t)
			if d.closeStartPenalty == 0 {
				d.closeStartPenalty = min(penalty, maxCloseStartPenalty)
				continue
			}
			next := max(d.closeStartPenalty, penalty)
			next = int(float64(next) * closeStartPenaltyScale)
			d.closeStartPenalty = min(next, maxCloseStartPenalty)
		}
	}
}
