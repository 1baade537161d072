package regions

// Start finding.
var (
	firstRingFoodScores  = [...]int{0, 8, 14, 19, 22, 24, 25}
	firstRingProdScores  = [...]int{0, 10, 16, 20, 20, 12, 0}
	secondRingFoodScores = [...]int{0, 2, 5, 10, 20, 25, 28, 30, 32, 34, 35}
	secondRingProdScores = [...]int{0, 10, 20, 25, 30, 35}

	// Indexed by ring; index 0 unused.
	minimumFoodForRing = [...]int{0, 1, 4, 4}
	minimumProdForRing = [...]int{0, 0, 0, 2}
	minimumGoodForRing = [...]int{0, 3, 6, 8}

	// Indexed by distance from a chosen start.
	closeStartPenaltyForRing = [...]int{99, 97, 95, 92, 89, 69, 57, 24, 15}
)

const (
	maximumJunk            = 9
	junkPenalty            = 3
	goodTileScore          = 2
	maxCloseStartPenalty   = 97
	closeStartPenaltyScale = 1.2
	centerAreaScale        = 0.33
	middleAreaScale        = 0.67
)

// Impact radii stamped around starts.
const (
	majorMinorCivImpact   = 6
	majorLuxuryImpact     = 3
	majorStrategicImpact  = 0
	majorBonusImpact      = 3
	minorMinorCivImpact   = 4
	minorLuxuryImpact     = 3
	minorStrategicImpact  = 0
	minorBonusImpact      = 3
	maxRingImpactStacking = 50
)

// Normalization.
const (
	majorInnerProductionLow = 2
	minorInnerProductionLow = 4
	outerProductionLow      = 8
	majorEarlyProductionLow = 4
	minorEarlyProductionLow = 2
	legendaryFoodBonus      = 2
	escalatedFoodBonuses    = 3
	lowFoodRequirement      = 2
	grassHeavy              = 9
	grassModerate           = 6
	plainsSparse            = 4
)

// Luxuries.
const (
	cityStateLuxuryCount      = 3
	luxuriesAtStart           = 1
	minLuxuryTilesInRegion    = 3
	luxuryBaseImpact          = 2
	luxuryRandomImpact        = 1
	regionalLuxuryTilesPer    = 30
	regionalLuxuryMax         = 5
	randomLuxuryTilesPer      = 45
	luxurySharedForExtraMinor = 3
)

// Strategic and bonus resources.
const (
	defaultMajorDepositFrequency = 25
	minorDepositFrequency        = 60
	strategicBaseImpact          = 1
	strategicRandomImpact        = 1
	minStrategicDepositsPerRes   = 2
	modernEra                    = "Modern"
	bonusBaseImpact              = 1
	bonusRandomImpact            = 1
	defaultBonusFrequency        = 20
	// extraResourceOverrideCount is how many ring-3 extras a start gets when
	// its region type names its own resource.
	extraResourceOverrideCount = 2
)

// Minor civs.
const (
	maxMinorsPerRegion = 10
)

// minorCivsPerRegion maps minors-per-region ratio to the number each region
// hosts directly.
func minorCivsPerRegion(ratio float64) int {
	switch {
	case ratio > 14:
		return maxMinorsPerRegion
	case ratio > 11:
		return 8
	case ratio > 8:
		return 6
	case ratio > 5.7:
		return 4
	case ratio > 4.35:
		return 3
	case ratio > 2.7:
		return 2
	case ratio > 1.35:
		return 1
	default:
		return 0
	}
}

// luxuryCap is the number of regions that may share one luxury.
func luxuryCap(regionCount int) int {
	switch {
	case regionCount > 12:
		return 3
	case regionCount > 8:
		return 2
	default:
		return 1
	}
}

// randomLuxuryKeepPercent shrinks the trim on larger maps.
func randomLuxuryKeepPercent(tileCount int) int {
	switch {
	case tileCount <= 1000:
		return 50
	case tileCount <= 2500:
		return 75
	default:
		return 90
	}
}

// foodBonusesNeeded maps the weighted food score of rings 1-2 to the number
// of food bonuses a start needs.
func foodBonusesNeeded(score int, minor bool) int {
	if minor {
		switch {
		case score < 8:
			return 3
		case score < 14:
			return 2
		case score < 20:
			return 1
		default:
			return 0
		}
	}
	switch {
	case score < 10:
		return 5
	case score < 15:
		return 4
	case score < 20:
		return 3
	case score < 26:
		return 2
	case score < 32:
		return 1
	default:
		return 0
	}
}
