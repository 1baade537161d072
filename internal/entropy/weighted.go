package entropy

import (
	"math/rand"

	"golang.org/x/exp/constraints"
)

// WeightedChoice picks one item with probability proportional to its
// weight. Non-positive weights never win. It reports false when nothing
// can be chosen.
func WeightedChoice[T any, W constraints.Integer | constraints.Float](rng *rand.Rand, items []T, weights []W) (T, bool) {
	var zero T
	if len(items) == 0 || len(items) != len(weights) {
		return zero, false
	}
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += float64(w)
		}
	}
	if total <= 0 {
		return zero, false
	}
	pick := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		pick -= float64(w)
		if pick < 0 {
			return items[i], true
		}
	}
	// Rounding left us past the end; return the last positive entry.
	for i := len(items) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return items[i], true
		}
	}
	return zero, false
}
