package domain

import "math"

const (
	multiGapBonus    = 1.2
	depthPenaltyFrom = 3
	depthPenaltyStep = 0.1
	scoreScale       = 50
	maxScore         = 100
	unknownGapWeight = 0.3
)

var gapWeights = map[Gap]float64{
	GapLowInlinks:   1.0,
	GapOrphaned:     0.85,
	GapDeepPage:     0.6,
	GapNotInSitemap: 0.4,
}

// GapWeight returns the scoring weight of gap.
func GapWeight(gap Gap) float64 {
	if w, ok := gapWeights[gap]; ok {
		return w
	}
	return unknownGapWeight
}

// Score maps a gap set and crawl depth to a priority in [0, 100].
// Every label adds its weight, repeats included, but only distinct labels
// earn the multi-gap bonus. Multipliers compound before the final round and clamp.
func Score(gaps []Gap, depth int) float64 {
	var sum float64
	distinct := make(map[Gap]struct{}, len(gaps))
	for _, g := range gaps {
		sum += GapWeight(g)
		distinct[g] = struct{}{}
	}

	if len(distinct) > 1 {
		sum *= multiGapBonus
	}
	if depth > depthPenaltyFrom {
		sum *= 1 + float64(depth-depthPenaltyFrom)*depthPenaltyStep
	}

	return math.Min(roundTenths(sum*scoreScale), maxScore)
}

// roundTenths rounds to one decimal, half to even.
func roundTenths(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
