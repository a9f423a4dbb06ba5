package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
)

// PercentileRank is the tie-averaged percentile of value within dist:
// round((below + 0.5*equal) / n * 100), where n counts the finite members.
// ok is false when value is not finite or dist has no finite member.
func PercentileRank(dist []float64, value float64) (int, bool) {
	if !isFinite(value) {
		return 0, false
	}
	var n, below, ties int
	for _, x := range dist {
		if !isFinite(x) {
			continue
		}
		n++
		if x < value {
			below++
		} else if x == value {
			ties++
		}
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round((float64(below) + 0.5*float64(ties)) / float64(n) * 100)), true
}

// RankOriented ranks value so that a higher percentile always means a better
// outcome: for lower-is-better KPIs both sides are negated first. Stored
// values are never altered; the negation exists only inside this call.
func RankOriented(dist []float64, value float64, lowerIsBetter bool) (int, bool) {
	if !lowerIsBetter {
		return PercentileRank(dist, value)
	}
	neg := make([]float64, len(dist))
	for i, x := range dist {
		neg[i] = -x
	}
	return PercentileRank(neg, -value)
}

// Median is the middle finite value, or the mean of the two middle ones.
func Median(values []float64) (float64, bool) {
	xs := finite(values)
	if len(xs) == 0 {
		return 0, false
	}
	m, err := stats.Median(xs)
	if err != nil {
		return 0, false
	}
	return m, true
}

// Band classifies a percentile into the dashboard's traffic-light bands.
func Band(pr int) string {
	switch {
	case pr >= 75:
		return "high"
	case pr >= 40:
		return "mid"
	default:
		return "low"
	}
}
