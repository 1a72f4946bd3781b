package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed Z-value associated with a specific confidence interval.
// The interval is a number from 0 to 100 percent.
func ZVal(confidenceInterval float64) float64 {
	dist := distuv.Normal{
		Mu:    0,
		Sigma: 1,
	}
	area := (1 + (confidenceInterval / 100)) / 2
	return dist.Quantile(area)
}

// WinRate scores a win as 1 and a draw as 1/2 and returns the rate over
// games with its normal-approximation margin at the given confidence.
func WinRate(wins, draws, games int, confidenceInterval float64) (rate, margin float64) {
	if games == 0 {
		return 0, 0
	}
	rate = (float64(wins) + float64(draws)/2) / float64(games)
	margin = ZVal(confidenceInterval) * math.Sqrt(rate*(1-rate)/float64(games))
	return rate, margin
}
