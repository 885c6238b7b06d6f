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
	zValue := dist.Quantile(area)
	return zValue
}

// WinRateCI returns the half-width of the confidence interval around a win
// proportion of wins out of n games, using the normal approximation to the
// binomial. The interval is a number from 0 to 100 percent.
func WinRateCI(wins, n int, confidenceInterval float64) float64 {
	if n == 0 {
		return 0
	}
	p := float64(wins) / float64(n)
	return ZVal(confidenceInterval) * math.Sqrt(p*(1-p)/float64(n))
}
