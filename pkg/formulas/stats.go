package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Returns converts prices to percentage returns:
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}
	return returns
}

// RollingVolatility calculates the standard deviation of daily returns over
// the trailing window, expressed in percent. Returns nil with insufficient
// history.
func RollingVolatility(closes []float64, window int) *float64 {
	if len(closes) < window+1 {
		return nil
	}

	rets := Returns(closes[len(closes)-window-1:])
	vol := StdDev(rets) * 100
	return &vol
}
