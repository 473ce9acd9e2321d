package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
)

// RSI calculates the current Relative Strength Index over the given period.
//
//	RSI = 100 - (100 / (1 + RS))
//	where RS = Average Gain / Average Loss over N periods
//
// Returns nil when there is not enough history for a stable value.
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	series := talib.Rsi(closes, period)
	if len(series) == 0 {
		return nil
	}

	last := series[len(series)-1]
	if math.IsNaN(last) {
		return nil
	}
	return &last
}

// SMA calculates the current simple moving average over the given period.
// Returns nil when there is not enough history.
func SMA(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}

	series := talib.Sma(closes, period)
	if len(series) == 0 {
		return nil
	}

	last := series[len(series)-1]
	if math.IsNaN(last) {
		return nil
	}
	return &last
}
