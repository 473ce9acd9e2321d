package candidates

import (
	"github.com/foliowatch/sentinel/pkg/formulas"
)

const (
	rsiPeriod        = 14
	shortMAPeriod    = 20
	longMAPeriod     = 50
	volumeWindow     = 20
	volatilityWindow = 20
	rangeWindow      = 20
)

// deriveTechnicals computes the per-ticker indicator set from raw history.
// Series too short for a given indicator leave that field nil.
func deriveTechnicals(closes, volumes []float64) Technicals {
	t := Technicals{}

	if len(closes) == 0 {
		return t
	}

	current := closes[len(closes)-1]
	t.CurrentPrice = &current

	t.RSI = formulas.RSI(closes, rsiPeriod)
	t.Momentum5d = formulas.Momentum(closes, 5)
	t.Momentum10d = formulas.Momentum(closes, 10)
	t.Momentum20d = formulas.Momentum(closes, 20)
	t.VolumeRatio = formulas.VolumeRatio(volumes, volumeWindow)
	t.Volatility = formulas.RollingVolatility(closes, volatilityWindow)

	t.MA20 = formulas.SMA(closes, shortMAPeriod)
	t.MA50 = formulas.SMA(closes, longMAPeriod)
	t.AboveMA20 = t.MA20 != nil && current > *t.MA20
	t.AboveMA50 = t.MA50 != nil && current > *t.MA50

	t.SupportLevel = formulas.RollingLow(closes, rangeWindow)
	t.ResistanceLevel = formulas.RollingHigh(closes, rangeWindow)

	if t.SupportLevel != nil && *t.SupportLevel > 0 {
		d := (current - *t.SupportLevel) / *t.SupportLevel * 100
		t.DistanceToSupport = &d
	}
	if t.ResistanceLevel != nil && current > 0 {
		d := (*t.ResistanceLevel - current) / current * 100
		t.DistanceToResistance = &d
	}

	return t
}
