package candidates

import (
	"time"

	"github.com/foliowatch/sentinel/internal/domain"
)

// Candidate is the raw material for scoring one ticker: early-signal records,
// price/volume history, analyst target and the shared indicator snapshot.
// Everything is already materialized; the scorer never fetches.
type Candidate struct {
	Symbol string

	// Records holds the ticker's early-signal disclosures, time-ordered.
	Records []domain.EarlySignalRecord

	// Closes and Volumes are trailing daily series, oldest first.
	Closes  []float64
	Volumes []float64

	// TargetPrice is the mean analyst target, nil when no coverage.
	TargetPrice *float64

	// Indicators is the same snapshot the risk evaluator consumes. The scorer
	// reads low volatility as an entry opportunity; the risk evaluator reads
	// high volatility as portfolio risk. Both readings are intentional.
	Indicators domain.IndicatorSnapshot
}

// Technicals holds the derived per-ticker indicators. Every field is nil when
// the history is too short, never a sentinel zero.
type Technicals struct {
	CurrentPrice         *float64
	RSI                  *float64
	Momentum5d           *float64
	Momentum10d          *float64
	Momentum20d          *float64
	VolumeRatio          *float64
	MA20                 *float64
	MA50                 *float64
	AboveMA20            bool
	AboveMA50            bool
	Volatility           *float64 // 20-day stddev of daily returns, percent
	SupportLevel         *float64
	ResistanceLevel      *float64
	DistanceToSupport    *float64 // percent above support
	DistanceToResistance *float64 // percent below resistance
}

// categoryResult is one scored category before assembly.
type categoryResult struct {
	score   float64
	reasons []string
}

// UpsidePct computes the analyst upside over the current price, nil when
// either side is missing.
func (c Candidate) UpsidePct(current *float64) *float64 {
	if c.TargetPrice == nil || current == nil || *current <= 0 || *c.TargetPrice <= 0 {
		return nil
	}
	up := (*c.TargetPrice - *current) / *current * 100
	return &up
}

// daysSince returns whole days between date and asOf, floored at zero.
func daysSince(date, asOf time.Time) int {
	d := int(asOf.Sub(date).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
