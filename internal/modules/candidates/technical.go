package candidates

import (
	"fmt"
	"math"

	"github.com/foliowatch/sentinel/internal/config"
)

const (
	momentumCap = 10.0
	rsiCap      = 5.0
	volumeCap   = 5.0
	maCap       = 5.0
	breakoutCap = 5.0
)

// scoreTechnical computes the technical category: momentum, RSI entry band,
// volume surge, moving-average alignment and breakout proximity. Each
// sub-metric is independently capped; missing indicators contribute zero.
func scoreTechnical(t Technicals, cfg config.BuyThresholds) categoryResult {
	var res categoryResult

	res.score += scoreMomentum(t)
	res.score += scoreRSIBand(t.RSI)

	if t.VolumeRatio != nil && *t.VolumeRatio > 1.5 {
		res.score += math.Min(volumeCap, (*t.VolumeRatio-1.5)*2)
		res.reasons = append(res.reasons, fmt.Sprintf("Volume surge: %.1fx average", *t.VolumeRatio))
	}

	res.score += scoreMAAlignment(t)

	if breakoutProximity(t) {
		res.score += breakoutCap
		res.reasons = append(res.reasons, "Approaching breakout level")
	}

	res.score = math.Min(res.score, cfg.Caps.Technical)
	return res
}

// scoreMomentum weights short windows over long: positive 5- and 10-day
// changes earn 3 points each, a 20-day change that is not deeply negative
// earns 4, capped at 10.
func scoreMomentum(t Technicals) float64 {
	score := 0.0
	if t.Momentum5d != nil && *t.Momentum5d > 0 {
		score += 3
	}
	if t.Momentum10d != nil && *t.Momentum10d > 0 {
		score += 3
	}
	if t.Momentum20d != nil && *t.Momentum20d > -5 {
		score += 4
	}
	return math.Min(momentumCap, score)
}

// scoreRSIBand rewards the oversold-but-not-collapsing entry band over an
// overbought one. Extremes on either side score zero.
func scoreRSIBand(rsi *float64) float64 {
	if rsi == nil {
		return 0
	}
	switch {
	case *rsi >= 30 && *rsi <= 50:
		return rsiCap
	case *rsi > 50 && *rsi <= 70:
		return 3
	default:
		return 0
	}
}

// scoreMAAlignment rewards price above both moving averages, partially above
// the short one, or sitting just under short-term support.
func scoreMAAlignment(t Technicals) float64 {
	if t.AboveMA20 && t.AboveMA50 {
		return maCap
	}
	if t.AboveMA20 {
		return 3
	}
	if t.CurrentPrice != nil && t.MA20 != nil && *t.MA20 > 0 {
		pctBelow := (*t.MA20 - *t.CurrentPrice) / *t.MA20 * 100
		if pctBelow > 0 && pctBelow < 5 {
			return 2
		}
	}
	return 0
}

// breakoutProximity fires when price is within 2% below resistance without
// having already broken out above it.
func breakoutProximity(t Technicals) bool {
	if t.CurrentPrice == nil || t.ResistanceLevel == nil || *t.ResistanceLevel <= 0 {
		return false
	}
	price := *t.CurrentPrice
	return price >= *t.ResistanceLevel*0.98 && price <= *t.ResistanceLevel
}
