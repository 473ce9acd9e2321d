package candidates

import (
	"fmt"
	"math"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
)

// scoreRiskReward computes the risk/reward category: analyst upside,
// volatility in the medium-high band, distance above support and short-term
// price action.
func scoreRiskReward(t Technicals, upside *float64, cfg config.BuyThresholds) categoryResult {
	var res categoryResult

	if upside != nil {
		res.score += scoreUpside(*upside)
		res.reasons = append(res.reasons, fmt.Sprintf("Analyst upside: %.1f%%", *upside))
	}

	res.score += scoreVolatilityBand(t.Volatility)

	if t.DistanceToSupport != nil {
		d := *t.DistanceToSupport
		switch {
		case d >= 0 && d <= 5:
			res.score += 5
		case d > 5 && d <= 10:
			res.score += 3
		}
		res.reasons = append(res.reasons, fmt.Sprintf("Support: %.1f%% below", d))
	}

	res.score += scoreRecentAction(t.Momentum5d)

	res.score = math.Min(res.score, cfg.Caps.RiskReward)
	return res
}

func scoreUpside(upside float64) float64 {
	switch {
	case upside > 30:
		return 10
	case upside > 20:
		return 7
	case upside > 10:
		return 5
	default:
		return 2
	}
}

// scoreVolatilityBand is deliberately non-monotonic: too little volatility
// means thin reward potential, too much means distress rather than
// opportunity. The 20-50% band scores highest.
func scoreVolatilityBand(vol *float64) float64 {
	if vol == nil {
		return 0
	}
	switch {
	case *vol >= 20 && *vol <= 50:
		return 5
	case *vol > 50:
		return 3
	default:
		return 1
	}
}

// scoreRecentAction rewards consolidation over chase: a flat 5-day window
// scores full points, strong momentum less, a deep dip a bounce-potential
// score, and a moderate decline nothing.
func scoreRecentAction(m5 *float64) float64 {
	if m5 == nil {
		return 0
	}
	switch {
	case *m5 >= -5 && *m5 <= 5:
		return 5
	case *m5 > 5:
		return 3
	case *m5 < -10:
		return 4
	default:
		return 0
	}
}

// classifyRiskReward derives the two independent label axes from volatility
// and upside magnitude. They are not functions of the composite score.
func classifyRiskReward(vol, upside *float64) (domain.RiskLabel, domain.RewardLabel) {
	v, u := 0.0, 0.0
	if vol != nil {
		v = *vol
	}
	if upside != nil {
		u = *upside
	}

	risk := domain.RiskLabelMedium
	if v > 40 || (v > 25 && u > 30) {
		risk = domain.RiskLabelHigh
	} else if v > 20 || u > 20 {
		risk = domain.RiskLabelMediumHigh
	}

	reward := domain.RewardLow
	switch {
	case u > 30:
		reward = domain.RewardVeryHigh
	case u > 20:
		reward = domain.RewardHigh
	case u > 10:
		reward = domain.RewardModerate
	}

	return risk, reward
}
