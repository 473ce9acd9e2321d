package candidates

import (
	"math"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
)

// scoreMarket computes the market-conditions category from the shared
// indicator snapshot: a calm VIX is a favorable entry, positive sector
// momentum confirms it, and a residual timing heuristic rounds it out.
// The risk evaluator reads the same VIX as portfolio risk; the opposite
// readings are intentional and independent.
func scoreMarket(ind domain.IndicatorSnapshot, cfg config.BuyThresholds) categoryResult {
	var res categoryResult

	if ind.VIX != nil {
		switch {
		case *ind.VIX < 15:
			res.score += 5
		case *ind.VIX < 20:
			res.score += 3
		default:
			res.score += 1
		}
	}

	if change := sectorDailyChange(ind); change != nil && *change > 0 {
		res.score += 5
	}

	if ind.VIX != nil && *ind.VIX < 20 {
		res.score += 5
	}

	res.score = math.Min(res.score, cfg.Caps.Market)
	return res
}

func sectorDailyChange(ind domain.IndicatorSnapshot) *float64 {
	if ind.SectorIndex == nil || ind.SectorPrev == nil || *ind.SectorPrev <= 0 {
		return nil
	}
	c := (*ind.SectorIndex - *ind.SectorPrev) / *ind.SectorPrev * 100
	return &c
}
