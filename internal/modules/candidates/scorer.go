// Package candidates scores buy candidates on four capped categories — early
// signals, technicals, risk/reward and market conditions — and ranks them
// into a tiered recommendation list.
package candidates

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
)

// Scorer evaluates candidates. It keeps no state between calls.
type Scorer struct {
	log zerolog.Logger
}

// New creates a new candidate scorer.
func New(log zerolog.Logger) *Scorer {
	return &Scorer{log: log.With().Str("component", "candidates").Logger()}
}

// Score evaluates a single candidate. It returns nil when the candidate
// falls below the minimum display score: sub-threshold candidates are
// excluded from output entirely, never emitted with a blank tier.
//
// The total is the exact sum of the four category subscores. Clamping
// happens only at the category level; the sum is never re-clamped.
func (s *Scorer) Score(c Candidate, asOf time.Time, cfg config.Signals, fxRate *float64) *domain.BuyCandidateScore {
	tech := deriveTechnicals(c.Closes, c.Volumes)
	upside := c.UpsidePct(tech.CurrentPrice)

	early := scoreEarly(c.Records, asOf, cfg.Buy)
	technical := scoreTechnical(tech, cfg.Buy)
	riskReward := scoreRiskReward(tech, upside, cfg.Buy)
	market := scoreMarket(c.Indicators, cfg.Buy)

	scores := domain.CategoryScores{
		EarlySignals: early.score,
		Technical:    technical.score,
		RiskReward:   riskReward.score,
		Market:       market.score,
	}
	total := scores.Total()

	tier, ok := s.tierFor(total, cfg.Buy)
	if !ok || total < cfg.Buy.MinDisplayScore {
		s.log.Debug().Str("symbol", c.Symbol).Float64("total", total).Msg("Candidate below display threshold")
		return nil
	}

	riskLabel, rewardLabel := classifyRiskReward(tech.Volatility, upside)

	reasons := make([]string, 0, len(early.reasons)+len(technical.reasons)+len(riskReward.reasons))
	reasons = append(reasons, early.reasons...)
	reasons = append(reasons, technical.reasons...)
	reasons = append(reasons, riskReward.reasons...)

	out := &domain.BuyCandidateScore{
		Symbol:       c.Symbol,
		Tier:         tier,
		Scores:       scores,
		TotalScore:   total,
		RiskLabel:    riskLabel,
		RewardLabel:  rewardLabel,
		Reasons:      reasons,
		CurrentPrice: tech.CurrentPrice,
		UpsidePct:    upside,
		Volatility:   tech.Volatility,
	}

	if tech.CurrentPrice != nil {
		gbp := *tech.CurrentPrice
		if fxRate != nil {
			gbp = *tech.CurrentPrice * *fxRate
		}
		out.CurrentPriceGBP = &gbp
	}

	return out
}

// ScoreAll evaluates every candidate and returns the ranked survivors.
func (s *Scorer) ScoreAll(cands []Candidate, asOf time.Time, cfg config.Signals, fxRate *float64) []domain.BuyCandidateScore {
	scored := make([]domain.BuyCandidateScore, 0, len(cands))
	for _, c := range cands {
		if result := s.Score(c, asOf, cfg, fxRate); result != nil {
			scored = append(scored, *result)
		}
	}
	Rank(scored)

	s.log.Info().
		Int("evaluated", len(cands)).
		Int("ranked", len(scored)).
		Msg("Candidates scored")

	return scored
}

// tierFor maps a total score onto a recommendation tier. Scores below the
// CONSIDER boundary have no tier and are dropped by the caller.
func (s *Scorer) tierFor(total float64, cfg config.BuyThresholds) (domain.RecommendationTier, bool) {
	switch {
	case total >= cfg.Tiers.StrongBuy:
		return domain.TierStrongBuy, true
	case total >= cfg.Tiers.Buy:
		return domain.TierBuy, true
	case total >= cfg.Tiers.Consider:
		return domain.TierConsider, true
	default:
		return "", false
	}
}

// Rank sorts candidates in place: descending total score, ties broken by the
// higher early-signal subscore (leading indicators beat lagging technical
// ones), then symbol for a deterministic order regardless of scoring order.
func Rank(list []domain.BuyCandidateScore) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].TotalScore != list[j].TotalScore {
			return list[i].TotalScore > list[j].TotalScore
		}
		if list[i].Scores.EarlySignals != list[j].Scores.EarlySignals {
			return list[i].Scores.EarlySignals > list[j].Scores.EarlySignals
		}
		return list[i].Symbol < list[j].Symbol
	})
}
