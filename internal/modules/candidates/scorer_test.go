package candidates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/pkg/logger"
)

func ptr(f float64) *float64 { return &f }

func newScorer() *Scorer {
	return New(logger.New(logger.Config{Level: "error", Pretty: false}))
}

func daysAgo(asOf time.Time, days int) time.Time {
	return asOf.AddDate(0, 0, -days)
}

func insiderBuy(asOf time.Time, days int, actor string, notional float64) domain.EarlySignalRecord {
	return domain.EarlySignalRecord{
		Kind:     domain.SignalInsiderBuy,
		Ticker:   "XYZ",
		Date:     daysAgo(asOf, days),
		Actor:    actor,
		Notional: ptr(notional),
	}
}

func TestScoreEarly_WindowTruncation(t *testing.T) {
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	cfg := config.DefaultSignals().Buy

	inWindow := scoreEarly([]domain.EarlySignalRecord{
		insiderBuy(asOf, 3, "cfo", 1_000_000),
	}, asOf, cfg)
	assert.Greater(t, inWindow.score, 0.0)

	// A record one day past the window contributes exactly what absence does.
	expired := scoreEarly([]domain.EarlySignalRecord{
		insiderBuy(asOf, cfg.WindowDays+1, "cfo", 1_000_000),
	}, asOf, cfg)
	empty := scoreEarly(nil, asOf, cfg)
	assert.Equal(t, empty.score, expired.score)
	assert.Equal(t, 0.0, expired.score)
}

func TestScoreEarly_RecencyDecaysLinearly(t *testing.T) {
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	cfg := config.DefaultSignals().Buy

	fresh := scoreEarly([]domain.EarlySignalRecord{insiderBuy(asOf, 0, "cfo", 0)}, asOf, cfg)
	stale := scoreEarly([]domain.EarlySignalRecord{insiderBuy(asOf, 12, "cfo", 0)}, asOf, cfg)

	assert.InDelta(t, 15.0, fresh.score, 0.001)
	assert.InDelta(t, 15.0*(1-12.0/14.0), stale.score, 0.001)
	assert.Greater(t, fresh.score, stale.score)
}

func TestScoreEarly_InsiderClusterNearCeiling(t *testing.T) {
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	cfg := config.DefaultSignals().Buy

	// Three distinct insiders two days ago with $25M combined: recency 12.86,
	// size 5 and cluster 3 saturate the 15-point insider sub-score.
	records := []domain.EarlySignalRecord{
		insiderBuy(asOf, 2, "ceo", 10_000_000),
		insiderBuy(asOf, 2, "cfo", 10_000_000),
		insiderBuy(asOf, 2, "coo", 5_000_000),
	}
	res := scoreEarly(records, asOf, cfg)

	assert.InDelta(t, insiderSubCap, res.score, 0.001)
}

func TestScoreEarly_CategoryCapApplies(t *testing.T) {
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	cfg := config.DefaultSignals().Buy
	cfg.Caps.Early = 10

	records := []domain.EarlySignalRecord{
		insiderBuy(asOf, 0, "ceo", 25_000_000),
		insiderBuy(asOf, 0, "cfo", 25_000_000),
		{Kind: domain.SignalLegislatorBuy, Ticker: "XYZ", Date: daysAgo(asOf, 1), Actor: "sen-a"},
		{Kind: domain.SignalLegislatorBuy, Ticker: "XYZ", Date: daysAgo(asOf, 1), Actor: "sen-b"},
	}
	res := scoreEarly(records, asOf, cfg)

	assert.Equal(t, 10.0, res.score)
}

func TestScoreEarly_SellsDoNotCount(t *testing.T) {
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)
	cfg := config.DefaultSignals().Buy

	res := scoreEarly([]domain.EarlySignalRecord{
		{Kind: domain.SignalInsiderSell, Ticker: "XYZ", Date: daysAgo(asOf, 1), Actor: "ceo"},
		{Kind: domain.SignalLegislatorSell, Ticker: "XYZ", Date: daysAgo(asOf, 1), Actor: "sen-a"},
	}, asOf, cfg)

	assert.Equal(t, 0.0, res.score)
}

func TestScoreTechnical_Components(t *testing.T) {
	cfg := config.DefaultSignals().Buy

	tech := Technicals{
		CurrentPrice:    ptr(98),
		RSI:             ptr(42),  // entry band: 5
		Momentum5d:      ptr(2),   // 3
		Momentum10d:     ptr(4),   // 3
		Momentum20d:     ptr(1),   // 4
		VolumeRatio:     ptr(2.5), // (2.5-1.5)*2 = 2
		MA20:            ptr(90),
		MA50:            ptr(85),
		AboveMA20:       true,
		AboveMA50:       true,     // 5
		ResistanceLevel: ptr(100), // within 2% below: 5
	}
	res := scoreTechnical(tech, cfg)

	// 10 momentum + 5 RSI + 2 volume + 5 MA + 5 breakout
	assert.InDelta(t, 27.0, res.score, 0.001)
}

func TestScoreTechnical_NoBreakoutPointsAboveResistance(t *testing.T) {
	cfg := config.DefaultSignals().Buy

	below := Technicals{CurrentPrice: ptr(99), ResistanceLevel: ptr(100)}
	above := Technicals{CurrentPrice: ptr(101), ResistanceLevel: ptr(100)}

	assert.True(t, breakoutProximity(below))
	assert.False(t, breakoutProximity(above), "an already broken-out price earns nothing")

	// And a missing series scores the whole category zero, not a default.
	empty := scoreTechnical(Technicals{}, cfg)
	assert.Equal(t, 0.0, empty.score)
}

func TestScoreVolatilityBand_NonMonotonic(t *testing.T) {
	assert.Equal(t, 1.0, scoreVolatilityBand(ptr(10)))
	assert.Equal(t, 5.0, scoreVolatilityBand(ptr(35)))
	assert.Equal(t, 3.0, scoreVolatilityBand(ptr(60)))
	assert.Equal(t, 0.0, scoreVolatilityBand(nil))
}

func TestScoreMarket_CalmVIXFavorsEntry(t *testing.T) {
	cfg := config.DefaultSignals().Buy

	calm := domain.IndicatorSnapshot{
		VIX:         ptr(14),
		SectorIndex: ptr(5100),
		SectorPrev:  ptr(5000),
	}
	res := scoreMarket(calm, cfg)
	assert.Equal(t, 15.0, res.score) // 5 + 5 + 5, at the cap

	stressed := domain.IndicatorSnapshot{
		VIX:         ptr(28),
		SectorIndex: ptr(4900),
		SectorPrev:  ptr(5000),
	}
	res = scoreMarket(stressed, cfg)
	assert.Equal(t, 1.0, res.score)
}

func TestClassifyRiskReward(t *testing.T) {
	tests := []struct {
		name   string
		vol    *float64
		upside *float64
		risk   domain.RiskLabel
		reward domain.RewardLabel
	}{
		{"high volatility", ptr(45), ptr(15), domain.RiskLabelHigh, domain.RewardModerate},
		{"volatile with big upside", ptr(30), ptr(35), domain.RiskLabelHigh, domain.RewardVeryHigh},
		{"moderate volatility", ptr(22), ptr(5), domain.RiskLabelMediumHigh, domain.RewardLow},
		{"big upside alone", ptr(15), ptr(25), domain.RiskLabelMediumHigh, domain.RewardHigh},
		{"quiet", ptr(15), ptr(5), domain.RiskLabelMedium, domain.RewardLow},
		{"nothing known", nil, nil, domain.RiskLabelMedium, domain.RewardLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, reward := classifyRiskReward(tt.vol, tt.upside)
			assert.Equal(t, tt.risk, risk)
			assert.Equal(t, tt.reward, reward)
		})
	}
}

func TestTierBoundaries(t *testing.T) {
	s := newScorer()
	cfg := config.DefaultSignals().Buy

	tests := []struct {
		total float64
		tier  domain.RecommendationTier
		ok    bool
	}{
		{60, domain.TierStrongBuy, true},
		{59.9, domain.TierBuy, true},
		{40, domain.TierBuy, true},
		{39.9, domain.TierConsider, true},
		{25, domain.TierConsider, true},
		{24.9, "", false},
	}

	for _, tt := range tests {
		tier, ok := s.tierFor(tt.total, cfg)
		assert.Equal(t, tt.ok, ok, "total %.1f", tt.total)
		assert.Equal(t, tt.tier, tier, "total %.1f", tt.total)
	}
}

func TestScore_TotalIsExactCategorySum(t *testing.T) {
	s := newScorer()
	cfg := config.DefaultSignals()
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)

	// Flat price history keeps the derived technicals deterministic: every
	// momentum window is 0%, volatility 0, MAs equal to price.
	closes := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}

	c := Candidate{
		Symbol:      "XYZ",
		Closes:      closes,
		Volumes:     volumes,
		TargetPrice: ptr(140),
		Records: []domain.EarlySignalRecord{
			insiderBuy(asOf, 1, "ceo", 25_000_000),
			insiderBuy(asOf, 1, "cfo", 5_000_000),
		},
		Indicators: domain.IndicatorSnapshot{
			VIX:         ptr(14),
			SectorIndex: ptr(5100),
			SectorPrev:  ptr(5000),
		},
	}

	res := s.Score(c, asOf, cfg, nil)
	if assert.NotNil(t, res) {
		assert.InDelta(t, res.Scores.Total(), res.TotalScore, 1e-9,
			"total must be the exact sum of the category subscores")
		assert.LessOrEqual(t, res.Scores.EarlySignals, cfg.Buy.Caps.Early)
		assert.LessOrEqual(t, res.Scores.Technical, cfg.Buy.Caps.Technical)
		assert.LessOrEqual(t, res.Scores.RiskReward, cfg.Buy.Caps.RiskReward)
		assert.LessOrEqual(t, res.Scores.Market, cfg.Buy.Caps.Market)
	}
}

func TestScore_SubThresholdCandidateExcluded(t *testing.T) {
	s := newScorer()
	cfg := config.DefaultSignals()
	asOf := time.Now()

	// No records, no history, no indicators: every category scores zero.
	res := s.Score(Candidate{Symbol: "DUD"}, asOf, cfg, nil)
	assert.Nil(t, res)
}

func TestScore_GBPConversion(t *testing.T) {
	s := newScorer()
	cfg := config.DefaultSignals()
	asOf := time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC)

	closes := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
		volumes[i] = 1000
	}

	c := Candidate{
		Symbol:      "XYZ",
		Closes:      closes,
		Volumes:     volumes,
		TargetPrice: ptr(140),
		Records: []domain.EarlySignalRecord{
			insiderBuy(asOf, 1, "ceo", 25_000_000),
			insiderBuy(asOf, 1, "cfo", 5_000_000),
		},
		Indicators: domain.IndicatorSnapshot{VIX: ptr(14)},
	}

	res := s.Score(c, asOf, cfg, ptr(0.8))
	if assert.NotNil(t, res) && assert.NotNil(t, res.CurrentPriceGBP) {
		assert.InDelta(t, 80.0, *res.CurrentPriceGBP, 0.001)
	}
}

func TestRank_Deterministic(t *testing.T) {
	list := []domain.BuyCandidateScore{
		{Symbol: "CCC", TotalScore: 50, Scores: domain.CategoryScores{EarlySignals: 10}},
		{Symbol: "AAA", TotalScore: 50, Scores: domain.CategoryScores{EarlySignals: 20}},
		{Symbol: "BBB", TotalScore: 70},
		{Symbol: "DDD", TotalScore: 50, Scores: domain.CategoryScores{EarlySignals: 20}},
	}

	Rank(list)

	assert.Equal(t, "BBB", list[0].Symbol) // highest total
	assert.Equal(t, "AAA", list[1].Symbol) // tie: higher early, then symbol
	assert.Equal(t, "DDD", list[2].Symbol)
	assert.Equal(t, "CCC", list[3].Symbol)
}
