package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/pkg/logger"
)

func ptr(f float64) *float64 { return &f }

func newService() *Service {
	return NewService(logger.New(logger.Config{Level: "error", Pretty: false}))
}

func pipelineInput() Input {
	return Input{
		Holdings: []domain.Holding{
			{Ticker: "AAA", Symbol: "AAA", Shares: 10, Baseline: 1000, Currency: domain.CurrencyGBP, RiskBucket: "core-ai"},
			{Ticker: "BBB", Symbol: "BBB", Shares: 20, Baseline: 1000, Currency: domain.CurrencyGBP, RiskBucket: "high-beta-ai"},
		},
		Prices: domain.PriceSnapshot{Prices: map[string]float64{
			"AAA": 145,  // +45%, past take-profit
			"BBB": 47.5, // -5%, inside the band
		}},
		Indicators: domain.IndicatorSnapshot{
			VIX:         ptr(14),
			CreditProxy: ptr(78),
			Yield10Y:    ptr(4.0),
			Benchmark:   ptr(500), BenchmarkPrev: ptr(500),
			SectorIndex: ptr(5000), SectorPrev: ptr(5000),
			Bellwether: ptr(130), BellwetherPrev: ptr(130),
		},
		AsOf: time.Date(2026, 8, 27, 18, 0, 0, 0, time.UTC),
	}
}

func TestEvaluate_NilConfigIsFatal(t *testing.T) {
	s := newService()

	_, err := s.Evaluate(pipelineInput(), config.PositionRules{TakeProfitPct: 40, CutLossPct: -25}, nil)
	assert.Error(t, err)
}

func TestEvaluate_InvalidConfigIsFatal(t *testing.T) {
	s := newService()
	cfg := config.DefaultSignals()
	cfg.Macro.VIXCritical = cfg.Macro.VIXWarning // broken ordering

	_, err := s.Evaluate(pipelineInput(), config.PositionRules{TakeProfitPct: 40, CutLossPct: -25}, &cfg)
	assert.Error(t, err)
}

func TestEvaluate_FullPipeline(t *testing.T) {
	s := newService()
	cfg := config.DefaultSignals()
	rules := config.PositionRules{TakeProfitPct: 40, CutLossPct: -25}

	res, err := s.Evaluate(pipelineInput(), rules, &cfg)
	require.NoError(t, err)

	// Valuation: 1450 + 950 against 2000 baseline.
	assert.InDelta(t, 2400.0, res.Valuation.Totals.CurrentValue, 0.001)
	assert.InDelta(t, 20.0, res.Valuation.Totals.ChangePct, 0.001)

	// Calm indicators, positive P&L: no risk signals.
	assert.Equal(t, 0, res.Risk.Score)
	assert.Equal(t, domain.RiskLow, res.Risk.Level)

	// AAA past take-profit is SELL, BBB holds.
	require.Len(t, res.Decisions, 2)
	assert.Equal(t, domain.ActionSell, res.Decisions[0].Action)
	assert.Equal(t, domain.ActionHold, res.Decisions[1].Action)

	// The SELL frees AAA's current value for allocation.
	assert.InDelta(t, 1450.0, res.Allocation.AvailableFunds, 0.001)
}

func TestEvaluate_DegradedDataIsFlagged(t *testing.T) {
	s := newService()
	cfg := config.DefaultSignals()
	rules := config.PositionRules{TakeProfitPct: 40, CutLossPct: -25}

	in := pipelineInput()
	in.Prices = domain.PriceSnapshot{Prices: map[string]float64{}} // all prices gone
	in.Indicators = domain.IndicatorSnapshot{}

	res, err := s.Evaluate(in, rules, &cfg)
	require.NoError(t, err, "degraded inputs must not abort the run")

	for _, d := range res.Decisions {
		assert.Equal(t, domain.ActionUnknown, d.Action)
	}
	assert.NotEmpty(t, res.DataQuality)
	assert.Equal(t, 0, res.Risk.Score, "missing observations never inflate risk")
}

func TestEvaluate_InvalidHoldingsScreenedPerItem(t *testing.T) {
	s := newService()
	cfg := config.DefaultSignals()
	rules := config.PositionRules{TakeProfitPct: 40, CutLossPct: -25}

	in := pipelineInput()
	in.Holdings = append(in.Holdings,
		domain.Holding{Ticker: "", Symbol: "NONAME", Shares: 1, Baseline: 10},
		domain.Holding{Ticker: "NEG", Symbol: "NEG", Shares: -5, Baseline: 10},
	)

	res, err := s.Evaluate(in, rules, &cfg)
	require.NoError(t, err)

	assert.Len(t, res.InputErrors, 2)
	assert.Len(t, res.Valuation.Positions, 2, "invalid holdings are skipped, valid ones still run")
}

func TestEvaluate_MalformedRecordsRejected(t *testing.T) {
	s := newService()
	cfg := config.DefaultSignals()
	rules := config.PositionRules{TakeProfitPct: 40, CutLossPct: -25}

	in := pipelineInput()
	in.EarlySignals = map[string][]domain.EarlySignalRecord{
		"AAA": {
			{Kind: domain.SignalInsiderBuy, Ticker: "AAA", Actor: "ceo"}, // zero date
			{Kind: domain.SignalInsiderBuy, Ticker: "AAA", Actor: "cfo", Date: in.AsOf.AddDate(0, 0, -1)},
		},
	}

	res, err := s.Evaluate(in, rules, &cfg)
	require.NoError(t, err)

	require.Len(t, res.InputErrors, 1)
	assert.Equal(t, "date", res.InputErrors[0].Field)
}
