package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/pkg/logger"
)

func ptr(f float64) *float64 { return &f }

func snapshot(prices map[string]float64) domain.PriceSnapshot {
	return domain.PriceSnapshot{Prices: prices}
}

func TestValue_GBPHolding(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	v := New(log)

	holdings := []domain.Holding{
		{Ticker: "RR.L", Symbol: "RR.L", Shares: 100, Baseline: 500, Currency: domain.CurrencyGBP},
	}
	out := v.Value(holdings, snapshot(map[string]float64{"RR.L": 7.5}), nil)

	assert.Len(t, out.Positions, 1)
	pos := out.Positions[0]
	assert.NotNil(t, pos.CurrentValue)
	assert.InDelta(t, 750.0, *pos.CurrentValue, 0.001)
	assert.InDelta(t, 250.0, *pos.ChangeGBP, 0.001)
	assert.InDelta(t, 50.0, *pos.ChangePct, 0.001)
}

func TestValue_USDHoldingUsesFXRate(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	v := New(log)

	holdings := []domain.Holding{
		{Ticker: "NVDA", Symbol: "NVDA", Shares: 10, Baseline: 800, Currency: domain.CurrencyUSD},
	}
	out := v.Value(holdings, snapshot(map[string]float64{"NVDA": 125}), ptr(0.8))

	pos := out.Positions[0]
	assert.NotNil(t, pos.CurrentValue)
	assert.InDelta(t, 1000.0, *pos.CurrentValue, 0.001) // 10 * 125 * 0.8
	assert.InDelta(t, 25.0, *pos.ChangePct, 0.001)
}

func TestValue_MissingPrice(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	v := New(log)

	holdings := []domain.Holding{
		{Ticker: "GHOST", Symbol: "GHOST", Shares: 5, Baseline: 100, Currency: domain.CurrencyGBP},
	}
	out := v.Value(holdings, snapshot(map[string]float64{}), nil)

	pos := out.Positions[0]
	assert.True(t, pos.PriceMissing)
	assert.Nil(t, pos.CurrentValue)
	assert.Nil(t, pos.ChangePct)
	assert.Len(t, out.Warnings, 1)

	// Unavailable positions are excluded from totals entirely.
	assert.Equal(t, 0.0, out.Totals.CurrentValue)
	assert.Equal(t, 0.0, out.Totals.BaselineValue)
}

func TestValue_MissingFXRate(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	v := New(log)

	holdings := []domain.Holding{
		{Ticker: "NVDA", Symbol: "NVDA", Shares: 10, Baseline: 800, Currency: domain.CurrencyUSD},
	}
	out := v.Value(holdings, snapshot(map[string]float64{"NVDA": 125}), nil)

	pos := out.Positions[0]
	assert.True(t, pos.FXMissing)
	assert.Nil(t, pos.CurrentValue)
	assert.Len(t, out.Warnings, 1)
}

func TestValue_ZeroBaseline(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	v := New(log)

	holdings := []domain.Holding{
		{Ticker: "NEW.L", Symbol: "NEW.L", Shares: 10, Baseline: 0, Currency: domain.CurrencyGBP},
	}
	out := v.Value(holdings, snapshot(map[string]float64{"NEW.L": 5}), nil)

	pos := out.Positions[0]
	assert.True(t, pos.ZeroBaseline)
	assert.NotNil(t, pos.CurrentValue)
	assert.Nil(t, pos.ChangePct, "percentage must not be computed against a zero baseline")

	// Absolute totals still include the holding.
	assert.InDelta(t, 50.0, out.Totals.CurrentValue, 0.001)
}

func TestValue_TotalsAreBaselineWeighted(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	v := New(log)

	// +50% on a £100 holding and -10% on a £1000 holding: the aggregate must
	// come from sums (-5.45%), not the average of percentages (+20%).
	holdings := []domain.Holding{
		{Ticker: "SMALL.L", Symbol: "SMALL.L", Shares: 1, Baseline: 100, Currency: domain.CurrencyGBP},
		{Ticker: "BIG.L", Symbol: "BIG.L", Shares: 1, Baseline: 1000, Currency: domain.CurrencyGBP},
	}
	out := v.Value(holdings, snapshot(map[string]float64{"SMALL.L": 150, "BIG.L": 900}), nil)

	assert.InDelta(t, 1050.0, out.Totals.CurrentValue, 0.001)
	assert.InDelta(t, -50.0, out.Totals.ChangeGBP, 0.001)
	assert.InDelta(t, -4.545, out.Totals.ChangePct, 0.01)
}
