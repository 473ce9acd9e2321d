package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/pkg/logger"
)

func ptr(f float64) *float64 { return &f }

func candidate(symbol string, score float64, priceGBP *float64) domain.BuyCandidateScore {
	return domain.BuyCandidateScore{
		Symbol:          symbol,
		TotalScore:      score,
		CurrentPriceGBP: priceGBP,
	}
}

func TestAvailableFunds_SellOnly(t *testing.T) {
	decisions := []domain.ActionDecision{
		{Ticker: "A", Action: domain.ActionSell, CurrentValue: ptr(1000)},
		{Ticker: "B", Action: domain.ActionReduce, CurrentValue: ptr(500)},
		{Ticker: "C", Action: domain.ActionHold, CurrentValue: ptr(300)},
		{Ticker: "D", Action: domain.ActionUnknown, CurrentValue: nil},
		{Ticker: "E", Action: domain.ActionSell, CurrentValue: ptr(250)},
	}

	assert.InDelta(t, 1250.0, AvailableFunds(decisions), 0.001)
}

func TestAllocate_ProportionalAndBounded(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	a := New(log)

	cands := []domain.BuyCandidateScore{
		candidate("AAA", 60, ptr(10)),
		candidate("BBB", 40, ptr(25)),
	}
	res := a.Allocate(1000, cands)

	assert.InDelta(t, 600.0, cands[0].SuggestedAllocation, 0.001)
	assert.InDelta(t, 400.0, cands[1].SuggestedAllocation, 0.001)
	assert.Equal(t, 60, *cands[0].SuggestedShares)
	assert.Equal(t, 16, *cands[1].SuggestedShares)

	total := cands[0].SuggestedAllocation + cands[1].SuggestedAllocation
	assert.LessOrEqual(t, total, res.AvailableFunds)
	assert.InDelta(t, res.Allocated, total, 0.001)
}

func TestAllocate_RoundingRemainderStaysUnspent(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	a := New(log)

	// 100 / 3 does not divide evenly in pennies.
	cands := []domain.BuyCandidateScore{
		candidate("AAA", 1, ptr(1)),
		candidate("BBB", 1, ptr(1)),
		candidate("CCC", 1, ptr(1)),
	}
	res := a.Allocate(100, cands)

	sum := 0.0
	for _, c := range cands {
		assert.InDelta(t, 33.33, c.SuggestedAllocation, 0.001)
		sum += c.SuggestedAllocation
	}
	assert.LessOrEqual(t, sum, 100.0)
	assert.Greater(t, res.Unallocated, 0.0)
	assert.InDelta(t, 100.0-sum, res.Unallocated, 0.0001)
}

func TestAllocate_NoFunds(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	a := New(log)

	cands := []domain.BuyCandidateScore{candidate("AAA", 60, ptr(10))}
	res := a.Allocate(0, cands)

	assert.True(t, res.NoFunds)
	assert.Equal(t, 0.0, cands[0].SuggestedAllocation)
	assert.Nil(t, cands[0].SuggestedShares)
}

func TestAllocate_UnknownPriceOmitsShares(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	a := New(log)

	cands := []domain.BuyCandidateScore{candidate("AAA", 60, nil)}
	a.Allocate(500, cands)

	assert.InDelta(t, 500.0, cands[0].SuggestedAllocation, 0.001)
	assert.Nil(t, cands[0].SuggestedShares)
}

func TestAllocate_MonotoneInScore(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Pretty: false})
	a := New(log)

	cands := []domain.BuyCandidateScore{
		candidate("HI", 80, ptr(1)),
		candidate("LO", 30, ptr(1)),
	}
	a.Allocate(777, cands)

	assert.Greater(t, cands[0].SuggestedAllocation, cands[1].SuggestedAllocation)
}
