// Package allocation distributes funds freed by SELL decisions across ranked
// buy candidates, proportional to score, under a hard budget constraint.
package allocation

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/domain"
)

// Result reports what the allocator did with the budget.
type Result struct {
	AvailableFunds float64 `json:"available_funds"`
	Allocated      float64 `json:"allocated"`
	Unallocated    float64 `json:"unallocated"`
	NoFunds        bool    `json:"no_funds"`
}

// Allocator fills in suggested allocations on ranked candidates.
type Allocator struct {
	log zerolog.Logger
}

// New creates a new allocator.
func New(log zerolog.Logger) *Allocator {
	return &Allocator{log: log.With().Str("component", "allocation").Logger()}
}

// AvailableFunds sums the current values of SELL decisions. REDUCE and
// UNKNOWN positions free nothing.
func AvailableFunds(decisions []domain.ActionDecision) float64 {
	total := 0.0
	for _, d := range decisions {
		if d.Action == domain.ActionSell && d.CurrentValue != nil {
			total += *d.CurrentValue
		}
	}
	return total
}

// Allocate distributes funds across candidates proportional to each one's
// share of the total score: allocation(i) = F * score(i) / sum(scores).
// Allocations are rounded down to pennies and the rounding remainder stays
// unspent; it is never redistributed to the top candidate. With F <= 0 no
// candidate receives anything and the result is flagged NoFunds.
func (a *Allocator) Allocate(funds float64, candidates []domain.BuyCandidateScore) Result {
	res := Result{AvailableFunds: funds}

	if funds <= 0 {
		res.NoFunds = true
		for i := range candidates {
			candidates[i].SuggestedAllocation = 0
			candidates[i].SuggestedShares = nil
		}
		a.log.Info().Msg("No funds available for allocation")
		return res
	}

	totalScore := 0.0
	for _, c := range candidates {
		totalScore += c.TotalScore
	}
	if totalScore <= 0 {
		res.Unallocated = funds
		return res
	}

	for i := range candidates {
		c := &candidates[i]

		amount := roundDownPennies(funds * c.TotalScore / totalScore)
		c.SuggestedAllocation = amount
		res.Allocated += amount

		if c.CurrentPriceGBP != nil && *c.CurrentPriceGBP > 0 {
			shares := int(math.Floor(amount / *c.CurrentPriceGBP))
			c.SuggestedShares = &shares
		} else {
			// Unknown price: the amount is still reported, the share count
			// is omitted.
			c.SuggestedShares = nil
		}
	}

	res.Unallocated = funds - res.Allocated

	a.log.Info().
		Float64("funds", funds).
		Float64("allocated", res.Allocated).
		Float64("unallocated", res.Unallocated).
		Int("candidates", len(candidates)).
		Msg("Funds allocated")

	return res
}

func roundDownPennies(v float64) float64 {
	return math.Floor(v*100) / 100
}
