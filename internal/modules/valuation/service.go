// Package valuation computes per-holding and aggregate P&L from baseline and
// live price snapshots.
package valuation

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/domain"
)

// Position is one valued holding. CurrentValue, ChangeGBP and ChangePct are
// nil when the valuation could not be computed; the reason is recorded on the
// position rather than silently defaulted.
type Position struct {
	domain.Holding
	CurrentValue *float64 `json:"current_value_gbp"`
	ChangeGBP    *float64 `json:"change_gbp"`
	ChangePct    *float64 `json:"change_pct"`
	PriceMissing bool     `json:"price_missing"`
	FXMissing    bool     `json:"fx_missing"`
	ZeroBaseline bool     `json:"zero_baseline"`
}

// Totals aggregates portfolio value from sums, not from an average of
// percentages, so every holding is weighted by its baseline value.
type Totals struct {
	BaselineValue float64 `json:"total_baseline_value"`
	CurrentValue  float64 `json:"total_current_value"`
	ChangeGBP     float64 `json:"total_change_gbp"`
	ChangePct     float64 `json:"total_change_pct"`
}

// Valuation is the output of one valuation pass.
type Valuation struct {
	Positions []Position `json:"positions"`
	Totals    Totals     `json:"totals"`
	Warnings  []string   `json:"warnings"`
}

// Valuator values a holding set against a price snapshot.
type Valuator struct {
	log zerolog.Logger
}

// New creates a new valuator.
func New(log zerolog.Logger) *Valuator {
	return &Valuator{log: log.With().Str("component", "valuation").Logger()}
}

// Value computes per-holding and aggregate P&L. fxRate converts USD to GBP;
// nil marks every USD valuation unavailable instead of guessing a rate.
func (v *Valuator) Value(holdings []domain.Holding, prices domain.PriceSnapshot, fxRate *float64) Valuation {
	out := Valuation{Positions: make([]Position, 0, len(holdings))}

	for _, h := range holdings {
		pos := Position{Holding: h}

		price, ok := prices.Price(h.Symbol)
		if !ok {
			pos.PriceMissing = true
			out.Warnings = append(out.Warnings, fmt.Sprintf("price unavailable for %s", h.Symbol))
			out.Positions = append(out.Positions, pos)
			continue
		}

		native := h.Shares * price
		var current float64
		switch h.Currency {
		case domain.CurrencyUSD:
			if fxRate == nil {
				pos.FXMissing = true
				out.Warnings = append(out.Warnings, fmt.Sprintf("FX rate unavailable, cannot value %s", h.Symbol))
				out.Positions = append(out.Positions, pos)
				continue
			}
			current = native * *fxRate
		default:
			current = native
		}

		pos.CurrentValue = &current

		if h.Baseline == 0 {
			// Division guarded: the holding counts in absolute totals with a
			// zero baseline but is excluded from percentage math.
			pos.ZeroBaseline = true
			out.Warnings = append(out.Warnings, fmt.Sprintf("zero baseline for %s, change %% unavailable", h.Ticker))
		} else {
			change := current - h.Baseline
			pct := change / h.Baseline * 100
			pos.ChangeGBP = &change
			pos.ChangePct = &pct
		}

		out.Positions = append(out.Positions, pos)
	}

	out.Totals = aggregate(out.Positions)

	v.log.Debug().
		Float64("total_value", out.Totals.CurrentValue).
		Float64("change_pct", out.Totals.ChangePct).
		Int("warnings", len(out.Warnings)).
		Msg("Portfolio valued")

	return out
}

func aggregate(positions []Position) Totals {
	var t Totals
	for _, p := range positions {
		if p.CurrentValue == nil {
			// Unavailable valuations are reported per-position but excluded
			// from totals entirely.
			continue
		}
		t.CurrentValue += *p.CurrentValue
		t.BaselineValue += p.Baseline
	}

	t.ChangeGBP = t.CurrentValue - t.BaselineValue
	if t.BaselineValue > 0 {
		t.ChangePct = t.ChangeGBP / t.BaselineValue * 100
	}
	return t
}
