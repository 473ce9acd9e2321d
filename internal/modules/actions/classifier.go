// Package actions classifies each valued holding into HOLD, SELL, REDUCE or
// UNKNOWN by applying hard P&L thresholds and signal-driven escalation.
package actions

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/internal/modules/signals"
	"github.com/foliowatch/sentinel/internal/modules/valuation"
)

// Classifier applies per-position rules modulated by active signals.
type Classifier struct {
	log zerolog.Logger
}

// New creates a new action classifier.
func New(log zerolog.Logger) *Classifier {
	return &Classifier{log: log.With().Str("component", "actions").Logger()}
}

// Classify decides an action per position. Precedence is strict: a holding
// past its take-profit or stop-loss threshold is SELL regardless of any
// simultaneously firing signal, and is never downgraded to REDUCE. Holdings
// without a usable valuation come back UNKNOWN, never a silent HOLD.
func (c *Classifier) Classify(
	positions []valuation.Position,
	rules config.PositionRules,
	assessment signals.Assessment,
	cfg config.Signals,
) []domain.ActionDecision {
	decisions := make([]domain.ActionDecision, 0, len(positions))

	for _, pos := range positions {
		d := domain.ActionDecision{
			Ticker:       pos.Ticker,
			ChangePct:    pos.ChangePct,
			CurrentValue: pos.CurrentValue,
		}

		if pos.CurrentValue == nil {
			d.Action = domain.ActionUnknown
			if pos.FXMissing {
				d.Reason = "FX rate unavailable"
			} else {
				d.Reason = "price data unavailable"
			}
			decisions = append(decisions, d)
			continue
		}

		if pos.ChangePct != nil {
			if *pos.ChangePct >= rules.TakeProfitPct {
				d.Action = domain.ActionSell
				d.Reason = fmt.Sprintf("take profit: +%.1f%% (threshold +%.0f%%)", *pos.ChangePct, rules.TakeProfitPct)
				decisions = append(decisions, d)
				continue
			}
			if *pos.ChangePct <= rules.CutLossPct {
				d.Action = domain.ActionSell
				d.Reason = fmt.Sprintf("stop loss: %.1f%% (threshold %.0f%%)", *pos.ChangePct, rules.CutLossPct)
				decisions = append(decisions, d)
				continue
			}
		}

		d.Action, d.Reason = c.escalate(pos, assessment, cfg)
		decisions = append(decisions, d)
	}

	return decisions
}

// escalate checks the triggered signal set against the holding's risk bucket
// policy. SellOn beats ReduceOn; no match means HOLD.
func (c *Classifier) escalate(pos valuation.Position, assessment signals.Assessment, cfg config.Signals) (domain.Action, string) {
	triggered := make([]string, 0, len(assessment.MacroSignals)+len(assessment.SectorSignals))
	triggered = append(triggered, assessment.MacroSignals...)
	triggered = append(triggered, assessment.SectorSignals...)
	triggered = append(triggered, assessment.BySymbol[pos.Symbol]...)

	policy := cfg.PolicyFor(pos.RiskBucket)

	for _, sig := range triggered {
		if contains(policy.SellOn, sig) {
			return domain.ActionSell, fmt.Sprintf("de-risk on %s (bucket %s)", sig, pos.RiskBucket)
		}
	}
	for _, sig := range triggered {
		if contains(policy.ReduceOn, sig) {
			return domain.ActionReduce, fmt.Sprintf("signal %s (bucket %s)", sig, pos.RiskBucket)
		}
	}

	return domain.ActionHold, "within tolerance band"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
