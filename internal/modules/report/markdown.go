// Package report renders evaluation results into a deterministic Markdown
// daily report. No decision logic lives here.
package report

import (
	"fmt"
	"strings"

	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/internal/modules/evaluation"
)

// Markdown renders the daily risk report for one evaluation result.
func Markdown(res *evaluation.Result) string {
	var b strings.Builder

	date := res.AsOf.Format("2006-01-02")
	fmt.Fprintf(&b, "# Daily Risk Report — %s\n\n", date)

	fmt.Fprintf(&b, "## Risk Assessment\n\n")
	fmt.Fprintf(&b, "**Risk Score: %d/100 (%s)**\n\n", res.Risk.Score, res.Risk.Level)
	writeSignalList(&b, "Macro signals", res.Risk.MacroSignals)
	writeSignalList(&b, "Sector signals", res.Risk.SectorSignals)
	writeSignalList(&b, "Stock signals", res.Risk.StockSignals)

	fmt.Fprintf(&b, "## Portfolio\n\n")
	fmt.Fprintf(&b, "| Ticker | Baseline (£) | Current (£) | Change | Action | Reason |\n")
	fmt.Fprintf(&b, "|--------|-------------:|------------:|-------:|--------|--------|\n")

	actions := map[string]domain.ActionDecision{}
	for _, d := range res.Decisions {
		actions[d.Ticker] = d
	}

	for _, pos := range res.Valuation.Positions {
		current := "n/a"
		if pos.CurrentValue != nil {
			current = fmt.Sprintf("%.2f", *pos.CurrentValue)
		}
		change := "n/a"
		if pos.ChangePct != nil {
			change = fmt.Sprintf("%+.2f%%", *pos.ChangePct)
		}
		d := actions[pos.Ticker]
		fmt.Fprintf(&b, "| %s | %.2f | %s | %s | %s | %s |\n",
			pos.Ticker, pos.Baseline, current, change, d.Action, d.Reason)
	}

	t := res.Valuation.Totals
	fmt.Fprintf(&b, "\n**Total: £%.2f (baseline £%.2f, %+.2f%%)**\n\n",
		t.CurrentValue, t.BaselineValue, t.ChangePct)

	fmt.Fprintf(&b, "## Buy Candidates\n\n")
	if res.Allocation.NoFunds {
		fmt.Fprintf(&b, "No funds available for reallocation.\n\n")
	}
	if len(res.Candidates) == 0 {
		fmt.Fprintf(&b, "No candidates met the minimum score.\n\n")
	} else {
		fmt.Fprintf(&b, "| Symbol | Tier | Score | Risk | Reward | Allocation (£) | Shares |\n")
		fmt.Fprintf(&b, "|--------|------|------:|------|--------|---------------:|-------:|\n")
		for _, c := range res.Candidates {
			shares := "—"
			if c.SuggestedShares != nil {
				shares = fmt.Sprintf("%d", *c.SuggestedShares)
			}
			fmt.Fprintf(&b, "| %s | %s | %.1f | %s | %s | %.2f | %s |\n",
				c.Symbol, c.Tier, c.TotalScore, c.RiskLabel, c.RewardLabel,
				c.SuggestedAllocation, shares)
		}
		fmt.Fprintf(&b, "\n")

		for _, c := range res.Candidates {
			if len(c.Reasons) == 0 {
				continue
			}
			fmt.Fprintf(&b, "**%s** — %s\n\n", c.Symbol, strings.Join(c.Reasons, "; "))
		}
	}

	if len(res.DataQuality) > 0 || len(res.InputErrors) > 0 {
		fmt.Fprintf(&b, "## Data Quality\n\n")
		for _, w := range res.DataQuality {
			fmt.Fprintf(&b, "- ⚠️ %s\n", w)
		}
		for _, e := range res.InputErrors {
			fmt.Fprintf(&b, "- ❌ %s %s: %s\n", e.Ticker, e.Field, e.Detail)
		}
		fmt.Fprintf(&b, "\n")
	}

	return b.String()
}

func writeSignalList(b *strings.Builder, title string, signals []string) {
	if len(signals) == 0 {
		fmt.Fprintf(b, "%s: none triggered\n\n", title)
		return
	}
	fmt.Fprintf(b, "%s:\n\n", title)
	for _, s := range signals {
		fmt.Fprintf(b, "- %s\n", s)
	}
	fmt.Fprintf(b, "\n")
}
