package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/foliowatch/sentinel/internal/domain"
)

// PositionRules holds the hard per-position thresholds, in percent.
type PositionRules struct {
	TakeProfitPct float64 `yaml:"take_profit_pct"`
	CutLossPct    float64 `yaml:"cut_loss_pct"`
}

// Portfolio is the portfolio configuration file: the holding set plus the
// position rules applied to it.
type Portfolio struct {
	Holdings map[string]domain.Holding `yaml:"holdings"`
	Rules    PositionRules             `yaml:"rules"`
}

// HoldingList returns the holdings with the map key filled in as the ticker,
// sorted by ticker so reports come out in a stable order.
func (p *Portfolio) HoldingList() []domain.Holding {
	out := make([]domain.Holding, 0, len(p.Holdings))
	for ticker, h := range p.Holdings {
		h.Ticker = ticker
		if h.Symbol == "" {
			h.Symbol = ticker
		}
		if h.Currency == "" {
			h.Currency = inferCurrency(h.Symbol)
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// LoadPortfolio reads and validates the portfolio configuration file.
// A malformed file is a fatal configuration error.
func LoadPortfolio(path string) (*Portfolio, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio config: %w", err)
	}

	var p Portfolio
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio config: %w", err)
	}

	if p.Rules.TakeProfitPct == 0 {
		p.Rules.TakeProfitPct = 40.0
	}
	if p.Rules.CutLossPct == 0 {
		p.Rules.CutLossPct = -25.0
	}

	if err := p.validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *Portfolio) validate() error {
	if p.Rules.TakeProfitPct <= 0 {
		return fmt.Errorf("rules.take_profit_pct must be positive, got %v", p.Rules.TakeProfitPct)
	}
	if p.Rules.CutLossPct >= 0 {
		return fmt.Errorf("rules.cut_loss_pct must be negative, got %v", p.Rules.CutLossPct)
	}
	return nil
}

// inferCurrency follows the broker convention used in the portfolio file:
// London-listed symbols carry a .L suffix, everything else trades in USD.
func inferCurrency(symbol string) domain.Currency {
	if len(symbol) > 2 && symbol[len(symbol)-2:] == ".L" {
		return domain.CurrencyGBP
	}
	return domain.CurrencyUSD
}
