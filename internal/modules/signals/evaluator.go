// Package signals evaluates macro, sector and stock-level risk signals and
// aggregates them into a bounded 0-100 risk score with a discrete level.
package signals

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
)

// Input carries the already-materialized observations for one evaluation run.
// Nothing here blocks; fetching belongs to the data clients.
type Input struct {
	Indicators domain.IndicatorSnapshot

	// StockRecords holds early-signal disclosures per symbol, time-ordered.
	StockRecords map[string][]domain.EarlySignalRecord

	// PutVolumeMultiplier holds unusual options activity per symbol: current
	// put volume relative to its trailing average. nil entries are skipped.
	PutVolumeMultiplier map[string]*float64

	// PortfolioChangePct is the aggregate P&L from the valuator, nil when the
	// valuation degraded to the point of being unusable.
	PortfolioChangePct *float64
}

// Assessment is the evaluator output: the portfolio-wide risk assessment plus
// the per-symbol signal sets the action classifier matches bucket policies
// against.
type Assessment struct {
	domain.RiskAssessment
	BySymbol map[string][]string `json:"by_symbol"`
}

// Evaluator computes risk assessments. It keeps no state between calls.
type Evaluator struct {
	log zerolog.Logger
}

// New creates a new signal evaluator.
func New(log zerolog.Logger) *Evaluator {
	return &Evaluator{log: log.With().Str("component", "signals").Logger()}
}

// Evaluate runs every configured rule against the snapshot. Rules with
// missing inputs are skipped and recorded in MissingInputs, never treated as
// triggers. The total is clamped to [0,100].
func (e *Evaluator) Evaluate(in Input, cfg config.Signals) Assessment {
	a := Assessment{BySymbol: map[string][]string{}}
	score := 0

	score += e.evaluateMacro(in.Indicators, cfg.Macro, &a)
	score += e.evaluateSector(in.Indicators, cfg.Sector, &a)
	score += e.evaluateStock(in, cfg.Stock, &a)

	if in.PortfolioChangePct == nil {
		a.MissingInputs = append(a.MissingInputs, "portfolio_change_pct")
	} else if *in.PortfolioChangePct <= cfg.Portfolio.SevereLossPct {
		score += cfg.Portfolio.SeverePoints
	} else if *in.PortfolioChangePct <= cfg.Portfolio.ModerateLossPct {
		score += cfg.Portfolio.ModeratePoints
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	a.Score = score
	a.Level = cfg.LevelFor(score)

	e.log.Info().
		Int("score", a.Score).
		Str("level", string(a.Level)).
		Strs("macro", a.MacroSignals).
		Strs("sector", a.SectorSignals).
		Strs("missing", a.MissingInputs).
		Msg("Risk assessment computed")

	return a
}

// evaluateMacro applies the VIX, credit-proxy and yield rules. The critical
// VIX tier supersedes the warning tier for that signal, never both.
func (e *Evaluator) evaluateMacro(ind domain.IndicatorSnapshot, cfg config.MacroThresholds, a *Assessment) int {
	points := 0

	if ind.VIX == nil {
		a.MissingInputs = append(a.MissingInputs, "VIX")
	} else if *ind.VIX >= cfg.VIXCritical {
		a.MacroSignals = append(a.MacroSignals, config.SignalVIXCritical)
		points += cfg.VIXCriticalPoints
	} else if *ind.VIX >= cfg.VIXWarning {
		a.MacroSignals = append(a.MacroSignals, config.SignalVIXWarning)
		points += cfg.VIXWarningPoints
	}

	if ind.CreditProxy == nil {
		a.MissingInputs = append(a.MissingInputs, "credit_proxy")
	} else if *ind.CreditProxy < cfg.CreditFloor {
		a.MacroSignals = append(a.MacroSignals, config.SignalCreditStress)
		points += cfg.CreditPoints
	}

	if ind.Yield10Y == nil {
		a.MissingInputs = append(a.MissingInputs, "yield_10y")
	} else if *ind.Yield10Y > cfg.YieldCeiling {
		a.MacroSignals = append(a.MacroSignals, config.SignalYieldSpike)
		points += cfg.YieldPoints
	}

	return points
}

// evaluateSector applies the bellwether divergence and sector momentum rules.
// Divergence fires when the bellwether drops hard while the benchmark stays
// inside the flat band over the same window.
func (e *Evaluator) evaluateSector(ind domain.IndicatorSnapshot, cfg config.SectorThresholds, a *Assessment) int {
	points := 0

	bellChange := dailyChange(ind.Bellwether, ind.BellwetherPrev)
	benchChange := dailyChange(ind.Benchmark, ind.BenchmarkPrev)
	if bellChange == nil || benchChange == nil {
		a.MissingInputs = append(a.MissingInputs, "bellwether_divergence_inputs")
	} else if *bellChange <= cfg.DivergenceDropPct && abs(*benchChange) <= cfg.FlatBandPct {
		a.SectorSignals = append(a.SectorSignals, config.SignalDivergence)
		points += cfg.DivergencePoints
	}

	sectorChange := dailyChange(ind.SectorIndex, ind.SectorPrev)
	if sectorChange == nil {
		a.MissingInputs = append(a.MissingInputs, "sector_momentum_inputs")
	} else if *sectorChange <= cfg.MomentumDropPct {
		a.SectorSignals = append(a.SectorSignals, config.SignalSectorMomentum)
		points += cfg.MomentumPoints
	}

	return points
}

// evaluateStock applies insider-sell cluster and options-activity rules per
// symbol. Within each rule the critical tier supersedes the warning tier.
func (e *Evaluator) evaluateStock(in Input, cfg config.StockThresholds, a *Assessment) int {
	points := 0

	watch := map[string]bool{}
	for _, s := range cfg.OptionsWatchlist {
		watch[s] = true
	}

	symbols := make([]string, 0, len(in.StockRecords))
	for sym := range in.StockRecords {
		symbols = append(symbols, sym)
	}
	for sym := range in.PutVolumeMultiplier {
		if _, seen := in.StockRecords[sym]; !seen {
			symbols = append(symbols, sym)
		}
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		sells := 0
		for _, rec := range in.StockRecords[sym] {
			if rec.Kind == domain.SignalInsiderSell {
				sells++
			}
		}

		if sells >= cfg.InsiderCriticalCluster {
			points += cfg.InsiderCriticalPoints
			e.mark(a, sym, config.SignalInsiderCritical)
		} else if sells >= cfg.InsiderWarningCluster {
			points += cfg.InsiderWarningPoints
			e.mark(a, sym, config.SignalInsiderWarning)
		}

		if mult := in.PutVolumeMultiplier[sym]; mult != nil && (len(watch) == 0 || watch[sym]) {
			if *mult >= cfg.OptionsCriticalMult {
				points += cfg.OptionsCriticalPoints
				e.mark(a, sym, config.SignalOptionsCritical)
			} else if *mult >= cfg.OptionsWarningMult {
				points += cfg.OptionsWarningPoints
				e.mark(a, sym, config.SignalOptionsWarning)
			}
		}
	}

	return points
}

func (e *Evaluator) mark(a *Assessment, symbol, signal string) {
	a.BySymbol[symbol] = append(a.BySymbol[symbol], signal)
	a.StockSignals = append(a.StockSignals, fmt.Sprintf("%s:%s", symbol, signal))
}

func dailyChange(current, prev *float64) *float64 {
	if current == nil || prev == nil || *prev <= 0 {
		return nil
	}
	c := (*current - *prev) / *prev * 100
	return &c
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
