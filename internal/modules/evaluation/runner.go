package evaluation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/clients/disclosures"
	"github.com/foliowatch/sentinel/internal/clients/marketdata"
	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/database/repositories"
	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/internal/modules/candidates"
)

const (
	historyDays     = 60
	insiderLookback = 30
	reportFilePerm  = 0o644
	reportDirPerm   = 0o755
)

// Runner materializes live data through the clients, runs one evaluation and
// persists the outcome. It is the only place fetching and scoring meet.
type Runner struct {
	cfg         *config.Config
	service     *Service
	market      *marketdata.Client
	disclosures *disclosures.Client
	history     *repositories.HistoryRepository
	render      func(*Result) string
	log         zerolog.Logger

	mu         sync.Mutex
	lastResult *Result
}

// NewRunner creates a runner. render turns a result into the report body; it
// is injected so the runner does not import the report package.
func NewRunner(
	cfg *config.Config,
	service *Service,
	market *marketdata.Client,
	disc *disclosures.Client,
	history *repositories.HistoryRepository,
	render func(*Result) string,
	log zerolog.Logger,
) *Runner {
	return &Runner{
		cfg:         cfg,
		service:     service,
		market:      market,
		disclosures: disc,
		history:     history,
		render:      render,
		log:         log.With().Str("component", "runner").Logger(),
	}
}

// LastResult returns the most recent in-memory result, nil before first run.
// Safe against a manual API run racing the scheduled one.
func (r *Runner) LastResult() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastResult
}

// Run executes one full evaluation: load config, fetch data, evaluate,
// persist history and write the report.
func (r *Runner) Run() (*Result, error) {
	portfolio, err := config.LoadPortfolio(r.cfg.PortfolioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	sigCfg, err := config.LoadSignals(r.cfg.SignalsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load signal configuration: %w", err)
	}

	holdings := portfolio.HoldingList()
	in := r.materialize(holdings, sigCfg)

	res, err := r.service.Evaluate(in, portfolio.Rules, sigCfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.lastResult = res
	r.mu.Unlock()

	if err := r.persist(res); err != nil {
		r.log.Error().Err(err).Msg("Failed to persist evaluation")
	}
	if err := r.writeReport(res); err != nil {
		r.log.Error().Err(err).Msg("Failed to write report")
	}

	return res, nil
}

// materialize fetches every input the pipeline needs. Individual fetch
// failures degrade to nil fields; the core flags them downstream.
func (r *Runner) materialize(holdings []domain.Holding, sigCfg *config.Signals) Input {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}

	in := Input{
		Holdings:   holdings,
		Prices:     r.market.GetPrices(symbols),
		FXRate:     r.market.GetFXRate(),
		Indicators: r.market.GetIndicators(),
		AsOf:       time.Now(),
	}

	in.EarlySignals = r.fetchEarlySignals(holdings, sigCfg)
	in.Candidates = r.buildCandidates(in.EarlySignals, in.Indicators, sigCfg)

	mults, err := r.disclosures.GetPutVolumeMultipliers(symbols)
	if err != nil {
		r.log.Warn().Err(err).Msg("Options activity unavailable")
	} else {
		in.PutVolumeMultiplier = mults
	}

	return in
}

func (r *Runner) fetchEarlySignals(holdings []domain.Holding, sigCfg *config.Signals) map[string][]domain.EarlySignalRecord {
	records := make(map[string][]domain.EarlySignalRecord)

	for _, h := range holdings {
		recs, err := r.disclosures.GetInsiderTrades(h.Symbol, insiderLookback)
		if err != nil {
			r.log.Warn().Err(err).Str("symbol", h.Symbol).Msg("Insider data unavailable")
			continue
		}
		records[h.Symbol] = append(records[h.Symbol], recs...)
	}

	legislator, err := r.disclosures.GetLegislatorTrades(sigCfg.Buy.WindowDays)
	if err != nil {
		r.log.Warn().Err(err).Msg("Legislator data unavailable")
	}
	for _, rec := range legislator {
		records[rec.Ticker] = append(records[rec.Ticker], rec)
	}

	return records
}

// buildCandidates assembles the buy-candidate universe with price history
// and analyst targets attached: every watchlist symbol plus any other symbol
// with a recent buy-side disclosure. Watchlist symbols are always evaluated,
// even when the disclosure feed is quiet.
func (r *Runner) buildCandidates(records map[string][]domain.EarlySignalRecord, indicators domain.IndicatorSnapshot, sigCfg *config.Signals) []candidates.Candidate {
	var out []candidates.Candidate

	for _, symbol := range candidateUniverse(records, sigCfg.Buy.Watchlist) {
		hist, err := r.market.GetHistory(symbol, historyDays)
		if err != nil {
			r.log.Warn().Err(err).Str("symbol", symbol).Msg("History unavailable, candidate skipped")
			continue
		}

		out = append(out, candidates.Candidate{
			Symbol:      symbol,
			Records:     records[symbol],
			Closes:      hist.Closes,
			Volumes:     hist.Volumes,
			TargetPrice: r.market.GetTargetPrice(symbol),
			Indicators:  indicators,
		})
	}

	return out
}

// candidateUniverse lists the symbols worth scoring: the configured watchlist
// in its configured order, then every off-watchlist symbol with at least one
// buy-side disclosure, sorted so the fetch order is deterministic.
func candidateUniverse(records map[string][]domain.EarlySignalRecord, watchlist []string) []string {
	seen := make(map[string]bool, len(watchlist))
	universe := make([]string, 0, len(watchlist)+len(records))

	for _, symbol := range watchlist {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		universe = append(universe, symbol)
	}

	var extras []string
	for symbol, recs := range records {
		if seen[symbol] {
			continue
		}
		for _, rec := range recs {
			if rec.Kind.IsBuy() {
				extras = append(extras, symbol)
				break
			}
		}
	}
	sort.Strings(extras)

	return append(universe, extras...)
}

func (r *Runner) persist(res *Result) error {
	return r.history.Save(repositories.HistoryEntry{
		Date:           res.AsOf.Format("2006-01-02"),
		RiskScore:      res.Risk.Score,
		RiskLevel:      string(res.Risk.Level),
		TotalValue:     res.Valuation.Totals.CurrentValue,
		TotalChangePct: res.Valuation.Totals.ChangePct,
		AvailableFunds: res.Allocation.AvailableFunds,
	})
}

func (r *Runner) writeReport(res *Result) error {
	if r.render == nil || r.cfg.ReportsDir == "" {
		return nil
	}

	if err := os.MkdirAll(r.cfg.ReportsDir, reportDirPerm); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(r.cfg.ReportsDir, fmt.Sprintf("report-%s.md", res.AsOf.Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(r.render(res)), reportFilePerm); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	r.log.Info().Str("path", path).Msg("Report written")
	return nil
}
