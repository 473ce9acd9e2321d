// Package evaluation wires the scoring core into a single stateless pass:
// valuation, signal evaluation, action classification, candidate scoring and
// allocation over already-materialized snapshots.
package evaluation

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
	"github.com/foliowatch/sentinel/internal/modules/actions"
	"github.com/foliowatch/sentinel/internal/modules/allocation"
	"github.com/foliowatch/sentinel/internal/modules/candidates"
	"github.com/foliowatch/sentinel/internal/modules/signals"
	"github.com/foliowatch/sentinel/internal/modules/valuation"
)

// Input is everything one evaluation run consumes. All of it is plain data:
// fetching, caching and timeouts belong to the collaborators that built it.
type Input struct {
	Holdings            []domain.Holding
	Prices              domain.PriceSnapshot
	FXRate              *float64
	Indicators          domain.IndicatorSnapshot
	EarlySignals        map[string][]domain.EarlySignalRecord
	PutVolumeMultiplier map[string]*float64
	Candidates          []candidates.Candidate
	AsOf                time.Time
}

// Result is the full output of one evaluation run. Degraded computations are
// flagged in DataQuality and InputErrors; partial data never silently becomes
// a confident answer.
type Result struct {
	AsOf        time.Time                  `json:"as_of"`
	Valuation   valuation.Valuation        `json:"valuation"`
	Risk        signals.Assessment         `json:"risk"`
	Decisions   []domain.ActionDecision    `json:"decisions"`
	Candidates  []domain.BuyCandidateScore `json:"buy_candidates"`
	Allocation  allocation.Result          `json:"allocation"`
	InputErrors []domain.InputError        `json:"input_errors"`
	DataQuality []string                   `json:"data_quality"`
}

// Service runs evaluations. It holds only collaborators and retains no state
// across calls, so parallel runs over independent portfolios are safe.
type Service struct {
	valuator   *valuation.Valuator
	evaluator  *signals.Evaluator
	classifier *actions.Classifier
	scorer     *candidates.Scorer
	allocator  *allocation.Allocator
	log        zerolog.Logger
}

// NewService creates an evaluation service.
func NewService(log zerolog.Logger) *Service {
	return &Service{
		valuator:   valuation.New(log),
		evaluator:  signals.New(log),
		classifier: actions.New(log),
		scorer:     candidates.New(log),
		allocator:  allocation.New(log),
		log:        log.With().Str("component", "evaluation").Logger(),
	}
}

// Evaluate runs the full pipeline. A nil or invalid threshold configuration
// is fatal for the run: scoring against broken thresholds would produce
// meaningless results. Everything else degrades per item.
func (s *Service) Evaluate(in Input, rules config.PositionRules, cfg *config.Signals) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("signal configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signal configuration: %w", err)
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	res := &Result{AsOf: asOf}

	holdings := s.screenHoldings(in.Holdings, res)
	earlySignals := s.screenRecords(in.EarlySignals, res)

	res.Valuation = s.valuator.Value(holdings, in.Prices, in.FXRate)

	var pnlPct *float64
	if res.Valuation.Totals.BaselineValue > 0 {
		pnlPct = &res.Valuation.Totals.ChangePct
	}

	res.Risk = s.evaluator.Evaluate(signals.Input{
		Indicators:          in.Indicators,
		StockRecords:        earlySignals,
		PutVolumeMultiplier: in.PutVolumeMultiplier,
		PortfolioChangePct:  pnlPct,
	}, *cfg)

	res.Decisions = s.classifier.Classify(res.Valuation.Positions, rules, res.Risk, *cfg)

	res.Candidates = s.scorer.ScoreAll(in.Candidates, asOf, *cfg, in.FXRate)

	funds := allocation.AvailableFunds(res.Decisions)
	res.Allocation = s.allocator.Allocate(funds, res.Candidates)

	res.DataQuality = append(res.DataQuality, res.Valuation.Warnings...)
	for _, missing := range res.Risk.MissingInputs {
		res.DataQuality = append(res.DataQuality, fmt.Sprintf("%s unavailable, rule skipped", missing))
	}

	s.log.Info().
		Int("risk_score", res.Risk.Score).
		Str("risk_level", string(res.Risk.Level)).
		Int("decisions", len(res.Decisions)).
		Int("buy_candidates", len(res.Candidates)).
		Float64("available_funds", funds).
		Msg("Evaluation completed")

	return res, nil
}

// screenHoldings rejects invalid holdings at the boundary, per item, without
// aborting the run.
func (s *Service) screenHoldings(holdings []domain.Holding, res *Result) []domain.Holding {
	valid := make([]domain.Holding, 0, len(holdings))
	for _, h := range holdings {
		switch {
		case h.Ticker == "":
			res.InputErrors = append(res.InputErrors, domain.InputError{
				Field: "ticker", Detail: "empty ticker",
			})
		case h.Shares < 0:
			res.InputErrors = append(res.InputErrors, domain.InputError{
				Ticker: h.Ticker, Field: "shares",
				Detail: fmt.Sprintf("negative share count %v", h.Shares),
			})
		case h.Baseline < 0:
			res.InputErrors = append(res.InputErrors, domain.InputError{
				Ticker: h.Ticker, Field: "baseline_value_gbp",
				Detail: fmt.Sprintf("negative baseline %v", h.Baseline),
			})
		default:
			valid = append(valid, h)
		}
	}
	return valid
}

// screenRecords drops early-signal records with malformed dates or missing
// tickers, recording each rejection.
func (s *Service) screenRecords(records map[string][]domain.EarlySignalRecord, res *Result) map[string][]domain.EarlySignalRecord {
	if records == nil {
		return nil
	}

	out := make(map[string][]domain.EarlySignalRecord, len(records))
	for symbol, recs := range records {
		kept := make([]domain.EarlySignalRecord, 0, len(recs))
		for _, rec := range recs {
			if rec.Date.IsZero() {
				res.InputErrors = append(res.InputErrors, domain.InputError{
					Ticker: symbol, Field: "date", Detail: "missing transaction date",
				})
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) > 0 {
			out[symbol] = kept
		}
	}
	return out
}
