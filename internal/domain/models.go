package domain

import "time"

// Currency represents a currency code
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
)

// Holding represents a portfolio holding as configured, before valuation.
// Holdings are only mutated by explicit portfolio edits; the scoring core
// treats them as read-only.
type Holding struct {
	Ticker     string   `json:"ticker" yaml:"ticker"`
	Symbol     string   `json:"symbol" yaml:"symbol"`
	Shares     float64  `json:"shares" yaml:"shares"`
	Baseline   float64  `json:"baseline_value_gbp" yaml:"baseline_value_gbp"`
	Currency   Currency `json:"currency" yaml:"currency"`
	Instrument string   `json:"instrument" yaml:"instrument"`
	RiskBucket string   `json:"risk_bucket" yaml:"risk_bucket"`
}

// PriceSnapshot maps symbols to their latest observed price. A symbol may be
// absent: that is a data-quality condition, not a fatal error.
type PriceSnapshot struct {
	Prices map[string]float64 `json:"prices"`
	AsOf   time.Time          `json:"as_of"`
}

// Price returns the price for a symbol, with ok=false when missing.
func (s PriceSnapshot) Price(symbol string) (float64, bool) {
	p, ok := s.Prices[symbol]
	return p, ok
}

// IndicatorSnapshot holds macro and sector indicator readings for one
// evaluation run. Every field is individually nullable: nil means the
// provider had no reading, which downstream rules must treat as "skip",
// never as a zero observation.
type IndicatorSnapshot struct {
	VIX            *float64  `json:"vix"`
	CreditProxy    *float64  `json:"credit_proxy"`    // HYG close
	Benchmark      *float64  `json:"benchmark"`       // QQQ close
	BenchmarkPrev  *float64  `json:"benchmark_prev"`  // QQQ previous close
	Yield10Y       *float64  `json:"yield_10y"`       // US10Y, percent
	SectorIndex    *float64  `json:"sector_index"`    // SOX close
	SectorPrev     *float64  `json:"sector_prev"`     // SOX previous close
	Bellwether     *float64  `json:"bellwether"`      // NVDA close
	BellwetherPrev *float64  `json:"bellwether_prev"` // NVDA previous close
	AsOf           time.Time `json:"as_of"`
}

// SignalKind identifies the kind of an early-activity disclosure.
type SignalKind string

const (
	SignalInsiderBuy     SignalKind = "insider-buy"
	SignalInsiderSell    SignalKind = "insider-sell"
	SignalLegislatorBuy  SignalKind = "legislator-buy"
	SignalLegislatorSell SignalKind = "legislator-sell"
)

// IsBuy reports whether the record describes a purchase.
func (k SignalKind) IsBuy() bool {
	return k == SignalInsiderBuy || k == SignalLegislatorBuy
}

// IsInsider reports whether the record came from a corporate insider
// rather than a legislator disclosure.
func (k SignalKind) IsInsider() bool {
	return k == SignalInsiderBuy || k == SignalInsiderSell
}

// EarlySignalRecord is one observed insider or legislator disclosure.
// Records are immutable once fetched. Notional is nil when the filing did
// not carry a usable dollar value (typical for legislator disclosures).
type EarlySignalRecord struct {
	Kind     SignalKind `json:"kind"`
	Ticker   string     `json:"ticker"`
	Date     time.Time  `json:"date"`
	Actor    string     `json:"actor"`
	Notional *float64   `json:"notional_usd"`
	Shares   *float64   `json:"shares"`
}

// RiskLevel is the ordinal risk classification derived from the risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskElevated RiskLevel = "Elevated"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// RiskAssessment is the portfolio-wide risk output of one evaluation run.
// It is recomputed fresh every run, never partially updated.
type RiskAssessment struct {
	Score         int       `json:"score"` // 0-100, clamped
	Level         RiskLevel `json:"level"`
	MacroSignals  []string  `json:"macro_signals"`
	SectorSignals []string  `json:"sector_signals"`
	StockSignals  []string  `json:"stock_signals"`
	MissingInputs []string  `json:"missing_inputs"`
}

// Action is the per-holding classification for one evaluation run.
type Action string

const (
	ActionHold    Action = "HOLD"
	ActionSell    Action = "SELL"
	ActionReduce  Action = "REDUCE"
	ActionUnknown Action = "UNKNOWN"
)

// ActionDecision records the action for one holding and why it was taken.
type ActionDecision struct {
	Ticker       string   `json:"ticker"`
	Action       Action   `json:"action"`
	Reason       string   `json:"reason"`
	ChangePct    *float64 `json:"change_pct"`
	CurrentValue *float64 `json:"current_value_gbp"`
}

// RecommendationTier is the discrete buy classification.
type RecommendationTier string

const (
	TierStrongBuy RecommendationTier = "STRONG BUY"
	TierBuy       RecommendationTier = "BUY"
	TierConsider  RecommendationTier = "CONSIDER"
)

// RiskLabel and RewardLabel are the two independent axes of the candidate
// risk/reward classification. They are derived from volatility and upside,
// not from the composite score.
type (
	RiskLabel   string
	RewardLabel string
)

const (
	RiskLabelHigh       RiskLabel = "HIGH"
	RiskLabelMediumHigh RiskLabel = "MEDIUM-HIGH"
	RiskLabelMedium     RiskLabel = "MEDIUM"

	RewardVeryHigh RewardLabel = "VERY HIGH"
	RewardHigh     RewardLabel = "HIGH"
	RewardModerate RewardLabel = "MODERATE"
	RewardLow      RewardLabel = "LOW"
)

// CategoryScores holds the four capped category subscores of a candidate.
type CategoryScores struct {
	EarlySignals float64 `json:"early_signals"` // 0-30
	Technical    float64 `json:"technical"`     // 0-30
	RiskReward   float64 `json:"risk_reward"`   // 0-25
	Market       float64 `json:"market"`        // 0-15
}

// Total is the exact sum of the four category subscores. Categories are
// clamped individually; the sum is never re-clamped.
func (c CategoryScores) Total() float64 {
	return c.EarlySignals + c.Technical + c.RiskReward + c.Market
}

// BuyCandidateScore is the scored, classified output for one candidate.
// SuggestedAllocation and SuggestedShares are filled in by the allocator,
// not the scorer.
type BuyCandidateScore struct {
	Symbol              string             `json:"symbol"`
	Tier                RecommendationTier `json:"recommendation"`
	Scores              CategoryScores     `json:"score_breakdown"`
	TotalScore          float64            `json:"total_score"`
	RiskLabel           RiskLabel          `json:"risk_level"`
	RewardLabel         RewardLabel        `json:"reward_potential"`
	Reasons             []string           `json:"reasons"`
	CurrentPrice        *float64           `json:"current_price"`
	CurrentPriceGBP     *float64           `json:"current_price_gbp"`
	UpsidePct           *float64           `json:"upside_potential_pct"`
	Volatility          *float64           `json:"volatility"`
	SuggestedAllocation float64            `json:"suggested_allocation_gbp"`
	SuggestedShares     *int               `json:"suggested_shares"`
}

// InputError records an input item rejected at the evaluation boundary.
type InputError struct {
	Ticker string `json:"ticker"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}
