package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foliowatch/sentinel/internal/domain"
)

// Signal names shared between the signal evaluator, the bucket policies and
// the action classifier. Bucket policies in signals.yaml refer to these.
const (
	SignalVIXWarning      = "vix_warning"
	SignalVIXCritical     = "vix_critical"
	SignalCreditStress    = "credit_stress"
	SignalYieldSpike      = "yield_spike"
	SignalDivergence      = "bellwether_divergence"
	SignalSectorMomentum  = "sector_momentum_negative"
	SignalInsiderWarning  = "insider_selling_warning"
	SignalInsiderCritical = "insider_selling_critical"
	SignalOptionsWarning  = "options_warning"
	SignalOptionsCritical = "options_critical"
)

// MacroThresholds configures the macro signal rules and their point values.
type MacroThresholds struct {
	VIXWarning        float64 `yaml:"vix_warning"`
	VIXCritical       float64 `yaml:"vix_critical"`
	VIXWarningPoints  int     `yaml:"vix_warning_points"`
	VIXCriticalPoints int     `yaml:"vix_critical_points"`
	CreditFloor       float64 `yaml:"credit_floor"`
	CreditPoints      int     `yaml:"credit_points"`
	YieldCeiling      float64 `yaml:"yield_ceiling"`
	YieldPoints       int     `yaml:"yield_points"`
}

// SectorThresholds configures the sector divergence and momentum rules.
type SectorThresholds struct {
	DivergenceDropPct float64 `yaml:"divergence_drop_pct"`
	FlatBandPct       float64 `yaml:"flat_band_pct"`
	DivergencePoints  int     `yaml:"divergence_points"`
	MomentumDropPct   float64 `yaml:"momentum_drop_pct"`
	MomentumPoints    int     `yaml:"momentum_points"`
}

// StockThresholds configures per-symbol insider and options activity rules.
type StockThresholds struct {
	InsiderWarningCluster  int      `yaml:"insider_warning_cluster"`
	InsiderCriticalCluster int      `yaml:"insider_critical_cluster"`
	InsiderWarningPoints   int      `yaml:"insider_warning_points"`
	InsiderCriticalPoints  int      `yaml:"insider_critical_points"`
	OptionsWarningMult     float64  `yaml:"options_warning_multiplier"`
	OptionsCriticalMult    float64  `yaml:"options_critical_multiplier"`
	OptionsWarningPoints   int      `yaml:"options_warning_points"`
	OptionsCriticalPoints  int      `yaml:"options_critical_points"`
	OptionsWatchlist       []string `yaml:"options_watchlist"`
}

// PortfolioRiskThresholds folds aggregate P&L into the risk score.
type PortfolioRiskThresholds struct {
	SevereLossPct   float64 `yaml:"severe_loss_pct"`
	SeverePoints    int     `yaml:"severe_points"`
	ModerateLossPct float64 `yaml:"moderate_loss_pct"`
	ModeratePoints  int     `yaml:"moderate_points"`
}

// RiskBand maps a score floor to a risk level. Bands are ascending by Min,
// start at 0 and together cover the full 0-100 range.
type RiskBand struct {
	Min   int              `yaml:"min"`
	Level domain.RiskLevel `yaml:"level"`
}

// BucketPolicy lists the triggered signals a risk bucket is sensitive to.
// ReduceOn escalates HOLD to REDUCE; SellOn escalates to SELL. Hard
// take-profit / stop-loss thresholds always win over either.
type BucketPolicy struct {
	ReduceOn []string `yaml:"reduce_on"`
	SellOn   []string `yaml:"sell_on"`
}

// CategoryCaps holds the maxima for the four candidate score categories.
type CategoryCaps struct {
	Early      float64 `yaml:"early"`
	Technical  float64 `yaml:"technical"`
	RiskReward float64 `yaml:"risk_reward"`
	Market     float64 `yaml:"market"`
}

// TierThresholds holds the recommendation tier boundaries.
type TierThresholds struct {
	StrongBuy float64 `yaml:"strong_buy"`
	Buy       float64 `yaml:"buy"`
	Consider  float64 `yaml:"consider"`
}

// BuyThresholds configures the buy-candidate scorer.
type BuyThresholds struct {
	WindowDays      int            `yaml:"early_signal_window_days"`
	Caps            CategoryCaps   `yaml:"category_caps"`
	Tiers           TierThresholds `yaml:"confidence_thresholds"`
	MinDisplayScore float64        `yaml:"min_score_to_show"`
	Watchlist       []string       `yaml:"watchlist"`
}

// Signals is the full signal threshold configuration, loaded once at startup
// and passed into every core call. Nothing in the scoring core reads it from
// ambient state.
type Signals struct {
	Macro     MacroThresholds         `yaml:"macro"`
	Sector    SectorThresholds        `yaml:"sector"`
	Stock     StockThresholds         `yaml:"stock_level"`
	Portfolio PortfolioRiskThresholds `yaml:"portfolio"`
	RiskBands []RiskBand              `yaml:"risk_bands"`
	Buckets   map[string]BucketPolicy `yaml:"risk_buckets"`
	Buy       BuyThresholds           `yaml:"buy_signals"`
}

// DefaultSignals returns the built-in thresholds. File values override these
// field by field.
func DefaultSignals() Signals {
	return Signals{
		Macro: MacroThresholds{
			VIXWarning:        20.0,
			VIXCritical:       25.0,
			VIXWarningPoints:  15,
			VIXCriticalPoints: 25,
			CreditFloor:       70.0,
			CreditPoints:      10,
			YieldCeiling:      5.0,
			YieldPoints:       5,
		},
		Sector: SectorThresholds{
			DivergenceDropPct: -5.0,
			FlatBandPct:       1.0,
			DivergencePoints:  10,
			MomentumDropPct:   -2.0,
			MomentumPoints:    10,
		},
		Stock: StockThresholds{
			InsiderWarningCluster:  2,
			InsiderCriticalCluster: 3,
			InsiderWarningPoints:   8,
			InsiderCriticalPoints:  15,
			OptionsWarningMult:     2.0,
			OptionsCriticalMult:    3.0,
			OptionsWarningPoints:   5,
			OptionsCriticalPoints:  10,
		},
		Portfolio: PortfolioRiskThresholds{
			SevereLossPct:   -20.0,
			SeverePoints:    10,
			ModerateLossPct: -10.0,
			ModeratePoints:  5,
		},
		RiskBands: []RiskBand{
			{Min: 0, Level: domain.RiskLow},
			{Min: 20, Level: domain.RiskModerate},
			{Min: 40, Level: domain.RiskElevated},
			{Min: 60, Level: domain.RiskHigh},
			{Min: 80, Level: domain.RiskCritical},
		},
		Buckets: map[string]BucketPolicy{
			"high-beta-ai": {
				SellOn:   []string{SignalVIXCritical, SignalInsiderCritical},
				ReduceOn: []string{SignalVIXWarning, SignalDivergence, SignalInsiderWarning},
			},
			"crypto-beta": {
				SellOn:   []string{SignalVIXCritical, SignalInsiderCritical},
				ReduceOn: []string{SignalVIXWarning},
			},
			"core-ai": {
				SellOn:   []string{SignalInsiderCritical},
				ReduceOn: []string{SignalVIXCritical, SignalDivergence, SignalInsiderWarning},
			},
			"defensive": {
				ReduceOn: []string{SignalVIXCritical},
			},
		},
		Buy: BuyThresholds{
			WindowDays: 14,
			Caps: CategoryCaps{
				Early:      30,
				Technical:  30,
				RiskReward: 25,
				Market:     15,
			},
			Tiers: TierThresholds{
				StrongBuy: 60,
				Buy:       40,
				Consider:  25,
			},
			MinDisplayScore: 25,
			Watchlist: []string{
				"NVDA", "AMD", "TSLA", "META", "AMZN", "GOOGL", "MSFT", "AAPL",
				"SMCI", "ARM", "AVGO", "MU", "INTC", "QCOM", "NFLX", "PLTR",
			},
		},
	}
}

// LoadSignals reads the signal configuration file on top of the defaults.
// A malformed or inconsistent file aborts the run: scoring against broken
// thresholds would produce meaningless results.
func LoadSignals(path string) (*Signals, error) {
	cfg := DefaultSignals()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No file means defaults, which always validate.
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read signals config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse signals config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid signals config: %w", err)
	}

	return &cfg, nil
}

// Validate checks threshold consistency.
func (s *Signals) Validate() error {
	if s.Macro.VIXCritical <= s.Macro.VIXWarning {
		return fmt.Errorf("macro.vix_critical (%v) must exceed macro.vix_warning (%v)",
			s.Macro.VIXCritical, s.Macro.VIXWarning)
	}
	if s.Stock.InsiderCriticalCluster <= s.Stock.InsiderWarningCluster {
		return fmt.Errorf("stock_level.insider_critical_cluster must exceed warning cluster")
	}
	if len(s.RiskBands) == 0 {
		return fmt.Errorf("risk_bands must not be empty")
	}
	if s.RiskBands[0].Min != 0 {
		return fmt.Errorf("risk_bands must start at 0, got %d", s.RiskBands[0].Min)
	}
	for i := 1; i < len(s.RiskBands); i++ {
		if s.RiskBands[i].Min <= s.RiskBands[i-1].Min {
			return fmt.Errorf("risk_bands must be strictly ascending")
		}
		if s.RiskBands[i].Min > 100 {
			return fmt.Errorf("risk band boundary %d outside the 0-100 score range", s.RiskBands[i].Min)
		}
	}
	if s.Buy.WindowDays <= 0 {
		return fmt.Errorf("buy_signals.early_signal_window_days must be positive")
	}
	if s.Buy.Caps.Early <= 0 || s.Buy.Caps.Technical <= 0 ||
		s.Buy.Caps.RiskReward <= 0 || s.Buy.Caps.Market <= 0 {
		return fmt.Errorf("buy_signals.category_caps must all be positive")
	}
	if !(s.Buy.Tiers.StrongBuy > s.Buy.Tiers.Buy && s.Buy.Tiers.Buy > s.Buy.Tiers.Consider) {
		return fmt.Errorf("confidence_thresholds must be strictly ordered: strong_buy > buy > consider")
	}
	if s.Buy.MinDisplayScore < 0 {
		return fmt.Errorf("buy_signals.min_score_to_show must not be negative")
	}
	return nil
}

// LevelFor returns the risk level band for a clamped score.
func (s *Signals) LevelFor(score int) domain.RiskLevel {
	level := s.RiskBands[0].Level
	for _, band := range s.RiskBands {
		if score >= band.Min {
			level = band.Level
		}
	}
	return level
}

// PolicyFor returns the bucket policy for a holding's risk bucket. Unknown
// buckets get an empty policy: no signal escalation.
func (s *Signals) PolicyFor(bucket string) BucketPolicy {
	return s.Buckets[bucket]
}
