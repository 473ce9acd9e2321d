package candidates

import (
	"fmt"
	"math"
	"time"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
)

const (
	insiderSubCap    = 15.0
	legislatorSubCap = 15.0

	recencyBasePoints = 15.0

	insiderSizeCap       = 5.0
	insiderSizeSatUSD    = 25_000_000.0 // notional above this earns no extra size bonus
	insiderClusterPts    = 3.0
	legislatorClusterPts = 5.0
)

// scoreEarly computes the early-signal category: an insider sub-score and a
// legislator sub-score, each capped at 15, summed and clamped to the category
// cap. Records older than the window contribute exactly zero, the same as
// absence.
func scoreEarly(records []domain.EarlySignalRecord, asOf time.Time, cfg config.BuyThresholds) categoryResult {
	window := cfg.WindowDays

	var insiderBuys, legislatorBuys []domain.EarlySignalRecord
	for _, rec := range records {
		if !rec.Kind.IsBuy() || daysSince(rec.Date, asOf) > window {
			continue
		}
		if rec.Kind.IsInsider() {
			insiderBuys = append(insiderBuys, rec)
		} else {
			legislatorBuys = append(legislatorBuys, rec)
		}
	}

	var res categoryResult

	if len(insiderBuys) > 0 {
		score, detail := scoreInsiderBuys(insiderBuys, asOf, window)
		res.score += score
		res.reasons = append(res.reasons, detail)
	}

	if len(legislatorBuys) > 0 {
		score, detail := scoreLegislatorBuys(legislatorBuys, asOf, window)
		res.score += score
		res.reasons = append(res.reasons, detail)
	}

	res.score = math.Min(res.score, cfg.Caps.Early)
	return res
}

// scoreInsiderBuys sums three independently capped bonuses: recency (linear
// decay to zero at the window boundary), notional size (saturating) and a
// flat cluster bonus for multiple distinct insiders. The sum is capped at 15.
func scoreInsiderBuys(buys []domain.EarlySignalRecord, asOf time.Time, window int) (float64, string) {
	mostRecent := window
	totalNotional := 0.0
	for _, rec := range buys {
		if d := daysSince(rec.Date, asOf); d < mostRecent {
			mostRecent = d
		}
		if rec.Notional != nil {
			totalNotional += *rec.Notional
		}
	}

	recency := recencyBasePoints * (1 - float64(mostRecent)/float64(window))

	size := 0.0
	if totalNotional > 0 {
		size = insiderSizeCap * math.Min(totalNotional, insiderSizeSatUSD) / insiderSizeSatUSD
	}

	cluster := 0.0
	if distinctActors(buys) >= 2 {
		cluster = insiderClusterPts
	}

	score := math.Min(insiderSubCap, recency+size+cluster)
	detail := fmt.Sprintf("Recent insider buying: %d transaction(s), most recent %d day(s) ago, $%.0f value",
		len(buys), mostRecent, totalNotional)
	return score, detail
}

// scoreLegislatorBuys mirrors the insider structure without the size bonus:
// legislator disclosures rarely carry precise notional detail.
func scoreLegislatorBuys(buys []domain.EarlySignalRecord, asOf time.Time, window int) (float64, string) {
	mostRecent := window
	for _, rec := range buys {
		if d := daysSince(rec.Date, asOf); d < mostRecent {
			mostRecent = d
		}
	}

	recency := recencyBasePoints * (1 - float64(mostRecent)/float64(window))

	cluster := 0.0
	if distinctActors(buys) >= 2 {
		cluster = legislatorClusterPts
	}

	score := math.Min(legislatorSubCap, recency+cluster)
	detail := fmt.Sprintf("Recent legislator buying: %d trade(s), most recent %d day(s) ago",
		len(buys), mostRecent)
	return score, detail
}

func distinctActors(records []domain.EarlySignalRecord) int {
	seen := map[string]bool{}
	for _, rec := range records {
		seen[rec.Actor] = true
	}
	return len(seen)
}
