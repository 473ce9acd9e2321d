package evaluation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/foliowatch/sentinel/internal/config"
	"github.com/foliowatch/sentinel/internal/domain"
)

func record(kind domain.SignalKind, ticker string) domain.EarlySignalRecord {
	return domain.EarlySignalRecord{
		Kind:   kind,
		Ticker: ticker,
		Date:   time.Now().AddDate(0, 0, -2),
		Actor:  "Actor A",
	}
}

func TestCandidateUniverse_WatchlistScoredWithoutDisclosures(t *testing.T) {
	watch := config.DefaultSignals().Buy.Watchlist

	universe := candidateUniverse(map[string][]domain.EarlySignalRecord{}, watch)

	assert.Equal(t, watch, universe,
		"a quiet disclosure feed must not empty the candidate universe")
}

func TestCandidateUniverse_BuyDisclosuresExtendWatchlist(t *testing.T) {
	records := map[string][]domain.EarlySignalRecord{
		"ZION": {record(domain.SignalInsiderBuy, "ZION")},
		"DKNG": {record(domain.SignalLegislatorBuy, "DKNG")},
		"NVDA": {record(domain.SignalInsiderBuy, "NVDA")},
	}

	universe := candidateUniverse(records, []string{"NVDA", "AMD"})

	// Watchlist first in configured order, then disclosure extras sorted.
	assert.Equal(t, []string{"NVDA", "AMD", "DKNG", "ZION"}, universe)
}

func TestCandidateUniverse_SellOnlyDisclosureDoesNotQualify(t *testing.T) {
	records := map[string][]domain.EarlySignalRecord{
		"ZION": {record(domain.SignalInsiderSell, "ZION")},
		"NVDA": {record(domain.SignalInsiderSell, "NVDA")},
	}

	universe := candidateUniverse(records, []string{"NVDA", "AMD"})

	// Sell-only activity adds nothing; watchlist membership is unaffected.
	assert.Equal(t, []string{"NVDA", "AMD"}, universe)
}

func TestCandidateUniverse_DuplicateWatchlistEntries(t *testing.T) {
	universe := candidateUniverse(nil, []string{"NVDA", "NVDA", "AMD"})

	assert.Equal(t, []string{"NVDA", "AMD"}, universe)
}
