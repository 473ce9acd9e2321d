// Package disclosures fetches insider and legislator trading records from
// the regulatory data provider, normalized into early-signal records.
package disclosures

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/domain"
)

// Client is the regulatory disclosure feed client.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new disclosures client.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "disclosures").Logger(),
	}
}

type disclosureRow struct {
	Ticker          string   `json:"ticker"`
	TransactionType string   `json:"transaction_type"`
	Date            string   `json:"transaction_date"`
	Actor           string   `json:"name"`
	Value           *float64 `json:"value"`
	Shares          *float64 `json:"shares"`
}

// GetInsiderTrades fetches insider disclosures for one ticker over the
// lookback window. Rows with unparseable dates are dropped and logged, not
// passed downstream as malformed records.
func (c *Client) GetInsiderTrades(ticker string, lookbackDays int) ([]domain.EarlySignalRecord, error) {
	rows, err := c.fetch(fmt.Sprintf("%s/beta/live/insiders?ticker=%s", c.baseURL, url.QueryEscape(ticker)))
	if err != nil {
		return nil, err
	}
	return c.normalize(rows, ticker, lookbackDays, domain.SignalInsiderBuy, domain.SignalInsiderSell), nil
}

// GetLegislatorTrades fetches congressional trading disclosures across all
// tickers over the lookback window.
func (c *Client) GetLegislatorTrades(lookbackDays int) ([]domain.EarlySignalRecord, error) {
	rows, err := c.fetch(fmt.Sprintf("%s/beta/live/congresstrading", c.baseURL))
	if err != nil {
		return nil, err
	}
	return c.normalize(rows, "", lookbackDays, domain.SignalLegislatorBuy, domain.SignalLegislatorSell), nil
}

type optionsFlowRow struct {
	Ticker        string   `json:"ticker"`
	PutMultiplier *float64 `json:"put_volume_multiplier"`
}

// GetPutVolumeMultipliers fetches per-symbol unusual options activity: current
// put volume relative to its trailing average, as reported by the provider.
// Symbols without a usable reading are simply absent from the map.
func (c *Client) GetPutVolumeMultipliers(symbols []string) (map[string]*float64, error) {
	resp, err := c.client.Get(fmt.Sprintf("%s/beta/live/optionsflow", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch options flow: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("options flow request returned %d", resp.StatusCode)
	}

	var rows []optionsFlowRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode options flow: %w", err)
	}

	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[strings.ToUpper(s)] = true
	}

	out := make(map[string]*float64)
	for _, row := range rows {
		sym := strings.ToUpper(row.Ticker)
		if row.PutMultiplier == nil || !wanted[sym] {
			continue
		}
		out[sym] = row.PutMultiplier
	}
	return out, nil
}

func (c *Client) fetch(endpoint string) ([]disclosureRow, error) {
	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch disclosures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("disclosure request returned %d", resp.StatusCode)
	}

	var rows []disclosureRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode disclosures: %w", err)
	}
	return rows, nil
}

func (c *Client) normalize(rows []disclosureRow, ticker string, lookbackDays int, buyKind, sellKind domain.SignalKind) []domain.EarlySignalRecord {
	cutoff := time.Now().AddDate(0, 0, -lookbackDays)

	var records []domain.EarlySignalRecord
	for _, row := range rows {
		sym := strings.ToUpper(row.Ticker)
		if sym == "" {
			sym = strings.ToUpper(ticker)
		}
		if sym == "" || (ticker != "" && sym != strings.ToUpper(ticker)) {
			continue
		}

		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			c.log.Debug().Str("ticker", sym).Str("date", row.Date).Msg("Dropping disclosure with malformed date")
			continue
		}
		if date.Before(cutoff) {
			continue
		}

		var kind domain.SignalKind
		switch strings.ToLower(row.TransactionType) {
		case "buy", "purchase":
			kind = buyKind
		case "sell", "sale":
			kind = sellKind
		default:
			continue
		}

		records = append(records, domain.EarlySignalRecord{
			Kind:     kind,
			Ticker:   sym,
			Date:     date,
			Actor:    row.Actor,
			Notional: row.Value,
			Shares:   row.Shares,
		})
	}

	return records
}
