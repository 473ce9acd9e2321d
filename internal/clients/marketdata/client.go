// Package marketdata fetches price, FX and indicator snapshots from the
// market data provider. It materializes inputs for the scoring core and
// contains no decision logic; every value is individually nullable so the
// core can degrade per rule.
package marketdata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/foliowatch/sentinel/internal/domain"
)

// Indicator symbols as the provider knows them.
const (
	symbolVIX    = "^VIX"
	symbolHYG    = "HYG"
	symbolQQQ    = "QQQ"
	symbolUS10Y  = "^TNX"
	symbolSOX    = "^SOX"
	symbolNVDA   = "NVDA"
	symbolGBPUSD = "GBPUSD=X"
)

// History is a trailing daily series for one symbol, oldest first.
type History struct {
	Closes  []float64
	Volumes []float64
}

// Client is the market data provider client.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new market data client.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "marketdata").Logger(),
	}
}

// GetPrices fetches latest prices for the given symbols. Symbols the
// provider has no quote for are simply absent from the snapshot.
func (c *Client) GetPrices(symbols []string) domain.PriceSnapshot {
	snap := domain.PriceSnapshot{
		Prices: make(map[string]float64, len(symbols)),
		AsOf:   time.Now(),
	}

	for _, symbol := range symbols {
		price, err := c.quote(symbol)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("Price unavailable")
			continue
		}
		snap.Prices[symbol] = price
	}

	return snap
}

// GetFXRate fetches the USD→GBP conversion rate. nil on failure: the caller
// decides how to degrade, never a guessed default inside the client.
func (c *Client) GetFXRate() *float64 {
	// Provider quotes GBPUSD; invert for USD→GBP.
	gbpusd, err := c.quote(symbolGBPUSD)
	if err != nil || gbpusd <= 0 {
		c.log.Warn().Err(err).Msg("FX rate unavailable")
		return nil
	}
	rate := 1 / gbpusd
	return &rate
}

// GetIndicators fetches the macro/sector indicator snapshot. Each field is
// fetched independently; one failure never blanks the others.
func (c *Client) GetIndicators() domain.IndicatorSnapshot {
	snap := domain.IndicatorSnapshot{AsOf: time.Now()}

	snap.VIX = c.quoteOrNil(symbolVIX)
	snap.CreditProxy = c.quoteOrNil(symbolHYG)
	snap.Yield10Y = c.quoteOrNil(symbolUS10Y)

	snap.Benchmark, snap.BenchmarkPrev = c.quoteWithPrev(symbolQQQ)
	snap.SectorIndex, snap.SectorPrev = c.quoteWithPrev(symbolSOX)
	snap.Bellwether, snap.BellwetherPrev = c.quoteWithPrev(symbolNVDA)

	return snap
}

// GetHistory fetches the trailing daily candle series for a symbol.
func (c *Client) GetHistory(symbol string, days int) (*History, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%dd&interval=1d",
		c.baseURL, url.PathEscape(symbol), days)

	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history request for %s returned %d", symbol, resp.StatusCode)
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode history for %s: %w", symbol, err)
	}

	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty history for %s", symbol)
	}

	quote := parsed.Chart.Result[0].Indicators.Quote[0]
	h := &History{}
	for i, close := range quote.Close {
		if close == nil {
			continue
		}
		h.Closes = append(h.Closes, *close)
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			h.Volumes = append(h.Volumes, *quote.Volume[i])
		} else {
			h.Volumes = append(h.Volumes, 0)
		}
	}
	return h, nil
}

// GetTargetPrice fetches the mean analyst target for a symbol, nil when the
// provider reports no coverage.
func (c *Client) GetTargetPrice(symbol string) *float64 {
	info, err := c.quoteInfo(symbol)
	if err != nil {
		c.log.Debug().Err(err).Str("symbol", symbol).Msg("Analyst data unavailable")
		return nil
	}
	if target := getFloat64(info, "targetMeanPrice"); target != nil && *target > 0 {
		return target
	}
	return getFloat64(info, "targetHighPrice")
}

func (c *Client) quote(symbol string) (float64, error) {
	info, err := c.quoteInfo(symbol)
	if err != nil {
		return 0, err
	}
	if price := getFloat64(info, "regularMarketPrice"); price != nil {
		return *price, nil
	}
	return 0, fmt.Errorf("no market price for %s", symbol)
}

func (c *Client) quoteOrNil(symbol string) *float64 {
	price, err := c.quote(symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Indicator unavailable")
		return nil
	}
	return &price
}

func (c *Client) quoteWithPrev(symbol string) (current, prev *float64) {
	info, err := c.quoteInfo(symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("Indicator unavailable")
		return nil, nil
	}
	return getFloat64(info, "regularMarketPrice"), getFloat64(info, "regularMarketPreviousClose")
}

func (c *Client) quoteInfo(symbol string) (map[string]interface{}, error) {
	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	resp, err := c.client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote request for %s returned %d", symbol, resp.StatusCode)
	}

	var parsed quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode quote for %s: %w", symbol, err)
	}

	if len(parsed.QuoteResponse.Result) == 0 {
		return nil, fmt.Errorf("no quote result for %s", symbol)
	}
	return parsed.QuoteResponse.Result[0], nil
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []map[string]interface{} `json:"result"`
		Error  interface{}              `json:"error"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func getFloat64(info map[string]interface{}, key string) *float64 {
	if v, ok := info[key]; ok {
		if f, ok := v.(float64); ok {
			return &f
		}
	}
	return nil
}
