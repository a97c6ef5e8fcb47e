package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/quantatsu/equiscope/internal/models"
)

// YahooFinanceClient fetches company fundamentals from Yahoo Finance. Quote
// data comes from the finance-go equity endpoint; revenue, margins and growth
// come from the quoteSummary financialData module fetched directly.
type YahooFinanceClient struct {
	client  *resty.Client
	cache   *CacheManager
	breaker *gobreaker.CircuitBreaker
	retry   *RetryConfig
}

// NewYahooFinanceClient creates a Yahoo Finance client. cacheDir may be
// empty to disable caching.
func NewYahooFinanceClient(cacheDir string, timeout time.Duration, retry *RetryConfig) *YahooFinanceClient {
	client := resty.New()
	client.SetBaseURL("https://query1.finance.yahoo.com")
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; EquiScope/1.0)")

	// finance-go's default client allows 80s per call; the quote path must
	// share the same deadline as the quoteSummary call.
	finance.SetHTTPClient(&http.Client{Timeout: timeout})

	if retry == nil {
		retry = DefaultRetryConfig()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "yahoo_finance",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state change")
		},
	})

	return &YahooFinanceClient{
		client:  client,
		cache:   NewCacheManager(cacheDir, 6*time.Hour, cacheDir != ""),
		breaker: breaker,
		retry:   retry,
	}
}

// Fetch returns the raw fundamental metrics for a symbol. An unknown symbol
// maps to ErrTickerNotFound, upstream failure to ErrProviderUnavailable.
// Metrics the provider does not report come back as "N/A".
func (yf *YahooFinanceClient) Fetch(ctx context.Context, symbol string) (models.RawMetrics, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return models.RawMetrics{}, err
	}
	symbol = NormalizeSymbol(symbol)

	var cached models.RawMetrics
	if yf.cache.Get("yahoo", "fundamentals", symbol, &cached) {
		return cached, nil
	}

	var result models.RawMetrics
	err := WithRetry(ctx, yf.retry, func() error {
		_, err := yf.breaker.Execute(func() (interface{}, error) {
			return nil, yf.fetch(ctx, symbol, &result)
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("%w: yahoo finance circuit open", models.ErrProviderUnavailable)
		}
		return err
	})
	if err != nil {
		return models.RawMetrics{}, err
	}

	yf.cache.Set("yahoo", "fundamentals", symbol, result)
	return result, nil
}

func (yf *YahooFinanceClient) fetch(ctx context.Context, symbol string, out *models.RawMetrics) error {
	eq, err := equity.Get(symbol)
	if err != nil {
		return fmt.Errorf("%w: yahoo quote for %s: %v", models.ErrProviderUnavailable, symbol, err)
	}
	if eq == nil {
		return fmt.Errorf("%w: %s", models.ErrTickerNotFound, symbol)
	}

	metrics := models.RawMetrics{
		PERatio:       formatRatio(eq.TrailingPE),
		MarketCap:     formatLargeAmount(float64(eq.MarketCap)),
		Earnings:      formatRatio(eq.EpsTrailingTwelveMonths),
		Revenue:       "N/A",
		ProfitMargin:  "N/A",
		RevenueGrowth: "N/A",
	}

	// financialData is best effort. Quote fields alone still let the
	// valuation engine score the PE bucket.
	if fd, err := yf.fetchFinancialData(ctx, symbol); err != nil {
		log.Warn().Err(err).Str("ticker", symbol).Msg("financial data unavailable, quote fields only")
	} else {
		if fd.TotalRevenue.Raw > 0 {
			metrics.Revenue = formatLargeAmount(fd.TotalRevenue.Raw)
		}
		if fd.ProfitMargins.Raw != 0 {
			metrics.ProfitMargin = formatPercent(fd.ProfitMargins.Raw * 100)
		}
		if fd.RevenueGrowth.Raw != 0 {
			metrics.RevenueGrowth = formatPercent(fd.RevenueGrowth.Raw * 100)
		}
	}

	*out = metrics
	return nil
}

type yahooValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

type financialData struct {
	TotalRevenue  yahooValue `json:"totalRevenue"`
	ProfitMargins yahooValue `json:"profitMargins"`
	RevenueGrowth yahooValue `json:"revenueGrowth"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			FinancialData financialData `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (yf *YahooFinanceClient) fetchFinancialData(ctx context.Context, symbol string) (financialData, error) {
	resp, err := yf.client.R().
		SetContext(ctx).
		SetQueryParam("modules", "financialData").
		Get("/v10/finance/quoteSummary/" + symbol)
	if err != nil {
		return financialData{}, fmt.Errorf("quote summary request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return financialData{}, fmt.Errorf("%w: %s", models.ErrTickerNotFound, symbol)
	}
	if resp.StatusCode() != http.StatusOK {
		return financialData{}, fmt.Errorf("quote summary status %d", resp.StatusCode())
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return financialData{}, fmt.Errorf("parse quote summary: %w", err)
	}
	if parsed.QuoteSummary.Error != nil {
		return financialData{}, fmt.Errorf("quote summary: %s", parsed.QuoteSummary.Error.Description)
	}
	if len(parsed.QuoteSummary.Result) == 0 {
		return financialData{}, fmt.Errorf("quote summary: empty result for %s", symbol)
	}
	return parsed.QuoteSummary.Result[0].FinancialData, nil
}

func formatRatio(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return decimal.NewFromFloat(v).Round(2).String()
}

func formatPercent(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String() + "%"
}

// formatLargeAmount renders dollar amounts with T/B/M/K suffixes the way
// financial sites do, e.g. 2850000000000 -> "$2.85T".
func formatLargeAmount(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	d := decimal.NewFromFloat(v)
	switch {
	case v >= 1e12:
		return "$" + d.Div(decimal.NewFromInt(1e12)).Round(2).String() + "T"
	case v >= 1e9:
		return "$" + d.Div(decimal.NewFromInt(1e9)).Round(2).String() + "B"
	case v >= 1e6:
		return "$" + d.Div(decimal.NewFromInt(1e6)).Round(2).String() + "M"
	case v >= 1e3:
		return "$" + d.Div(decimal.NewFromInt(1e3)).Round(2).String() + "K"
	default:
		return "$" + d.Round(2).String()
	}
}
