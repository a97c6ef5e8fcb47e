package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/quantatsu/equiscope/internal/models"
)

// NewsAPIClient fetches company headlines from the NewsAPI /v2/everything
// endpoint. Requests pass through a client-side rate limiter and a circuit
// breaker so a degraded upstream fails fast instead of stalling a batch.
type NewsAPIClient struct {
	client  *resty.Client
	cache   *CacheManager
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	apiKey  string
	retry   *RetryConfig
}

// NewNewsAPIClient creates a NewsAPI client. cacheDir may be empty to
// disable caching.
func NewNewsAPIClient(apiKey, cacheDir string, timeout time.Duration, retry *RetryConfig) *NewsAPIClient {
	client := resty.New()
	client.SetBaseURL("https://newsapi.org/v2")
	client.SetTimeout(timeout)

	if retry == nil {
		retry = DefaultRetryConfig()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "newsapi",
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

	return &NewsAPIClient{
		client:  client,
		cache:   NewCacheManager(cacheDir, 2*time.Hour, cacheDir != ""),
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		breaker: breaker,
		apiKey:  apiKey,
		retry:   retry,
	}
}

// Configured reports whether an API key is present.
func (nc *NewsAPIClient) Configured() bool { return nc.apiKey != "" }

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

// Search returns up to limit recent articles mentioning the symbol, newest
// first. HTTP 429 maps to ErrRateLimited, other failures to
// ErrProviderUnavailable.
func (nc *NewsAPIClient) Search(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if !nc.Configured() {
		return nil, fmt.Errorf("%w: newsapi key not configured", models.ErrProviderUnavailable)
	}
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	if limit <= 0 {
		limit = 10
	}

	cacheKey := map[string]interface{}{"symbol": symbol, "limit": limit}
	var cached []models.NewsItem
	if nc.cache.Get("newsapi", "everything", cacheKey, &cached) {
		return cached, nil
	}

	var result []models.NewsItem
	err := WithRetry(ctx, nc.retry, func() error {
		if err := nc.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err := nc.breaker.Execute(func() (interface{}, error) {
			return nil, nc.fetch(ctx, symbol, limit, &result)
		})
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return fmt.Errorf("%w: newsapi circuit open", models.ErrProviderUnavailable)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	nc.cache.Set("newsapi", "everything", cacheKey, result)
	return result, nil
}

func (nc *NewsAPIClient) fetch(ctx context.Context, symbol string, limit int, out *[]models.NewsItem) error {
	resp, err := nc.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        symbol + " stock",
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": fmt.Sprintf("%d", limit),
			"apiKey":   nc.apiKey,
		}).
		Get("/everything")
	if err != nil {
		return fmt.Errorf("%w: newsapi request: %v", models.ErrProviderUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusTooManyRequests:
		return fmt.Errorf("%w: newsapi quota exhausted", models.ErrRateLimited)
	case resp.StatusCode() != http.StatusOK:
		return fmt.Errorf("%w: newsapi status %d", models.ErrProviderUnavailable, resp.StatusCode())
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return fmt.Errorf("%w: parse newsapi response: %v", models.ErrProviderUnavailable, err)
	}
	if parsed.Status != "ok" {
		return fmt.Errorf("%w: newsapi error: %s", models.ErrProviderUnavailable, parsed.Message)
	}

	items := make([]models.NewsItem, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		if a.Title == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		items = append(items, models.NewsItem{
			Title:       a.Title,
			Snippet:     a.Description,
			URL:         a.URL,
			PublishedAt: published,
		})
		if len(items) == limit {
			break
		}
	}
	*out = items
	return nil
}
