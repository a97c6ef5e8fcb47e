package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/quantatsu/equiscope/internal/models"
)

// GoogleNewsScraper scrapes the Google News search page. It needs no API key
// and serves as the fallback when NewsAPI is unavailable.
type GoogleNewsScraper struct {
	client *resty.Client
	cache  *CacheManager
	retry  *RetryConfig
}

// NewGoogleNewsScraper creates a scraper client. cacheDir may be empty to
// disable caching.
func NewGoogleNewsScraper(cacheDir string, timeout time.Duration, retry *RetryConfig) *GoogleNewsScraper {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; EquiScope/1.0)")

	if retry == nil {
		retry = DefaultRetryConfig()
	}

	return &GoogleNewsScraper{
		client: client,
		cache:  NewCacheManager(cacheDir, 2*time.Hour, cacheDir != ""),
		retry:  retry,
	}
}

// Search scrapes headlines mentioning the symbol. Failures map to
// ErrProviderUnavailable.
func (gs *GoogleNewsScraper) Search(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	symbol = NormalizeSymbol(symbol)
	if limit <= 0 {
		limit = 10
	}

	cacheKey := map[string]interface{}{"symbol": symbol, "limit": limit}
	var cached []models.NewsItem
	if gs.cache.Get("google_news", "search", cacheKey, &cached) {
		return cached, nil
	}

	searchURL := buildGoogleNewsURL(symbol + " stock")

	var result []models.NewsItem
	err := WithRetry(ctx, gs.retry, func() error {
		resp, err := gs.client.R().SetContext(ctx).Get(searchURL)
		if err != nil {
			return fmt.Errorf("%w: fetch google news: %v", models.ErrProviderUnavailable, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("%w: google news status %d", models.ErrProviderUnavailable, resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("%w: parse google news html: %v", models.ErrProviderUnavailable, err)
		}

		result = parseGoogleNewsHTML(doc)
		if len(result) > limit {
			result = result[:limit]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	gs.cache.Set("google_news", "search", cacheKey, result)
	return result, nil
}

func buildGoogleNewsURL(query string) string {
	return fmt.Sprintf("https://news.google.com/search?q=%s&hl=en&gl=US&ceid=US:en",
		url.QueryEscape(query))
}

// parseGoogleNewsHTML extracts articles from the search results page.
// The page structure may change; headlines without a title are skipped.
func parseGoogleNewsHTML(doc *goquery.Document) []models.NewsItem {
	var items []models.NewsItem

	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		link := s.Find("a").First()
		href, _ := link.Attr("href")

		timeText := strings.TrimSpace(s.Find("time").Text())
		snippet := strings.TrimSpace(s.Find("span").Last().Text())

		items = append(items, models.NewsItem{
			Title:       title,
			Snippet:     snippet,
			URL:         cleanGoogleNewsURL(href),
			PublishedAt: parseRelativeTime(timeText, time.Now()),
		})
	})

	return items
}

// cleanGoogleNewsURL removes the Google News redirect wrapper.
func cleanGoogleNewsURL(googleURL string) string {
	if strings.Contains(googleURL, "url=") {
		parts := strings.Split(googleURL, "url=")
		if len(parts) > 1 {
			if decoded, err := url.QueryUnescape(parts[1]); err == nil {
				return decoded
			}
		}
	}

	if strings.HasPrefix(googleURL, "./") {
		return "https://news.google.com" + googleURL[1:]
	}
	if strings.HasPrefix(googleURL, "/") {
		return "https://news.google.com" + googleURL
	}
	return googleURL
}

var (
	minuteRegex = regexp.MustCompile(`(\d+)\s*minutes?\s*ago`)
	hourRegex   = regexp.MustCompile(`(\d+)\s*hours?\s*ago`)
	dayRegex    = regexp.MustCompile(`(\d+)\s*days?\s*ago`)
)

// parseRelativeTime converts Google's relative timestamps to actual times.
// Unparseable text is assumed to be about an hour old.
func parseRelativeTime(timeText string, now time.Time) time.Time {
	timeText = strings.ToLower(strings.TrimSpace(timeText))

	if timeText == "just now" {
		return now
	}
	if matches := minuteRegex.FindStringSubmatch(timeText); len(matches) > 1 {
		if minutes := parseNumber(matches[1]); minutes > 0 {
			return now.Add(-time.Duration(minutes) * time.Minute)
		}
	}
	if matches := hourRegex.FindStringSubmatch(timeText); len(matches) > 1 {
		if hours := parseNumber(matches[1]); hours > 0 {
			return now.Add(-time.Duration(hours) * time.Hour)
		}
	}
	if matches := dayRegex.FindStringSubmatch(timeText); len(matches) > 1 {
		if days := parseNumber(matches[1]); days > 0 {
			return now.Add(-time.Duration(days) * 24 * time.Hour)
		}
	}

	return now.Add(-1 * time.Hour)
}

func parseNumber(s string) int {
	var result int
	fmt.Sscanf(s, "%d", &result)
	return result
}
