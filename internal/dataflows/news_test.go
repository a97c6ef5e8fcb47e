package dataflows

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quantatsu/equiscope/internal/models"
)

type stubSearcher struct {
	items []models.NewsItem
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	s.calls++
	return s.items, s.err
}

func TestNewsServicePrimarySucceeds(t *testing.T) {
	primary := &stubSearcher{items: []models.NewsItem{{Title: "primary"}}}
	fallback := &stubSearcher{items: []models.NewsItem{{Title: "fallback"}}}
	ns := NewNewsService(primary, fallback)

	items, err := ns.Search(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if items[0].Title != "primary" {
		t.Fatalf("got %q, want primary result", items[0].Title)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback called although primary succeeded")
	}
}

func TestNewsServiceFallsBackOnUnavailable(t *testing.T) {
	primary := &stubSearcher{err: fmt.Errorf("%w: down", models.ErrProviderUnavailable)}
	fallback := &stubSearcher{items: []models.NewsItem{{Title: "fallback"}}}
	ns := NewNewsService(primary, fallback)

	items, err := ns.Search(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if items[0].Title != "fallback" {
		t.Fatalf("got %q, want fallback result", items[0].Title)
	}
}

func TestNewsServiceFallsBackOnRateLimit(t *testing.T) {
	primary := &stubSearcher{err: fmt.Errorf("%w: quota", models.ErrRateLimited)}
	fallback := &stubSearcher{items: []models.NewsItem{{Title: "fallback"}}}
	ns := NewNewsService(primary, fallback)

	if _, err := ns.Search(context.Background(), "AAPL", 5); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if fallback.calls != 1 {
		t.Fatalf("fallback calls = %d, want 1", fallback.calls)
	}
}

func TestNewsServiceBothFail(t *testing.T) {
	primary := &stubSearcher{err: fmt.Errorf("%w: down", models.ErrProviderUnavailable)}
	fallback := &stubSearcher{err: fmt.Errorf("%w: also down", models.ErrProviderUnavailable)}
	ns := NewNewsService(primary, fallback)

	_, err := ns.Search(context.Background(), "AAPL", 5)
	if !errors.Is(err, models.ErrProviderUnavailable) {
		t.Fatalf("want ErrProviderUnavailable, got %v", err)
	}
}

func TestNewsServiceNoFallbackOnOtherErrors(t *testing.T) {
	primary := &stubSearcher{err: errors.New("bad symbol")}
	fallback := &stubSearcher{items: []models.NewsItem{{Title: "fallback"}}}
	ns := NewNewsService(primary, fallback)

	if _, err := ns.Search(context.Background(), "AAPL", 5); err == nil {
		t.Fatal("expected error passthrough")
	}
	if fallback.calls != 0 {
		t.Fatal("fallback called for non-availability error")
	}
}
