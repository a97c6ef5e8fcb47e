package dataflows

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/models"
)

// NewsSearcher is any source of recent headlines for a symbol.
type NewsSearcher interface {
	Search(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// NewsService chains a primary headline source with a fallback scraper.
// The fallback runs when the primary is unconfigured, unavailable, or
// throttled.
type NewsService struct {
	primary  NewsSearcher
	fallback NewsSearcher
}

func NewNewsService(primary, fallback NewsSearcher) *NewsService {
	return &NewsService{primary: primary, fallback: fallback}
}

// Search returns headlines for the symbol, trying the primary source first.
// When both sources fail the last error is returned.
func (ns *NewsService) Search(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	items, err := ns.primary.Search(ctx, symbol, limit)
	if err == nil {
		return items, nil
	}
	if ns.fallback == nil {
		return nil, err
	}
	if !errors.Is(err, models.ErrProviderUnavailable) && !errors.Is(err, models.ErrRateLimited) {
		return nil, err
	}

	log.Warn().Err(err).Str("ticker", symbol).Msg("primary news source failed, trying fallback")
	items, ferr := ns.fallback.Search(ctx, symbol, limit)
	if ferr != nil {
		return nil, ferr
	}
	return items, nil
}
