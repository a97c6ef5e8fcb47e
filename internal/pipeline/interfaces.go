package pipeline

import (
	"context"

	"github.com/quantatsu/equiscope/internal/models"
)

// NewsFeedProvider supplies recent headlines for a symbol.
type NewsFeedProvider interface {
	Search(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error)
}

// FinancialDataProvider supplies raw fundamental metrics for a symbol.
type FinancialDataProvider interface {
	Fetch(ctx context.Context, symbol string) (models.RawMetrics, error)
}

// SummarizationService condenses research material into a short digest.
type SummarizationService interface {
	Summarize(ctx context.Context, ticker string, metrics models.RawMetrics, news []models.NewsItem) (string, error)
}
