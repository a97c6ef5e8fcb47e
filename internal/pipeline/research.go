package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/dataflows"
	"github.com/quantatsu/equiscope/internal/models"
)

const summaryUnavailable = "summary unavailable"

// ResearchStage gathers raw material for a ticker from the financial data
// and news providers, plus a best-effort LLM digest. The stage degrades
// rather than fails while at least one data source responds; only when both
// fail is the run aborted with ErrResearchFailed.
type ResearchStage struct {
	News       NewsFeedProvider
	Financials FinancialDataProvider
	Summarizer SummarizationService
	NewsLimit  int
}

// Run fetches metrics and headlines for one ticker.
func (rs *ResearchStage) Run(ctx context.Context, ticker string) (models.ResearchRecord, error) {
	if err := dataflows.ValidateSymbol(ticker); err != nil {
		return models.ResearchRecord{}, err
	}
	ticker = dataflows.NormalizeSymbol(ticker)

	metrics, metricsErr := rs.Financials.Fetch(ctx, ticker)
	if metricsErr != nil {
		log.Warn().Err(metricsErr).Str("ticker", ticker).Msg("financial data fetch failed")
	}

	news, newsErr := rs.News.Search(ctx, ticker, rs.NewsLimit)
	if newsErr != nil {
		log.Warn().Err(newsErr).Str("ticker", ticker).Msg("news fetch failed")
	}

	if metricsErr != nil && newsErr != nil {
		return models.ResearchRecord{}, fmt.Errorf("%w: %s: metrics: %v; news: %v",
			models.ErrResearchFailed, ticker, metricsErr, newsErr)
	}

	record := models.ResearchRecord{
		Ticker:  ticker,
		Metrics: metrics,
		News:    news,
		Summary: summaryUnavailable,
	}

	// The summary never blocks a run: any backend fault degrades to the
	// placeholder text.
	if rs.Summarizer != nil {
		if summary, err := rs.Summarizer.Summarize(ctx, ticker, metrics, news); err != nil {
			log.Warn().Err(err).Str("ticker", ticker).Msg("summarization failed")
		} else {
			record.Summary = summary
		}
	}

	log.Info().Str("ticker", ticker).Int("headlines", len(news)).Msg("research complete")
	return record, nil
}
