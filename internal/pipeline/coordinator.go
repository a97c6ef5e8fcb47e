package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/models"
)

// RunFunc executes the full pipeline for one ticker.
type RunFunc func(ctx context.Context, ticker string) (models.Report, error)

// Coordinator fans a batch of tickers out over a bounded worker pool. Each
// ticker runs the whole pipeline independently; one failure never aborts the
// others.
type Coordinator struct {
	Concurrency int
	Run         RunFunc
}

// RunBatch analyzes every ticker and compares the outcomes. Outcomes hold
// one slot per input ticker, in input order. The returned summary ranks
// successful tickers by action priority (Buy over Hold over Sell), breaking
// ties on valuation score.
func (c *Coordinator) RunBatch(ctx context.Context, tickers []string) ([]models.TickerOutcome, models.BatchSummary) {
	outcomes := make([]models.TickerOutcome, len(tickers))

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, ticker := range tickers {
		wg.Add(1)
		go func(idx int, symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := c.Run(ctx, symbol)
			switch {
			case err == nil:
				outcomes[idx] = models.TickerOutcome{Ticker: symbol, Report: &report}
			case errors.Is(err, models.ErrPersistenceFailed):
				// Analysis finished, only the history write was lost.
				log.Warn().Err(err).Str("ticker", symbol).Msg("batch ticker not persisted")
				outcomes[idx] = models.TickerOutcome{Ticker: symbol, Report: &report}
			default:
				log.Warn().Err(err).Str("ticker", symbol).Msg("batch ticker failed")
				outcomes[idx] = models.TickerOutcome{Ticker: symbol, Err: err}
			}
		}(i, ticker)
	}
	wg.Wait()

	return outcomes, summarize(outcomes)
}

func summarize(outcomes []models.TickerOutcome) models.BatchSummary {
	summary := models.BatchSummary{Total: len(outcomes)}

	for _, o := range outcomes {
		if o.Err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, models.BatchFailure{
				Ticker: o.Ticker,
				Reason: o.Err.Error(),
			})
			continue
		}
		summary.Successful++
		summary.Entries = append(summary.Entries, models.BatchEntry{
			Ticker: o.Ticker,
			Action: o.Report.Recommendation.Action,
			Score:  o.Report.FinancialAnalysis.ValuationScore,
		})
	}

	summary.TopPick, summary.Note = pickFavorite(summary.Entries)
	return summary
}

// pickFavorite names the standout ticker, or explains why there is none.
func pickFavorite(entries []models.BatchEntry) (string, string) {
	if len(entries) == 0 {
		return "", "no successful analyses to compare"
	}
	if len(entries) == 1 {
		return entries[0].Ticker, ""
	}

	allSame := true
	for _, e := range entries[1:] {
		if e.Action != entries[0].Action {
			allSame = false
			break
		}
	}
	if allSame {
		return "", "all stocks received the same recommendation, no clear favorite"
	}

	best := entries[0]
	for _, e := range entries[1:] {
		bp, ep := models.Action(best.Action).Priority(), models.Action(e.Action).Priority()
		if ep > bp || (ep == bp && e.Score > best.Score) {
			best = e
		}
	}
	return best.Ticker, ""
}
