package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/memory"
	"github.com/quantatsu/equiscope/internal/models"
)

// ReportStage assembles the user-facing report and records it in the memory
// bank. A persistence fault is logged but never suppresses the report.
type ReportStage struct {
	Bank *memory.Bank
	now  func() time.Time
}

func NewReportStage(bank *memory.Bank) *ReportStage {
	return &ReportStage{Bank: bank, now: time.Now}
}

// Run builds the final report and appends it to history.
func (rp *ReportStage) Run(sessionID string, record models.ResearchRecord, result models.AnalysisResult) (models.Report, error) {
	report := models.Report{
		Ticker: record.Ticker,
		ExecutiveSummary: fmt.Sprintf(
			"%s Analysis Summary: Recommendation: %s | Market Sentiment: %s | Risk Level: %s",
			record.Ticker,
			result.Recommendation.Action,
			result.Sentiment.Overall,
			result.Risk.Level,
		),
		LLMResearchSummary: record.Summary,
		Recommendation: models.RecommendationSection{
			Action:          string(result.Recommendation.Action),
			ConfidenceScore: result.Recommendation.Confidence,
			Reasoning:       result.Recommendation.Reasoning,
			TimeHorizon:     result.Recommendation.TimeHorizon,
			KeyPoints:       result.Recommendation.KeyPoints,
		},
		FinancialAnalysis: models.FinancialSection{
			ValuationScore: result.ValuationScore,
			Breakdown:      result.Breakdown,
			KeyMetrics: models.KeyMetrics{
				PERatio:   orNA(record.Metrics.PERatio),
				Revenue:   orNA(record.Metrics.Revenue),
				MarketCap: orNA(record.Metrics.MarketCap),
			},
		},
		SentimentAnalysis: models.SentimentSection{
			OverallSentiment: string(result.Sentiment.Overall),
			Confidence:       result.Sentiment.Confidence,
			PositiveCount:    result.Sentiment.PositiveCount,
			NegativeCount:    result.Sentiment.NegativeCount,
		},
		RiskAssessment: models.RiskSection{
			RiskLevel:   string(result.Risk.Level),
			RiskScore:   result.Risk.Score,
			RiskFactors: result.Risk.Factors,
			Mitigations: result.Risk.Mitigations,
		},
		RecentNews:  record.News,
		GeneratedAt: rp.now().UTC(),
		SessionID:   sessionID,
	}

	if prev := rp.Bank.Query(record.Ticker, 1); len(prev) == 1 {
		report.Recommendation.KeyPoints = append(report.Recommendation.KeyPoints,
			comparedToPrevious(prev[0].Report, report))
	}

	// The finished report is returned either way; callers branch on the
	// error kind to learn it was not persisted.
	if _, err := rp.Bank.Record(sessionID, record.Ticker, report); err != nil {
		log.Warn().Err(err).Str("ticker", record.Ticker).Msg("report not persisted")
		return report, err
	}

	return report, nil
}

// comparedToPrevious describes how this analysis moved against the most
// recent stored one.
func comparedToPrevious(prev, cur models.Report) string {
	delta := cur.FinancialAnalysis.ValuationScore - prev.FinancialAnalysis.ValuationScore

	var scorePart string
	switch {
	case delta > 0:
		scorePart = fmt.Sprintf("Valuation score up %.1f since the last analysis", delta)
	case delta < 0:
		scorePart = fmt.Sprintf("Valuation score down %.1f since the last analysis", -delta)
	default:
		scorePart = "Valuation score unchanged since the last analysis"
	}

	if prev.Recommendation.Action != cur.Recommendation.Action {
		return fmt.Sprintf("%s; recommendation moved from %s to %s",
			scorePart, prev.Recommendation.Action, cur.Recommendation.Action)
	}
	return fmt.Sprintf("%s; recommendation unchanged at %s", scorePart, cur.Recommendation.Action)
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
