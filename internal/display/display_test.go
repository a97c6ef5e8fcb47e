package display

import (
	"strings"
	"testing"
	"time"

	"github.com/quantatsu/equiscope/internal/models"
)

func sampleReport() models.Report {
	return models.Report{
		Ticker:           "AAPL",
		ExecutiveSummary: "AAPL Analysis Summary: Recommendation: Hold | Market Sentiment: positive | Risk Level: medium",
		Recommendation: models.RecommendationSection{
			Action:          string(models.ActionHold),
			ConfidenceScore: 55,
			Reasoning:       "Valuation score 42.0/100 signals Hold.",
			TimeHorizon:     "medium-term (6-12 months)",
		},
		FinancialAnalysis: models.FinancialSection{
			ValuationScore: 42,
			KeyMetrics:     models.KeyMetrics{PERatio: "28.5", Revenue: "$394.33B", MarketCap: "$2.85T"},
		},
		SentimentAnalysis: models.SentimentSection{
			OverallSentiment: string(models.SentimentPositive),
			Confidence:       66.7,
			PositiveCount:    2,
			NegativeCount:    1,
		},
		RiskAssessment: models.RiskSection{
			RiskLevel:   string(models.RiskMedium),
			RiskScore:   50,
			RiskFactors: []string{"mixed news sentiment"},
		},
		GeneratedAt: time.Now().UTC(),
	}
}

func TestRenderReportIncludesSections(t *testing.T) {
	out := RenderReport(sampleReport())

	for _, want := range []string{"AAPL", "Hold", "42.0", "$2.85T", "positive", "medium", "mixed news sentiment"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered report missing %q", want)
		}
	}
}

func TestRenderBatchTallyAndGroups(t *testing.T) {
	r1 := sampleReport()
	r2 := sampleReport()
	r2.Ticker = "MSFT"
	r2.RiskAssessment.RiskLevel = string(models.RiskLow)

	outcomes := []models.TickerOutcome{
		{Ticker: "AAPL", Report: &r1},
		{Ticker: "BADX", Err: models.ErrTickerNotFound},
		{Ticker: "MSFT", Report: &r2},
	}
	summary := models.BatchSummary{
		Total:      3,
		Successful: 2,
		Failed:     1,
		Entries: []models.BatchEntry{
			{Ticker: "AAPL", Action: string(models.ActionHold), Score: 42},
			{Ticker: "MSFT", Action: string(models.ActionHold), Score: 42},
		},
		Failures: []models.BatchFailure{{Ticker: "BADX", Reason: "ticker not found"}},
		Note:     "all stocks received the same recommendation, no clear favorite",
	}

	out := RenderBatch(outcomes, summary)

	for _, want := range []string{"2 successful", "1 failed", "2 Hold", "low: MSFT", "medium: AAPL", "2 positive", "BADX", "no clear favorite"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered batch missing %q", want)
		}
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	out := RenderHistory("AAPL", nil)
	if !strings.Contains(out, "no stored analyses") {
		t.Errorf("empty history should say so, got:\n%s", out)
	}
}

func TestRenderHistoryRows(t *testing.T) {
	r := sampleReport()
	entries := []models.MemoryEntry{{
		Ticker:   "AAPL",
		Report:   r,
		StoredAt: time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}}
	out := RenderHistory("AAPL", entries)
	for _, want := range []string{"2025-06-01 09:30", "Hold", "42.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered history missing %q", want)
		}
	}
}
