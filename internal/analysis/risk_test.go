package analysis

import (
	"testing"

	"github.com/quantatsu/equiscope/internal/models"
)

func fullMetrics() Metrics {
	return Metrics{
		PERatio:       field(15),
		RevenueGrowth: field(12),
		ProfitMargin:  field(20),
	}
}

func confidentSentiment(overall models.Sentiment) models.SentimentSummary {
	return models.SentimentSummary{Overall: overall, Confidence: 90}
}

func TestAssessRiskBaseline(t *testing.T) {
	// Valuation in the neutral band, neutral sentiment, complete data:
	// score stays at the base 50, medium.
	got := AssessRisk(fullMetrics(), 50, confidentSentiment(models.SentimentNeutral))
	if got.Score != 50 {
		t.Fatalf("score = %v, want 50", got.Score)
	}
	if got.Level != models.RiskMedium {
		t.Fatalf("level = %s, want medium", got.Level)
	}
}

func TestAssessRiskLow(t *testing.T) {
	// 50 - 10 (strong valuation) - 15 (positive sentiment) = 25.
	got := AssessRisk(fullMetrics(), 65, confidentSentiment(models.SentimentPositive))
	if got.Score != 25 {
		t.Fatalf("score = %v, want 25", got.Score)
	}
	if got.Level != models.RiskLow {
		t.Fatalf("level = %s, want low", got.Level)
	}
}

func TestAssessRiskHigh(t *testing.T) {
	// 50 + 15 (weak valuation) + 20 (negative sentiment) = 85.
	got := AssessRisk(fullMetrics(), 20, confidentSentiment(models.SentimentNegative))
	if got.Score != 85 {
		t.Fatalf("score = %v, want 85", got.Score)
	}
	if got.Level != models.RiskHigh {
		t.Fatalf("level = %s, want high", got.Level)
	}
	if len(got.Factors) == 0 {
		t.Fatal("high risk should name factors")
	}
	if len(got.Mitigations) == 0 {
		t.Fatal("mitigation suggestions missing")
	}
}

func TestAssessRiskMissingDataPenalty(t *testing.T) {
	partial := Metrics{PERatio: field(15)}

	complete := AssessRisk(fullMetrics(), 50, confidentSentiment(models.SentimentNeutral))
	got := AssessRisk(partial, 50, confidentSentiment(models.SentimentNeutral))

	if want := complete.Score + 2*missingFieldPenalty; got.Score != want {
		t.Fatalf("score = %v, want %v", got.Score, want)
	}
}

func TestAssessRiskUncertainSentiment(t *testing.T) {
	s := models.SentimentSummary{Overall: models.SentimentNeutral, Confidence: 40}
	got := AssessRisk(fullMetrics(), 50, s)
	if got.Score != 60 {
		t.Fatalf("score = %v, want 60 (+10 for low confidence)", got.Score)
	}
}

func TestAssessRiskClampsAt100(t *testing.T) {
	// 50 + 15 + 20 + 10 + 24 = 119, clamped.
	s := models.SentimentSummary{Overall: models.SentimentNegative, Confidence: 30}
	got := AssessRisk(Metrics{}, 20, s)
	if got.Score != 100 {
		t.Fatalf("score = %v, want 100", got.Score)
	}
	if got.Level != models.RiskHigh {
		t.Fatalf("level = %s, want high", got.Level)
	}
}
