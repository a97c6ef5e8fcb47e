package pipeline

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/analysis"
	"github.com/quantatsu/equiscope/internal/models"
)

// AnalysisStage runs the deterministic scoring engines over a research
// record. It is a pure composition and cannot fail; absent or malformed
// metrics degrade to unavailable score components.
type AnalysisStage struct {
	now func() time.Time
}

func NewAnalysisStage() *AnalysisStage {
	return &AnalysisStage{now: time.Now}
}

// Run scores the record.
func (as *AnalysisStage) Run(record models.ResearchRecord) models.AnalysisResult {
	metrics, warnings := analysis.ParseMetrics(record.Metrics)
	for _, w := range warnings {
		log.Warn().Str("ticker", record.Ticker).Msg(w)
	}

	valuation, breakdown := analysis.ScoreValuation(metrics)
	sentiment := analysis.ClassifySentiment(record.News)
	risk := analysis.AssessRisk(metrics, valuation, sentiment)
	recommendation := analysis.Recommend(valuation, sentiment, risk)

	return models.AnalysisResult{
		Ticker:         record.Ticker,
		ValuationScore: valuation,
		Breakdown:      breakdown,
		Sentiment:      sentiment,
		Risk:           risk,
		Recommendation: recommendation,
		GeneratedAt:    as.now().UTC(),
	}
}
