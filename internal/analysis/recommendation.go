package analysis

import (
	"fmt"
	"math"

	"github.com/quantatsu/equiscope/internal/models"
)

// Recommend maps the valuation score to an action and derives a confidence
// from distance-to-midpoint, adjusted by sentiment alignment and risk level.
// The reasoning string is fully deterministic.
func Recommend(valuationScore float64, sentiment models.SentimentSummary, risk models.RiskAssessment) models.Recommendation {
	var action models.Action
	switch {
	case valuationScore > 70:
		action = models.ActionBuy
	case valuationScore >= 35:
		action = models.ActionHold
	default:
		action = models.ActionSell
	}

	confidence := 50 + math.Abs(valuationScore-50)
	confidence += alignmentAdjustment(valuationScore, sentiment.Overall)

	switch risk.Level {
	case models.RiskMedium:
		confidence -= 5
	case models.RiskHigh:
		confidence -= 15
	}

	confidence = clamp(confidence, 0, 100)

	reasoning := fmt.Sprintf("Valuation score %.1f/100 signals %s. News sentiment is %s, risk level is %s.",
		valuationScore, action, sentiment.Overall, risk.Level)

	return models.Recommendation{
		Action:      action,
		Confidence:  confidence,
		Reasoning:   reasoning,
		TimeHorizon: horizonFor(risk.Level),
		KeyPoints: []string{
			fmt.Sprintf("Valuation: %.1f/100", valuationScore),
			fmt.Sprintf("Sentiment: %s", sentiment.Overall),
			fmt.Sprintf("Risk: %s", risk.Level),
		},
	}
}

// Sentiment agreeing with the valuation-implied direction raises confidence;
// disagreeing lowers it. Mid-range scores imply no direction.
func alignmentAdjustment(score float64, overall models.Sentiment) float64 {
	bullish := score >= 55
	bearish := score < 45
	switch overall {
	case models.SentimentPositive:
		if bullish {
			return 10
		}
		if bearish {
			return -10
		}
	case models.SentimentNegative:
		if bearish {
			return 10
		}
		if bullish {
			return -10
		}
	}
	return 0
}

func horizonFor(level models.RiskLevel) string {
	switch level {
	case models.RiskLow:
		return "long-term (1+ years)"
	case models.RiskMedium:
		return "medium-term (6-12 months)"
	default:
		return "short-term (< 6 months)"
	}
}
