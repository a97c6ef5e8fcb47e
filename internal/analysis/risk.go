package analysis

import "github.com/quantatsu/equiscope/internal/models"

// Penalty added per missing fundamental metric.
const missingFieldPenalty = 8

// AssessRisk combines inverse valuation strength, sentiment polarity, and
// metric completeness into a 0-100 risk score and a three-level label.
func AssessRisk(m Metrics, valuationScore float64, sentiment models.SentimentSummary) models.RiskAssessment {
	score := 50.0
	var factors []string

	if valuationScore < 40 {
		score += 15
		factors = append(factors, "weak valuation fundamentals")
	} else if valuationScore > 60 {
		score -= 10
	}

	switch sentiment.Overall {
	case models.SentimentNegative:
		score += 20
		factors = append(factors, "negative news sentiment")
	case models.SentimentPositive:
		score -= 15
	}

	if sentiment.Confidence < 50 {
		score += 10
		factors = append(factors, "mixed or uncertain market sentiment")
	}

	if missing := m.MissingFundamentals(); missing > 0 {
		score += float64(missing * missingFieldPenalty)
		factors = append(factors, "incomplete fundamental data")
	}

	score = clamp(score, 0, 100)

	var level models.RiskLevel
	switch {
	case score < 34:
		level = models.RiskLow
	case score < 67:
		level = models.RiskMedium
	default:
		level = models.RiskHigh
	}

	return models.RiskAssessment{
		Score:       score,
		Level:       level,
		Factors:     factors,
		Mitigations: mitigationsFor(level),
	}
}

func mitigationsFor(level models.RiskLevel) []string {
	switch level {
	case models.RiskHigh:
		return []string{
			"Consider smaller position size",
			"Use stop-loss orders",
			"Diversify across multiple stocks",
		}
	case models.RiskMedium:
		return []string{
			"Monitor regularly",
			"Maintain balanced portfolio",
		}
	default:
		return []string{"Continue regular monitoring"}
	}
}
