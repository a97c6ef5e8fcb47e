package models

import "time"

// Sentiment is the overall news sentiment label.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// RiskLevel is the three-level risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Action is the recommended position action.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionHold Action = "Hold"
	ActionSell Action = "Sell"
)

// Priority orders actions for batch ranking: Buy > Hold > Sell.
func (a Action) Priority() int {
	switch a {
	case ActionBuy:
		return 2
	case ActionHold:
		return 1
	default:
		return 0
	}
}

// ScoreComponent is one metric's contribution to the valuation score.
// Available is false when the metric was absent or unparseable.
type ScoreComponent struct {
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// ScoreBreakdown itemizes the valuation score. Raw is the unclamped sum.
type ScoreBreakdown struct {
	PE     ScoreComponent `json:"pe"`
	Growth ScoreComponent `json:"growth"`
	Margin ScoreComponent `json:"margin"`
	Raw    float64        `json:"raw"`
}

// SentimentSummary aggregates per-article classifications.
type SentimentSummary struct {
	Overall       Sentiment `json:"overall_sentiment"`
	Confidence    float64   `json:"confidence"`
	PositiveCount int       `json:"positive_count"`
	NegativeCount int       `json:"negative_count"`
	Headlines     []string  `json:"recent_headlines,omitempty"`
}

// RiskAssessment is the risk engine output.
type RiskAssessment struct {
	Score       float64   `json:"risk_score"`
	Level       RiskLevel `json:"risk_level"`
	Factors     []string  `json:"risk_factors,omitempty"`
	Mitigations []string  `json:"mitigation_suggestions,omitempty"`
}

// Recommendation is the final action with its deterministic reasoning.
type Recommendation struct {
	Action      Action   `json:"action"`
	Confidence  float64  `json:"confidence_score"`
	Reasoning   string   `json:"reasoning"`
	TimeHorizon string   `json:"time_horizon,omitempty"`
	KeyPoints   []string `json:"key_points,omitempty"`
}

// AnalysisResult is the analysis stage output for one ticker. Immutable.
type AnalysisResult struct {
	Ticker         string           `json:"ticker"`
	ValuationScore float64          `json:"valuation_score"`
	Breakdown      ScoreBreakdown   `json:"score_breakdown"`
	Sentiment      SentimentSummary `json:"sentiment_analysis"`
	Risk           RiskAssessment   `json:"risk_assessment"`
	Recommendation Recommendation   `json:"recommendation"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
