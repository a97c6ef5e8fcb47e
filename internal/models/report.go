package models

import "time"

// KeyMetrics echoes the headline fundamentals on the report.
type KeyMetrics struct {
	PERatio   string `json:"pe_ratio"`
	Revenue   string `json:"revenue"`
	MarketCap string `json:"market_cap"`
}

// FinancialSection is the financial_analysis block of a report.
type FinancialSection struct {
	ValuationScore float64        `json:"valuation_score"`
	Breakdown      ScoreBreakdown `json:"score_breakdown"`
	KeyMetrics     KeyMetrics     `json:"key_metrics"`
}

// SentimentSection is the sentiment_analysis block of a report.
type SentimentSection struct {
	OverallSentiment string  `json:"overall_sentiment"`
	Confidence       float64 `json:"confidence"`
	PositiveCount    int     `json:"positive_count"`
	NegativeCount    int     `json:"negative_count"`
}

// RecommendationSection is the recommendation block of a report.
type RecommendationSection struct {
	Action          string   `json:"action"`
	ConfidenceScore float64  `json:"confidence_score"`
	Reasoning       string   `json:"reasoning"`
	TimeHorizon     string   `json:"time_horizon,omitempty"`
	KeyPoints       []string `json:"key_points,omitempty"`
}

// RiskSection is the risk_assessment block of a report.
type RiskSection struct {
	RiskLevel   string   `json:"risk_level"`
	RiskScore   float64  `json:"risk_score"`
	RiskFactors []string `json:"risk_factors,omitempty"`
	Mitigations []string `json:"mitigation_suggestions,omitempty"`
}

// Report is the user-facing result of one pipeline run. Field names are part
// of the external JSON contract.
type Report struct {
	Ticker             string                `json:"ticker"`
	ExecutiveSummary   string                `json:"executive_summary"`
	LLMResearchSummary string                `json:"llm_research_summary,omitempty"`
	Recommendation     RecommendationSection `json:"recommendation"`
	FinancialAnalysis  FinancialSection      `json:"financial_analysis"`
	SentimentAnalysis  SentimentSection      `json:"sentiment_analysis"`
	RiskAssessment     RiskSection           `json:"risk_assessment"`
	RecentNews         []NewsItem            `json:"recent_news,omitempty"`
	GeneratedAt        time.Time             `json:"generated_at"`
	SessionID          string                `json:"session_id"`
}

// MemoryEntry is one append-only record in the memory bank.
type MemoryEntry struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Ticker    string    `json:"ticker"`
	Report    Report    `json:"report"`
	StoredAt  time.Time `json:"stored_at"`
}

// BatchEntry is one row of the batch comparison table.
type BatchEntry struct {
	Ticker string  `json:"ticker"`
	Action string  `json:"action"`
	Score  float64 `json:"score"`
}

// BatchFailure records a ticker whose pipeline run failed.
type BatchFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// BatchSummary compares the outcomes of a batch run. Entries and Failures
// preserve input order. Note is set when no single ticker stands out.
type BatchSummary struct {
	Total      int            `json:"total_stocks"`
	Successful int            `json:"successful"`
	Failed     int            `json:"failed"`
	Entries    []BatchEntry   `json:"comparison"`
	Failures   []BatchFailure `json:"failures,omitempty"`
	TopPick    string         `json:"top_pick,omitempty"`
	Note       string         `json:"note,omitempty"`
}

// TickerOutcome is a per-ticker batch result: a report or an error.
type TickerOutcome struct {
	Ticker string
	Report *Report
	Err    error
}
