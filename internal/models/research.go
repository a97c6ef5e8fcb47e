package models

import "time"

// RawMetrics holds provider-supplied fundamentals for a ticker. Fields are
// kept as the provider's display strings ("25.50", "$2.5T", "25.65%");
// "N/A" or empty means the provider had no value.
type RawMetrics struct {
	PERatio       string `json:"pe_ratio"`
	MarketCap     string `json:"market_cap"`
	Revenue       string `json:"revenue"`
	Earnings      string `json:"earnings"`
	ProfitMargin  string `json:"profit_margin"`
	RevenueGrowth string `json:"revenue_growth"`
}

// NewsItem is a single headline returned by a news feed. The sequence order
// is the provider's return order, not necessarily chronological.
type NewsItem struct {
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// ResearchRecord is the research stage output for one ticker. It is not
// mutated after creation.
type ResearchRecord struct {
	Ticker  string      `json:"ticker"`
	Metrics RawMetrics  `json:"metrics"`
	News    []NewsItem  `json:"news"`
	Summary string      `json:"summary,omitempty"`
}
