package analysis

import (
	"strings"

	"github.com/quantatsu/equiscope/internal/models"
)

// Curated keyword lexicons matched case-insensitively against title+snippet.
var (
	positiveKeywords = []string{
		"beat", "beats", "strong", "surge", "rally", "record", "growth",
		"profit", "gain", "gains", "upgrade", "outperform", "innovation",
		"expands", "expansion", "breakthrough", "soar", "bullish",
	}
	negativeKeywords = []string{
		"miss", "misses", "weak", "decline", "drop", "plunge", "loss",
		"losses", "downgrade", "lawsuit", "investigation", "layoff",
		"layoffs", "recall", "warns", "warning", "falls", "slump", "bearish",
	}
)

// ClassifySentiment aggregates headline sentiment over the item sequence.
// An item matching both lexicons counts toward both tallies. Zero articles
// is reported as fully-confident neutral.
func ClassifySentiment(items []models.NewsItem) models.SentimentSummary {
	summary := models.SentimentSummary{Overall: models.SentimentNeutral, Confidence: 100}
	if len(items) == 0 {
		return summary
	}

	for _, item := range items {
		text := strings.ToLower(item.Title + " " + item.Snippet)
		if matchesAny(text, positiveKeywords) {
			summary.PositiveCount++
		}
		if matchesAny(text, negativeKeywords) {
			summary.NegativeCount++
		}
	}

	switch {
	case summary.PositiveCount > summary.NegativeCount:
		summary.Overall = models.SentimentPositive
	case summary.NegativeCount > summary.PositiveCount:
		summary.Overall = models.SentimentNegative
	}

	top := summary.PositiveCount
	if summary.NegativeCount > top {
		top = summary.NegativeCount
	}
	summary.Confidence = 100 * float64(top) / float64(len(items))

	for i, item := range items {
		if i == 3 {
			break
		}
		summary.Headlines = append(summary.Headlines, item.Title)
	}
	return summary
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
