package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quantatsu/equiscope/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(1, 2).
			Width(78)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	buyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	holdStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	sellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#EF4444"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Italic(true)
)

func actionStyle(action string) lipgloss.Style {
	switch action {
	case string(models.ActionBuy):
		return buyStyle
	case string(models.ActionSell):
		return sellStyle
	default:
		return holdStyle
	}
}

func riskStyle(level string) lipgloss.Style {
	switch level {
	case string(models.RiskLow):
		return buyStyle
	case string(models.RiskHigh):
		return sellStyle
	default:
		return holdStyle
	}
}

// RenderReport renders one analysis report for the terminal.
func RenderReport(r models.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s Equity Research Report", r.Ticker)))
	b.WriteString("\n")

	var body strings.Builder
	body.WriteString(r.ExecutiveSummary + "\n")

	body.WriteString(sectionStyle.Render("Recommendation") + "\n")
	body.WriteString(fmt.Sprintf("  %s  %s\n",
		actionStyle(r.Recommendation.Action).Render(r.Recommendation.Action),
		labelStyle.Render(fmt.Sprintf("confidence %.0f/100", r.Recommendation.ConfidenceScore))))
	body.WriteString("  " + r.Recommendation.Reasoning + "\n")
	if r.Recommendation.TimeHorizon != "" {
		body.WriteString("  " + labelStyle.Render("Horizon: ") + r.Recommendation.TimeHorizon + "\n")
	}

	body.WriteString(sectionStyle.Render("Financials") + "\n")
	body.WriteString(fmt.Sprintf("  Valuation score: %.1f/100\n", r.FinancialAnalysis.ValuationScore))
	body.WriteString(fmt.Sprintf("  P/E: %s   Revenue: %s   Market cap: %s\n",
		r.FinancialAnalysis.KeyMetrics.PERatio,
		r.FinancialAnalysis.KeyMetrics.Revenue,
		r.FinancialAnalysis.KeyMetrics.MarketCap))

	body.WriteString(sectionStyle.Render("Sentiment") + "\n")
	body.WriteString(fmt.Sprintf("  %s (confidence %.0f%%), %d positive / %d negative headlines\n",
		r.SentimentAnalysis.OverallSentiment,
		r.SentimentAnalysis.Confidence,
		r.SentimentAnalysis.PositiveCount,
		r.SentimentAnalysis.NegativeCount))

	body.WriteString(sectionStyle.Render("Risk") + "\n")
	body.WriteString(fmt.Sprintf("  %s  %s\n",
		riskStyle(r.RiskAssessment.RiskLevel).Render(r.RiskAssessment.RiskLevel),
		labelStyle.Render(fmt.Sprintf("score %.0f/100", r.RiskAssessment.RiskScore))))
	for _, f := range r.RiskAssessment.RiskFactors {
		body.WriteString("  - " + f + "\n")
	}
	for _, m := range r.RiskAssessment.Mitigations {
		body.WriteString("  " + dimStyle.Render("tip: "+m) + "\n")
	}

	if r.LLMResearchSummary != "" {
		body.WriteString(sectionStyle.Render("Research Summary") + "\n")
		body.WriteString("  " + r.LLMResearchSummary + "\n")
	}

	if len(r.RecentNews) > 0 {
		body.WriteString(sectionStyle.Render("Recent News") + "\n")
		for i, item := range r.RecentNews {
			if i == 5 {
				break
			}
			body.WriteString("  - " + item.Title + "\n")
		}
	}

	b.WriteString(boxStyle.Render(body.String()))
	b.WriteString("\n")
	return b.String()
}

// RenderBatch renders the batch comparison table and summary narrative.
func RenderBatch(outcomes []models.TickerOutcome, summary models.BatchSummary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Batch Comparison"))
	b.WriteString("\n")

	var body strings.Builder
	body.WriteString(fmt.Sprintf("Analyzed %d tickers: %d successful, %d failed\n\n",
		summary.Total, summary.Successful, summary.Failed))

	for _, e := range summary.Entries {
		body.WriteString(fmt.Sprintf("  %-6s  %s  %s\n",
			e.Ticker,
			actionStyle(e.Action).Render(fmt.Sprintf("%-4s", e.Action)),
			labelStyle.Render(fmt.Sprintf("valuation %.1f", e.Score))))
	}
	for _, f := range summary.Failures {
		body.WriteString(fmt.Sprintf("  %-6s  %s\n", f.Ticker, errStyle.Render("failed: "+f.Reason)))
	}

	if tally := actionTally(summary.Entries); tally != "" {
		body.WriteString("\n" + labelStyle.Render("Actions: ") + tally + "\n")
	}
	if groups := riskGroups(outcomes); groups != "" {
		body.WriteString(labelStyle.Render("Risk: ") + groups + "\n")
	}
	if overview := sentimentOverview(outcomes); overview != "" {
		body.WriteString(labelStyle.Render("Sentiment: ") + overview + "\n")
	}

	if summary.TopPick != "" {
		body.WriteString("\nTop pick: " + buyStyle.Render(summary.TopPick) + "\n")
	}
	if summary.Note != "" {
		body.WriteString("\n" + dimStyle.Render(summary.Note) + "\n")
	}

	b.WriteString(boxStyle.Render(body.String()))
	b.WriteString("\n")
	return b.String()
}

// RenderHistory renders past analyses of a ticker.
func RenderHistory(ticker string, entries []models.MemoryEntry) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s History", ticker)))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString(dimStyle.Render("no stored analyses") + "\n")
		return b.String()
	}

	var body strings.Builder
	for _, e := range entries {
		body.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			e.StoredAt.Format("2006-01-02 15:04"),
			actionStyle(e.Report.Recommendation.Action).Render(fmt.Sprintf("%-4s", e.Report.Recommendation.Action)),
			labelStyle.Render(fmt.Sprintf("valuation %.1f, risk %s",
				e.Report.FinancialAnalysis.ValuationScore, e.Report.RiskAssessment.RiskLevel))))
	}
	b.WriteString(boxStyle.Render(body.String()))
	b.WriteString("\n")
	return b.String()
}

func actionTally(entries []models.BatchEntry) string {
	if len(entries) == 0 {
		return ""
	}
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Action]++
	}
	var parts []string
	for _, action := range []string{string(models.ActionBuy), string(models.ActionHold), string(models.ActionSell)} {
		if counts[action] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[action], action))
		}
	}
	return strings.Join(parts, ", ")
}

func sentimentOverview(outcomes []models.TickerOutcome) string {
	counts := map[string]int{}
	for _, o := range outcomes {
		if o.Report == nil {
			continue
		}
		counts[o.Report.SentimentAnalysis.OverallSentiment]++
	}
	var parts []string
	for _, s := range []string{string(models.SentimentPositive), string(models.SentimentNeutral), string(models.SentimentNegative)} {
		if counts[s] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[s], s))
		}
	}
	return strings.Join(parts, ", ")
}

func riskGroups(outcomes []models.TickerOutcome) string {
	groups := map[string][]string{}
	for _, o := range outcomes {
		if o.Report == nil {
			continue
		}
		level := o.Report.RiskAssessment.RiskLevel
		groups[level] = append(groups[level], o.Ticker)
	}
	var parts []string
	for _, level := range []string{string(models.RiskLow), string(models.RiskMedium), string(models.RiskHigh)} {
		if len(groups[level]) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", level, strings.Join(groups[level], " ")))
		}
	}
	return strings.Join(parts, "  |  ")
}
