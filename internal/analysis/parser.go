package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quantatsu/equiscope/internal/models"
)

// Field is a metric value that may be absent.
type Field struct {
	Value float64
	Valid bool
}

// Metrics is the typed form of RawMetrics. Percent-denominated fields
// (ProfitMargin, RevenueGrowth) carry percent units, e.g. 25.65 for 25.65%.
type Metrics struct {
	PERatio       Field
	MarketCap     Field
	Revenue       Field
	Earnings      Field
	ProfitMargin  Field
	RevenueGrowth Field
}

// MissingFundamentals counts how many of the scored metrics (PE, growth,
// margin) are unavailable.
func (m Metrics) MissingFundamentals() int {
	n := 0
	for _, f := range []Field{m.PERatio, m.RevenueGrowth, m.ProfitMargin} {
		if !f.Valid {
			n++
		}
	}
	return n
}

// ParseMetrics normalizes provider strings into typed values. Absent fields
// ("", "N/A") are skipped silently; malformed fields are treated as absent
// and reported back as warnings so the caller can log them without failing
// the pipeline.
func ParseMetrics(raw models.RawMetrics) (Metrics, []string) {
	var warnings []string

	parse := func(name, s string) Field {
		f, ok, err := parseNumeric(s)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not parse %s %q", name, s))
			return Field{}
		}
		if !ok {
			return Field{}
		}
		return f
	}

	m := Metrics{
		PERatio:       parse("pe_ratio", raw.PERatio),
		MarketCap:     parse("market_cap", raw.MarketCap),
		Revenue:       parse("revenue", raw.Revenue),
		Earnings:      parse("earnings", raw.Earnings),
		ProfitMargin:  parse("profit_margin", raw.ProfitMargin),
		RevenueGrowth: parse("revenue_growth", raw.RevenueGrowth),
	}
	return m, warnings
}

// parseNumeric handles "$2.5T", "25.65%", "1,234.5" and plain numbers.
// Returns ok=false for absent values and an error for malformed ones.
func parseNumeric(s string) (Field, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return Field{}, false, nil
	}

	cleaned := strings.ToUpper(s)
	cleaned = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(cleaned)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(cleaned, "T"):
		multiplier = 1e12
		cleaned = strings.TrimSuffix(cleaned, "T")
	case strings.HasSuffix(cleaned, "B"):
		multiplier = 1e9
		cleaned = strings.TrimSuffix(cleaned, "B")
	case strings.HasSuffix(cleaned, "M"):
		multiplier = 1e6
		cleaned = strings.TrimSuffix(cleaned, "M")
	case strings.HasSuffix(cleaned, "K"):
		multiplier = 1e3
		cleaned = strings.TrimSuffix(cleaned, "K")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Field{}, false, err
	}
	return Field{Value: v * multiplier, Valid: true}, true, nil
}
