package dataflows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
)

func TestNewYahooFinanceClientBoundsQuoteClient(t *testing.T) {
	timeout := 7 * time.Second
	NewYahooFinanceClient("", timeout, nil)

	backend, ok := finance.GetBackend(finance.YFinBackend).(*finance.BackendConfiguration)
	if !ok {
		t.Fatal("unexpected backend type")
	}
	if backend.HTTPClient == nil {
		t.Fatal("quote client not installed")
	}
	if backend.HTTPClient.Timeout != timeout {
		t.Fatalf("quote client timeout = %v, want %v", backend.HTTPClient.Timeout, timeout)
	}
}

func TestFormatLargeAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{2.85e12, "$2.85T"},
		{394.33e9, "$394.33B"},
		{12.5e6, "$12.5M"},
		{7500, "$7.5K"},
		{950, "$950"},
		{0, "N/A"},
		{-1, "N/A"},
	}
	for _, tt := range tests {
		if got := formatLargeAmount(tt.in); got != tt.want {
			t.Errorf("formatLargeAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRatio(t *testing.T) {
	if got := formatRatio(28.456); got != "28.46" {
		t.Fatalf("formatRatio = %q", got)
	}
	if got := formatRatio(0); got != "N/A" {
		t.Fatalf("formatRatio(0) = %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := formatPercent(24.6); got != "24.6%" {
		t.Fatalf("formatPercent = %q", got)
	}
}

func TestFetchFinancialData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v10/finance/quoteSummary/AAPL" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"quoteSummary": {
				"result": [{
					"financialData": {
						"totalRevenue": {"raw": 394330000000, "fmt": "394.33B"},
						"profitMargins": {"raw": 0.246, "fmt": "24.60%"},
						"revenueGrowth": {"raw": 0.081, "fmt": "8.10%"}
					}
				}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	yf := NewYahooFinanceClient("", 5*time.Second, fastRetry(0))
	yf.client.SetBaseURL(srv.URL)

	fd, err := yf.fetchFinancialData(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("fetchFinancialData: %v", err)
	}
	if fd.TotalRevenue.Raw != 394330000000 {
		t.Fatalf("revenue = %v", fd.TotalRevenue.Raw)
	}
	if fd.ProfitMargins.Raw != 0.246 {
		t.Fatalf("margins = %v", fd.ProfitMargins.Raw)
	}
}

func TestFetchFinancialDataEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quoteSummary": {"result": [], "error": null}}`))
	}))
	defer srv.Close()

	yf := NewYahooFinanceClient("", 5*time.Second, fastRetry(0))
	yf.client.SetBaseURL(srv.URL)

	if _, err := yf.fetchFinancialData(context.Background(), "ZZZZ"); err == nil {
		t.Fatal("expected error for empty result")
	}
}
