package memory

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantatsu/equiscope/internal/models"
)

func sampleReport(ticker string) models.Report {
	return models.Report{
		Ticker:           ticker,
		ExecutiveSummary: ticker + " Analysis Summary: Recommendation: Hold | Market Sentiment: neutral | Risk Level: medium",
		Recommendation: models.RecommendationSection{
			Action:          string(models.ActionHold),
			ConfidenceScore: 60,
		},
	}
}

func TestRecordAndQuery(t *testing.T) {
	b, err := NewBank(filepath.Join(t.TempDir(), "memory.json"))
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}

	if _, err := b.Record("s1", "AAPL", sampleReport("AAPL")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := b.Record("s1", "MSFT", sampleReport("MSFT")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := b.Record("s2", "AAPL", sampleReport("AAPL")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got := b.Query("AAPL", 0)
	if len(got) != 2 {
		t.Fatalf("Query(AAPL) returned %d entries, want 2", len(got))
	}
	// Most recent first.
	if got[0].SessionID != "s2" || got[1].SessionID != "s1" {
		t.Fatalf("Query order wrong: %s, %s", got[0].SessionID, got[1].SessionID)
	}

	if got := b.Query("TSLA", 0); len(got) != 0 {
		t.Fatalf("Query(TSLA) returned %d entries, want 0", len(got))
	}

	limited := b.Query("AAPL", 1)
	if len(limited) != 1 || limited[0].SessionID != "s2" {
		t.Fatalf("Query with limit = %+v", limited)
	}
}

func TestQuerySessionWriteOrder(t *testing.T) {
	b, err := NewBank(filepath.Join(t.TempDir(), "memory.json"))
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}

	for _, tk := range []string{"AAPL", "MSFT", "GOOG"} {
		if _, err := b.Record("s1", tk, sampleReport(tk)); err != nil {
			t.Fatalf("Record(%s): %v", tk, err)
		}
	}

	got := b.QuerySession("s1")
	if len(got) != 3 {
		t.Fatalf("QuerySession returned %d entries, want 3", len(got))
	}
	for i, want := range []string{"AAPL", "MSFT", "GOOG"} {
		if got[i].Ticker != want {
			t.Fatalf("entry %d ticker = %s, want %s", i, got[i].Ticker, want)
		}
	}
}

func TestReloadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")

	b, err := NewBank(path)
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	if _, err := b.Record("s1", "AAPL", sampleReport("AAPL")); err != nil {
		t.Fatalf("Record: %v", err)
	}

	reopened, err := NewBank(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Query("AAPL", 0)
	if len(got) != 1 {
		t.Fatalf("reopened Query returned %d entries, want 1", len(got))
	}
	if got[0].Report.Ticker != "AAPL" {
		t.Fatalf("reloaded report ticker = %s", got[0].Report.Ticker)
	}
}

func TestRecordPersistenceFailureKeepsEntry(t *testing.T) {
	// A directory at the target path makes every flush fail.
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	b := &Bank{
		byTicker: make(map[string][]int),
		path:     path,
		now:      time.Now,
	}

	_, err := b.Record("s1", "AAPL", sampleReport("AAPL"))
	if !errors.Is(err, models.ErrPersistenceFailed) {
		t.Fatalf("want ErrPersistenceFailed, got %v", err)
	}
	if got := b.Query("AAPL", 0); len(got) != 1 {
		t.Fatalf("entry dropped on flush failure: got %d entries", len(got))
	}
}

func TestNewBankMissingFile(t *testing.T) {
	b, err := NewBank(filepath.Join(t.TempDir(), "nope", "memory.json"))
	if err != nil {
		t.Fatalf("NewBank on missing file: %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
}
