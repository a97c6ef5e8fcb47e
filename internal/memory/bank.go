package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quantatsu/equiscope/internal/models"
)

// Bank is the append-only store of finished reports. Entries are held in
// memory, indexed by ticker and session, and mirrored to a JSON file so
// history survives restarts. Entries are never updated or deleted.
type Bank struct {
	mu       sync.RWMutex
	entries  []models.MemoryEntry
	byTicker map[string][]int
	path     string
	now      func() time.Time
}

// NewBank opens the bank backed by the JSON file at path, loading any
// existing entries. A missing file starts the bank empty.
func NewBank(path string) (*Bank, error) {
	b := &Bank{
		byTicker: make(map[string][]int),
		path:     path,
		now:      time.Now,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory file: %w", err)
	}
	if len(data) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(data, &b.entries); err != nil {
		return nil, fmt.Errorf("parse memory file %s: %w", path, err)
	}
	for i, e := range b.entries {
		b.byTicker[e.Ticker] = append(b.byTicker[e.Ticker], i)
	}
	return b, nil
}

// Record appends a report to the bank. The in-memory entry is kept even when
// flushing to disk fails, in which case the error wraps ErrPersistenceFailed.
func (b *Bank) Record(sessionID, ticker string, report models.Report) (models.MemoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry := models.MemoryEntry{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Ticker:    ticker,
		Report:    report,
		StoredAt:  b.now().UTC(),
	}
	b.entries = append(b.entries, entry)
	b.byTicker[ticker] = append(b.byTicker[ticker], len(b.entries)-1)

	if err := b.flushLocked(); err != nil {
		log.Warn().Err(err).Str("ticker", ticker).Msg("memory flush failed, entry kept in memory")
		return entry, fmt.Errorf("%w: %v", models.ErrPersistenceFailed, err)
	}
	return entry, nil
}

// Query returns up to limit stored entries for a ticker, most recent first.
// limit <= 0 returns all. Unknown tickers yield an empty slice.
func (b *Bank) Query(ticker string, limit int) []models.MemoryEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	idx := b.byTicker[ticker]
	out := make([]models.MemoryEntry, 0, len(idx))
	for i := len(idx) - 1; i >= 0; i-- {
		out = append(out, b.entries[idx[i]])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// QuerySession returns the entries recorded under a session in write order.
func (b *Bank) QuerySession(sessionID string) []models.MemoryEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []models.MemoryEntry
	for _, e := range b.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the total number of stored entries.
func (b *Bank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *Bank) flushLocked() error {
	data, err := json.MarshalIndent(b.entries, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(b.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, b.path)
}
