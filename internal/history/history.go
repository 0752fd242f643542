// Package history persists a per-URL ledger of scrape attempts.
package history

import (
	"context"
	"time"
)

// Statuses recorded in the ledger.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// Entry is one row in the scrape ledger.
type Entry struct {
	RunID     string
	URL       string
	Version   string
	Status    string
	Strategy  string
	BodyHash  string
	Duration  time.Duration
	ErrorText string
	ScrapedAt time.Time
}

// Recorder persists scrape ledger entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
	Close()
}

// Noop discards every entry. It is the default when no ledger is configured.
type Noop struct{}

// Record implements Recorder.
func (Noop) Record(context.Context, Entry) error { return nil }

// Close implements Recorder.
func (Noop) Close() {}
