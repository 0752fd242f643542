// Package notify publishes pipeline events to interested consumers.
package notify

import "context"

// Event describes one processed patch record.
type Event struct {
	RunID    string `json:"run_id"`
	Version  string `json:"version"`
	URL      string `json:"url"`
	Sections int    `json:"sections"`
	Outcome  string `json:"outcome"`
}

// Publisher pushes pipeline events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) (string, error)
	Close() error
}

// Noop drops every event. It is the default when no notifier is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string, any) (string, error) { return "", nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }
