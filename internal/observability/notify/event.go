// Package notify defines the outbound notification payloads and the sink
// contract used to deliver them.
package notify

import (
	"context"
	"time"
)

// Event status discriminants carried in every payload.
const (
	StatusStarted   = "started"
	StatusProgress  = "progress"
	StatusCompleted = "completed"
	StatusError     = "error"
)

// StartedPayload announces that a batch lookup has begun processing.
type StartedPayload struct {
	TaskID      string    `json:"task_id"`
	Status      string    `json:"status"`
	Account     string    `json:"account"`
	TotalPhones int       `json:"total_phones"`
	Timestamp   time.Time `json:"timestamp"`
}

// ProgressPayload carries cumulative counters for a running batch.
type ProgressPayload struct {
	TaskID          string    `json:"task_id"`
	Status          string    `json:"status"`
	Account         string    `json:"account"`
	Processed       int       `json:"processed"`
	Total           int       `json:"total"`
	Found           int       `json:"found"`
	NotFound        int       `json:"not_found"`
	Errors          int       `json:"errors"`
	ProgressPercent float64   `json:"progress_percent"`
	Timestamp       time.Time `json:"timestamp"`
}

// FinalPayload is the terminal notification, emitted once per task with the
// full result sequence. Status is "completed" or "error".
type FinalPayload struct {
	TaskID      string `json:"task_id"`
	Status      string `json:"status"`
	Account     string `json:"account"`
	TotalPhones int    `json:"total_phones"`
	Processed   int    `json:"processed"`
	Found       int    `json:"found"`
	NotFound    int    `json:"not_found"`
	Errors      int    `json:"errors"`
	Error       string `json:"error,omitempty"`
	// Results is the full result sequence, or the caller's filtered view of it
	// when the submission carried a results filter.
	Results     any        `json:"results"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
}

// Sink describes a destination capable of delivering notification payloads.
// Delivery is one-shot: implementations must not retry or queue.
type Sink interface {
	Deliver(ctx context.Context, url string, payload any) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, url string, payload any) error

// Deliver implements the Sink interface.
func (f SinkFunc) Deliver(ctx context.Context, url string, payload any) error {
	if f == nil {
		return nil
	}
	return f(ctx, url, payload)
}
