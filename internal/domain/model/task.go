// Package model defines the core data types used throughout the lookup gateway.
package model

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a batch lookup task.
type TaskStatus string

// LookupStatus represents the outcome classification for a single phone number.
type LookupStatus string

const (
	// TaskStatusPending indicates a task has been accepted but not yet started.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusProcessing indicates the task loop is working through the phone list.
	TaskStatusProcessing TaskStatus = "processing"
	// TaskStatusCompleted indicates all items were attempted, regardless of per-item outcome.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusError indicates the task failed its precondition check before any item ran.
	TaskStatusError TaskStatus = "error"

	// LookupFound indicates the phone number resolved to a Telegram identity.
	LookupFound LookupStatus = "found"
	// LookupNotFound indicates no identity matched after the settle interval.
	LookupNotFound LookupStatus = "not_found"
	// LookupError indicates the resolution attempt itself failed.
	LookupError LookupStatus = "error"
)

// Valid returns true if the TaskStatus is one of the known lifecycle states.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusProcessing ||
		s == TaskStatusCompleted || s == TaskStatusError
}

// Terminal returns true once a task can no longer change.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// LookupResult is the outcome for one phone number within a batch.
//
// Invariants: Found==true implies Status==LookupFound and TelegramID is set;
// Status==LookupError implies Found==false.
type LookupResult struct {
	Phone          string       `json:"phone"`
	FormattedPhone string       `json:"formatted_phone"`
	TelegramID     *int64       `json:"telegram_id,omitempty"`
	Username       *string      `json:"username,omitempty"`
	FirstName      *string      `json:"first_name,omitempty"`
	LastName       *string      `json:"last_name,omitempty"`
	Found          bool         `json:"found"`
	Status         LookupStatus `json:"status"`
	Error          *string      `json:"error,omitempty"`
	Timestamp      time.Time    `json:"timestamp"`
}

// Task is one batch phone-lookup run and its progress/result record.
//
// A Task is exclusively owned by the registry that created it; the engine
// publishes mutations through the registry and never keeps a private copy.
type Task struct {
	ID          string         `json:"task_id"`
	Account     string         `json:"account"`
	Status      TaskStatus     `json:"status"`
	Total       int            `json:"total"`
	Processed   int            `json:"processed"`
	Found       int            `json:"found"`
	NotFound    int            `json:"not_found"`
	Errors      int            `json:"errors"`
	Results     []LookupResult `json:"results"`
	Error       *string        `json:"error,omitempty"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
}

// Clone returns a deep copy safe to hand to concurrent readers.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	cp := *t
	cp.Results = make([]LookupResult, len(t.Results))
	copy(cp.Results, t.Results)
	return &cp
}

// SubmitLookupRequest is the request body for starting a batch lookup.
type SubmitLookupRequest struct {
	Account             string   `json:"account"`
	Phones              []string `json:"phones"`
	WebhookURL          string   `json:"webhook_url,omitempty"`
	TaskID              string   `json:"task_id,omitempty"`
	DelayBetweenItemsMS int      `json:"delay_between_items_ms,omitempty"`
	ResultsFilter       string   `json:"results_filter,omitempty"`
}

const maxBatchSize = 10000

// Validate validates the SubmitLookupRequest fields.
func (r *SubmitLookupRequest) Validate() error {
	if strings.TrimSpace(r.Account) == "" {
		return errors.New("account is required")
	}
	if len(r.Phones) == 0 {
		return errors.New("phones list must not be empty")
	}
	if len(r.Phones) > maxBatchSize {
		return fmt.Errorf("phones list exceeds maximum of %d entries", maxBatchSize)
	}
	if r.DelayBetweenItemsMS < 0 {
		return errors.New("delay_between_items_ms must be >= 0")
	}
	return nil
}

// NewTaskID derives a task id from submission time and batch content.
// The id is deterministic for a given second and phone list, which keeps
// accidental collisions unlikely without claiming cryptographic uniqueness.
func NewTaskID(now time.Time, phones []string) string {
	h := fnv.New32a()
	for _, p := range phones {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("search_%d_%d", now.Unix(), h.Sum32()%10000)
}

// SubmitLookupResponse is returned when a batch lookup is accepted.
type SubmitLookupResponse struct {
	Status         string `json:"status"`
	TaskID         string `json:"task_id"`
	Account        string `json:"account"`
	TotalPhones    int    `json:"total_phones"`
	WebhookURL     string `json:"webhook_url,omitempty"`
	CheckStatusURL string `json:"check_status_url"`
}

// TaskResultsResponse carries results for a completed task.
type TaskResultsResponse struct {
	TaskID         string         `json:"task_id"`
	Status         TaskStatus     `json:"status"`
	TotalProcessed int            `json:"total_processed"`
	TotalFound     int            `json:"total_found"`
	Results        []LookupResult `json:"results"`
}
