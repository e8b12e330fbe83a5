package notify

import (
	"context"
	"time"
)

// TaskFailurePayload captures the canonical data emitted for task-level
// failures (precondition errors, never per-item lookup errors).
type TaskFailurePayload struct {
	TaskID      string
	Account     string
	TotalPhones int
	Error       string
	OccurredAt  time.Time
}

// FailureSink describes an operational destination for task failure alerts.
type FailureSink interface {
	SendTaskFailure(ctx context.Context, payload TaskFailurePayload) error
}

// FailureSinkFunc adapts a function to the FailureSink interface.
type FailureSinkFunc func(ctx context.Context, payload TaskFailurePayload) error

// SendTaskFailure implements the FailureSink interface.
func (f FailureSinkFunc) SendTaskFailure(ctx context.Context, payload TaskFailurePayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
