package failurenotifier

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/observability/notify"
)

type countingSink struct {
	mu       sync.Mutex
	payloads []notify.TaskFailurePayload
	err      error
}

func (c *countingSink) SendTaskFailure(_ context.Context, payload notify.TaskFailurePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload)
	return c.err
}

func (c *countingSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func TestNotifyFansOutToAllSinks(t *testing.T) {
	first := &countingSink{}
	second := &countingSink{}
	svc := NewService(Options{Sinks: []SinkRegistration{
		{Name: "first", Sink: first},
		{Name: "second", Sink: second},
	}})

	payload := notify.TaskFailurePayload{TaskID: "t1", Account: "main", Error: "boom"}
	svc.NotifyTaskFailure(context.Background(), payload)

	require.Equal(t, 1, first.count())
	require.Equal(t, 1, second.count())
	assert.Equal(t, payload, first.payloads[0])
}

func TestNotifySurvivesSinkError(t *testing.T) {
	failing := &countingSink{err: errors.New("chat unreachable")}
	healthy := &countingSink{}
	svc := NewService(Options{Sinks: []SinkRegistration{
		{Name: "failing", Sink: failing},
		{Name: "healthy", Sink: healthy},
	}})

	svc.NotifyTaskFailure(context.Background(), notify.TaskFailurePayload{TaskID: "t2"})

	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestNewServiceFiltersNilSinks(t *testing.T) {
	svc := NewService(Options{Sinks: []SinkRegistration{
		{Name: "missing", Sink: nil},
	}})
	assert.False(t, svc.Enabled())

	// A no-sink notify is a no-op.
	svc.NotifyTaskFailure(context.Background(), notify.TaskFailurePayload{TaskID: "t3"})
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewService(Options{}).Enabled())
	assert.True(t, NewService(Options{Sinks: []SinkRegistration{
		{Name: "sink", Sink: &countingSink{}},
	}}).Enabled())
}
