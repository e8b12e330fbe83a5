// Package data holds the in-memory state backing the gateway's ports.
package data

import (
	"sync"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
)

// TaskRegistry is the in-memory core.TaskRegistry implementation.
//
// Task state is process-local and lost on restart; callers that need a durable
// record must consume the webhook notifications or poll status while the
// process is alive. Every Get returns a deep copy, so readers can never
// observe a mutation mid-update.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[string]*model.Task
}

// NewTaskRegistry creates an empty registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: make(map[string]*model.Task)}
}

// Create registers a task record. Resubmission under an id whose task is still
// pending or processing is rejected with ErrTaskExists; a terminal record is
// replaced so callers can reuse ids of finished runs.
func (r *TaskRegistry) Create(task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.tasks[task.ID]; ok && !existing.Status.Terminal() {
		return ErrTaskExists
	}
	r.tasks[task.ID] = task.Clone()
	return nil
}

// Get returns a snapshot of the task, or ErrTaskNotFound.
func (r *TaskRegistry) Get(id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return task.Clone(), nil
}

// Update applies the mutator under the registry lock, making the whole
// mutation atomic with respect to concurrent Get calls.
func (r *TaskRegistry) Update(id string, mutate func(*model.Task)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return ErrTaskNotFound
	}
	mutate(task)
	return nil
}

var _ core.TaskRegistry = (*TaskRegistry)(nil)
