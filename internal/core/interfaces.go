package core

import (
	"context"
	"time"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
)

// This file contains the port definitions of the gateway (hexagonal architecture).
// The service layer depends on these interfaces, never on concrete adapters.

// ContactImport groups the fields of a transient contact import to keep the
// call site at three parameters.
type ContactImport struct {
	Phone     string
	FirstName string
	// LastName carries the unique tag used to locate the imported entry in the
	// contact list afterwards.
	LastName string
}

// ClientSession is a live handle to one authenticated userbot session.
// Implementations may return *model.FloodWaitError from any call to signal a
// platform-mandated cooldown.
type ClientSession interface {
	// ImportContact adds a temporary contact bound to the given phone number
	// and returns the platform's contact identifier.
	ImportContact(ctx context.Context, imp ContactImport) (int64, error)
	// ListContacts enumerates the session's current contact list.
	ListContacts(ctx context.Context) ([]model.Contact, error)
	// DeleteContact removes a contact created by ImportContact.
	DeleteContact(ctx context.Context, contactID int64) error
	// Close releases the session handle. The underlying authorization stays
	// valid; only the local connection is torn down.
	Close(ctx context.Context) error
}

// SessionDialer turns a stored session string into a live ClientSession.
type SessionDialer interface {
	Dial(ctx context.Context, sessionString string) (ClientSession, error)
}

// AccountStore persists account bookkeeping records so attached sessions can
// be re-dialed after a restart.
type AccountStore interface {
	Save(ctx context.Context, account model.Account) error
	Get(ctx context.Context, name string) (model.Account, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]model.Account, error)
}

// TaskRegistry is the single source of truth for batch lookup progress.
// Implementations must apply each mutation atomically with respect to
// concurrent Get calls: a reader sees either the state before a mutation or
// after it, never a partially applied update.
type TaskRegistry interface {
	// Create registers a new task record. It fails with ErrTaskExists when an
	// active (non-terminal) task already occupies the id; terminal ids may be
	// reused, replacing the finished record.
	Create(task *model.Task) error
	// Get returns a snapshot of the task. The caller owns the returned copy.
	Get(id string) (*model.Task, error)
	// Update applies the mutator to the task under the registry lock.
	Update(id string, mutate func(*model.Task)) error
}

// Clock abstracts time so the engine's settle, throttle and flood waits can
// be driven synthetically in tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err in that case.
	Sleep(ctx context.Context, d time.Duration) error
}
