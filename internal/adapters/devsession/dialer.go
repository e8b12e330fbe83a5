// Package devsession provides a config-seeded in-memory session dialer for
// local development, so the whole gateway runs without an MTProto bridge.
package devsession

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/phone"
)

// Config controls the dev dialer behavior.
type Config struct {
	// Directory maps normalized phone numbers to the identity they resolve
	// to. Numbers absent from the map resolve as not found.
	Directory map[string]model.Identity
}

// Dialer hands out in-memory sessions that resolve lookups against the seeded
// directory. Every Dial succeeds regardless of the session string.
type Dialer struct {
	directory map[string]model.Identity
}

// NewDialer constructs a dev dialer. Directory keys are normalized so seeds
// written as "89161234567" and "+79161234567" behave the same.
func NewDialer(cfg Config) *Dialer {
	directory := make(map[string]model.Identity, len(cfg.Directory))
	for raw, identity := range cfg.Directory {
		directory[phone.Normalize(strings.TrimSpace(raw))] = identity
	}
	return &Dialer{directory: directory}
}

// Dial returns a fresh in-memory session sharing the seeded directory.
func (d *Dialer) Dial(_ context.Context, _ string) (core.ClientSession, error) {
	return &session{directory: d.directory}, nil
}

type session struct {
	directory map[string]model.Identity

	mu       sync.Mutex
	contacts map[int64]model.Contact
	nextID   atomic.Int64
	closed   bool
}

func (s *session) ImportContact(_ context.Context, imp core.ContactImport) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.contacts == nil {
		s.contacts = make(map[int64]model.Contact)
	}

	id := s.nextID.Add(1)
	contact := model.Contact{
		ContactID: id,
		FirstName: imp.FirstName,
		LastName:  imp.LastName,
		Phone:     imp.Phone,
	}
	if identity, ok := s.directory[imp.Phone]; ok {
		contact.UserID = identity.TelegramID
		contact.Username = identity.Username
		contact.FirstName = identity.FirstName
		contact.LastName = imp.LastName // The tag survives so the engine can locate the entry
	}
	s.contacts[id] = contact
	return id, nil
}

func (s *session) ListContacts(_ context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, c)
	}
	return out, nil
}

func (s *session) DeleteContact(_ context.Context, contactID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.contacts, contactID)
	return nil
}

func (s *session) Close(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.contacts = nil
	return nil
}

var (
	_ core.SessionDialer = (*Dialer)(nil)
	_ core.ClientSession = (*session)(nil)
)
