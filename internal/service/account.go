package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	apperrors "github.com/soloviev-vladislav/telegram-userbot-api/internal/errors"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Dialer core.SessionDialer // Required: turns session strings into live sessions
	Store  core.AccountStore  // Optional: bookkeeping persistence for restarts
	Logger *slog.Logger       // Optional: structured logger
}

// Handle is a resolved live session together with the account's
// mutual-exclusion token. Long-running operations (a lookup batch) hold the
// token for their full duration so concurrent callers cannot race on the
// session's contact-list state.
type Handle struct {
	Name    string
	Session core.ClientSession
	sem     *semaphore.Weighted
}

// Acquire takes the account's exclusion token, blocking until it is free or
// the context is done.
func (h *Handle) Acquire(ctx context.Context) error {
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire account %s: %w", h.Name, err)
	}
	return nil
}

// Release returns the exclusion token.
func (h *Handle) Release() {
	h.sem.Release(1)
}

type accountEntry struct {
	record  model.Account
	session core.ClientSession
	sem     *semaphore.Weighted
}

// AccountService is the injected registry of live userbot sessions.
//
// It owns the name -> session mapping that the lookup engine resolves against,
// replacing any notion of process-wide mutable state so engines are testable
// with fake dialers.
type AccountService struct {
	dialer core.SessionDialer
	store  core.AccountStore
	logger *slog.Logger

	mu       sync.RWMutex
	accounts map[string]*accountEntry
}

// NewAccountService constructs a new AccountService.
func NewAccountService(opts AccountServiceOptions) (*AccountService, error) {
	if opts.Dialer == nil {
		return nil, errors.New("SessionDialer is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "account_service")
	}

	return &AccountService{
		dialer:   opts.Dialer,
		store:    opts.Store,
		logger:   logger,
		accounts: make(map[string]*accountEntry),
	}, nil
}

// MustNewAccountService constructs a new AccountService and panics on error.
// Use this when the options are known valid (e.g. in main).
func MustNewAccountService(opts AccountServiceOptions) *AccountService {
	svc, err := NewAccountService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create AccountService: %v", err))
	}
	return svc
}

// Attach dials the session string and registers the live session under name.
// Returns the total number of attached accounts.
func (s *AccountService) Attach(ctx context.Context, name, sessionString string) (int, error) {
	s.mu.RLock()
	_, exists := s.accounts[name]
	s.mu.RUnlock()
	if exists {
		return 0, apperrors.Conflictf("account %s already exists", name)
	}

	session, err := s.dialer.Dial(ctx, sessionString)
	if err != nil {
		return 0, apperrors.Wrapf(err, apperrors.ErrCodeUpstream, "dial session for account %s", name)
	}

	record := model.Account{Name: name, SessionString: sessionString, AddedAt: time.Now()}

	s.mu.Lock()
	if _, raced := s.accounts[name]; raced {
		s.mu.Unlock()
		if cerr := session.Close(ctx); cerr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "close raced session", "account", name, "error", cerr)
		}
		return 0, apperrors.Conflictf("account %s already exists", name)
	}
	s.accounts[name] = &accountEntry{
		record:  record,
		session: session,
		sem:     semaphore.NewWeighted(1),
	}
	total := len(s.accounts)
	s.mu.Unlock()

	// Bookkeeping only; a store outage must not reject a working session.
	if s.store != nil {
		if serr := s.store.Save(ctx, record); serr != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "persist account failed", "account", name, "error", serr)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "account attached", "account", name, "total_accounts", total)
	}
	return total, nil
}

// Remove closes the named session and forgets the account.
func (s *AccountService) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	entry, ok := s.accounts[name]
	if ok {
		delete(s.accounts, name)
	}
	s.mu.Unlock()

	if !ok {
		return apperrors.NotFoundf("account %s not found", name)
	}

	if err := entry.session.Close(ctx); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "close session failed", "account", name, "error", err)
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, name); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "delete persisted account failed", "account", name, "error", err)
		}
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "account removed", "account", name)
	}
	return nil
}

// List returns the names of all attached accounts, sorted.
func (s *AccountService) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.accounts))
	for name := range s.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the live handle for an attached account.
func (s *AccountService) Resolve(name string) (*Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.accounts[name]
	if !ok {
		return nil, apperrors.NotFoundf("account %s not found", name)
	}
	return &Handle{Name: name, Session: entry.session, sem: entry.sem}, nil
}

// RestoreFromStore re-dials every persisted account. Individual failures are
// logged and skipped so one dead session cannot block startup.
func (s *AccountService) RestoreFromStore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list persisted accounts: %w", err)
	}

	for _, record := range records {
		session, derr := s.dialer.Dial(ctx, record.SessionString)
		if derr != nil {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "restore account failed", "account", record.Name, "error", derr)
			}
			continue
		}

		s.mu.Lock()
		_, exists := s.accounts[record.Name]
		if !exists {
			s.accounts[record.Name] = &accountEntry{
				record:  record,
				session: session,
				sem:     semaphore.NewWeighted(1),
			}
		}
		s.mu.Unlock()

		if exists {
			if cerr := session.Close(ctx); cerr != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "close superseded session failed", "account", record.Name, "error", cerr)
			}
			continue
		}

		if s.logger != nil {
			s.logger.InfoContext(ctx, "account restored", "account", record.Name)
		}
	}
	return nil
}

// CloseAll tears down every live session. Called during shutdown.
func (s *AccountService) CloseAll(ctx context.Context) {
	s.mu.Lock()
	entries := make(map[string]*accountEntry, len(s.accounts))
	for name, entry := range s.accounts {
		entries[name] = entry
	}
	s.accounts = make(map[string]*accountEntry)
	s.mu.Unlock()

	for name, entry := range entries {
		if err := entry.session.Close(ctx); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "close session failed", "account", name, "error", err)
		}
	}
}
