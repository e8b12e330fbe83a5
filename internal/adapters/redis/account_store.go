// Package redis provides Redis-based adapters for the gateway.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
)

// AccountStore is a Redis-backed core.AccountStore. It keeps one JSON record
// per account under a common prefix so attached sessions can be re-dialed
// after a restart.
type AccountStore struct {
	client redis.UniversalClient
	prefix string
}

// NewAccountStore creates a Redis-backed account store.
func NewAccountStore(client redis.UniversalClient) *AccountStore {
	return &AccountStore{
		client: client,
		prefix: "account:",
	}
}

// NewAccountStoreWithPrefix creates an account store with a custom key prefix.
func NewAccountStoreWithPrefix(client redis.UniversalClient, prefix string) *AccountStore {
	return &AccountStore{
		client: client,
		prefix: prefix,
	}
}

func (s *AccountStore) Save(ctx context.Context, account model.Account) error {
	if account.Name == "" {
		return errors.New("account name cannot be empty")
	}

	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	return s.client.Set(ctx, s.prefix+account.Name, data, 0).Err()
}

func (s *AccountStore) Get(ctx context.Context, name string) (model.Account, error) {
	if name == "" {
		return model.Account{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Account{}, ErrNotFound
		}
		return model.Account{}, fmt.Errorf("redis get: %w", err)
	}

	var account model.Account
	if unmarshalErr := json.Unmarshal([]byte(data), &account); unmarshalErr != nil {
		return model.Account{}, fmt.Errorf("unmarshal account: %w", unmarshalErr)
	}
	return account, nil
}

func (s *AccountStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return nil // Nothing to delete
	}
	return s.client.Del(ctx, s.prefix+name).Err()
}

// List returns every stored account record, sorted by name. The key space is
// walked with SCAN so a large account set cannot block the server.
func (s *AccountStore) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account

	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // Deleted between SCAN and GET
			}
			return nil, fmt.Errorf("redis get %s: %w", iter.Val(), err)
		}

		var account model.Account
		if err := json.Unmarshal([]byte(data), &account); err != nil {
			return nil, fmt.Errorf("unmarshal account %s: %w", iter.Val(), err)
		}
		accounts = append(accounts, account)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

// ErrNotFound is returned when an account is not found.
type notFoundError struct{}

func (notFoundError) Error() string { return "account not found" }

var ErrNotFound error = notFoundError{}

var _ core.AccountStore = (*AccountStore)(nil)
