// Package mocks provides mock implementations for testing the userbot gateway.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the core ports.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	session := mocks.NewMockClientSession(ctrl)
//	session.EXPECT().ImportContact(gomock.Any(), gomock.Any()).Return(int64(1), nil)
package mocks

// Generate mocks for the session ports from internal/core.
// This creates MockClientSession (ImportContact, ListContacts, DeleteContact, Close)
// and MockSessionDialer (Dial).
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_mock.go github.com/soloviev-vladislav/telegram-userbot-api/internal/core ClientSession,SessionDialer

// Generate mock for the AccountStore interface from internal/core.
// This creates MockAccountStore with Save, Get, Delete, List.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=account_store_mock.go github.com/soloviev-vladislav/telegram-userbot-api/internal/core AccountStore

// Generate mock for the TaskRegistry interface from internal/core.
// This creates MockTaskRegistry with Create, Get, Update.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=task_registry_mock.go github.com/soloviev-vladislav/telegram-userbot-api/internal/core TaskRegistry
