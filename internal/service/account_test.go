package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	apperrors "github.com/soloviev-vladislav/telegram-userbot-api/internal/errors"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/mocks"
)

func TestAccountServiceRequiresDialer(t *testing.T) {
	_, err := NewAccountService(AccountServiceOptions{})
	require.Error(t, err)
}

func TestAccountAttachAndList(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), "session-b").Return(session, nil)
	dialer.EXPECT().Dial(gomock.Any(), "session-a").Return(session, nil)

	store := mocks.NewMockAccountStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	svc := MustNewAccountService(AccountServiceOptions{
		Dialer: dialer,
		Store:  store,
		Logger: slog.Default(),
	})

	total, err := svc.Attach(context.Background(), "bravo", "session-b")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = svc.Attach(context.Background(), "alpha", "session-a")
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	assert.Equal(t, []string{"alpha", "bravo"}, svc.List())
}

func TestAccountAttachRejectsDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(session, nil)

	svc := MustNewAccountService(AccountServiceOptions{Dialer: dialer})

	_, err := svc.Attach(context.Background(), "main", "s1")
	require.NoError(t, err)

	_, err = svc.Attach(context.Background(), "main", "s2")
	assert.True(t, apperrors.IsConflict(err), "got %v", err)
}

func TestAccountAttachDialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(nil, errors.New("bridge unreachable"))

	svc := MustNewAccountService(AccountServiceOptions{Dialer: dialer})

	_, err := svc.Attach(context.Background(), "main", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge unreachable")
	assert.Empty(t, svc.List())
}

func TestAccountAttachSurvivesStoreOutage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(session, nil)

	store := mocks.NewMockAccountStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	svc := MustNewAccountService(AccountServiceOptions{
		Dialer: dialer,
		Store:  store,
		Logger: slog.Default(),
	})

	// A working session must be attached even if bookkeeping fails.
	total, err := svc.Attach(context.Background(), "main", "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestAccountRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	session.EXPECT().Close(gomock.Any()).Return(nil)

	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(session, nil)

	store := mocks.NewMockAccountStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().Delete(gomock.Any(), "main").Return(nil)

	svc := MustNewAccountService(AccountServiceOptions{Dialer: dialer, Store: store})

	_, err := svc.Attach(context.Background(), "main", "s1")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "main"))
	assert.Empty(t, svc.List())

	_, err = svc.Resolve("main")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAccountRemoveUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := MustNewAccountService(AccountServiceOptions{Dialer: mocks.NewMockSessionDialer(ctrl)})

	err := svc.Remove(context.Background(), "ghost")
	assert.True(t, apperrors.IsNotFound(err), "got %v", err)
}

func TestAccountHandleSerializesUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(session, nil)

	svc := MustNewAccountService(AccountServiceOptions{Dialer: dialer})
	_, err := svc.Attach(context.Background(), "main", "s1")
	require.NoError(t, err)

	first, err := svc.Resolve("main")
	require.NoError(t, err)
	require.NoError(t, first.Acquire(context.Background()))

	second, err := svc.Resolve("main")
	require.NoError(t, err)

	// The token is held; a second acquire must block until released.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.Error(t, second.Acquire(ctx))

	first.Release()
	require.NoError(t, second.Acquire(context.Background()))
	second.Release()
}

func TestAccountRestoreFromStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), "good-session").Return(session, nil)
	dialer.EXPECT().Dial(gomock.Any(), "dead-session").Return(nil, errors.New("authorization revoked"))

	store := mocks.NewMockAccountStore(ctrl)
	store.EXPECT().List(gomock.Any()).Return([]model.Account{
		{Name: "alive", SessionString: "good-session"},
		{Name: "dead", SessionString: "dead-session"},
	}, nil)

	svc := MustNewAccountService(AccountServiceOptions{
		Dialer: dialer,
		Store:  store,
		Logger: slog.Default(),
	})

	// One dead session must not block the rest.
	require.NoError(t, svc.RestoreFromStore(context.Background()))
	assert.Equal(t, []string{"alive"}, svc.List())
}

func TestAccountRestoreClosesSupersededSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	live := mocks.NewMockClientSession(ctrl)
	restored := mocks.NewMockClientSession(ctrl)
	// The record's name is already attached; the freshly dialed session must
	// not leak.
	restored.EXPECT().Close(gomock.Any()).Return(nil)

	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), "live-session").Return(live, nil)
	dialer.EXPECT().Dial(gomock.Any(), "stale-session").Return(restored, nil)

	store := mocks.NewMockAccountStore(ctrl)
	store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().List(gomock.Any()).Return([]model.Account{
		{Name: "main", SessionString: "stale-session"},
	}, nil)

	svc := MustNewAccountService(AccountServiceOptions{
		Dialer: dialer,
		Store:  store,
		Logger: slog.Default(),
	})

	_, err := svc.Attach(context.Background(), "main", "live-session")
	require.NoError(t, err)

	require.NoError(t, svc.RestoreFromStore(context.Background()))

	// The live session stays attached.
	handle, err := svc.Resolve("main")
	require.NoError(t, err)
	assert.Same(t, live, handle.Session)
}

func TestAccountCloseAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	session := mocks.NewMockClientSession(ctrl)
	session.EXPECT().Close(gomock.Any()).Return(nil).Times(2)

	dialer := mocks.NewMockSessionDialer(ctrl)
	dialer.EXPECT().Dial(gomock.Any(), gomock.Any()).Return(session, nil).Times(2)

	svc := MustNewAccountService(AccountServiceOptions{Dialer: dialer})
	_, err := svc.Attach(context.Background(), "a", "s1")
	require.NoError(t, err)
	_, err = svc.Attach(context.Background(), "b", "s2")
	require.NoError(t, err)

	svc.CloseAll(context.Background())
	assert.Empty(t, svc.List())
}
