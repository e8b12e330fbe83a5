package sessionbridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/core"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
)

func TestNewDialerValidatesURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "no scheme", url: "127.0.0.1:8181"},
		{name: "bad scheme", url: "ftp://bridge"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDialer(Config{BaseURL: tt.url})
			require.Error(t, err)
		})
	}
}

func TestDialOpensSession(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/sessions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-1"})
	}))
	defer srv.Close()

	dialer, err := NewDialer(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	session, err := dialer.Dial(context.Background(), "1BVtsOH4...")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "1BVtsOH4...", gotBody["session_string"])
}

func TestDialRejectsEmptySessionString(t *testing.T) {
	dialer, err := NewDialer(Config{BaseURL: "http://127.0.0.1:8181"})
	require.NoError(t, err)

	_, err = dialer.Dial(context.Background(), "  ")
	require.Error(t, err)
}

func TestDialRejectsEmptySessionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": ""})
	}))
	defer srv.Close()

	dialer, err := NewDialer(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = dialer.Dial(context.Background(), "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty session id")
}

func newBridgeSession(t *testing.T, handler http.HandlerFunc) core.ClientSession {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/sessions", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"session_id": "sess-1"})
	})
	mux.HandleFunc("/", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dialer, err := NewDialer(Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	session, err := dialer.Dial(context.Background(), "s")
	require.NoError(t, err)
	return session
}

func TestImportContact(t *testing.T) {
	session := newBridgeSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/sessions/sess-1/contacts", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+79161234567", body["phone"])
		assert.Equal(t, "lookup", body["first_name"])
		assert.NotEmpty(t, body["last_name"])

		_ = json.NewEncoder(w).Encode(map[string]int64{"contact_id": 77})
	})

	id, err := session.ImportContact(context.Background(), core.ContactImport{
		Phone:     "+79161234567",
		FirstName: "lookup",
		LastName:  "tag-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
}

func TestImportContactFloodWait(t *testing.T) {
	session := newBridgeSession(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]int{"retry_after_seconds": 42})
	})

	_, err := session.ImportContact(context.Background(), core.ContactImport{Phone: "+79161234567"})
	require.Error(t, err)

	var flood *model.FloodWaitError
	require.True(t, errors.As(err, &flood), "got %v", err)
	assert.Equal(t, 42*time.Second, flood.RetryAfter)
}

func TestImportContactFloodWaitWithoutBody(t *testing.T) {
	session := newBridgeSession(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := session.ImportContact(context.Background(), core.ContactImport{Phone: "+79161234567"})

	var flood *model.FloodWaitError
	require.True(t, errors.As(err, &flood), "got %v", err)
	assert.Equal(t, time.Second, flood.RetryAfter)
}

func TestListContacts(t *testing.T) {
	session := newBridgeSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"contacts": []map[string]any{
				{"contact_id": 1, "user_id": 42, "username": "alice", "last_name": "tag-1"},
				{"contact_id": 2},
			},
		})
	})

	contacts, err := session.ListContacts(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, int64(42), contacts[0].UserID)
	assert.Equal(t, "alice", contacts[0].Username)
	assert.Equal(t, int64(0), contacts[1].UserID)
}

func TestDeleteContact(t *testing.T) {
	var gotPath string
	session := newBridgeSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, session.DeleteContact(context.Background(), 77))
	assert.Equal(t, "/v1/sessions/sess-1/contacts/77", gotPath)
}

func TestBridgeErrorSurfacesBody(t *testing.T) {
	session := newBridgeSession(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"mtproto connection lost"}`))
	})

	_, err := session.ListContacts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "mtproto connection lost")
}

func TestSessionClose(t *testing.T) {
	var gotPath string
	session := newBridgeSession(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, session.Close(context.Background()))
	assert.Equal(t, "/v1/sessions/sess-1", gotPath)
}
