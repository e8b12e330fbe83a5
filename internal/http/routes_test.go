package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/adapters/devsession"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/data"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service"
)

type routerFixture struct {
	handler  http.Handler
	registry *data.TaskRegistry
	lookups  *service.LookupService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dialer := devsession.NewDialer(devsession.Config{
		Directory: map[string]model.Identity{
			"+79161234567": {TelegramID: 100, Username: "alice", FirstName: "Alice"},
		},
	})
	accounts := service.MustNewAccountService(service.AccountServiceOptions{
		Dialer: dialer,
		Logger: logger,
	})

	registry := data.NewTaskRegistry()
	lookups := service.MustNewLookupService(service.LookupServiceOptions{
		Registry: registry,
		Accounts: accounts,
		Sink:     noopSink{},
		Clock:    data.NewFakeClock(time.Unix(1700000000, 0)),
		Logger:   logger,
	})

	handler := NewRouter(RouterServices{Accounts: accounts, Lookups: lookups, Logger: logger})
	return &routerFixture{handler: handler, registry: registry, lookups: lookups}
}

type noopSink struct{}

func (noopSink) Deliver(_ context.Context, _ string, _ any) error { return nil }

func (f *routerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthz(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = f.do(t, http.MethodHead, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddAccountValidation(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/accounts", `{"name":"","session_string":"s"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeBody(t, rec)["error"])
}

func TestAddAccountRejectsUnknownFields(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/accounts", `{"name":"main","session":"typo"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeBody(t, rec)["error"])
}

func TestAccountLifecycle(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/accounts", `{"name":"main","session_string":"dev"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "added", body["status"])
	assert.Equal(t, "main", body["account"])
	assert.Equal(t, float64(1), body["total_accounts"])

	// Duplicate names conflict while the session is live.
	rec = f.do(t, http.MethodPost, "/api/accounts", `{"name":"main","session_string":"dev"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeBody(t, rec)["error"])

	rec = f.do(t, http.MethodGet, "/api/accounts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	accounts, ok := decodeBody(t, rec)["active_accounts"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{"main"}, accounts)

	rec = f.do(t, http.MethodDelete, "/api/accounts/main", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "removed", decodeBody(t, rec)["status"])

	rec = f.do(t, http.MethodDelete, "/api/accounts/main", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestSubmitLookupUnknownAccount(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/search/by_phone", `{"account":"ghost","phones":["+79161234567"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "precondition", decodeBody(t, rec)["error"])
}

func TestSubmitLookupInvalidFilter(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodPost, "/api/accounts", `{"name":"main","session_string":"dev"}`)

	rec := f.do(t, http.MethodPost, "/api/search/by_phone",
		`{"account":"main","phones":["+79161234567"],"results_filter":"[?found"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", decodeBody(t, rec)["error"])
}

func TestSubmitLookupFlow(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodPost, "/api/accounts", `{"name":"main","session_string":"dev"}`)

	rec := f.do(t, http.MethodPost, "/api/search/by_phone",
		`{"account":"main","phones":["+79161234567","+79000000001"],"task_id":"search_1_1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "search_started", body["status"])
	assert.Equal(t, "search_1_1", body["task_id"])
	assert.Equal(t, float64(2), body["total_phones"])
	assert.Equal(t, "/api/search/status/search_1_1", body["check_status_url"])

	f.lookups.Wait()

	rec = f.do(t, http.MethodGet, "/api/search/status/search_1_1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody(t, rec)
	assert.Equal(t, string(model.TaskStatusCompleted), status["status"])
	assert.Equal(t, float64(2), status["processed"])
	assert.Equal(t, float64(1), status["found"])

	rec = f.do(t, http.MethodGet, "/api/search/results/search_1_1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeBody(t, rec)
	assert.Equal(t, float64(2), results["total_processed"])
	assert.Equal(t, float64(1), results["total_found"])
}

func TestTaskStatusNotFound(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/search/status/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeBody(t, rec)["error"])
}

func TestTaskResultsWhileRunning(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.registry.Create(&model.Task{
		ID:      "search_2_2",
		Status:  model.TaskStatusProcessing,
		Account: "main",
		Total:   3,
	}))

	rec := f.do(t, http.MethodGet, "/api/search/results/search_2_2", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", decodeBody(t, rec)["error"])
}

func TestDuplicateActiveTaskConflicts(t *testing.T) {
	f := newRouterFixture(t)
	f.do(t, http.MethodPost, "/api/accounts", `{"name":"main","session_string":"dev"}`)
	require.NoError(t, f.registry.Create(&model.Task{
		ID:      "search_3_3",
		Status:  model.TaskStatusProcessing,
		Account: "main",
		Total:   1,
	}))

	rec := f.do(t, http.MethodPost, "/api/search/by_phone",
		`{"account":"main","phones":["+79161234567"],"task_id":"search_3_3"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}
