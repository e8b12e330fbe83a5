package httpx

import (
	"log/slog"
	"net/http"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Accounts *service.AccountService
	Lookups  *service.LookupService
	Logger   *slog.Logger // Logger for request logging and panic recovery (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	accountHandlers := &AccountHandlers{Svc: services.Accounts}
	lookupHandlers := &LookupHandlers{Svc: services.Lookups}

	registerAccountRoutes(mux, accountHandlers)
	registerLookupRoutes(mux, lookupHandlers)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAccountRoutes(mux *http.ServeMux, h *AccountHandlers) {
	mux.HandleFunc("POST /api/accounts", h.AddAccount)
	mux.HandleFunc("DELETE /api/accounts/{name}", h.RemoveAccount)
	mux.HandleFunc("GET /api/accounts", h.ListAccounts)
}

func registerLookupRoutes(mux *http.ServeMux, h *LookupHandlers) {
	mux.HandleFunc("POST /api/search/by_phone", h.SubmitLookup)
	mux.HandleFunc("GET /api/search/status/{task_id}", h.TaskStatus)
	mux.HandleFunc("GET /api/search/results/{task_id}", h.TaskResults)
}
