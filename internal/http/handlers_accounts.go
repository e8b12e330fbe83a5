// Package httpx provides HTTP handlers and utilities for the userbot gateway API.
package httpx

import (
	"errors"
	"net/http"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service"
)

// AccountHandlers provides HTTP handlers for account management.
type AccountHandlers struct {
	Svc *service.AccountService
}

// AddAccount handles HTTP requests to attach a new userbot session.
func (h *AccountHandlers) AddAccount(w http.ResponseWriter, r *http.Request) {
	var req model.AddAccountRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation", Err: err})
		return
	}

	total, err := h.Svc.Attach(r.Context(), req.Name, req.SessionString)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":         "added",
		"account":        req.Name,
		"total_accounts": total,
	})
}

// RemoveAccount handles HTTP requests to detach an account.
func (h *AccountHandlers) RemoveAccount(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("account name is required")})
		return
	}

	if err := h.Svc.Remove(r.Context(), name); err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "removed",
		"account": name,
	})
}

// ListAccounts handles HTTP requests to list attached accounts.
func (h *AccountHandlers) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"active_accounts": h.Svc.List(),
	})
}
