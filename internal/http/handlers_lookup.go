package httpx

import (
	"errors"
	"net/http"

	"github.com/soloviev-vladislav/telegram-userbot-api/internal/domain/model"
	"github.com/soloviev-vladislav/telegram-userbot-api/internal/service"
)

// LookupHandlers provides HTTP handlers for batch phone lookup operations.
type LookupHandlers struct {
	Svc *service.LookupService
}

// SubmitLookup handles HTTP requests to start a batch phone lookup.
func (h *LookupHandlers) SubmitLookup(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitLookupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	resp, err := h.Svc.Submit(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}

// TaskStatus handles HTTP requests for the full state of a lookup task.
func (h *LookupHandlers) TaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if taskID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	task, err := h.Svc.Status(taskID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, task)
}

// TaskResults handles HTTP requests for the results of a finished lookup task.
func (h *LookupHandlers) TaskResults(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("task_id")
	if taskID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("task id is required")})
		return
	}

	results, err := h.Svc.Results(taskID)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, results)
}
