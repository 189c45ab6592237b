package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"arena-lite/apps/server/internal/auth"
)

type HTTPHandler struct {
	auth   auth.Service
	ledger Service
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(authService auth.Service, ledgerService Service) *HTTPHandler {
	return &HTTPHandler{
		auth:   authService,
		ledger: ledgerService,
	}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/ledger/reports", h.handleListReports)
	mux.HandleFunc("/api/ledger/reports/", h.handleReport)
}

func (h *HTTPHandler) handleListReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, ok := h.resolveUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListReports(ctx, userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "query battle reports failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func (h *HTTPHandler) handleReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid session token")
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/ledger/reports/")
	path = strings.TrimSpace(path)
	if path == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	parts := strings.Split(path, "/")
	battleID := strings.TrimSpace(parts[0])
	if battleID == "" {
		writeError(w, http.StatusBadRequest, "missing battle id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleGetReport(w, r, userID, battleID)
		return
	}

	if len(parts) == 2 && parts[1] == "save" {
		switch r.Method {
		case http.MethodPost:
			h.handleSetSaved(w, r, userID, battleID, true)
		case http.MethodDelete:
			h.handleSetSaved(w, r, userID, battleID, false)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}

	writeError(w, http.StatusNotFound, "not found")
}

func (h *HTTPHandler) handleGetReport(w http.ResponseWriter, r *http.Request, userID uint64, battleID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	report, err := h.ledger.GetReport(ctx, userID, battleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "query battle report failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"battle_id": battleID,
		"report":    report,
	})
}

func (h *HTTPHandler) handleSetSaved(w http.ResponseWriter, r *http.Request, userID uint64, battleID string, saved bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	err := h.ledger.SetSaved(ctx, userID, battleID, saved)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "report not found")
		case errors.Is(err, ErrSavedLimitReach):
			writeError(w, http.StatusConflict, "saved report limit reached")
		default:
			writeError(w, http.StatusInternalServerError, "update save state failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"battle_id": battleID,
		"is_saved":  saved,
	})
}

func (h *HTTPHandler) resolveUserID(r *http.Request) (uint64, bool) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return 0, false
	}
	userID, _, ok := h.auth.ResolveSession(token)
	if !ok {
		return 0, false
	}
	return userID, true
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}

func bearerToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
