// Package api implements the HTTP handlers for the analytics service.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/forgeplay/analytics/internal/dashboard"
	"github.com/forgeplay/analytics/internal/middleware"
)

// Handlers serves the analytics endpoints.
type Handlers struct {
	svc    *dashboard.Service
	logger *slog.Logger
}

// NewHandlers creates the handler set backed by the given service.
func NewHandlers(svc *dashboard.Service, logger *slog.Logger) *Handlers {
	return &Handlers{svc: svc, logger: logger}
}

// Register mounts the analytics routes on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/creators/", h.Creators)
	mux.HandleFunc("/games/", h.Games)
}

// Creators routes requests under /creators/{id}/...
func (h *Handlers) Creators(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/creators/"), "/")
	if parts[0] == "" {
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
		return
	}
	creatorID := parts[0]
	switch {
	case len(parts) == 2 && parts[1] == "dashboard":
		h.creatorDashboard(w, r, creatorID)
	case len(parts) == 2 && parts[1] == "popular":
		h.popularContent(w, r, creatorID)
	case len(parts) == 3 && parts[1] == "followers" && parts[2] == "top":
		h.topFollowers(w, r, creatorID)
	default:
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
	}
}

// Games routes requests under /games/{id}/...
func (h *Handlers) Games(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/games/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "analytics" {
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
		return
	}
	h.gameAnalytics(w, r, parts[0])
}

func (h *Handlers) creatorDashboard(w http.ResponseWriter, r *http.Request, creatorID string) {
	rng, err := dashboard.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	result, err := h.svc.CreatorDashboard(r.Context(), creatorID, middleware.GetCallerID(r.Context()), rng)
	if err != nil {
		h.logger.Error("creator dashboard failed", "creator_id", creatorID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) gameAnalytics(w http.ResponseWriter, r *http.Request, gameID string) {
	rng, err := dashboard.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	result, err := h.svc.GameAnalytics(r.Context(), gameID, middleware.GetCallerID(r.Context()), rng)
	if err != nil {
		h.logger.Error("game analytics failed", "game_id", gameID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) topFollowers(w http.ResponseWriter, r *http.Request, creatorID string) {
	rng, err := dashboard.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	result, err := h.svc.TopFollowers(r.Context(), creatorID, limit, rng)
	if err != nil {
		h.logger.Error("top followers failed", "creator_id", creatorID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) popularContent(w http.ResponseWriter, r *http.Request, creatorID string) {
	rng, err := dashboard.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	result, err := h.svc.PopularContent(r.Context(), creatorID, limit, rng)
	if err != nil {
		h.logger.Error("popular content failed", "creator_id", creatorID, "error", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// parseLimit reads the optional limit parameter. A missing limit is left
// at zero so the service applies its default.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		WriteError(w, http.StatusBadRequest, CodeBadRequest, "limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}
