package handlers

import (
	"context"
	"net/http"
)

type Counter interface {
	CountEntries(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	store Counter
}

func NewHealthHandler(store Counter) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health reports the number of indexed entries, or 503 when the database is unreachable.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.CountEntries(r.Context())
	if err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]any{"status": "ok", "entries": n})
}
