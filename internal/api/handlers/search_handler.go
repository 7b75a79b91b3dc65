package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Halcy0nic/Uplest/internal/models"
	"github.com/Halcy0nic/Uplest/internal/services"
)

// Searcher is the query surface the handlers need.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.SearchHit, error)
	Ask(ctx context.Context, query string, k int) (*services.Answer, error)
}

type SearchHandler struct {
	svc Searcher
}

func NewSearchHandler(svc Searcher) *SearchHandler {
	return &SearchHandler{svc: svc}
}

type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	hits, err := h.svc.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if hits == nil {
		hits = []models.SearchHit{}
	}
	writeJSON(w, map[string]any{"results": hits})
}

func (h *SearchHandler) Ask(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSearchRequest(w, r)
	if !ok {
		return
	}

	ans, err := h.svc.Ask(r.Context(), req.Query, req.TopK)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, ans)
}

func decodeSearchRequest(w http.ResponseWriter, r *http.Request) (SearchRequest, bool) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrEmptyQuery) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, fmt.Sprintf("query failed: %v", err), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
