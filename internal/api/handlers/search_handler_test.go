package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Halcy0nic/Uplest/internal/models"
	"github.com/Halcy0nic/Uplest/internal/services"
)

type fakeSearcher struct {
	query string
	k     int
	hits  []models.SearchHit
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, q string, k int) ([]models.SearchHit, error) {
	f.query, f.k = q, k
	return f.hits, f.err
}

func (f *fakeSearcher) Ask(ctx context.Context, q string, k int) (*services.Answer, error) {
	f.query, f.k = q, k
	if f.err != nil {
		return nil, f.err
	}
	return &services.Answer{Answer: "forty-two", Sources: f.hits}, nil
}

func TestSearchHandler_Search(t *testing.T) {
	svc := &fakeSearcher{hits: []models.SearchHit{{NodeID: "n1", Text: "caption", Distance: 0.5}}}
	h := NewSearchHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"cats","top_k":3}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.query != "cats" || svc.k != 3 {
		t.Errorf("service got %q k=%d", svc.query, svc.k)
	}
	var body struct {
		Results []models.SearchHit `json:"results"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Results) != 1 || body.Results[0].NodeID != "n1" {
		t.Errorf("results = %+v", body.Results)
	}
}

func TestSearchHandler_EmptyResultsIsArray(t *testing.T) {
	h := NewSearchHandler(&fakeSearcher{})
	rec := httptest.NewRecorder()
	h.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"x"}`)))
	if !strings.Contains(rec.Body.String(), `"results":[]`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSearchHandler_Ask(t *testing.T) {
	h := NewSearchHandler(&fakeSearcher{})
	rec := httptest.NewRecorder()
	h.Ask(rec, httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"query":"meaning?"}`)))

	var ans services.Answer
	if err := json.NewDecoder(rec.Body).Decode(&ans); err != nil {
		t.Fatal(err)
	}
	if ans.Answer != "forty-two" {
		t.Errorf("answer = %q", ans.Answer)
	}
}

func TestSearchHandler_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"empty query", `{"query":""}`, services.ErrEmptyQuery, http.StatusBadRequest},
		{"backend", `{"query":"x"}`, errors.New("db down"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := NewSearchHandler(&fakeSearcher{err: c.err})
		rec := httptest.NewRecorder()
		h.Search(rec, httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(c.body)))
		if rec.Code != c.want {
			t.Errorf("%s: status %d, want %d", c.name, rec.Code, c.want)
		}
	}
}

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) CountEntries(ctx context.Context) (int64, error) { return f.n, f.err }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(fakeCounter{n: 12}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"entries":12`) {
		t.Errorf("status %d body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	NewHealthHandler(fakeCounter{err: errors.New("x")}).Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d", rec.Code)
	}
}
