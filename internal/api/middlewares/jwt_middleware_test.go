package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func protected(t *testing.T, secret string) http.Handler {
	t.Helper()
	return JWTMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, ok := Subject(r.Context())
		if !ok {
			t.Error("subject missing from context")
		}
		w.Write([]byte(sub))
	}))
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	tok, err := GenerateToken("s3cret", "ingest-bot", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	protected(t, "s3cret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ingest-bot" {
		t.Fatalf("status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	wrong, _ := GenerateToken("other", "x", time.Hour)
	expired, _ := GenerateToken("s3cret", "x", -time.Hour)

	cases := map[string]string{
		"no header":    "",
		"not bearer":   "Basic abc",
		"wrong secret": "Bearer " + wrong,
		"expired":      "Bearer " + expired,
		"garbage":      "Bearer not.a.jwt",
	}
	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		JWTMiddleware("s3cret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("%s: handler reached", name)
		})).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status %d", name, rec.Code)
		}
	}
}

func TestGenerateToken_NoSecret(t *testing.T) {
	if _, err := GenerateToken("", "x", time.Hour); err == nil {
		t.Fatal("expected error")
	}
}
