package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"user": UserID(r.Context())})
	})
}

func TestAuth(t *testing.T) {
	handler := Auth(okHandler())

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/insights/score", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("header reaches the context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/insights/score", nil)
		req.Header.Set("X-User-ID", "u1")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !bytes.Contains(rec.Body.Bytes(), []byte(`"user":"u1"`)) {
			t.Errorf("body = %s, want the user from the header", rec.Body.String())
		}
	})
}

func TestRequestID(t *testing.T) {
	handler := RequestID(okHandler())

	t.Run("generated when absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("expected a generated X-Request-ID header")
		}
	})

	t.Run("echoed when present", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "given-id")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "given-id" {
			t.Errorf("X-Request-ID = %q, want the caller's value", got)
		}
	})
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.New(&bytes.Buffer{}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCORS_Preflight(t *testing.T) {
	handler := CORS(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204 for preflight", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS headers")
	}
}

func TestCache(t *testing.T) {
	var hits int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		WriteJSON(w, http.StatusOK, map[string]int{"hits": hits})
	})
	handler := Auth(Cache(8)(inner))

	get := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/insights/score", nil)
		req.Header.Set("X-User-ID", user)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := get("u1")
	second := get("u1")

	if hits != 1 {
		t.Errorf("inner handler ran %d times, want 1 with a warm cache", hits)
	}
	if second.Header().Get("X-Cache") != "HIT" {
		t.Error("expected an X-Cache: HIT header on the repeat request")
	}
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Errorf("cached body differs: %s vs %s", first.Body.String(), second.Body.String())
	}

	get("u2")
	if hits != 2 {
		t.Errorf("inner handler ran %d times, want a miss for a different user", hits)
	}
}

func TestCache_SkipsNonGET(t *testing.T) {
	var hits int
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		WriteJSON(w, http.StatusAccepted, nil)
	})
	handler := Cache(8)(inner)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/snapshots", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}
	if hits != 2 {
		t.Errorf("inner handler ran %d times, want POSTs to bypass the cache", hits)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "missing")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"error":"missing"`)) {
		t.Errorf("body = %s, want the error message", rec.Body.String())
	}
}
