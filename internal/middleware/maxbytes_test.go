package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMaxBytes(t *testing.T) {
	t.Run("rejects oversized Content-Length up front", func(t *testing.T) {
		handler := MaxBytes(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("next handler should not run for oversized request")
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(strings.Repeat("x", 20)))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status: got %d, want 413", rr.Code)
		}
	})

	t.Run("caps body reads when length is unknown", func(t *testing.T) {
		var readErr error
		handler := MaxBytes(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(strings.Repeat("x", 20)))
		req.ContentLength = -1 // chunked upload, length unknown
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if readErr == nil {
			t.Error("reading past the cap should fail")
		}
	})

	t.Run("passes small bodies through untouched", func(t *testing.T) {
		var got string
		handler := MaxBytes(100)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			got = string(b)
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader("payload"))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rr.Code)
		}
		if got != "payload" {
			t.Errorf("body: got %q, want %q", got, "payload")
		}
	})
}
