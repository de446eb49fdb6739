package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jaekwang-park/plantcare-api/internal/middleware"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestRecovery_NoPanic(t *testing.T) {
	logger, _ := newTestLogger()
	h := middleware.Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/reminders", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
}

func TestRecovery_WithPanic(t *testing.T) {
	logger, logBuf := newTestLogger()
	h := middleware.Logging(logger)(middleware.Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil plant")
	})))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reminders", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-7")
	w := httptest.NewRecorder()

	h.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected code=INTERNAL_ERROR, got %q", body.Error.Code)
	}

	logs := logBuf.String()
	for _, want := range []string{"panic recovered", "nil plant", "request_id=req-7"} {
		if !strings.Contains(logs, want) {
			t.Errorf("expected log to contain %q, got: %s", want, logs)
		}
	}
}

func TestRecovery_PanicAfterHeaderWritten(t *testing.T) {
	logger, logBuf := newTestLogger()
	h := middleware.Recovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"partial"}`))
		panic("panic after write")
	}))
	w := httptest.NewRecorder()

	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200 (already written), got %d", w.Code)
	}
	if !strings.Contains(logBuf.String(), "panic recovered") {
		t.Error("expected panic to be logged")
	}
}
