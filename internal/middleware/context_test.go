package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/jaekwang-park/plantcare-api/internal/middleware"
)

func TestGardenerIDContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if got := middleware.GardenerID(req); got != "" {
		t.Errorf("expected empty, got %q", got)
	}

	req = req.WithContext(middleware.SetGardenerID(req.Context(), "gardener-abc"))

	if got := middleware.GardenerID(req); got != "gardener-abc" {
		t.Errorf("expected gardener-abc, got %q", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := middleware.RequestID(req.Context()); got != "" {
		t.Errorf("expected empty, got %q", got)
	}

	ctx := middleware.SetRequestID(req.Context(), "req-1")
	if got := middleware.RequestID(ctx); got != "req-1" {
		t.Errorf("expected req-1, got %q", got)
	}
}
