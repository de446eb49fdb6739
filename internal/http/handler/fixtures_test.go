package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jaekwang-park/plantcare-api/internal/catalog"
	"github.com/jaekwang-park/plantcare-api/internal/http/handler"
	"github.com/jaekwang-park/plantcare-api/internal/middleware"
	"github.com/jaekwang-park/plantcare-api/internal/model"
	"github.com/jaekwang-park/plantcare-api/internal/reminder"
	"github.com/jaekwang-park/plantcare-api/internal/service"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var clock = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type staticFetcher struct {
	pages map[int][]model.Plant
	err   error
}

func (f *staticFetcher) ListPlants(ctx context.Context, page, limit int) ([]model.Plant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[page], nil
}

func (f *staticFetcher) ListEnvironments(ctx context.Context) ([]model.EnvironmentTag, error) {
	return []model.EnvironmentTag{{Key: "kitchen", Title: "Cozinha"}, {Key: "living_room", Title: "Sala"}}, nil
}

func plants(firstID, n int) []model.Plant {
	out := make([]model.Plant, 0, n)
	for id := firstID; id < firstID+n; id++ {
		env := "kitchen"
		if id%2 == 0 {
			env = "living_room"
		}
		out = append(out, model.Plant{
			ID:           id,
			Name:         "plant",
			Environments: []string{env},
			Frequency:    model.Frequency{Times: 1, RepeatEvery: model.RepeatEveryDay},
		})
	}
	return out
}

func newCatalogService(f catalog.Fetcher) *service.CatalogService {
	registry := catalog.NewRegistry(16, time.Hour, func() *catalog.Controller {
		return catalog.NewController(f, catalog.DefaultPageSize, discard)
	})
	return service.NewCatalogService(registry, discard)
}

type mockReminderRepo struct {
	saveFn    func(ctx context.Context, r model.Reminder) (model.Reminder, error)
	getByIDFn func(ctx context.Context, gardenerID, reminderID string) (model.Reminder, error)
	listFn    func(ctx context.Context, gardenerID string) ([]model.Reminder, error)
	deleteFn  func(ctx context.Context, gardenerID, reminderID string) error
}

func (m *mockReminderRepo) Save(ctx context.Context, r model.Reminder) (model.Reminder, error) {
	return m.saveFn(ctx, r)
}
func (m *mockReminderRepo) GetByID(ctx context.Context, gardenerID, reminderID string) (model.Reminder, error) {
	return m.getByIDFn(ctx, gardenerID, reminderID)
}
func (m *mockReminderRepo) List(ctx context.Context, gardenerID string) ([]model.Reminder, error) {
	return m.listFn(ctx, gardenerID)
}
func (m *mockReminderRepo) Delete(ctx context.Context, gardenerID, reminderID string) error {
	return m.deleteFn(ctx, gardenerID, reminderID)
}

func newReminderService(repo *mockReminderRepo, plants service.PlantSource) *service.ReminderService {
	return service.NewReminderService(repo, plants,
		reminder.Options{Now: func() time.Time { return clock }}, discard)
}

// asGardener attaches an authenticated gardener to the request.
func asGardener(req *http.Request, gardenerID string) *http.Request {
	return req.WithContext(middleware.SetGardenerID(req.Context(), gardenerID))
}

func serve(h http.Handler, method, path, body, gardenerID string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if gardenerID != "" {
		req = asGardener(req, gardenerID)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v (body: %s)", err, w.Body.String())
	}
	return v
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[handler.ErrorResponse](t, w).Error.Code
}
