package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/jaekwang-park/plantcare-api/internal/catalog"
	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// fakeFetcher serves fixed pages. When gate is set, fetches of gatedPage
// signal on started and wait for gate to close.
type fakeFetcher struct {
	mu        sync.Mutex
	pages     map[int][]model.Plant
	pageErrs  map[int]error
	tags      []model.EnvironmentTag
	tagsErr   error
	calls     []int
	gatedPage int
	started   chan int
	gate      chan struct{}
}

func (f *fakeFetcher) ListPlants(ctx context.Context, page, limit int) ([]model.Plant, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	gated := f.gate != nil && page == f.gatedPage
	err := f.pageErrs[page]
	plants := f.pages[page]
	f.mu.Unlock()

	if gated {
		f.started <- page
		<-f.gate
	}
	if err != nil {
		return nil, err
	}
	return plants, nil
}

func (f *fakeFetcher) ListEnvironments(ctx context.Context) ([]model.EnvironmentTag, error) {
	if f.tagsErr != nil {
		return nil, f.tagsErr
	}
	return f.tags, nil
}

func (f *fakeFetcher) plantCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func (f *fakeFetcher) setPageErr(page int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pageErrs == nil {
		f.pageErrs = map[int]error{}
	}
	if err == nil {
		delete(f.pageErrs, page)
		return
	}
	f.pageErrs[page] = err
}

func plantRange(firstID, n int) []model.Plant {
	plants := make([]model.Plant, 0, n)
	for i := 0; i < n; i++ {
		id := firstID + i
		plants = append(plants, model.Plant{ID: id, Name: fmt.Sprintf("plant-%02d", id)})
	}
	return plants
}

func threePageFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: map[int][]model.Plant{
			1: plantRange(1, 8),
			2: plantRange(9, 8),
			3: plantRange(17, 5),
		},
		tags: []model.EnvironmentTag{
			{Key: "kitchen", Title: "Cozinha"},
			{Key: "living_room", Title: "Sala"},
		},
	}
}

func newController(f catalog.Fetcher) *catalog.Controller {
	return catalog.NewController(f, 8, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ids(plants []model.Plant) []int {
	out := make([]int, 0, len(plants))
	for _, p := range plants {
		out = append(out, p.ID)
	}
	return out
}

func TestController_Initialize(t *testing.T) {
	f := threePageFetcher()
	c := newController(f)

	if got := c.State(); got != catalog.StateUninitialized {
		t.Fatalf("expected uninitialized, got %s", got)
	}

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := c.Snapshot()
	if snap.State != catalog.StateIdle {
		t.Errorf("expected idle, got %s", snap.State)
	}
	if snap.Page != 1 {
		t.Errorf("expected page 1, got %d", snap.Page)
	}
	if snap.Total != 8 {
		t.Errorf("expected 8 plants, got %d", snap.Total)
	}

	wantTags := []model.EnvironmentTag{
		{Key: "all", Title: "Todos"},
		{Key: "kitchen", Title: "Cozinha"},
		{Key: "living_room", Title: "Sala"},
	}
	if !reflect.DeepEqual(snap.Environments, wantTags) {
		t.Errorf("environments = %+v, want %+v", snap.Environments, wantTags)
	}

	// second call is a no-op
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls := f.plantCalls(); !reflect.DeepEqual(calls, []int{1}) {
		t.Errorf("expected one page fetch, got %v", calls)
	}
}

func TestController_ThreePagesUntilExhausted(t *testing.T) {
	f := threePageFetcher()
	c := newController(f)
	ctx := context.Background()

	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	for page := 2; page <= 3; page++ {
		accepted, err := c.RequestMore(ctx, 0)
		if err != nil {
			t.Fatalf("page %d: unexpected error: %v", page, err)
		}
		if !accepted {
			t.Fatalf("page %d: expected request to be accepted", page)
		}
	}

	if got := c.State(); got != catalog.StateExhausted {
		t.Fatalf("expected exhausted after page 3, got %s", got)
	}

	plants := c.Plants()
	if len(plants) != 21 {
		t.Fatalf("expected 21 plants, got %d", len(plants))
	}
	want := ids(plantRange(1, 21))
	if got := ids(plants); !reflect.DeepEqual(got, want) {
		t.Errorf("plants not in page order: %v", got)
	}

	accepted, err := c.RequestMore(ctx, 10)
	if err != nil || accepted {
		t.Errorf("expected fourth request to be a no-op, got accepted=%v err=%v", accepted, err)
	}
	if calls := f.plantCalls(); !reflect.DeepEqual(calls, []int{1, 2, 3}) {
		t.Errorf("expected fetches for pages 1..3, got %v", calls)
	}
	if snap := c.Snapshot(); snap.Page != 3 {
		t.Errorf("expected cursor to stay on page 3, got %d", snap.Page)
	}
}

func TestController_ShortFirstPageIsExhausted(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Plant{1: plantRange(1, 3)}}
	c := newController(f)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.State(); got != catalog.StateExhausted {
		t.Errorf("expected exhausted, got %s", got)
	}
}

func TestController_EmptyNextPageIsExhausted(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Plant{
		1: plantRange(1, 8),
		2: {},
	}}
	c := newController(f)
	ctx := context.Background()

	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.RequestMore(ctx, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.State(); got != catalog.StateExhausted {
		t.Errorf("expected exhausted, got %s", got)
	}
	if got := len(c.Plants()); got != 8 {
		t.Errorf("expected 8 plants, got %d", got)
	}
}

func TestController_RequestMoreIgnored(t *testing.T) {
	tests := []struct {
		name     string
		init     bool
		distance float64
	}{
		{"before initialize", false, 0},
		{"negative distance", true, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := threePageFetcher()
			c := newController(f)
			ctx := context.Background()
			if tt.init {
				if err := c.Initialize(ctx); err != nil {
					t.Fatalf("initialize: %v", err)
				}
			}
			before := c.Snapshot()

			accepted, err := c.RequestMore(ctx, tt.distance)
			if err != nil || accepted {
				t.Fatalf("expected no-op, got accepted=%v err=%v", accepted, err)
			}
			if after := c.Snapshot(); !reflect.DeepEqual(before, after) {
				t.Errorf("state changed: before=%+v after=%+v", before, after)
			}
		})
	}
}

func TestController_RequestMoreWhileFetchingIsNoOp(t *testing.T) {
	f := threePageFetcher()
	f.gatedPage = 2
	f.started = make(chan int, 1)
	f.gate = make(chan struct{})
	c := newController(f)
	ctx := context.Background()

	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.RequestMore(ctx, 0)
		done <- err
	}()
	<-f.started

	if got := c.State(); got != catalog.StateFetchingNextPage {
		t.Fatalf("expected fetching_next_page, got %s", got)
	}
	for i := 0; i < 3; i++ {
		accepted, err := c.RequestMore(ctx, 0)
		if err != nil || accepted {
			t.Fatalf("expected no-op while fetching, got accepted=%v err=%v", accepted, err)
		}
	}

	close(f.gate)
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls := f.plantCalls(); !reflect.DeepEqual(calls, []int{1, 2}) {
		t.Errorf("expected a single fetch of page 2, got %v", calls)
	}
	if got := len(c.Plants()); got != 16 {
		t.Errorf("expected 16 plants, got %d", got)
	}
}

func TestController_FailedFetchAndRetry(t *testing.T) {
	f := threePageFetcher()
	f.setPageErr(2, catalog.ErrEmptyResponse)
	c := newController(f)
	ctx := context.Background()

	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	accepted, err := c.RequestMore(ctx, 0)
	if !accepted {
		t.Fatal("expected request to be accepted")
	}
	if !errors.Is(err, catalog.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}

	snap := c.Snapshot()
	if snap.State != catalog.StateFailed {
		t.Fatalf("expected failed, got %s", snap.State)
	}
	if snap.Error == "" {
		t.Error("expected error in snapshot")
	}
	if snap.Total != 8 {
		t.Errorf("expected plants untouched, got %d", snap.Total)
	}

	// failed is not idle: scrolling does not fetch again
	if accepted, _ := c.RequestMore(ctx, 0); accepted {
		t.Error("expected request to be ignored in failed state")
	}

	f.setPageErr(2, nil)
	if err := c.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}

	snap = c.Snapshot()
	if snap.State != catalog.StateIdle || snap.Page != 2 || snap.Total != 16 || snap.Error != "" {
		t.Errorf("unexpected snapshot after retry: %+v", snap)
	}

	if err := c.Retry(ctx); !errors.Is(err, catalog.ErrNothingToRetry) {
		t.Errorf("expected ErrNothingToRetry, got %v", err)
	}
}

func TestController_FailedInitializeAndRetry(t *testing.T) {
	f := threePageFetcher()
	f.tagsErr = errors.New("connection refused")
	c := newController(f)
	ctx := context.Background()

	if err := c.Initialize(ctx); err == nil {
		t.Fatal("expected error")
	}
	if got := c.State(); got != catalog.StateFailed {
		t.Fatalf("expected failed, got %s", got)
	}

	f.tagsErr = nil
	if err := c.Retry(ctx); err != nil {
		t.Fatalf("retry: %v", err)
	}

	snap := c.Snapshot()
	if snap.State != catalog.StateIdle || snap.Total != 8 || len(snap.Environments) != 3 {
		t.Errorf("unexpected snapshot after retry: %+v", snap)
	}
}

func TestController_SelectEnvironment(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Plant{1: fivePlants()}}
	c := newController(f)

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	got := c.SelectEnvironment("shade")
	if !reflect.DeepEqual(ids(got), []int{1, 3}) {
		t.Errorf("shade = %v, want [1 3]", ids(got))
	}

	snap := c.Snapshot()
	if snap.Environment != "shade" || !reflect.DeepEqual(ids(snap.Plants), []int{1, 3}) {
		t.Errorf("snapshot not filtered: %+v", snap)
	}
	if snap.Total != 5 {
		t.Errorf("filtering must not shrink the full list, total=%d", snap.Total)
	}

	all := c.SelectEnvironment(model.EnvironmentAll)
	if !reflect.DeepEqual(all, c.Plants()) {
		t.Errorf("all = %v, want full list", ids(all))
	}

	if calls := f.plantCalls(); len(calls) != 1 {
		t.Errorf("filtering must not fetch, got calls %v", calls)
	}
}

func TestController_FilterAppliesToAppendedPages(t *testing.T) {
	page1 := plantRange(1, 8)
	page1[2].Environments = []string{"shade"}
	page2 := plantRange(9, 2)
	page2[1].Environments = []string{"shade"}

	f := &fakeFetcher{pages: map[int][]model.Plant{1: page1, 2: page2}}
	c := newController(f)
	ctx := context.Background()

	if err := c.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	c.SelectEnvironment("shade")
	if _, err := c.RequestMore(ctx, 0); err != nil {
		t.Fatalf("request more: %v", err)
	}

	if got := ids(c.Snapshot().Plants); !reflect.DeepEqual(got, []int{3, 10}) {
		t.Errorf("filtered = %v, want [3 10]", got)
	}
}

func TestController_Select(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Plant{1: fivePlants()}}
	c := newController(f)
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	p, err := c.Select(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Imbé" {
		t.Errorf("expected Imbé, got %s", p.Name)
	}

	if _, err := c.Select(42); !errors.Is(err, catalog.ErrPlantNotFound) {
		t.Errorf("expected ErrPlantNotFound, got %v", err)
	}
}
