package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// DefaultPageSize is the number of plants requested per catalog page.
const DefaultPageSize = 8

// Snapshot is a read-only view of a controller for the presentation layer.
type Snapshot struct {
	State        State                  `json:"state"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
	Environment  string                 `json:"environment"`
	Environments []model.EnvironmentTag `json:"environments"`
	Plants       []model.Plant          `json:"plants"`
	Total        int                    `json:"total"`
	Error        string                 `json:"error,omitempty"`
}

// Controller keeps the fetched plants and environment tags of one catalog
// browsing session and drives incremental page loading.
//
// The mutex is never held across a fetch. While a fetch is in flight the
// state is one of the fetching states, which makes further RequestMore calls
// no-ops, so at most one page fetch runs at a time.
type Controller struct {
	fetcher  Fetcher
	pageSize int
	logger   *slog.Logger

	mu          sync.Mutex
	state       State
	page        int
	plants      []model.Plant
	tags        []model.EnvironmentTag
	environment string
	err         error
}

func NewController(fetcher Fetcher, pageSize int, logger *slog.Logger) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Controller{
		fetcher:     fetcher,
		pageSize:    pageSize,
		logger:      logger,
		state:       StateUninitialized,
		environment: model.EnvironmentAll,
	}
}

// Initialize fetches the environment tags and the first plant page. Calling
// it on a controller that was already initialized does nothing.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return nil
	}
	c.state = StateFetchingFirstPage
	c.page = 1
	c.mu.Unlock()

	return c.loadFirstPage(ctx)
}

func (c *Controller) loadFirstPage(ctx context.Context) error {
	var (
		tags   []model.EnvironmentTag
		plants []model.Plant
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tags, err = c.fetcher.ListEnvironments(gctx)
		if err != nil {
			return fmt.Errorf("fetch environments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		plants, err = c.fetcher.ListPlants(gctx, 1, c.pageSize)
		if err != nil {
			return fmt.Errorf("fetch page 1: %w", err)
		}
		return nil
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.fail(ctx, err)
		return err
	}

	c.tags = append([]model.EnvironmentTag{model.AllEnvironments()}, tags...)
	c.plants = append([]model.Plant(nil), plants...)
	c.err = nil
	c.settle()
	return nil
}

// RequestMore asks for the next page once the list has been scrolled to its
// end. It reports whether the request was accepted. A request is ignored
// while a fetch is in flight, after the catalog is exhausted or failed,
// before initialization, or when distanceFromEnd is negative.
func (c *Controller) RequestMore(ctx context.Context, distanceFromEnd float64) (bool, error) {
	c.mu.Lock()
	if distanceFromEnd < 0 || c.state != StateIdle {
		c.mu.Unlock()
		return false, nil
	}
	c.state = StateFetchingNextPage
	c.page++
	page := c.page
	c.mu.Unlock()

	return true, c.loadPage(ctx, page)
}

func (c *Controller) loadPage(ctx context.Context, page int) error {
	plants, err := c.fetcher.ListPlants(ctx, page, c.pageSize)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		err = fmt.Errorf("fetch page %d: %w", page, err)
		c.fail(ctx, err)
		return err
	}

	c.plants = append(c.plants, plants...)
	c.err = nil
	c.settle()
	return nil
}

// Retry re-runs the fetch that moved the controller into the failed state.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateFailed {
		c.mu.Unlock()
		return ErrNothingToRetry
	}
	page := c.page
	if page <= 1 {
		c.state = StateFetchingFirstPage
		c.mu.Unlock()
		return c.loadFirstPage(ctx)
	}
	c.state = StateFetchingNextPage
	c.mu.Unlock()

	return c.loadPage(ctx, page)
}

// settle picks the resting state after a successful fetch. A cumulative count
// below page*pageSize means the last page came back short: nothing is left.
// Callers must hold c.mu.
func (c *Controller) settle() {
	if len(c.plants) < c.page*c.pageSize {
		c.state = StateExhausted
		return
	}
	c.state = StateIdle
}

// Callers must hold c.mu.
func (c *Controller) fail(ctx context.Context, err error) {
	c.state = StateFailed
	c.err = err
	c.logger.WarnContext(ctx, "catalog fetch failed", "page", c.page, "error", err)
}

// SelectEnvironment makes the given environment the active filter and
// returns the matching plants. It never fetches.
func (c *Controller) SelectEnvironment(environment string) []model.Plant {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.environment = environment
	return Filter(c.plants, environment)
}

// Select returns the fetched plant with the given id.
func (c *Controller) Select(plantID int) (model.Plant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.plants {
		if p.ID == plantID {
			return p, nil
		}
	}
	return model.Plant{}, fmt.Errorf("plant %d: %w", plantID, ErrPlantNotFound)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Plants returns every plant fetched so far in page order.
func (c *Controller) Plants() []model.Plant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Plant(nil), c.plants...)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		State:        c.state,
		Page:         c.page,
		PageSize:     c.pageSize,
		Environment:  c.environment,
		Environments: append([]model.EnvironmentTag{}, c.tags...),
		Plants:       Filter(c.plants, c.environment),
		Total:        len(c.plants),
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	return s
}
