package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// Fetcher reads plants and environment tags from the remote catalog.
type Fetcher interface {
	ListPlants(ctx context.Context, page, limit int) ([]model.Plant, error)
	ListEnvironments(ctx context.Context) ([]model.EnvironmentTag, error)
}

type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RetryCount    int
	RatePerSecond float64
	CacheSize     int
	CacheTTL      time.Duration
}

// Client is the HTTP client for the catalog REST API.
type Client struct {
	http    *resty.Client
	limiter *rate.Limiter
	pages   *expirable.LRU[string, []model.Plant]
	logger  *slog.Logger
}

func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json")

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = max(1, int(cfg.RatePerSecond))
	}

	c := &Client{
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}
	if cfg.CacheTTL > 0 && cfg.CacheSize > 0 {
		c.pages = expirable.NewLRU[string, []model.Plant](cfg.CacheSize, nil, cfg.CacheTTL)
	}
	return c
}

// ListPlants fetches one page of plants sorted by name.
func (c *Client) ListPlants(ctx context.Context, page, limit int) ([]model.Plant, error) {
	key := fmt.Sprintf("%d:%d", page, limit)
	if c.pages != nil {
		if cached, ok := c.pages.Get(key); ok {
			return cached, nil
		}
	}

	var plants []model.Plant
	err := c.get(ctx, "/plants", map[string]string{
		"_sort":  "name",
		"_order": "asc",
		"_page":  strconv.Itoa(page),
		"_limit": strconv.Itoa(limit),
	}, &plants)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "catalog page fetched", "page", page, "limit", limit, "count", len(plants))
	if c.pages != nil {
		c.pages.Add(key, plants)
	}
	return plants, nil
}

// ListEnvironments fetches the environment tags sorted by title.
func (c *Client) ListEnvironments(ctx context.Context) ([]model.EnvironmentTag, error) {
	var tags []model.EnvironmentTag
	err := c.get(ctx, "/plants_environments", map[string]string{
		"_sort":  "title",
		"_order": "asc",
	}, &tags)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("catalog rate limit wait: %w", err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return fmt.Errorf("failed to call catalog %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("catalog %s returned status %d", path, resp.StatusCode())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return fmt.Errorf("catalog %s: %w", path, ErrEmptyResponse)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode catalog %s response: %w", path, err)
	}
	return nil
}

var _ Fetcher = (*Client)(nil)
