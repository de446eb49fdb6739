package middleware

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// jwksRefreshInterval bounds how often an unknown kid may trigger a refetch.
const jwksRefreshInterval = 5 * time.Minute

type jwksKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

// JWKSClient caches the user pool signing keys by kid.
type JWKSClient struct {
	http    *resty.Client
	url     string
	refresh *rate.Limiter

	mu   sync.RWMutex
	keys map[string]*rsa.PublicKey
}

func NewJWKSClient(url string) *JWKSClient {
	return &JWKSClient{
		http:    resty.New().SetTimeout(10 * time.Second),
		url:     url,
		refresh: rate.NewLimiter(rate.Every(jwksRefreshInterval), 1),
		keys:    make(map[string]*rsa.PublicKey),
	}
}

// GetKey returns the key for kid, fetching the key set on a miss. Misses
// after the first fetch only refetch once per refresh interval, so made-up
// kids cannot hammer the endpoint.
func (c *JWKSClient) GetKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	if key, ok := c.cached(kid); ok {
		return key, nil
	}
	if !c.refresh.Allow() {
		return nil, fmt.Errorf("key with kid %q not found in JWKS", kid)
	}
	if err := c.fetch(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh JWKS: %w", err)
	}
	if key, ok := c.cached(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("key with kid %q not found in JWKS", kid)
}

func (c *JWKSClient) cached(kid string) (*rsa.PublicKey, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok := c.keys[kid]
	return key, ok
}

func (c *JWKSClient) fetch(ctx context.Context) error {
	var doc jwksDocument
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&doc).
		ForceContentType("application/json").
		Get(c.url)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode())
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAPublicKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	c.mu.Lock()
	c.keys = keys
	c.mu.Unlock()
	return nil
}

func parseRSAPublicKey(k jwksKey) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
