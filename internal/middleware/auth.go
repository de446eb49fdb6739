package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrGardenerNotFound is returned by a GardenerResolver when no gardener has
// the given Cognito sub.
var ErrGardenerNotFound = errors.New("gardener not found")

// GardenerResolver maps a verified Cognito sub to the local gardener ID.
type GardenerResolver interface {
	ResolveGardenerID(ctx context.Context, cognitoSub string) (string, error)
}

// publicPrefixes are reachable without credentials.
var publicPrefixes = []string{"/api/v1/auth/"}

var publicPaths = map[string]bool{
	"/health":          true,
	"/api/v1/settings": true,
}

type AuthConfig struct {
	DevMode     bool
	JWKSClient  *JWKSClient
	Issuer      string
	AppClientID string
	Gardeners   GardenerResolver
	Logger      *slog.Logger
}

type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if !cfg.DevMode {
		if cfg.Gardeners == nil {
			return nil, fmt.Errorf("middleware: GardenerResolver is required when DevMode is false")
		}
		if cfg.JWKSClient == nil {
			return nil, fmt.Errorf("middleware: JWKSClient is required when DevMode is false")
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Auth{cfg: cfg}, nil
}

func isPublic(p string) bool {
	p = path.Clean(p)
	if publicPaths[p] {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		var (
			gardenerID string
			ok         bool
		)
		if a.cfg.DevMode {
			gardenerID, ok = a.devGardener(w, r)
		} else {
			gardenerID, ok = a.jwtGardener(w, r)
		}
		if !ok {
			return
		}

		next.ServeHTTP(w, r.WithContext(SetGardenerID(r.Context(), gardenerID)))
	})
}

// devGardener trusts the X-Gardener-ID header. Local development only.
func (a *Auth) devGardener(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get("X-Gardener-ID")
	if id == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "X-Gardener-ID header required in dev mode")
		return "", false
	}
	return id, true
}

func (a *Auth) jwtGardener(w http.ResponseWriter, r *http.Request) (string, bool) {
	ctx := r.Context()

	tokenStr, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || tokenStr == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token required")
		return "", false
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("kid header not found")
		}
		return a.cfg.JWKSClient.GetKey(ctx, kid)
	},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(a.cfg.Issuer),
		jwt.WithAudience(a.cfg.AppClientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		a.cfg.Logger.DebugContext(ctx, "token rejected", "error", err)
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
		return "", false
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "sub claim not found")
		return "", false
	}

	gardenerID, err := a.cfg.Gardeners.ResolveGardenerID(ctx, sub)
	if err != nil {
		if errors.Is(err, ErrGardenerNotFound) {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "gardener not found, log in first")
		} else {
			a.cfg.Logger.ErrorContext(ctx, "gardener resolution failed", "error", err)
			writeAuthError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return "", false
	}
	return gardenerID, true
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func CognitoIssuer(region, userPoolID string) string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
}

func CognitoJWKSURL(region, userPoolID string) string {
	return CognitoIssuer(region, userPoolID) + "/.well-known/jwks.json"
}
