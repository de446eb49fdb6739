package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaekwang-park/plantcare-api/internal/catalog"
	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// CatalogView is the state of one catalog session as returned to the app.
type CatalogView struct {
	SessionID string `json:"session_id"`
	catalog.Snapshot
}

// LoadMoreResult tells the app whether its scroll-end request started a fetch.
type LoadMoreResult struct {
	Accepted bool `json:"accepted"`
	CatalogView
}

// CatalogService drives catalog sessions. A failed fetch is not an error of
// the call: it is reported through the session state so the app can offer a
// retry.
type CatalogService struct {
	sessions *catalog.Registry
	logger   *slog.Logger
}

func NewCatalogService(sessions *catalog.Registry, logger *slog.Logger) *CatalogService {
	return &CatalogService{sessions: sessions, logger: logger}
}

// Open starts a session for the gardener and loads the environment tags and
// the first page.
func (s *CatalogService) Open(ctx context.Context, gardenerID string) (CatalogView, error) {
	sess := s.sessions.Open(gardenerID)
	if err := sess.Controller.Initialize(ctx); err != nil {
		s.logger.WarnContext(ctx, "catalog session opened in failed state",
			"session_id", sess.ID, "gardener_id", gardenerID, "error", err)
	}
	return view(sess), nil
}

// View returns the session state. A non-empty environment switches the
// active filter first.
func (s *CatalogService) View(ctx context.Context, gardenerID, sessionID, environment string) (CatalogView, error) {
	sess, err := s.session(gardenerID, sessionID)
	if err != nil {
		return CatalogView{}, err
	}
	if environment != "" {
		sess.Controller.SelectEnvironment(environment)
	}
	return view(sess), nil
}

func (s *CatalogService) LoadMore(ctx context.Context, gardenerID, sessionID string, distanceFromEnd float64) (LoadMoreResult, error) {
	sess, err := s.session(gardenerID, sessionID)
	if err != nil {
		return LoadMoreResult{}, err
	}

	accepted, err := sess.Controller.RequestMore(ctx, distanceFromEnd)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog page fetch failed", "session_id", sessionID, "error", err)
	}
	return LoadMoreResult{Accepted: accepted, CatalogView: view(sess)}, nil
}

func (s *CatalogService) Retry(ctx context.Context, gardenerID, sessionID string) (CatalogView, error) {
	sess, err := s.session(gardenerID, sessionID)
	if err != nil {
		return CatalogView{}, err
	}

	if err := sess.Controller.Retry(ctx); err != nil {
		if errors.Is(err, catalog.ErrNothingToRetry) {
			return CatalogView{}, fmt.Errorf("%w: catalog session is not in a failed state", ErrConflict)
		}
		s.logger.WarnContext(ctx, "catalog retry failed", "session_id", sessionID, "error", err)
	}
	return view(sess), nil
}

func (s *CatalogService) Close(ctx context.Context, gardenerID, sessionID string) error {
	if err := s.sessions.Close(gardenerID, sessionID); err != nil {
		return fmt.Errorf("%w: catalog session %s", ErrNotFound, sessionID)
	}
	return nil
}

// SelectPlant returns a plant the session has already fetched.
func (s *CatalogService) SelectPlant(ctx context.Context, gardenerID, sessionID string, plantID int) (model.Plant, error) {
	sess, err := s.session(gardenerID, sessionID)
	if err != nil {
		return model.Plant{}, err
	}
	plant, err := sess.Controller.Select(plantID)
	if err != nil {
		return model.Plant{}, fmt.Errorf("%w: plant %d is not in catalog session %s", ErrNotFound, plantID, sessionID)
	}
	return plant, nil
}

func (s *CatalogService) session(gardenerID, sessionID string) (*catalog.Session, error) {
	sess, err := s.sessions.Get(gardenerID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: catalog session %s", ErrNotFound, sessionID)
	}
	return sess, nil
}

func view(sess *catalog.Session) CatalogView {
	return CatalogView{SessionID: sess.ID, Snapshot: sess.Controller.Snapshot()}
}
