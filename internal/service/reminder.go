package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaekwang-park/plantcare-api/internal/model"
	"github.com/jaekwang-park/plantcare-api/internal/reminder"
	"github.com/jaekwang-park/plantcare-api/internal/repository"
)

// PlantSource resolves a plant the gardener picked from a catalog session.
type PlantSource interface {
	SelectPlant(ctx context.Context, gardenerID, sessionID string, plantID int) (model.Plant, error)
}

type ScheduleInput struct {
	SessionID string
	PlantID   int
	NotifyAt  string // RFC3339
}

type ScheduleResult struct {
	Reminder     model.ReminderView `json:"reminder"`
	Confirmation model.Confirmation `json:"confirmation"`
}

type ReminderService struct {
	repo   repository.ReminderRepository
	plants PlantSource
	opts   reminder.Options
	logger *slog.Logger
}

func NewReminderService(repo repository.ReminderRepository, plants PlantSource, opts reminder.Options, logger *slog.Logger) *ReminderService {
	return &ReminderService{repo: repo, plants: plants, opts: opts, logger: logger}
}

func parseNotifyAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: notify_at is required", ErrInvalidInput)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid notify_at format, expected RFC3339", ErrInvalidInput)
	}
	return t, nil
}

// Schedule saves a watering reminder for a plant picked from a catalog
// session. A notify time in the past yields reminder.ErrPastDateTime and
// nothing is saved.
func (s *ReminderService) Schedule(ctx context.Context, gardenerID string, input ScheduleInput) (ScheduleResult, error) {
	if input.SessionID == "" {
		return ScheduleResult{}, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}
	if input.PlantID <= 0 {
		return ScheduleResult{}, fmt.Errorf("%w: plant_id is required", ErrInvalidInput)
	}
	notifyAt, err := parseNotifyAt(input.NotifyAt)
	if err != nil {
		return ScheduleResult{}, err
	}

	plant, err := s.plants.SelectPlant(ctx, gardenerID, input.SessionID, input.PlantID)
	if err != nil {
		return ScheduleResult{}, err
	}

	sched := reminder.NewScheduler(gardenerID, plant, s.repo, s.opts)
	if err := sched.SetDateTime(notifyAt); err != nil {
		return ScheduleResult{}, err
	}

	saved, confirmation, err := sched.Confirm(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save reminder",
			"gardener_id", gardenerID, "plant_id", plant.ID, "error", err)
		return ScheduleResult{}, err
	}

	s.logger.InfoContext(ctx, "reminder scheduled",
		"reminder_id", saved.ID, "plant_id", plant.ID, "notify_at", saved.NotifyAt)
	return ScheduleResult{Reminder: toView(saved), Confirmation: confirmation}, nil
}

// List returns the gardener's reminders, earliest notification first.
func (s *ReminderService) List(ctx context.Context, gardenerID string) ([]model.ReminderView, error) {
	reminders, err := s.repo.List(ctx, gardenerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	views := make([]model.ReminderView, 0, len(reminders))
	for _, r := range reminders {
		views = append(views, toView(r))
	}
	return views, nil
}

func (s *ReminderService) Get(ctx context.Context, gardenerID, reminderID string) (model.ReminderView, error) {
	r, err := s.repo.GetByID(ctx, gardenerID, reminderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ReminderView{}, ErrNotFound
		}
		return model.ReminderView{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return toView(r), nil
}

func (s *ReminderService) Delete(ctx context.Context, gardenerID, reminderID string) error {
	if err := s.repo.Delete(ctx, gardenerID, reminderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func toView(r model.Reminder) model.ReminderView {
	return model.ReminderView{Reminder: r, Hour: reminder.HourLabel(r.NotifyAt, r.UTCOffset)}
}
