package repository

import (
	"context"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// ReminderRepository stores one reminder per gardener and plant. Saving a
// reminder for a plant that already has one replaces it.
type ReminderRepository interface {
	Save(ctx context.Context, reminder model.Reminder) (model.Reminder, error)
	GetByID(ctx context.Context, gardenerID, reminderID string) (model.Reminder, error)
	List(ctx context.Context, gardenerID string) ([]model.Reminder, error)
	Delete(ctx context.Context, gardenerID, reminderID string) error
}
