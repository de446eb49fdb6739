package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

const reminderColumns = `id, gardener_id, plant, notify_at, utc_offset, next_watering_at, created_at, updated_at`

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminder(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

func (r *PostgresReminderRepository) Save(ctx context.Context, reminder model.Reminder) (model.Reminder, error) {
	plant, err := json.Marshal(reminder.Plant)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to encode plant: %w", err)
	}

	query := `
		INSERT INTO reminders (gardener_id, plant_id, plant, notify_at, utc_offset, next_watering_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (gardener_id, plant_id) DO UPDATE
		SET plant = EXCLUDED.plant,
			notify_at = EXCLUDED.notify_at,
			utc_offset = EXCLUDED.utc_offset,
			next_watering_at = EXCLUDED.next_watering_at,
			updated_at = now()
		RETURNING ` + reminderColumns

	row := r.db.QueryRowContext(ctx, query,
		reminder.GardenerID, reminder.Plant.ID, plant, reminder.NotifyAt, reminder.UTCOffset, reminder.NextWateringAt,
	)
	return scanReminder(row)
}

func (r *PostgresReminderRepository) GetByID(ctx context.Context, gardenerID, reminderID string) (model.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE id = $1 AND gardener_id = $2`

	row := r.db.QueryRowContext(ctx, query, reminderID, gardenerID)
	return scanReminder(row)
}

// List returns the gardener's reminders, the soonest notification first.
func (r *PostgresReminderRepository) List(ctx context.Context, gardenerID string) ([]model.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE gardener_id = $1
		ORDER BY notify_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, gardenerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}

func (r *PostgresReminderRepository) Delete(ctx context.Context, gardenerID, reminderID string) error {
	query := `DELETE FROM reminders WHERE id = $1 AND gardener_id = $2`

	result, err := r.db.ExecContext(ctx, query, reminderID, gardenerID)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func scanReminder(row scannable) (model.Reminder, error) {
	var (
		rem   model.Reminder
		plant []byte
	)
	err := row.Scan(
		&rem.ID, &rem.GardenerID, &plant,
		&rem.NotifyAt, &rem.UTCOffset, &rem.NextWateringAt, &rem.CreatedAt, &rem.UpdatedAt,
	)
	if err != nil {
		return model.Reminder{}, fmt.Errorf("failed to scan reminder: %w", err)
	}
	// timestamptz comes back in the session zone
	zone := time.FixedZone("", rem.UTCOffset)
	rem.NotifyAt = rem.NotifyAt.In(zone)
	rem.NextWateringAt = rem.NextWateringAt.In(zone)
	if err := json.Unmarshal(plant, &rem.Plant); err != nil {
		return model.Reminder{}, fmt.Errorf("failed to decode reminder plant: %w", err)
	}
	return rem, nil
}

var _ ReminderRepository = (*PostgresReminderRepository)(nil)
