package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/jaekwang-park/plantcare-api/internal/model"
)

// Saver persists reminder records.
type Saver interface {
	Save(ctx context.Context, reminder model.Reminder) (model.Reminder, error)
}

type Options struct {
	PickerMode model.PickerDisplayMode
	Now        func() time.Time
}

// Scheduler collects the notification time for one plant and saves the
// resulting reminder. It is not safe for concurrent use.
type Scheduler struct {
	gardenerID string
	plant      model.Plant
	saver      Saver
	mode       model.PickerDisplayMode
	now        func() time.Time

	selected      time.Time
	pickerVisible bool
}

func NewScheduler(gardenerID string, plant model.Plant, saver Saver, opts Options) *Scheduler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	mode := opts.PickerMode
	if !mode.IsValid() {
		mode = model.PickerOnToggle
	}
	return &Scheduler{
		gardenerID:    gardenerID,
		plant:         plant,
		saver:         saver,
		mode:          mode,
		now:           now,
		selected:      now(),
		pickerVisible: mode == model.PickerAlways,
	}
}

// SetDateTime selects the notification time. A candidate before the current
// moment is rejected: the selection falls back to now and ErrPastDateTime is
// returned.
func (s *Scheduler) SetDateTime(candidate time.Time) error {
	if s.mode == model.PickerOnToggle {
		s.pickerVisible = false
	}

	now := s.now()
	if candidate.Before(now) {
		s.selected = now.In(candidate.Location())
		return ErrPastDateTime
	}
	s.selected = candidate
	return nil
}

// TogglePicker opens or closes the picker when it is shown on demand.
func (s *Scheduler) TogglePicker() {
	if s.mode == model.PickerOnToggle {
		s.pickerVisible = !s.pickerVisible
	}
}

func (s *Scheduler) Selected() time.Time {
	return s.selected
}

func (s *Scheduler) PickerVisible() bool {
	return s.pickerVisible
}

// Confirm saves the plant together with the selected time and returns the
// payload for the confirmation screen.
func (s *Scheduler) Confirm(ctx context.Context) (model.Reminder, model.Confirmation, error) {
	_, offset := s.selected.Zone()
	rec := model.Reminder{
		GardenerID:     s.gardenerID,
		Plant:          s.plant,
		NotifyAt:       s.selected,
		UTCOffset:      offset,
		NextWateringAt: NextWatering(s.selected, s.plant.Frequency),
	}

	saved, err := s.saver.Save(ctx, rec)
	if err != nil {
		return model.Reminder{}, model.Confirmation{}, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return saved, model.ReminderSavedConfirmation(), nil
}

// NextWatering returns when the plant needs water again after the first
// notification.
func NextWatering(notifyAt time.Time, freq model.Frequency) time.Time {
	return notifyAt.Add(freq.Interval())
}

// HourLabel formats the notification time the way the plant list shows it,
// in the zone utcOffset seconds east of UTC.
func HourLabel(t time.Time, utcOffset int) string {
	return t.In(time.FixedZone("", utcOffset)).Format("15:04")
}
