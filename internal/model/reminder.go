package model

import "time"

type PickerDisplayMode string

const (
	PickerAlways   PickerDisplayMode = "always"
	PickerOnToggle PickerDisplayMode = "on_toggle"
)

func (m PickerDisplayMode) IsValid() bool {
	return m == PickerAlways || m == PickerOnToggle
}

// PickerModeForPlatform resolves the picker display mode from the host platform.
// iOS renders the picker inline; every other platform opens it on demand.
func PickerModeForPlatform(platform string) PickerDisplayMode {
	if platform == "ios" {
		return PickerAlways
	}
	return PickerOnToggle
}

type Reminder struct {
	ID             string    `json:"id"`
	GardenerID     string    `json:"gardener_id"`
	Plant          Plant     `json:"plant"`
	NotifyAt       time.Time `json:"notify_at"`
	// UTCOffset is the gardener's offset from UTC in seconds when the time
	// was picked. Labels are formatted in that zone.
	UTCOffset      int       `json:"utc_offset"`
	NextWateringAt time.Time `json:"next_watering_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ReminderView is a reminder as listed on the "my plants" screen.
type ReminderView struct {
	Reminder
	Hour string `json:"hour"`
}

// Confirmation is handed to the confirmation screen after a reminder is saved.
type Confirmation struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	ButtonTitle string `json:"button_title"`
	Icon        string `json:"icon"`
	NextScreen  string `json:"next_screen"`
}

func ReminderSavedConfirmation() Confirmation {
	return Confirmation{
		Title:       "Tudo certo",
		Subtitle:    "Fique tranquilo que sempre vamos lembrar você da sua plantinha com muito cuidado.",
		ButtonTitle: "Muito Obrigado :D",
		Icon:        "hug",
		NextScreen:  "MyPlants",
	}
}
