package reminder

import "errors"

var (
	ErrPastDateTime = errors.New("reminder time is in the past")
	ErrSaveFailed   = errors.New("failed to save reminder")
)

// User-facing messages shown for the errors above.
const (
	PastDateTimeWarning = "Escolha uma hora no futuro! ⏰"
	SaveFailedMessage   = "Não foi possível salvar! 😪"
)
