package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jaekwang-park/plantcare-api/internal/cognito"
	"github.com/jaekwang-park/plantcare-api/internal/reminder"
	"github.com/jaekwang-park/plantcare-api/internal/service"
)

// accountMessages are the client-facing texts for account errors. Cognito's
// own messages are only logged.
var accountMessages = map[string]string{
	"ACCOUNT_EXISTS":        "an account with this email already exists",
	"ACCOUNT_NOT_FOUND":     "account not found",
	"ACCOUNT_NOT_CONFIRMED": "email address not confirmed",
	"WEAK_PASSWORD":         "password does not meet requirements",
	"INVALID_CODE":          "invalid verification code",
	"CODE_EXPIRED":          "verification code has expired",
	"NOT_AUTHORIZED":        "incorrect email or password",
	"TOO_MANY_REQUESTS":     "too many requests, please try again later",
	"INVALID_PARAMETER":     "invalid request parameter",
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if info, ok := cognito.LookupError(err); ok {
		slog.WarnContext(r.Context(), "account error", "code", info.Code, "detail", err.Error())
		WriteError(w, info.Status, info.Code, accountMessages[info.Code])
		return
	}

	switch {
	case errors.Is(err, reminder.ErrPastDateTime):
		WriteError(w, http.StatusUnprocessableEntity, "PAST_DATE_TIME", reminder.PastDateTimeWarning)
	case errors.Is(err, reminder.ErrSaveFailed):
		WriteError(w, http.StatusInternalServerError, "SAVE_FAILED", reminder.SaveFailedMessage)
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusConflict, "CONFLICT", err.Error())
	default:
		slog.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
