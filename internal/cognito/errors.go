package cognito

import (
	"errors"
	"net/http"
)

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountUnconfirmed = errors.New("account not confirmed")
	ErrWeakPassword       = errors.New("password does not meet the policy")
	ErrInvalidCode        = errors.New("invalid confirmation code")
	ErrCodeExpired        = errors.New("confirmation code expired")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrThrottled          = errors.New("too many requests")
	ErrInvalidParameter   = errors.New("invalid parameter")
)

// ErrorInfo is the HTTP status and error code an account error is reported with.
type ErrorInfo struct {
	Status int
	Code   string
}

var errorMap = map[error]ErrorInfo{
	ErrAccountExists:      {Status: http.StatusConflict, Code: "ACCOUNT_EXISTS"},
	ErrAccountNotFound:    {Status: http.StatusNotFound, Code: "ACCOUNT_NOT_FOUND"},
	ErrAccountUnconfirmed: {Status: http.StatusForbidden, Code: "ACCOUNT_NOT_CONFIRMED"},
	ErrWeakPassword:       {Status: http.StatusBadRequest, Code: "WEAK_PASSWORD"},
	ErrInvalidCode:        {Status: http.StatusBadRequest, Code: "INVALID_CODE"},
	ErrCodeExpired:        {Status: http.StatusBadRequest, Code: "CODE_EXPIRED"},
	ErrNotAuthorized:      {Status: http.StatusUnauthorized, Code: "NOT_AUTHORIZED"},
	ErrThrottled:          {Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS"},
	ErrInvalidParameter:   {Status: http.StatusBadRequest, Code: "INVALID_PARAMETER"},
}

// LookupError reports the ErrorInfo for err if it wraps one of the sentinels above.
func LookupError(err error) (ErrorInfo, bool) {
	for sentinel, info := range errorMap {
		if errors.Is(err, sentinel) {
			return info, true
		}
	}
	return ErrorInfo{}, false
}

// awsErrorCodes maps user pool exception names to sentinels. Several
// exceptions collapse onto one sentinel.
var awsErrorCodes = map[string]error{
	"UsernameExistsException":        ErrAccountExists,
	"AliasExistsException":           ErrAccountExists,
	"UserNotFoundException":          ErrAccountNotFound,
	"UserNotConfirmedException":      ErrAccountUnconfirmed,
	"InvalidPasswordException":       ErrWeakPassword,
	"CodeMismatchException":          ErrInvalidCode,
	"ExpiredCodeException":           ErrCodeExpired,
	"NotAuthorizedException":         ErrNotAuthorized,
	"PasswordResetRequiredException": ErrNotAuthorized,
	"TooManyRequestsException":       ErrThrottled,
	"TooManyFailedAttemptsException": ErrThrottled,
	"LimitExceededException":         ErrThrottled,
	"InvalidParameterException":      ErrInvalidParameter,
}
