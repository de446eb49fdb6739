package catalog

import "errors"

var (
	// ErrEmptyResponse is returned when the catalog service answers without a body.
	ErrEmptyResponse = errors.New("catalog returned an empty response")

	ErrPlantNotFound   = errors.New("plant not found in catalog")
	ErrSessionNotFound = errors.New("catalog session not found")
	ErrNothingToRetry  = errors.New("catalog has no failed fetch to retry")
)
