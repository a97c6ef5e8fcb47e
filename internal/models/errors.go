package models

import "errors"

// Failure kinds. Callers branch with errors.Is rather than message text.
var (
	// Session lifecycle.
	ErrCapacityExceeded = errors.New("session capacity exceeded")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")

	// Collaborator faults.
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrRateLimited         = errors.New("rate limited")
	ErrTickerNotFound      = errors.New("ticker not found")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// Stage-level faults.
	ErrResearchFailed    = errors.New("research failed")
	ErrPersistenceFailed = errors.New("persistence failed")
)
