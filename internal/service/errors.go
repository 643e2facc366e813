package service

import "errors"

// Sentinel errors returned by the services. Callers match them with errors.Is.
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both unknown ids and records the viewer may not see;
	// the two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied marks a mutation attempt by a non-owner.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrRateLimited marks a creation attempt over the daily cap.
	ErrRateLimited = errors.New("rate limited")
)
