package domain

import "errors"

var (
	// ErrStoreUnavailable wraps any failed query against the record store
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrInvalidFilter is returned for malformed report or listing filters
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrNoData is returned when an export filter matches nothing
	ErrNoData = errors.New("no data matches the filter")
	// ErrRenderFailure wraps errors from the document renderer
	ErrRenderFailure = errors.New("report rendering failed")

	ErrNotFound           = errors.New("record not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("record conflicts with existing data")
)
