package service

import "errors"

// Sentinel errors crossing the service boundary. Handlers translate these to
// HTTP statuses; reasons are attached by wrapping, e.g.
// fmt.Errorf("%w: %s", ErrPermissionDenied, reason).
var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("document not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrReaderNil         = errors.New("reader is nil")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("document was modified concurrently")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateEmail    = errors.New("email already registered")
)
