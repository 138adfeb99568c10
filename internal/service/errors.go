package service

import (
	"errors"
	"fmt"
	"time"

	"pdfshare/internal/repository"
)

// Error taxonomy surfaced to callers. Handlers map each one to a distinct client-facing failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("verification required")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrInvalidMode     = errors.New("verification not required")
	ErrTokenConflict   = errors.New("share token collision")
	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrUnavailable     = errors.New("dependency unavailable")
)

var (
	ErrIDRequired    = fmt.Errorf("%w: id is required", ErrValidation)
	ErrReaderNil     = fmt.Errorf("%w: reader is nil", ErrValidation)
	ErrTitleRequired = fmt.Errorf("%w: title is required", ErrValidation)
	ErrNotPDF        = fmt.Errorf("%w: only PDF uploads are allowed", ErrValidation)
	ErrInvalidPages  = fmt.Errorf("%w: allowed pages must be positive", ErrValidation)
)

// AttemptsExceededError reports a rate-limited verification and when to retry.
type AttemptsExceededError struct {
	RetryAfter time.Duration
}

func (e *AttemptsExceededError) Error() string {
	return fmt.Sprintf("%s: retry after %s", ErrTooManyAttempts, e.RetryAfter)
}

func (e *AttemptsExceededError) Unwrap() error { return ErrTooManyAttempts }

// storeError maps a repository failure. Missing rows become ErrNotFound;
// anything else is a dependency failure and must not look like a missing record.
func storeError(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
