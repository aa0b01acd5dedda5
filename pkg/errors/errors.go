package errors

import "errors"

// Sentinels for domain errors.
var (
	ErrMissingInput        = errors.New("missing input")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNotification        = errors.New("notification failed")
	ErrRateLimited         = errors.New("rate limited")
)

// Is reports whether err is one of the sentinels.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Wrap adds context to an error.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.Join(errors.New(message), err)
}
