package usecase

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// RetryHinter is implemented by dependency errors that carry the provider's
// own hint of when to try again.
type RetryHinter interface {
	RetryAfter() time.Duration
}

// RetryAfterOf returns the retry hint carried anywhere in err's chain.
func RetryAfterOf(err error) (time.Duration, bool) {
	var hinter RetryHinter
	if !errors.As(err, &hinter) {
		return 0, false
	}
	d := hinter.RetryAfter()
	return d, d > 0
}
