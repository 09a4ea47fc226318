package types

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds. Client errors are marked with one of these so callers can
// classify them with errors.Is regardless of wrapping.
var (
	ErrAuth            = errors.New("reddit authentication failed")
	ErrNotFound        = errors.New("reddit resource not found")
	ErrForbidden       = errors.New("reddit permission denied")
	ErrRateLimited     = errors.New("reddit rate limit exceeded")
	ErrRemote          = errors.New("reddit request failed")
	ErrInvalidArgument = errors.New("invalid argument")
)

// HTTPError represents HTTP error from Reddit API
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("reddit API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("reddit API returned status %d: %s", e.StatusCode, e.Message)
}

// KindOf returns a short machine readable name for the error kind.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrRemote):
		return "remote"
	default:
		return "internal"
	}
}
