package feed

import (
	"errors"

	"github.com/rook-computer/badge/internal/metrics"
)

// Failure classes of a refresh cycle. None of them is fatal; the cycle is
// abandoned and the next scheduled one starts over.
var (
	// ErrConfig means no app password is configured.
	ErrConfig = errors.New("no app password configured")
	// ErrAuth means the login request failed or its response was unusable.
	ErrAuth = errors.New("authentication failed")
	// ErrAuthExpired means the API rejected the stored credential (HTTP 401).
	ErrAuthExpired = errors.New("access token rejected")
	// ErrTransport covers network failures, timeouts and unexpected statuses.
	ErrTransport = errors.New("transport failure")
	// ErrParse means the search response was not the expected JSON document.
	ErrParse = errors.New("malformed response")
)

// Result maps an error returned by the fetcher to its metrics label.
func Result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, ErrConfig):
		return metrics.ResultConfig
	case errors.Is(err, ErrAuthExpired):
		return metrics.ResultAuthExpired
	case errors.Is(err, ErrAuth):
		return metrics.ResultAuth
	case errors.Is(err, ErrParse):
		return metrics.ResultParse
	default:
		return metrics.ResultTransport
	}
}
