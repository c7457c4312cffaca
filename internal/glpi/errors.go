// Package glpi provides an authenticated HTTP client for the GLPI REST API:
// session lifecycle management, scoped header composition, error
// classification, and multipart document upload. Domain managers
// (Contracts, Invoices, Tickets, Documents) are thin consumers of the
// client and hold no state of their own.
package glpi

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for failure classification.
// Use errors.Is(err, glpi.ErrAuth) to check.
var (
	// ErrAuth marks terminal authentication failures: a failed session
	// init, a failed OAuth token acquisition, or an expired session that
	// could not be recovered by the one-shot retry.
	ErrAuth = errors.New("glpi: authentication failed")

	// ErrSessionInit marks a failed /initSession exchange. It unwraps to
	// ErrAuth so callers can treat both uniformly.
	ErrSessionInit = fmt.Errorf("%w: session initialization", ErrAuth)

	// ErrTimeout marks a request that exceeded its deadline. Timeouts are
	// not authentication failures and never trigger a session refresh.
	ErrTimeout = errors.New("glpi: request timed out")

	// ErrValidation marks local precondition failures detected before any
	// network I/O (bad manifest, path is not a regular file).
	ErrValidation = errors.New("glpi: validation failed")

	// Backend status classification sentinels.
	ErrBadRequest  = errors.New("glpi: bad request")
	ErrNotFound    = errors.New("glpi: not found")
	ErrServerError = errors.New("glpi: server error")
)

// APIError is a non-2xx backend response, surfaced with the backend's
// status and body verbatim. It wraps a sentinel for errors.Is checks.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
	Err        error // sentinel, for errors.Is()
}

func (e *APIError) Error() string {
	return fmt.Sprintf("glpi: %s %s: HTTP %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-auth HTTP status code to a sentinel error.
func classifyStatus(code int) error {
	switch {
	case code == http.StatusBadRequest:
		return ErrBadRequest
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= http.StatusInternalServerError:
		return ErrServerError
	default:
		return errors.New("glpi: request failed")
	}
}

// isAuthFailure reports whether a status code signals an expired or invalid
// credential. GLPI answers 401 for an expired session token and 403 when
// the App-Token is not accepted for the session; both trigger the one-shot
// re-authentication in the dispatcher.
func isAuthFailure(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
