package auth

import (
	"errors"
	"net/http"

	"github.com/macro-obs/obsportal/pkg/visibility"
)

// Guard inspects a request before a handler runs. A nil return lets the
// request through; otherwise the error decides the response status.
type Guard func(r *http.Request) error

// HTTPError lets guard errors carry their own status code.
type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// RequireRole builds a guard that admits only viewers at or above min.
// Anonymous requests get 401, under-privileged viewers 403.
func RequireRole(min visibility.Role) Guard {
	return func(r *http.Request) error {
		viewer, ok := ViewerFrom(r.Context())
		if !ok {
			return StatusError{Code: http.StatusUnauthorized}
		}
		if !viewer.Role.AtLeast(min) {
			return StatusError{Code: http.StatusForbidden}
		}
		return nil
	}
}

// WriteGuardError maps a guard error onto the response. Errors without a
// status code default to 403.
func WriteGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
