package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoSession is returned when the login call succeeds but CVP sets no cookie.
	ErrNoSession = errors.New("login successful but no session cookie returned")
	// ErrMalformedConfig is returned when a config response lacks output or timestamp.
	ErrMalformedConfig = errors.New("config response missing output or deviceConfigTimeStamp")
)

// TransportError wraps a failure to reach the CVP host at all
// (DNS, refused connection, TLS, timeout).
type TransportError struct {
	Host     string
	Endpoint string
	DeviceID string // set for per-device config calls
	Err      error
}

func (e *TransportError) Error() string {
	switch {
	case e.Endpoint == LoginPath:
		return fmt.Sprintf("HTTPS connection to CVP Host %s failed please check CVP host or IP address: %v", e.Host, e.Err)
	case e.DeviceID != "":
		return fmt.Sprintf("Config retrieval failed for %s connection to CVP Host %s: %v", e.DeviceID, e.Host, e.Err)
	default:
		return fmt.Sprintf("Request %s to CVP Host %s failed: %v", e.Endpoint, e.Host, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a non-200 answer from CVP.
type StatusError struct {
	Host       string
	Endpoint   string
	DeviceID   string
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusUnauthorized {
		return fmt.Sprintf("Status code %d from CVP Server %s please check your login credentials", e.StatusCode, e.Host)
	}
	if e.DeviceID != "" {
		return fmt.Sprintf("Status code %d from CVP Server %s to retrieve %s for %s", e.StatusCode, e.Host, e.Endpoint, e.DeviceID)
	}
	return fmt.Sprintf("Status code %d from CVP Server %s to retrieve %s", e.StatusCode, e.Host, e.Endpoint)
}

// IsAuthError reports whether err is a 401 or 403 answer from CVP.
func IsAuthError(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden
}
