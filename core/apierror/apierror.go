// Package apierror defines the failures shared by the remote service clients.
//
// Two kinds exist: a ConfigurationError is returned before any network call
// when a required credential is missing from the environment, and an
// UpstreamError is returned when the remote service answers with a
// non-success status.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ConfigurationError reports a missing credential.
type ConfigurationError struct {
	// Service names the remote service the credential belongs to.
	Service string
	// Missing lists the environment variables that were not set.
	Missing []string
	// Message is the user-visible description. When empty a description is
	// derived from Service and Missing.
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Missing) == 0 {
		return fmt.Sprintf("%s is not configured", e.Service)
	}
	return fmt.Sprintf("%s is not configured: missing %s", e.Service, strings.Join(e.Missing, ", "))
}

// UpstreamError reports a non-success response from a remote service.
type UpstreamError struct {
	Service    string
	StatusCode int
	// Status is the HTTP status text, e.g. "401 Unauthorized".
	Status string
	// Detail is the best-effort message extracted from the response body.
	Detail string
}

func (e *UpstreamError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = e.statusText()
	}
	if detail == "" {
		detail = "Unknown error"
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, detail)
}

func (e *UpstreamError) statusText() string {
	if e.Status != "" {
		return e.Status
	}
	return http.StatusText(e.StatusCode)
}

// Missing returns a ConfigurationError for the given service and variables.
func Missing(service string, variables ...string) *ConfigurationError {
	return &ConfigurationError{Service: service, Missing: variables}
}

// IsConfiguration reports whether err is, or wraps, a ConfigurationError.
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// IsUpstream reports whether err is, or wraps, an UpstreamError.
func IsUpstream(err error) bool {
	var upstreamErr *UpstreamError
	return errors.As(err, &upstreamErr)
}
