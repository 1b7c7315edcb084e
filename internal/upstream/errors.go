package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed backend call. Every remote-call site catches at
// the boundary and maps to one of these; nothing propagates upward as an
// unclassified error.
type Kind string

const (
	// KindValidation is a user-correctable rejection (HTTP 400).
	KindValidation Kind = "validation_failure"
	// KindNotFound means the resource no longer exists (HTTP 404); callers
	// should refetch to reconcile a possibly-stale list.
	KindNotFound Kind = "not_found"
	// KindServer is a backend-side failure (HTTP 500), retry-later.
	KindServer Kind = "server_failure"
	// KindAuth is an authentication/authorization rejection (HTTP 401/403).
	KindAuth Kind = "auth_failure"
	// KindNetworkOrParse covers transport errors and malformed payloads.
	KindNetworkOrParse Kind = "network_or_parse_failure"
)

// APIError is a classified backend failure.
type APIError struct {
	Kind       Kind
	StatusCode int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream %s (status %d)", e.Kind, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.cause }

// KindOf extracts the failure kind from any error returned by this
// package. Unrecognized errors classify as network-or-parse.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetworkOrParse
}

// IsNotFound reports whether err is a classified 404.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// classifyStatus maps a non-success HTTP status to a failure kind. The
// branch is on the backend's exact contract codes; anything unexpected is
// treated as a server failure.
func classifyStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusInternalServerError:
		return KindServer
	default:
		return KindServer
	}
}

func netError(op string, err error) error {
	return &APIError{
		Kind:    KindNetworkOrParse,
		Message: op,
		cause:   err,
	}
}
