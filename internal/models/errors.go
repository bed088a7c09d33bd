// Package models defines the error taxonomy and the result envelope shared
// by every layer. Errors are created close to where they are detected and
// shaped into an Envelope in exactly one place (the tool dispatcher).
package models

import (
	"fmt"
	"net/http"
)

// ErrorKind is the closed set of error kinds a caller can observe.
type ErrorKind string

const (
	KindValidation       ErrorKind = "validation"
	KindNotFound         ErrorKind = "not_found"
	KindAuth             ErrorKind = "auth"
	KindRateLimited      ErrorKind = "rate_limited"
	KindServerError      ErrorKind = "server_error"
	KindNetwork          ErrorKind = "network"
	KindUnknown          ErrorKind = "unknown"
	KindAmbiguous        ErrorKind = "ambiguous"
	KindUnknownTool      ErrorKind = "unknown_tool"
	KindInvalidArguments ErrorKind = "invalid_arguments"
)

// KindFromStatus maps a HubSpot HTTP status code to an error kind.
func KindFromStatus(code int) ErrorKind {
	switch {
	case code == http.StatusBadRequest:
		return KindValidation
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// APIError is a non-2xx response from the CRM API, or a transport-level
// failure reaching it (in which case StatusCode is zero and Kind is network).
type APIError struct {
	StatusCode int
	Kind       ErrorKind
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("hubspot: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("hubspot: %s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// AuthReason identifies why credential resolution failed.
type AuthReason string

const (
	ReasonBrokerUnreachable  AuthReason = "broker_unreachable"
	ReasonInvalidCredentials AuthReason = "invalid_credentials"
	ReasonMalformedResponse  AuthReason = "malformed_response"
)

// AuthError is a credential resolution failure. Surfaced per call, never
// fatal to the process.
type AuthError struct {
	Reason  AuthReason
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("credential resolution failed (%s): %s", e.Reason, e.Message)
}

// ValidationError is a local input-shape violation detected by a domain
// operation before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError is a domain-level miss for a lookup by ID or natural key.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found for %q", e.Resource, e.Key)
}

// AmbiguousError reports a natural-key lookup that matched more than one
// record, so acting on it would hit an arbitrary one.
type AmbiguousError struct {
	Resource string
	Key      string
	Matches  int
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d %ss match %q, refusing to pick one", e.Matches, e.Resource, e.Key)
}

// ArgumentError is a tool-invocation argument rejected by schema validation.
type ArgumentError struct {
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// UnknownToolError is a dispatch to a name not present in the catalog.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
