package models

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is the single shape returned for every tool invocation. Remote
// API responses are never passed through unshaped.
type Envelope struct {
	OK    bool       `json:"ok"`
	Data  any        `json:"data,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// ErrorInfo carries a distinguishable kind plus a human-readable message.
// Field is set for argument/validation failures.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

// OKEnvelope wraps a domain operation result.
func OKEnvelope(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

// ErrEnvelope shapes any error raised below the dispatcher into a non-ok
// envelope. Unrecognized errors map to kind=unknown rather than leaking.
func ErrEnvelope(err error) Envelope {
	info := &ErrorInfo{Kind: KindUnknown, Message: err.Error()}

	var (
		apiErr     *APIError
		authErr    *AuthError
		valErr     *ValidationError
		argErr     *ArgumentError
		nfErr      *NotFoundError
		ambErr     *AmbiguousError
		unknownErr *UnknownToolError
	)
	switch {
	case errors.As(err, &argErr):
		info.Kind = KindInvalidArguments
		info.Field = argErr.Field
	case errors.As(err, &unknownErr):
		info.Kind = KindUnknownTool
	case errors.As(err, &valErr):
		info.Kind = KindValidation
		info.Field = valErr.Field
	case errors.As(err, &nfErr):
		info.Kind = KindNotFound
	case errors.As(err, &ambErr):
		info.Kind = KindAmbiguous
	case errors.As(err, &authErr):
		info.Kind = KindAuth
	case errors.As(err, &apiErr):
		info.Kind = apiErr.Kind
	}

	return Envelope{OK: false, Error: info}
}

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the HTTP-surface error body for transport-level failures
// (bad request body, auth middleware). Tool errors travel inside Envelope.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Status: "error", Message: message, Code: code})
}
