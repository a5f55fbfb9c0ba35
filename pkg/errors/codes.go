package errors

import "net/http"

// Code is the stable machine readable identifier returned to clients.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code is rendered over HTTP. ExposeMessage
// controls whether the error's own message replaces PublicMessage.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
	ExposeMessage  bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "validation failed", DetailsAllowed: true, ExposeMessage: true},
	CodeNotFound:      {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found", ExposeMessage: true},
	CodeConflict:      {HTTPStatus: http.StatusConflict, PublicMessage: "request already in progress", Retryable: true, ExposeMessage: true},
	CodeStateConflict: {HTTPStatus: http.StatusUnprocessableEntity, PublicMessage: "state transition disallowed", DetailsAllowed: true, ExposeMessage: true},
	CodeIdempotency:   {HTTPStatus: http.StatusConflict, PublicMessage: "idempotency key reused", DetailsAllowed: true, ExposeMessage: true},
	CodeRateLimit:     {HTTPStatus: http.StatusTooManyRequests, PublicMessage: "rate limit exceeded", ExposeMessage: true},
	// Relay failures carry a fixed user-facing message, never the SMTP text.
	CodeDependency: {HTTPStatus: http.StatusServiceUnavailable, PublicMessage: "dependency unavailable", Retryable: true, DetailsAllowed: true, ExposeMessage: true},
	CodeInternal:   {HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal server error", Retryable: true},
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Public returns the status and client-safe message for err.
func Public(err error) (int, string) {
	typed := As(err)
	if typed == nil {
		meta := MetadataFor(CodeInternal)
		return meta.HTTPStatus, meta.PublicMessage
	}
	meta := MetadataFor(typed.Code())
	if meta.ExposeMessage && typed.Message() != "" {
		return meta.HTTPStatus, typed.Message()
	}
	return meta.HTTPStatus, meta.PublicMessage
}

// Retryable reports whether a client may repeat the request unchanged.
func Retryable(err error) bool {
	return MetadataFor(CodeOf(err)).Retryable
}
