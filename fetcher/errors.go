package fetcher

import (
	"fmt"
	"strings"
)

// ErrorCode is the semantic classification of a failure. Codes are stable
// identifiers, safe to match on; messages are for humans.
type ErrorCode string

const (
	CodeBadRequest            ErrorCode = "bad_request"
	CodeUnauthorized          ErrorCode = "unauthorized"
	CodeForbidden             ErrorCode = "forbidden"
	CodeNotFound              ErrorCode = "not_found"
	CodeMethodNotAllowed      ErrorCode = "method_not_allowed"
	CodeResourceAlreadyExists ErrorCode = "resource_already_exists"
	CodeMissingContentLength  ErrorCode = "missing_content_length"
	CodeContentTooLarge       ErrorCode = "content_too_large"
	CodeInvalidRange          ErrorCode = "invalid_range"
	CodeUnprocessableEntity   ErrorCode = "unprocessable_entity"
	CodeResourceLocked        ErrorCode = "resource_locked"
	CodeTooManyRequests       ErrorCode = "too_many_requests"
	CodeServerError           ErrorCode = "server_error"
	CodeNotImplemented        ErrorCode = "not_implemented"
	CodeServiceUnavailable    ErrorCode = "service_unavailable"
	CodeGatewayTimeout        ErrorCode = "gateway_timeout"

	// CodeUnexpected covers unmapped statuses and opaque failures.
	CodeUnexpected ErrorCode = "unexpected"

	// CodeTransportError covers connection-level failures: timeouts,
	// refused connections, DNS.
	CodeTransportError ErrorCode = "transport_error"

	// CodeHTTPError covers protocol-level failures below the application:
	// malformed responses, broken redirects.
	CodeHTTPError ErrorCode = "http_error"

	// CodeDecodeError reports a body decoder failure.
	CodeDecodeError ErrorCode = "decode_error"

	// CodeNonImplementedFunction reports a transport backend that lacks
	// an optional capability the caller asked for.
	CodeNonImplementedFunction ErrorCode = "non_implemented_function"

	// CodeInvalidRequest reports builder misuse caught before any I/O.
	CodeInvalidRequest ErrorCode = "invalid_request"
)

// Error is the structured failure every public operation returns. It pairs
// a semantic code with a human-readable message, the originating service
// when known, and a metadata map of request/response context.
//
// An Error is never rebuilt as it propagates; layers with more context merge
// metadata in via MergeMetadata instead of replacing it.
type Error struct {
	Code     ErrorCode
	Message  string
	Service  Service
	Metadata map[string]any
}

// NewError builds an Error. An empty message defaults to a humanized
// rendering of the code, e.g. "not_found" becomes "Not Found".
func NewError(code ErrorCode, message string) *Error {
	if message == "" {
		message = Humanize(string(code))
	}
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: make(map[string]any),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %s (service=%s)", e.Code, e.Message, e.Service)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MergeMetadata folds additional context into the error's metadata. Keys
// already present win: the creation site is always more specific than the
// layers an error later travels through.
func (e *Error) MergeMetadata(md map[string]any) *Error {
	if e.Metadata == nil {
		e.Metadata = make(map[string]any, len(md))
	}
	for k, v := range md {
		if _, ok := e.Metadata[k]; !ok {
			e.Metadata[k] = v
		}
	}
	return e
}

// Humanize renders a code-like identifier for humans: word separators become
// spaces and each word is title-cased. "resource_already_exists" becomes
// "Resource Already Exists".
func Humanize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// StatusToCode maps an HTTP status to its semantic code. The mapping is
// total: statuses outside the table map to CodeUnexpected.
func StatusToCode(status int) ErrorCode {
	switch status {
	case 400:
		return CodeBadRequest
	case 401:
		return CodeUnauthorized
	case 403:
		return CodeForbidden
	case 404:
		return CodeNotFound
	case 405:
		return CodeMethodNotAllowed
	case 409:
		return CodeResourceAlreadyExists
	case 411:
		return CodeMissingContentLength
	case 413:
		return CodeContentTooLarge
	case 416:
		return CodeInvalidRange
	case 422:
		return CodeUnprocessableEntity
	case 423:
		return CodeResourceLocked
	case 429:
		return CodeTooManyRequests
	case 500:
		return CodeServerError
	case 501:
		return CodeNotImplemented
	case 503:
		return CodeServiceUnavailable
	case 504:
		return CodeGatewayTimeout
	default:
		return CodeUnexpected
	}
}
