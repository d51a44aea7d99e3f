package fetcher

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"strings"
	"syscall"
)

// ErrorParser maps a failure source into a structured Error. The source is
// dispatched on its shape: a response with an error status, a filesystem
// failure, a transport failure, or an opaque value.
//
// A custom parser registered with WithErrorParser fully replaces the default
// dispatch for that request.
type ErrorParser interface {
	Parse(source any, req *Request) *Error
}

// ErrorParserFunc adapts a function to the ErrorParser interface.
type ErrorParserFunc func(source any, req *Request) *Error

// Parse implements ErrorParser.
func (f ErrorParserFunc) Parse(source any, req *Request) *Error {
	return f(source, req)
}

// DefaultParser is the dispatch used unless a request registers its own
// parser:
//
//   - *Response with status >= 400: status mapped through StatusToCode,
//     metadata carrying path, request body, response status and body, and
//     the request headers with authorization redacted.
//   - *UploadError: code derived from the filesystem failure reason.
//   - *Error: passed through, enriched with request context metadata.
//   - net.Error and url.Error: transport_error or http_error by failure
//     class.
//   - anything else: unexpected, with the raw value kept for diagnostics.
var DefaultParser ErrorParser = ErrorParserFunc(parseDefault)

func parseDefault(source any, req *Request) *Error {
	switch src := source.(type) {
	case *Response:
		return parseResponse(src, req)
	case *UploadError:
		return parseUploadError(src, req)
	case *Error:
		if req != nil && src.Service == "" {
			src.Service = req.service
		}
		return src.MergeMetadata(requestMetadata(req))
	case error:
		return parseTransportError(src, req)
	default:
		e := NewError(CodeUnexpected, "")
		e.Metadata["raw"] = fmt.Sprintf("%v", src)
		if req != nil {
			e.Service = req.service
		}
		return e.MergeMetadata(requestMetadata(req))
	}
}

func parseResponse(resp *Response, req *Request) *Error {
	e := NewError(StatusToCode(resp.Status), "")
	e.Metadata["status"] = resp.Status
	e.Metadata["response_body"] = resp.Body
	if req != nil {
		e.Service = req.service
	}
	return e.MergeMetadata(requestMetadata(req))
}

func parseTransportError(err error, req *Request) *Error {
	var e *Error

	// url.Error satisfies net.Error itself, so classify on what it wraps.
	var urlErr *url.Error
	switch {
	case errors.As(err, &urlErr):
		if urlErr.Timeout() || isNetError(urlErr.Err) || isConnError(urlErr.Err) {
			e = NewError(CodeTransportError, err.Error())
		} else {
			e = NewError(CodeHTTPError, err.Error())
		}
	case isNetError(err) || isConnError(err):
		e = NewError(CodeTransportError, err.Error())
	default:
		e = NewError(CodeUnexpected, "")
		e.Metadata["raw"] = err.Error()
	}

	if req != nil {
		e.Service = req.service
	}
	return e.MergeMetadata(requestMetadata(req))
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

func parseUploadError(src *UploadError, req *Request) *Error {
	code := fsCode(src.Err)
	e := NewError(code, fmt.Sprintf("%s: %s", Humanize(string(code)), src.Error()))
	e.Metadata["path"] = src.Path
	if req != nil {
		e.Service = req.service
	}
	return e.MergeMetadata(requestMetadata(req))
}

// fsCode derives an ErrorCode from the OS-level failure reason, keeping the
// POSIX errno vocabulary callers match on.
func fsCode(err error) ErrorCode {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOENT:
			return "enoent"
		case syscall.EACCES:
			return "eacces"
		case syscall.EISDIR:
			return "eisdir"
		case syscall.EMFILE:
			return "emfile"
		case syscall.ENOSPC:
			return "enospc"
		}
	}
	// Portable fallbacks when the errno is not surfaced.
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "enoent"
	case errors.Is(err, fs.ErrPermission):
		return "eacces"
	}
	return CodeUnexpected
}

func isConnError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// requestMetadata captures the request context merged into every parsed
// error: the target path with the service base URL stripped, the request
// body, and the request headers with authorization removed. Redaction
// happens here, at metadata-creation time, so the resulting error is safe to
// log as-is.
func requestMetadata(req *Request) map[string]any {
	if req == nil {
		return nil
	}
	return map[string]any{
		"path":            strippedPath(req),
		"request_body":    req.body.metadataValue(),
		"request_headers": redactedHeaders(req.headers),
	}
}

func strippedPath(req *Request) string {
	if req.baseURL != "" {
		return strings.TrimPrefix(req.url, req.baseURL)
	}
	return req.url
}

func redactedHeaders(headers Pairs) map[string]string {
	out := make(map[string]string, len(headers))
	for _, p := range headers {
		if p.Value == nil || strings.EqualFold(p.Name, "authorization") {
			continue
		}
		if _, ok := out[p.Name]; !ok {
			out[p.Name] = *p.Value
		}
	}
	return out
}

// UploadError reports a local filesystem failure during Upload. It travels
// the normal error channel and is dispatched by the parser, never raised as
// a panic.
type UploadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return fmt.Sprintf("upload of %q failed: %v", e.Path, e.Err)
}

// Unwrap returns the underlying filesystem error.
func (e *UploadError) Unwrap() error {
	return e.Err
}
