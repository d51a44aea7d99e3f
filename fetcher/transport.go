package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Transport is the pluggable backend that performs network I/O for a
// Request. Every backend supports the synchronous Request operation; the
// async, streaming, and upload operations are optional capabilities
// discovered by interface assertion. A backend lacking a capability is a
// configuration error surfaced as a non_implemented_function Error by the
// orchestration layer, never a panic.
//
// Implementations must be safe for concurrent use by independent requests.
type Transport interface {
	// Request performs one synchronous call and returns the normalized
	// response, or the backend's native failure for the parser to
	// classify.
	Request(ctx context.Context, req Request) (*Response, error)
}

// AsyncTransport is the optional asynchronous-dispatch capability.
type AsyncTransport interface {
	// RequestAsync performs the call on a separate goroutine, reassembling
	// chunked delivery into one buffered response. Indistinguishable from
	// Request from the caller's perspective.
	RequestAsync(ctx context.Context, req Request) (*Response, error)
}

// StreamHandler consumes a partially received response: status and headers
// exactly once, then body chunks on demand through the lazy stream. It
// returns a replacement body (which may be nil) or an error; a *Error passes
// through the pipeline intact, anything else is classified as unexpected.
type StreamHandler func(status int, headers Pairs, body *ByteStream) (any, error)

// StreamTransport is the optional streaming capability.
type StreamTransport interface {
	// Stream fully consumes a streamed response into one buffered
	// Response.
	Stream(ctx context.Context, req Request) (*Response, error)

	// StreamInto obtains status and headers, then hands control to the
	// handler together with the lazy body. The producing goroutine is
	// released when the handler returns or abandons the stream early.
	StreamInto(ctx context.Context, req Request, fn StreamHandler) (*Response, error)
}

// UploadTransport is the optional file-upload capability.
type UploadTransport interface {
	// Upload sends the file at path as the request body, deriving
	// content-type from the file name and content-length from its size.
	// Filesystem failures are returned as *UploadError values.
	Upload(ctx context.Context, req Request, path string) (*Response, error)
}

const (
	defaultAsyncErrorWait = 300 * time.Millisecond
	defaultChunkSize      = 8 * 1024
)

// HTTPTransport is the default Transport, backed by a caller-owned pooled
// http.Client. It implements all four capabilities.
type HTTPTransport struct {
	hc             *http.Client
	logger         zerolog.Logger
	debug          bool
	asyncErrorWait time.Duration
	chunkSize      int
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithDebug enables request/response debug logging.
func WithDebug(enabled bool) TransportOption {
	return func(t *HTTPTransport) { t.debug = enabled }
}

// WithLogger replaces the logger used for debug output.
func WithLogger(logger zerolog.Logger) TransportOption {
	return func(t *HTTPTransport) { t.logger = logger }
}

// WithAsyncErrorWait tunes the short window RequestAsync waits for an early
// failure signal before assuming the dial succeeded. The 300ms default is a
// heuristic, not a correctness guarantee.
func WithAsyncErrorWait(d time.Duration) TransportOption {
	return func(t *HTTPTransport) { t.asyncErrorWait = d }
}

// WithChunkSize sets the read size for streamed body chunks.
func WithChunkSize(n int) TransportOption {
	return func(t *HTTPTransport) {
		if n > 0 {
			t.chunkSize = n
		}
	}
}

// NewHTTPTransport wraps a pooled http.Client. A nil client falls back to a
// zero-value http.Client; injecting the pool explicitly is preferred so its
// lifecycle stays with the caller.
func NewHTTPTransport(hc *http.Client, opts ...TransportOption) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{}
	}
	t := &HTTPTransport{
		hc:             hc,
		logger:         debugLogger,
		asyncErrorWait: defaultAsyncErrorWait,
		chunkSize:      defaultChunkSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Request implements Transport.
func (t *HTTPTransport) Request(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	if t.debug {
		logRequest(t.logger, httpReq)
	}

	resp, err := t.hc.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if t.debug {
		logResponse(t.logger, httpReq, resp.StatusCode, len(raw), time.Since(start))
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: normalizeHeaders(resp.Header),
		Body:    raw,
	}, nil
}

// buildHTTPRequest converts a Request value into a native http.Request,
// opening deferred stream bodies and stamping the SDK identification
// headers when the caller has not set them.
func buildHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	var body io.Reader
	switch req.body.kind {
	case bodyBytes:
		body = bytes.NewReader(req.body.raw)
	case bodyStream:
		rc, err := req.body.stream.Open()
		if err != nil {
			return nil, err
		}
		body = rc
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(req.method), req.url, body)
	if err != nil {
		return nil, err
	}

	for _, p := range req.headers {
		if p.Value != nil {
			httpReq.Header.Set(p.Name, *p.Value)
		}
	}
	if len(req.query) > 0 {
		q := httpReq.URL.Query()
		for _, p := range req.query {
			if p.Value != nil {
				q.Set(p.Name, *p.Value)
			}
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	// Go ignores a user-set Content-Length header unless the request field
	// is populated; honor the one Upload attaches for stream bodies.
	if req.body.kind == bodyStream {
		if cl := req.headers.Get("content-length", ""); cl != "" {
			if n, perr := strconv.ParseInt(cl, 10, 64); perr == nil {
				httpReq.ContentLength = n
			}
		}
	}

	if httpReq.Header.Get("x-request-id") == "" {
		httpReq.Header.Set("x-request-id", uuid.NewString())
	}
	if httpReq.Header.Get("x-client-info") == "" {
		httpReq.Header.Set("x-client-info", clientInfo)
	}

	return httpReq, nil
}
