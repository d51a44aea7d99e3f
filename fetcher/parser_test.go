package fetcher

import (
	"context"
	"errors"
	"io/fs"
	"net"
	"net/url"
	"sync"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParser_Response(t *testing.T) {
	req := New(newTestClient(t)).
		WithStorageURL("/object/avatars/me.png").
		WithMethod(MethodPost).
		WithBody([]byte(`payload`))
	resp := &Response{Status: 404, Body: map[string]any{"message": "no such object"}}

	e := DefaultParser.Parse(resp, &req)

	require.NotNil(t, e)
	assert.Equal(t, CodeNotFound, e.Code)
	assert.Equal(t, "Not Found", e.Message)
	assert.Equal(t, ServiceStorage, e.Service)
	assert.Equal(t, 404, e.Metadata["status"])
	assert.Equal(t, resp.Body, e.Metadata["response_body"])
	assert.Equal(t, "/object/avatars/me.png", e.Metadata["path"],
		"service base URL prefix stripped")
	assert.Equal(t, "payload", e.Metadata["request_body"])
}

func TestDefaultParser_RedactsAuthorization(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "given lowercase authorization", header: "authorization"},
		{name: "given canonical Authorization", header: "Authorization"},
		{name: "given shouting AUTHORIZATION", header: "AUTHORIZATION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := New(newTestClient(t)).
				WithDatabaseURL("/todos").
				WithHeaders(Pairs{RemovePair("authorization")}).
				WithHeaders(Pairs{NewPair(tt.header, "Bearer secret")})

			require.Equal(t, "Bearer secret", req.GetHeader(tt.header, ""))

			e := DefaultParser.Parse(&Response{Status: 500}, &req)

			headers, ok := e.Metadata["request_headers"].(map[string]string)
			require.True(t, ok)
			for name := range headers {
				assert.NotEqual(t, "authorization", name)
				assert.NotEqual(t, tt.header, name)
			}
			assert.Contains(t, headers, "apikey", "non-sensitive headers survive")
		})
	}
}

func TestDefaultParser_TransportFailures(t *testing.T) {
	tests := []struct {
		name     string
		source   any
		wantCode ErrorCode
	}{
		{
			name:     "given net timeout, then transport_error",
			source:   &timeoutError{},
			wantCode: CodeTransportError,
		},
		{
			name:     "given connection refused, then transport_error",
			source:   &url.Error{Op: "Get", URL: "http://x", Err: syscall.ECONNREFUSED},
			wantCode: CodeTransportError,
		},
		{
			name:     "given protocol-level url error, then http_error",
			source:   &url.Error{Op: "Get", URL: "http://x", Err: errors.New("malformed HTTP response")},
			wantCode: CodeHTTPError,
		},
		{
			name:     "given plain error, then unexpected",
			source:   errors.New("something odd"),
			wantCode: CodeUnexpected,
		},
		{
			name:     "given opaque non-error value, then unexpected",
			source:   42,
			wantCode: CodeUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := New(newTestClient(t)).WithDatabaseURL("/todos")

			e := DefaultParser.Parse(tt.source, &req)

			require.NotNil(t, e)
			assert.Equal(t, tt.wantCode, e.Code)
			assert.Equal(t, ServiceDatabase, e.Service)
			assert.Contains(t, e.Metadata, "path")
		})
	}
}

func TestDefaultParser_OpaqueKeepsRaw(t *testing.T) {
	e := DefaultParser.Parse(errors.New("something odd"), nil)

	assert.Equal(t, CodeUnexpected, e.Code)
	assert.Equal(t, "something odd", e.Metadata["raw"])
}

func TestDefaultParser_UploadError(t *testing.T) {
	req := New(newTestClient(t)).WithStorageURL("/object/x")
	src := &UploadError{Path: "/tmp/missing.png", Err: fs.ErrNotExist}

	e := DefaultParser.Parse(src, &req)

	assert.Equal(t, ErrorCode("enoent"), e.Code)
	assert.Contains(t, e.Message, "upload")
	assert.Equal(t, "/tmp/missing.png", e.Metadata["path"])
	assert.Equal(t, ServiceStorage, e.Service)
}

func TestDefaultParser_EnrichesStructuredError(t *testing.T) {
	req := New(newTestClient(t)).WithAuthURL("/token")

	inner := NewError(CodeTooManyRequests, "slow down")
	inner.Metadata["retry_after"] = "1s"

	e := DefaultParser.Parse(inner, &req)

	assert.Same(t, inner, e, "structured errors pass through, not rebuilt")
	assert.Equal(t, CodeTooManyRequests, e.Code)
	assert.Equal(t, ServiceAuth, e.Service)
	assert.Equal(t, "1s", e.Metadata["retry_after"], "original metadata kept")
	assert.Equal(t, "/token", e.Metadata["path"], "request context merged in")
}

func TestFsCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "given ENOENT errno", err: syscall.ENOENT, want: "enoent"},
		{name: "given EACCES errno", err: syscall.EACCES, want: "eacces"},
		{name: "given fs.ErrNotExist", err: fs.ErrNotExist, want: "enoent"},
		{name: "given fs.ErrPermission", err: fs.ErrPermission, want: "eacces"},
		{name: "given unknown error", err: errors.New("odd"), want: CodeUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fsCode(tt.err))
		})
	}
}

// timeoutError satisfies net.Error for classification tests.
type timeoutError struct{}

func (*timeoutError) Error() string   { return "dial tcp: i/o timeout" }
func (*timeoutError) Timeout() bool   { return true }
func (*timeoutError) Temporary() bool { return true }

var _ net.Error = (*timeoutError)(nil)

func TestDefaultParser_CustomParserReplacesDefault(t *testing.T) {
	calls := atomicCounter{}
	custom := ErrorParserFunc(func(source any, req *Request) *Error {
		calls.inc()
		return NewError("custom_code", "handled upstream")
	})

	mock := NewMockTransport().Stub(500, `{}`)
	req := New(newTestClient(t)).
		WithDatabaseURL("/todos").
		WithTransport(mock).
		WithErrorParser(custom)

	_, err := Do(context.Background(), req)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrorCode("custom_code"), fe.Code)
	assert.Equal(t, 1, calls.get())
}

type atomicCounter struct {
	mu sync.Mutex
	n  int
}

func (c *atomicCounter) inc() { c.mu.Lock(); c.n++; c.mu.Unlock() }
func (c *atomicCounter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
