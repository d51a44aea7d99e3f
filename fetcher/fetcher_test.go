package fetcher

import (
	"context"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDo(t *testing.T) {
	t.Run("given a successful response, then the decoded body is returned", func(t *testing.T) {
		mock := NewMockTransport().Stub(200, `{"data":"ok"}`)
		c := newTestClient(t)

		resp, err := Do(context.Background(), New(c).WithAuthURL("/user").WithTransport(mock))

		require.NoError(t, err)
		assert.Equal(t, 200, resp.Status)
		assert.Equal(t, map[string]any{"data": "ok"}, resp.Body)
		assert.Equal(t, 1, mock.RequestCount())
	})

	t.Run("given an error status, then the decoded body feeds the parser", func(t *testing.T) {
		mock := NewMockTransport().Stub(500, `{"message":"boom"}`)
		c := newTestClient(t)

		resp, err := Do(context.Background(), New(c).WithDatabaseURL("/todos").WithTransport(mock))

		assert.Nil(t, resp)
		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, CodeServerError, fe.Code)
		assert.Equal(t, ServiceDatabase, fe.Service)
		assert.Equal(t, 500, fe.Metadata["status"])
		assert.Equal(t, map[string]any{"message": "boom"}, fe.Metadata["response_body"])
	})

	t.Run("given malformed JSON, then a decode_error carries the raw body", func(t *testing.T) {
		mock := NewMockTransport().Stub(200, `{"broken`)
		c := newTestClient(t)

		_, err := Do(context.Background(), New(c).WithAuthURL("/user").WithTransport(mock))

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, CodeDecodeError, fe.Code)
		assert.Equal(t, 200, fe.Metadata["status"])
		assert.Equal(t, `{"broken`, fe.Metadata["response_body"])
	})

	t.Run("given malformed JSON on an error status, then decoding still fails first", func(t *testing.T) {
		mock := NewMockTransport().Stub(500, `not json`)
		c := newTestClient(t)

		_, err := Do(context.Background(), New(c).WithAuthURL("/user").WithTransport(mock))

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, CodeDecodeError, fe.Code)
	})

	t.Run("given a transport failure, then the parser classifies it", func(t *testing.T) {
		mock := NewMockTransport().StubError(&net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED})
		c := newTestClient(t)

		_, err := Do(context.Background(), New(c).WithAuthURL("/user").WithTransport(mock))

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, CodeTransportError, fe.Code)
	})

	t.Run("given a poisoned builder, then no request reaches the transport", func(t *testing.T) {
		mock := NewMockTransport().Stub(200, `{}`)
		c := newTestClient(t)
		req := New(c).WithAuthURL("ht tp://bad").WithTransport(mock)

		_, err := Do(context.Background(), req)

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, CodeInvalidRequest, fe.Code)
		assert.Equal(t, 0, mock.RequestCount())
	})

	t.Run("given no service URL, then validation rejects the request", func(t *testing.T) {
		mock := NewMockTransport().Stub(200, `{}`)
		c := newTestClient(t)

		_, err := Do(context.Background(), New(c).WithTransport(mock))

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, CodeInvalidRequest, fe.Code)
	})
}

// requestOnlyTransport supports the base capability and nothing else.
type requestOnlyTransport struct{}

func (requestOnlyTransport) Request(context.Context, Request) (*Response, error) {
	return &Response{Status: 200, Body: []byte(`{}`)}, nil
}

func TestCapabilityDispatch(t *testing.T) {
	c := newTestClient(t)
	req := New(c).WithAuthURL("/user").WithTransport(requestOnlyTransport{})

	t.Run("given a request-only transport, then Do works", func(t *testing.T) {
		_, err := Do(context.Background(), req)
		require.NoError(t, err)
	})

	for name, call := range map[string]func() error{
		"DoAsync": func() error { _, err := DoAsync(context.Background(), req); return err },
		"Stream": func() error {
			_, err := StreamInto(context.Background(), req, func(int, Pairs, *ByteStream) (any, error) { return nil, nil })
			return err
		},
		"Upload": func() error { _, err := Upload(context.Background(), req, "/tmp/x"); return err },
	} {
		t.Run("given a request-only transport, then "+name+" reports non_implemented_function", func(t *testing.T) {
			err := call()
			var fe *Error
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, CodeNonImplementedFunction, fe.Code)
			assert.Contains(t, fe.Message, "does not implement")
			assert.Equal(t, ServiceAuth, fe.Service)
		})
	}
}

func TestDoAsync_MatchesDo(t *testing.T) {
	mock := NewMockTransport().Stub(200, `{"data":"ok"}`)
	c := newTestClient(t)
	req := New(c).WithAuthURL("/user").WithTransport(mock)

	sync, err := Do(context.Background(), req)
	require.NoError(t, err)
	async, err := DoAsync(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, sync.Status, async.Status)
	assert.Equal(t, sync.Body, async.Body)
}

func TestStream_DecodesCollectedBody(t *testing.T) {
	mock := NewMockTransport().StubChunks(200, Pairs{}, `{"da`, `ta":1}`)
	c := newTestClient(t)
	req := New(c).WithStorageURL("/object/x").WithTransport(mock)

	resp, err := Stream(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": float64(1)}, resp.Body)
}

func TestStreamInto_NilHandlerDegradesToStream(t *testing.T) {
	mock := NewMockTransport().StubChunks(200, Pairs{}, `{"x":true}`)
	c := newTestClient(t)
	req := New(c).WithStorageURL("/object/x").WithTransport(mock)

	resp, err := StreamInto(context.Background(), req, nil)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": true}, resp.Body)
}

func TestStreamInto_ErrorStatusStillParses(t *testing.T) {
	mock := NewMockTransport().StubChunks(404, Pairs{}, `{"message":"missing"}`)
	c := newTestClient(t)
	req := New(c).WithStorageURL("/object/x").WithTransport(mock)

	_, err := StreamInto(context.Background(), req, func(_ int, _ Pairs, body *ByteStream) (any, error) {
		return body.Collect()
	})

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, CodeNotFound, fe.Code)
}
