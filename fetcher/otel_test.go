package fetcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The global otel providers default to no-ops, so these tests only assert
// that the decorator is transparent to the pipeline.
func TestOtelTransport_Passthrough(t *testing.T) {
	mock := NewMockTransport().Stub(200, `{"data":"ok"}`)
	c := newTestClient(t)
	req := New(c).WithAuthURL("/user").WithTransport(NewOtelTransport(mock))

	resp, err := Do(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"data": "ok"}, resp.Body)
	assert.Equal(t, 1, mock.RequestCount())
}

func TestOtelTransport_CapabilityFollowsWrapped(t *testing.T) {
	req := New(newTestClient(t)).
		WithAuthURL("/user").
		WithTransport(NewOtelTransport(requestOnlyTransport{}))

	_, err := Do(context.Background(), req)
	require.NoError(t, err)

	_, err = DoAsync(context.Background(), req)
	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, CodeNonImplementedFunction, fe.Code)

	_, err = Upload(context.Background(), req, "/tmp/x")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, CodeNonImplementedFunction, fe.Code)
}

func TestOtelTransport_ErrorPassthrough(t *testing.T) {
	mock := NewMockTransport().Stub(404, `{"message":"missing"}`)
	req := New(newTestClient(t)).
		WithStorageURL("/object/x").
		WithTransport(NewOtelTransport(mock))

	_, err := Do(context.Background(), req)

	var fe *Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, CodeNotFound, fe.Code)
}
