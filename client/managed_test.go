package client

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagedClient_Rotate(t *testing.T) {
	base, err := New("https://project.citadel.co", "test-api-key")
	require.NoError(t, err)
	m := NewManaged(base)

	before := m.Snapshot()
	after := m.Rotate("session-jwt")

	assert.Equal(t, "test-api-key", before.AccessToken, "earlier snapshots keep their token")
	assert.Equal(t, "session-jwt", after.AccessToken)
	assert.Same(t, after, m.Snapshot())
}

func TestManagedClient_Update(t *testing.T) {
	base, err := New("https://project.citadel.co", "test-api-key")
	require.NoError(t, err)
	m := NewManaged(base)

	got := m.Update(func(c *Client) *Client {
		out := c.WithToken("jwt")
		out.Headers["x-region"] = "eu-west-1"
		return out
	})

	assert.Equal(t, "eu-west-1", got.Headers["x-region"])
	_, leaked := base.Headers["x-region"]
	assert.False(t, leaked)
}

func TestManagedClient_ConcurrentRotation(t *testing.T) {
	base, err := New("https://project.citadel.co", "test-api-key")
	require.NoError(t, err)
	m := NewManaged(base)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			m.Rotate(fmt.Sprintf("token-%d", i))
		}(i)
		go func() {
			defer wg.Done()
			c := m.Snapshot()
			assert.NotEmpty(t, c.AccessToken)
			assert.Equal(t, "test-api-key", c.APIKey)
		}()
	}
	wg.Wait()

	assert.Contains(t, m.Snapshot().AccessToken, "token-")
}
