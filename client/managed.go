package client

import "sync"

// ManagedClient holds a Client value behind a single-writer lock so that a
// long-lived consumer can share one configuration across goroutines.
//
// Reads return the current immutable value; writes replace it wholesale.
// At most one mutation runs at a time, and a snapshot taken before a
// rotation stays valid for requests already in flight.
type ManagedClient struct {
	mu      sync.RWMutex
	current *Client
}

// NewManaged wraps an existing Client value.
func NewManaged(c *Client) *ManagedClient {
	return &ManagedClient{current: c}
}

// Snapshot returns the current configuration value. The returned Client is
// immutable; callers never observe a half-applied rotation.
func (m *ManagedClient) Snapshot() *Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Rotate replaces the access token and returns the new configuration value.
func (m *ManagedClient) Rotate(accessToken string) *Client {
	return m.Update(func(c *Client) *Client {
		return c.WithToken(accessToken)
	})
}

// Update applies fn to the current value and installs its result. fn must
// return a new value rather than mutating its argument.
func (m *ManagedClient) Update(fn func(*Client) *Client) *Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = fn(m.current)
	return m.current
}
