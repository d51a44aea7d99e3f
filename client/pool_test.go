package client

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfigPresets(t *testing.T) {
	tests := []struct {
		name                string
		cfg                 PoolConfig
		timeout             time.Duration
		maxIdleConnsPerHost int
	}{
		{"default", DefaultPoolConfig(), 15 * time.Second, 20},
		{"high throughput", HighThroughputPoolConfig(), 30 * time.Second, 50},
		{"low latency", LowLatencyPoolConfig(), 5 * time.Second, 20},
		{"conservative", ConservativePoolConfig(), 30 * time.Second, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.timeout, tt.cfg.Timeout)
			assert.Equal(t, tt.maxIdleConnsPerHost, tt.cfg.MaxIdleConnsPerHost)
			assert.Positive(t, tt.cfg.DialTimeout)
			assert.Positive(t, tt.cfg.IdleConnTimeout)
		})
	}
}

func TestPoolConfig_BuildHTTPClient(t *testing.T) {
	cfg := DefaultPoolConfig()
	cfg.MaxIdleConnsPerHost = 7

	hc := cfg.buildHTTPClient()

	assert.Equal(t, cfg.Timeout, hc.Timeout)
	transport, ok := hc.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 7, transport.MaxIdleConnsPerHost)
	assert.True(t, transport.ForceAttemptHTTP2)
}

func TestWithPoolConfig(t *testing.T) {
	c, err := New("https://project.citadel.co", "test-api-key",
		WithPoolConfig(LowLatencyPoolConfig()))

	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, c.HTTP().Timeout)
}
