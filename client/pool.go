package client

import (
	"net"
	"net/http"
	"time"
)

// PoolConfig holds the settings for the HTTP connection pool a Client owns.
// Use DefaultPoolConfig() to get a properly initialized configuration, then
// modify specific fields as needed.
//
// Example:
//
//	cfg := client.DefaultPoolConfig()
//	cfg.Timeout = 5 * time.Second
//	cfg.MaxIdleConnsPerHost = 25
//
//	c, err := client.New(baseURL, apiKey, client.WithPoolConfig(cfg))
type PoolConfig struct {
	// Timeout limits the entire request lifecycle: connection, TLS
	// handshake, sending the request, and reading the response body.
	// Zero means no timeout.
	//
	// Default: 15s
	Timeout time.Duration

	// DialTimeout limits establishing a new TCP connection.
	//
	// Default: 5s
	DialTimeout time.Duration

	// KeepAlive is the keep-alive probe interval for established
	// connections.
	//
	// Default: 30s
	KeepAlive time.Duration

	// TLSHandshakeTimeout limits the TLS handshake.
	//
	// Default: 5s
	TLSHandshakeTimeout time.Duration

	// MaxIdleConns caps idle (keep-alive) connections across all hosts.
	//
	// Default: 100
	MaxIdleConns int

	// MaxIdleConnsPerHost caps idle connections per host. Since an SDK
	// client talks to a handful of service hosts behind one platform,
	// this is the setting that matters most.
	//
	// Default: 20
	MaxIdleConnsPerHost int

	// MaxConnsPerHost caps total connections per host, zero means
	// unlimited.
	//
	// Default: 0
	MaxConnsPerHost int

	// IdleConnTimeout is how long an idle connection is kept in the pool
	// before being closed.
	//
	// Default: 90s
	IdleConnTimeout time.Duration

	// ExpectContinueTimeout is the wait for a server's first response
	// headers after fully writing the request headers when the request
	// has an "Expect: 100-continue" header.
	//
	// Default: 1s
	ExpectContinueTimeout time.Duration
}

// DefaultPoolConfig returns balanced settings for general-purpose use.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Timeout:               15 * time.Second,
		DialTimeout:           5 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		MaxConnsPerHost:       0,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// HighThroughputPoolConfig returns settings tuned for high-concurrency
// workloads: a large pool and a generous timeout for bulk operations.
func HighThroughputPoolConfig() PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.Timeout = 30 * time.Second
	cfg.MaxIdleConns = 200
	cfg.MaxIdleConnsPerHost = 50
	return cfg
}

// LowLatencyPoolConfig returns settings tuned for latency-sensitive
// applications: short timeouts so failures surface fast.
func LowLatencyPoolConfig() PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.Timeout = 5 * time.Second
	cfg.DialTimeout = 2 * time.Second
	cfg.TLSHandshakeTimeout = 2 * time.Second
	return cfg
}

// ConservativePoolConfig returns resource-conscious settings for
// constrained environments.
func ConservativePoolConfig() PoolConfig {
	cfg := DefaultPoolConfig()
	cfg.Timeout = 30 * time.Second
	cfg.MaxIdleConns = 50
	cfg.MaxIdleConnsPerHost = 10
	cfg.IdleConnTimeout = 60 * time.Second
	return cfg
}

// buildHTTPClient constructs the pooled http.Client for this configuration.
func (cfg PoolConfig) buildHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.KeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		ExpectContinueTimeout: cfg.ExpectContinueTimeout,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
}
