package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Default service path suffixes, joined onto the platform base URL when a
// per-service URL is not configured explicitly.
const (
	authPath      = "/auth/v1"
	functionsPath = "/functions/v1"
	storagePath   = "/storage/v1"
	realtimePath  = "/realtime/v1"
	databasePath  = "/rest/v1"
)

// Client is the immutable configuration for one citadel project.
//
// The exported fields are read-only after construction. Every mutation goes
// through a copy: WithToken for one-off clients, or ManagedClient for
// configurations shared across goroutines.
type Client struct {
	// BaseURL is the platform base URL, e.g. "https://project.citadel.co".
	BaseURL string

	// APIKey is the project API key, sent as the "apikey" global header.
	APIKey string

	// AccessToken is the bearer token used to seed the authorization
	// header of every request. Defaults to APIKey until a user session
	// token replaces it.
	AccessToken string

	// Per-service base URLs, derived from BaseURL unless overridden.
	AuthURL      string
	FunctionsURL string
	StorageURL   string
	RealtimeURL  string
	DatabaseURL  string

	// Headers are the global headers copied onto every request.
	Headers map[string]string

	httpClient *http.Client
}

// New validates the configuration and returns an immutable Client.
//
// Configuration errors fail here, before anything reaches the network:
// an empty or non-absolute base URL and an empty API key are both rejected.
//
// Example:
//
//	c, err := client.New("https://project.citadel.co", apiKey,
//	    client.WithHeaders(map[string]string{"x-tenant": "acme"}),
//	)
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: base URL %q must be absolute", baseURL)
	}
	if apiKey == "" {
		return nil, errors.New("client: API key is required")
	}

	base := strings.TrimSuffix(baseURL, "/")

	c := &Client{
		BaseURL:      base,
		APIKey:       apiKey,
		AccessToken:  apiKey,
		AuthURL:      base + authPath,
		FunctionsURL: base + functionsPath,
		StorageURL:   base + storagePath,
		RealtimeURL:  base + realtimePath,
		DatabaseURL:  base + databasePath,
		Headers:      map[string]string{"apikey": apiKey},
	}

	cfg := options{pool: DefaultPoolConfig()}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.apply(c)

	if c.httpClient == nil {
		c.httpClient = cfg.pool.buildHTTPClient()
	}

	return c, nil
}

// HTTP returns the connection pool this client owns. The pool is shared by
// every request built from this client and is safe for concurrent use.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// WithToken returns a copy of the client with a rotated access token.
// The receiver is left untouched.
func (c *Client) WithToken(accessToken string) *Client {
	out := *c
	out.AccessToken = accessToken
	out.Headers = make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		out.Headers[k] = v
	}
	return &out
}
