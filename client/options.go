package client

import "net/http"

// options collects constructor overrides before they are applied to the
// validated Client.
type options struct {
	accessToken  string
	headers      map[string]string
	authURL      string
	functionsURL string
	storageURL   string
	realtimeURL  string
	databaseURL  string
	httpClient   *http.Client
	pool         PoolConfig
}

// Option configures a Client during New.
type Option func(*options)

// WithAccessToken sets the initial bearer access token. Without it the API
// key doubles as the access token.
func WithAccessToken(token string) Option {
	return func(o *options) { o.accessToken = token }
}

// WithHeaders sets global headers merged into every request built from this
// client. They are applied on top of the default "apikey" header.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) { o.headers = headers }
}

// WithAuthURL overrides the auth service base URL.
func WithAuthURL(u string) Option {
	return func(o *options) { o.authURL = u }
}

// WithFunctionsURL overrides the functions service base URL.
func WithFunctionsURL(u string) Option {
	return func(o *options) { o.functionsURL = u }
}

// WithStorageURL overrides the storage service base URL.
func WithStorageURL(u string) Option {
	return func(o *options) { o.storageURL = u }
}

// WithRealtimeURL overrides the realtime service base URL.
func WithRealtimeURL(u string) Option {
	return func(o *options) { o.realtimeURL = u }
}

// WithDatabaseURL overrides the database service base URL.
func WithDatabaseURL(u string) Option {
	return func(o *options) { o.databaseURL = u }
}

// WithHTTPClient injects a caller-owned http.Client as the connection pool.
// The caller keeps ownership of its lifecycle; WithPoolConfig is ignored
// when this option is present.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithPoolConfig sets the configuration used to build the client's
// connection pool.
func WithPoolConfig(cfg PoolConfig) Option {
	return func(o *options) { o.pool = cfg }
}

// apply copies the collected overrides onto the client.
func (o *options) apply(c *Client) {
	if o.accessToken != "" {
		c.AccessToken = o.accessToken
	}
	for k, v := range o.headers {
		c.Headers[k] = v
	}
	if o.authURL != "" {
		c.AuthURL = o.authURL
	}
	if o.functionsURL != "" {
		c.FunctionsURL = o.functionsURL
	}
	if o.storageURL != "" {
		c.StorageURL = o.storageURL
	}
	if o.realtimeURL != "" {
		c.RealtimeURL = o.realtimeURL
	}
	if o.databaseURL != "" {
		c.DatabaseURL = o.databaseURL
	}
	if o.httpClient != nil {
		c.httpClient = o.httpClient
	}
}
