// Package client holds the configuration value shared by every request made
// through the citadel-go SDK.
//
// A Client is immutable once constructed. It carries the platform base URL,
// the API key, the current access token, the resolved per-service base URLs
// (auth, functions, storage, realtime, database), the global headers applied
// to every request, and the caller-owned HTTP connection pool.
//
// # Quick Start
//
//	c, err := client.New("https://project.citadel.co", apiKey)
//	if err != nil {
//	    return err
//	}
//
//	req := fetcher.New(c).
//	    WithDatabaseURL("/todos").
//	    WithMethod(fetcher.MethodGet)
//
//	resp, err := fetcher.Do(ctx, req)
//
// # Token Rotation
//
// Rotation never mutates a Client in place. For one-off clients use
// WithToken, which returns a fresh value:
//
//	c2 := c.WithToken(newAccessToken)
//
// Long-lived consumers that share one configuration across goroutines should
// hold it behind a ManagedClient, which serializes writes and hands out
// consistent snapshots:
//
//	mc := client.NewManaged(c)
//	mc.Rotate(newAccessToken)
//	req := fetcher.New(mc.Snapshot())
//
// # Connection Pooling
//
// The pool is explicit, never process-global. New builds one from PoolConfig
// (DefaultPoolConfig unless overridden), or the caller injects their own
// http.Client with WithHTTPClient and owns its lifecycle.
package client
