// Package fetcher is the request/response pipeline behind the citadel-go
// SDK: an immutable chainable request builder, a pluggable transport
// capability, pluggable body decoding and error parsing, and streaming and
// upload support with partial response consumption.
//
// # Features
//
//   - Immutable Request builder with value semantics, safe to reuse as a
//     template across goroutines
//   - Service URL resolution for auth, functions, storage, realtime, and
//     database
//   - Pluggable Transport capability with async, streaming, and upload
//     operations over a caller-owned connection pool
//   - Unconditional JSON body decoding with per-request decoder override
//   - Structured errors with semantic codes, status-table mapping, and
//     authorization redaction built into metadata creation
//   - Optional OpenTelemetry instrumentation and zerolog debug logging
//   - MockTransport for tests, including chunked streaming stubs
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
//	    WithQueryParam("select", "*")
//
//	resp, err := fetcher.Do(ctx, req)
//	if err != nil {
//	    var fe *fetcher.Error
//	    if errors.As(err, &fe) && fe.Code == fetcher.CodeUnauthorized {
//	        // rotate token and retry at the call site
//	    }
//	    return err
//	}
//	todos := resp.Body // decoded JSON value tree
//
// # Writing
//
//	resp, err := fetcher.Do(ctx, fetcher.New(c).
//	    WithDatabaseURL("/todos").
//	    WithMethod(fetcher.MethodPost).
//	    WithBody(map[string]any{"title": "ship it"}))
//
// Structured bodies are JSON-encoded eagerly at the WithBody step, so an
// unencodable value fails before any I/O.
//
// # Streaming
//
// Stream buffers the whole body; StreamInto hands status, headers, and a
// lazy chunk sequence to a handler, which may stop early:
//
//	resp, err := fetcher.StreamInto(ctx, req,
//	    func(status int, headers fetcher.Pairs, body *fetcher.ByteStream) (any, error) {
//	        first, err := body.Next()
//	        if err != nil {
//	            return nil, err
//	        }
//	        return first, nil // remaining chunks are never read
//	    })
//
// The producing goroutine is released when the handler returns, even when
// the stream was abandoned mid-body.
//
// # Uploads
//
//	resp, err := fetcher.Upload(ctx,
//	    fetcher.New(c).WithStorageURL("/object/avatars/me.png").WithMethod(fetcher.MethodPost),
//	    "/tmp/me.png")
//
// Content type comes from the file extension, content length from its size,
// and a missing file surfaces as a structured error, not a fault.
//
// # Errors
//
// Every operation returns (*Response, error) where the error is always a
// *fetcher.Error: a semantic code, a humanized message, the originating
// service, and metadata with the authorization header redacted at creation
// time. Register a custom parser per request with WithErrorParser.
package fetcher
