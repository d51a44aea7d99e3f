package fetcher

import (
	"context"
	"fmt"
)

// Do performs one synchronous request: pre-flight validation, transport
// dispatch, unconditional body decoding, then the status check. Failures at
// any layer come back as a *fetcher.Error carrying the most specific code
// and the most complete metadata available.
func Do(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	resp, err := req.transport.Request(ctx, req)
	return finish(req, resp, err)
}

// DoAsync behaves exactly like Do from the caller's perspective but uses the
// transport's asynchronous-dispatch capability.
func DoAsync(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	at, ok := req.transport.(AsyncTransport)
	if !ok {
		return nil, notImplemented(req, "RequestAsync")
	}
	resp, err := at.RequestAsync(ctx, req)
	return finish(req, resp, err)
}

// Stream behaves like Do but allows the transport to stream the response
// body before buffering it.
func Stream(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	st, ok := req.transport.(StreamTransport)
	if !ok {
		return nil, notImplemented(req, "Stream")
	}
	resp, err := st.Stream(ctx, req)
	return finish(req, resp, err)
}

// StreamInto hands the partially received response to fn: status and headers
// exactly once, body chunks in order through the lazy stream. Whatever fn
// returns flows through the same decode and status-check pipeline as a
// buffered response. A nil fn degrades to Stream.
func StreamInto(ctx context.Context, req Request, fn StreamHandler) (*Response, error) {
	if fn == nil {
		return Stream(ctx, req)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	st, ok := req.transport.(StreamTransport)
	if !ok {
		return nil, notImplemented(req, "StreamInto")
	}
	resp, err := st.StreamInto(ctx, req, fn)
	return finish(req, resp, err)
}

// Upload sends the file at path through the transport's upload capability.
// Filesystem failures are converted into structured errors by the parser,
// never surfaced as faults.
func Upload(ctx context.Context, req Request, path string) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	ut, ok := req.transport.(UploadTransport)
	if !ok {
		return nil, notImplemented(req, "Upload")
	}
	resp, err := ut.Upload(ctx, req, path)
	return finish(req, resp, err)
}

// finish is the shared response-handling step all operations funnel through:
// decode unconditionally, check the status, and on any failure run the
// request's parser so lower-layer errors are enriched with request context
// rather than replaced.
func finish(req Request, resp *Response, err error) (*Response, error) {
	if err != nil {
		return nil, req.parser.Parse(err, &req)
	}

	decoded, derr := resp.DecodeBody(req.decoder, req.decoderOpts)
	if derr != nil {
		e := NewError(CodeDecodeError, fmt.Sprintf("failed to decode response body: %v", derr))
		e.Service = req.service
		e.Metadata["error"] = derr.Error()
		e.Metadata["status"] = resp.Status
		if raw, ok := resp.BodyBytes(); ok {
			e.Metadata["response_body"] = string(raw)
		}
		return nil, e.MergeMetadata(requestMetadata(&req))
	}

	if decoded.Status >= 400 {
		return nil, req.parser.Parse(decoded, &req)
	}
	return decoded, nil
}

func notImplemented(req Request, op string) *Error {
	e := NewError(CodeNonImplementedFunction,
		fmt.Sprintf("transport %T does not implement %s", req.transport, op))
	e.Service = req.service
	return e
}
