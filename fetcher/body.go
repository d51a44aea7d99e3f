package fetcher

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// StreamBody is a deferred streaming payload. Open is called at send time
// and must return a fresh reader over the content; the transport closes it
// after the request is written.
type StreamBody struct {
	Open func() (io.ReadCloser, error)
}

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyBytes
	bodyStream
)

// requestBody is the tagged union behind Request.WithBody: absent, encoded
// bytes, or a deferred stream.
type requestBody struct {
	kind   bodyKind
	raw    []byte
	stream *StreamBody
}

// encodeBody converts a caller-supplied value into a requestBody.
// Structured values are JSON-encoded eagerly, so an encoding failure
// surfaces at the builder step that introduced it rather than at send time.
func encodeBody(v any) (requestBody, error) {
	switch b := v.(type) {
	case nil:
		return requestBody{kind: bodyNone}, nil
	case []byte:
		return requestBody{kind: bodyBytes, raw: b}, nil
	case string:
		return requestBody{kind: bodyBytes, raw: []byte(b)}, nil
	case *StreamBody:
		if b == nil || b.Open == nil {
			return requestBody{}, fmt.Errorf("stream body requires an Open function")
		}
		return requestBody{kind: bodyStream, stream: b}, nil
	case StreamBody:
		return encodeBody(&b)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return requestBody{}, fmt.Errorf("encode request body: %w", err)
		}
		return requestBody{kind: bodyBytes, raw: raw}, nil
	}
}

// metadataValue renders the body for error metadata: decoded bytes as a
// string, streams as a placeholder, absent bodies as nil.
func (b requestBody) metadataValue() any {
	switch b.kind {
	case bodyBytes:
		return string(b.raw)
	case bodyStream:
		return "<stream>"
	default:
		return nil
	}
}
