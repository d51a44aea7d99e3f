package fetcher

import (
	json "github.com/goccy/go-json"
)

// DecodeOptions carries decoder-specific options attached to a request via
// WithBodyDecoder.
type DecodeOptions map[string]any

// BodyDecoder transforms a response body after receipt. Implementations
// receive the whole Response so they can consult headers, but must not
// mutate it; the decoded value is returned and installed by DecodeBody.
//
// A decoder may be a reusable component or an inline function via
// BodyDecoderFunc; a nil decoder on a request means "leave the body raw".
type BodyDecoder interface {
	Decode(resp *Response, opts DecodeOptions) (any, error)
}

// BodyDecoderFunc adapts a function to the BodyDecoder interface.
type BodyDecoderFunc func(resp *Response, opts DecodeOptions) (any, error)

// Decode implements BodyDecoder.
func (f BodyDecoderFunc) Decode(resp *Response, opts DecodeOptions) (any, error) {
	return f(resp, opts)
}

// JSONDecoder is the default decoder: it parses raw bytes as JSON into a
// generic value tree with string-keyed maps. An empty body decodes to nil,
// and a body that is no longer raw bytes passes through unchanged (it was
// already decoded, or a stream handler replaced it).
var JSONDecoder BodyDecoder = BodyDecoderFunc(decodeJSON)

func decodeJSON(resp *Response, _ DecodeOptions) (any, error) {
	raw, ok := resp.Body.([]byte)
	if !ok {
		return resp.Body, nil
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
