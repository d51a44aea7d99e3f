package fetcher

import (
	"net/http"
	"sort"
	"strings"
)

// Response is the normalized result of an HTTP call, decoupled from the
// transport that produced it. Header names are lowercased by the
// normalization step, so lookups are exact-match.
//
// Body starts as the raw response bytes and is replaced by the decoded value
// once DecodeBody runs.
type Response struct {
	Status  int
	Headers Pairs
	Body    any
}

// GetHeader returns the named header or def when absent. Names are
// normalized to lowercase at construction, so pass lowercase names.
func (r *Response) GetHeader(name, def string) string {
	return r.Headers.Get(name, def)
}

// BodyBytes returns the raw body bytes, or false once the body has been
// decoded into a structured value.
func (r *Response) BodyBytes() ([]byte, bool) {
	raw, ok := r.Body.([]byte)
	return raw, ok
}

// DecodeBody runs the decoder over the body and returns a new Response with
// the body replaced. Decoder failures propagate untouched. A nil decoder
// leaves the body raw.
//
// DecodeBody has no knowledge of status codes: error responses are decoded
// the same as successes, so error parsers can inspect a structured error
// body.
func (r *Response) DecodeBody(dec BodyDecoder, opts DecodeOptions) (*Response, error) {
	if dec == nil {
		return r, nil
	}
	body, err := dec.Decode(r, opts)
	if err != nil {
		return nil, err
	}
	out := *r
	out.Body = body
	return &out, nil
}

// normalizeHeaders flattens an http.Header into ordered Pairs with
// lowercased names, sorted for deterministic order. Multi-valued headers
// collapse into one comma-joined entry per HTTP field semantics.
func normalizeHeaders(hdr http.Header) Pairs {
	names := make([]string, 0, len(hdr))
	for name := range hdr {
		names = append(names, strings.ToLower(name))
	}
	sort.Strings(names)

	out := make(Pairs, 0, len(names))
	for _, name := range names {
		out = append(out, NewPair(name, strings.Join(hdr.Values(name), ", ")))
	}
	return out
}
