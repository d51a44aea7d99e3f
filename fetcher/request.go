package fetcher

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kroma-labs/citadel-go/client"
)

// Method is an HTTP method accepted by the builder.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
	MethodHead   Method = http.MethodHead
)

func validMethod(m Method) bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead:
		return true
	}
	return false
}

// Request is the immutable description of one pending HTTP call.
//
// Every With* method is a copy-and-modify step: it returns a new value and
// never mutates its receiver, so a partially built Request can be reused as
// a template across goroutines.
//
//	base := fetcher.New(c).WithDatabaseURL("/todos")
//	list := base.WithQueryParam("select", "*")
//	one  := base.WithQueryParam("id", "eq.1")
//
// Builder misuse (invalid method, non-relative service path, unencodable
// body, nil parser) is recorded on the value and surfaces as an
// invalid_request error at execution, before any I/O.
type Request struct {
	client      *client.Client
	url         string
	baseURL     string
	service     Service
	method      Method
	headers     Pairs
	query       Pairs
	body        requestBody
	decoder     BodyDecoder
	decoderOpts DecodeOptions
	parser      ErrorParser
	transport   Transport
	err         *Error
}

// New starts a Request from a client configuration. Headers are seeded with
// the bearer access token merged over the client's global headers; method
// defaults to GET, decoding to JSON, error parsing to DefaultParser, and the
// transport to an HTTPTransport over the client's pool.
func New(c *client.Client) Request {
	seed := Pairs{NewPair("authorization", "Bearer "+c.AccessToken)}
	return Request{
		client:    c,
		method:    MethodGet,
		headers:   Merge(PairsFromMap(c.Headers), seed, FoldCaseInsensitive),
		decoder:   JSONDecoder,
		parser:    DefaultParser,
		transport: NewHTTPTransport(c.HTTP()),
	}
}

// URL returns the resolved target URL, empty until a service URL step runs.
func (r Request) URL() string { return r.url }

// Service returns the service tag recorded by the service URL step.
func (r Request) Service() Service { return r.service }

// Method returns the request method.
func (r Request) Method() Method { return r.method }

// Headers returns the current header collection.
func (r Request) Headers() Pairs { return r.headers }

// Query returns the current query-parameter collection.
func (r Request) Query() Pairs { return r.query }

// WithAuthURL targets the auth service at the given relative path.
func (r Request) WithAuthURL(path string) Request {
	return r.withServiceURL(ServiceAuth, r.client.AuthURL, path)
}

// WithFunctionsURL targets the functions service at the given relative path.
func (r Request) WithFunctionsURL(path string) Request {
	return r.withServiceURL(ServiceFunctions, r.client.FunctionsURL, path)
}

// WithStorageURL targets the storage service at the given relative path.
func (r Request) WithStorageURL(path string) Request {
	return r.withServiceURL(ServiceStorage, r.client.StorageURL, path)
}

// WithRealtimeURL targets the realtime service at the given relative path.
func (r Request) WithRealtimeURL(path string) Request {
	return r.withServiceURL(ServiceRealtime, r.client.RealtimeURL, path)
}

// WithDatabaseURL targets the database service at the given relative path.
func (r Request) WithDatabaseURL(path string) Request {
	return r.withServiceURL(ServiceDatabase, r.client.DatabaseURL, path)
}

func (r Request) withServiceURL(svc Service, base, path string) Request {
	u, err := url.Parse(path)
	if err != nil || u.IsAbs() || u.Host != "" {
		return r.fail(fmt.Sprintf("invalid relative path %q for %s service", path, svc))
	}
	r.url = joinURL(base, path)
	r.baseURL = base
	r.service = svc
	return r
}

// WithMethod sets the HTTP method. Must be one of the Method constants.
func (r Request) WithMethod(m Method) Request {
	if !validMethod(m) {
		return r.fail(fmt.Sprintf("invalid method %q", string(m)))
	}
	r.method = m
	return r
}

// WithHeaders merges headers into the request, new entries winning on
// case-insensitive collision. Repeatable and cumulative; a RemovePair entry
// deletes the key.
func (r Request) WithHeaders(headers Pairs) Request {
	r.headers = Merge(r.headers, headers, FoldCaseInsensitive)
	return r
}

// WithHeader merges a single header.
func (r Request) WithHeader(name, value string) Request {
	return r.WithHeaders(Pairs{NewPair(name, value)})
}

// WithQuery merges query parameters, new entries winning on exact-key
// collision. Repeatable and cumulative.
func (r Request) WithQuery(query Pairs) Request {
	r.query = Merge(r.query, query, FoldExact)
	return r
}

// WithQueryParam merges a single query parameter.
func (r Request) WithQueryParam(key, value string) Request {
	return r.WithQuery(Pairs{NewPair(key, value)})
}

// WithBody sets the request body. Structured values are JSON-encoded
// eagerly; []byte and string are stored as opaque bytes; a StreamBody is
// kept as a deferred stream payload; nil clears the body.
func (r Request) WithBody(v any) Request {
	body, err := encodeBody(v)
	if err != nil {
		return r.fail(err.Error())
	}
	r.body = body
	return r
}

// WithBodyDecoder swaps the body decoder and its options. A nil decoder is
// valid and means "leave the body raw".
func (r Request) WithBodyDecoder(dec BodyDecoder, opts DecodeOptions) Request {
	r.decoder = dec
	r.decoderOpts = opts
	return r
}

// WithErrorParser replaces the error parser for this request. It fully
// replaces the default dispatch, it is not merged with it. A nil parser is
// builder misuse.
func (r Request) WithErrorParser(p ErrorParser) Request {
	if p == nil {
		return r.fail("error parser must not be nil")
	}
	r.parser = p
	return r
}

// WithTransport swaps the transport adapter.
func (r Request) WithTransport(t Transport) Request {
	if t == nil {
		return r.fail("transport must not be nil")
	}
	r.transport = t
	return r
}

// GetHeader returns the first header with the exact name, or def.
func (r Request) GetHeader(name, def string) string {
	return r.headers.Get(name, def)
}

// GetQueryParam returns the first query parameter with the exact key, or
// def.
func (r Request) GetQueryParam(key, def string) string {
	return r.query.Get(key, def)
}

// MergeHeader concatenates value onto an existing header with the joiner
// (default ","), or sets it plainly when the header is absent.
func (r Request) MergeHeader(name, value string, joiner ...string) Request {
	if r.headers.Has(name) {
		value = r.headers.Get(name, "") + joinerOrDefault(joiner) + value
	}
	return r.WithHeaders(Pairs{NewPair(name, value)})
}

// MergeQueryParam concatenates value onto an existing query parameter with
// the joiner (default ","), or sets it plainly when the key is absent.
func (r Request) MergeQueryParam(key, value string, joiner ...string) Request {
	if r.query.Has(key) {
		value = r.query.Get(key, "") + joinerOrDefault(joiner) + value
	}
	return r.WithQuery(Pairs{NewPair(key, value)})
}

func joinerOrDefault(joiner []string) string {
	if len(joiner) > 0 {
		return joiner[0]
	}
	return ","
}

// fail records the first builder error; later steps keep it intact so the
// earliest misuse is the one reported.
func (r Request) fail(msg string) Request {
	if r.err == nil {
		r.err = NewError(CodeInvalidRequest, msg)
	}
	return r
}

// validate is the pre-flight check run by every orchestration entry point.
func (r Request) validate() *Error {
	if r.err != nil {
		return r.err
	}
	if r.url == "" {
		return NewError(CodeInvalidRequest, "request URL is not set, call a With*URL step first")
	}
	if r.transport == nil {
		return NewError(CodeInvalidRequest, "request has no transport")
	}
	return nil
}

func joinURL(base, path string) string {
	if path == "" {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
