package fetcher

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

// MockTransport is a configurable Transport for testing. It implements all
// four capabilities, lets tests stub buffered or chunked responses and
// errors per matcher, and records every request it sees.
type MockTransport struct {
	mu       sync.RWMutex
	stubs    []mockStub
	requests []Request
}

type mockStub struct {
	matcher func(Request) bool
	status  int
	headers Pairs
	chunks  [][]byte
	err     error
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// Stub makes every request return the given status and body.
func (m *MockTransport) Stub(status int, body string) *MockTransport {
	return m.StubFunc(func(Request) bool { return true }, status, body)
}

// StubError makes every request fail with err.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{
		matcher: func(Request) bool { return true },
		err:     err,
	})
	return m
}

// StubService stubs requests targeting a service.
func (m *MockTransport) StubService(svc Service, status int, body string) *MockTransport {
	return m.StubFunc(func(req Request) bool { return req.service == svc }, status, body)
}

// StubPath stubs requests whose URL contains the given path.
func (m *MockTransport) StubPath(path string, status int, body string) *MockTransport {
	return m.StubFunc(func(req Request) bool { return strings.Contains(req.url, path) }, status, body)
}

// StubFunc stubs requests matching the predicate. First match wins.
func (m *MockTransport) StubFunc(matcher func(Request) bool, status int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = append(m.stubs, mockStub{
		matcher: matcher,
		status:  status,
		chunks:  [][]byte{[]byte(body)},
	})
	return m
}

// StubChunks stubs a chunked response: status, headers, then the chunks in
// order. Used to simulate streaming backends.
func (m *MockTransport) StubChunks(status int, headers Pairs, chunks ...string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw := make([][]byte, len(chunks))
	for i, c := range chunks {
		raw[i] = []byte(c)
	}
	m.stubs = append(m.stubs, mockStub{
		matcher: func(Request) bool { return true },
		status:  status,
		headers: headers,
		chunks:  raw,
	})
	return m
}

// Requests returns every request routed through this transport.
func (m *MockTransport) Requests() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Request{}, m.requests...)
}

// LastRequest returns the most recent request, zero value if none.
func (m *MockTransport) LastRequest() Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.requests) == 0 {
		return Request{}
	}
	return m.requests[len(m.requests)-1]
}

// RequestCount returns the number of requests made.
func (m *MockTransport) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// Reset clears stubs and recorded requests.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stubs = nil
	m.requests = nil
}

func (m *MockTransport) match(req Request) (mockStub, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	stubs := m.stubs
	m.mu.Unlock()

	for _, s := range stubs {
		if s.matcher(req) {
			return s, s.err
		}
	}
	return mockStub{}, errors.New("no stub found for request: " + string(req.method) + " " + req.url)
}

func (s mockStub) response() *Response {
	var body []byte
	for _, c := range s.chunks {
		body = append(body, c...)
	}
	headers := s.headers
	if headers == nil {
		headers = Pairs{NewPair("content-type", "application/json")}
	}
	return &Response{Status: s.status, Headers: headers, Body: body}
}

// Request implements Transport.
func (m *MockTransport) Request(_ context.Context, req Request) (*Response, error) {
	s, err := m.match(req)
	if err != nil {
		return nil, err
	}
	return s.response(), nil
}

// RequestAsync implements AsyncTransport.
func (m *MockTransport) RequestAsync(ctx context.Context, req Request) (*Response, error) {
	return m.Request(ctx, req)
}

// Stream implements the buffered half of StreamTransport.
func (m *MockTransport) Stream(ctx context.Context, req Request) (*Response, error) {
	return m.Request(ctx, req)
}

// StreamInto implements the handler half of StreamTransport, delivering the
// stubbed chunks through a real ByteStream so ordering semantics match the
// production transport.
func (m *MockTransport) StreamInto(ctx context.Context, req Request, fn StreamHandler) (*Response, error) {
	s, err := m.match(req)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithCancel(ctx)
	chunks := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(chunks)
		for _, c := range s.chunks {
			select {
			case chunks <- c:
			case <-cctx.Done():
				return
			}
		}
	}()

	stream := &ByteStream{chunks: chunks, errc: errc, cancel: cancel}
	defer stream.Close()

	headers := s.headers
	if headers == nil {
		headers = Pairs{}
	}

	replacement, err := fn(s.status, headers, stream)
	if err != nil {
		return nil, err
	}
	return &Response{Status: s.status, Headers: headers, Body: replacement}, nil
}

// Upload implements UploadTransport, mirroring the production stat-then-send
// behavior so missing files surface as *UploadError.
func (m *MockTransport) Upload(ctx context.Context, req Request, path string) (*Response, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &UploadError{Path: path, Err: err}
	}
	return m.Request(ctx, req)
}
