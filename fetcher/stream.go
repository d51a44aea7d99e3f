package fetcher

import (
	"bytes"
	"context"
	"io"
)

// ByteStream is a forward-only, one-shot lazy sequence of body chunks fed by
// a background reader. Chunks arrive in transmission order; end-of-stream is
// observed exactly once. Close releases the producing goroutine and must be
// called when the consumer stops early. The transport also closes the
// stream after the handler returns, so abandoning it is always safe.
type ByteStream struct {
	chunks <-chan []byte
	errc   <-chan error
	cancel context.CancelFunc
	err    error
	done   bool
}

// Next returns the next chunk, io.EOF at end of stream, or the read error
// that terminated it. After the first terminal result every call returns the
// same one.
func (s *ByteStream) Next() ([]byte, error) {
	if s.done {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}

	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			s.done = true
			// A read error may have raced the channel close.
			select {
			case err := <-s.errc:
				if err != nil {
					s.err = err
					return nil, err
				}
			default:
			}
			return nil, io.EOF
		}
		return chunk, nil
	case err := <-s.errc:
		s.done = true
		s.err = err
		return nil, err
	}
}

// Collect drains the remaining chunks into one byte slice.
func (s *ByteStream) Collect() ([]byte, error) {
	var buf bytes.Buffer
	for {
		chunk, err := s.Next()
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		buf.Write(chunk)
	}
}

// Close cancels the producing goroutine. Safe to call multiple times and
// concurrently with an in-flight Next returning.
func (s *ByteStream) Close() error {
	s.cancel()
	if !s.done {
		s.done = true
	}
	return nil
}

// Stream implements the buffered half of StreamTransport: the response is
// streamed from the wire but fully consumed before returning.
func (t *HTTPTransport) Stream(ctx context.Context, req Request) (*Response, error) {
	return t.StreamInto(ctx, req, func(_ int, _ Pairs, body *ByteStream) (any, error) {
		return body.Collect()
	})
}

// StreamInto implements the handler half of StreamTransport. It performs
// the call, normalizes status and headers without touching the body, and
// hands the handler a lazy ByteStream over the chunks. The producing
// goroutine is torn down when the handler returns, errors, or abandons the
// stream early.
func (t *HTTPTransport) StreamInto(ctx context.Context, req Request, fn StreamHandler) (*Response, error) {
	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithCancel(ctx)
	httpReq = httpReq.WithContext(cctx)

	resp, err := t.hc.Do(httpReq)
	if err != nil {
		cancel()
		return nil, err
	}

	headers := normalizeHeaders(resp.Header)
	stream := newByteStream(cctx, cancel, resp.Body, t.chunkSize)
	defer stream.Close()

	replacement, err := fn(resp.StatusCode, headers, stream)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: headers,
		Body:    replacement,
	}, nil
}

// newByteStream starts the producer goroutine that reads body into chunks.
// Cancelling ctx stops the producer and closes the body.
func newByteStream(ctx context.Context, cancel context.CancelFunc, body io.ReadCloser, chunkSize int) *ByteStream {
	chunks := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		defer close(chunks)
		defer body.Close()

		buf := make([]byte, chunkSize)
		for {
			n, rerr := body.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if rerr != nil {
				if rerr != io.EOF && ctx.Err() == nil {
					errc <- rerr
				}
				return
			}
		}
	}()

	return &ByteStream{chunks: chunks, errc: errc, cancel: cancel}
}
