package fetcher

import (
	"bytes"
	"context"
	"io"
	"time"
)

// RequestAsync implements AsyncTransport. The call runs on a background
// goroutine which delivers its result in order over channels: an early error
// signal, then status, then headers, then body chunks. The caller waits a
// short fixed window for the error signal; once it elapses without one, the
// dial is assumed to have succeeded and the caller moves on to await status.
//
// The reassembled response is indistinguishable from a Request call.
func (t *HTTPTransport) RequestAsync(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := buildHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	errc := make(chan error, 1)
	statusc := make(chan int, 1)
	headersc := make(chan Pairs, 1)
	chunks := make(chan []byte)

	go func() {
		resp, derr := t.hc.Do(httpReq)
		if derr != nil {
			errc <- derr
			close(chunks)
			return
		}
		defer resp.Body.Close()

		statusc <- resp.StatusCode
		headersc <- normalizeHeaders(resp.Header)

		buf := make([]byte, t.chunkSize)
		for {
			n, rerr := resp.Body.Read(buf)
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
				if rerr != io.EOF {
					errc <- rerr
				}
				close(chunks)
				return
			}
		}
	}()

	// Wait briefly for an early failure; a status arriving first short-
	// circuits the window.
	wait := time.NewTimer(t.asyncErrorWait)
	defer wait.Stop()

	var status int
	select {
	case err := <-errc:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case status = <-statusc:
	case <-wait.C:
		select {
		case err := <-errc:
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		case status = <-statusc:
		}
	}

	var headers Pairs
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case headers = <-headersc:
	}

	var body bytes.Buffer
	for {
		select {
		case err := <-errc:
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		case chunk, ok := <-chunks:
			if !ok {
				// A read error may have raced the channel close.
				select {
				case err := <-errc:
					return nil, err
				default:
				}
				return &Response{Status: status, Headers: headers, Body: body.Bytes()}, nil
			}
			body.Write(chunk)
		}
	}
}
