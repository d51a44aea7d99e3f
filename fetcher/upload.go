package fetcher

import (
	"context"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strconv"
)

// Upload implements UploadTransport. Content type is derived from the file
// extension (application/octet-stream when unknown), content length from the
// file size, and the contents travel as a deferred stream body so nothing is
// buffered in memory. Filesystem failures come back as *UploadError values
// on the normal error channel.
func (t *HTTPTransport) Upload(ctx context.Context, req Request, path string) (*Response, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, &UploadError{Path: path, Err: err}
	}

	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	up := req.
		WithHeaders(Pairs{
			NewPair("content-type", ctype),
			NewPair("content-length", strconv.FormatInt(fi.Size(), 10)),
		}).
		WithBody(&StreamBody{
			Open: func() (io.ReadCloser, error) {
				f, oerr := os.Open(path)
				if oerr != nil {
					return nil, &UploadError{Path: path, Err: oerr}
				}
				return f, nil
			},
		})

	return t.Request(ctx, up)
}
