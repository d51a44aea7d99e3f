package fetcher

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// debugLogger is the package-level zerolog logger for debug output.
var debugLogger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func logRequest(lg zerolog.Logger, req *http.Request) {
	lg.Debug().
		Str("request_id", req.Header.Get("x-request-id")).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int64("content_length", req.ContentLength).
		Msg("sending request")
}

func logResponse(lg zerolog.Logger, req *http.Request, status, bodyBytes int, d time.Duration) {
	lg.Debug().
		Str("request_id", req.Header.Get("x-request-id")).
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", status).
		Int("body_bytes", bodyBytes).
		Dur("duration", d).
		Msg("received response")
}
