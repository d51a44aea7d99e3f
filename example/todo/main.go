package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kroma-labs/citadel-go/client"
	"github.com/kroma-labs/citadel-go/example/todo/internal/config"
	"github.com/kroma-labs/citadel-go/example/todo/internal/telemetry"
	"github.com/kroma-labs/citadel-go/fetcher"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// 1. Setup OpenTelemetry (Tracing + Metrics)
	shutdownTracing, shutdownMetrics, err := telemetry.Setup(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup OTel")
	}
	defer func() {
		_ = shutdownTracing(ctx)
		_ = shutdownMetrics(ctx)
	}()

	// 2. Start Prometheus Metrics Server
	metricsServer := &http.Server{Addr: config.MetricsPort}
	go func() {
		log.Info().Str("addr", config.MetricsPort).Msg("starting Prometheus metrics server")
		if serr := metricsServer.ListenAndServe(); serr != nil && serr != http.ErrServerClosed {
			log.Fatal().Err(serr).Msg("metrics server failed")
		}
	}()

	// 3. Configure the SDK client
	baseURL := envOr("CITADEL_URL", config.DefaultBaseURL)
	apiKey := envOr("CITADEL_API_KEY", config.DefaultAPIKey)

	c, err := client.New(baseURL, apiKey,
		client.WithHeaders(map[string]string{"x-example": "todo"}),
		client.WithPoolConfig(client.LowLatencyPoolConfig()),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure client")
	}
	managed := client.NewManaged(c)

	// Every request shares one instrumented transport over the client's pool.
	transport := fetcher.NewOtelTransport(
		fetcher.NewHTTPTransport(c.HTTP(), fetcher.WithDebug(os.Getenv("DEBUG") != "")),
	)

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// 4. Perform SDK operations in a loop to generate continuous telemetry
	ticker := time.NewTicker(config.OperationInterval * time.Second)
	defer ticker.Stop()

	log.Info().Str("base_url", baseURL).Msg("starting operations, Ctrl+C to stop")
	for i := 0; ; i++ {
		select {
		case <-sigChan:
			log.Info().Msg("shutting down")
			_ = metricsServer.Shutdown(ctx)
			return
		case <-ticker.C:
			runOnce(ctx, log, managed.Snapshot(), transport, i)

			// Rotate the access token periodically, the way a session
			// refresh would.
			if i > 0 && i%10 == 0 {
				managed.Rotate(fmt.Sprintf("session-token-%d", i))
				log.Info().Msg("rotated access token")
			}
		}
	}
}

func runOnce(ctx context.Context, log zerolog.Logger, c *client.Client, transport fetcher.Transport, i int) {
	// Create a row through the database service.
	created, err := fetcher.Do(ctx, fetcher.New(c).
		WithTransport(transport).
		WithDatabaseURL("/todos").
		WithMethod(fetcher.MethodPost).
		WithHeader("prefer", "return=representation").
		WithBody(map[string]any{"title": fmt.Sprintf("task %d", i)}))
	if err != nil {
		logSDKError(log, "create todo", err)
	} else {
		log.Info().Int("status", created.Status).Msg("created todo")
	}

	// List rows, asynchronously dispatched.
	listed, err := fetcher.DoAsync(ctx, fetcher.New(c).
		WithTransport(transport).
		WithDatabaseURL("/todos").
		WithQueryParam("select", "*").
		WithQueryParam("limit", "5"))
	if err != nil {
		logSDKError(log, "list todos", err)
	} else if rows, ok := listed.Body.([]any); ok {
		log.Info().Int("count", len(rows)).Msg("listed todos")
	}

	// Stream a storage object, counting bytes without buffering the file.
	_, err = fetcher.StreamInto(ctx, fetcher.New(c).
		WithTransport(transport).
		WithStorageURL("/object/public/assets/report.pdf").
		WithBodyDecoder(nil, nil),
		func(status int, headers fetcher.Pairs, body *fetcher.ByteStream) (any, error) {
			var total int
			for {
				chunk, cerr := body.Next()
				if cerr != nil {
					break
				}
				total += len(chunk)
			}
			log.Info().
				Int("status", status).
				Str("content_type", headers.Get("content-type", "unknown")).
				Int("bytes", total).
				Msg("streamed object")
			return nil, nil
		})
	if err != nil {
		logSDKError(log, "stream object", err)
	}
}

// logSDKError shows how callers branch on structured SDK failures.
func logSDKError(log zerolog.Logger, op string, err error) {
	var fe *fetcher.Error
	if !errors.As(err, &fe) {
		log.Error().Err(err).Str("op", op).Msg("unexpected failure")
		return
	}

	evt := log.Warn().
		Str("op", op).
		Str("code", string(fe.Code)).
		Str("service", string(fe.Service))

	switch fe.Code {
	case fetcher.CodeTransportError:
		evt.Msg("backend unreachable, will retry next tick")
	case fetcher.CodeUnauthorized, fetcher.CodeForbidden:
		evt.Msg("token rejected, rotation needed")
	default:
		evt.Str("message", fe.Message).Msg("request failed")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
