package fetcher

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// scope is the instrumentation scope name for OpenTelemetry.
const scope = "github.com/kroma-labs/citadel-go/fetcher"

// OtelTransport decorates any Transport with OpenTelemetry client spans and
// a request-duration histogram, using the global providers. Optional
// capabilities pass through when the wrapped transport implements them.
//
//	c, _ := client.New(baseURL, apiKey)
//	req := fetcher.New(c).
//	    WithTransport(fetcher.NewOtelTransport(fetcher.NewHTTPTransport(c.HTTP()))).
//	    WithDatabaseURL("/todos")
type OtelTransport struct {
	next     Transport
	tracer   trace.Tracer
	duration metric.Float64Histogram
}

// NewOtelTransport wraps next with instrumentation.
func NewOtelTransport(next Transport) *OtelTransport {
	meter := otel.Meter(scope)
	duration, _ := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Duration of SDK requests"),
		metric.WithUnit("s"),
	)
	return &OtelTransport{
		next:     next,
		tracer:   otel.Tracer(scope),
		duration: duration,
	}
}

// Request implements Transport.
func (t *OtelTransport) Request(ctx context.Context, req Request) (*Response, error) {
	return t.instrument(ctx, req, "request", func(ctx context.Context) (*Response, error) {
		return t.next.Request(ctx, req)
	})
}

// RequestAsync implements AsyncTransport when the wrapped transport does.
func (t *OtelTransport) RequestAsync(ctx context.Context, req Request) (*Response, error) {
	at, ok := t.next.(AsyncTransport)
	if !ok {
		return nil, notImplemented(req, "RequestAsync")
	}
	return t.instrument(ctx, req, "request_async", func(ctx context.Context) (*Response, error) {
		return at.RequestAsync(ctx, req)
	})
}

// Stream implements the buffered half of StreamTransport when the wrapped
// transport does.
func (t *OtelTransport) Stream(ctx context.Context, req Request) (*Response, error) {
	st, ok := t.next.(StreamTransport)
	if !ok {
		return nil, notImplemented(req, "Stream")
	}
	return t.instrument(ctx, req, "stream", func(ctx context.Context) (*Response, error) {
		return st.Stream(ctx, req)
	})
}

// StreamInto implements the handler half of StreamTransport when the wrapped
// transport does. The span covers the handler's consumption of the body.
func (t *OtelTransport) StreamInto(ctx context.Context, req Request, fn StreamHandler) (*Response, error) {
	st, ok := t.next.(StreamTransport)
	if !ok {
		return nil, notImplemented(req, "StreamInto")
	}
	return t.instrument(ctx, req, "stream", func(ctx context.Context) (*Response, error) {
		return st.StreamInto(ctx, req, fn)
	})
}

// Upload implements UploadTransport when the wrapped transport does.
func (t *OtelTransport) Upload(ctx context.Context, req Request, path string) (*Response, error) {
	ut, ok := t.next.(UploadTransport)
	if !ok {
		return nil, notImplemented(req, "Upload")
	}
	return t.instrument(ctx, req, "upload", func(ctx context.Context) (*Response, error) {
		return ut.Upload(ctx, req, path)
	})
}

func (t *OtelTransport) instrument(
	ctx context.Context,
	req Request,
	op string,
	send func(context.Context) (*Response, error),
) (*Response, error) {
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", string(req.method)),
		attribute.String("url.full", req.url),
		attribute.String("citadel.service", string(req.service)),
		attribute.String("citadel.operation", op),
	}

	ctx, span := t.tracer.Start(ctx, "HTTP "+string(req.method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	start := time.Now()
	resp, err := send(ctx)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
		if resp.Status >= 400 {
			span.SetStatus(otelcodes.Error, fmt.Sprintf("HTTP %d", resp.Status))
		}
	}

	metricAttrs := attrs[:len(attrs):len(attrs)]
	if resp != nil {
		metricAttrs = append(metricAttrs, attribute.Int("http.response.status_code", resp.Status))
	}
	t.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(metricAttrs...))

	return resp, err
}
