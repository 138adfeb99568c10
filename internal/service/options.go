package service

import (
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pdfshare/internal/metrics"
	"pdfshare/internal/ratelimit"
)

const tracerName = "pdfshare/internal/service"

// Option customizes a service at construction time.
type Option func(*options)

type options struct {
	log     zerolog.Logger
	metrics *metrics.ShareMetrics
	limiter ratelimit.Limiter
	now     func() time.Time
	tracer  trace.Tracer
}

func newOptions(opts []Option) options {
	o := options{
		log:     zerolog.Nop(),
		limiter: ratelimit.Noop{},
		now:     func() time.Time { return time.Now().UTC() },
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records share activity on m.
func WithMetrics(m *metrics.ShareMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLimiter caps verification submissions per token.
func WithLimiter(l ratelimit.Limiter) Option {
	return func(o *options) {
		if l != nil {
			o.limiter = l
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
