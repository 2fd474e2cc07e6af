package middleware

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
)

const defaultTracerName = "frametree"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "frametree").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which scopes to trace.
	// If nil, all scopes are traced.
	Filter func(s construct.Scope) bool

	// AttributeExtractor adds custom attributes per scope.
	AttributeExtractor func(s construct.Scope) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithScopeFilter sets a filter function for scopes.
func WithScopeFilter(filter func(s construct.Scope) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(s construct.Scope) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that starts a span for every
// construction scope.
//
// Span attributes:
//   - frametree.component: owner type name
//   - frametree.depth: 0 for component markup, >0 for fragments
//   - frametree.nodes: number of top-level markup nodes
//   - frametree.frames: number of frames produced (on success)
//   - frametree.error_kind: construct.ErrorKind (on failure)
func OpenTelemetry(opts ...OTelOption) construct.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return func(next construct.BuildFunc) construct.BuildFunc {
		return func(ctx context.Context, s construct.Scope) (frame.Frames, error) {
			if config.Filter != nil && !config.Filter(s) {
				return next(ctx, s)
			}

			attrs := []attribute.KeyValue{
				attribute.String("frametree.component", s.Name),
				attribute.Int("frametree.depth", s.Depth),
				attribute.Int("frametree.nodes", len(s.Nodes)),
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(s)...)
			}

			ctx, span := config.tracer.Start(ctx, spanName(s),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			fs, err := next(ctx, s)
			if err != nil {
				var cerr *construct.Error
				if errors.As(err, &cerr) {
					span.SetAttributes(attribute.String("frametree.error_kind", cerr.Kind.String()))
				}
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return fs, err
			}

			span.SetAttributes(attribute.Int("frametree.frames", len(fs)))
			span.SetStatus(codes.Ok, "")
			return fs, nil
		}
	}
}

func spanName(s construct.Scope) string {
	name := scopeLabel(s)
	if s.Depth > 0 {
		return "frametree.fragment " + name
	}
	return "frametree.render " + name
}
