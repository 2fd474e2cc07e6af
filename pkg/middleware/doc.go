// Package middleware provides construct.Middleware implementations for
// observing frame construction.
//
// This package includes:
//   - OpenTelemetry tracing, one span per construction scope
//   - Prometheus metrics
//   - Logging and panic recovery
//
// A scope is a component's own markup (depth 0) or a captured fragment
// being built when it is invoked (depth 1 and deeper). Fragment scopes
// inherit the context of the scope that captured them, so their spans
// nest under it even when they are invoked later.
//
// # OpenTelemetry Middleware
//
//	c := construct.New(reg,
//	    construct.WithMiddleware(
//	        middleware.OpenTelemetry(),
//	    ),
//	)
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("inspector"),
//	    middleware.WithScopeFilter(func(s construct.Scope) bool {
//	        return s.Depth == 0
//	    }),
//	)
//
// The tracer comes from the global provider; install one with
// otel.SetTracerProvider before building.
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - frametree_scopes_total: Scopes built, by component and status
//   - frametree_scope_duration_seconds: Build duration histogram
//   - frametree_scope_errors_total: Failures by component and error kind
//   - frametree_scope_frames: Frames produced per scope
//   - frametree_fragment_depth: Depth of fragment scopes
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
