package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
)

// Recover converts a panic during construction into an error. A
// *frame.ProtocolError panic is wrapped so callers can match it with
// errors.As. Long-running servers install it so one bad component cannot
// take the process down.
func Recover(logger *slog.Logger) construct.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next construct.BuildFunc) construct.BuildFunc {
		return func(ctx context.Context, s construct.Scope) (fs frame.Frames, err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				logger.Error("construction panic",
					"component", s.Name,
					"depth", s.Depth,
					"panic", r,
					"stack", string(debug.Stack()))
				if e, ok := r.(error); ok {
					err = fmt.Errorf("middleware: panic building %s: %w", scopeLabel(s), e)
				} else {
					err = fmt.Errorf("middleware: panic building %s: %v", scopeLabel(s), r)
				}
				fs = nil
			}()
			return next(ctx, s)
		}
	}
}

// Logging logs every scope at Debug level, and failures at Warn.
func Logging(logger *slog.Logger) construct.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next construct.BuildFunc) construct.BuildFunc {
		return func(ctx context.Context, s construct.Scope) (frame.Frames, error) {
			start := time.Now()
			fs, err := next(ctx, s)
			if err != nil {
				logger.WarnContext(ctx, "scope failed",
					"component", s.Name,
					"depth", s.Depth,
					"error", err)
				return fs, err
			}
			logger.DebugContext(ctx, "scope built",
				"component", s.Name,
				"depth", s.Depth,
				"frames", len(fs),
				"duration", time.Since(start))
			return fs, nil
		}
	}
}
