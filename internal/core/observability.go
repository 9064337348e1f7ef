package core

import (
	"context"
	"time"
)

// MetricsRecorder observes the outcome and latency of each dispatched command.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Tracer starts a span around each dispatched command.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// TraceSpan is ended with the command's error, nil on success.
type TraceSpan interface {
	End(err error)
}

// Clock supplies the dispatcher's notion of now.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

type noopMetricsRecorder struct{}

func (noopMetricsRecorder) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) End(error) {}

// multiRecorder fans one observation out to several recorders.
type multiRecorder []MetricsRecorder

func (m multiRecorder) Observe(ctx context.Context, op string, success bool, d time.Duration) {
	for _, r := range m {
		r.Observe(ctx, op, success, d)
	}
}

// CombineMetricsRecorders returns a recorder forwarding to every non-nil
// recorder given.
func CombineMetricsRecorders(recorders ...MetricsRecorder) MetricsRecorder {
	var out multiRecorder
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return noopMetricsRecorder{}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}
