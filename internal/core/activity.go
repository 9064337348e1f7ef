package core

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"warburtonsos/pkg/domain"
)

// Activity is one finished dispatch as shown in the desktop activity feed.
type Activity struct {
	Operation  string       `json:"operation"`
	App        domain.AppID `json:"app"`
	Action     Action       `json:"action"`
	Status     string       `json:"status"`
	DurationMS float64      `json:"duration_ms"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	EndedAt    time.Time    `json:"ended_at"`
}

// ParseOperation splits an operation name built by Command.Operation back
// into its action and app. Names without a separator yield an empty app.
func ParseOperation(op string) (Action, domain.AppID) {
	action, app, _ := strings.Cut(op, "_")
	return Action(action), domain.AppID(app)
}

// ActivityLog is a Tracer that keeps the most recent dispatches in memory and
// optionally mirrors each one to w as a JSON line.
type ActivityLog struct {
	mu      sync.Mutex
	entries []Activity
	enc     *json.Encoder
	limit   int
	now     func() time.Time
}

// NewActivityLog returns a log retaining at most limit entries; zero keeps
// every entry. A nil w disables the JSON mirror.
func NewActivityLog(w io.Writer, limit int) *ActivityLog {
	l := &ActivityLog{limit: limit, now: func() time.Time { return time.Now().UTC() }}
	if w != nil {
		l.enc = json.NewEncoder(w)
	}
	return l
}

// Start implements Tracer.
func (l *ActivityLog) Start(ctx context.Context, operation string) (context.Context, TraceSpan) {
	return ctx, &activitySpan{log: l, operation: operation, started: l.now()}
}

// Entries returns the retained activity, oldest first.
func (l *ActivityLog) Entries() []Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Activity(nil), l.entries...)
}

// EntriesFor returns the retained activity of a single app, oldest first.
func (l *ActivityLog) EntriesFor(app domain.AppID) []Activity {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Activity
	for _, e := range l.entries {
		if e.App == app {
			out = append(out, e)
		}
	}
	return out
}

func (l *ActivityLog) record(a Activity) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, a)
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = append(l.entries[:0:0], l.entries[len(l.entries)-l.limit:]...)
	}
	if l.enc != nil {
		_ = l.enc.Encode(a)
	}
}

type activitySpan struct {
	log       *ActivityLog
	operation string
	started   time.Time
}

func (s *activitySpan) End(err error) {
	ended := s.log.now()
	action, app := ParseOperation(s.operation)
	a := Activity{
		Operation:  s.operation,
		App:        app,
		Action:     action,
		Status:     statusLabel(err == nil),
		DurationMS: float64(ended.Sub(s.started)) / float64(time.Millisecond),
		StartedAt:  s.started,
		EndedAt:    ended,
	}
	if err != nil {
		a.Error = err.Error()
	}
	s.log.record(a)
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
