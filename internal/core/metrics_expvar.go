package core

import (
	"context"
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"warburtonsos/pkg/domain"
)

var expvarSeq uint64

// CommandCounter aggregates the dispatches of one action on one app.
type CommandCounter struct {
	Succeeded int64   `json:"succeeded"`
	Failed    int64   `json:"failed"`
	TotalMS   float64 `json:"total_ms"`
}

// ExpvarSnapshot is the document published under the recorder's expvar name.
type ExpvarSnapshot struct {
	Commands   int64                                      `json:"commands"`
	Apps       map[domain.AppID]map[Action]CommandCounter `json:"apps"`
	RecordedAt time.Time                                  `json:"recorded_at"`
}

// ExpvarMetricsRecorder publishes dispatch counters grouped by app and action
// on /debug/vars.
type ExpvarMetricsRecorder struct {
	name     string
	mu       sync.Mutex
	commands int64
	apps     map[domain.AppID]map[Action]CommandCounter
}

// NewExpvarMetricsRecorder publishes a recorder under name, or under a
// generated warburtons_dispatch_<n> name when name is empty.
func NewExpvarMetricsRecorder(name string) *ExpvarMetricsRecorder {
	if name == "" {
		name = fmt.Sprintf("warburtons_dispatch_%d", atomic.AddUint64(&expvarSeq, 1))
	}
	rec := &ExpvarMetricsRecorder{
		name: name,
		apps: make(map[domain.AppID]map[Action]CommandCounter),
	}
	expvar.Publish(name, expvar.Func(func() any { return rec.Snapshot() }))
	return rec
}

// Name returns the expvar export name.
func (r *ExpvarMetricsRecorder) Name() string { return r.name }

// Observe implements MetricsRecorder. Unnamed operations are ignored.
func (r *ExpvarMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	action, app := ParseOperation(operation)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands++
	actions, ok := r.apps[app]
	if !ok {
		actions = make(map[Action]CommandCounter)
		r.apps[app] = actions
	}
	c := actions[action]
	if success {
		c.Succeeded++
	} else {
		c.Failed++
	}
	c.TotalMS += float64(duration) / float64(time.Millisecond)
	actions[action] = c
}

// Snapshot copies the current counters.
func (r *ExpvarMetricsRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := make(map[domain.AppID]map[Action]CommandCounter, len(r.apps))
	for app, actions := range r.apps {
		cpy := make(map[Action]CommandCounter, len(actions))
		for a, c := range actions {
			cpy[a] = c
		}
		apps[app] = cpy
	}
	return ExpvarSnapshot{Commands: r.commands, Apps: apps, RecordedAt: time.Now().UTC()}
}
