package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"warburtonsos/pkg/domain"
)

func TestExpvarMetricsRecorderGroupsByApp(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()
	rec.Observe(ctx, "add_inventory", true, 2*time.Millisecond)
	rec.Observe(ctx, "add_inventory", false, 3*time.Millisecond)
	rec.Observe(ctx, "form-begin-edit_engineering-repairs", true, time.Millisecond)
	rec.Observe(ctx, "", true, time.Second)

	snap := rec.Snapshot()
	if snap.Commands != 3 {
		t.Fatalf("expected 3 commands, got %d", snap.Commands)
	}
	add := snap.Apps[domain.AppInventory][ActionAdd]
	if add.Succeeded != 1 || add.Failed != 1 || add.TotalMS != 5 {
		t.Fatalf("unexpected inventory counter %+v", add)
	}
	if snap.Apps[domain.AppEngineeringRepairs][ActionFormBeginEdit].Succeeded != 1 {
		t.Fatalf("unexpected repairs counters %+v", snap.Apps[domain.AppEngineeringRepairs])
	}
	v := expvar.Get(rec.Name())
	if v == nil || !strings.Contains(v.String(), `"inventory"`) {
		t.Fatalf("expected published expvar, got %v", v)
	}
}

func TestParseOperation(t *testing.T) {
	cases := []struct {
		op     string
		action Action
		app    domain.AppID
	}{
		{Command{App: domain.AppProfitLoss, Action: ActionFormConfirm}.Operation(), ActionFormConfirm, domain.AppProfitLoss},
		{"launch_kpi", ActionLaunch, domain.AppKPI},
		{"reset", "reset", ""},
	}
	for _, tc := range cases {
		action, app := ParseOperation(tc.op)
		if action != tc.action || app != tc.app {
			t.Fatalf("ParseOperation(%q) = %q, %q", tc.op, action, app)
		}
	}
}

func TestPrometheusMetricsRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}
	ctx := context.Background()
	rec.Observe(ctx, "delete_kpi", true, time.Millisecond)
	rec.Observe(ctx, "delete_kpi", true, time.Millisecond)
	rec.Observe(ctx, "delete_kpi", false, time.Millisecond)

	if got := testutil.ToFloat64(rec.total.WithLabelValues("delete_kpi", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.CollectAndCount(rec.duration); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestActivityLogWritesAndBoundsEntries(t *testing.T) {
	var buf bytes.Buffer
	log := NewActivityLog(&buf, 2)
	ctx := context.Background()
	ops := []string{"open_kpi", "delete_inventory", "toggle_kpi"}
	for i, err := range []error{nil, errors.New("boom"), nil} {
		_, span := log.Start(ctx, ops[i])
		span.End(err)
	}
	entries := log.Entries()
	if len(entries) != 2 || entries[0].Operation != "delete_inventory" || entries[0].Error != "boom" {
		t.Fatalf("unexpected retained entries %+v", entries)
	}
	if entries[0].App != domain.AppInventory || entries[0].Action != ActionDelete {
		t.Fatalf("expected parsed app and action, got %+v", entries[0])
	}
	if kpi := log.EntriesFor(domain.AppKPI); len(kpi) != 1 || kpi[0].Action != ActionToggle {
		t.Fatalf("unexpected kpi entries %+v", kpi)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected every span written, got %d lines", len(lines))
	}
	var first Activity
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil || first.Status != "success" || first.App != domain.AppKPI {
		t.Fatalf("unexpected first line %q err=%v", lines[0], err)
	}
}

func TestCombineMetricsRecorders(t *testing.T) {
	a, b := &captureMetricsRecorder{}, &captureMetricsRecorder{}
	CombineMetricsRecorders(a, nil, b).Observe(context.Background(), "open_kpi", true, 0)
	if len(a.calls) != 1 || len(b.calls) != 1 {
		t.Fatalf("expected fan-out, got %d/%d", len(a.calls), len(b.calls))
	}
	CombineMetricsRecorders().Observe(context.Background(), "noop", true, 0)
}
