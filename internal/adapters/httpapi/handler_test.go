package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/xuri/excelize/v2"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/core"
	"warburtonsos/internal/kv"
	"warburtonsos/internal/report"
	"warburtonsos/internal/session"
)

type fixture struct {
	handler *Handler
	blobs   blob.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	prom, err := core.NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("prometheus: %v", err)
	}
	tracer := core.NewActivityLog(nil, 50)
	svc, err := core.Open(context.Background(), kv.NewMemory(), session.DefaultCredentials(),
		core.WithMetricsRecorder(prom), core.WithTracer(tracer))
	if err != nil {
		t.Fatalf("core.Open: %v", err)
	}
	blobs := blob.NewMemory()
	h := NewHandler(svc)
	h.Archive = report.NewArchive(blobs, nil)
	h.Exports = report.NewExportWorker(h.Archive, 4, nil)
	h.Activity = tracer
	h.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	h.now = func() time.Time { return time.Date(2024, 3, 12, 14, 5, 9, 0, time.UTC) }
	return fixture{handler: h, blobs: blobs}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f fixture) login(t *testing.T) {
	t.Helper()
	if rec := f.do(t, http.MethodPost, "/api/v1/session", `{"username":"admin","password":"admin"}`); rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestSessionGate(t *testing.T) {
	f := newFixture(t)
	if rec := f.do(t, http.MethodGet, "/api/v1/desktop", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, "/api/v1/session", `{"username":"admin","password":"nope"}`)
	if rec.Code != http.StatusUnauthorized || decode(t, rec)["error"] != "Invalid credentials. Please try again." {
		t.Fatalf("unexpected bad login response %d %s", rec.Code, rec.Body.String())
	}
	f.login(t)
	if rec := f.do(t, http.MethodGet, "/api/v1/session", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected current session, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, "/api/v1/session", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("logout: %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/kpi/records", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestRecordLifecycle(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	rec := f.do(t, http.MethodPost, "/api/v1/apps/engineering-repairs/records", `{"equipment":"Oven 7","priority":"critical"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: %d %s", rec.Code, rec.Body.String())
	}
	added := decode(t, rec)["result"].(map[string]any)["record"].(map[string]any)
	id := added["id"].(string)
	if id == "" || added["status"] != "pending" {
		t.Fatalf("unexpected added record %v", added)
	}

	rec = f.do(t, http.MethodGet, "/api/v1/apps/engineering-repairs/records", "")
	body := decode(t, rec)
	if n := len(body["records"].([]any)); n != 3 {
		t.Fatalf("expected 3 repairs, got %d", n)
	}
	badges := body["badges"].([]any)
	if badges[0].(map[string]any)["value"] != "1" {
		t.Fatalf("expected 1 critical, got %v", badges)
	}

	if rec := f.do(t, http.MethodPut, "/api/v1/apps/engineering-repairs/records/"+id, `{"status":"completed"}`); rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodDelete, "/api/v1/apps/engineering-repairs/records/"+id, "")
	if decode(t, rec)["result"].(map[string]any)["changed"] != false {
		t.Fatalf("delete without confirm must not remove")
	}
	rec = f.do(t, http.MethodDelete, "/api/v1/apps/engineering-repairs/records/"+id+"?confirm=true", "")
	if decode(t, rec)["result"].(map[string]any)["changed"] != true {
		t.Fatalf("confirmed delete should remove")
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/apps/engineering-repairs/records", `{"equipment":`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for broken JSON, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/improvements/records", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown app, got %d", rec.Code)
	}
}

func TestFormEndpoints(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	base := "/api/v1/apps/users/form"
	if rec := f.do(t, http.MethodPost, base+"?edit=1", ""); rec.Code != http.StatusOK {
		t.Fatalf("begin edit: %d %s", rec.Code, rec.Body.String())
	}
	if rec := f.do(t, http.MethodPost, base, ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 while editing, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPatch, base, `{"department":"Night Shift"}`); rec.Code != http.StatusOK {
		t.Fatalf("patch: %d", rec.Code)
	}
	rec := f.do(t, http.MethodPost, base+"/confirm", "")
	result := decode(t, rec)["result"].(map[string]any)
	if result["record"].(map[string]any)["department"] != "Night Shift" {
		t.Fatalf("unexpected confirm result %v", result)
	}
	if rec := f.do(t, http.MethodPost, base+"/confirm", ""); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 confirming a closed form, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, base+"?edit=missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 editing missing record, got %d", rec.Code)
	}
}

func TestWindowAndDesktop(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	if rec := f.do(t, http.MethodPost, "/api/v1/desktop/start-menu", ""); decode(t, rec)["startMenuOpen"] != true {
		t.Fatalf("expected start menu open")
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/apps/inventory/launch", ""); rec.Code != http.StatusOK {
		t.Fatalf("launch: %d", rec.Code)
	}
	desktop := decode(t, f.do(t, http.MethodGet, "/api/v1/desktop", ""))
	if desktop["desktop"].(map[string]any)["startMenuOpen"] != false || len(desktop["taskbar"].([]any)) != 1 {
		t.Fatalf("unexpected desktop %v", desktop)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/inventory/open", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodPost, "/api/v1/apps/improvements/open", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	activity := decode(t, f.do(t, http.MethodGet, "/api/v1/activity", ""))
	if len(activity["activity"].([]any)) == 0 {
		t.Fatalf("expected traced activity")
	}
	filtered := decode(t, f.do(t, http.MethodGet, "/api/v1/activity?app=improvements", ""))["activity"].([]any)
	if len(filtered) != 1 || filtered[0].(map[string]any)["status"] != "error" {
		t.Fatalf("expected one failed improvements entry, got %v", filtered)
	}
	if none := decode(t, f.do(t, http.MethodGet, "/api/v1/activity?app=users", ""))["activity"].([]any); len(none) != 0 {
		t.Fatalf("expected no users activity, got %v", none)
	}
}

func TestPrintArchivesAndViews(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	rec := f.do(t, http.MethodGet, "/api/v1/apps/inventory/print", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Inventory Count Report") {
		t.Fatalf("print html: %d %s", rec.Code, rec.Body.String())
	}
	rec = f.do(t, http.MethodGet, "/api/v1/apps/inventory/print?format=xlsx", "")
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "inventory-20240312T140509Z.xlsx") {
		t.Fatalf("unexpected disposition %q", got)
	}
	wb, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	_ = wb.Close()
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/inventory/print?format=pdf", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for pdf, got %d", rec.Code)
	}
	reports := decode(t, f.do(t, http.MethodGet, "/api/v1/apps/inventory/reports", ""))
	if len(reports["reports"].([]any)) != 2 {
		t.Fatalf("expected two archived reports, got %v", reports)
	}
	rec = f.do(t, http.MethodGet, "/api/v1/apps/inventory/view", "")
	if !strings.Contains(rec.Header().Get("Content-Type"), "text/html") || !strings.Contains(rec.Body.String(), `id="inventory-content"`) {
		t.Fatalf("unexpected view %s", rec.Body.String())
	}
}

func TestExportsAndMetrics(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.handler.Exports.Start()
	defer func() { _ = f.handler.Exports.Stop(context.Background()) }()

	rec := f.do(t, http.MethodPost, "/api/v1/apps/kpi/exports", `{"formats":["csv"]}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("export: %d %s", rec.Code, rec.Body.String())
	}
	id := decode(t, rec)["export"].(map[string]any)["id"].(string)
	deadline := time.Now().Add(5 * time.Second)
	for {
		status := decode(t, f.do(t, http.MethodGet, "/api/v1/exports/"+id, ""))["export"].(map[string]any)["status"]
		if status == "succeeded" {
			break
		}
		if status == "failed" || time.Now().After(deadline) {
			t.Fatalf("export did not succeed: %v", status)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/exports/unknown", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	f.do(t, http.MethodPost, "/api/v1/apps/kpi/open", "")
	rec = f.do(t, http.MethodGet, "/metrics", "")
	if !strings.Contains(rec.Body.String(), `warburtons_commands_total`) {
		t.Fatalf("metrics missing dispatch counter:\n%s", rec.Body.String())
	}
}

func TestArchivedReportDownloadAndDelete(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/engineering-repairs/print?format=csv", ""); rec.Code != http.StatusOK {
		t.Fatalf("print csv: %d", rec.Code)
	}
	reports := decode(t, f.do(t, http.MethodGet, "/api/v1/apps/engineering-repairs/reports", ""))["reports"].([]any)
	if len(reports) != 1 {
		t.Fatalf("expected one archived report, got %v", reports)
	}
	key := reports[0].(map[string]any)["key"].(string)
	name := key[strings.LastIndex(key, "/")+1:]
	base := "/api/v1/apps/engineering-repairs/reports/" + name

	rec := f.do(t, http.MethodGet, base, "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "text/csv" {
		t.Fatalf("download: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), name) || !strings.Contains(rec.Body.String(), "Equipment") {
		t.Fatalf("unexpected download %q %s", rec.Header().Get("Content-Disposition"), rec.Body.String())
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/inventory/reports/"+name, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another app's report, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, "/api/v1/apps/engineering-repairs/reports/..", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for traversal name, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, base, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := f.do(t, http.MethodDelete, base, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", rec.Code)
	}
	if rec := f.do(t, http.MethodGet, base, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}
