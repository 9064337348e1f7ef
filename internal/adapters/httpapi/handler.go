// Package httpapi exposes the desktop over JSON/HTTP.
package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/core"
	"warburtonsos/internal/records"
	"warburtonsos/internal/report"
	"warburtonsos/internal/session"
	"warburtonsos/internal/shell"
	"warburtonsos/internal/view"
	"warburtonsos/pkg/domain"
)

const (
	apiPrefix  = "/api/v1"
	appsPrefix = apiPrefix + "/apps/"
	maxBody    = 1 << 20
)

// Handler routes API requests to the desktop service.
type Handler struct {
	Service *core.Service
	// Archive, Exports and Activity are optional; their routes answer 404
	// when nil.
	Archive  *report.Archive
	Exports  *report.ExportWorker
	Activity *core.ActivityLog
	Clock    *shell.Clock
	Metrics  http.Handler
	Logger   *zap.Logger

	now func() time.Time
}

// NewHandler constructs a handler for svc.
func NewHandler(svc *core.Service) *Handler {
	return &Handler{Service: svc, Logger: svc.Logger(), now: time.Now}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		writeError(w, http.StatusInternalServerError, "desktop service not configured")
		return
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case path == "/metrics" && h.Metrics != nil:
		h.Metrics.ServeHTTP(w, r)
		return
	case path == apiPrefix+"/session":
		h.handleSession(w, r)
		return
	case !strings.HasPrefix(path, apiPrefix+"/"):
		http.NotFound(w, r)
		return
	}

	user, ok, err := h.Service.Session().Current(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}

	switch {
	case path == apiPrefix+"/desktop":
		h.handleDesktop(w, r)
	case path == apiPrefix+"/desktop/start-menu":
		h.handleStartMenu(w, r)
	case path == apiPrefix+"/activity":
		h.handleActivity(w, r)
	case strings.HasPrefix(path, apiPrefix+"/exports/"):
		h.handleExportStatus(w, r, strings.TrimPrefix(path, apiPrefix+"/exports/"))
	case strings.HasPrefix(path, appsPrefix):
		h.handleApp(w, r, user, strings.TrimPrefix(path, appsPrefix))
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	gate := h.Service.Session()
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		user, err := gate.Login(r.Context(), body.Username, body.Password)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	case http.MethodGet:
		user, ok, err := gate.Current(r.Context())
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if !ok {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": user})
	case http.MethodDelete:
		if err := gate.Logout(r.Context()); err != nil {
			h.writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleDesktop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	payload := map[string]any{
		"desktop": h.Service.Shell().Snapshot(),
		"taskbar": h.Service.Shell().Taskbar(),
	}
	if h.Clock != nil {
		payload["clock"] = h.Clock.Display()
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleStartMenu(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sh := h.Service.Shell()
	if r.URL.Query().Get("close") == "true" {
		sh.CloseStartMenu()
	} else {
		sh.ToggleStartMenu()
	}
	writeJSON(w, http.StatusOK, map[string]any{"startMenuOpen": sh.StartMenuOpen()})
}

func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	if h.Activity == nil {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries := h.Activity.Entries()
	if app := r.URL.Query().Get("app"); app != "" {
		entries = h.Activity.EntriesFor(domain.AppID(app))
	}
	if entries == nil {
		entries = []core.Activity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"activity": entries})
}

func (h *Handler) handleApp(w http.ResponseWriter, r *http.Request, user session.User, remainder string) {
	segments := strings.Split(remainder, "/")
	app := domain.AppID(segments[0])
	if len(segments) == 1 {
		writeError(w, http.StatusNotFound, "app endpoint not found")
		return
	}
	switch segments[1] {
	case string(core.ActionOpen), string(core.ActionClose), string(core.ActionMinimize),
		string(core.ActionToggle), string(core.ActionLaunch):
		if len(segments) != 2 || r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.Action(segments[1])})
	case "records":
		h.handleRecords(w, r, app, segments[2:])
	case "reset":
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionReset})
	case "form":
		h.handleForm(w, r, app, segments[2:])
	case "view":
		h.handleView(w, r, app)
	case "print":
		h.handlePrint(w, r, app)
	case "reports":
		h.handleReports(w, r, app, segments[2:])
	case "exports":
		h.handleExportCreate(w, r, app, user)
	default:
		writeError(w, http.StatusNotFound, "app endpoint not found")
	}
}

func (h *Handler) handleRecords(w http.ResponseWriter, r *http.Request, app domain.AppID, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			m, err := h.Service.Module(app)
			if err != nil {
				h.writeServiceError(w, err)
				return
			}
			table := m.Table()
			writeJSON(w, http.StatusOK, map[string]any{"records": m.Records(), "badges": table.Badges})
		case http.MethodPost:
			payload, err := readBody(r)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			h.dispatch(w, r, http.StatusCreated, core.Command{App: app, Action: core.ActionAdd, Payload: payload})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
		return
	}
	if len(rest) != 1 || rest[0] == "" {
		writeError(w, http.StatusNotFound, "record endpoint not found")
		return
	}
	id := rest[0]
	switch r.Method {
	case http.MethodPut:
		payload, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionUpdate, ID: id, Payload: payload})
	case http.MethodDelete:
		confirmed := r.URL.Query().Get("confirm") == "true"
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionDelete, ID: id, Confirmed: confirmed})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request, app domain.AppID, rest []string) {
	if len(rest) == 1 && rest[0] == "confirm" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionFormConfirm})
		return
	}
	if len(rest) != 0 {
		writeError(w, http.StatusNotFound, "form endpoint not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		m, err := h.Service.Module(app)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"form": m.Form()})
	case http.MethodPost:
		if id := r.URL.Query().Get("edit"); id != "" {
			h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionFormBeginEdit, ID: id})
			return
		}
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionFormBeginAdd})
	case http.MethodPatch:
		payload, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionFormEdit, Payload: payload})
	case http.MethodDelete:
		h.dispatch(w, r, http.StatusOK, core.Command{App: app, Action: core.ActionFormCancel})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request, app domain.AppID) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	m, err := h.Service.Module(app)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := view.RenderPage(&buf, m.Table()); err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handlePrint(w http.ResponseWriter, r *http.Request, app domain.AppID) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.Service.Module(app)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	table := m.Table()
	generated := h.now()
	var buf bytes.Buffer
	if err := report.Render(&buf, table, format, generated); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.Archive.SaveQuietly(r.Context(), table, format, buf.Bytes())

	w.Header().Set("Content-Type", format.ContentType())
	if format != report.FormatHTML {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.Filename(table, format, generated)))
	}
	_, _ = buf.WriteTo(w)
}

func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request, app domain.AppID, rest []string) {
	if h.Archive == nil {
		http.NotFound(w, r)
		return
	}
	if _, err := h.Service.Module(app); err != nil {
		h.writeServiceError(w, err)
		return
	}
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		reports, err := h.Archive.List(r.Context(), app)
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
	case len(rest) == 1 && r.Method == http.MethodGet:
		info, rc, err := h.Archive.Open(r.Context(), app, rest[0])
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		defer func() { _ = rc.Close() }()
		if info.ContentType != "" {
			w.Header().Set("Content-Type", info.ContentType)
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.ReportName(info.Key)))
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, rc); err != nil && h.Logger != nil {
			h.Logger.Warn("stream report", zap.String("key", info.Key), zap.Error(err))
		}
	case len(rest) == 1 && r.Method == http.MethodDelete:
		removed, err := h.Archive.Delete(r.Context(), app, rest[0])
		if err != nil {
			h.writeServiceError(w, err)
			return
		}
		if !removed {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case len(rest) > 1:
		writeError(w, http.StatusNotFound, "report not found")
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) handleExportCreate(w http.ResponseWriter, r *http.Request, app domain.AppID, user session.User) {
	if h.Exports == nil {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Formats []report.Format `json:"formats"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	m, err := h.Service.Module(app)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	record, err := h.Exports.Enqueue(m.Table(), body.Formats, user.Username)
	switch {
	case errors.Is(err, report.ErrQueueFull):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"export": record})
}

func (h *Handler) handleExportStatus(w http.ResponseWriter, r *http.Request, id string) {
	if h.Exports == nil || id == "" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	record, ok := h.Exports.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "export not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"export": record})
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, status int, cmd core.Command) {
	res, err := h.Service.Dispatch(r.Context(), cmd)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, status, map[string]any{"result": res})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var notFound core.ErrNotFound
	switch {
	case errors.Is(err, shell.ErrUnknownApp), errors.As(err, &notFound),
		errors.Is(err, records.ErrRecordNotFound), errors.Is(err, blob.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, records.ErrFormBusy), errors.Is(err, records.ErrFormClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidPayload), errors.Is(err, core.ErrUnknownAction),
		errors.Is(err, blob.ErrInvalidKey):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		if h.Logger != nil {
			h.Logger.Error("request failed", zap.Error(err))
		}
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func readBody(r *http.Request) (json.RawMessage, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON payload")
	}
	return data, nil
}

func decodeJSON(r *http.Request, into any) error {
	payload, err := readBody(r)
	if err != nil || payload == nil {
		return err
	}
	if err := json.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
