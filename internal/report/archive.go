package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/view"
	"warburtonsos/pkg/domain"
)

const archivePrefix = "reports/"

// Archive keeps a copy of every printed report in a blob store.
type Archive struct {
	store  blob.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewArchive wraps store. A nil logger discards log output.
func NewArchive(store blob.Store, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{store: store, logger: logger, now: time.Now}
}

// Save writes payload under reports/<app>/<stamp>-<id>.<ext>.
func (a *Archive) Save(ctx context.Context, t view.Table, f Format, payload []byte) (blob.Info, error) {
	stamp := a.now().UTC().Format("20060102T150405Z")
	key := fmt.Sprintf("%s%s/%s-%s.%s", archivePrefix, t.App, stamp, uuid.NewString()[:8], f.Extension())
	info, err := a.store.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
		ContentType: f.ContentType(),
		Metadata: map[string]string{
			"app":    string(t.App),
			"title":  t.Title,
			"format": string(f),
			"rows":   fmt.Sprint(len(t.Rows)),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("archive %s report: %w", t.App, err)
	}
	a.logger.Debug("report archived", zap.String("key", info.Key), zap.Int64("bytes", info.Size))
	return info, nil
}

// SaveQuietly archives payload and only logs a failure. Printing never waits
// on the archive succeeding.
func (a *Archive) SaveQuietly(ctx context.Context, t view.Table, f Format, payload []byte) {
	if a == nil {
		return
	}
	if _, err := a.Save(ctx, t, f, payload); err != nil {
		a.logger.Warn("report archive failed", zap.String("app", string(t.App)), zap.Error(err))
	}
}

// List returns archived reports for app, oldest first. An empty app lists
// every archived report.
func (a *Archive) List(ctx context.Context, app domain.AppID) ([]blob.Info, error) {
	prefix := archivePrefix
	if app != "" {
		prefix += strings.TrimSuffix(string(app), "/") + "/"
	}
	return a.store.List(ctx, prefix)
}

// Open returns the archived report name of app, as listed by List without its
// reports/<app>/ prefix. The caller closes the reader.
func (a *Archive) Open(ctx context.Context, app domain.AppID, name string) (blob.Info, io.ReadCloser, error) {
	key, err := reportKey(app, name)
	if err != nil {
		return blob.Info{}, nil, err
	}
	return a.store.Get(ctx, key)
}

// Delete removes an archived report, reporting whether it existed.
func (a *Archive) Delete(ctx context.Context, app domain.AppID, name string) (bool, error) {
	key, err := reportKey(app, name)
	if err != nil {
		return false, err
	}
	removed, err := a.store.Delete(ctx, key)
	if err != nil {
		return false, fmt.Errorf("delete %s report: %w", app, err)
	}
	if removed {
		a.logger.Debug("report deleted", zap.String("key", key))
	}
	return removed, nil
}

// ReportName strips the archive prefix from a stored key.
func ReportName(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func reportKey(app domain.AppID, name string) (string, error) {
	name = strings.TrimSpace(name)
	if app == "" || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", blob.ErrInvalidKey, name)
	}
	return archivePrefix + string(app) + "/" + name, nil
}
