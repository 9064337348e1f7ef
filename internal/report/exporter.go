package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"warburtonsos/internal/blob"
	"warburtonsos/internal/view"
	"warburtonsos/pkg/domain"
)

// ExportStatus is the lifecycle stage of a queued export.
type ExportStatus string

const (
	ExportQueued    ExportStatus = "queued"
	ExportRunning   ExportStatus = "running"
	ExportSucceeded ExportStatus = "succeeded"
	ExportFailed    ExportStatus = "failed"
)

// ErrQueueFull is returned when the export queue cannot take another job.
var ErrQueueFull = errors.New("export queue full")

// ExportRecord tracks one export request and the archived documents.
type ExportRecord struct {
	ID          string       `json:"id"`
	App         domain.AppID `json:"app"`
	Formats     []Format     `json:"formats"`
	Status      ExportStatus `json:"status"`
	Error       string       `json:"error,omitempty"`
	Artifacts   []blob.Info  `json:"artifacts,omitempty"`
	RequestedBy string       `json:"requestedBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
}

func (r ExportRecord) copy() ExportRecord {
	cp := r
	cp.Formats = slices.Clone(r.Formats)
	cp.Artifacts = slices.Clone(r.Artifacts)
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		cp.CompletedAt = &t
	}
	return cp
}

// ExportWorker renders queued table snapshots in the background and stores
// every document in the archive.
type ExportWorker struct {
	archive *Archive
	logger  *zap.Logger
	now     func() time.Time

	queue chan exportTask
	mu    sync.RWMutex
	jobs  map[string]*ExportRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type exportTask struct {
	id    string
	table view.Table
}

// NewExportWorker builds a worker over archive with room for queueSize
// pending jobs (32 when zero).
func NewExportWorker(archive *Archive, queueSize int, logger *zap.Logger) *ExportWorker {
	if queueSize <= 0 {
		queueSize = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ExportWorker{
		archive: archive,
		logger:  logger,
		now:     time.Now,
		queue:   make(chan exportTask, queueSize),
		jobs:    make(map[string]*ExportRecord),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins processing queued exports.
func (w *ExportWorker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop halts the worker and waits for the current job, bounded by ctx.
func (w *ExportWorker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *ExportWorker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.queue:
			w.process(task)
		}
	}
}

// Enqueue schedules an export of table in formats (HTML when empty). The
// table is a snapshot; later record edits do not change the export.
func (w *ExportWorker) Enqueue(table view.Table, formats []Format, requestedBy string) (ExportRecord, error) {
	if len(formats) == 0 {
		formats = []Format{FormatHTML}
	}
	uniq := make([]Format, 0, len(formats))
	for _, raw := range formats {
		f, err := ParseFormat(string(raw))
		if err != nil {
			return ExportRecord{}, err
		}
		if !slices.Contains(uniq, f) {
			uniq = append(uniq, f)
		}
	}
	now := w.now().UTC()
	record := ExportRecord{
		ID:          uuid.NewString(),
		App:         table.App,
		Formats:     uniq,
		Status:      ExportQueued,
		RequestedBy: requestedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	w.mu.Lock()
	w.jobs[record.ID] = &record
	queued := record.copy()
	w.mu.Unlock()

	select {
	case w.queue <- exportTask{id: record.ID, table: table}:
	default:
		w.mu.Lock()
		delete(w.jobs, record.ID)
		w.mu.Unlock()
		return ExportRecord{}, ErrQueueFull
	}
	w.logger.Info("export queued", zap.String("id", record.ID), zap.String("app", string(table.App)))
	return queued, nil
}

// Get returns a snapshot of the export with id.
func (w *ExportWorker) Get(id string) (ExportRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	record, ok := w.jobs[id]
	if !ok {
		return ExportRecord{}, false
	}
	return record.copy(), true
}

func (w *ExportWorker) process(task exportTask) {
	w.update(task.id, func(r *ExportRecord) { r.Status = ExportRunning })
	record, ok := w.Get(task.id)
	if !ok {
		return
	}
	generated := w.now()
	artifacts := make([]blob.Info, 0, len(record.Formats))
	for _, f := range record.Formats {
		var buf bytes.Buffer
		if err := Render(&buf, task.table, f, generated); err != nil {
			w.fail(task.id, fmt.Sprintf("render %s: %v", f, err))
			return
		}
		info, err := w.archive.Save(w.ctx, task.table, f, buf.Bytes())
		if err != nil {
			w.fail(task.id, err.Error())
			return
		}
		artifacts = append(artifacts, info)
	}
	w.update(task.id, func(r *ExportRecord) {
		r.Status = ExportSucceeded
		r.Error = ""
		r.Artifacts = artifacts
		done := r.UpdatedAt
		r.CompletedAt = &done
	})
	w.logger.Info("export finished", zap.String("id", task.id), zap.Int("artifacts", len(artifacts)))
}

func (w *ExportWorker) fail(id, reason string) {
	w.update(id, func(r *ExportRecord) {
		r.Status = ExportFailed
		r.Error = reason
		done := r.UpdatedAt
		r.CompletedAt = &done
	})
	w.logger.Warn("export failed", zap.String("id", id), zap.String("error", reason))
}

func (w *ExportWorker) update(id string, fn func(*ExportRecord)) {
	now := w.now().UTC()
	w.mu.Lock()
	defer w.mu.Unlock()
	if record, ok := w.jobs[id]; ok {
		record.UpdatedAt = now
		fn(record)
	}
}
