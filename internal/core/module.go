package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"warburtonsos/internal/kv"
	"warburtonsos/internal/records"
	"warburtonsos/internal/view"
	"warburtonsos/pkg/domain"
)

// Module is the type-erased surface of one mini-app: its record store, edit
// form and list projection.
type Module interface {
	App() domain.AppID
	Title() string
	// StorageKey is the key-value key holding the app's record list.
	StorageKey() string
	Load(ctx context.Context) records.Source
	Records() any
	Len() int
	Table() view.Table
	Add(ctx context.Context, payload json.RawMessage) (any, error)
	Update(ctx context.Context, id string, payload json.RawMessage) (any, bool, error)
	Remove(ctx context.Context, id string, confirm records.Confirmer) (bool, error)
	Reset(ctx context.Context) error
	Form() FormSnapshot
	BeginAdd() (FormSnapshot, error)
	BeginEdit(id string) (FormSnapshot, error)
	EditForm(payload json.RawMessage) (FormSnapshot, error)
	ConfirmForm(ctx context.Context) (any, error)
	CancelForm() FormSnapshot
}

type module[T any] struct {
	store      *records.Store[T]
	form       *records.Form[T]
	projection view.Projection[T]
}

// NewModule adapts a typed store and projection to Module.
func NewModule[T any](store *records.Store[T], projection view.Projection[T]) Module {
	return &module[T]{store: store, form: records.NewForm(store), projection: projection}
}

// OpenModule opens a store for the projection's kind and adapts it.
func OpenModule[T any](ctx context.Context, projection view.Projection[T], backend kv.Store, opts ...records.Option) (Module, error) {
	store, err := records.Open(ctx, projection.Kind, backend, opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", projection.Kind.App, err)
	}
	return NewModule(store, projection), nil
}

func (m *module[T]) App() domain.AppID  { return m.store.Kind().App }
func (m *module[T]) Title() string      { return m.store.Kind().Title }
func (m *module[T]) StorageKey() string { return m.store.Kind().Key }
func (m *module[T]) Len() int           { return m.store.Len() }
func (m *module[T]) Records() any       { return m.store.List() }

func (m *module[T]) Load(ctx context.Context) records.Source { return m.store.Load(ctx) }

func (m *module[T]) Table() view.Table { return m.projection.Project(m.store.List()) }

func (m *module[T]) decode(payload json.RawMessage, into *T) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, into); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}

// Add decodes payload over the app's blank defaults.
func (m *module[T]) Add(ctx context.Context, payload json.RawMessage) (any, error) {
	draft := m.store.Blank()
	if err := m.decode(payload, &draft); err != nil {
		return nil, err
	}
	return m.present(m.store.Add(ctx, draft))
}

// present drops zero records so callers can tell "nothing stored" apart
// from a stored record with a failed write.
func (m *module[T]) present(rec T, err error) (any, error) {
	if m.store.Kind().ID(rec) == "" {
		return nil, err
	}
	return rec, err
}

// Update decodes payload over a copy of the current record, so absent
// fields keep their values. Unknown ids report false with no write.
func (m *module[T]) Update(ctx context.Context, id string, payload json.RawMessage) (any, bool, error) {
	current, ok := m.store.Get(id)
	if !ok {
		return nil, false, nil
	}
	if err := m.decode(payload, &current); err != nil {
		return nil, false, err
	}
	changed, err := m.store.Update(ctx, id, current)
	if err != nil || !changed {
		return nil, changed, err
	}
	rec, _ := m.store.Get(id)
	return rec, true, nil
}

func (m *module[T]) Remove(ctx context.Context, id string, confirm records.Confirmer) (bool, error) {
	return m.store.Remove(ctx, id, confirm)
}

func (m *module[T]) Reset(ctx context.Context) error { return m.store.Reset(ctx) }

func (m *module[T]) Form() FormSnapshot {
	snap := FormSnapshot{State: m.form.State(), Target: m.form.Target()}
	if buf, ok := m.form.Buffer(); ok {
		snap.Buffer = buf
	}
	return snap
}

func (m *module[T]) BeginAdd() (FormSnapshot, error) {
	if _, err := m.form.BeginAdd(); err != nil {
		return m.Form(), err
	}
	return m.Form(), nil
}

func (m *module[T]) BeginEdit(id string) (FormSnapshot, error) {
	if _, err := m.form.BeginEdit(id); err != nil {
		if errors.Is(err, records.ErrRecordNotFound) {
			return m.Form(), ErrNotFound{Entity: m.App(), ID: id}
		}
		return m.Form(), err
	}
	return m.Form(), nil
}

// EditForm merges payload into the open buffer.
func (m *module[T]) EditForm(payload json.RawMessage) (FormSnapshot, error) {
	_, err := m.form.Edit(func(buf *T) error { return m.decode(payload, buf) })
	return m.Form(), err
}

func (m *module[T]) ConfirmForm(ctx context.Context) (any, error) {
	target := m.form.Target()
	rec, err := m.present(m.form.Confirm(ctx))
	if errors.Is(err, records.ErrRecordNotFound) {
		return nil, ErrNotFound{Entity: m.App(), ID: target}
	}
	return rec, err
}

func (m *module[T]) CancelForm() FormSnapshot {
	m.form.Cancel()
	return m.Form()
}
