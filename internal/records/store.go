// Package records holds the per-app record stores and their edit forms.
//
// A Store keeps one app's ordered record list in memory and writes the whole
// list back to the key-value backend after every mutation. Reads fall back to
// the app's seed list whenever the stored payload is missing or unusable.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"warburtonsos/internal/kv"
	"warburtonsos/pkg/domain"
)

// Source reports where a Load obtained its records.
type Source string

const (
	// SourceStored means the list was decoded from the backend.
	SourceStored Source = "stored"
	// SourceSeed means the seed list replaced a missing or unusable payload.
	SourceSeed Source = "seed"
	// SourceUnavailable means the backend read failed. The seed list is
	// served but not written back, so the stored payload is left intact.
	SourceUnavailable Source = "unavailable"
)

// maxIDAttempts bounds id re-draws on collision.
const maxIDAttempts = 8

var (
	// ErrRecordNotFound is returned when an id does not match any record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrNoBackend is returned by Open when no key-value store is supplied.
	ErrNoBackend = errors.New("records: key-value store required")
)

// Confirmer answers the interactive question asked before a delete.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// AlwaysConfirm accepts every prompt.
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
	// NeverConfirm declines every prompt.
	NeverConfirm Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Option configures a Store.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// WithLogger routes store diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the clock used for seed and blank timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// Store owns the record list of one app.
type Store[T any] struct {
	kind    domain.Kind[T]
	backend kv.Store
	opts    options

	mu    sync.RWMutex
	items []T
	used  map[string]struct{}
}

// Open binds a store for kind to backend and hydrates it.
func Open[T any](ctx context.Context, kind domain.Kind[T], backend kv.Store, opts ...Option) (*Store[T], error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Store[T]{
		kind:    kind,
		backend: backend,
		opts:    o,
		used:    make(map[string]struct{}),
	}
	s.Load(ctx)
	return s, nil
}

// Kind returns the descriptor the store was opened with.
func (s *Store[T]) Kind() domain.Kind[T] { return s.kind }

// Load replaces the in-memory list with the stored payload. A missing key, a
// backend error, invalid JSON or a JSON null all yield the seed list. The
// hydrated list is written back so the backend always holds what is shown,
// except after a failed read, where the stored payload may still be good.
func (s *Store[T]) Load(ctx context.Context) Source {
	items, src := s.read(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	for _, rec := range items {
		s.used[s.kind.ID(rec)] = struct{}{}
	}
	if src == SourceUnavailable {
		return src
	}
	if err := s.persistLocked(ctx); err != nil {
		s.opts.logger.Warn("write back hydrated records", zap.String("app", string(s.kind.App)), zap.Error(err))
	}
	return src
}

func (s *Store[T]) read(ctx context.Context) ([]T, Source) {
	log := s.opts.logger.With(zap.String("app", string(s.kind.App)), zap.String("key", s.kind.Key))
	payload, ok, err := s.backend.Get(ctx, s.kind.Key)
	switch {
	case err != nil:
		log.Warn("read records failed, using seed", zap.Error(err))
		return s.kind.SeedList(s.opts.now()), SourceUnavailable
	case !ok:
		log.Debug("no stored records, using seed")
		return s.kind.SeedList(s.opts.now()), SourceSeed
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		log.Warn("stored records unparseable, using seed", zap.Error(err))
		return s.kind.SeedList(s.opts.now()), SourceSeed
	}
	// `[]` decodes to an empty non-nil slice; only `null` leaves items nil
	if items == nil {
		log.Warn("stored records null, using seed")
		return s.kind.SeedList(s.opts.now()), SourceSeed
	}
	return items, SourceStored
}

// List returns clones of every record in order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, rec := range s.items {
		out[i] = s.kind.Clone(rec)
	}
	return out
}

// Len returns the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns a clone of the record with id.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.kind.Clone(s.items[i]), true
	}
	var zero T
	return zero, false
}

// Blank returns the add-form defaults for this app.
func (s *Store[T]) Blank() T { return s.kind.Blank(s.opts.now()) }

// Add appends draft under a fresh, never used id and persists the list. The
// in-memory list keeps the new record even when the write fails.
func (s *Store[T]) Add(ctx context.Context, draft T) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.freshIDLocked()
	if err != nil {
		var zero T
		return zero, err
	}
	rec := s.kind.Clone(draft)
	s.kind.SetID(&rec, id)
	s.items = append(s.items, rec)
	s.used[id] = struct{}{}
	s.opts.logger.Debug("record added", zap.String("app", string(s.kind.App)), zap.String("id", id))
	return s.kind.Clone(rec), s.persistLocked(ctx)
}

// Update replaces the record matching id wholesale. It returns false, with no
// write, when id is unknown.
func (s *Store[T]) Update(ctx context.Context, id string, rec T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		s.opts.logger.Debug("update ignored, unknown id", zap.String("app", string(s.kind.App)), zap.String("id", id))
		return false, nil
	}
	next := s.kind.Clone(rec)
	s.kind.SetID(&next, id)
	s.items[i] = next
	return true, s.persistLocked(ctx)
}

// Remove deletes the record matching id once confirm accepts the app's delete
// prompt. A declined prompt or unknown id leaves the list untouched and
// returns false.
func (s *Store[T]) Remove(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	if confirm == nil {
		confirm = NeverConfirm
	}
	s.mu.RLock()
	exists := s.indexLocked(id) >= 0
	s.mu.RUnlock()
	if !exists {
		return false, nil
	}
	if !confirm.Confirm(s.kind.DeletePrompt()) {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.opts.logger.Debug("record removed", zap.String("app", string(s.kind.App)), zap.String("id", id))
	return true, s.persistLocked(ctx)
}

// Reset restores the seed list and persists it.
func (s *Store[T]) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.kind.SeedList(s.opts.now())
	for _, rec := range s.items {
		s.used[s.kind.ID(rec)] = struct{}{}
	}
	return s.persistLocked(ctx)
}

func (s *Store[T]) indexLocked(id string) int {
	for i, rec := range s.items {
		if s.kind.ID(rec) == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) freshIDLocked() (string, error) {
	for range maxIDAttempts {
		id := s.opts.newID()
		if id == "" {
			continue
		}
		if _, taken := s.used[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("%s: could not allocate unused id", s.kind.App)
}

func (s *Store[T]) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.kind.Key, err)
	}
	if err := s.backend.Put(ctx, s.kind.Key, payload); err != nil {
		return fmt.Errorf("persist %s: %w", s.kind.Key, err)
	}
	return nil
}
