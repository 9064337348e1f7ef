package records

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// FormState is the edit form's position in its closed/adding/editing cycle.
type FormState string

const (
	FormClosed  FormState = "closed"
	FormAdding  FormState = "adding"
	FormEditing FormState = "editing"
)

var (
	// ErrFormBusy is returned when a buffer is already open.
	ErrFormBusy = errors.New("form already has an open buffer")
	// ErrFormClosed is returned when an edit or confirm arrives with no buffer.
	ErrFormClosed = errors.New("form is closed")
)

// Form is the single edit buffer of one app. The buffer is always a copy;
// nothing reaches the store until Confirm.
type Form[T any] struct {
	store *Store[T]

	mu     sync.Mutex
	state  FormState
	buffer T
	target string
}

// NewForm returns a closed form bound to store.
func NewForm[T any](store *Store[T]) *Form[T] {
	return &Form[T]{store: store, state: FormClosed}
}

// State reports the current form state.
func (f *Form[T]) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Target returns the id being edited, empty unless editing.
func (f *Form[T]) Target() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target
}

// Buffer returns a copy of the open buffer.
func (f *Form[T]) Buffer() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormClosed {
		var zero T
		return zero, false
	}
	return f.store.kind.Clone(f.buffer), true
}

// BeginAdd opens the buffer on the app's blank defaults.
func (f *Form[T]) BeginAdd() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormClosed {
		var zero T
		return zero, ErrFormBusy
	}
	f.state = FormAdding
	f.buffer = f.store.Blank()
	f.target = ""
	return f.store.kind.Clone(f.buffer), nil
}

// BeginEdit opens the buffer on a copy of the record with id.
func (f *Form[T]) BeginEdit(id string) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	if f.state != FormClosed {
		return zero, ErrFormBusy
	}
	rec, ok := f.store.Get(id)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	f.state = FormEditing
	f.buffer = rec
	f.target = id
	return f.store.kind.Clone(f.buffer), nil
}

// Edit applies fn to the buffer. A failing fn leaves the buffer unchanged.
func (f *Form[T]) Edit(fn func(*T) error) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	if f.state == FormClosed {
		return zero, ErrFormClosed
	}
	next := f.store.kind.Clone(f.buffer)
	if err := fn(&next); err != nil {
		return zero, err
	}
	f.buffer = next
	return f.store.kind.Clone(f.buffer), nil
}

// Confirm writes the buffer through the store (Add when adding, Update when
// editing) and closes the form. The returned record is what the store holds.
// Confirming an edit whose target was removed meanwhile closes the form and
// returns ErrRecordNotFound.
func (f *Form[T]) Confirm(ctx context.Context) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var zero T
	switch f.state {
	case FormAdding:
		rec, err := f.store.Add(ctx, f.buffer)
		f.closeLocked()
		return rec, err
	case FormEditing:
		id := f.target
		buf := f.buffer
		f.closeLocked()
		changed, err := f.store.Update(ctx, id, buf)
		if err != nil {
			return zero, err
		}
		rec, ok := f.store.Get(id)
		if !changed || !ok {
			return zero, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
		}
		return rec, nil
	default:
		return zero, ErrFormClosed
	}
}

// Cancel discards any buffer and closes the form.
func (f *Form[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
}

func (f *Form[T]) closeLocked() {
	var zero T
	f.state = FormClosed
	f.buffer = zero
	f.target = ""
}
