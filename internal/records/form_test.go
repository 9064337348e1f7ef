package records

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"warburtonsos/internal/kv"
	"warburtonsos/pkg/domain"
)

func TestFormAddCycle(t *testing.T) {
	s := openRepairs(t, kv.NewMemory(), WithIDGenerator(sequenceIDs("r-9")))
	f := NewForm(s)
	if f.State() != FormClosed {
		t.Fatalf("new form should be closed")
	}
	buf, err := f.BeginAdd()
	if err != nil {
		t.Fatalf("begin add: %v", err)
	}
	if buf.Priority != domain.PriorityMedium || buf.Status != domain.RepairPending {
		t.Fatalf("unexpected blank buffer %+v", buf)
	}
	if f.State() != FormAdding {
		t.Fatalf("expected adding, got %s", f.State())
	}
	if _, err := f.BeginEdit("1"); !errors.Is(err, ErrFormBusy) {
		t.Fatalf("expected ErrFormBusy, got %v", err)
	}
	if _, err := f.Edit(func(r *domain.Repair) error { r.Equipment = "Slicer"; return nil }); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("buffer edits must not reach the store")
	}
	rec, err := f.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if rec.ID != "r-9" || rec.Equipment != "Slicer" {
		t.Fatalf("unexpected confirmed record %+v", rec)
	}
	if f.State() != FormClosed || s.Len() != 3 {
		t.Fatalf("expected closed form and 3 records, got %s/%d", f.State(), s.Len())
	}
	if _, ok := f.Buffer(); ok {
		t.Fatalf("closed form should have no buffer")
	}
}

func TestFormEditCycleUsesCopy(t *testing.T) {
	s := openRepairs(t, kv.NewMemory())
	f := NewForm(s)
	buf, err := f.BeginEdit("1")
	if err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	buf.Parts[0] = "aliased?"
	if _, err := f.Edit(func(r *domain.Repair) error {
		r.Priority = domain.PriorityCritical
		r.Status = domain.RepairCompleted
		r.Parts[1] = "New Seal Kit"
		r.ID = "hijack"
		return nil
	}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	stored, _ := s.Get("1")
	if stored.Priority != domain.PriorityHigh || stored.Parts[0] != "Main Bearing Assembly" || stored.Parts[1] != "Seal Kit" {
		t.Fatalf("store changed before confirm: %+v", stored)
	}
	if f.Target() != "1" || f.State() != FormEditing {
		t.Fatalf("unexpected form state %s/%s", f.State(), f.Target())
	}
	rec, err := f.Confirm(context.Background())
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if rec.ID != "1" || rec.Status != domain.RepairCompleted || rec.Parts[1] != "New Seal Kit" {
		t.Fatalf("unexpected confirmed record %+v", rec)
	}
	if s.Len() != 2 {
		t.Fatalf("edit must not change list length")
	}
}

func TestFormCancelDiscardsBuffer(t *testing.T) {
	s := openRepairs(t, kv.NewMemory())
	before := s.List()
	f := NewForm(s)
	if _, err := f.BeginEdit("2"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	_, _ = f.Edit(func(r *domain.Repair) error { r.Notes = "discard me"; return nil })
	f.Cancel()
	if f.State() != FormClosed || f.Target() != "" {
		t.Fatalf("cancel should close the form")
	}
	if diff := cmp.Diff(before, s.List()); diff != "" {
		t.Fatalf("cancel touched the store:\n%s", diff)
	}
	if _, err := f.BeginAdd(); err != nil {
		t.Fatalf("form should reopen after cancel: %v", err)
	}
}

func TestFormClosedAndMissingErrors(t *testing.T) {
	s := openRepairs(t, kv.NewMemory())
	f := NewForm(s)
	if _, err := f.Edit(func(*domain.Repair) error { return nil }); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed on edit, got %v", err)
	}
	if _, err := f.Confirm(context.Background()); !errors.Is(err, ErrFormClosed) {
		t.Fatalf("expected ErrFormClosed on confirm, got %v", err)
	}
	if _, err := f.BeginEdit("404"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if f.State() != FormClosed {
		t.Fatalf("failed begin must leave form closed")
	}
	_, _ = f.BeginAdd()
	boom := errors.New("rejected")
	if _, err := f.Edit(func(r *domain.Repair) error { r.Equipment = "half"; return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected edit error, got %v", err)
	}
	buf, _ := f.Buffer()
	if buf.Equipment != "" {
		t.Fatalf("failed edit must leave buffer unchanged, got %q", buf.Equipment)
	}
}

func TestFormConfirmEditOfRemovedRecord(t *testing.T) {
	ctx := context.Background()
	s := openRepairs(t, kv.NewMemory())
	f := NewForm(s)
	if _, err := f.BeginEdit("1"); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if removed, err := s.Remove(ctx, "1", AlwaysConfirm); err != nil || !removed {
		t.Fatalf("remove: removed=%v err=%v", removed, err)
	}
	rec, err := f.Confirm(ctx)
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
	if rec.ID != "" {
		t.Fatalf("expected zero record, got %+v", rec)
	}
	if f.State() != FormClosed || s.Len() != 1 {
		t.Fatalf("expected closed form and 1 record, got %s/%d", f.State(), s.Len())
	}
}
