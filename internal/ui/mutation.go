package ui

import (
	"context"
	"errors"

	"slgps/internal/api"
)

// Form drives a create/edit overlay for one entity. Values are seeded
// from the target entity on edit or a type-specific default on create.
// On success the form closes and the owning list is re-fetched in full
// rather than merged locally.
type Form[T any] struct {
	Values T

	submitting bool
	open       bool
	errMsg     string

	onSaved func()
}

// NewForm opens a form seeded with the given values. onSaved runs after
// a successful submit, typically a full list re-fetch.
func NewForm[T any](seed T, onSaved func()) *Form[T] {
	return &Form[T]{Values: seed, open: true, onSaved: onSaved}
}

// Submit runs the save call. While it runs the submit control is
// disabled. Validation failures flatten into one display string and
// leave the form open for a retry.
func (f *Form[T]) Submit(ctx context.Context, save func(context.Context, T) error) {
	if f.submitting || !f.open {
		return
	}
	f.submitting = true
	f.errMsg = ""

	err := save(ctx, f.Values)
	f.submitting = false

	if err != nil {
		var ve *api.ValidationError
		if errors.As(err, &ve) {
			f.errMsg = ve.Flatten()
		} else {
			f.errMsg = err.Error()
		}
		return
	}

	f.open = false
	if f.onSaved != nil {
		f.onSaved()
	}
}

// Open reports whether the overlay is still shown.
func (f *Form[T]) Open() bool { return f.open }

// Submitting reports whether a save is in flight.
func (f *Form[T]) Submitting() bool { return f.submitting }

// Error returns the flattened error from the last failed submit.
func (f *Form[T]) Error() string { return f.errMsg }

// Cancel closes the form without saving.
func (f *Form[T]) Cancel() { f.open = false }

// DeleteFlow enforces the confirm-before-delete rule: the DELETE call
// never fires before Confirm, and the row is removed from local state
// only after the server confirms.
type DeleteFlow struct {
	pendingID int64
	pending   bool
	errMsg    string

	del      func(context.Context, int64) error
	onDelete func(id int64)
}

// NewDeleteFlow wires a delete call and a local-state removal callback.
func NewDeleteFlow(del func(context.Context, int64) error, onDelete func(id int64)) *DeleteFlow {
	return &DeleteFlow{del: del, onDelete: onDelete}
}

// Request opens the confirmation dialog for one row. Nothing is deleted
// yet.
func (d *DeleteFlow) Request(id int64) {
	d.pendingID = id
	d.pending = true
	d.errMsg = ""
}

// Pending reports whether a confirmation dialog is open, and for which
// row.
func (d *DeleteFlow) Pending() (int64, bool) {
	return d.pendingID, d.pending
}

// Confirm fires the DELETE. On success the row is removed from local
// state; on failure it stays and the error surfaces.
func (d *DeleteFlow) Confirm(ctx context.Context) error {
	if !d.pending {
		return nil
	}
	id := d.pendingID
	d.pending = false

	if err := d.del(ctx, id); err != nil {
		d.errMsg = err.Error()
		return err
	}
	if d.onDelete != nil {
		d.onDelete(id)
	}
	return nil
}

// Cancel closes the confirmation dialog without deleting.
func (d *DeleteFlow) Cancel() {
	d.pending = false
}

// Error returns the message from the last failed delete.
func (d *DeleteFlow) Error() string { return d.errMsg }
