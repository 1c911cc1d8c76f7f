// Package interaction holds the per-screen controllers: dialogs, selections
// and the notification queue that report mutation outcomes.
package interaction

import (
	"context"
	"errors"
	"sync"
)

// ErrDialogNotOpen is returned when submitting a dialog that is closed or already submitting.
var ErrDialogNotOpen = errors.New("dialog is not open")

// DialogState is the state of a Dialog.
type DialogState int

const (
	DialogClosed DialogState = iota
	DialogOpen
	DialogSubmitting
)

func (s DialogState) String() string {
	switch s {
	case DialogOpen:
		return "open"
	case DialogSubmitting:
		return "submitting"
	}
	return "closed"
}

// Mode tells whether an open dialog creates or edits.
type Mode int

const (
	ModeNew Mode = iota
	ModeEdit
)

// Dialog is the create/edit form state machine:
//
//	Closed -> Open(New|Edit) -> Submitting -> Closed   (mutation succeeded)
//	                                       -> Open     (validation or mutation failed)
type Dialog[T any] struct {
	mu      sync.Mutex
	state   DialogState
	mode    Mode
	target  T
	message string
}

// OpenNew opens the dialog for a new entity.
func (d *Dialog[T]) OpenNew() {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	d.state, d.mode, d.target, d.message = DialogOpen, ModeNew, zero, ""
}

// OpenEdit opens the dialog for an existing entity.
func (d *Dialog[T]) OpenEdit(entity T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state, d.mode, d.target, d.message = DialogOpen, ModeEdit, entity, ""
}

// Close discards the dialog.
func (d *Dialog[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	d.state, d.mode, d.target, d.message = DialogClosed, ModeNew, zero, ""
}

// State returns the current dialog state.
func (d *Dialog[T]) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Mode reports whether the dialog creates or edits.
func (d *Dialog[T]) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Target returns the entity being edited. ok is false in ModeNew.
func (d *Dialog[T]) Target() (target T, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target, d.state != DialogClosed && d.mode == ModeEdit
}

// Message returns the inline validation message, if any.
func (d *Dialog[T]) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// Submit validates, then runs mutate. A validation error keeps the dialog open
// with an inline message and never calls mutate. A mutation error reopens the
// dialog; success closes it.
func (d *Dialog[T]) Submit(ctx context.Context, validate func() error, mutate func(ctx context.Context, mode Mode, target T) error) error {
	d.mu.Lock()
	if d.state != DialogOpen {
		d.mu.Unlock()
		return ErrDialogNotOpen
	}
	if err := validate(); err != nil {
		d.message = err.Error()
		d.mu.Unlock()
		return err
	}
	d.state = DialogSubmitting
	d.message = ""
	mode, target := d.mode, d.target
	d.mu.Unlock()

	err := mutate(ctx, mode, target)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = DialogOpen
		return err
	}
	var zero T
	d.state, d.mode, d.target = DialogClosed, ModeNew, zero
	return nil
}
