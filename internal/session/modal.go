// Package session holds the transient create/edit state of an entity form.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/stwalsh4118/orgdesk/internal/validation"
)

// Mode is the kind of edit a modal is open for.
type Mode string

// Modal modes. ModeClosed means no session is active.
const (
	ModeClosed Mode = ""
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// ErrClosed is returned by Submit when no session is open.
var ErrClosed = errors.New("modal is not open")

// Modal is an optional edit session over rows of type T.
type Modal[T any] struct {
	mu     sync.Mutex
	target *T
	mode   Mode
}

// OpenCreate starts a session for a new row.
func (m *Modal[T]) OpenCreate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode, m.target = ModeCreate, nil
}

// OpenEdit starts a session editing row.
func (m *Modal[T]) OpenEdit(row T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode, m.target = ModeEdit, &row
}

// Open reports whether a session is active.
func (m *Modal[T]) Open() bool {
	return m.Mode() != ModeClosed
}

// Mode returns the current mode.
func (m *Modal[T]) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Target returns the row being edited, or false outside edit mode.
func (m *Modal[T]) Target() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.target == nil {
		var zero T
		return zero, false
	}
	return *m.target, true
}

// Cancel closes the session without submitting.
func (m *Modal[T]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode, m.target = ModeClosed, nil
}

// Submit validates draft and passes it to fn with the edited row, if any.
// A draft that fails validation is never sent. On any failure the session
// stays open and the error is returned; on success it closes.
func Submit[T, D any](ctx context.Context, m *Modal[T], draft D, fn func(ctx context.Context, target *T, draft D) error) error {
	m.mu.Lock()
	mode, target := m.mode, m.target
	m.mu.Unlock()

	if mode == ModeClosed {
		return ErrClosed
	}
	if err := validation.Struct(draft); err != nil {
		return err
	}
	if err := fn(ctx, target, draft); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == mode && m.target == target {
		m.mode, m.target = ModeClosed, nil
	}
	return nil
}
