// Package store defines the task persistence contract shared by every backend.
package store

import (
	"context"
	"errors"

	"github.com/idilsaglam/tasks/internal/model"
)

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store is closed")

// TaskStore is a façade over a single collection of tasks.
//
// Malformed ids are never an error: the mutating calls report them as
// false (no document touched). Errors are reserved for backend failures.
type TaskStore interface {
	// Add inserts t, assigns its ID and always persists Completed=false.
	Add(ctx context.Context, t *model.Task) error

	// ListAll returns every task in the backend's natural order.
	ListAll(ctx context.Context) ([]model.Task, error)

	// UpdateStatus sets the completion flag. Reports whether exactly one
	// task was modified; writing the current value reports false.
	UpdateStatus(ctx context.Context, id string, completed bool) (bool, error)

	// UpdateFields writes only the non-blank fields. When every field is
	// blank it reports false without writing.
	UpdateFields(ctx context.Context, id string, f model.Fields) (bool, error)

	// ToggleStatus flips the completion flag in a single atomic operation
	// and returns the task as it is after the flip.
	ToggleStatus(ctx context.Context, id string) (model.Task, bool, error)

	// Delete removes the task. Reports whether one was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Close releases the backend.
	Close(ctx context.Context) error
}
