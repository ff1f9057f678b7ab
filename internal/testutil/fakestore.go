// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

var _ store.TaskStore = (*FakeStore)(nil)

// FakeStore is an in-memory implementation of store.TaskStore for testing.
type FakeStore struct {
	mu     sync.RWMutex
	tasks  []model.Task
	closed bool

	// Error injection for testing
	AddErr          error
	ListAllErr      error
	UpdateStatusErr error
	UpdateFieldsErr error
	ToggleStatusErr error
	DeleteErr       error
	CloseErr        error

	// Calls counts every invocation by operation name.
	Calls map[string]int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{Calls: make(map[string]int)}
}

// Seed appends tasks as if they had been persisted, assigning ids to those
// without one. It returns the stored copies.
func (f *FakeStore) Seed(tasks ...model.Task) []model.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			t.ID = store.NewID()
		}
		f.tasks = append(f.tasks, t)
		out = append(out, t)
	}
	return out
}

// Tasks returns a copy of the current contents.
func (f *FakeStore) Tasks() []model.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Closed reports whether Close was called.
func (f *FakeStore) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

func (f *FakeStore) record(op string) {
	f.Calls[op]++
}

func (f *FakeStore) index(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Add implements store.TaskStore.
func (f *FakeStore) Add(ctx context.Context, t *model.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("add")
	if f.AddErr != nil {
		return f.AddErr
	}
	stored := *t
	stored.ID = store.NewID()
	stored.Completed = false
	f.tasks = append(f.tasks, stored)
	*t = stored
	return nil
}

// ListAll implements store.TaskStore.
func (f *FakeStore) ListAll(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list")
	if f.ListAllErr != nil {
		return nil, f.ListAllErr
	}
	out := make([]model.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// UpdateStatus implements store.TaskStore.
func (f *FakeStore) UpdateStatus(ctx context.Context, id string, completed bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_status")
	if f.UpdateStatusErr != nil {
		return false, f.UpdateStatusErr
	}
	if !store.ValidID(id) {
		return false, nil
	}
	i := f.index(id)
	if i < 0 || f.tasks[i].Completed == completed {
		return false, nil
	}
	f.tasks[i].Completed = completed
	return true, nil
}

// UpdateFields implements store.TaskStore.
func (f *FakeStore) UpdateFields(ctx context.Context, id string, fields model.Fields) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("update_fields")
	if f.UpdateFieldsErr != nil {
		return false, f.UpdateFieldsErr
	}
	if fields.Empty() || !store.ValidID(id) {
		return false, nil
	}
	i := f.index(id)
	if i < 0 {
		return false, nil
	}
	before := f.tasks[i]
	fields.Apply(&f.tasks[i])
	return f.tasks[i] != before, nil
}

// ToggleStatus implements store.TaskStore.
func (f *FakeStore) ToggleStatus(ctx context.Context, id string) (model.Task, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("toggle_status")
	if f.ToggleStatusErr != nil {
		return model.Task{}, false, f.ToggleStatusErr
	}
	if !store.ValidID(id) {
		return model.Task{}, false, nil
	}
	i := f.index(id)
	if i < 0 {
		return model.Task{}, false, nil
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	return f.tasks[i], true, nil
}

// Delete implements store.TaskStore.
func (f *FakeStore) Delete(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete")
	if f.DeleteErr != nil {
		return false, f.DeleteErr
	}
	if !store.ValidID(id) {
		return false, nil
	}
	i := f.index(id)
	if i < 0 {
		return false, nil
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return true, nil
}

// Close implements store.TaskStore.
func (f *FakeStore) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("close")
	f.closed = true
	return f.CloseErr
}
