package store

import (
	"context"

	"github.com/idilsaglam/tasks/internal/logger"
	"github.com/idilsaglam/tasks/internal/model"
)

var _ TaskStore = (*loggingStore)(nil)

type loggingStore struct {
	next TaskStore
	lg   *logger.Logger
}

// WithLogging wraps s so every operation is logged at DEBUG and every
// backend failure at ERROR.
func WithLogging(s TaskStore, lg *logger.Logger) TaskStore {
	return &loggingStore{next: s, lg: lg}
}

func (s *loggingStore) failed(op, id string, err error) {
	s.lg.Error("store operation failed", map[string]any{
		"op":      op,
		"task_id": id,
		"error":   err.Error(),
	})
}

func (s *loggingStore) Add(ctx context.Context, t *model.Task) error {
	if err := s.next.Add(ctx, t); err != nil {
		s.failed("add", "", err)
		return err
	}
	s.lg.Task(t.ID, "add", map[string]any{"priority": string(t.Priority)})
	return nil
}

func (s *loggingStore) ListAll(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.next.ListAll(ctx)
	if err != nil {
		s.failed("list", "", err)
		return nil, err
	}
	s.lg.Debug("tasks listed", map[string]any{"count": len(tasks)})
	return tasks, nil
}

func (s *loggingStore) UpdateStatus(ctx context.Context, id string, completed bool) (bool, error) {
	ok, err := s.next.UpdateStatus(ctx, id, completed)
	if err != nil {
		s.failed("update_status", id, err)
		return false, err
	}
	s.lg.Task(id, "update_status", map[string]any{"completed": completed, "modified": ok})
	return ok, nil
}

func (s *loggingStore) UpdateFields(ctx context.Context, id string, f model.Fields) (bool, error) {
	ok, err := s.next.UpdateFields(ctx, id, f)
	if err != nil {
		s.failed("update_fields", id, err)
		return false, err
	}
	s.lg.Task(id, "update_fields", map[string]any{"fields": len(f.Set()), "modified": ok})
	return ok, nil
}

func (s *loggingStore) ToggleStatus(ctx context.Context, id string) (model.Task, bool, error) {
	t, ok, err := s.next.ToggleStatus(ctx, id)
	if err != nil {
		s.failed("toggle_status", id, err)
		return model.Task{}, false, err
	}
	s.lg.Task(id, "toggle_status", map[string]any{"completed": t.Completed, "matched": ok})
	return t, ok, nil
}

func (s *loggingStore) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.next.Delete(ctx, id)
	if err != nil {
		s.failed("delete", id, err)
		return false, err
	}
	s.lg.Task(id, "delete", map[string]any{"deleted": ok})
	return ok, nil
}

func (s *loggingStore) Close(ctx context.Context) error {
	err := s.next.Close(ctx)
	if err != nil {
		s.failed("close", "", err)
	}
	return err
}
