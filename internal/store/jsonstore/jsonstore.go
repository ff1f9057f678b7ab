package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// Every call reloads the file and rewrites it whole; the mutex only
// serializes callers inside one process.

const DefaultFileName = "tasks.json"

var _ store.TaskStore = (*Store)(nil)

// record uses the same keys as the MongoDB documents.
type record struct {
	ID          string `json:"_id"`
	Title       string `json:"titulo"`
	Description string `json:"descricao"`
	Priority    string `json:"prioridade"`
	Completed   bool   `json:"concluida,omitempty"`
}

func (r record) task() model.Task {
	return model.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Priority:    model.Priority(r.Priority),
		Completed:   r.Completed,
	}
}

type Store struct {
	mu     sync.Mutex
	path   string
	closed bool
}

// New returns a store over path. A relative path is resolved against the
// working directory; the file is created on first write.
func New(path string) (*Store, error) {
	if path == "" {
		path = DefaultFileName
	}
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, path)
	}
	return &Store{path: path}, nil
}

// Path is the absolute location of the data file.
func (s *Store) Path() string { return s.path }

func (s *Store) load() ([]record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []record{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var recs []record
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return recs, nil
}

func (s *Store) save(recs []record) error {
	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// update loads, hands the records to fn and saves only when fn reports a
// change. It returns fn's result.
func (s *Store) update(ctx context.Context, fn func(recs []record) ([]record, bool)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, store.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	recs, err := s.load()
	if err != nil {
		return false, err
	}
	recs, changed := fn(recs)
	if !changed {
		return false, nil
	}
	if err := s.save(recs); err != nil {
		return false, err
	}
	return true, nil
}

func indexOf(recs []record, id string) int {
	for i, r := range recs {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Add(ctx context.Context, t *model.Task) error {
	id := store.NewID()
	_, err := s.update(ctx, func(recs []record) ([]record, bool) {
		return append(recs, record{
			ID:          id,
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
		}), true
	})
	if err != nil {
		return err
	}
	t.ID = id
	t.Completed = false
	return nil
}

func (s *Store) ListAll(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, store.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.task())
	}
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, completed bool) (bool, error) {
	if !store.ValidID(id) {
		return false, nil
	}
	return s.update(ctx, func(recs []record) ([]record, bool) {
		i := indexOf(recs, id)
		if i < 0 || recs[i].Completed == completed {
			return recs, false
		}
		recs[i].Completed = completed
		return recs, true
	})
}

func (s *Store) UpdateFields(ctx context.Context, id string, f model.Fields) (bool, error) {
	if f.Empty() || !store.ValidID(id) {
		return false, nil
	}
	return s.update(ctx, func(recs []record) ([]record, bool) {
		i := indexOf(recs, id)
		if i < 0 {
			return recs, false
		}
		before := recs[i].task()
		after := before
		f.Apply(&after)
		if after == before {
			return recs, false
		}
		recs[i].Title = after.Title
		recs[i].Description = after.Description
		recs[i].Priority = string(after.Priority)
		return recs, true
	})
}

func (s *Store) ToggleStatus(ctx context.Context, id string) (model.Task, bool, error) {
	if !store.ValidID(id) {
		return model.Task{}, false, nil
	}
	var flipped model.Task
	ok, err := s.update(ctx, func(recs []record) ([]record, bool) {
		i := indexOf(recs, id)
		if i < 0 {
			return recs, false
		}
		recs[i].Completed = !recs[i].Completed
		flipped = recs[i].task()
		return recs, true
	})
	if err != nil || !ok {
		return model.Task{}, false, err
	}
	return flipped, true, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	if !store.ValidID(id) {
		return false, nil
	}
	return s.update(ctx, func(recs []record) ([]record, bool) {
		i := indexOf(recs, id)
		if i < 0 {
			return recs, false
		}
		return append(recs[:i], recs[i+1:]...), true
	})
}

func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
