package store_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/logger"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) Add(ctx context.Context, t *model.Task) error {
	args := m.Called(ctx, t)
	if args.Error(0) == nil {
		t.ID = "65f000000000000000000001"
	}
	return args.Error(0)
}

func (m *MockTaskStore) ListAll(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockTaskStore) UpdateStatus(ctx context.Context, id string, completed bool) (bool, error) {
	args := m.Called(ctx, id, completed)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) UpdateFields(ctx context.Context, id string, f model.Fields) (bool, error) {
	args := m.Called(ctx, id, f)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) ToggleStatus(ctx context.Context, id string) (model.Task, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Bool(1), args.Error(2)
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTaskStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestIDs(t *testing.T) {
	id := store.NewID()
	assert.Len(t, id, 24)
	assert.True(t, store.ValidID(id))
	assert.NotEqual(t, id, store.NewID())

	for _, bad := range []string{"", "abc", strings.Repeat("g", 24), id + "f", strings.ToUpper(id)[:23]} {
		assert.False(t, store.ValidID(bad), bad)
	}
}

func TestWithLogging_PassesThroughAndLogs(t *testing.T) {
	ctx := context.Background()
	next := &MockTaskStore{}
	var buf bytes.Buffer
	s := store.WithLogging(next, logger.New("DEBUG", &buf))

	task := model.NewTask("t", "", model.PriorityLow)
	next.On("Add", ctx, &task).Return(nil).Once()
	next.On("UpdateStatus", ctx, "id1", true).Return(true, nil).Once()
	next.On("Delete", ctx, "id1").Return(false, nil).Once()
	next.On("ToggleStatus", ctx, "id1").Return(model.Task{ID: "id1", Completed: true}, true, nil).Once()

	require.NoError(t, s.Add(ctx, &task))
	assert.Equal(t, "65f000000000000000000001", task.ID)

	ok, err := s.UpdateStatus(ctx, "id1", true)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(ctx, "id1")
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err := s.ToggleStatus(ctx, "id1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Completed)

	next.AssertExpectations(t)

	out := buf.String()
	assert.Contains(t, out, `"message":"task add"`)
	assert.Contains(t, out, `"task_id":"65f000000000000000000001"`)
	assert.Contains(t, out, `"message":"task update_status"`)
	assert.Contains(t, out, `"message":"task delete"`)
	assert.Contains(t, out, `"message":"task toggle_status"`)
}

func TestWithLogging_LogsFailures(t *testing.T) {
	ctx := context.Background()
	next := &MockTaskStore{}
	var buf bytes.Buffer
	s := store.WithLogging(next, logger.New("ERROR", &buf))

	boom := errors.New("connection reset")
	next.On("ListAll", ctx).Return(nil, boom).Once()
	next.On("UpdateFields", ctx, "id2", model.Fields{Title: "x"}).Return(false, boom).Once()
	next.On("Close", ctx).Return(nil).Once()

	_, err := s.ListAll(ctx)
	require.ErrorIs(t, err, boom)

	ok, err := s.UpdateFields(ctx, "id2", model.Fields{Title: "x"})
	require.ErrorIs(t, err, boom)
	assert.False(t, ok)

	require.NoError(t, s.Close(ctx))
	next.AssertExpectations(t)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"level":"ERROR"`))
	assert.Contains(t, out, `"op":"list"`)
	assert.Contains(t, out, `"op":"update_fields"`)
	assert.Contains(t, out, `"error":"connection reset"`)
	assert.NotContains(t, out, "DEBUG")
}
