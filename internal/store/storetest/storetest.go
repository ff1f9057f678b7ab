// Package storetest is a conformance suite every TaskStore backend runs.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// Factory returns an empty store. The suite closes it when the subtest ends.
type Factory func(t *testing.T) store.TaskStore

// Run executes the suite, one fresh store per subtest.
func Run(t *testing.T, newStore Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s store.TaskStore)
	}{
		{"AddThenList", testAddThenList},
		{"AddAlwaysStartsIncomplete", testAddStartsIncomplete},
		{"UpdateStatus", testUpdateStatus},
		{"MalformedIDsAreNoOps", testMalformedIDs},
		{"UnknownIDsAreNoOps", testUnknownIDs},
		{"UpdateFieldsBlankIsNoOp", testUpdateFieldsBlank},
		{"UpdateFieldsPartial", testUpdateFieldsPartial},
		{"ToggleStatus", testToggleStatus},
		{"Delete", testDelete},
		{"EndToEnd", testEndToEnd},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close(context.Background()) })
			tc.fn(t, s)
		})
	}
}

func add(t *testing.T, s store.TaskStore, title, desc string, p model.Priority) model.Task {
	t.Helper()
	task := model.NewTask(title, desc, p)
	require.NoError(t, s.Add(context.Background(), &task))
	require.True(t, store.ValidID(task.ID), "store assigned malformed id %q", task.ID)
	return task
}

func find(t *testing.T, s store.TaskStore, id string) (model.Task, bool) {
	t.Helper()
	tasks, err := s.ListAll(context.Background())
	require.NoError(t, err)
	for _, task := range tasks {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}

func snapshot(t *testing.T, s store.TaskStore) []model.Task {
	t.Helper()
	tasks, err := s.ListAll(context.Background())
	require.NoError(t, err)
	return tasks
}

func testAddThenList(t *testing.T, s store.TaskStore) {
	before := snapshot(t, s)

	task := add(t, s, "Buy milk", "2L whole milk", model.PriorityHigh)
	other := add(t, s, "Call mom", "", model.PriorityLow)
	assert.NotEqual(t, task.ID, other.ID)

	after := snapshot(t, s)
	assert.Len(t, after, len(before)+2)

	got, ok := find(t, s, task.ID)
	require.True(t, ok)
	assert.Equal(t, model.Task{
		ID:          task.ID,
		Title:       "Buy milk",
		Description: "2L whole milk",
		Priority:    model.PriorityHigh,
		Completed:   false,
	}, got)
}

func testAddStartsIncomplete(t *testing.T, s store.TaskStore) {
	task := model.NewTask("Sneaky", "", model.PriorityMedium)
	task.Completed = true
	task.ID = "caller-chosen"

	require.NoError(t, s.Add(context.Background(), &task))
	assert.NotEqual(t, "caller-chosen", task.ID)
	assert.False(t, task.Completed)

	got, ok := find(t, s, task.ID)
	require.True(t, ok)
	assert.False(t, got.Completed)
}

func testUpdateStatus(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	task := add(t, s, "Write report", "Q3", model.PriorityMedium)

	ok, err := s.UpdateStatus(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := find(t, s, task.ID)
	assert.True(t, got.Completed)

	// Same value again: nothing is modified.
	ok, err = s.UpdateStatus(ctx, task.ID, true)
	require.NoError(t, err)
	assert.False(t, ok)
	got, _ = find(t, s, task.ID)
	assert.True(t, got.Completed)

	ok, err = s.UpdateStatus(ctx, task.ID, false)
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = find(t, s, task.ID)
	assert.False(t, got.Completed)
}

func testMalformedIDs(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	add(t, s, "Keep me", "untouched", model.PriorityLow)
	before := snapshot(t, s)

	for _, id := range []string{"", "not-an-id", "123", "zzzzzzzzzzzzzzzzzzzzzzzz", before[0].ID + "0"} {
		ok, err := s.UpdateStatus(ctx, id, true)
		require.NoError(t, err, id)
		assert.False(t, ok, id)

		ok, err = s.UpdateFields(ctx, id, model.Fields{Title: "hacked"})
		require.NoError(t, err, id)
		assert.False(t, ok, id)

		_, ok, err = s.ToggleStatus(ctx, id)
		require.NoError(t, err, id)
		assert.False(t, ok, id)

		ok, err = s.Delete(ctx, id)
		require.NoError(t, err, id)
		assert.False(t, ok, id)
	}

	assert.Equal(t, before, snapshot(t, s))
}

func testUnknownIDs(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	add(t, s, "Keep me", "untouched", model.PriorityLow)
	before := snapshot(t, s)
	missing := store.NewID()

	ok, err := s.UpdateStatus(ctx, missing, true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.UpdateFields(ctx, missing, model.Fields{Title: "x"})
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = s.ToggleStatus(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Delete(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, before, snapshot(t, s))
}

func testUpdateFieldsBlank(t *testing.T, s store.TaskStore) {
	task := add(t, s, "Title", "Description", model.PriorityMedium)

	for _, f := range []model.Fields{{}, {Title: " ", Description: "\t", Priority: "  "}} {
		ok, err := s.UpdateFields(context.Background(), task.ID, f)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	got, _ := find(t, s, task.ID)
	assert.Equal(t, task, got)
}

func testUpdateFieldsPartial(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	task := add(t, s, "Title", "Description", model.PriorityMedium)

	ok, err := s.UpdateFields(ctx, task.ID, model.Fields{Description: "Changed", Priority: model.PriorityHigh})
	require.NoError(t, err)
	assert.True(t, ok)

	got, _ := find(t, s, task.ID)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "Changed", got.Description)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.False(t, got.Completed)

	// Values identical to the stored ones modify nothing.
	ok, err = s.UpdateFields(ctx, task.ID, model.Fields{Title: "Title"})
	require.NoError(t, err)
	assert.False(t, ok)

	// Open priority set: unknown labels are stored as given.
	ok, err = s.UpdateFields(ctx, task.ID, model.Fields{Priority: "Urgente"})
	require.NoError(t, err)
	assert.True(t, ok)
	got, _ = find(t, s, task.ID)
	assert.Equal(t, model.Priority("Urgente"), got.Priority)
}

func testToggleStatus(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	task := add(t, s, "Flip", "", model.PriorityLow)

	got, ok, err := s.ToggleStatus(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, "Flip", got.Title)

	listed, _ := find(t, s, task.ID)
	assert.True(t, listed.Completed)

	got, ok, err = s.ToggleStatus(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, got.Completed)

	listed, _ = find(t, s, task.ID)
	assert.False(t, listed.Completed)
}

func testDelete(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	task := add(t, s, "Temporary", "", model.PriorityLow)
	keep := add(t, s, "Permanent", "", model.PriorityLow)

	ok, err := s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found := find(t, s, task.ID)
	assert.False(t, found)
	_, found = find(t, s, keep.ID)
	assert.True(t, found)

	ok, err = s.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testEndToEnd(t *testing.T, s store.TaskStore) {
	ctx := context.Background()
	require.Empty(t, snapshot(t, s))

	task := add(t, s, "Buy milk", "2L whole milk", model.PriorityHigh)

	tasks := snapshot(t, s)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "2L whole milk", tasks[0].Description)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.False(t, tasks[0].Completed)

	_, ok, err := s.ToggleStatus(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	tasks = snapshot(t, s)
	require.Len(t, tasks, 1)
	assert.True(t, tasks[0].Completed)

	ok, err = s.Delete(ctx, task.ID)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Empty(t, snapshot(t, s))
}
