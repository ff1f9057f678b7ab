package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/testutil"
)

func newModel(t *testing.T, seed ...model.Task) (Model, *testutil.FakeStore) {
	t.Helper()
	fake := testutil.NewFakeStore()
	fake.Seed(seed...)
	m := send(t, New(context.Background(), fake), refreshMsg{})
	return m, fake
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func keyOf(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestInitRequestsRefresh(t *testing.T) {
	m := New(context.Background(), testutil.NewFakeStore())
	assert.NotNil(t, m.Init())
}

func TestRefreshMirrorsStore(t *testing.T) {
	m, fake := newModel(t,
		model.Task{Title: "one", Priority: model.PriorityLow},
		model.Task{Title: "two", Priority: model.PriorityHigh, Completed: true},
	)

	require.Len(t, m.tasks, 2)
	rows := m.table.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "one", rows[0][1])
	assert.Equal(t, "Alta", rows[1][3])
	assert.Contains(t, rows[1][4], "done")
	assert.Equal(t, fake.Tasks()[1].ID, rows[1][5])
}

func TestAddTask(t *testing.T) {
	m, fake := newModel(t)

	m = send(t, m,
		typed("Buy milk"), keyOf(tea.KeyTab),
		typed("2 liters"), keyOf(tea.KeyTab),
		typed("3"), keyOf(tea.KeyCtrlS),
	)

	tasks := fake.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "2 liters", tasks[0].Description)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.False(t, tasks[0].Completed)

	assert.Equal(t, "task added", m.status)
	assert.False(t, m.statusErr)
	assert.Empty(t, m.inputs[fieldTitle].Value())
	assert.Len(t, m.tasks, 1)
}

func TestAddRequiresTitleAndPriority(t *testing.T) {
	m, fake := newModel(t)

	m = send(t, m, keyOf(tea.KeyCtrlS))
	assert.Equal(t, model.ErrTitleRequired.Error(), m.status)
	assert.True(t, m.statusErr)

	m = send(t, m, typed("No priority"), keyOf(tea.KeyCtrlS))
	assert.Equal(t, model.ErrPriorityRequired.Error(), m.status)
	assert.Equal(t, "No priority", m.inputs[fieldTitle].Value())

	assert.Zero(t, fake.Calls["add"])
}

func TestToggleSelected(t *testing.T) {
	m, fake := newModel(t, model.Task{Title: "Buy milk", Priority: model.PriorityLow})

	m = send(t, m, keyOf(tea.KeyCtrlT))
	assert.True(t, fake.Tasks()[0].Completed)
	assert.Equal(t, `"Buy milk" done`, m.status)
	assert.True(t, m.tasks[0].Completed)

	m = send(t, m, keyOf(tea.KeyCtrlT))
	assert.False(t, fake.Tasks()[0].Completed)
	assert.Equal(t, `"Buy milk" pending`, m.status)
}

func TestDeleteSelected(t *testing.T) {
	m, fake := newModel(t, model.Task{Title: "a"}, model.Task{Title: "b"})

	m = send(t, m, keyOf(tea.KeyCtrlD))

	assert.Len(t, fake.Tasks(), 1)
	assert.Equal(t, "b", fake.Tasks()[0].Title)
	assert.Equal(t, `deleted "a"`, m.status)
	assert.Len(t, m.table.Rows(), 1)
}

func TestEditSelected(t *testing.T) {
	m, fake := newModel(t, model.Task{Title: "Old", Description: "keep", Priority: model.PriorityLow})
	id := fake.Tasks()[0].ID

	m = send(t, m, keyOf(tea.KeyCtrlE))
	assert.Equal(t, id, m.editing)
	assert.Equal(t, "Old", m.inputs[fieldTitle].Value())
	assert.Equal(t, "keep", m.inputs[fieldDescription].Value())
	assert.Equal(t, "Baixa", m.inputs[fieldPriority].Value())
	assert.Equal(t, fieldTitle, m.focus)

	m.inputs[fieldTitle].SetValue("New")
	m = send(t, m, keyOf(tea.KeyCtrlS))

	got := fake.Tasks()[0]
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "keep", got.Description)
	assert.Equal(t, "task updated", m.status)
	assert.Empty(t, m.editing)
	assert.Zero(t, fake.Calls["add"])
}

func TestEditTrimsValues(t *testing.T) {
	m, fake := newModel(t, model.Task{Title: "Old", Priority: model.PriorityLow})

	m = send(t, m, keyOf(tea.KeyCtrlE))
	m.inputs[fieldTitle].SetValue("  New  ")
	m = send(t, m, keyOf(tea.KeyCtrlS))

	assert.Equal(t, "task updated", m.status)
	assert.Equal(t, "New", fake.Tasks()[0].Title)
}

func TestEditWithoutChangesReportsIt(t *testing.T) {
	m, fake := newModel(t, model.Task{Title: "Same", Priority: model.PriorityMedium})

	m = send(t, m, keyOf(tea.KeyCtrlE), keyOf(tea.KeyCtrlS))

	assert.Equal(t, "no changes saved", m.status)
	assert.True(t, m.statusErr)
	assert.Equal(t, 1, fake.Calls["update_fields"])
	assert.NotEmpty(t, m.editing)
}

func TestClearForm(t *testing.T) {
	m, _ := newModel(t, model.Task{Title: "x", Priority: model.PriorityLow})

	m = send(t, m, keyOf(tea.KeyCtrlE), keyOf(tea.KeyCtrlN))

	assert.Empty(t, m.editing)
	assert.Empty(t, m.inputs[fieldTitle].Value())
	assert.Equal(t, "form cleared", m.status)
}

func TestActionsNeedASelection(t *testing.T) {
	m, fake := newModel(t)

	for _, k := range []tea.KeyType{tea.KeyCtrlD, tea.KeyCtrlT, tea.KeyCtrlE} {
		m = send(t, m, keyOf(k))
		assert.Equal(t, "select a task first", m.status)
	}
	assert.Zero(t, fake.Calls["delete"])
	assert.Zero(t, fake.Calls["toggle_status"])
}

func TestStoreErrorsShowInStatusLine(t *testing.T) {
	m, fake := newModel(t, model.Task{Title: "x"})
	fake.ListAllErr = errors.New("connection refused")
	fake.ToggleStatusErr = errors.New("timeout")

	m = send(t, m, keyOf(tea.KeyCtrlR))
	assert.Equal(t, "list: connection refused", m.status)
	assert.True(t, m.statusErr)
	assert.Len(t, m.tasks, 1)

	m = send(t, m, keyOf(tea.KeyCtrlT))
	assert.Equal(t, "toggle: timeout", m.status)
}

func TestFocusCycle(t *testing.T) {
	m, _ := newModel(t)

	m = send(t, m, keyOf(tea.KeyTab), keyOf(tea.KeyTab), keyOf(tea.KeyTab))
	assert.Equal(t, focusTable, m.focus)
	assert.True(t, m.table.Focused())
	assert.False(t, m.inputs[fieldTitle].Focused())

	m = send(t, m, keyOf(tea.KeyShiftTab))
	assert.Equal(t, fieldPriority, m.focus)
	assert.True(t, m.inputs[fieldPriority].Focused())
	assert.False(t, m.table.Focused())

	m = send(t, m, keyOf(tea.KeyTab), keyOf(tea.KeyTab))
	assert.Equal(t, fieldTitle, m.focus)
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)

	_, cmd := m.Update(keyOf(tea.KeyEsc))

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	m, _ := newModel(t, model.Task{Title: "Visible task", Priority: model.PriorityHigh})
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40}, keyOf(tea.KeyCtrlS))

	v := m.View()
	assert.Contains(t, v, "Tasks")
	assert.Contains(t, v, "New task")
	assert.Contains(t, v, "Visible task")
	assert.Contains(t, v, "title is required")
	assert.Contains(t, v, "add/save")
}
