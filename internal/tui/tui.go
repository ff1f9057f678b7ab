// Package tui is the interactive task form: three inputs above a table that
// mirrors the store. Every store call runs synchronously inside Update.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	focusTable
	focusCount
)

var labels = [...]string{"Title", "Description", "Priority"}

type refreshMsg struct{}

// Model implements tea.Model.
type Model struct {
	ctx   context.Context
	store store.TaskStore

	tasks  []model.Task
	table  table.Model
	inputs []textinput.Model
	focus  int

	// editing holds the id loaded with ctrl+e. Empty means the form adds.
	editing string

	status    string
	statusErr bool

	keys  keyMap
	help  help.Model
	width int
}

func New(ctx context.Context, s store.TaskStore) Model {
	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		inputs[i] = ti
	}
	inputs[fieldTitle].Placeholder = "What needs doing?"
	inputs[fieldDescription].Placeholder = "Optional details"
	inputs[fieldPriority].Placeholder = "1=Baixa 2=Média 3=Alta or any label"
	inputs[fieldPriority].CharLimit = 40
	inputs[fieldTitle].Focus()

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	st.Selected = selectedStyle
	t.SetStyles(st)

	return Model{
		ctx:    ctx,
		store:  s,
		table:  t,
		inputs: inputs,
		keys:   defaultKeys(),
		help:   help.New(),
		width:  80,
	}
}

// Run starts the form full screen and blocks until the user quits.
func Run(ctx context.Context, s store.TaskStore, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, s),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}

func columns(width int) []table.Column {
	// fixed columns: "#", priority, status, id
	fixed := 4 + 10 + 9 + 24
	rest := width - fixed - 12
	if rest < 30 {
		rest = 30
	}
	return []table.Column{
		{Title: "#", Width: 4},
		{Title: "Title", Width: rest * 3 / 5},
		{Title: "Description", Width: rest - rest*3/5},
		{Title: "Priority", Width: 10},
		{Title: "Status", Width: 9},
		{Title: "ID", Width: 24},
	}
}

func rows(tasks []model.Task) []table.Row {
	th := ui.Current()
	out := make([]table.Row, 0, len(tasks))
	for i, t := range tasks {
		status := th.BoxUnchecked + " todo"
		if t.Completed {
			status = th.BoxChecked + " done"
		}
		out = append(out, table.Row{
			fmt.Sprintf("%d", i+1), t.Title, t.Description, t.Priority.String(), status, t.ID,
		})
	}
	return out
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return refreshMsg{} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.reload()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		if h := msg.Height - 16; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % focusCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		case key.Matches(msg, m.keys.Save):
			m.save()
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.clearForm()
			m.setStatus("form cleared", false)
			return m, m.setFocus(fieldTitle)
		case key.Matches(msg, m.keys.Delete):
			m.deleteSelected()
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.toggleSelected()
			return m, nil
		case key.Matches(msg, m.keys.Edit):
			return m, m.loadSelected()
		case key.Matches(msg, m.keys.Refresh):
			m.reload()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focus == focusTable {
		m.table, cmd = m.table.Update(msg)
	} else {
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(f int) tea.Cmd {
	m.focus = f
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if f == focusTable {
		m.table.Focus()
		return nil
	}
	m.table.Blur()
	return m.inputs[f].Focus()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

func (m *Model) reload() {
	tasks, err := m.store.ListAll(m.ctx)
	if err != nil {
		m.setStatus("list: "+err.Error(), true)
		return
	}
	m.tasks = tasks
	m.table.SetRows(rows(tasks))
	if n := len(tasks); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
}

func (m *Model) selected() (model.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[i], true
}

func (m *Model) clearForm() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	m.editing = ""
}

func (m *Model) save() {
	title := m.inputs[fieldTitle].Value()
	desc := m.inputs[fieldDescription].Value()
	prio := model.ParsePriority(m.inputs[fieldPriority].Value())

	if m.editing != "" {
		f := model.Fields{Title: title, Description: desc, Priority: prio}.Trim()
		if f.Empty() {
			m.setStatus("nothing to change", true)
			return
		}
		changed, err := m.store.UpdateFields(m.ctx, m.editing, f)
		if err != nil {
			m.setStatus("edit: "+err.Error(), true)
			return
		}
		if !changed {
			m.setStatus("no changes saved", true)
			return
		}
		m.setStatus("task updated", false)
		m.clearForm()
		m.reload()
		return
	}

	task := model.NewTask(strings.TrimSpace(title), strings.TrimSpace(desc), prio)
	if err := task.Validate(); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if err := m.store.Add(m.ctx, &task); err != nil {
		m.setStatus("add: "+err.Error(), true)
		return
	}
	m.setStatus("task added", false)
	m.clearForm()
	m.reload()
}

func (m *Model) deleteSelected() {
	t, ok := m.selected()
	if !ok {
		m.setStatus("select a task first", true)
		return
	}
	deleted, err := m.store.Delete(m.ctx, t.ID)
	if err != nil {
		m.setStatus("delete: "+err.Error(), true)
		return
	}
	if !deleted {
		m.setStatus("task was already gone", true)
	} else {
		m.setStatus(fmt.Sprintf("deleted %q", t.Title), false)
	}
	if m.editing == t.ID {
		m.clearForm()
	}
	m.reload()
}

func (m *Model) toggleSelected() {
	t, ok := m.selected()
	if !ok {
		m.setStatus("select a task first", true)
		return
	}
	updated, ok, err := m.store.ToggleStatus(m.ctx, t.ID)
	if err != nil {
		m.setStatus("toggle: "+err.Error(), true)
		return
	}
	if !ok {
		m.setStatus("task was already gone", true)
	} else if updated.Completed {
		m.setStatus(fmt.Sprintf("%q done", updated.Title), false)
	} else {
		m.setStatus(fmt.Sprintf("%q pending", updated.Title), false)
	}
	m.reload()
}

func (m *Model) loadSelected() tea.Cmd {
	t, ok := m.selected()
	if !ok {
		m.setStatus("select a task first", true)
		return nil
	}
	m.inputs[fieldTitle].SetValue(t.Title)
	m.inputs[fieldDescription].SetValue(t.Description)
	m.inputs[fieldPriority].SetValue(t.Priority.String())
	m.editing = t.ID
	m.setStatus("editing "+t.ID, false)
	return m.setFocus(fieldTitle)
}

func (m Model) View() string {
	d, p := ui.Stats(m.tasks)
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Tasks"),
		successStyle.Render("✔"), d,
		pendingStyle.Render("•"), p,
		accentStyle.Render("Total"), len(m.tasks),
	)

	mode := "New task"
	if m.editing != "" {
		mode = "Edit task " + mutedStyle.Render(m.editing)
	}
	var form strings.Builder
	form.WriteString(titleStyle.Render(mode) + "\n")
	for i, in := range m.inputs {
		lbl := labelStyle.Render(labels[i])
		if m.focus == i {
			lbl = focusedLabel.Render(labels[i])
		}
		form.WriteString(lbl + in.View() + "\n")
	}
	status := mutedStyle.Render(m.status)
	if m.statusErr {
		status = errorStyle.Render("✖ " + m.status)
	}
	form.WriteString(status)

	return strings.Join([]string{
		header,
		boxStyle.Render(form.String()),
		boxStyle.Render(m.table.View()),
		m.help.View(m.keys),
	}, "\n")
}
