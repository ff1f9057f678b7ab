// Package menu implements the numbered console menu over a task store.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/ui"
)

const banner = `
== Task Manager ==
1) Add task
2) List tasks
3) Toggle status
4) Edit task
5) Delete task
0) Exit`

// maxLine bounds a single answer.
const maxLine = 1 << 20

var errRead = errors.New("read input")

// Menu reads choices line by line from in and writes prompts and results
// to out. Store errors are reported and the loop keeps going.
type Menu struct {
	store store.TaskStore
	in    io.Reader
	out   io.Writer
	group bool

	lines   chan string
	readErr error
}

func New(s store.TaskStore, in io.Reader, out io.Writer, group bool) *Menu {
	return &Menu{store: s, in: in, out: out, group: group}
}

// read scans in on its own goroutine so a prompt can also wait on ctx.
// It stops at end of input or once done is closed.
func (m *Menu) read(done <-chan struct{}) {
	defer close(m.lines)
	sc := bufio.NewScanner(m.in)
	sc.Buffer(make([]byte, 0, 4096), maxLine)
	for sc.Scan() {
		select {
		case m.lines <- sc.Text():
		case <-done:
			return
		}
	}
	m.readErr = sc.Err()
}

// Run loops until the user picks 0, the input ends or ctx is cancelled.
// A Menu is meant to be run once.
func (m *Menu) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	m.lines = make(chan string)
	go m.read(done)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(m.out, ui.C(ui.Current().Title, banner))
		choice, err := m.prompt(ctx, "Choice: ")
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = m.add(ctx)
		case "2":
			err = m.list(ctx)
		case "3":
			err = m.toggle(ctx)
		case "4":
			err = m.edit(ctx)
		case "5":
			err = m.remove(ctx)
		case "0":
			fmt.Fprintln(m.out, "Bye!")
			return nil
		default:
			ui.Fail(m.out, "invalid option: "+choice)
			continue
		}
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, errRead):
			return err
		default:
			ui.Fail(m.out, err.Error())
		}
	}
}

// prompt prints label and returns the next trimmed line. It returns io.EOF
// once the input is exhausted and ctx.Err() when ctx ends first.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprint(m.out, label)
	select {
	case <-ctx.Done():
		fmt.Fprintln(m.out)
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			fmt.Fprintln(m.out)
			if m.readErr != nil {
				return "", fmt.Errorf("%w: %w", errRead, m.readErr)
			}
			return "", io.EOF
		}
		return strings.TrimSpace(line), nil
	}
}

// required re-prompts until the answer is not blank.
func (m *Menu) required(ctx context.Context, label, name string) (string, error) {
	for {
		v, err := m.prompt(ctx, label)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
		ui.Fail(m.out, name+" is required")
	}
}

func (m *Menu) add(ctx context.Context) error {
	title, err := m.required(ctx, "Title: ", "title")
	if err != nil {
		return err
	}
	desc, err := m.prompt(ctx, "Description: ")
	if err != nil {
		return err
	}
	p, err := m.required(ctx, "Priority (1=Baixa, 2=Média, 3=Alta): ", "priority")
	if err != nil {
		return err
	}

	task := model.NewTask(title, desc, model.ParsePriority(p))
	if err := m.store.Add(ctx, &task); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	ui.OK(m.out, "task added with id "+task.ID)
	return nil
}

func (m *Menu) list(ctx context.Context) error {
	tasks, err := m.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	ui.ListPanel(m.out, tasks, m.group, "")
	return nil
}

// askID accepts either a task id or a 1-based list number.
func (m *Menu) askID(ctx context.Context) (string, error) {
	v, err := m.prompt(ctx, "Task id or list number: ")
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(v)
	if err != nil || store.ValidID(v) {
		return v, nil
	}
	tasks, err := m.store.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("list: %w", err)
	}
	if n < 1 || n > len(tasks) {
		return v, nil
	}
	return tasks[n-1].ID, nil
}

func (m *Menu) toggle(ctx context.Context) error {
	id, err := m.askID(ctx)
	if err != nil {
		return err
	}
	task, ok, err := m.store.ToggleStatus(ctx, id)
	if err != nil {
		return fmt.Errorf("toggle: %w", err)
	}
	if !ok {
		ui.Fail(m.out, "no task with id "+id)
		return nil
	}
	state := "pending"
	if task.Completed {
		state = "done"
	}
	ui.OK(m.out, fmt.Sprintf("%q is now %s", task.Title, state))
	return nil
}

func (m *Menu) edit(ctx context.Context) error {
	id, err := m.askID(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, ui.Dim("Leave a field blank to keep it."))
	var f model.Fields
	if f.Title, err = m.prompt(ctx, "New title: "); err != nil {
		return err
	}
	if f.Description, err = m.prompt(ctx, "New description: "); err != nil {
		return err
	}
	p, err := m.prompt(ctx, "New priority (1=Baixa, 2=Média, 3=Alta): ")
	if err != nil {
		return err
	}
	f.Priority = model.ParsePriority(p)
	f = f.Trim()

	if f.Empty() {
		ui.Fail(m.out, "nothing to change")
		return nil
	}
	changed, err := m.store.UpdateFields(ctx, id, f)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}
	if !changed {
		ui.Fail(m.out, "no task updated for id "+id)
		return nil
	}
	ui.OK(m.out, "task updated")
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	id, err := m.askID(ctx)
	if err != nil {
		return err
	}
	deleted, err := m.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if !deleted {
		ui.Fail(m.out, "no task with id "+id)
		return nil
	}
	ui.OK(m.out, "task deleted")
	return nil
}
