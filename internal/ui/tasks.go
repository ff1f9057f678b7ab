package ui

import (
	"fmt"
	"io"

	"github.com/idilsaglam/tasks/internal/model"
)

const maxTitle = 60

// Stats counts completed and pending tasks.
func Stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// PriorityColor maps the known labels onto the theme. Unknown labels
// use the accent color.
func PriorityColor(p model.Priority) string {
	t := Current()
	switch p {
	case model.PriorityHigh:
		return t.Error
	case model.PriorityMedium:
		return t.Pending
	case model.PriorityLow:
		return t.Muted
	}
	return t.Accent
}

// TaskLines renders one line per task plus an indented description line
// when the task has one. Indexes are 1-based.
func TaskLines(tasks []model.Task) []string {
	t := Current()
	if len(tasks) == 0 {
		return []string{C(t.Muted, "no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for i, task := range tasks {
		idx := fmt.Sprintf("%2d.", i+1)
		box := t.BoxUnchecked
		color := t.Muted
		if task.Completed {
			box, color = t.BoxChecked, t.Success
		}
		title := task.Title
		if r := []rune(title); len(r) > maxTitle {
			title = string(r[:maxTitle-3]) + "..."
		}
		line := fmt.Sprintf("%s %s %s", Dim(idx), C(color, box), title)
		if task.Priority != "" {
			line += " " + C(PriorityColor(task.Priority), "["+task.Priority.String()+"]")
		}
		line += " " + C(t.Muted, task.ID)
		out = append(out, line)
		if task.Description != "" {
			out = append(out, "       "+C(t.Muted, task.Description))
		}
	}
	return out
}

// GroupLines splits the list into a pending and a done section.
func GroupLines(tasks []model.Task) []string {
	var pend, done []model.Task
	for _, task := range tasks {
		if task.Completed {
			done = append(done, task)
		} else {
			pend = append(pend, task)
		}
	}
	t := Current()
	section := func(name string, part []model.Task) []string {
		lines := []string{C(t.Accent, name)}
		if len(part) == 0 {
			return append(lines, C(t.Muted, "(none)"))
		}
		return append(lines, TaskLines(part)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

// ListPanel prints the task list framed, with counts and a progress bar.
func ListPanel(w io.Writer, tasks []model.Task, group bool, tip string) {
	t := Current()
	d, p := Stats(tasks)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		C(t.Title, "Tasks"),
		C(t.Success, t.SymDone), d,
		C(t.Pending, t.SymUnchecked), p,
		C(t.Accent, "Total"), len(tasks),
	)

	lines := []string{header, C(t.Muted, ProgressBar(d, d+p, 28)), ""}
	if group {
		lines = append(lines, GroupLines(tasks)...)
	} else {
		lines = append(lines, TaskLines(tasks)...)
	}
	if tip != "" {
		lines = append(lines, "", C(t.Muted, tip))
	}
	Panel(w, lines)
}
