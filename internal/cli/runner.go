package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/idilsaglam/tasks/internal/exitcode"
	"github.com/idilsaglam/tasks/internal/menu"
	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
}

// Env carries everything a subcommand needs. The caller owns Store and
// closes it after Run returns.
type Env struct {
	Store   store.TaskStore
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Options Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, env Env) int {
	if len(args) == 0 {
		PrintHelp(env.Err)
		return exitcode.Usage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Out)
		return exitcode.Success

	case "ls", "list":
		return doList(ctx, env)

	case "add":
		return doAdd(ctx, env, a)

	case "done", "toggle":
		if len(a) != 1 {
			ui.Fail(env.Err, "usage: tasks done <id>")
			return exitcode.Usage
		}
		return doToggle(ctx, env, a[0])

	case "status":
		if len(a) != 2 {
			ui.Fail(env.Err, "usage: tasks status <id> <true|false>")
			return exitcode.Usage
		}
		completed, err := parseStatus(a[1])
		if err != nil {
			ui.Fail(env.Err, "status: "+err.Error())
			return exitcode.Usage
		}
		return doStatus(ctx, env, a[0], completed)

	case "edit":
		return doEdit(ctx, env, a)

	case "rm":
		if len(a) != 1 {
			ui.Fail(env.Err, "usage: tasks rm <id>")
			return exitcode.Usage
		}
		return doRemove(ctx, env, a[0])

	case "menu":
		err := menu.New(env.Store, env.In, env.Out, env.Options.Group).Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			ui.Fail(env.Err, "menu: "+err.Error())
			return exitcode.Failure
		}
		return exitcode.Success

	case "ui":
		err := tui.Run(ctx, env.Store, env.In, env.Out)
		if err != nil && !errors.Is(err, context.Canceled) {
			ui.Fail(env.Err, "ui: "+err.Error())
			return exitcode.Failure
		}
		return exitcode.Success
	}

	ui.Fail(env.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(env.Err)
	PrintHelp(env.Err)
	return exitcode.Usage
}

const helpText = `tasks - a personal task tracker

Usage:
  tasks [-env file] [-group] [-theme name] <subcommand> [args]

Subcommands:
  add [-d text] [-p priority] <title...>   Add a task (priority defaults to Média)
  ls                                       List tasks
  done <id>                                Toggle done for a task
  status <id> <true|false>                 Set the completion flag
  edit [-t title] [-d text] [-p priority] <id>
                                           Change the given fields, blank ones are kept
  rm <id>                                  Delete a task
  menu                                     Numbered console menu
  ui                                       Interactive form

Priorities: 1/low/Baixa, 2/medium/Média, 3/high/Alta or any other label.

Examples:
  tasks add -p alta -d "Revisar orientação a objetos" Estudar Go
  tasks ls
  tasks done 65f1c0ffee0000000000beef
  tasks edit -p 1 65f1c0ffee0000000000beef
  tasks rm 65f1c0ffee0000000000beef
`

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// -------------- subcommand impls ----------------

func doList(ctx context.Context, env Env) int {
	tasks, err := env.Store.ListAll(ctx)
	if err != nil {
		ui.Fail(env.Err, "list: "+err.Error())
		return exitcode.Failure
	}
	ui.ListPanel(env.Out, tasks, env.Options.Group, "Tip: add with `tasks add -p alta \"Buy milk\"`")
	return exitcode.Success
}

func doAdd(ctx context.Context, env Env, args []string) int {
	fs := newFlagSet("add", env.Err)
	desc := fs.String("d", "", "description")
	prio := fs.String("p", model.PriorityMedium.String(), "priority")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage
	}
	if fs.NArg() == 0 {
		ui.Fail(env.Err, "usage: tasks add [-d text] [-p priority] <title...>")
		return exitcode.Usage
	}

	task := model.NewTask(
		strings.TrimSpace(strings.Join(fs.Args(), " ")),
		strings.TrimSpace(*desc),
		model.ParsePriority(*prio),
	)
	if err := task.Validate(); err != nil {
		ui.Fail(env.Err, "add: "+err.Error())
		return exitcode.Usage
	}
	if err := env.Store.Add(ctx, &task); err != nil {
		ui.Fail(env.Err, "add: "+err.Error())
		return exitcode.Failure
	}
	ui.OK(env.Out, "added "+task.ID)
	return exitcode.Success
}

func doToggle(ctx context.Context, env Env, id string) int {
	task, ok, err := env.Store.ToggleStatus(ctx, id)
	if err != nil {
		ui.Fail(env.Err, "done: "+err.Error())
		return exitcode.Failure
	}
	if !ok {
		return notFound(env, id)
	}
	if task.Completed {
		ui.OK(env.Out, fmt.Sprintf("done: %s", task.Title))
	} else {
		ui.OK(env.Out, fmt.Sprintf("pending: %s", task.Title))
	}
	return exitcode.Success
}

func doStatus(ctx context.Context, env Env, id string, completed bool) int {
	ok, err := env.Store.UpdateStatus(ctx, id, completed)
	if err != nil {
		ui.Fail(env.Err, "status: "+err.Error())
		return exitcode.Failure
	}
	if !ok {
		ui.Fail(env.Err, "status: nothing changed for "+id)
		ui.Hint(env.Err, "the id is unknown or the task already has that status")
		return exitcode.Usage
	}
	ui.OK(env.Out, "updated")
	return exitcode.Success
}

func doEdit(ctx context.Context, env Env, args []string) int {
	fs := newFlagSet("edit", env.Err)
	title := fs.String("t", "", "new title")
	desc := fs.String("d", "", "new description")
	prio := fs.String("p", "", "new priority")
	if err := fs.Parse(args); err != nil {
		return exitcode.Usage
	}
	if fs.NArg() != 1 {
		ui.Fail(env.Err, "usage: tasks edit [-t title] [-d text] [-p priority] <id>")
		return exitcode.Usage
	}

	f := model.Fields{Title: *title, Description: *desc, Priority: model.ParsePriority(*prio)}.Trim()
	if f.Empty() {
		ui.Fail(env.Err, "edit: nothing to change")
		return exitcode.Usage
	}
	id := fs.Arg(0)
	ok, err := env.Store.UpdateFields(ctx, id, f)
	if err != nil {
		ui.Fail(env.Err, "edit: "+err.Error())
		return exitcode.Failure
	}
	if !ok {
		ui.Fail(env.Err, "edit: nothing changed for "+id)
		ui.Hint(env.Err, "the id is unknown or the values are already set")
		return exitcode.Usage
	}
	ui.OK(env.Out, "updated")
	return exitcode.Success
}

func doRemove(ctx context.Context, env Env, id string) int {
	ok, err := env.Store.Delete(ctx, id)
	if err != nil {
		ui.Fail(env.Err, "rm: "+err.Error())
		return exitcode.Failure
	}
	if !ok {
		return notFound(env, id)
	}
	ui.OK(env.Out, "removed")
	return exitcode.Success
}

// -------------- helpers --------------

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

func notFound(env Env, id string) int {
	ui.Fail(env.Err, "no task with id "+id)
	if !store.ValidID(id) {
		ui.Hint(env.Err, "ids are 24 hex characters, run `tasks ls` to see them")
	} else {
		ui.Hint(env.Err, "run `tasks ls` to see valid ids")
	}
	return exitcode.Usage
}

func parseStatus(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "done", "completed", "concluida", "concluída":
		return true, nil
	case "pending", "todo", "pendente":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("not a status: %s", s)
	}
	return b, nil
}
