package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/idilsaglam/tasks/internal/cli"
	"github.com/idilsaglam/tasks/internal/config"
	"github.com/idilsaglam/tasks/internal/exitcode"
	"github.com/idilsaglam/tasks/internal/logger"
	"github.com/idilsaglam/tasks/internal/store"
	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/store/mongostore"
	"github.com/idilsaglam/tasks/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	envFile := flag.String("env", "", "env file to load (default .env when present)")
	groupPending := flag.Bool("group", false, "group output by pending/done")
	theme := flag.String("theme", "", "color theme: classic, neon or mono (overrides THEME)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return exitcode.Usage
	}
	switch args[0] {
	case "help", "-h", "--help":
		cli.PrintHelp(os.Stdout)
		return exitcode.Success
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		return exitcode.Failure
	}
	logOut, closeLog, err := logOutput(cfg, args[0], os.Stderr)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return exitcode.Failure
	}
	defer closeLog()
	lg := logger.New(cfg.LogLevel, logOut)

	name := cfg.Theme
	if *theme != "" {
		name = *theme
	}
	if !ui.SetTheme(name) {
		lg.Warn("unknown theme, using classic", map[string]any{"theme": name})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cfg, lg)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return exitcode.Failure
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
		defer cancel()
		if err := s.Close(closeCtx); err != nil {
			lg.Warn("store close failed", map[string]any{"error": err.Error()})
		}
	}()

	code := cli.Run(ctx, args, cli.Env{
		Store:   s,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
		Options: cli.Options{Group: *groupPending},
	})
	if code != exitcode.Success {
		fmt.Fprintln(os.Stderr)
	}
	return code
}

// logOutput picks where log lines go. LOG_FILE wins when set. Otherwise the
// full-screen form drops them, since it shows store errors in its status
// line, and every other command logs to stderr.
func logOutput(cfg *config.Config, cmd string, stderr io.Writer) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { _ = f.Close() }, nil
	}
	if cmd == "ui" {
		return io.Discard, func() {}, nil
	}
	return stderr, func() {}, nil
}

// openStore builds the configured backend wrapped with operation logging.
func openStore(ctx context.Context, cfg *config.Config, lg *logger.Logger) (store.TaskStore, error) {
	var s store.TaskStore
	switch cfg.Backend {
	case config.BackendFile:
		js, err := jsonstore.New(cfg.DataFile)
		if err != nil {
			return nil, err
		}
		lg.Info("using file store", map[string]any{"path": js.Path()})
		s = js
	default:
		start := time.Now()
		ms, err := mongostore.New(ctx, mongostore.Options{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			Collection:     cfg.Collection,
			ConnectTimeout: cfg.ConnectTimeout,
			OpTimeout:      cfg.OpTimeout,
		})
		if err != nil {
			return nil, err
		}
		lg.Info("connected to MongoDB", map[string]any{
			"database":   cfg.MongoDatabase,
			"collection": cfg.Collection,
			"elapsed_ms": time.Since(start).Milliseconds(),
		})
		s = ms
	}
	return store.WithLogging(s, lg), nil
}
