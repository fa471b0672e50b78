// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/events"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/noteservice"
	"github.com/starford/ansuz/internal/paths"
	"github.com/starford/ansuz/internal/store"
	"github.com/starford/ansuz/internal/ui/app"
	"github.com/starford/ansuz/internal/ui/navigator"
)

// Run starts the interactive terminal application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	a, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := a.config

	p, err := paths.Resolve(cfg.Notes.Dir)
	if err != nil {
		return fmt.Errorf("resolve data paths: %w", err)
	}
	if err := p.EnsureDirs(); err != nil {
		return fmt.Errorf("create data dirs: %w", err)
	}

	// The UI owns the terminal, so logs go to a file unless the caller
	// injected a writer.
	logSink := a.logWriter
	if logSink == nil {
		f, err := os.OpenFile(p.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logSink = f
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logSink, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("notes_dir", p.NotesDir),
		slog.String("index_path", p.DBFile),
		slog.String("log_level", cfg.App.LogLevel.String()))

	st, err := store.New(p.NotesDir)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	db, err := index.Open(p.DBFile)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	// Run initial sync.
	if err := index.Sync(db, st, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	bus := events.NewBus()
	defer bus.Close()

	svc := noteservice.NewService(st, db, bus)
	nav := navigator.New(svc)

	g, gCtx := errgroup.WithContext(ctx)

	// runCtx ends when the UI exits so the watcher goroutine unwinds.
	runCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	model := app.New(runCtx, nav, bus, app.Theme{
		Accent: cfg.UI.Theme.Accent,
		Muted:  cfg.UI.Theme.Muted,
		Error:  cfg.UI.Theme.Error,
		Border: cfg.UI.Theme.Border,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	// Watch the notes directory so edits made outside the UI show up.
	g.Go(func() error {
		if err := index.Watch(runCtx, db, st, p.NotesDir, logger, bus.PublishNoteChange); err != nil {
			logger.Warn("watcher unavailable", slog.String("error", err.Error()))
		}
		return nil
	})

	// Run the UI.
	g.Go(func() error {
		defer cancel()
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			program.Quit()
		case <-runCtx.Done():
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Application stopped")
	return nil
}

// RunExport writes every stored note to w as a JSON array, newest first.
func RunExport(ctx context.Context, w io.Writer, opts ...Option) error {
	a, err := newApplication(opts)
	if err != nil {
		return err
	}

	svc, _, cleanup, err := openService(a)
	if err != nil {
		return err
	}
	defer cleanup()

	return svc.Export(ctx, w)
}

// RunImport reads a JSON array of notes from r and upserts each record,
// reporting how many were created, updated, and skipped.
func RunImport(ctx context.Context, r io.Reader, opts ...Option) (noteservice.ImportResult, error) {
	a, err := newApplication(opts)
	if err != nil {
		return noteservice.ImportResult{}, err
	}

	svc, _, cleanup, err := openService(a)
	if err != nil {
		return noteservice.ImportResult{}, err
	}
	defer cleanup()

	return svc.Import(ctx, r)
}

// RunMCP serves the note tools over stdio until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	a, err := newApplication(opts)
	if err != nil {
		return err
	}

	svc, logger, cleanup, err := openService(a)
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

func newApplication(opts []Option) (*application, error) {
	a := &application{}
	for _, opt := range opts {
		opt(a)
	}
	if a.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return a, nil
}

// openService wires the store, catalog, and service for the
// non-interactive entry points. Their stdout carries payload, so the
// logger writes to stderr unless the caller injected a writer.
func openService(a *application) (*noteservice.Service, *slog.Logger, func(), error) {
	cfg := a.config

	p, err := paths.Resolve(cfg.Notes.Dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("resolve data paths: %w", err)
	}
	if err := p.EnsureDirs(); err != nil {
		return nil, nil, nil, fmt.Errorf("create data dirs: %w", err)
	}

	logSink := a.logWriter
	if logSink == nil {
		logSink = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logSink, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	st, err := store.New(p.NotesDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init store: %w", err)
	}

	db, err := index.Open(p.DBFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, st, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	return noteservice.NewService(st, db, nil), logger, func() { db.Close() }, nil
}
