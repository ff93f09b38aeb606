package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/empchart/assets"
	"github.com/starford/empchart/internal/bookmark"
	"github.com/starford/empchart/internal/chartdata"
	"github.com/starford/empchart/internal/coordinator"
	"github.com/starford/empchart/internal/dataset"
	"github.com/starford/empchart/internal/models"
	"github.com/starford/empchart/internal/render"
	"github.com/starford/empchart/internal/sse"
	"github.com/starford/empchart/internal/storage"
)

// Runtime holds the wired components shared by every entry point.
type Runtime struct {
	Config      *Config
	Logger      *slog.Logger
	Slots       storage.Provider
	Coordinator *coordinator.Coordinator
	Broker      *sse.Broker

	// watchRoot is the FS app-data directory, empty for the sqlite backend.
	watchRoot string
	closers   []func() error
}

// NewRuntime builds storage, the bookmark store, the dataset loader and the
// coordinator from the options. It does not prepare the dataset.
func NewRuntime(opts ...Option) (*Runtime, error) {
	app := &application{logOut: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config
	logger := app.newLogger()

	rt := &Runtime{Config: cfg, Logger: logger}

	bundle, err := openBundle(app.bundle, cfg.Dataset)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Storage.AppDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create app data dir: %w", err)
	}
	switch cfg.Storage.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		db, err := storage.OpenSQLite(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		rt.Slots = db
		rt.closers = append(rt.closers, db.Close)
	default:
		fsStore, err := storage.NewFS(cfg.Storage.AppDataDir)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		rt.Slots = fsStore
		rt.watchRoot = fsStore.Root()
	}

	rt.Broker = sse.NewBroker(500*time.Millisecond, bookmark.FileName)
	rt.closers = append(rt.closers, func() error {
		rt.Broker.Close()
		return nil
	})

	datasetPort := storage.NewJSON(bundle, nil, models.EmptyDataset)
	viewPort := storage.NewJSON[models.ViewState](nil, rt.Slots, nil)

	rt.Coordinator = coordinator.New(
		dataset.NewLoader(datasetPort),
		bookmark.NewStore(viewPort),
		coordinator.WithLogger(logger),
		coordinator.WithBuilder(chartdata.NewBuilder(cfg.Chart.LabelLayout)),
		coordinator.WithEventHook(func(event string, data any) {
			rt.Broker.Publish(sse.Event{Type: event, Data: data})
		}),
	)

	return rt, nil
}

// RenderOptions returns the PNG export options from the configuration.
func (rt *Runtime) RenderOptions() render.Options {
	return render.Options{
		Width:  rt.Config.Render.Width,
		Height: rt.Config.Render.Height,
		Title:  rt.Config.Render.Title,
	}
}

// Close releases the storage backend and stops the broker.
func (rt *Runtime) Close() error {
	var firstErr error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func openBundle(override fs.FS, cfg DatasetConfig) (*storage.Bundle, error) {
	switch {
	case override != nil:
		return storage.NewBundle(override), nil
	case cfg.BundleDir != "":
		b, err := storage.DirBundle(cfg.BundleDir)
		if err != nil {
			return nil, fmt.Errorf("init bundle: %w", err)
		}
		return b, nil
	default:
		return storage.NewBundle(assets.FS), nil
	}
}
