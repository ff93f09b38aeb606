// Package coordinator holds the loaded dataset and bookmark store for the
// presentation layer.
package coordinator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/starford/empchart/internal/chartdata"
	"github.com/starford/empchart/internal/models"
)

// Event names passed to the event hook.
const (
	EventDatasetPrepared = "dataset.prepared"
	EventBookmarkSaved   = "bookmark.saved"
	EventBookmarkCleared = "bookmark.cleared"
)

// DatasetPreparer produces the current Dataset.
type DatasetPreparer interface {
	Prepare(ctx context.Context) models.LoadOutcome[*models.Dataset]
}

// BookmarkStore persists the chart view state.
type BookmarkStore interface {
	Load(ctx context.Context) models.LoadOutcome[models.ViewState]
	Save(ctx context.Context, state models.ViewState) models.SaveOutcome
	Clear(ctx context.Context) models.SaveOutcome
}

// EventHook is notified after state-changing operations.
type EventHook func(event string, data any)

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = l
	}
}

// WithBuilder sets the chart data builder.
func WithBuilder(b *chartdata.Builder) Option {
	return func(c *Coordinator) {
		c.builder = b
	}
}

// WithEventHook registers a hook for the Event* notifications.
func WithEventHook(h EventHook) Option {
	return func(c *Coordinator) {
		c.hook = h
	}
}

// Coordinator moves from "not yet prepared" to "prepared" on the first
// PrepareData call, successful or not. Later calls replace the dataset.
type Coordinator struct {
	loader    DatasetPreparer
	bookmarks BookmarkStore
	builder   *chartdata.Builder
	logger    *slog.Logger
	hook      EventHook

	mu       sync.RWMutex
	prepared bool
	outcome  models.LoadOutcome[*models.Dataset]
}

// New creates a Coordinator.
func New(loader DatasetPreparer, bookmarks BookmarkStore, opts ...Option) *Coordinator {
	c := &Coordinator{
		loader:    loader,
		bookmarks: bookmarks,
		outcome:   models.LoadOutcome[*models.Dataset]{Payload: models.EmptyDataset()},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.builder == nil {
		c.builder = chartdata.NewBuilder("")
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// PrepareData loads the bundled dataset and keeps the outcome.
func (c *Coordinator) PrepareData(ctx context.Context) models.LoadOutcome[*models.Dataset] {
	out := c.loader.Prepare(ctx)

	c.mu.Lock()
	c.outcome = out
	c.prepared = true
	c.mu.Unlock()

	if out.Succeeded {
		c.logger.Info("dataset prepared",
			slog.Int("columns", len(out.Payload.Names())),
			slog.Int("rows", out.Payload.RowCount()))
	} else {
		c.logger.Warn("dataset prepare failed", slog.String("message", out.Message))
	}
	c.emit(EventDatasetPrepared, map[string]any{
		"succeeded": out.Succeeded,
		"message":   out.Message,
	})
	return out
}

// Prepared reports whether PrepareData has run at least once.
func (c *Coordinator) Prepared() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prepared
}

// Outcome returns the outcome of the last PrepareData call.
func (c *Coordinator) Outcome() models.LoadOutcome[*models.Dataset] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.outcome
}

// Dataset returns the currently held Dataset (empty before preparation or
// after a failed one).
func (c *Coordinator) Dataset() *models.Dataset {
	return c.Outcome().Payload
}

// BuildChartData projects the named columns of the held Dataset.
func (c *Coordinator) BuildChartData(names ...string) models.ChartProjection {
	return c.builder.Build(c.Dataset(), names)
}

// LoadBookmark returns the last saved view state.
func (c *Coordinator) LoadBookmark(ctx context.Context) models.LoadOutcome[models.ViewState] {
	out := c.bookmarks.Load(ctx)
	if !out.Succeeded {
		c.logger.Debug("bookmark load", slog.String("message", out.Message))
	}
	return out
}

// SaveBookmark persists state as the current bookmark.
func (c *Coordinator) SaveBookmark(ctx context.Context, state models.ViewState) models.SaveOutcome {
	out := c.bookmarks.Save(ctx, state)
	if !out.Succeeded {
		c.logger.Warn("bookmark save failed", slog.String("message", out.Message))
		return out
	}
	c.emit(EventBookmarkSaved, state)
	return out
}

// ClearBookmark removes the saved bookmark.
func (c *Coordinator) ClearBookmark(ctx context.Context) models.SaveOutcome {
	out := c.bookmarks.Clear(ctx)
	if !out.Succeeded {
		c.logger.Debug("bookmark clear", slog.String("message", out.Message))
		return out
	}
	c.emit(EventBookmarkCleared, nil)
	return out
}

func (c *Coordinator) emit(event string, data any) {
	if c.hook != nil {
		c.hook(event, data)
	}
}
