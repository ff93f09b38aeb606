package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/empchart/internal/apperr"
	"github.com/starford/empchart/internal/models"
)

// Loader loads JSON documents of shape T.
type Loader[T any] interface {
	LoadFromPackage(ctx context.Context, name string) models.LoadOutcome[T]
	LoadFromAppData(ctx context.Context, name string) models.LoadOutcome[T]
}

// Saver writes JSON documents of shape T.
type Saver[T any] interface {
	SaveToAppData(ctx context.Context, value T, name string) models.SaveOutcome
}

// Deleter removes stored documents.
type Deleter interface {
	DeleteFromAppData(ctx context.Context, name string) models.SaveOutcome
}

// contextReader and contextWriter are implemented by backends that can
// honour a context (SQLite).
type contextReader interface {
	ReadContext(ctx context.Context, name string) ([]byte, error)
}

type contextWriter interface {
	WriteContext(ctx context.Context, name string, content []byte) error
}

type contextDeleter interface {
	DeleteContext(ctx context.Context, name string) error
}

// JSON is the storage port for one document shape. Failures never escape as
// errors: they are reported in the returned outcome.
type JSON[T any] struct {
	bundle *Bundle
	app    Provider
	empty  func() T
}

// NewJSON creates a port over the bundle and app-data provider. Either may be
// nil when the shape only lives in one of them. empty produces the default
// payload for failed loads and the decode target; nil means the zero T.
func NewJSON[T any](bundle *Bundle, app Provider, empty func() T) *JSON[T] {
	if empty == nil {
		empty = func() T {
			var zero T
			return zero
		}
	}
	return &JSON[T]{bundle: bundle, app: app, empty: empty}
}

// LoadFromPackage loads name from the read-only bundle.
func (j *JSON[T]) LoadFromPackage(_ context.Context, name string) models.LoadOutcome[T] {
	if j.bundle == nil {
		return j.notFound(name)
	}
	data, err := j.bundle.Read(name)
	return j.decode(name, data, err)
}

// LoadFromAppData loads name from the writable app-data store.
func (j *JSON[T]) LoadFromAppData(ctx context.Context, name string) models.LoadOutcome[T] {
	if j.app == nil {
		return j.notFound(name)
	}
	var (
		data []byte
		err  error
	)
	if cr, ok := j.app.(contextReader); ok {
		data, err = cr.ReadContext(ctx, name)
	} else {
		data, err = j.app.Read(name)
	}
	return j.decode(name, data, err)
}

// SaveToAppData serializes value and creates or overwrites the slot name.
func (j *JSON[T]) SaveToAppData(ctx context.Context, value T, name string) models.SaveOutcome {
	if j.app == nil {
		return writeFailure(name, errors.New("no app-data store configured"))
	}
	data, err := json.Marshal(value)
	if err != nil {
		return writeFailure(name, err)
	}
	if cw, ok := j.app.(contextWriter); ok {
		err = cw.WriteContext(ctx, name, data)
	} else {
		err = j.app.Write(name, data)
	}
	if err != nil {
		return writeFailure(name, err)
	}
	return models.SaveOutcome{Succeeded: true, Message: models.MsgSaveComplete}
}

// DeleteFromAppData removes the slot name. A missing slot is reported as
// not-succeeded with ErrNotFound.
func (j *JSON[T]) DeleteFromAppData(ctx context.Context, name string) models.SaveOutcome {
	if j.app == nil {
		return deleteFailure(name, errors.New("no app-data store configured"))
	}
	var err error
	if cd, ok := j.app.(contextDeleter); ok {
		err = cd.DeleteContext(ctx, name)
	} else {
		err = j.app.Delete(name)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return models.SaveOutcome{
			Message: fmt.Sprintf("file not found: %s", name),
			Err:     fmt.Errorf("%s: %w", name, apperr.ErrNotFound),
		}
	}
	if err != nil {
		return deleteFailure(name, err)
	}
	return models.SaveOutcome{Succeeded: true, Message: models.MsgDeleteComplete}
}

func (j *JSON[T]) decode(name string, data []byte, readErr error) models.LoadOutcome[T] {
	if readErr != nil {
		if errors.Is(readErr, apperr.ErrNotFound) {
			return j.notFound(name)
		}
		return models.LoadOutcome[T]{
			Payload: j.empty(),
			Message: fmt.Sprintf("reading failed for file %s: %v", name, readErr),
			Err:     readErr,
		}
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return models.LoadOutcome[T]{
			Payload: j.empty(),
			Message: fmt.Sprintf("no load data was present: %s", name),
			Err:     fmt.Errorf("%s: %w", name, apperr.ErrParse),
		}
	}
	v := j.empty()
	if err := json.Unmarshal(data, &v); err != nil {
		return j.parseFailure(name, err)
	}
	return models.LoadOutcome[T]{Succeeded: true, Payload: v, Message: models.MsgLoadComplete}
}

func (j *JSON[T]) notFound(name string) models.LoadOutcome[T] {
	return models.LoadOutcome[T]{
		Payload: j.empty(),
		Message: fmt.Sprintf("file not found: %s", name),
		Err:     fmt.Errorf("%s: %w", name, apperr.ErrNotFound),
	}
}

func (j *JSON[T]) parseFailure(name string, err error) models.LoadOutcome[T] {
	return models.LoadOutcome[T]{
		Payload: j.empty(),
		Message: fmt.Sprintf("parsing failed for file %s: %v", name, err),
		Err:     fmt.Errorf("%s: %w: %w", name, apperr.ErrParse, err),
	}
}

func writeFailure(name string, err error) models.SaveOutcome {
	return models.SaveOutcome{
		Message: fmt.Sprintf("writing failed for file %s: %v", name, err),
		Err:     fmt.Errorf("%s: %w: %w", name, apperr.ErrWrite, err),
	}
}

func deleteFailure(name string, err error) models.SaveOutcome {
	return models.SaveOutcome{
		Message: fmt.Sprintf("deleting failed for file %s: %v", name, err),
		Err:     fmt.Errorf("%s: %w: %w", name, apperr.ErrWrite, err),
	}
}
