// Package bookmark persists the single chart view state slot.
package bookmark

import (
	"context"

	"github.com/starford/empchart/internal/models"
	"github.com/starford/empchart/internal/storage"
)

// FileName is the app-data slot holding the bookmark.
const FileName = "chartstate.json"

// Port is the part of the storage port the store needs.
type Port interface {
	storage.Saver[models.ViewState]
	storage.Deleter
	LoadFromAppData(ctx context.Context, name string) models.LoadOutcome[models.ViewState]
}

// Store loads and saves the last chart view.
type Store struct {
	port Port
}

// NewStore creates a bookmark store on top of port.
func NewStore(port Port) *Store {
	return &Store{port: port}
}

// Load returns the last saved view state.
func (s *Store) Load(ctx context.Context) models.LoadOutcome[models.ViewState] {
	return s.port.LoadFromAppData(ctx, FileName)
}

// Save overwrites the stored view state.
func (s *Store) Save(ctx context.Context, state models.ViewState) models.SaveOutcome {
	return s.port.SaveToAppData(ctx, state, FileName)
}

// Clear removes the stored view state. Clearing when nothing is stored is
// reported as not found.
func (s *Store) Clear(ctx context.Context) models.SaveOutcome {
	return s.port.DeleteFromAppData(ctx, FileName)
}
