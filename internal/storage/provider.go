// Package storage implements the storage port: read-only bundled assets, the
// writable application-private slot store, and JSON load/save on top of them.
package storage

import "github.com/starford/empchart/internal/models"

// Provider is the writable application-private store. Slot names are
// relative to the store root. A missing slot is reported as an error wrapping
// apperr.ErrNotFound.
type Provider interface {
	// Read returns the raw bytes stored under name.
	Read(name string) ([]byte, error)
	// Write creates or fully replaces the slot name with content.
	Write(name string, content []byte) error
	// Delete removes the slot name.
	Delete(name string) error
	// List returns metadata for every stored slot.
	List() ([]models.SlotMetadata, error)
}

// Verify both backends satisfy Provider at compile time.
var (
	_ Provider = (*FS)(nil)
	_ Provider = (*SQLite)(nil)
)
