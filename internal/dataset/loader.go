// Package dataset loads the bundled employment dataset.
package dataset

import (
	"context"

	"github.com/starford/empchart/internal/models"
)

// FileName is the bundled dataset asset.
const FileName = "employmentdata.json"

// PackageLoader is the part of the storage port the loader needs.
type PackageLoader interface {
	LoadFromPackage(ctx context.Context, name string) models.LoadOutcome[*models.Dataset]
}

// Loader produces the Dataset from the bundled asset.
type Loader struct {
	port PackageLoader
}

// NewLoader creates a loader reading through port.
func NewLoader(port PackageLoader) *Loader {
	return &Loader{port: port}
}

// Prepare loads the bundled dataset. On failure the payload is an empty
// Dataset, never nil.
func (l *Loader) Prepare(ctx context.Context) models.LoadOutcome[*models.Dataset] {
	out := l.port.LoadFromPackage(ctx, FileName)
	if !out.Succeeded || out.Payload == nil {
		out.Payload = models.EmptyDataset()
	}
	return out
}
