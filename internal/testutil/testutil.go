// Package testutil provides shared test helpers for bundles, app-data stores
// and a wired coordinator.
package testutil

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/starford/empchart/internal/bookmark"
	"github.com/starford/empchart/internal/coordinator"
	"github.com/starford/empchart/internal/dataset"
	"github.com/starford/empchart/internal/models"
	"github.com/starford/empchart/internal/storage"
)

// DatasetJSON is a three-row dataset spanning a year boundary.
const DatasetJSON = `{
  "Names": ["year", "month", "unemployment_rate", "participation_rate"],
  "Values": [
    [2020, 11, 6.7, 61.5],
    [2020, 12, 6.7, 61.5],
    [2021, 1, 6.4, 61.3]
  ]
}`

// BundleFS returns an in-memory bundle holding DatasetJSON.
func BundleFS() fstest.MapFS {
	return fstest.MapFS{
		dataset.FileName: &fstest.MapFile{Data: []byte(DatasetJSON)},
	}
}

// TestAppData creates a temporary app-data directory with an FS provider.
func TestAppData(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// TestSQLite creates a temporary SQLite slot store that is automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "empchart-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := storage.OpenSQLite(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestCoordinator wires a coordinator over BundleFS and a temporary FS
// app-data store. The dataset is not prepared yet.
func TestCoordinator(t *testing.T, opts ...coordinator.Option) *coordinator.Coordinator {
	t.Helper()
	_, store := TestAppData(t)
	bundle := storage.NewBundle(BundleFS())
	return coordinator.New(
		dataset.NewLoader(storage.NewJSON(bundle, nil, models.EmptyDataset)),
		bookmark.NewStore(storage.NewJSON[models.ViewState](nil, store, nil)),
		opts...,
	)
}
