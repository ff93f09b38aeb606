package internal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/empchart/internal/coordinator"
	"github.com/starford/empchart/internal/models"
	"github.com/starford/empchart/internal/testutil"
)

func testConfig(t *testing.T, backend string) *Config {
	t.Helper()
	dir := t.TempDir()
	cfg := NewDefaultConfig()
	cfg.Storage.Backend = backend
	cfg.Storage.AppDataDir = filepath.Join(dir, "appdata")
	cfg.Storage.SQLitePath = filepath.Join(dir, "db", "empchart.db")
	return cfg
}

func testRuntime(t *testing.T, cfg *Config, opts ...Option) *Runtime {
	t.Helper()
	opts = append([]Option{WithConfig(cfg), WithLogOutput(io.Discard)}, opts...)
	rt, err := NewRuntime(opts...)
	if err != nil {
		t.Fatalf("NewRuntime: %v", err)
	}
	t.Cleanup(func() { rt.Close() })
	return rt
}

func TestNewRuntime_RequiresConfig(t *testing.T) {
	if _, err := NewRuntime(WithLogOutput(io.Discard)); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestNewRuntime_EmbeddedDataset(t *testing.T) {
	rt := testRuntime(t, testConfig(t, BackendFS))
	out := rt.Coordinator.PrepareData(context.Background())
	if !out.Succeeded {
		t.Fatalf("prepare embedded dataset: %+v", out)
	}
	if out.Payload.RowCount() == 0 {
		t.Error("embedded dataset is empty")
	}
	if rt.watchRoot == "" {
		t.Error("fs backend should set the watch root")
	}
}

func TestNewRuntime_Backends(t *testing.T) {
	for _, backend := range []string{BackendFS, BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			rt := testRuntime(t, testConfig(t, backend), WithBundle(testutil.BundleFS()))
			ctx := context.Background()

			state := models.ViewState{XMin: 1, XMax: 2, YMin: 3, YMax: 4}
			if out := rt.Coordinator.SaveBookmark(ctx, state); !out.Succeeded {
				t.Fatalf("save: %+v", out)
			}
			slots, err := rt.Slots.List()
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(slots) != 1 || slots[0].Name != "chartstate.json" {
				t.Errorf("slots = %+v", slots)
			}
		})
	}
}

func TestNewRuntime_MissingBundleDir(t *testing.T) {
	cfg := testConfig(t, BackendFS)
	cfg.Dataset.BundleDir = filepath.Join(t.TempDir(), "missing")
	if _, err := NewRuntime(WithConfig(cfg), WithLogOutput(io.Discard)); err == nil {
		t.Fatal("expected error for missing bundle dir")
	}
}

func TestServerHandler_Health(t *testing.T) {
	rt := testRuntime(t, testConfig(t, BackendFS), WithBundle(testutil.BundleFS()))
	h := NewServerHandler(rt)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("live = %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("ready before prepare = %d, want 503", w.Code)
	}

	rt.Coordinator.PrepareData(context.Background())
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("ready after prepare = %d, want 200", w.Code)
	}
}

func TestServerHandler_APIMounted(t *testing.T) {
	rt := testRuntime(t, testConfig(t, BackendFS), WithBundle(testutil.BundleFS()))
	rt.Coordinator.PrepareData(context.Background())
	h := NewServerHandler(rt)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chart?column=unemployment_rate", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("chart = %d, body = %s", w.Code, w.Body.String())
	}
	var proj models.ChartProjection
	_ = json.Unmarshal(w.Body.Bytes(), &proj)
	if len(proj.Labels) != 3 {
		t.Errorf("labels = %v", proj.Labels)
	}
}

func TestRuntime_CoordinatorEventsReachBroker(t *testing.T) {
	rt := testRuntime(t, testConfig(t, BackendFS), WithBundle(testutil.BundleFS()))
	ch := rt.Broker.Subscribe()
	defer rt.Broker.Unsubscribe(ch)
	ctx := context.Background()

	rt.Coordinator.SaveBookmark(ctx, models.ViewState{XMax: 1})
	rt.Coordinator.ClearBookmark(ctx)

	var got []string
	deadline := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case msg := <-ch:
			got = append(got, string(msg))
		case <-deadline:
			t.Fatalf("events = %q, want 2", got)
		}
	}
	if !strings.Contains(got[0], "event: "+coordinator.EventBookmarkSaved) ||
		!strings.Contains(got[1], "event: "+coordinator.EventBookmarkCleared) {
		t.Errorf("events = %q", got)
	}
}
