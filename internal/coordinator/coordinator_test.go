package coordinator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/starford/empchart/internal/apperr"
	"github.com/starford/empchart/internal/models"
)

type fakeLoader struct {
	out   models.LoadOutcome[*models.Dataset]
	calls int
}

func (f *fakeLoader) Prepare(context.Context) models.LoadOutcome[*models.Dataset] {
	f.calls++
	return f.out
}

type fakeBookmarks struct {
	mu      sync.Mutex
	state   *models.ViewState
	saveErr error
}

func (f *fakeBookmarks) Load(context.Context) models.LoadOutcome[models.ViewState] {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == nil {
		return models.LoadOutcome[models.ViewState]{
			Message: "file not found: chartstate.json",
			Err:     apperr.ErrNotFound,
		}
	}
	return models.LoadOutcome[models.ViewState]{Succeeded: true, Payload: *f.state, Message: models.MsgLoadComplete}
}

func (f *fakeBookmarks) Save(_ context.Context, s models.ViewState) models.SaveOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return models.SaveOutcome{Message: "writing failed for file chartstate.json: " + f.saveErr.Error(), Err: f.saveErr}
	}
	f.state = &s
	return models.SaveOutcome{Succeeded: true, Message: models.MsgSaveComplete}
}

func (f *fakeBookmarks) Clear(context.Context) models.SaveOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == nil {
		return models.SaveOutcome{Message: "file not found: chartstate.json", Err: apperr.ErrNotFound}
	}
	f.state = nil
	return models.SaveOutcome{Succeeded: true, Message: models.MsgDeleteComplete}
}

type event struct {
	name string
	data any
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDataset(t *testing.T) *models.Dataset {
	t.Helper()
	ds, err := models.NewDataset(
		[]string{"year", "month", "unemployment_rate"},
		[][]float64{{2020, 11, 6.7}, {2020, 12, 6.8}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func newTestCoordinator(t *testing.T, loader *fakeLoader, bm *fakeBookmarks) (*Coordinator, *[]event) {
	t.Helper()
	var events []event
	c := New(loader, bm,
		WithLogger(quietLogger()),
		WithEventHook(func(name string, data any) {
			events = append(events, event{name, data})
		}),
	)
	return c, &events
}

func TestNotPreparedInitially(t *testing.T) {
	c, _ := newTestCoordinator(t, &fakeLoader{}, &fakeBookmarks{})
	if c.Prepared() {
		t.Error("should not be prepared before PrepareData")
	}
	if c.Dataset() == nil || c.Dataset().RowCount() != 0 {
		t.Error("dataset before preparation should be empty, not nil")
	}
	proj := c.BuildChartData("unemployment_rate")
	if len(proj.Labels) != 0 || len(proj.Series[0].Values) != 0 {
		t.Errorf("projection before preparation = %+v", proj)
	}
}

func TestPrepareData_Success(t *testing.T) {
	loader := &fakeLoader{out: models.LoadOutcome[*models.Dataset]{
		Succeeded: true, Payload: sampleDataset(t), Message: models.MsgLoadComplete,
	}}
	c, events := newTestCoordinator(t, loader, &fakeBookmarks{})

	out := c.PrepareData(context.Background())
	if !out.Succeeded || !c.Prepared() {
		t.Fatalf("prepare = %+v, prepared = %v", out, c.Prepared())
	}
	if c.Outcome().Message != models.MsgLoadComplete {
		t.Errorf("outcome message = %q", c.Outcome().Message)
	}

	proj := c.BuildChartData("unemployment_rate")
	if len(proj.Labels) != 2 || proj.Labels[0] != "2020-11-01" {
		t.Errorf("labels = %v", proj.Labels)
	}
	if len(*events) != 1 || (*events)[0].name != EventDatasetPrepared {
		t.Errorf("events = %+v", *events)
	}
}

func TestPrepareData_FailureStillPrepared(t *testing.T) {
	loader := &fakeLoader{out: models.LoadOutcome[*models.Dataset]{
		Payload: models.EmptyDataset(),
		Message: "file not found: employmentdata.json",
		Err:     apperr.ErrNotFound,
	}}
	c, events := newTestCoordinator(t, loader, &fakeBookmarks{})

	out := c.PrepareData(context.Background())
	if out.Succeeded {
		t.Fatal("expected failure")
	}
	if !c.Prepared() {
		t.Error("a failed prepare still moves to prepared")
	}
	if c.Dataset().RowCount() != 0 {
		t.Error("failed prepare should hold an empty dataset")
	}
	data, _ := (*events)[0].data.(map[string]any)
	if data["succeeded"] != false {
		t.Errorf("event data = %+v", (*events)[0].data)
	}
}

func TestPrepareData_ReplacesDataset(t *testing.T) {
	loader := &fakeLoader{out: models.LoadOutcome[*models.Dataset]{Succeeded: true, Payload: sampleDataset(t)}}
	c, _ := newTestCoordinator(t, loader, &fakeBookmarks{})
	c.PrepareData(context.Background())

	loader.out = models.LoadOutcome[*models.Dataset]{Payload: models.EmptyDataset(), Message: "x"}
	c.PrepareData(context.Background())

	if loader.calls != 2 {
		t.Errorf("loader calls = %d", loader.calls)
	}
	if c.Dataset().RowCount() != 0 {
		t.Error("second prepare should replace the dataset")
	}
}

func TestBookmarkRoundTrip(t *testing.T) {
	bm := &fakeBookmarks{}
	c, events := newTestCoordinator(t, &fakeLoader{}, bm)
	ctx := context.Background()

	if out := c.LoadBookmark(ctx); out.Succeeded {
		t.Fatal("load before save should fail")
	}

	want := models.ViewState{XMin: 1, XMax: 2, YMin: 3, YMax: 4, Selections: []string{"a"}}
	if out := c.SaveBookmark(ctx, want); !out.Succeeded {
		t.Fatalf("save = %+v", out)
	}
	got := c.LoadBookmark(ctx)
	if !got.Succeeded || !reflect.DeepEqual(got.Payload, want) {
		t.Errorf("load = %+v", got)
	}
	if len(*events) != 1 || (*events)[0].name != EventBookmarkSaved {
		t.Errorf("events = %+v", *events)
	}
}

func TestSaveBookmark_FailureEmitsNothing(t *testing.T) {
	bm := &fakeBookmarks{saveErr: errors.New("disk full")}
	c, events := newTestCoordinator(t, &fakeLoader{}, bm)

	out := c.SaveBookmark(context.Background(), models.ViewState{})
	if out.Succeeded {
		t.Fatal("expected failure")
	}
	if len(*events) != 0 {
		t.Errorf("events = %+v, want none", *events)
	}
}

func TestConcurrentReads(t *testing.T) {
	loader := &fakeLoader{out: models.LoadOutcome[*models.Dataset]{Succeeded: true, Payload: sampleDataset(t)}}
	c := New(loader, &fakeBookmarks{}, WithLogger(quietLogger()))
	c.PrepareData(context.Background())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if got := c.BuildChartData("year"); len(got.Series[0].Values) != 2 {
					t.Errorf("values = %v", got.Series[0].Values)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestClearBookmark(t *testing.T) {
	bm := &fakeBookmarks{}
	c, events := newTestCoordinator(t, &fakeLoader{}, bm)
	ctx := context.Background()

	if out := c.ClearBookmark(ctx); out.Succeeded {
		t.Fatal("clear without bookmark should fail")
	}
	if len(*events) != 0 {
		t.Errorf("failed clear emitted %+v", *events)
	}

	c.SaveBookmark(ctx, models.ViewState{XMax: 1})
	if out := c.ClearBookmark(ctx); !out.Succeeded {
		t.Fatalf("clear = %+v", out)
	}
	if out := c.LoadBookmark(ctx); out.Succeeded {
		t.Error("bookmark still present after clear")
	}
	last := (*events)[len(*events)-1]
	if last.name != EventBookmarkCleared {
		t.Errorf("last event = %q, want %q", last.name, EventBookmarkCleared)
	}
}
