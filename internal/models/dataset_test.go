package models

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := NewDataset(
		[]string{"year", "month", "unemployment_rate", "participation_rate"},
		[][]float64{
			{2020, 11, 6.7, 61.5},
			{2020, 12, 6.8, 61.4},
			{2021, 1, 6.4, 61.3},
		},
	)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestValuesByHeader(t *testing.T) {
	ds := testDataset(t)
	got := ds.ValuesByHeader("unemployment_rate")
	want := []float64{6.7, 6.8, 6.4}
	if len(got) != ds.RowCount() {
		t.Fatalf("len = %d, want %d", len(got), ds.RowCount())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestValuesByHeader_Missing(t *testing.T) {
	ds := testDataset(t)
	got := ds.ValuesByHeader("nonexistent")
	if got == nil || len(got) != 0 {
		t.Errorf("missing column = %#v, want empty non-nil slice", got)
	}
}

func TestValuesByHeader_EmptyDataset(t *testing.T) {
	if got := EmptyDataset().ValuesByHeader("year"); len(got) != 0 {
		t.Errorf("empty dataset values = %v", got)
	}
	var nilDS *Dataset
	if got := nilDS.Names(); len(got) != 0 {
		t.Errorf("nil dataset names = %v", got)
	}
}

func TestDateAxis(t *testing.T) {
	ds := testDataset(t)
	got := ds.DateAxis()
	want := []time.Time{
		time.Date(2020, time.November, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("axis[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDateAxis_Cached(t *testing.T) {
	ds := testDataset(t)
	first := ds.DateAxis()
	second := ds.DateAxis()
	if len(first) == 0 || &first[0] != &second[0] {
		t.Error("second call should return the cached slice")
	}
}

func TestDateAxis_MissingMonthColumn(t *testing.T) {
	ds, err := NewDataset([]string{"year", "rate"}, [][]float64{{2020, 1}, {2021, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if got := ds.DateAxis(); len(got) != 0 {
		t.Errorf("axis without month column = %v, want empty", got)
	}
}

func TestNewDataset_RowWidthMismatch(t *testing.T) {
	_, err := NewDataset([]string{"year", "month"}, [][]float64{{2020, 1}, {2020}})
	if err == nil {
		t.Fatal("expected error for short row")
	}
}

func TestNewDataset_CopiesInput(t *testing.T) {
	rows := [][]float64{{2020, 1, 5}}
	ds, err := NewDataset([]string{"year", "month", "rate"}, rows)
	if err != nil {
		t.Fatal(err)
	}
	rows[0][2] = 99
	if got := ds.ValuesByHeader("rate")[0]; got != 5 {
		t.Errorf("dataset mutated through input slice: %v", got)
	}
}

func TestDatasetJSON(t *testing.T) {
	var ds Dataset
	err := json.Unmarshal([]byte(`{"Names":["year","month","x"],"Values":[[2020,5,1.5]]}`), &ds)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if ds.RowCount() != 1 || ds.ValuesByHeader("x")[0] != 1.5 {
		t.Errorf("decoded dataset = %v rows, x = %v", ds.RowCount(), ds.ValuesByHeader("x"))
	}

	out, err := json.Marshal(&ds)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), `"Names":["year","month","x"]`) {
		t.Errorf("encoded = %s", out)
	}
}

func TestDatasetJSON_Structural(t *testing.T) {
	cases := map[string]string{
		"short row":    `{"Names":["a","b"],"Values":[[1]]}`,
		"wrong type":   `{"Names":"a","Values":[]}`,
		"string value": `{"Names":["a"],"Values":[["x"]]}`,
		"null cell":    `{"Names":["a","b"],"Values":[[1,null]]}`,
	}
	for name, doc := range cases {
		var ds Dataset
		if err := json.Unmarshal([]byte(doc), &ds); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestViewStateRanges(t *testing.T) {
	v := ViewState{XMin: 2, XMax: 1, YMin: 0, YMax: 5}
	if v.HasXRange() {
		t.Error("inverted x bounds should not be a usable range")
	}
	if !v.HasYRange() {
		t.Error("y bounds should be a usable range")
	}
}

func TestViewStateJSON_SelectionsRoundTrip(t *testing.T) {
	for name, sel := range map[string][]string{"nil": nil, "empty": {}, "set": {"a"}} {
		in := ViewState{XMax: 1, Selections: sel}
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatal(err)
		}
		var out ViewState
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(in, out) {
			t.Errorf("%s: got %#v, want %#v", name, out, in)
		}
	}
}

func TestViewStateJSON_MissingSelections(t *testing.T) {
	var v ViewState
	if err := json.Unmarshal([]byte(`{"xmin":0,"xmax":1,"ymin":0,"ymax":1}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Selections != nil {
		t.Errorf("selections = %#v, want nil", v.Selections)
	}
}

func TestDatasetJSON_NullCellNamesPosition(t *testing.T) {
	var ds Dataset
	err := json.Unmarshal([]byte(`{"Names":["year","month","rate"],"Values":[[2020,1,2],[2020,2,null]]}`), &ds)
	if err == nil || err.Error() != "row 1 col 2 is null" {
		t.Errorf("err = %v, want row 1 col 2 is null", err)
	}
}
