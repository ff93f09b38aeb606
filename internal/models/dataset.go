// Package models defines the domain types for empchart.
package models

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Column names the date axis is derived from.
const (
	YearColumn  = "year"
	MonthColumn = "month"
)

// Dataset is an immutable columnar table. Row i, column j holds the value of
// Names()[j] for that row. Always handle it by pointer.
type Dataset struct {
	names []string
	rows  [][]float64

	axisOnce sync.Once
	axis     []time.Time
}

type datasetJSON struct {
	Names  []string    `json:"Names"`
	Values [][]float64 `json:"Values"`
}

// NewDataset builds a Dataset, rejecting rows whose width differs from the
// number of column names.
func NewDataset(names []string, rows [][]float64) (*Dataset, error) {
	if err := checkWidths(names, rows); err != nil {
		return nil, err
	}
	return &Dataset{
		names: append([]string(nil), names...),
		rows:  copyRows(rows),
	}, nil
}

// EmptyDataset returns a Dataset with zero columns and zero rows.
func EmptyDataset() *Dataset {
	return &Dataset{}
}

// Names returns the column names in column order.
func (d *Dataset) Names() []string {
	if d == nil {
		return []string{}
	}
	return append([]string{}, d.names...)
}

// RowCount returns the number of rows.
func (d *Dataset) RowCount() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// ColumnIndex returns the position of name, or -1 when absent.
func (d *Dataset) ColumnIndex(name string) int {
	if d == nil {
		return -1
	}
	for i, n := range d.names {
		if n == name {
			return i
		}
	}
	return -1
}

// ValuesByHeader returns the column's values in row order. An unknown column
// yields an empty slice.
func (d *Dataset) ValuesByHeader(name string) []float64 {
	idx := d.ColumnIndex(name)
	if idx == -1 {
		return []float64{}
	}
	out := make([]float64, len(d.rows))
	for i, row := range d.rows {
		out[i] = row[idx]
	}
	return out
}

func (d *Dataset) intsByHeader(name string) []int {
	idx := d.ColumnIndex(name)
	if idx == -1 {
		return nil
	}
	out := make([]int, len(d.rows))
	for i, row := range d.rows {
		out[i] = int(row[idx])
	}
	return out
}

// DateAxis returns one date per row, the first day of the row's year/month.
// It is computed on first call and the same slice is returned afterwards.
//
// Years and months are paired positionally; if they ever differ in length the
// shorter one wins. Out-of-range months are normalised by time.Date.
func (d *Dataset) DateAxis() []time.Time {
	d.axisOnce.Do(func() {
		years := d.intsByHeader(YearColumn)
		months := d.intsByHeader(MonthColumn)
		n := min(len(years), len(months))
		axis := make([]time.Time, n)
		for i := range n {
			axis[i] = time.Date(years[i], time.Month(months[i]), 1, 0, 0, 0, 0, time.UTC)
		}
		d.axis = axis
	})
	return d.axis
}

// MarshalJSON encodes the Dataset as {"Names": [...], "Values": [[...]]}.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	names, rows := d.names, d.rows
	if names == nil {
		names = []string{}
	}
	if rows == nil {
		rows = [][]float64{}
	}
	return json.Marshal(datasetJSON{Names: names, Values: rows})
}

// UnmarshalJSON decodes the bundled dataset shape. It must only be used on a
// freshly allocated Dataset. Rows of the wrong width and null cells are
// rejected.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var raw struct {
		Names  []string     `json:"Names"`
		Values [][]*float64 `json:"Values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	rows := make([][]float64, len(raw.Values))
	for i, cells := range raw.Values {
		if len(cells) != len(raw.Names) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(cells), len(raw.Names))
		}
		rows[i] = make([]float64, len(cells))
		for j, c := range cells {
			if c == nil {
				return fmt.Errorf("row %d col %d is null", i, j)
			}
			rows[i][j] = *c
		}
	}
	d.names = raw.Names
	d.rows = rows
	return nil
}

func checkWidths(names []string, rows [][]float64) error {
	for i, row := range rows {
		if len(row) != len(names) {
			return fmt.Errorf("row %d has %d values, want %d", i, len(row), len(names))
		}
	}
	return nil
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
