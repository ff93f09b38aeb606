// Package chartdata projects dataset columns into chart-ready series.
package chartdata

import "github.com/starford/empchart/internal/models"

// DefaultLabelLayout formats date-axis labels.
const DefaultLabelLayout = "2006-01-02"

// Builder turns a Dataset plus column names into a ChartProjection.
type Builder struct {
	layout string
}

// NewBuilder creates a builder formatting labels with layout (time package
// layout); empty means DefaultLabelLayout.
func NewBuilder(layout string) *Builder {
	if layout == "" {
		layout = DefaultLabelLayout
	}
	return &Builder{layout: layout}
}

// Build projects the named columns in the order given. Unknown names yield a
// series with no values.
func (b *Builder) Build(ds *models.Dataset, names []string) models.ChartProjection {
	if ds == nil {
		ds = models.EmptyDataset()
	}
	axis := ds.DateAxis()
	labels := make([]string, len(axis))
	for i, d := range axis {
		labels[i] = d.Format(b.layout)
	}

	series := make([]models.Series, len(names))
	for i, name := range names {
		series[i] = models.Series{Name: name, Values: ds.ValuesByHeader(name)}
	}
	return models.ChartProjection{Labels: labels, Series: series}
}

// BuildOne is Build for a single column.
func (b *Builder) BuildOne(ds *models.Dataset, name string) models.ChartProjection {
	return b.Build(ds, []string{name})
}
