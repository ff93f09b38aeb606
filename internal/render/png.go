// Package render draws chart projections as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/starford/empchart/internal/models"
)

// ErrNothingToDraw is returned when no series has at least two points.
var ErrNothingToDraw = errors.New("render: nothing to draw")

// Series palette, first colour for the first series.
var palette = []string{
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
	"06B6D4", "EC4899", "84CC16", "F97316", "6366F1",
}

// maxTicks bounds the number of labelled x-axis ticks.
const maxTicks = 12

// Options controls the output image.
type Options struct {
	Width  int
	Height int
	Title  string
}

// DefaultOptions returns the default image size and title.
func DefaultOptions() Options {
	return Options{
		Width:  1024,
		Height: 600,
		Title:  "Unemployment Data in the US by State or City",
	}
}

// PNG renders proj to w. Series are plotted against the row index, the same
// x coordinate the bookmark's xmin/xmax refer to. When view is non-nil its
// bounds clamp the axes, each axis only if max > min.
func PNG(w io.Writer, proj models.ChartProjection, view *models.ViewState, opts Options) error {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}

	var series []chart.Series
	for i, s := range proj.Series {
		if len(s.Values) < 2 {
			continue
		}
		xs := make([]float64, len(s.Values))
		for j := range xs {
			xs[j] = float64(j)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: s.Values,
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex(palette[i%len(palette)]),
				StrokeWidth: 2,
			},
		})
	}
	if len(series) == 0 {
		return ErrNothingToDraw
	}

	lo, hi := 0.0, float64(longest(proj)-1)
	yAxis := chart.YAxis{}
	if view != nil {
		if view.HasXRange() {
			lo, hi = view.XMin, view.XMax
		}
		if view.HasYRange() {
			yAxis.Range = &chart.ContinuousRange{Min: view.YMin, Max: view.YMax}
		}
	}
	// go-chart derives the x range from the ticks when they are set.
	xAxis := chart.XAxis{Ticks: ticks(proj.Labels, lo, hi)}

	ch := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis:  xAxis,
		YAxis:  yAxis,
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// ticks labels at most maxTicks evenly spaced positions spanning [lo, hi],
// always including both ends. A position takes the label of its nearest row.
func ticks(labels []string, lo, hi float64) []chart.Tick {
	if len(labels) == 0 || hi <= lo {
		return nil
	}
	step := (hi - lo) / float64(maxTicks-1)
	out := make([]chart.Tick, 0, maxTicks)
	for i := range maxTicks {
		v := lo + float64(i)*step
		if i == maxTicks-1 {
			v = hi
		}
		out = append(out, chart.Tick{Value: v, Label: labelAt(labels, v)})
	}
	return out
}

func labelAt(labels []string, v float64) string {
	idx := int(math.Round(v))
	if idx < 0 || idx >= len(labels) {
		return ""
	}
	return labels[idx]
}

func longest(proj models.ChartProjection) int {
	n := 0
	for _, s := range proj.Series {
		n = max(n, len(s.Values))
	}
	return n
}
