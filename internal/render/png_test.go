package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/starford/empchart/internal/models"
)

func projection() models.ChartProjection {
	return models.ChartProjection{
		Labels: []string{"2020-11-01", "2020-12-01", "2021-01-01", "2021-02-01"},
		Series: []models.Series{
			{Name: "unemployment_rate", Values: []float64{6.7, 6.7, 6.4, 6.2}},
			{Name: "participation_rate", Values: []float64{61.5, 61.5, 61.3, 61.4}},
		},
	}
}

func TestPNG_Size(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, projection(), nil, Options{Width: 640, Height: 360}); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 360 {
		t.Errorf("size = %dx%d, want 640x360", cfg.Width, cfg.Height)
	}
}

func TestPNG_DefaultSize(t *testing.T) {
	var buf bytes.Buffer
	if err := PNG(&buf, projection(), nil, Options{}); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	def := DefaultOptions()
	if cfg.Width != def.Width || cfg.Height != def.Height {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPNG_WithViewport(t *testing.T) {
	view := &models.ViewState{XMin: 1, XMax: 2.5, YMin: 0, YMax: 70}
	var buf bytes.Buffer
	if err := PNG(&buf, projection(), view, Options{Width: 400, Height: 300}); err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if _, err := png.DecodeConfig(&buf); err != nil {
		t.Errorf("output is not a PNG: %v", err)
	}
}

func TestPNG_DegenerateViewportIgnored(t *testing.T) {
	view := &models.ViewState{XMin: 3, XMax: 3, YMin: 5, YMax: 1}
	var buf bytes.Buffer
	if err := PNG(&buf, projection(), view, Options{Width: 400, Height: 300}); err != nil {
		t.Fatalf("PNG: %v", err)
	}
}

func TestPNG_NothingToDraw(t *testing.T) {
	proj := models.ChartProjection{
		Labels: []string{"2020-01-01"},
		Series: []models.Series{
			{Name: "missing", Values: []float64{}},
			{Name: "single", Values: []float64{1}},
		},
	}
	err := PNG(&bytes.Buffer{}, proj, nil, DefaultOptions())
	if !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("err = %v, want ErrNothingToDraw", err)
	}
}

func TestTicks(t *testing.T) {
	labels := []string{"a", "b", "c"}
	got := ticks(labels, 0, 2)
	if len(got) != maxTicks {
		t.Fatalf("ticks = %d, want %d", len(got), maxTicks)
	}
	if got[0].Value != 0 || got[0].Label != "a" {
		t.Errorf("first tick = %+v", got[0])
	}
	if got[len(got)-1].Value != 2 || got[len(got)-1].Label != "c" {
		t.Errorf("last tick = %+v", got[len(got)-1])
	}
	if ticks(labels, 2, 2) != nil {
		t.Error("empty range should produce no ticks")
	}
	if ticks(nil, 0, 2) != nil {
		t.Error("no labels should produce no ticks")
	}
}
