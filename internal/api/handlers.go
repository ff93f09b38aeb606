package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starford/empchart/internal/apperr"
	"github.com/starford/empchart/internal/checksum"
	"github.com/starford/empchart/internal/models"
	"github.com/starford/empchart/internal/render"
)

// ChartService is what the handlers need from the view coordinator.
type ChartService interface {
	PrepareData(ctx context.Context) models.LoadOutcome[*models.Dataset]
	Prepared() bool
	Outcome() models.LoadOutcome[*models.Dataset]
	BuildChartData(names ...string) models.ChartProjection
	LoadBookmark(ctx context.Context) models.LoadOutcome[models.ViewState]
	SaveBookmark(ctx context.Context, state models.ViewState) models.SaveOutcome
	ClearBookmark(ctx context.Context) models.SaveOutcome
}

// Handler holds API route handlers.
type Handler struct {
	svc    ChartService
	render render.Options
}

// NewHandler creates a new Handler.
func NewHandler(svc ChartService, opts render.Options) *Handler {
	return &Handler{svc: svc, render: opts}
}

// columnsParam collects column names from repeated ?column= values and from
// a comma-separated ?columns= list, in that order.
func columnsParam(r *http.Request) []string {
	q := r.URL.Query()
	var out []string
	for _, c := range q["column"] {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	for _, list := range q["columns"] {
		for _, c := range strings.Split(list, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// Columns handles GET /api/columns.
//
//	@Summary		Describe the held dataset
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	ColumnsResponse
//	@Security		BearerAuth
//	@Router			/columns [get]
func (h *Handler) Columns(w http.ResponseWriter, r *http.Request) {
	out := h.svc.Outcome()
	writeJSON(w, http.StatusOK, ColumnsResponse{
		Names:     out.Payload.Names(),
		Rows:      out.Payload.RowCount(),
		Prepared:  h.svc.Prepared(),
		Succeeded: out.Succeeded,
		Message:   out.Message,
	})
}

// Prepare handles POST /api/dataset/prepare.
//
//	@Summary		Reload the bundled dataset
//	@Tags			dataset
//	@Produce		json
//	@Success		200	{object}	OutcomeResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/dataset/prepare [post]
func (h *Handler) Prepare(w http.ResponseWriter, r *http.Request) {
	out := h.svc.PrepareData(r.Context())
	if !out.Succeeded {
		writeJSON(w, loadStatus(out.Err), outcomeError("dataset load failed", out.Message))
		return
	}
	writeJSON(w, http.StatusOK, OutcomeResponse{Succeeded: true, Message: out.Message})
}

// Chart handles GET /api/chart.
//
//	@Summary		Project dataset columns into chart series
//	@Tags			chart
//	@Produce		json
//	@Param			column	query		[]string	true	"Column name (repeatable)"
//	@Success		200		{object}	ChartProjection
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/chart [get]
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	cols := columnsParam(r)
	if len(cols) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("at least one column is required"))
		return
	}
	writeJSON(w, http.StatusOK, h.svc.BuildChartData(cols...))
}

// ChartPNG handles GET /api/chart.png.
//
//	@Summary		Render dataset columns as a PNG
//	@Tags			chart
//	@Produce		png
//	@Param			column		query	[]string	true	"Column name (repeatable)"
//	@Param			bookmark	query	bool		false	"Apply the saved bookmark viewport"
//	@Success		200
//	@Failure		400		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/chart.png [get]
func (h *Handler) ChartPNG(w http.ResponseWriter, r *http.Request) {
	cols := columnsParam(r)
	var view *models.ViewState
	if r.URL.Query().Get("bookmark") == "true" {
		if out := h.svc.LoadBookmark(r.Context()); out.Succeeded {
			view = &out.Payload
			if len(cols) == 0 {
				cols = out.Payload.Selections
			}
		}
	}
	if len(cols) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("at least one column is required"))
		return
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, h.svc.BuildChartData(cols...), view, h.render); err != nil {
		if errors.Is(err, render.ErrNothingToDraw) {
			writeJSON(w, http.StatusUnprocessableEntity, errorBody(err.Error()))
			return
		}
		slog.Error("render chart failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GetBookmark handles GET /api/bookmark.
//
//	@Summary		Load the saved chart view
//	@Tags			bookmark
//	@Produce		json
//	@Success		200	{object}	ViewState
//	@Failure		404	{object}	errResponse
//	@Failure		422	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmark [get]
func (h *Handler) GetBookmark(w http.ResponseWriter, r *http.Request) {
	out := h.svc.LoadBookmark(r.Context())
	if !out.Succeeded {
		writeJSON(w, loadStatus(out.Err), outcomeError("bookmark load failed", out.Message))
		return
	}
	body, err := json.Marshal(out.Payload)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, out.Payload)
}

// PutBookmark handles PUT /api/bookmark.
//
//	@Summary		Save the chart view, overwriting the previous one
//	@Tags			bookmark
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ViewState	true	"View state"
//	@Success		200		{object}	OutcomeResponse
//	@Failure		400		{object}	errResponse
//	@Failure		500		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmark [put]
func (h *Handler) PutBookmark(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var state *models.ViewState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if state == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("view state is required"))
		return
	}
	out := h.svc.SaveBookmark(r.Context(), *state)
	if !out.Succeeded {
		slog.Error("save bookmark failed", slog.String("message", out.Message))
		writeJSON(w, http.StatusInternalServerError, outcomeError("bookmark save failed", out.Message))
		return
	}
	writeJSON(w, http.StatusOK, OutcomeResponse{Succeeded: true, Message: out.Message})
}

// DeleteBookmark handles DELETE /api/bookmark.
//
//	@Summary		Remove the saved chart view
//	@Tags			bookmark
//	@Produce		json
//	@Success		200	{object}	OutcomeResponse
//	@Failure		404	{object}	errResponse
//	@Failure		500	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/bookmark [delete]
func (h *Handler) DeleteBookmark(w http.ResponseWriter, r *http.Request) {
	out := h.svc.ClearBookmark(r.Context())
	if !out.Succeeded {
		writeJSON(w, loadStatus(out.Err), outcomeError("bookmark clear failed", out.Message))
		return
	}
	writeJSON(w, http.StatusOK, OutcomeResponse{Succeeded: true, Message: out.Message})
}

func loadStatus(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrParse):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
