package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/empchart/internal/render"
)

// RouterConfig carries the router's optional collaborators.
type RouterConfig struct {
	// AuthEnabled controls whether Bearer token auth is enforced.
	AuthEnabled bool
	Token       string
	// Events, if non-nil, is mounted at GET /events inside the auth group.
	Events http.Handler
	// Render sizes PNG exports.
	Render render.Options
}

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(svc ChartService, cfg RouterConfig) chi.Router {
	h := NewHandler(svc, cfg.Render)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(cfg.AuthEnabled, cfg.Token))

	// Dataset.
	r.Get("/columns", h.Columns)
	r.Post("/dataset/prepare", h.Prepare)

	// Chart projections.
	r.Get("/chart", h.Chart)
	r.Get("/chart.png", h.ChartPNG)

	// Bookmark.
	r.Get("/bookmark", h.GetBookmark)
	r.Put("/bookmark", h.PutBookmark)
	r.Delete("/bookmark", h.DeleteBookmark)

	if cfg.Events != nil {
		r.Get("/events", cfg.Events.ServeHTTP)
	}

	return r
}
