package api

import "github.com/starford/empchart/internal/models"

// ColumnsResponse describes the currently held dataset.
type ColumnsResponse struct {
	Names     []string `json:"names" validate:"required"`
	Rows      int      `json:"rows" example:"36" validate:"required"`
	Prepared  bool     `json:"prepared" validate:"required"`
	Succeeded bool     `json:"succeeded" validate:"required"`
	Message   string   `json:"message" example:"load complete" validate:"required"`
}

// OutcomeResponse reports a load or save result.
type OutcomeResponse struct {
	Succeeded bool   `json:"succeeded" validate:"required"`
	Message   string `json:"message" example:"save complete" validate:"required"`
}

// ViewState is the bookmark payload (aliased from the domain layer).
type ViewState = models.ViewState

// ChartProjection is the chart payload (aliased from the domain layer).
type ChartProjection = models.ChartProjection
