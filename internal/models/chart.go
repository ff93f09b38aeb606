package models

// ChartProjection is the chart-ready view of one or more dataset columns.
// Its JSON form is what the rendering collaborator consumes.
type ChartProjection struct {
	Labels []string `json:"labels"`
	Series []Series `json:"datasets"`
}

// Series is a single named column projected over the label axis.
type Series struct {
	Name   string    `json:"label"`
	Values []float64 `json:"data"`
}
