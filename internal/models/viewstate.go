package models

// ViewState is the persisted chart bookmark: viewport bounds plus the
// selected column names. Bounds are stored as given, inverted or not.
// Selections encodes nil as null and empty as [], so both survive a save.
type ViewState struct {
	XMin       float64  `json:"xmin"`
	XMax       float64  `json:"xmax"`
	YMin       float64  `json:"ymin"`
	YMax       float64  `json:"ymax"`
	Selections []string `json:"Selections"`
}

// HasXRange reports whether the X bounds describe a usable range.
func (v ViewState) HasXRange() bool {
	return v.XMax > v.XMin
}

// HasYRange reports whether the Y bounds describe a usable range.
func (v ViewState) HasYRange() bool {
	return v.YMax > v.YMin
}
