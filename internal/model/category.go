package model

// Category is a spending/income category as returned by the finance service.
// The remote side exposes only the type label, which doubles as the display
// name offered during category selection.
type Category struct {
	Type string `json:"type"`
}

// Budget is one budget row as returned by the finance service.
type Budget struct {
	Name        string `json:"name"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}
