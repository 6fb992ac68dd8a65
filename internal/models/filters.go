package models

// IncidentFilter selects rows of the incident table. An empty set leaves
// that column unconstrained.
type IncidentFilter struct {
	Years      []int    `form:"year" json:"years,omitempty"`
	Provinces  []string `form:"province" json:"provinces,omitempty"`
	CrimeTypes []string `form:"crime" json:"crime_types,omitempty"`
}

// IsEmpty reports whether the filter keeps every row
func (f IncidentFilter) IsEmpty() bool {
	return len(f.Years) == 0 && len(f.Provinces) == 0 && len(f.CrimeTypes) == 0
}

// Matches reports whether row passes every non-empty constraint
func (f IncidentFilter) Matches(row Incident) bool {
	if len(f.Years) > 0 && !containsInt(f.Years, row.Year) {
		return false
	}
	if len(f.Provinces) > 0 && !containsString(f.Provinces, row.Province) {
		return false
	}
	if len(f.CrimeTypes) > 0 && !containsString(f.CrimeTypes, row.CrimeDetail) {
		return false
	}
	return true
}

// Pagination represents page parameters for row listings
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// Normalize applies defaults and bounds: page >= 1, 1 <= pageSize <= 1000
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 100
	}
	if p.PageSize > 1000 {
		p.PageSize = 1000
	}
	return p
}

// Offset returns the row offset of the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PredictionFilter represents filter parameters for the prediction history
type PredictionFilter struct {
	Province string `form:"province"`
	Category string `form:"category"`
	Limit    int    `form:"limit"`
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
