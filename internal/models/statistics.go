package models

// QuickStats holds the headline figures of the dashboard
type QuickStats struct {
	TotalCases       int64 `json:"total_cases"`
	Records          int   `json:"records"`
	UniqueCrimeTypes int   `json:"unique_crime_types"`
	ProvinceCount    int   `json:"province_count"`

	// Empty when the selection has no rows
	HighestProvince      string `json:"highest_province,omitempty"`
	HighestProvinceCases int64  `json:"highest_province_cases"`
	LatestYear           int    `json:"latest_year,omitempty"`
}

// YearSum is the total number of cases recorded in one year
type YearSum struct {
	Year  int   `json:"year"`
	Cases int64 `json:"cases"`
}

// TrendSeries is the per-year series of the trend chart with its
// peak and low annotations. Peak and Low are nil on an empty selection.
type TrendSeries struct {
	Points []YearSum `json:"points"`
	Peak   *YearSum  `json:"peak,omitempty"`
	Low    *YearSum  `json:"low,omitempty"`
}

// ProvinceShare is one bar of the province distribution chart
type ProvinceShare struct {
	Province string  `json:"province"`
	Cases    int64   `json:"cases"`
	Percent  float64 `json:"percent"`
}

// ColumnDescription summarises one numeric column
type ColumnDescription struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	Max    float64 `json:"max"`
}

// FilterOptions lists the distinct values usable in an IncidentFilter
type FilterOptions struct {
	Years      []int    `json:"years"`
	Provinces  []string `json:"provinces"`
	CrimeTypes []string `json:"crime_types"`
}
