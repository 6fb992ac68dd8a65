package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Source column headers of the incident table, in file order.
const (
	HeaderYear        = "Year"
	HeaderProvince    = "Province"
	HeaderCrimeDetail = "Crime Detail"
	HeaderCaseCount   = "Number of Cases"
)

// SourceHeader is the column order used when reading and exporting the table.
var SourceHeader = []string{HeaderYear, HeaderProvince, HeaderCrimeDetail, HeaderCaseCount}

// Incident is one row of the incident table
type Incident struct {
	Year        int    `json:"year"`
	Province    string `json:"province"`
	CrimeDetail string `json:"crime_detail"`
	CaseCount   int64  `json:"case_count"`
}

// Column identifies a categorical key column of the incident table
type Column string

// Key columns
const (
	ColumnYear        Column = HeaderYear
	ColumnProvince    Column = HeaderProvince
	ColumnCrimeDetail Column = HeaderCrimeDetail
)

// ParseColumn accepts the source header name or a short alias
// (year, province, crime_detail, crime).
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "year":
		return ColumnYear, nil
	case "province":
		return ColumnProvince, nil
	case "crime detail", "crime_detail", "crime", "crime_type":
		return ColumnCrimeDetail, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColumn, s)
}

// ParseColumns parses a list of column names, rejecting repeats.
func ParseColumns(names []string) ([]Column, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one column is required", ErrInvalidColumn)
	}
	seen := make(map[Column]bool, len(names))
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col, err := ParseColumn(name)
		if err != nil {
			return nil, err
		}
		if seen[col] {
			return nil, fmt.Errorf("%w: %q given twice", ErrInvalidColumn, name)
		}
		seen[col] = true
		cols = append(cols, col)
	}
	return cols, nil
}

// Valid reports whether c is one of the key columns
func (c Column) Valid() bool {
	switch c {
	case ColumnYear, ColumnProvince, ColumnCrimeDetail:
		return true
	}
	return false
}

// Numeric reports whether keys of this column compare as integers
func (c Column) Numeric() bool {
	return c == ColumnYear
}

// Value renders the incident's value for a key column
func (i Incident) Value(c Column) string {
	switch c {
	case ColumnYear:
		return strconv.Itoa(i.Year)
	case ColumnProvince:
		return i.Province
	case ColumnCrimeDetail:
		return i.CrimeDetail
	}
	return ""
}

// Record renders the incident in SourceHeader order
func (i Incident) Record() []string {
	return []string{
		strconv.Itoa(i.Year),
		i.Province,
		i.CrimeDetail,
		strconv.FormatInt(i.CaseCount, 10),
	}
}
