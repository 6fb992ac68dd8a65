// Package dataset reads the incident table from its delimited source file
// and writes filtered views back out as CSV or XLSX.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Year bounds accepted by the loader
const (
	MinYear = 1900
	MaxYear = 2100
)

// Options controls parsing of the source file
type Options struct {
	// Delimiter defaults to ','
	Delimiter rune
}

// LoadFile reads the incident table at path. Any failure is reported as
// ErrDataUnavailable.
func LoadFile(path string, opts Options) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", models.ErrDataUnavailable, path, err)
	}
	defer f.Close()

	table, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Read parses a delimited incident table. Required columns may appear in any
// order; extra columns are ignored and blank lines skipped.
func Read(r io.Reader, opts Options) (*models.Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: file is empty", models.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("%w: failed to read header: %v", models.ErrDataUnavailable, err)
	}

	cols, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []models.Incident
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrDataUnavailable, err)
		}
		if blank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		row, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", models.ErrDataUnavailable, line, err)
		}
		rows = append(rows, row)
	}

	return models.NewTable(rows), nil
}

type columnIndex struct {
	year, province, crime, cases int
}

func locateColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	cols := columnIndex{
		year:     lookup(models.HeaderYear),
		province: lookup(models.HeaderProvince),
		crime:    lookup(models.HeaderCrimeDetail),
		cases:    lookup(models.HeaderCaseCount),
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: missing required columns: %s",
			models.ErrDataUnavailable, strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRecord(record []string, cols columnIndex) (models.Incident, error) {
	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	year, err := strconv.Atoi(field(cols.year))
	if err != nil {
		return models.Incident{}, fmt.Errorf("column %q: %q is not an integer", models.HeaderYear, field(cols.year))
	}
	if year < MinYear || year > MaxYear {
		return models.Incident{}, fmt.Errorf("column %q: year %d outside [%d, %d]", models.HeaderYear, year, MinYear, MaxYear)
	}

	cases, err := parseCount(field(cols.cases))
	if err != nil {
		return models.Incident{}, fmt.Errorf("column %q: %v", models.HeaderCaseCount, err)
	}

	province := field(cols.province)
	if province == "" {
		return models.Incident{}, fmt.Errorf("column %q is empty", models.HeaderProvince)
	}
	crime := field(cols.crime)
	if crime == "" {
		return models.Incident{}, fmt.Errorf("column %q is empty", models.HeaderCrimeDetail)
	}

	return models.Incident{Year: year, Province: province, CrimeDetail: crime, CaseCount: cases}, nil
}

// parseCount accepts integers, optionally written as floats with no
// fractional part ("12.0"), which is how pandas exports integer columns
// that once held NaN.
func parseCount(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, fmt.Errorf("%q is not an integer", s)
		}
		n = int64(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d is negative", n)
	}
	return n, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
