// Package aggregation computes summary statistics and chart-ready rollups
// over an incident table. Every function is pure: the table is only read.
//
// Tie-breaks are deterministic: where several keys share the extreme sum,
// the smallest key wins (years numerically, names lexically).
package aggregation

import (
	"fmt"
	"sort"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// DefaultTopN bounds TopN when the caller passes n <= 0
const DefaultTopN = 10

// TotalCases sums case counts over all rows; 0 for an empty table
func TotalCases(t *models.Table) int64 {
	var total int64
	t.Each(func(row models.Incident) {
		total += row.CaseCount
	})
	return total
}

// GroupSum groups rows by the Cartesian key of cols and sums case counts per
// group. Duplicate rows are summed. The result is sorted by key ascending and
// can be re-sorted by the caller. An empty table yields an empty set.
func GroupSum(t *models.Table, cols ...models.Column) (*models.GroupSet, error) {
	if err := validateColumns(cols); err != nil {
		return nil, err
	}

	// validateColumns caps cols at three distinct columns
	index := make(map[[3]string]int)
	set := &models.GroupSet{
		Columns: append([]models.Column(nil), cols...),
		Groups:  []models.Group{},
	}

	t.Each(func(row models.Incident) {
		var id [3]string
		for i, col := range cols {
			id[i] = row.Value(col)
		}
		if i, ok := index[id]; ok {
			set.Groups[i].Sum += row.CaseCount
			return
		}
		index[id] = len(set.Groups)
		key := append([]string(nil), id[:len(cols)]...)
		set.Groups = append(set.Groups, models.Group{Key: key, Sum: row.CaseCount})
	})

	set.SortByKeyAsc()
	return set, nil
}

// TopN returns at most n groups of col sorted by sum descending, ties broken
// by key ascending. Fewer distinct keys than n returns all of them.
func TopN(t *models.Table, col models.Column, n int) ([]models.Group, error) {
	set, err := GroupSum(t, col)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = DefaultTopN
	}
	set.SortBySumDesc()
	return set.Head(n), nil
}

// HighestGroup returns the key of col with the largest summed case count.
// Ties go to the smallest key.
func HighestGroup(t *models.Table, col models.Column) (models.Group, error) {
	if t.Len() == 0 {
		return models.Group{}, fmt.Errorf("highest %s: %w", col, models.ErrEmptyInput)
	}
	set, err := GroupSum(t, col)
	if err != nil {
		return models.Group{}, err
	}

	// set is key-ascending, so the first strict maximum is the smallest key
	best := set.Groups[0]
	for _, g := range set.Groups[1:] {
		if g.Sum > best.Sum {
			best = g
		}
	}
	return best, nil
}

// ExtremumYear returns the years with the lowest and highest per-year sums.
// Ties go to the smallest year.
func ExtremumYear(t *models.Table) (low, peak models.YearSum, err error) {
	if t.Len() == 0 {
		return low, peak, fmt.Errorf("extremum year: %w", models.ErrEmptyInput)
	}

	series := perYear(t)
	low, peak = series[0], series[0]
	for _, p := range series[1:] {
		if p.Cases < low.Cases {
			low = p
		}
		if p.Cases > peak.Cases {
			peak = p
		}
	}
	return low, peak, nil
}

// perYear returns the per-year sums ordered by year ascending
func perYear(t *models.Table) []models.YearSum {
	sums := make(map[int]int64)
	t.Each(func(row models.Incident) {
		sums[row.Year] += row.CaseCount
	})

	series := make([]models.YearSum, 0, len(sums))
	for year, cases := range sums {
		series = append(series, models.YearSum{Year: year, Cases: cases})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Year < series[j].Year
	})
	return series
}

func validateColumns(cols []models.Column) error {
	if len(cols) == 0 {
		return fmt.Errorf("%w: at least one column is required", models.ErrInvalidColumn)
	}
	seen := make(map[models.Column]bool, len(cols))
	for _, col := range cols {
		if !col.Valid() {
			return fmt.Errorf("%w: %q", models.ErrInvalidColumn, col)
		}
		if seen[col] {
			return fmt.Errorf("%w: %q given twice", models.ErrInvalidColumn, col)
		}
		seen[col] = true
	}
	return nil
}
