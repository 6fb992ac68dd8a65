package models

import "sort"

// Table is the immutable in-memory incident table. It is built once at
// startup and shared by every request; all derived views are copies.
// A nil *Table behaves as an empty table.
type Table struct {
	rows []Incident
}

// NewTable copies rows into a new table
func NewTable(rows []Incident) *Table {
	cp := make([]Incident, len(rows))
	copy(cp, rows)
	return &Table{rows: cp}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the rows in table order
func (t *Table) Rows() []Incident {
	if t == nil {
		return nil
	}
	cp := make([]Incident, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Each calls fn for every row in table order
func (t *Table) Each(fn func(Incident)) {
	if t == nil {
		return
	}
	for _, row := range t.rows {
		fn(row)
	}
}

// Slice returns rows [offset, offset+limit) as a copy
func (t *Table) Slice(offset, limit int) []Incident {
	n := t.Len()
	if offset < 0 {
		offset = 0
	}
	if offset >= n || limit <= 0 {
		return []Incident{}
	}
	end := offset + limit
	if end > n {
		end = n
	}
	cp := make([]Incident, end-offset)
	copy(cp, t.rows[offset:end])
	return cp
}

// Filter returns a new table holding the rows matching f
func (t *Table) Filter(f IncidentFilter) *Table {
	if f.IsEmpty() {
		return NewTable(t.Rows())
	}
	out := &Table{rows: []Incident{}}
	t.Each(func(row Incident) {
		if f.Matches(row) {
			out.rows = append(out.rows, row)
		}
	})
	return out
}

// Years returns the distinct years, ascending
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	t.Each(func(row Incident) { seen[row.Year] = true })
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Provinces returns the distinct provinces, sorted
func (t *Table) Provinces() []string {
	return t.distinct(func(row Incident) string { return row.Province })
}

// CrimeTypes returns the distinct crime categories, sorted
func (t *Table) CrimeTypes() []string {
	return t.distinct(func(row Incident) string { return row.CrimeDetail })
}

func (t *Table) distinct(value func(Incident) string) []string {
	seen := make(map[string]bool)
	t.Each(func(row Incident) { seen[value(row)] = true })
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
