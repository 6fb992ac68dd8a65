package models

import (
	"sort"
	"strconv"
	"strings"
)

// Group is one grouped sum. Key holds one value per grouping column.
type Group struct {
	Key []string `json:"key"`
	Sum int64    `json:"sum"`
}

// Label joins the key values for display
func (g Group) Label() string {
	return strings.Join(g.Key, " / ")
}

// GroupSet is the re-sortable result of a group-sum. The engine returns it
// sorted by key ascending; callers re-sort for rankings.
type GroupSet struct {
	Columns []Column `json:"columns"`
	Groups  []Group  `json:"groups"`
}

// Len returns the number of groups
func (s *GroupSet) Len() int {
	return len(s.Groups)
}

// Lookup returns the sum for a key tuple
func (s *GroupSet) Lookup(key ...string) (int64, bool) {
	for _, g := range s.Groups {
		if equalKeys(g.Key, key) {
			return g.Sum, true
		}
	}
	return 0, false
}

// Map returns the sums keyed by the joined key label
func (s *GroupSet) Map() map[string]int64 {
	out := make(map[string]int64, len(s.Groups))
	for _, g := range s.Groups {
		out[g.Label()] = g.Sum
	}
	return out
}

// SortByKeyAsc orders groups by key, column by column. Year keys compare
// numerically, everything else lexically.
func (s *GroupSet) SortByKeyAsc() {
	sort.SliceStable(s.Groups, func(i, j int) bool {
		return CompareKeys(s.Columns, s.Groups[i].Key, s.Groups[j].Key) < 0
	})
}

// SortBySumDesc orders groups by sum descending, ties by key ascending
func (s *GroupSet) SortBySumDesc() {
	sort.SliceStable(s.Groups, func(i, j int) bool {
		a, b := s.Groups[i], s.Groups[j]
		if a.Sum != b.Sum {
			return a.Sum > b.Sum
		}
		return CompareKeys(s.Columns, a.Key, b.Key) < 0
	})
}

// Head returns a copy of at most n leading groups
func (s *GroupSet) Head(n int) []Group {
	if n > len(s.Groups) || n < 0 {
		n = len(s.Groups)
	}
	out := make([]Group, n)
	copy(out, s.Groups[:n])
	return out
}

// CompareKeys compares two key tuples under the given columns
func CompareKeys(cols []Column, a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		var c int
		if i < len(cols) && cols[i].Numeric() {
			c = compareNumeric(a[i], b[i])
		} else {
			c = strings.Compare(a[i], b[i])
		}
		if c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

func compareNumeric(a, b string) int {
	x, errA := strconv.Atoi(a)
	y, errB := strconv.Atoi(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
