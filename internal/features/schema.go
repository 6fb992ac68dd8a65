// Package features turns raw prediction inputs into numeric feature vectors
// aligned to the column schema a classifier was trained with.
package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Schema is the ordered list of feature column names a model was trained
// against, with an explicit name -> position index. It is immutable.
type Schema struct {
	names []string
	index map[string]int
}

// NewSchema validates names and builds the lookup index. Names must be
// non-empty and unique.
func NewSchema(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: schema has no columns", models.ErrSchemaMismatch)
	}

	s := &Schema{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", models.ErrSchemaMismatch, i)
		}
		if prev, dup := s.index[name]; dup {
			return nil, fmt.Errorf("%w: column %q appears at %d and %d", models.ErrSchemaMismatch, name, prev, i)
		}
		s.names[i] = name
		s.index[name] = i
	}
	return s, nil
}

// Len returns the number of columns
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns a copy of the column names in order
func (s *Schema) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Index returns the position of a column
func (s *Schema) Index(name string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.index[name]
	return i, ok
}

// CategoricalValues returns the values of a one-hot encoded field known to
// the schema, e.g. the provinces behind "Province_*" columns. Sorted.
func (s *Schema) CategoricalValues(field string) []string {
	prefix := field + "_"
	values := []string{}
	for _, name := range s.Names() {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			values = append(values, name[len(prefix):])
		}
	}
	sort.Strings(values)
	return values
}
