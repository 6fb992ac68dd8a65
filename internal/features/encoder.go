package features

import (
	"fmt"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Field names as they appear in the training table headers
const (
	FieldProvince  = models.HeaderProvince
	FieldYear      = models.HeaderYear
	FieldCaseCount = models.HeaderCaseCount
)

// RawInput is a prediction request before encoding
type RawInput struct {
	Province  string
	Year      int
	CaseCount *int64
}

// Cell is one column of the intermediate encoding
type Cell struct {
	Name  string
	Value float64
}

// Vector is an encoded feature vector, ordered like its schema
type Vector []float64

// OneHot builds the intermediate representation of input: categorical fields
// become "<field>_<value>" = 1 and numeric fields keep their value under the
// field name. Columns for the other values of a categorical field are all
// implicitly zero.
func OneHot(input RawInput) []Cell {
	cells := []Cell{
		{Name: FieldYear, Value: float64(input.Year)},
		{Name: FieldProvince + "_" + input.Province, Value: 1},
	}
	if input.CaseCount != nil {
		cells = append(cells, Cell{Name: FieldCaseCount, Value: float64(*input.CaseCount)})
	}
	return cells
}

// Encode reindexes the one-hot representation of input against schema.
//
// Output position i holds the intermediate value of schema column i, or 0
// when the input produced no such column. Intermediate columns missing from
// the schema are dropped, so a province unseen at training time encodes as
// an all-zero province block. The output always has exactly schema.Len()
// values in schema order.
func Encode(input RawInput, schema *Schema) (Vector, error) {
	if schema.Len() == 0 {
		return nil, fmt.Errorf("%w: empty schema", models.ErrSchemaMismatch)
	}

	out := make(Vector, schema.Len())
	for _, cell := range OneHot(input) {
		if i, ok := schema.Index(cell.Name); ok {
			out[i] = cell.Value
		}
	}
	return out, nil
}

// Dropped returns the intermediate columns of input the schema does not
// know. A non-empty result is expected for unseen categories.
func Dropped(input RawInput, schema *Schema) []string {
	var dropped []string
	for _, cell := range OneHot(input) {
		if _, ok := schema.Index(cell.Name); !ok {
			dropped = append(dropped, cell.Name)
		}
	}
	return dropped
}
