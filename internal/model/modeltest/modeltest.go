// Package modeltest provides a small trained-model fixture for tests.
//
// The forest predicts over the schema
// [Province_Eastern, Province_Kigali, Province_Western, Year] with classes
// [Assault, Fraud, Theft]:
//
//	Kigali,  any year   -> Theft
//	Eastern, 2025       -> Assault
//	Eastern, 2022       -> Fraud
//	unknown, 2025       -> Assault
//	unknown, 2020       -> Fraud
package modeltest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/jengzang/crime-dashboard-go/internal/model"
)

// Schema is the fixture's feature schema
var Schema = []string{"Province_Eastern", "Province_Kigali", "Province_Western", "Year"}

// Classes is the fixture's label set
var Classes = []string{"Assault", "Fraud", "Theft"}

// Forest returns a fresh copy of the fixture forest
func Forest() *model.Forest {
	return &model.Forest{
		NFeatures: 4,
		NClasses:  3,
		Trees: []model.Tree{
			{
				ChildrenLeft:  []int{1, 3, -1, -1, -1},
				ChildrenRight: []int{2, 4, -1, -1, -1},
				Feature:       []int{1, 3, -2, -2, -2},
				Threshold:     []float64{0.5, 2024.5, -2, -2, -2},
				Value:         [][]float64{{5, 6, 4}, {5, 6, 0}, {0, 0, 4}, {0, 6, 0}, {5, 0, 0}},
			},
			{
				ChildrenLeft:  []int{1, -1, -1},
				ChildrenRight: []int{2, -1, -1},
				Feature:       []int{0, -2, -2},
				Threshold:     []float64{0.5, -2, -2},
				Value:         [][]float64{{1, 4, 3}, {1, 1, 2}, {0, 3, 1}},
			},
		},
	}
}

// WriteArtifacts writes the three model artifacts into dir
func WriteArtifacts(t testing.TB, dir string) {
	t.Helper()
	write(t, filepath.Join(dir, model.ClassifierFile), Forest())
	write(t, filepath.Join(dir, model.LabelsFile), map[string][]string{"classes": Classes})
	write(t, filepath.Join(dir, model.SchemaFile), Schema)
}

// Dir writes the artifacts into a fresh temporary directory
func Dir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	WriteArtifacts(t, dir)
	return dir
}

// Bundle loads the fixture through model.Load
func Bundle(t testing.TB) *model.Bundle {
	t.Helper()
	b, err := model.Load(Dir(t))
	if err != nil {
		t.Fatalf("load fixture bundle: %v", err)
	}
	return b
}

func write(t testing.TB, path string, v interface{}) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
