package model

import (
	"errors"
	"fmt"
	"strings"
)

// LabelDecoder maps label ids to crime categories. Classes are unique, so
// the mapping is bijective over the training label set.
type LabelDecoder struct {
	classes []string
}

// NewLabelDecoder validates and copies classes
func NewLabelDecoder(classes []string) (*LabelDecoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("label encoder has no classes")
	}
	seen := make(map[string]bool, len(classes))
	for i, c := range classes {
		if strings.TrimSpace(c) == "" {
			return nil, fmt.Errorf("class %d is empty", i)
		}
		if seen[c] {
			return nil, fmt.Errorf("class %q is repeated", c)
		}
		seen[c] = true
	}
	return &LabelDecoder{classes: append([]string(nil), classes...)}, nil
}

// Decode returns the category of a label id
func (d *LabelDecoder) Decode(id int) (string, error) {
	if id < 0 || id >= len(d.classes) {
		return "", fmt.Errorf("label id %d outside [0, %d)", id, len(d.classes))
	}
	return d.classes[id], nil
}

// Len returns the number of classes
func (d *LabelDecoder) Len() int {
	return len(d.classes)
}

// Classes returns a copy of the categories in id order
func (d *LabelDecoder) Classes() []string {
	return append([]string(nil), d.classes...)
}
