package model

import (
	"errors"
	"fmt"
)

// leafNode marks a missing child in the exported tree arrays
const leafNode = -1

// Classifier maps a feature vector to an integer label id
type Classifier interface {
	Predict(x []float64) (int, error)
	NumFeatures() int
}

// Tree is one exported decision tree. Node i splits on Feature[i] at
// Threshold[i]: x <= threshold goes to ChildrenLeft[i], otherwise to
// ChildrenRight[i]. Leaves have both children set to -1. Value[i] holds the
// class weights observed at node i.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// Forest is a random-forest classifier exported from training. Classes maps
// the forest's class index to a label id; it defaults to the identity when
// omitted.
type Forest struct {
	NFeatures int    `json:"n_features"`
	NClasses  int    `json:"n_classes"`
	Classes   []int  `json:"classes,omitempty"`
	Trees     []Tree `json:"trees"`
}

// NumFeatures returns the expected feature vector length
func (f *Forest) NumFeatures() int {
	return f.NFeatures
}

// Validate checks the forest structure. Children must point forward so that
// every descent terminates.
func (f *Forest) Validate() error {
	if f.NFeatures <= 0 {
		return errors.New("n_features must be positive")
	}
	if f.NClasses <= 0 {
		return errors.New("n_classes must be positive")
	}
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	if f.Classes != nil && len(f.Classes) != f.NClasses {
		return fmt.Errorf("classes has %d entries, n_classes is %d", len(f.Classes), f.NClasses)
	}
	for i := range f.Trees {
		if err := f.Trees[i].validate(f.NFeatures, f.NClasses); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

func (t *Tree) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return errors.New("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return errors.New("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if len(t.Value[i]) != nClasses {
			return fmt.Errorf("node %d has %d class weights, want %d", i, len(t.Value[i]), nClasses)
		}
		if left == leafNode || right == leafNode {
			if left != right {
				return fmt.Errorf("node %d has a single child", i)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has children out of range", i)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d", i, t.Feature[i])
		}
	}
	return nil
}

// leaf descends to the leaf reached by x
func (t *Tree) leaf(x []float64) int {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return node
}

// PredictProba averages the normalised leaf class weights of every tree.
// The result is indexed by forest class index.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NFeatures {
		return nil, fmt.Errorf("got %d features, model expects %d", len(x), f.NFeatures)
	}

	proba := make([]float64, f.NClasses)
	for i := range f.Trees {
		weights := f.Trees[i].Value[f.Trees[i].leaf(x)]
		var total float64
		for _, w := range weights {
			total += w
		}
		if total == 0 {
			continue
		}
		for c, w := range weights {
			proba[c] += w / total
		}
	}
	for c := range proba {
		proba[c] /= float64(len(f.Trees))
	}
	return proba, nil
}

// Predict returns the label id with the highest mean probability. Ties go
// to the lowest class index.
func (f *Forest) Predict(x []float64) (int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return 0, err
	}

	best := 0
	for c := 1; c < len(proba); c++ {
		if proba[c] > proba[best] {
			best = c
		}
	}
	if f.Classes != nil {
		return f.Classes[best], nil
	}
	return best, nil
}
