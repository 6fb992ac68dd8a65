package model

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jengzang/crime-dashboard-go/internal/features"
	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Artifact file names inside the model directory
const (
	ClassifierFile = "crime_model.json"
	LabelsFile     = "label_encoder.json"
	SchemaFile     = "model_features.json"
)

// Bundle is the classifier, label decoder and schema of one trained model.
// It is read-only after construction and safe for concurrent use.
type Bundle struct {
	Classifier Classifier
	Labels     *LabelDecoder
	Schema     *features.Schema
	Version    string
}

// NewBundle checks that the three parts agree with one another.
//
// With an explicit class list every forest class id must have a label.
// Without one the forest may know fewer classes than the label encoder,
// since the encoder is fit on the whole frame and the forest on the training
// split only; it may never know more.
func NewBundle(classifier Classifier, labels *LabelDecoder, schema *features.Schema) (*Bundle, error) {
	if classifier == nil || labels == nil || schema == nil {
		return nil, fmt.Errorf("%w: incomplete bundle", models.ErrModelUnavailable)
	}
	if classifier.NumFeatures() != schema.Len() {
		return nil, fmt.Errorf("%w: classifier expects %d features, schema has %d",
			models.ErrSchemaMismatch, classifier.NumFeatures(), schema.Len())
	}
	if f, ok := classifier.(*Forest); ok {
		ids := f.Classes
		if ids == nil && f.NClasses > labels.Len() {
			return nil, fmt.Errorf("%w: forest has %d classes, label encoder %d",
				models.ErrModelUnavailable, f.NClasses, labels.Len())
		}
		for _, id := range ids {
			if id < 0 || id >= labels.Len() {
				return nil, fmt.Errorf("%w: forest class %d has no label", models.ErrModelUnavailable, id)
			}
		}
	}
	return &Bundle{Classifier: classifier, Labels: labels, Schema: schema}, nil
}

type labelsFile struct {
	Classes []string `json:"classes"`
}

// Load reads the three artifacts from dir. Any missing or malformed artifact
// fails the whole load with ErrModelUnavailable.
func Load(dir string) (*Bundle, error) {
	raw := make(map[string][]byte, 3)
	for _, name := range []string{ClassifierFile, LabelsFile, SchemaFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read %s: %v", models.ErrModelUnavailable, name, err)
		}
		raw[name] = data
	}

	var forest Forest
	if err := decodeStrict(raw[ClassifierFile], &forest); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", models.ErrModelUnavailable, ClassifierFile, err)
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", models.ErrModelUnavailable, ClassifierFile, err)
	}

	var lf labelsFile
	if err := decodeStrict(raw[LabelsFile], &lf); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", models.ErrModelUnavailable, LabelsFile, err)
	}
	labels, err := NewLabelDecoder(lf.Classes)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", models.ErrModelUnavailable, LabelsFile, err)
	}

	var names []string
	if err := decodeStrict(raw[SchemaFile], &names); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", models.ErrModelUnavailable, SchemaFile, err)
	}
	schema, err := features.NewSchema(names)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s: %v", models.ErrModelUnavailable, SchemaFile, err)
	}

	bundle, err := NewBundle(&forest, labels, schema)
	if err != nil {
		if errors.Is(err, models.ErrModelUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", models.ErrModelUnavailable, err)
	}
	bundle.Version = version(raw[ClassifierFile], raw[LabelsFile], raw[SchemaFile])
	return bundle, nil
}

// Predict runs classify -> decode on an already encoded vector
func (b *Bundle) Predict(x features.Vector) (string, error) {
	if len(x) != b.Schema.Len() {
		return "", fmt.Errorf("%w: vector has %d values, schema %d", models.ErrSchemaMismatch, len(x), b.Schema.Len())
	}
	id, err := b.Classifier.Predict(x)
	if err != nil {
		return "", fmt.Errorf("failed to classify: %w", err)
	}
	category, err := b.Labels.Decode(id)
	if err != nil {
		return "", fmt.Errorf("failed to decode label: %w", err)
	}
	return category, nil
}

func decodeStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// version fingerprints the artifact contents
func version(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
