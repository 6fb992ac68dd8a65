package models

import "errors"

// Sentinel errors shared by the loaders, the aggregation engine and the
// prediction pipeline. Callers wrap them with fmt.Errorf("...: %w", err)
// and the HTTP layer maps them to status codes with errors.Is.
var (
	// ErrDataUnavailable means the incident table could not be loaded.
	// Analytics is disabled; the process keeps running.
	ErrDataUnavailable = errors.New("incident data unavailable")

	// ErrModelUnavailable means the model bundle could not be loaded as a
	// whole. Prediction is disabled; analytics keeps working.
	ErrModelUnavailable = errors.New("prediction model unavailable")

	// ErrEmptyInput is returned by aggregations that have no answer on a
	// zero-row table.
	ErrEmptyInput = errors.New("no incidents match the selection")

	// ErrSchemaMismatch signals a malformed schema or drift between the
	// encoder output and the classifier input.
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrInvalidInput is returned for malformed request parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidColumn is returned for an unknown or repeated group column.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrHistoryUnavailable means the prediction history store is not configured.
	ErrHistoryUnavailable = errors.New("prediction history unavailable")
)
