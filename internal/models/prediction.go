package models

import "time"

// Prediction is one served prediction, as recorded in the history store
type Prediction struct {
	ID           string    `json:"id" db:"id"`
	Province     string    `json:"province" db:"province"`
	Year         int       `json:"year" db:"year"`
	Category     string    `json:"predicted_category" db:"category"`
	ModelVersion string    `json:"model_version" db:"model_version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PredictionOptions describes the inputs the prediction form accepts
type PredictionOptions struct {
	Provinces   []string `json:"provinces"`
	MinYear     int      `json:"min_year"`
	MaxYear     int      `json:"max_year"`
	DefaultYear int      `json:"default_year"`
}
