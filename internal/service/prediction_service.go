package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/features"
	"github.com/jengzang/crime-dashboard-go/internal/metrics"
	"github.com/jengzang/crime-dashboard-go/internal/model"
	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// PredictionStore persists served predictions
type PredictionStore interface {
	Create(ctx context.Context, p *models.Prediction) error
	List(ctx context.Context, filter models.PredictionFilter) ([]models.Prediction, int64, error)
}

// YearRange bounds the year a prediction may be requested for
type YearRange struct {
	Min     int
	Max     int
	Default int
}

// PredictionService runs encode, classify and decode over the loaded bundle
type PredictionService struct {
	bundle  *model.Bundle
	table   *models.Table
	store   PredictionStore
	years   YearRange
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewPredictionService creates a prediction service. bundle may be nil when
// the model failed to load, store may be nil when history is disabled, and
// table is used only to list provinces for the form.
func NewPredictionService(bundle *model.Bundle, table *models.Table, store PredictionStore, years YearRange, m *metrics.Metrics, logger *zap.Logger) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{
		bundle:  bundle,
		table:   table,
		store:   store,
		years:   years,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Available reports whether a model bundle is loaded
func (s *PredictionService) Available() bool {
	return s.bundle != nil
}

// Predict returns the predicted crime category for input
func (s *PredictionService) Predict(ctx context.Context, input features.RawInput) (*models.Prediction, error) {
	start := time.Now()
	input.Province = strings.TrimSpace(input.Province)

	category, err := s.classify(input)
	if err != nil {
		s.metrics.ObservePrediction(outcome(err), "", 0)
		if errors.Is(err, models.ErrSchemaMismatch) {
			s.logger.Error("Feature schema does not match classifier", zap.Error(err))
		}
		return nil, err
	}
	s.metrics.ObservePrediction(metrics.OutcomeSuccess, category, time.Since(start))

	p := &models.Prediction{
		ID:           uuid.NewString(),
		Province:     input.Province,
		Year:         input.Year,
		Category:     category,
		ModelVersion: s.bundle.Version,
		CreatedAt:    s.now().UTC(),
	}

	if s.store != nil {
		if err := s.store.Create(ctx, p); err != nil {
			s.logger.Warn("Failed to record prediction", zap.String("id", p.ID), zap.Error(err))
		}
	}

	return p, nil
}

func (s *PredictionService) classify(input features.RawInput) (string, error) {
	if input.Province == "" {
		return "", fmt.Errorf("%w: province is required", models.ErrInvalidInput)
	}
	if input.Year < s.years.Min || input.Year > s.years.Max {
		return "", fmt.Errorf("%w: year %d outside [%d, %d]", models.ErrInvalidInput, input.Year, s.years.Min, s.years.Max)
	}
	if input.CaseCount != nil && *input.CaseCount < 0 {
		return "", fmt.Errorf("%w: case count must not be negative", models.ErrInvalidInput)
	}
	if s.bundle == nil {
		return "", models.ErrModelUnavailable
	}

	vector, err := features.Encode(input, s.bundle.Schema)
	if err != nil {
		return "", err
	}
	if dropped := features.Dropped(input, s.bundle.Schema); len(dropped) > 0 {
		s.logger.Debug("Input columns unknown to the model", zap.Strings("columns", dropped))
	}
	return s.bundle.Predict(vector)
}

// Options returns what the prediction form offers: provinces from the incident
// table when it is loaded, otherwise the provinces the model was trained on.
func (s *PredictionService) Options() (*models.PredictionOptions, error) {
	if s.bundle == nil {
		return nil, models.ErrModelUnavailable
	}

	provinces := s.table.Provinces()
	if len(provinces) == 0 {
		provinces = s.bundle.Schema.CategoricalValues(features.FieldProvince)
	}
	if provinces == nil {
		provinces = []string{}
	}

	def := s.years.Default
	if def < s.years.Min {
		def = s.years.Min
	}
	if def > s.years.Max {
		def = s.years.Max
	}

	return &models.PredictionOptions{
		Provinces:   provinces,
		MinYear:     s.years.Min,
		MaxYear:     s.years.Max,
		DefaultYear: def,
	}, nil
}

// History lists recorded predictions, newest first
func (s *PredictionService) History(ctx context.Context, filter models.PredictionFilter) ([]models.Prediction, int64, error) {
	if s.store == nil {
		return nil, 0, models.ErrHistoryUnavailable
	}
	predictions, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, total, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return metrics.OutcomeInvalid
	case errors.Is(err, models.ErrModelUnavailable):
		return metrics.OutcomeUnavailable
	case errors.Is(err, models.ErrSchemaMismatch):
		return metrics.OutcomeMismatch
	default:
		return metrics.OutcomeError
	}
}
