// Package app builds the process state shared by the server and the CLI:
// the incident table, the model bundle, the history store and the services
// over them. Each is loaded once; a failed load disables only the features
// that depend on it.
package app

import (
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/config"
	"github.com/jengzang/crime-dashboard-go/internal/database"
	"github.com/jengzang/crime-dashboard-go/internal/dataset"
	"github.com/jengzang/crime-dashboard-go/internal/metrics"
	"github.com/jengzang/crime-dashboard-go/internal/model"
	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/internal/repository"
	"github.com/jengzang/crime-dashboard-go/internal/service"
)

// State is the read-only process state
type State struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	Table  *models.Table
	Bundle *model.Bundle
	DB     *sql.DB

	Analytics   *service.AnalyticsService
	Predictions *service.PredictionService
}

// Build loads everything cfg points at. Load failures are logged and leave
// the corresponding field nil.
func Build(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *State {
	s := &State{Config: cfg, Logger: logger, Metrics: m}

	table, err := dataset.LoadFile(cfg.Data.Path, dataset.Options{Delimiter: cfg.DelimiterRune()})
	if err != nil {
		logger.Warn("Incident data unavailable; analytics disabled", zap.String("path", cfg.Data.Path), zap.Error(err))
	} else {
		s.Table = table
		logger.Info("Incident data loaded", zap.String("path", cfg.Data.Path), zap.Int("rows", table.Len()))
	}

	bundle, err := model.Load(cfg.Model.Dir)
	if err != nil {
		fields := []zap.Field{zap.String("dir", cfg.Model.Dir), zap.Error(err)}
		if errors.Is(err, models.ErrSchemaMismatch) {
			logger.Error("Model artifacts disagree; prediction disabled", fields...)
		} else {
			logger.Warn("Model unavailable; prediction disabled", fields...)
		}
	} else {
		s.Bundle = bundle
		logger.Info("Model loaded",
			zap.String("dir", cfg.Model.Dir),
			zap.String("version", bundle.Version),
			zap.Int("features", bundle.Schema.Len()),
			zap.Int("classes", bundle.Labels.Len()),
		)
	}

	var store service.PredictionStore
	if cfg.Database.Path != "" {
		db, err := database.Open(database.Config{Path: cfg.Database.Path}, logger)
		if err != nil {
			logger.Warn("Prediction history unavailable", zap.String("path", cfg.Database.Path), zap.Error(err))
		} else {
			s.DB = db
			store = repository.NewPredictionRepository(db)
		}
	}

	m.SetDatasetRows(s.Table.Len())
	m.SetModelLoaded(s.Bundle != nil)

	s.Analytics = service.NewAnalyticsService(s.Table, cfg.Server.TopN)
	s.Predictions = service.NewPredictionService(s.Bundle, s.Table, store, service.YearRange{
		Min:     cfg.Prediction.MinYear,
		Max:     cfg.Prediction.MaxYear,
		Default: cfg.Prediction.DefaultYear,
	}, m, logger)

	return s
}

// DataLoaded reports whether the incident table is available
func (s *State) DataLoaded() bool {
	return s.Table != nil
}

// ModelLoaded reports whether the model bundle is available
func (s *State) ModelLoaded() bool {
	return s.Bundle != nil
}

// HistoryEnabled reports whether predictions are being recorded
func (s *State) HistoryEnabled() bool {
	return s.DB != nil
}

// Close releases the history store
func (s *State) Close() error {
	if s.DB == nil {
		return nil
	}
	return s.DB.Close()
}
