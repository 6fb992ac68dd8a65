package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

const (
	// DefaultHistoryLimit is applied when a filter carries no limit
	DefaultHistoryLimit = 50
	// MaxHistoryLimit bounds a single history page
	MaxHistoryLimit = 500
)

// PredictionRepository handles database operations for the prediction history
type PredictionRepository struct {
	db *sql.DB
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(db *sql.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Create records a served prediction. created_at is stored as unix milliseconds.
func (r *PredictionRepository) Create(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, province, year, category, model_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Province,
		p.Year,
		p.Category,
		p.ModelVersion,
		p.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// List returns the most recent predictions matching filter, newest first,
// together with the total number of matches.
func (r *PredictionRepository) List(ctx context.Context, filter models.PredictionFilter) ([]models.Prediction, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Province != "" {
		conditions = append(conditions, "province = ?")
		args = append(args, filter.Province)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	query := `SELECT id, province, year, category, model_version, created_at FROM predictions` +
		where + " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	predictions := []models.Prediction{}
	for rows.Next() {
		var p models.Prediction
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Province, &p.Year, &p.Category, &p.ModelVersion, &createdAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan prediction: %w", err)
		}
		p.CreatedAt = time.UnixMilli(createdAt).UTC()
		predictions = append(predictions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate predictions: %w", err)
	}

	return predictions, total, nil
}
