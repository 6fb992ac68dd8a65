package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/database"
	"github.com/jengzang/crime-dashboard-go/internal/models"
)

func newRepo(t *testing.T) *PredictionRepository {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "history.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPredictionRepository(db)
}

func seed(t *testing.T, repo *PredictionRepository) {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := []struct {
		province, category string
	}{
		{"Kigali", "Theft"},
		{"Eastern", "Assault"},
		{"Kigali", "Fraud"},
		{"Kigali", "Theft"},
	}
	for i, r := range rows {
		err := repo.Create(context.Background(), &models.Prediction{
			ID:           fmt.Sprintf("p-%d", i),
			Province:     r.province,
			Year:         2025,
			Category:     r.category,
			ModelVersion: "abc123",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestPredictionRepository_ListNewestFirst(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)

	got, total, err := repo.List(context.Background(), models.PredictionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, got, 4)
	assert.Equal(t, "p-3", got[0].ID)
	assert.Equal(t, "p-0", got[3].ID)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 3, 0, 0, time.UTC), got[0].CreatedAt)
	assert.Equal(t, "abc123", got[0].ModelVersion)
}

func TestPredictionRepository_Filters(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)

	got, total, err := repo.List(context.Background(), models.PredictionFilter{Province: "Kigali", Category: "Theft"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, got, 2)
	for _, p := range got {
		assert.Equal(t, "Kigali", p.Province)
		assert.Equal(t, "Theft", p.Category)
	}
}

func TestPredictionRepository_LimitKeepsTotal(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo)

	got, total, err := repo.List(context.Background(), models.PredictionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, got, 1)
	assert.Equal(t, "p-3", got[0].ID)
}

func TestPredictionRepository_EmptyIsNotNil(t *testing.T) {
	repo := newRepo(t)

	got, total, err := repo.List(context.Background(), models.PredictionFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPredictionRepository_DuplicateID(t *testing.T) {
	repo := newRepo(t)
	p := &models.Prediction{ID: "same", Province: "Kigali", Year: 2025, Category: "Theft", ModelVersion: "v", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Error(t, repo.Create(context.Background(), p))
}

func TestPredictionRepository_ConcurrentCreate(t *testing.T) {
	repo := newRepo(t)

	const writers, perWriter = 16, 25
	var wg sync.WaitGroup
	errs := make(chan error, writers*perWriter)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				errs <- repo.Create(context.Background(), &models.Prediction{
					ID:           fmt.Sprintf("w%d-%d", w, i),
					Province:     "Kigali",
					Year:         2025,
					Category:     "Theft",
					ModelVersion: "abc123",
					CreatedAt:    time.Now(),
				})
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	_, total, err := repo.List(context.Background(), models.PredictionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(writers*perWriter), total)
}
