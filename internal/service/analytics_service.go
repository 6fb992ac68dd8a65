package service

import (
	"fmt"

	"github.com/jengzang/crime-dashboard-go/internal/aggregation"
	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// Group orderings accepted by AnalyticsService.Group
const (
	SortByKey = "key"
	SortBySum = "sum"
)

// AnalyticsService answers dashboard queries over the loaded incident table.
// Every query runs on a filtered view; the table itself is never modified.
type AnalyticsService struct {
	table *models.Table
	topN  int
}

// NewAnalyticsService creates an analytics service. table is nil when the
// incident data failed to load; every query then reports ErrDataUnavailable.
func NewAnalyticsService(table *models.Table, topN int) *AnalyticsService {
	if topN < 1 {
		topN = aggregation.DefaultTopN
	}
	return &AnalyticsService{table: table, topN: topN}
}

// Available reports whether incident data is loaded
func (s *AnalyticsService) Available() bool {
	return s.table != nil
}

func (s *AnalyticsService) view(filter models.IncidentFilter) (*models.Table, error) {
	if s.table == nil {
		return nil, models.ErrDataUnavailable
	}
	if filter.IsEmpty() {
		return s.table, nil
	}
	return s.table.Filter(filter), nil
}

// Summary returns the headline figures of the selection
func (s *AnalyticsService) Summary(filter models.IncidentFilter) (models.QuickStats, error) {
	t, err := s.view(filter)
	if err != nil {
		return models.QuickStats{}, err
	}
	return aggregation.QuickStats(t), nil
}

// Describe returns count, mean, spread and quartiles of the numeric columns
func (s *AnalyticsService) Describe(filter models.IncidentFilter) ([]models.ColumnDescription, error) {
	t, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return aggregation.Describe(t), nil
}

// Group sums case counts per key of cols, ordered by key or by sum
func (s *AnalyticsService) Group(filter models.IncidentFilter, cols []models.Column, order string) (*models.GroupSet, error) {
	t, err := s.view(filter)
	if err != nil {
		return nil, err
	}

	set, err := aggregation.GroupSum(t, cols...)
	if err != nil {
		return nil, err
	}

	switch order {
	case "", SortByKey:
	case SortBySum:
		set.SortBySumDesc()
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", models.ErrInvalidInput, order)
	}
	return set, nil
}

// Top returns the n largest groups of col. n <= 0 uses the configured default.
func (s *AnalyticsService) Top(filter models.IncidentFilter, col models.Column, n int) ([]models.Group, error) {
	t, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.topN
	}
	return aggregation.TopN(t, col, n)
}

// Trend returns cases per year with the peak and low years
func (s *AnalyticsService) Trend(filter models.IncidentFilter) (models.TrendSeries, error) {
	t, err := s.view(filter)
	if err != nil {
		return models.TrendSeries{}, err
	}
	return aggregation.Trend(t), nil
}

// ProvinceShares returns cases per province with their share of the total
func (s *AnalyticsService) ProvinceShares(filter models.IncidentFilter) ([]models.ProvinceShare, error) {
	t, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	return aggregation.ProvinceShares(t), nil
}

// Highest returns the group of col with the most cases
func (s *AnalyticsService) Highest(filter models.IncidentFilter, col models.Column) (models.Group, error) {
	t, err := s.view(filter)
	if err != nil {
		return models.Group{}, err
	}
	return aggregation.HighestGroup(t, col)
}

// Incidents returns one page of matching rows and the total match count
func (s *AnalyticsService) Incidents(filter models.IncidentFilter, page models.Pagination) ([]models.Incident, int, error) {
	t, err := s.view(filter)
	if err != nil {
		return nil, 0, err
	}
	page = page.Normalize()
	return t.Slice(page.Offset(), page.PageSize), t.Len(), nil
}

// FilterOptions lists the distinct values available to each filter
func (s *AnalyticsService) FilterOptions() (models.FilterOptions, error) {
	if s.table == nil {
		return models.FilterOptions{}, models.ErrDataUnavailable
	}
	return models.FilterOptions{
		Years:      s.table.Years(),
		Provinces:  s.table.Provinces(),
		CrimeTypes: s.table.CrimeTypes(),
	}, nil
}

// Export returns the rows to download. An empty selection is ErrEmptyInput.
func (s *AnalyticsService) Export(filter models.IncidentFilter) (*models.Table, error) {
	t, err := s.view(filter)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("%w: nothing to export", models.ErrEmptyInput)
	}
	return t, nil
}
