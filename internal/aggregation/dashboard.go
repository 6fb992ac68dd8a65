package aggregation

import (
	"sort"

	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/internal/stats"
)

// QuickStats computes the headline figures. An empty table yields zero
// values and no highest province rather than an error.
func QuickStats(t *models.Table) models.QuickStats {
	qs := models.QuickStats{
		TotalCases:       TotalCases(t),
		Records:          t.Len(),
		UniqueCrimeTypes: len(t.CrimeTypes()),
		ProvinceCount:    len(t.Provinces()),
	}
	if t.Len() == 0 {
		return qs
	}

	if best, err := HighestGroup(t, models.ColumnProvince); err == nil {
		qs.HighestProvince = best.Key[0]
		qs.HighestProvinceCases = best.Sum
	}
	years := t.Years()
	qs.LatestYear = years[len(years)-1]
	return qs
}

// Trend returns the per-year series sorted by year with peak and low points
func Trend(t *models.Table) models.TrendSeries {
	series := models.TrendSeries{Points: perYear(t)}
	low, peak, err := ExtremumYear(t)
	if err != nil {
		return series
	}
	series.Low = &low
	series.Peak = &peak
	return series
}

// ProvinceShares returns per-province sums sorted ascending by sum (ties by
// name) with each province's percentage of the total.
func ProvinceShares(t *models.Table) []models.ProvinceShare {
	set, err := GroupSum(t, models.ColumnProvince)
	if err != nil {
		return nil
	}
	total := TotalCases(t)

	shares := make([]models.ProvinceShare, 0, set.Len())
	for _, g := range set.Groups {
		share := models.ProvinceShare{Province: g.Key[0], Cases: g.Sum}
		if total > 0 {
			share.Percent = float64(g.Sum) / float64(total) * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool {
		if shares[i].Cases != shares[j].Cases {
			return shares[i].Cases < shares[j].Cases
		}
		return shares[i].Province < shares[j].Province
	})
	return shares
}

// Describe summarises the numeric columns, Year and Number of Cases
func Describe(t *models.Table) []models.ColumnDescription {
	years := make([]float64, 0, t.Len())
	cases := make([]float64, 0, t.Len())
	t.Each(func(row models.Incident) {
		years = append(years, float64(row.Year))
		cases = append(cases, float64(row.CaseCount))
	})

	return []models.ColumnDescription{
		describeColumn(models.HeaderYear, years),
		describeColumn(models.HeaderCaseCount, cases),
	}
}

func describeColumn(name string, values []float64) models.ColumnDescription {
	s := stats.Describe(values)
	return models.ColumnDescription{
		Column: name,
		Count:  s.Count,
		Mean:   s.Mean,
		Std:    s.Std,
		Min:    s.Min,
		P25:    s.Q1,
		P50:    s.Q2,
		P75:    s.Q3,
		Max:    s.Max,
	}
}
