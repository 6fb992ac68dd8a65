package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/crime-dashboard-go/internal/models"
)

// queryList collects a repeatable query parameter, also splitting
// comma-separated values: ?year=2022&year=2023 equals ?year=2022,2023
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// parseFilter reads the year, province and crime filters
func parseFilter(c *gin.Context) (models.IncidentFilter, error) {
	var f models.IncidentFilter
	for _, v := range queryList(c, "year") {
		year, err := strconv.Atoi(v)
		if err != nil {
			return f, fmt.Errorf("%w: year %q is not a number", models.ErrInvalidInput, v)
		}
		f.Years = append(f.Years, year)
	}
	f.Provinces = queryList(c, "province")
	f.CrimeTypes = queryList(c, "crime")
	return f, nil
}

// parseColumns reads the group columns of key, or def when absent
func parseColumns(c *gin.Context, key string, def ...models.Column) ([]models.Column, error) {
	names := queryList(c, key)
	if len(names) == 0 {
		return def, nil
	}
	return models.ParseColumns(names)
}

// parseColumn reads a single column of key, or def when absent
func parseColumn(c *gin.Context, key string, def models.Column) (models.Column, error) {
	cols, err := parseColumns(c, key, def)
	if err != nil {
		return "", err
	}
	if len(cols) != 1 {
		return "", fmt.Errorf("%w: %s takes a single column", models.ErrInvalidColumn, key)
	}
	return cols[0], nil
}

// parseInt reads an integer query parameter, or def when absent
func parseInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", models.ErrInvalidInput, key, raw)
	}
	return n, nil
}
