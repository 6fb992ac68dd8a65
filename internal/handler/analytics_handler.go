package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/internal/service"
	"github.com/jengzang/crime-dashboard-go/pkg/response"
)

// AnalyticsHandler handles HTTP requests for dashboard statistics
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

type groupView struct {
	Key   []string `json:"key"`
	Label string   `json:"label"`
	Sum   int64    `json:"sum"`
}

func groupViews(groups []models.Group) []groupView {
	out := make([]groupView, len(groups))
	for i, g := range groups {
		out[i] = groupView{Key: g.Key, Label: g.Label(), Sum: g.Sum}
	}
	return out
}

// GetSummary handles GET /api/v1/stats/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	summary, err := h.analytics.Summary(filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, summary)
}

// GetDescribe handles GET /api/v1/stats/describe
func (h *AnalyticsHandler) GetDescribe(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	desc, err := h.analytics.Describe(filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{"data": desc, "count": len(desc)})
}

// GetGroups handles GET /api/v1/stats/group?by=year,province&sort=key|sum
func (h *AnalyticsHandler) GetGroups(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	cols, err := parseColumns(c, "by", models.ColumnYear)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	set, err := h.analytics.Group(filter, cols, c.Query("sort"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{
		"columns": set.Columns,
		"data":    groupViews(set.Groups),
		"count":   set.Len(),
	})
}

// GetTop handles GET /api/v1/stats/top?by=crime_detail&n=10
func (h *AnalyticsHandler) GetTop(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	col, err := parseColumn(c, "by", models.ColumnCrimeDetail)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	n, err := parseInt(c, "n", 0)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	top, err := h.analytics.Top(filter, col, n)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{"column": col, "data": groupViews(top), "count": len(top)})
}

// GetTrend handles GET /api/v1/stats/trend
func (h *AnalyticsHandler) GetTrend(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	trend, err := h.analytics.Trend(filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, trend)
}

// GetProvinces handles GET /api/v1/stats/provinces
func (h *AnalyticsHandler) GetProvinces(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	shares, err := h.analytics.ProvinceShares(filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{"data": shares, "count": len(shares)})
}

// GetHighest handles GET /api/v1/stats/highest?by=province
func (h *AnalyticsHandler) GetHighest(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	col, err := parseColumn(c, "by", models.ColumnProvince)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	best, err := h.analytics.Highest(filter, col)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{"column": col, "key": best.Key, "label": best.Label(), "sum": best.Sum})
}
