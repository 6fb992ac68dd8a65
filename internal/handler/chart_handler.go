package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/charts"
	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/internal/service"
)

// ChartHandler serves the dashboard charts as PNG images
type ChartHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(analytics *service.AnalyticsService, logger *zap.Logger) *ChartHandler {
	return &ChartHandler{analytics: analytics, logger: logger}
}

// GetCrimeTypes handles GET /api/v1/charts/crime-types.png
func (h *ChartHandler) GetCrimeTypes(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	n, err := parseInt(c, "n", 0)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	top, err := h.analytics.Top(filter, models.ColumnCrimeDetail, n)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := charts.CrimeTypes(&buf, top); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}

// GetTrend handles GET /api/v1/charts/trend.png
func (h *ChartHandler) GetTrend(c *gin.Context) {
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

	var buf bytes.Buffer
	if err := charts.Trend(&buf, trend); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}

// GetProvinces handles GET /api/v1/charts/provinces.png
func (h *ChartHandler) GetProvinces(c *gin.Context) {
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

	var buf bytes.Buffer
	if err := charts.Provinces(&buf, shares); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, charts.ContentType, buf.Bytes())
}
