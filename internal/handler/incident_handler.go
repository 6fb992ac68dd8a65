package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/dataset"
	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/internal/service"
	"github.com/jengzang/crime-dashboard-go/pkg/response"
)

// ExportBaseName is the download name of an exported selection, without extension
const ExportBaseName = "rwanda_crime_data_filtered"

// IncidentHandler handles HTTP requests for the incident records
type IncidentHandler struct {
	analytics *service.AnalyticsService
	logger    *zap.Logger
}

// NewIncidentHandler creates a new incident handler
func NewIncidentHandler(analytics *service.AnalyticsService, logger *zap.Logger) *IncidentHandler {
	return &IncidentHandler{analytics: analytics, logger: logger}
}

// GetIncidents handles GET /api/v1/incidents
func (h *IncidentHandler) GetIncidents(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var page models.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}
	page = page.Normalize()

	rows, total, err := h.analytics.Incidents(filter, page)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{
		"data":     rows,
		"total":    total,
		"page":     page.Page,
		"pageSize": page.PageSize,
	})
}

// GetFilterOptions handles GET /api/v1/incidents/filters
func (h *IncidentHandler) GetFilterOptions(c *gin.Context) {
	opts, err := h.analytics.FilterOptions()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, opts)
}

// ExportIncidents handles GET /api/v1/incidents/export?format=csv|xlsx
func (h *IncidentHandler) ExportIncidents(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", dataset.FormatCSV))
	if format != dataset.FormatCSV && format != dataset.FormatXLSX {
		writeError(c, h.logger, fmt.Errorf("%w: unknown export format %q", models.ErrInvalidInput, format))
		return
	}

	table, err := h.analytics.Export(filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := dataset.Write(&buf, table, format); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, ExportBaseName, format))
	c.Data(http.StatusOK, dataset.ContentType(format), buf.Bytes())
}
