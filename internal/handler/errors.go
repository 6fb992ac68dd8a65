package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/pkg/response"
)

// writeError maps a service error to its HTTP response
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, models.ErrDataUnavailable):
		response.ServiceUnavailable(c, "Incident data is unavailable", err)
	case errors.Is(err, models.ErrModelUnavailable):
		response.ServiceUnavailable(c, "Prediction is unavailable", err)
	case errors.Is(err, models.ErrHistoryUnavailable):
		response.ServiceUnavailable(c, "Prediction history is disabled", err)
	case errors.Is(err, models.ErrEmptyInput):
		response.NotFound(c, "No data for the selected filters", err)
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidColumn):
		response.BadRequest(c, "Invalid request", err)
	case errors.Is(err, models.ErrSchemaMismatch):
		logger.Error("Feature schema mismatch", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, "Model schema mismatch", err)
	default:
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		response.InternalError(c, "Internal server error", err)
	}
}
