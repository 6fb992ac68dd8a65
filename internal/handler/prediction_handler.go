package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jengzang/crime-dashboard-go/internal/features"
	"github.com/jengzang/crime-dashboard-go/internal/models"
	"github.com/jengzang/crime-dashboard-go/internal/service"
	"github.com/jengzang/crime-dashboard-go/pkg/response"
)

// PredictionHandler handles HTTP requests for crime category predictions
type PredictionHandler struct {
	predictions *service.PredictionService
	logger      *zap.Logger
}

// NewPredictionHandler creates a new prediction handler
func NewPredictionHandler(predictions *service.PredictionService, logger *zap.Logger) *PredictionHandler {
	return &PredictionHandler{predictions: predictions, logger: logger}
}

// PredictRequest is the body of POST /api/v1/predictions
type PredictRequest struct {
	Province  string `json:"province" binding:"required"`
	Year      int    `json:"year" binding:"required"`
	CaseCount *int64 `json:"case_count,omitempty"`
}

// GetOptions handles GET /api/v1/predictions/options
func (h *PredictionHandler) GetOptions(c *gin.Context) {
	opts, err := h.predictions.Options()
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, opts)
}

// Predict handles POST /api/v1/predictions
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	prediction, err := h.predictions.Predict(c.Request.Context(), features.RawInput{
		Province:  req.Province,
		Year:      req.Year,
		CaseCount: req.CaseCount,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, prediction)
}

// GetHistory handles GET /api/v1/predictions/history
func (h *PredictionHandler) GetHistory(c *gin.Context) {
	var filter models.PredictionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: %v", models.ErrInvalidInput, err))
		return
	}

	predictions, total, err := h.predictions.History(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{"data": predictions, "count": len(predictions), "total": total})
}
