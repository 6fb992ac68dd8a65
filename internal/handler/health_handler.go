package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/crime-dashboard-go/internal/app"
	"github.com/jengzang/crime-dashboard-go/pkg/response"
)

// Health handles GET /health. The process is live even when data or the
// model failed to load; the flags report which features are degraded.
func Health(state *app.State) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		if !state.DataLoaded() || !state.ModelLoaded() {
			status = "degraded"
		}

		body := gin.H{
			"status":          status,
			"data_loaded":     state.DataLoaded(),
			"model_loaded":    state.ModelLoaded(),
			"history_enabled": state.HistoryEnabled(),
		}
		if state.ModelLoaded() {
			body["model_version"] = state.Bundle.Version
		}
		response.Success(c, body)
	}
}
