package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/crime-dashboard-go/internal/app"
	"github.com/jengzang/crime-dashboard-go/internal/handler"
	"github.com/jengzang/crime-dashboard-go/internal/middleware"
)

// SetupRouter wires the middleware and routes over state
func SetupRouter(state *app.State) *gin.Engine {
	cfg := state.Config
	gin.SetMode(strings.ToLower(cfg.Server.GinMode))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(state.Logger))
	r.Use(middleware.Metrics(state.Metrics))

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", handler.Health(state))
	r.GET("/metrics", gin.WrapH(state.Metrics.Handler()))

	analyticsHandler := handler.NewAnalyticsHandler(state.Analytics, state.Logger)
	incidentHandler := handler.NewIncidentHandler(state.Analytics, state.Logger)
	chartHandler := handler.NewChartHandler(state.Analytics, state.Logger)
	predictionHandler := handler.NewPredictionHandler(state.Predictions, state.Logger)

	api := r.Group("/api/v1")
	if cfg.RateLimit.Requests > 0 {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
	}
	{
		stats := api.Group("/stats")
		{
			stats.GET("/summary", analyticsHandler.GetSummary)
			stats.GET("/describe", analyticsHandler.GetDescribe)
			stats.GET("/group", analyticsHandler.GetGroups)
			stats.GET("/top", analyticsHandler.GetTop)
			stats.GET("/trend", analyticsHandler.GetTrend)
			stats.GET("/provinces", analyticsHandler.GetProvinces)
			stats.GET("/highest", analyticsHandler.GetHighest)
		}

		incidents := api.Group("/incidents")
		{
			incidents.GET("", incidentHandler.GetIncidents)
			incidents.GET("/filters", incidentHandler.GetFilterOptions)
			incidents.GET("/export", incidentHandler.ExportIncidents)
		}

		chartRoutes := api.Group("/charts")
		{
			chartRoutes.GET("/crime-types.png", chartHandler.GetCrimeTypes)
			chartRoutes.GET("/trend.png", chartHandler.GetTrend)
			chartRoutes.GET("/provinces.png", chartHandler.GetProvinces)
		}

		predictions := api.Group("/predictions")
		{
			predictions.GET("/options", predictionHandler.GetOptions)
			predictions.POST("", predictionHandler.Predict)
			predictions.GET("/history", middleware.Auth(cfg.Auth.JWTSecret, state.Logger), predictionHandler.GetHistory)
		}
	}

	return r
}
