package routes

import (
	"item-api/internal/api/handlers"
	"item-api/internal/app"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) {

	// --- Base API Group ---
	apiV1 := router.Group("/api/v1")

	itemHandler := handlers.NewItemHandler(app.ItemService, app.Verifier)
	RegisterItemRoutes(apiV1, itemHandler)

	// --- Health Check ---
	var db handlers.Pinger
	if app.DBPool != nil {
		db = app.DBPool
	}
	router.GET("/health", handlers.HealthCheck(db))

	// --- Metrics ---
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
