package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/salesboard/txstats/shared/middleware"
)

// NewRouter wires the read endpoints, the health check and request logging.
func NewRouter(h *TransactionHandler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/transactions", h.ListTransactions)
	router.GET("/statistics", h.GetStatistics)
	router.GET("/bar-chart", h.GetBarChart)
	router.GET("/pie-chart", h.GetPieChart)
	router.GET("/combined-data", h.GetCombined)

	return router
}
