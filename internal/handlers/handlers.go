package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ca-overview/internal/overview"
	"ca-overview/internal/services"
	"ca-overview/shared/config"
	"ca-overview/shared/logger"
)

func RegisterRoutes(router *gin.Engine, appLogger *logger.Logger) {
	router.GET("/", func(c *gin.Context) {
		appLogger.Info("Root endpoint accessed")
		c.JSON(http.StatusOK, gin.H{"message": "API is running. Token overview bot active!"})
	})
}

func RegisterAPIRoutes(router *gin.Engine, appLogger *logger.Logger, agg *services.Aggregator) {
	apiGroup := router.Group("/api/v1")
	{
		apiGroup.GET("/health", func(c *gin.Context) {
			appLogger.Info("API Health endpoint called")
			environment := "unknown"
			if cfg := config.GetGlobalConfig(); cfg != nil {
				environment = cfg.App.Environment
			}
			c.JSON(http.StatusOK, gin.H{
				"status":      "ok",
				"message":     "API Service is running",
				"environment": environment,
			})
		})

		apiGroup.GET("/overview/:address", handleOverview(appLogger, agg))
	}
}

// handleOverview serves the same pipeline the bot runs, over HTTP. The
// rendered text is included verbatim so callers can forward it to any
// renderer that understands the Telegram HTML subset.
func handleOverview(appLogger *logger.Logger, agg *services.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		address := c.Param("address")
		if !overview.IsContractAddress(address) {
			appLogger.Warn("Overview request rejected, malformed address", "address", address)
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "address must match 0x followed by 40 hex characters"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 45*time.Second)
		defer cancel()

		report, err := agg.BuildOverview(ctx, address)
		if err != nil {
			if errors.Is(err, services.ErrTokenNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "token not found"})
				return
			}
			appLogger.Error("Overview request failed", "address", address, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"status": "error", "message": "upstream data unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"address": address,
			"report":  report,
			"text":    overview.Compose(report, agg.Profile),
		})
	}
}
