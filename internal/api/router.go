package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/api/handlers"
	"github.com/trovashop/storeapi/internal/config"
	"github.com/trovashop/storeapi/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs *service.Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.POST("/orders/amount", handlers.HandleOrderAmount(svcs, logger))
		v1.POST("/orders", handlers.HandlePlaceOrder(svcs, logger))
		v1.GET("/orders/:id", handlers.HandleGetOrder(svcs, logger))
		v1.POST("/orders/:id/cancel", handlers.HandleCancelOrder(svcs, logger))
		v1.POST("/orders/:id/returns", handlers.HandleRequestReturn(svcs, logger))
		v1.POST("/orders/:id/rate", handlers.HandleRateOrder(svcs, logger))
		v1.DELETE("/orders/:id", handlers.HandleDeleteOrder(svcs, logger))
		v1.GET("/users/:id/orders", handlers.HandleUserOrders(svcs, logger))
		v1.GET("/wallet/:userId", handlers.HandleWalletDetails(svcs, logger))
		v1.GET("/coupons/applicable", handlers.HandleApplicableCoupons(svcs, logger))
		v1.POST("/coupons/apply", handlers.HandleApplyCoupon(svcs, logger))

		admin := v1.Group("/admin")
		{
			admin.GET("/orders", handlers.HandleAdminListOrders(svcs, logger))
			admin.PATCH("/orders/:id/status", handlers.HandleChangeOrderStatus(svcs, logger))
			admin.GET("/returns", handlers.HandleListReturnRequests(svcs, logger))
			admin.POST("/returns/approve", handlers.HandleApproveReturn(svcs, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
