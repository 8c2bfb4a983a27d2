package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/service"
)

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		detail, err := svcs.Orders.Detail(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// HandleUserOrders handles GET /v1/users/:id/orders
func HandleUserOrders(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		orders, err := svcs.Orders.UserOrders(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// HandleCancelOrder handles POST /v1/orders/:id/cancel
func HandleCancelOrder(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := svcs.Orders.CancelOrder(c.Request.Context(), orderID, req.Reason)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orderId": order.ID,
			"status":  order.PaymentInfo.Status,
		})
	}
}

// HandleRateOrder handles POST /v1/orders/:id/rate
func HandleRateOrder(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Rating int `json:"rating" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svcs.Orders.Rate(c.Request.Context(), orderID, req.Rating); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": orderID, "rating": req.Rating})
	}
}

// HandleDeleteOrder handles DELETE /v1/orders/:id (soft delete)
func HandleDeleteOrder(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		if err := svcs.Orders.SoftDelete(c.Request.Context(), orderID); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": orderID, "deleted": true})
	}
}
