package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/domain"
	"github.com/trovashop/storeapi/internal/service"
)

// HandleAdminListOrders handles GET /v1/admin/orders
func HandleAdminListOrders(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svcs.Orders.AllOrders(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
	}
}

// HandleChangeOrderStatus handles PATCH /v1/admin/orders/:id/status
func HandleChangeOrderStatus(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svcs.Orders.ChangeStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status)); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": orderID, "status": req.Status})
	}
}

// HandleListReturnRequests handles GET /v1/admin/returns
func HandleListReturnRequests(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := svcs.Orders.ListReturnRequests(c.Request.Context())
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"returns": requests, "count": len(requests)})
	}
}

// HandleApproveReturn handles POST /v1/admin/returns/approve
func HandleApproveReturn(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID   uuid.UUID `json:"orderId" binding:"required"`
			ProductID uuid.UUID `json:"product" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := svcs.Orders.ApproveReturn(c.Request.Context(), req.OrderID, req.ProductID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
