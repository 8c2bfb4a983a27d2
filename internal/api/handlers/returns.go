package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/service"
)

// HandleRequestReturn handles POST /v1/orders/:id/returns
func HandleRequestReturn(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := uuidParam(c, "id")
		if !ok {
			return
		}

		var req struct {
			ProductID uuid.UUID `json:"product" binding:"required"`
			Reason    string    `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svcs.Orders.RequestReturn(c.Request.Context(), orderID, req.ProductID, req.Reason); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"orderId": orderID,
			"product": req.ProductID,
			"status":  "return requested",
		})
	}
}
