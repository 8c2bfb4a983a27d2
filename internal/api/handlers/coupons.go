package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/service"
)

// HandleApplicableCoupons handles GET /v1/coupons/applicable?orderAmount=
func HandleApplicableCoupons(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderAmount, err := strconv.ParseFloat(c.Query("orderAmount"), 64)
		if err != nil || orderAmount < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderAmount must be a non-negative number"})
			return
		}

		coupons, err := svcs.Coupons.ListApplicable(c.Request.Context(), orderAmount)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		out := make([]gin.H, 0, len(coupons))
		for _, cp := range coupons {
			out = append(out, gin.H{
				"couponId":              cp.ID,
				"code":                  cp.Code,
				"discount":              cp.Discount,
				"minimumPurchaseAmount": cp.MinimumPurchaseAmount,
				"maximumDiscountAmount": cp.MaximumDiscountAmount,
				"expiryDate":            cp.ExpiryDate,
			})
		}
		c.JSON(http.StatusOK, gin.H{"coupons": out, "count": len(out)})
	}
}

// HandleApplyCoupon handles POST /v1/coupons/apply. This consumes one use
// immediately; checkout with a couponCode does its own consumption inside
// the order transaction instead.
func HandleApplyCoupon(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Code        string  `json:"code" binding:"required"`
			OrderAmount float64 `json:"orderAmount" binding:"required,min=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := svcs.Coupons.Apply(c.Request.Context(), req.Code, req.OrderAmount)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
