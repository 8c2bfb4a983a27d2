package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/trovashop/storeapi/internal/service"
)

// HandleWalletDetails handles GET /v1/wallet/:userId
func HandleWalletDetails(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := uuidParam(c, "userId")
		if !ok {
			return
		}

		details, err := svcs.Wallet.Details(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, details)
	}
}
