package restapi

import (
	"net/http"
	"strconv"

	"wallet_dashboard/internal/app/port"
	"wallet_dashboard/internal/domain/entity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"

// APIError is the body of a rejected request.
type APIError struct {
	Error string `json:"error"`
}

// WalletHandler serves the wallet dashboard endpoint.
type WalletHandler struct {
	walletService port.WalletService
	logger        *zap.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ws port.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: ws,
		logger:        logger.Named("WalletHandler"),
	}
}

// GetWalletDashboardHandler handles GET /api/wallet/:wallet_address.
// Partial upstream failures are reported inside the payload with status 200; only an
// invalid wallet address is rejected.
func (h *WalletHandler) GetWalletDashboardHandler(c *gin.Context) {
	wallet, err := entity.ParseWalletAddress(c.Param("wallet_address"))
	if err != nil {
		h.logger.Debug("Rejected wallet address", zap.String("wallet", c.Param("wallet_address")), zap.Error(err))
		c.JSON(http.StatusBadRequest, APIError{Error: entity.ErrInvalidWalletAddress.Error()})
		return
	}

	opts := port.DashboardOptions{
		Days:    queryInt(c, "days"),
		Refresh: queryBool(c, "refresh"),
	}

	dashboard := h.walletService.GetWalletDashboard(c.Request.Context(), wallet, opts)
	if len(dashboard.Errors) > 0 {
		h.logger.Warn("Dashboard served with section errors",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("wallet", wallet.String()),
			zap.Strings("errors", dashboard.Errors))
	}
	c.JSON(http.StatusOK, dashboard)
}

// queryInt returns 0 for a missing or malformed value.
func queryInt(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
