package api

import (
	"log/slog"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/wallet"
	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	service wallet.WalletUseCase
	log     *slog.Logger
}

type walletResponse struct {
	Balance int64 `json:"balance"`
}

func NewWalletHandler(service wallet.WalletUseCase, log *slog.Logger) *WalletHandler {
	return &WalletHandler{service: service, log: log}
}

func (h *WalletHandler) Register(router *gin.RouterGroup) {
	router.GET("/user/wallet", h.balance)
}

// balance godoc
// @Summary  Wallet balance of the acting user
// @Tags     wallet
// @Produce  json
// @Param    X-User-ID header string false "wallet owner, defaults to the configured user"
// @Success  200 {object} walletResponse
// @Router   /user/wallet [get]
func (h *WalletHandler) balance(c *gin.Context) {
	log := handlerLog(c, h.log, "api.wallet.balance")

	balance, err := h.service.Balance(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, log, err, "wallet")
		return
	}
	c.JSON(http.StatusOK, walletResponse{Balance: balance})
}
