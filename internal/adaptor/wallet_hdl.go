package adaptor

import (
	"net/http"

	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

type WalletHandler struct {
	service usecase.WalletService
	log     *zap.Logger
}

func NewWalletHandler(service usecase.WalletService, log *zap.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		log:     log.With(zap.String("handler", "wallet")),
	}
}

// GetMyWallet handles GET /api/wallets/me (driver)
func (h *WalletHandler) GetMyWallet(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	wallet, err := h.service.GetByDriver(r.Context(), driverID)
	if err != nil {
		handleServiceError(h.log, w, err, "get wallet")
		return
	}

	utils.ResponseSuccess(w, "Wallet retrieved successfully", wallet)
}
