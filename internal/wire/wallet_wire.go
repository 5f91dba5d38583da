package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"
	"ride-hailing/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireWallet(
	r chi.Router,
	walletHandler *adaptor.WalletHandler,
	auth func(http.Handler) http.Handler,
) {
	r.With(auth, middleware.RequireRoles(roleDriver)).Get("/api/wallets/me", walletHandler.GetMyWallet)
}
