package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	auth func(http.Handler) http.Handler,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/users/register", authHandler.Register)
	r.Post("/api/users/verify-otp", authHandler.VerifyOTP)
	r.Post("/api/users/recover", authHandler.RecoverAccount)
	r.Post("/api/users/login", authHandler.Login)
	r.Post("/api/users/forgot-password", authHandler.ForgotPassword)
	r.Post("/api/users/verify-forgot-password-otp", authHandler.VerifyForgotPasswordOTP)
	r.Post("/api/users/reset-password", authHandler.ResetPassword)

	// ==================== PROTECTED ROUTES ====================
	r.With(auth).Post("/api/users/logout", authHandler.Logout)
}
