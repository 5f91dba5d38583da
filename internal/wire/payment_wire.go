package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"
	"ride-hailing/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/payments", func(r chi.Router) {
		r.Use(auth)
		r.Use(middleware.RequireRoles(roleRider))

		r.Post("/orders", paymentHandler.CreateOrder)
		r.Post("/verify", paymentHandler.VerifyPayment)
	})
}
