package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"
	"ride-hailing/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireRide(
	r chi.Router,
	rideHandler *adaptor.RideHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/rides", func(r chi.Router) {
		r.Use(auth)

		// ==================== RIDER ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(roleRider))

			r.Post("/", rideHandler.CreateRide)
			r.Get("/ongoing/rider", rideHandler.GetOngoingForRider)
		})

		// ==================== DRIVER ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(roleDriver))

			r.Get("/available", rideHandler.GetAvailableRides)
			r.Get("/ongoing/driver", rideHandler.GetOngoingForDriver)
			r.Get("/history/driver", rideHandler.GetDriverHistory)
			r.Post("/{id}/accept", rideHandler.AcceptRide)
			r.Post("/{id}/start", rideHandler.StartRide)
			r.Post("/{id}/complete", rideHandler.CompleteRide)
		})

		// ==================== SHARED ====================
		r.With(middleware.RequireRoles(roleRider, roleDriver)).Post("/{id}/cancel", rideHandler.CancelRide)
		r.With(middleware.RequireRoles(roleRider, roleDriver)).Get("/", rideHandler.ListRides)
		r.With(middleware.RequireRoles(roleRider, roleDriver, roleAdmin)).Get("/{id}", rideHandler.GetRide)

		// ==================== ADMIN ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(roleAdmin))

			r.Get("/all", rideHandler.ListAllRides)
			r.Post("/{id}/force-cancel", rideHandler.ForceCancelRide)
			r.Delete("/{id}", rideHandler.DeleteRide)
		})
	})
}
