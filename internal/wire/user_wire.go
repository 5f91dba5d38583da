package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"
	"ride-hailing/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	auth func(http.Handler) http.Handler,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/users", func(r chi.Router) {
		r.Use(auth)

		// Profile
		r.Get("/profile", userHandler.GetProfile)
		r.Put("/profile", userHandler.UpdateProfile)
		r.Patch("/deactivate", userHandler.Deactivate)

		// Live location, any signed-in role
		r.Post("/location", userHandler.UpdateLocation)

		// Trip archive of the caller's rides
		r.Get("/rides/export", userHandler.ExportRides)

		r.With(middleware.RequireRoles(roleDriver)).Patch("/availability", userHandler.SetAvailability)
		r.With(middleware.RequireRoles(roleRider)).Get("/drivers/nearby", userHandler.NearbyDrivers)
	})
}

func wireAdmin(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	adminHandler *adaptor.AdminHandler,
	auth func(http.Handler) http.Handler,
) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin", func(r chi.Router) {
		// Require both authentication AND admin role
		r.Use(auth)
		r.Use(middleware.RequireRoles(roleAdmin))

		r.Get("/users", userHandler.GetAllUsers)

		// Driver document verification
		r.Get("/verifications/pending", userHandler.PendingVerifications)
		r.Patch("/verifications/{id}/approve", userHandler.ApproveVerification)
		r.Patch("/verifications/{id}/reject", userHandler.RejectVerification)

		// Notifications that could not be delivered
		r.Get("/notifications/dead-letters", adminHandler.DeadLetters)
	})
}
