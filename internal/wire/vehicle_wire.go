package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"
	"ride-hailing/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireVehicle(
	r chi.Router,
	vehicleHandler *adaptor.VehicleHandler,
	auth func(http.Handler) http.Handler,
) {
	r.Route("/api/vehicles", func(r chi.Router) {
		r.Use(auth)

		// Drivers manage their own fleet
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(roleDriver))

			r.Post("/register", vehicleHandler.Register)
			r.Put("/update/{id}", vehicleHandler.Update)
			r.Patch("/delete/{id}", vehicleHandler.Deactivate)
		})

		// Ownership is checked in the service; admins see any driver
		r.With(middleware.RequireRoles(roleDriver, roleAdmin)).Get("/driver/{driverId}", vehicleHandler.ListByDriver)
	})
}
