package adaptor

import (
	"encoding/json"
	"net/http"

	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

type VehicleHandler struct {
	service usecase.VehicleService
	log     *zap.Logger
}

func NewVehicleHandler(service usecase.VehicleService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log.With(zap.String("handler", "vehicle")),
	}
}

// Register handles POST /api/vehicles/register
func (h *VehicleHandler) Register(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.RegisterVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	vehicle, err := h.service.Register(r.Context(), driverID, &req)
	if err != nil {
		h.handleServiceError(w, err, "register vehicle")
		return
	}

	utils.ResponseCreated(w, "Vehicle registered successfully", vehicle)
}

// Update handles PUT /api/vehicles/update/{id}
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	vehicleID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid vehicle ID", nil)
		return
	}

	var req request.UpdateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	vehicle, err := h.service.Update(r.Context(), driverID, vehicleID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update vehicle")
		return
	}

	utils.ResponseSuccess(w, "Vehicle updated successfully", vehicle)
}

// Deactivate handles PATCH /api/vehicles/delete/{id}
func (h *VehicleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	vehicleID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid vehicle ID", nil)
		return
	}

	if err := h.service.Deactivate(r.Context(), driverID, vehicleID); err != nil {
		h.handleServiceError(w, err, "deactivate vehicle")
		return
	}

	utils.ResponseSuccess(w, "Vehicle deactivated successfully", nil)
}

// ListByDriver handles GET /api/vehicles/driver/{driverId}
func (h *VehicleHandler) ListByDriver(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	driverID, ok := pathUUID(r, "driverId")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid driver ID", nil)
		return
	}

	vehicles, err := h.service.ListByDriver(r.Context(), userID, role, driverID)
	if err != nil {
		h.handleServiceError(w, err, "list vehicles")
		return
	}

	utils.ResponseSuccess(w, "Vehicles retrieved successfully", vehicles)
}

func (h *VehicleHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleServiceError(h.log, w, err, operation)
}
