package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/dto/response"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RideHandler struct {
	service usecase.RideService
	log     *zap.Logger
}

func NewRideHandler(service usecase.RideService, log *zap.Logger) *RideHandler {
	return &RideHandler{
		service: service,
		log:     log.With(zap.String("handler", "ride")),
	}
}

// ==================== RIDER ====================

// CreateRide handles POST /api/rides
func (h *RideHandler) CreateRide(w http.ResponseWriter, r *http.Request) {
	riderID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ride, err := h.service.CreateRide(r.Context(), riderID, &req)
	if err != nil {
		h.handleServiceError(w, err, "create ride")
		return
	}

	utils.ResponseCreated(w, "Ride requested successfully", ride)
}

// GetOngoingForRider handles GET /api/rides/ongoing/rider
func (h *RideHandler) GetOngoingForRider(w http.ResponseWriter, r *http.Request) {
	riderID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ride, err := h.service.GetOngoingForRider(r.Context(), riderID)
	if err != nil {
		h.handleServiceError(w, err, "get ongoing ride")
		return
	}

	utils.ResponseSuccess(w, "Ongoing ride retrieved successfully", ride)
}

// CancelRide handles POST /api/rides/{id}/cancel (rider or driver)
func (h *RideHandler) CancelRide(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	rideID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid ride ID", nil)
		return
	}

	req, ok := decodeCancel(w, r)
	if !ok {
		return
	}

	ride, err := h.service.CancelRide(r.Context(), userID, role, rideID, req)
	if err != nil {
		h.handleServiceError(w, err, "cancel ride")
		return
	}

	utils.ResponseSuccess(w, "Ride cancelled successfully", ride)
}

// ==================== SHARED ====================

// ListRides handles GET /api/rides?page=1&per_page=10
func (h *RideHandler) ListRides(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req, ok := parsePagination(w, r)
	if !ok {
		return
	}

	rides, err := h.service.ListRides(r.Context(), userID, role, req)
	if err != nil {
		h.handleServiceError(w, err, "list rides")
		return
	}

	utils.ResponseSuccess(w, "Rides retrieved successfully", rides)
}

// GetRide handles GET /api/rides/{id}
func (h *RideHandler) GetRide(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	rideID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid ride ID", nil)
		return
	}

	ride, err := h.service.GetRide(r.Context(), userID, role, rideID)
	if err != nil {
		h.handleServiceError(w, err, "get ride")
		return
	}

	utils.ResponseSuccess(w, "Ride retrieved successfully", ride)
}

// ==================== DRIVER ====================

// GetAvailableRides handles GET /api/rides/available
func (h *RideHandler) GetAvailableRides(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req, ok := parsePagination(w, r)
	if !ok {
		return
	}

	rides, err := h.service.GetAvailableRides(r.Context(), driverID, req)
	if err != nil {
		h.handleServiceError(w, err, "get available rides")
		return
	}

	utils.ResponseSuccess(w, "Available rides retrieved successfully", rides)
}

// GetOngoingForDriver handles GET /api/rides/ongoing/driver
func (h *RideHandler) GetOngoingForDriver(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	ride, err := h.service.GetOngoingForDriver(r.Context(), driverID)
	if err != nil {
		h.handleServiceError(w, err, "get ongoing ride")
		return
	}

	utils.ResponseSuccess(w, "Ongoing ride retrieved successfully", ride)
}

// GetDriverHistory handles GET /api/rides/history/driver
func (h *RideHandler) GetDriverHistory(w http.ResponseWriter, r *http.Request) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	req, ok := parsePagination(w, r)
	if !ok {
		return
	}

	rides, err := h.service.GetDriverHistory(r.Context(), driverID, req)
	if err != nil {
		h.handleServiceError(w, err, "get ride history")
		return
	}

	utils.ResponseSuccess(w, "Ride history retrieved successfully", rides)
}

// AcceptRide handles POST /api/rides/{id}/accept
func (h *RideHandler) AcceptRide(w http.ResponseWriter, r *http.Request) {
	h.driverAction(w, r, "accept ride", "Ride accepted successfully", h.service.AcceptRide)
}

// StartRide handles POST /api/rides/{id}/start
func (h *RideHandler) StartRide(w http.ResponseWriter, r *http.Request) {
	h.driverAction(w, r, "start ride", "Ride started successfully", h.service.StartRide)
}

// CompleteRide handles POST /api/rides/{id}/complete
func (h *RideHandler) CompleteRide(w http.ResponseWriter, r *http.Request) {
	h.driverAction(w, r, "complete ride", "Ride completed successfully", h.service.CompleteRide)
}

// ==================== ADMIN ====================

// ListAllRides handles GET /api/rides/all
func (h *RideHandler) ListAllRides(w http.ResponseWriter, r *http.Request) {
	req, ok := parsePagination(w, r)
	if !ok {
		return
	}

	rides, err := h.service.ListAllRides(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "list all rides")
		return
	}

	utils.ResponseSuccess(w, "Rides retrieved successfully", rides)
}

// ForceCancelRide handles POST /api/rides/{id}/force-cancel
func (h *RideHandler) ForceCancelRide(w http.ResponseWriter, r *http.Request) {
	rideID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid ride ID", nil)
		return
	}

	req, ok := decodeCancel(w, r)
	if !ok {
		return
	}

	ride, err := h.service.ForceCancelRide(r.Context(), rideID, req)
	if err != nil {
		h.handleServiceError(w, err, "force cancel ride")
		return
	}

	utils.ResponseSuccess(w, "Ride cancelled by admin", ride)
}

// DeleteRide handles DELETE /api/rides/{id}
func (h *RideHandler) DeleteRide(w http.ResponseWriter, r *http.Request) {
	rideID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid ride ID", nil)
		return
	}

	if err := h.service.DeleteRide(r.Context(), rideID); err != nil {
		h.handleServiceError(w, err, "delete ride")
		return
	}

	utils.ResponseSuccess(w, "Ride deleted successfully", nil)
}

// ==================== HELPER METHODS ====================

func (h *RideHandler) driverAction(
	w http.ResponseWriter,
	r *http.Request,
	operation, message string,
	action func(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error),
) {
	driverID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	rideID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid ride ID", nil)
		return
	}

	ride, err := action(r.Context(), driverID, rideID)
	if err != nil {
		h.handleServiceError(w, err, operation)
		return
	}

	utils.ResponseSuccess(w, message, ride)
}

func (h *RideHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleServiceError(h.log, w, err, operation)
}

// decodeCancel accepts an empty body; the reason is optional.
func decodeCancel(w http.ResponseWriter, r *http.Request) (*request.CancelRideRequest, bool) {
	var req request.CancelRideRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return nil, false
		}
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return nil, false
	}
	return &req, true
}

func parsePagination(w http.ResponseWriter, r *http.Request) (*request.PaginatedRequest, bool) {
	query := r.URL.Query()
	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return nil, false
	}
	return req, true
}
