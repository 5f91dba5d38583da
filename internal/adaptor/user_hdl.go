package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

const defaultNearbyRadiusKm = 5

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/users/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved successfully", profile)
}

// UpdateProfile handles PUT /api/users/profile (multipart)
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	req := request.UpdateProfileRequest{
		Firstname:         formValue(r, "firstname"),
		Lastname:          formValue(r, "lastname"),
		Phone:             formValue(r, "phone"),
		LicenseNumber:     formValue(r, "license_number"),
		LicenseExpiryDate: formValue(r, "license_expiry_date"),
		AadharNumber:      formValue(r, "aadhar_number"),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	files, err := readUploads(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid file upload", nil)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, role, &req, files)
	if err != nil {
		h.handleServiceError(w, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// SetAvailability handles PATCH /api/users/availability (driver)
func (h *UserHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	user, err := h.service.SetAvailability(r.Context(), userID, *req.IsAvailable)
	if err != nil {
		h.handleServiceError(w, err, "set availability")
		return
	}

	utils.ResponseSuccess(w, "Availability updated", user)
}

// Deactivate handles PATCH /api/users/deactivate
func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Deactivate(r.Context(), userID); err != nil {
		h.handleServiceError(w, err, "deactivate account")
		return
	}

	utils.ResponseSuccess(w, "Account deactivated successfully", nil)
}

// UpdateLocation handles POST /api/users/location
func (h *UserHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.UpdateLocation(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "update location")
		return
	}

	utils.ResponseSuccess(w, "Location updated", resp)
}

// NearbyDrivers handles GET /api/users/drivers/nearby?lng=..&lat=..&radius=..
func (h *UserHandler) NearbyDrivers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lng, errLng := strconv.ParseFloat(query.Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(query.Get("lat"), 64)
	if errLng != nil || errLat != nil {
		utils.ResponseBadRequest(w, "lng and lat query parameters are required", nil)
		return
	}

	req := request.NearbyDriversRequest{Longitude: lng, Latitude: lat, RadiusKm: defaultNearbyRadiusKm}
	if raw := query.Get("radius"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid radius", nil)
			return
		}
		req.RadiusKm = radius
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	drivers, err := h.service.NearbyDrivers(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "find nearby drivers")
		return
	}

	utils.ResponseSuccess(w, "Nearby drivers retrieved successfully", drivers)
}

// ExportRides handles GET /api/users/rides/export?days=14
func (h *UserHandler) ExportRides(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	days := utils.ParseInt(r.URL.Query().Get("days"), 0)

	archive, err := h.service.ExportRides(r.Context(), userID, days)
	if err != nil {
		h.handleServiceError(w, err, "export rides")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="rides_%s.zip"`, userID.String()))
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(archive); err != nil {
		h.log.Warn("Failed to write export", zap.Error(err))
	}
}

// ==================== ADMIN ====================

// GetAllUsers handles GET /api/admin/users?page=1&per_page=10
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	users, err := h.service.ListUsers(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "list users")
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// PendingVerifications handles GET /api/admin/verifications/pending
func (h *UserHandler) PendingVerifications(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.service.PendingVerifications(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list pending verifications")
		return
	}

	utils.ResponseSuccess(w, "Pending verifications retrieved successfully", drivers)
}

// ApproveVerification handles PATCH /api/admin/verifications/{id}/approve
func (h *UserHandler) ApproveVerification(w http.ResponseWriter, r *http.Request) {
	adminID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	userID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req request.ApproveVerificationRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	profile, err := h.service.ApproveVerification(r.Context(), adminID, userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "approve verification")
		return
	}

	utils.ResponseSuccess(w, "Driver verification approved", profile)
}

// RejectVerification handles PATCH /api/admin/verifications/{id}/reject
func (h *UserHandler) RejectVerification(w http.ResponseWriter, r *http.Request) {
	adminID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	userID, ok := pathUUID(r, "id")
	if !ok {
		utils.ResponseBadRequest(w, "Invalid user ID", nil)
		return
	}

	var req request.RejectVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	profile, err := h.service.RejectVerification(r.Context(), adminID, userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "reject verification")
		return
	}

	utils.ResponseSuccess(w, "Driver verification rejected", profile)
}

func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleServiceError(h.log, w, err, operation)
}
