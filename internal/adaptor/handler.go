package adaptor

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxMultipartMemory = 10 << 20

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Ride    *RideHandler
	Vehicle *VehicleHandler
	Wallet  *WalletHandler
	Payment *PaymentHandler
	Admin   *AdminHandler
}

func NewHandler(service *usecase.Service, deadLetters notify.DeadLetterReader, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, config.App.CookieSecure, log),
		User:    NewUserHandler(service.User, log),
		Ride:    NewRideHandler(service.Ride, log),
		Vehicle: NewVehicleHandler(service.Vehicle, log),
		Wallet:  NewWalletHandler(service.Wallet, log),
		Payment: NewPaymentHandler(service.Payment, log),
		Admin:   NewAdminHandler(deadLetters, log),
	}
}

// handleServiceError logs according to severity and writes the error's status.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	status := utils.StatusOf(err)
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	default:
		log.Warn(operation+" rejected", zap.Error(err), zap.Int("status", status))
	}
	utils.ResponseError(w, err)
}

// currentUser reads the identity JWTAuth stored in the request context.
func currentUser(r *http.Request) (uuid.UUID, entity.UserRole, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return userID, entity.UserRole(role), true
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// formFile returns the bytes of an optional multipart file; a missing field is nil.
func formFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// formValue returns nil when the field was not sent at all.
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}
