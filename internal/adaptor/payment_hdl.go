package adaptor

import (
	"encoding/json"
	"net/http"

	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreateOrder handles POST /api/payments/orders
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	riderID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePaymentOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), riderID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create payment order")
		return
	}

	utils.ResponseCreated(w, "Payment order created", order)
}

// VerifyPayment handles POST /api/payments/verify
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	riderID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	result, err := h.service.VerifyPayment(r.Context(), riderID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "verify payment")
		return
	}

	utils.ResponseSuccess(w, "Payment verified successfully", result)
}
