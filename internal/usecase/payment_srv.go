package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/dto/response"
	"ride-hailing/pkg/payment"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreateOrder(ctx context.Context, riderID uuid.UUID, req *request.CreatePaymentOrderRequest) (*response.PaymentOrderResponse, error)
	VerifyPayment(ctx context.Context, riderID uuid.UUID, req *request.VerifyPaymentRequest) (*response.PaymentVerifyResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	wallet  WalletService
	gateway payment.Gateway
	config  *utils.Config
	log     *zap.Logger
	now     func() time.Time
}

func NewPaymentService(
	repo *repository.Repository,
	wallet WalletService,
	gateway payment.Gateway,
	config *utils.Config,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:    repo,
		wallet:  wallet,
		gateway: gateway,
		config:  config,
		log:     log.With(zap.String("service", "payment")),
		now:     time.Now,
	}
}

func (s *paymentService) CreateOrder(ctx context.Context, riderID uuid.UUID, req *request.CreatePaymentOrderRequest) (*response.PaymentOrderResponse, error) {
	rideID, err := uuid.Parse(req.RideID)
	if err != nil {
		return nil, utils.ErrBadRequest("Invalid ride ID")
	}

	// 1. Ride must be the rider's, completed and unpaid
	ride, err := s.repo.Ride.FindByID(ctx, rideID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get ride", err)
	}
	if ride == nil {
		return nil, utils.ErrNotFound("Ride not found")
	}
	if ride.RiderID != riderID {
		return nil, utils.ErrForbidden("You can only pay for your own rides")
	}
	if ride.Status != entity.RideCompleted || ride.DriverID == nil {
		return nil, utils.ErrBadRequest("Only completed rides can be paid")
	}
	if ride.PaymentStatus == entity.RidePaid {
		return nil, utils.ErrConflict("Ride is already paid")
	}
	paid, err := s.repo.Payment.FindSuccessfulByRide(ctx, rideID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to check payments", err)
	}
	if paid != nil {
		return nil, utils.ErrConflict("Ride is already paid")
	}

	// 2. Driver wallet receives the money
	wallet, err := s.repo.Wallet.FindByDriver(ctx, *ride.DriverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get driver wallet", err)
	}
	if wallet == nil || !wallet.IsActive {
		return nil, utils.ErrBadRequest("Driver wallet not found")
	}

	method := entity.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = entity.PaymentUPI
	}

	now := s.now()
	p := &entity.Payment{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		WalletID: wallet.ID,
		RideID:   ride.ID,
		RiderID:  riderID,
		DriverID: *ride.DriverID,
		Amount:   ride.Fare,
		Method:   method,
		Status:   entity.PaymentStatusPending,
		Metadata: map[string]any{},
	}
	resp := &response.PaymentOrderResponse{
		PaymentID: p.ID.String(),
		Amount:    payment.ToMinorUnits(ride.Fare),
		Currency:  s.config.Payment.Currency,
	}

	// 3a. Cash settles on the spot
	if method == entity.PaymentCash {
		p.Status = entity.PaymentStatusSuccess
		p.Metadata["collected"] = "cash"
		if err := s.repo.Payment.Create(ctx, p); err != nil {
			// a concurrent settlement won payments_ride_success_key
			if repository.IsUniqueViolation(err) {
				return nil, utils.ErrConflict("Ride is already paid")
			}
			return nil, utils.ErrInternal("Failed to record payment", err)
		}
		s.settle(ctx, p)

		resp.Status = p.Status
		return resp, nil
	}

	// 3b. Everything else goes through the gateway
	order, err := s.gateway.CreateOrder(ctx, ride.Fare, s.config.Payment.Currency, utils.GenerateReceipt(now))
	if err != nil {
		s.log.Error("Gateway order failed", zap.Error(err), zap.String("ride_id", ride.ID.String()))
		return nil, utils.NewAppError(http.StatusBadGateway, "Payment gateway unavailable", err)
	}

	p.GatewayOrderID = &order.ID
	p.Metadata["receipt"] = order.Receipt
	p.Metadata["order_status"] = order.Status
	if err := s.repo.Payment.Create(ctx, p); err != nil {
		return nil, utils.ErrInternal("Failed to record payment", err)
	}

	s.log.Info("Payment order created",
		zap.String("payment_id", p.ID.String()),
		zap.String("order_id", order.ID),
		zap.String("ride_id", ride.ID.String()))

	resp.OrderID = order.ID
	resp.Amount = order.Amount
	resp.Status = p.Status
	resp.KeyID = s.gateway.KeyID()
	return resp, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, riderID uuid.UUID, req *request.VerifyPaymentRequest) (*response.PaymentVerifyResponse, error) {
	p, err := s.repo.Payment.FindByGatewayOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get payment", err)
	}
	if p == nil {
		return nil, utils.ErrNotFound("Payment not found")
	}
	if p.RiderID != riderID {
		return nil, utils.ErrForbidden("You can only verify your own payments")
	}

	switch p.Status {
	case entity.PaymentStatusSuccess:
		return &response.PaymentVerifyResponse{Message: "Payment already verified", Status: p.Status}, nil
	case entity.PaymentStatusFailed:
		return nil, utils.ErrBadRequest("Payment failed, please create a new order")
	}

	// 1. Record what the gateway sent back
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	p.Metadata["razorpay_order_id"] = req.OrderID
	p.Metadata["razorpay_payment_id"] = req.PaymentID
	p.Metadata["razorpay_signature"] = req.Signature
	p.GatewayPaymentID = &req.PaymentID
	p.UpdatedAt = s.now()

	// 2. Signature decides the outcome
	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		p.Status = entity.PaymentStatusFailed
		if err := s.repo.Payment.UpdateStatus(ctx, p); err != nil && !errors.Is(err, repository.ErrPaymentSettled) {
			s.log.Error("Failed to mark payment failed", zap.Error(err), zap.String("payment_id", p.ID.String()))
		}
		s.log.Warn("Invalid payment signature", zap.String("payment_id", p.ID.String()))
		return nil, utils.ErrBadRequest("Invalid payment signature")
	}

	p.Status = entity.PaymentStatusSuccess
	if err := s.repo.Payment.UpdateStatus(ctx, p); err != nil {
		if errors.Is(err, repository.ErrPaymentSettled) {
			return nil, utils.ErrConflict("Payment was settled by another request")
		}
		return nil, utils.ErrInternal("Failed to update payment", err)
	}

	// 3. Mark the ride paid and pay the driver
	s.settle(ctx, p)

	s.log.Info("Payment verified",
		zap.String("payment_id", p.ID.String()),
		zap.String("ride_id", p.RideID.String()))

	return &response.PaymentVerifyResponse{Message: "Payment verified successfully", Status: p.Status}, nil
}

// settle runs after a payment reached SUCCESS. Failures here are logged for
// reconciliation since the money has already moved.
func (s *paymentService) settle(ctx context.Context, p *entity.Payment) {
	if err := s.repo.Ride.UpdatePaymentStatus(ctx, p.RideID, entity.RidePaid); err != nil {
		s.log.Error("Failed to mark ride paid",
			zap.Error(err),
			zap.String("payment_id", p.ID.String()),
			zap.String("ride_id", p.RideID.String()))
	}

	if _, err := s.wallet.Credit(ctx, p.WalletID, p.Amount); err != nil {
		s.log.Error("Failed to credit driver wallet",
			zap.Error(err),
			zap.String("payment_id", p.ID.String()),
			zap.String("wallet_id", p.WalletID.String()),
			zap.String("amount", p.Amount.StringFixed(2)))
	}
}
