package response

import (
	"time"

	"ride-hailing/internal/data/entity"

	"github.com/shopspring/decimal"
)

type WalletResponse struct {
	ID               string          `json:"wallet_id"`
	DriverID         string          `json:"driver_id"`
	TotalBalance     decimal.Decimal `json:"total_balance"`
	ActualBalance    decimal.Decimal `json:"actual_balance"`
	PendingDeduction decimal.Decimal `json:"a_deduct"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func WalletToResponse(w *entity.Wallet) WalletResponse {
	return WalletResponse{
		ID:               w.ID.String(),
		DriverID:         w.DriverID.String(),
		TotalBalance:     w.TotalBalance,
		ActualBalance:    w.ActualBalance,
		PendingDeduction: w.PendingDeduction,
		IsActive:         w.IsActive,
		CreatedAt:        w.CreatedAt,
		UpdatedAt:        w.UpdatedAt,
	}
}

// PaymentOrderResponse mirrors what the checkout widget needs. OrderID and KeyID
// are empty for cash payments, which settle immediately.
type PaymentOrderResponse struct {
	PaymentID string               `json:"payment_id"`
	OrderID   string               `json:"order_id,omitempty"`
	Amount    int64                `json:"amount"`
	Currency  string               `json:"currency"`
	Status    entity.PaymentStatus `json:"status"`
	KeyID     string               `json:"razorpay_key_id,omitempty"`
}

type PaymentVerifyResponse struct {
	Message string               `json:"message"`
	Status  entity.PaymentStatus `json:"status"`
}
