package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "CARD"
	PaymentUPI  PaymentMethod = "UPI"
	PaymentCash PaymentMethod = "CASH"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type Payment struct {
	BaseNoDelete
	WalletID         uuid.UUID       `db:"wallet_id"`
	RideID           uuid.UUID       `db:"ride_id"`
	RiderID          uuid.UUID       `db:"rider_id"`
	DriverID         uuid.UUID       `db:"driver_id"`
	Amount           decimal.Decimal `db:"amount"`
	Method           PaymentMethod   `db:"payment_method"`
	Status           PaymentStatus   `db:"status"`
	GatewayOrderID   *string         `db:"gateway_order_id"`
	GatewayPaymentID *string         `db:"gateway_payment_id"`
	Metadata         map[string]any  `db:"transaction_meta_data"`
}
