package request

type CreatePaymentOrderRequest struct {
	RideID        string `json:"ride_id" validate:"required,uuid4"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=CARD UPI CASH"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}
