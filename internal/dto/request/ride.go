package request

type CreateRideRequest struct {
	PickupAddress string  `json:"pickup_address" validate:"required,max=255"`
	PickupLat     float64 `json:"pickup_lat" validate:"latitude"`
	PickupLng     float64 `json:"pickup_lng" validate:"longitude"`
	DropAddress   string  `json:"drop_address" validate:"required,max=255"`
	DropLat       float64 `json:"drop_lat" validate:"latitude"`
	DropLng       float64 `json:"drop_lng" validate:"longitude"`
}

type CancelRideRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}
