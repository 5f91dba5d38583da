package response

import (
	"time"

	"ride-hailing/internal/data/entity"

	"github.com/shopspring/decimal"
)

type RideResponse struct {
	ID                 string                   `json:"id"`
	RideNumber         string                   `json:"ride_number"`
	RiderID            string                   `json:"rider_id"`
	DriverID           *string                  `json:"driver_id"`
	VehicleID          *string                  `json:"vehicle_id"`
	PickupAddress      string                   `json:"pickup_address"`
	PickupLat          float64                  `json:"pickup_lat"`
	PickupLng          float64                  `json:"pickup_lng"`
	DropAddress        string                   `json:"drop_address"`
	DropLat            float64                  `json:"drop_lat"`
	DropLng            float64                  `json:"drop_lng"`
	DistanceKm         decimal.Decimal          `json:"distance_km"`
	Fare               decimal.Decimal          `json:"fare"`
	Status             entity.RideStatus        `json:"status"`
	PaymentStatus      entity.RidePaymentStatus `json:"payment_status"`
	CancellationReason *string                  `json:"cancellation_reason,omitempty"`
	CancelledBy        *entity.UserRole         `json:"cancelled_by,omitempty"`
	AcceptedAt         *time.Time               `json:"accepted_at,omitempty"`
	StartedAt          *time.Time               `json:"started_at,omitempty"`
	CompletedAt        *time.Time               `json:"completed_at,omitempty"`
	CancelledAt        *time.Time               `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

func RideToResponse(ride *entity.Ride) RideResponse {
	resp := RideResponse{
		ID:                 ride.ID.String(),
		RideNumber:         ride.RideNumber,
		RiderID:            ride.RiderID.String(),
		PickupAddress:      ride.PickupAddress,
		PickupLat:          ride.PickupLat,
		PickupLng:          ride.PickupLng,
		DropAddress:        ride.DropAddress,
		DropLat:            ride.DropLat,
		DropLng:            ride.DropLng,
		DistanceKm:         ride.DistanceKm,
		Fare:               ride.Fare,
		Status:             ride.Status,
		PaymentStatus:      ride.PaymentStatus,
		CancellationReason: ride.CancellationReason,
		CancelledBy:        ride.CancelledBy,
		AcceptedAt:         ride.AcceptedAt,
		StartedAt:          ride.StartedAt,
		CompletedAt:        ride.CompletedAt,
		CancelledAt:        ride.CancelledAt,
		CreatedAt:          ride.CreatedAt,
	}

	if ride.DriverID != nil {
		id := ride.DriverID.String()
		resp.DriverID = &id
	}
	if ride.VehicleID != nil {
		id := ride.VehicleID.String()
		resp.VehicleID = &id
	}

	return resp
}

func RidesToResponse(rides []*entity.Ride) []RideResponse {
	out := make([]RideResponse, len(rides))
	for i, r := range rides {
		out[i] = RideToResponse(r)
	}
	return out
}
