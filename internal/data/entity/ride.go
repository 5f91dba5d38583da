package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RideStatus string

const (
	RideRequested RideStatus = "requested"
	RideAccepted  RideStatus = "accepted"
	RideStarted   RideStatus = "started"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s RideStatus) IsTerminal() bool {
	return s == RideCompleted || s == RideCancelled
}

type RidePaymentStatus string

const (
	RideUnpaid RidePaymentStatus = "unpaid"
	RidePaid   RidePaymentStatus = "paid"
)

type Ride struct {
	Base
	RideNumber         string            `db:"ride_number"`
	RiderID            uuid.UUID         `db:"rider_id"`
	DriverID           *uuid.UUID        `db:"driver_id"`
	VehicleID          *uuid.UUID        `db:"vehicle_id"`
	PickupAddress      string            `db:"pickup_address"`
	PickupLat          float64           `db:"pickup_lat"`
	PickupLng          float64           `db:"pickup_lng"`
	DropAddress        string            `db:"drop_address"`
	DropLat            float64           `db:"drop_lat"`
	DropLng            float64           `db:"drop_lng"`
	DistanceKm         decimal.Decimal   `db:"distance_km"`
	Fare               decimal.Decimal   `db:"fare"`
	Status             RideStatus        `db:"status"`
	PaymentStatus      RidePaymentStatus `db:"payment_status"`
	CancellationReason *string           `db:"cancellation_reason"`
	CancelledBy        *UserRole         `db:"cancelled_by"`
	AcceptedAt         *time.Time        `db:"accepted_at"`
	StartedAt          *time.Time        `db:"started_at"`
	CompletedAt        *time.Time        `db:"completed_at"`
	CancelledAt        *time.Time        `db:"cancelled_at"`
}

// IsParticipant reports whether the user is the rider or the assigned driver.
func (r *Ride) IsParticipant(userID uuid.UUID) bool {
	if r.RiderID == userID {
		return true
	}
	return r.DriverID != nil && *r.DriverID == userID
}
