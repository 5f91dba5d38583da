package entity

import (
	"github.com/google/uuid"
)

type VehicleType string

const (
	VehicleBike VehicleType = "bike"
	VehicleAuto VehicleType = "auto"
	VehicleCar  VehicleType = "car"
	VehicleSUV  VehicleType = "suv"
)

type Vehicle struct {
	BaseNoDelete
	DriverID    uuid.UUID   `db:"driver_id"`
	Make        string      `db:"make"`
	Model       string      `db:"model"`
	Color       string      `db:"color"`
	PlateNumber string      `db:"plate_number"`
	VehicleType VehicleType `db:"vehicle_type"`
	Seats       int         `db:"seats"`
	IsActive    bool        `db:"is_active"`
}
