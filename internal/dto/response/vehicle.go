package response

import (
	"time"

	"ride-hailing/internal/data/entity"
)

type VehicleResponse struct {
	ID          string             `json:"id"`
	DriverID    string             `json:"driver_id"`
	Make        string             `json:"make"`
	Model       string             `json:"model"`
	Color       string             `json:"color"`
	PlateNumber string             `json:"plate_number"`
	VehicleType entity.VehicleType `json:"vehicle_type"`
	Seats       int                `json:"seats"`
	IsActive    bool               `json:"is_active"`
	CreatedAt   time.Time          `json:"created_at"`
}

func VehicleToResponse(v *entity.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:          v.ID.String(),
		DriverID:    v.DriverID.String(),
		Make:        v.Make,
		Model:       v.Model,
		Color:       v.Color,
		PlateNumber: v.PlateNumber,
		VehicleType: v.VehicleType,
		Seats:       v.Seats,
		IsActive:    v.IsActive,
		CreatedAt:   v.CreatedAt,
	}
}

func VehiclesToResponse(vehicles []*entity.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		out[i] = VehicleToResponse(v)
	}
	return out
}
