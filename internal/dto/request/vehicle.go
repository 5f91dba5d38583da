package request

type RegisterVehicleRequest struct {
	Make        string `json:"make" validate:"required,max=50"`
	Model       string `json:"model" validate:"required,max=50"`
	Color       string `json:"color" validate:"required,max=30"`
	PlateNumber string `json:"plate_number" validate:"required,min=4,max=20"`
	VehicleType string `json:"vehicle_type" validate:"required,oneof=bike auto car suv"`
	Seats       int    `json:"seats" validate:"required,min=1,max=8"`
}

type UpdateVehicleRequest struct {
	Make        *string `json:"make,omitempty" validate:"omitempty,max=50"`
	Model       *string `json:"model,omitempty" validate:"omitempty,max=50"`
	Color       *string `json:"color,omitempty" validate:"omitempty,max=30"`
	PlateNumber *string `json:"plate_number,omitempty" validate:"omitempty,min=4,max=20"`
	VehicleType *string `json:"vehicle_type,omitempty" validate:"omitempty,oneof=bike auto car suv"`
	Seats       *int    `json:"seats,omitempty" validate:"omitempty,min=1,max=8"`
}
