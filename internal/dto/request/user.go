package request

// UpdateProfileRequest comes from a multipart form; nil means "leave unchanged".
type UpdateProfileRequest struct {
	Firstname         *string `json:"firstname,omitempty" validate:"omitempty,min=1,max=100"`
	Lastname          *string `json:"lastname,omitempty" validate:"omitempty,min=1,max=100"`
	Phone             *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	LicenseNumber     *string `json:"license_number,omitempty" validate:"omitempty,max=50"`
	LicenseExpiryDate *string `json:"license_expiry_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AadharNumber      *string `json:"aadhar_number,omitempty" validate:"omitempty,max=20"`
}

type AvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" validate:"required"`
}

type LocationRequest struct {
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
}

type NearbyDriversRequest struct {
	Longitude float64 `validate:"longitude"`
	Latitude  float64 `validate:"latitude"`
	RadiusKm  float64 `validate:"gt=0,lte=50"`
}

type ApproveVerificationRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

type RejectVerificationRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}
