package response

import (
	"time"

	"ride-hailing/internal/data/entity"
)

type UserResponse struct {
	ID                 string                     `json:"user_id"`
	Firstname          string                     `json:"firstname"`
	Lastname           string                     `json:"lastname"`
	Email              string                     `json:"email"`
	Phone              string                     `json:"phone"`
	Role               entity.UserRole            `json:"role"`
	ProfileImageURL    *string                    `json:"profile_image_url"`
	EmailVerified      bool                       `json:"email_verified"`
	PhoneVerified      bool                       `json:"phone_verified"`
	AccountStatus      entity.AccountStatus       `json:"account_status"`
	IsAvailable        bool                       `json:"isAvailable"`
	VerificationStatus *entity.VerificationStatus `json:"verification_status,omitempty"`
	LastLoginAt        *time.Time                 `json:"last_login_at"`
	CreatedAt          time.Time                  `json:"created_at"`
	UpdatedAt          time.Time                  `json:"updated_at"`
}

type KYCResponse struct {
	LicenseStatus string     `json:"license_status"`
	AadharStatus  string     `json:"aadhar_status"`
	OverallStatus string     `json:"overall_status"`
	Notes         string     `json:"notes"`
	VerifiedBy    *string    `json:"verified_by"`
	VerifiedAt    *time.Time `json:"verified_at"`
}

type ProfileResponse struct {
	UserResponse
	LicenseNumber     *string      `json:"license_number,omitempty"`
	LicenseURL        *string      `json:"license_url,omitempty"`
	LicenseExpiryDate *time.Time   `json:"license_expiry_date,omitempty"`
	AadharNumber      *string      `json:"aadhar_number,omitempty"`
	AadharURL         *string      `json:"aadhar_url,omitempty"`
	KYC               *KYCResponse `json:"kyc,omitempty"`
}

type LocationResponse struct {
	Added bool `json:"added"`
}

type NearbyDriverResponse struct {
	UserID     string  `json:"user_id"`
	Firstname  string  `json:"firstname"`
	Lastname   string  `json:"lastname"`
	Longitude  float64 `json:"longitude"`
	Latitude   float64 `json:"latitude"`
	DistanceKm float64 `json:"distance_km"`
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:                 user.ID.String(),
		Firstname:          user.Firstname,
		Lastname:           user.Lastname,
		Email:              user.Email,
		Phone:              user.Phone,
		Role:               user.Role,
		ProfileImageURL:    user.ProfileImageURL,
		EmailVerified:      user.EmailVerified,
		PhoneVerified:      user.PhoneVerified,
		AccountStatus:      user.AccountStatus,
		IsAvailable:        user.IsAvailable,
		VerificationStatus: user.VerificationStatus,
		LastLoginAt:        user.LastLoginAt,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}

func UsersToResponse(users []*entity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = UserToResponse(u)
	}
	return out
}

// ProfileToResponse adds the driver-only fields and the KYC summary for drivers.
func ProfileToResponse(user *entity.User) ProfileResponse {
	profile := ProfileResponse{UserResponse: UserToResponse(user)}
	if !user.IsDriver() {
		return profile
	}

	profile.LicenseNumber = user.LicenseNumber
	profile.LicenseURL = user.LicenseURL
	profile.LicenseExpiryDate = user.LicenseExpiryDate
	profile.AadharNumber = user.AadharNumber
	profile.AadharURL = user.AadharURL

	overall := string(entity.VerificationPending)
	if user.VerificationStatus != nil {
		overall = string(*user.VerificationStatus)
	}

	kyc := &KYCResponse{
		LicenseStatus: string(entity.VerificationPending),
		AadharStatus:  string(entity.VerificationPending),
		OverallStatus: overall,
		VerifiedAt:    user.VerifiedAt,
	}
	if user.LicenseURL != nil {
		kyc.LicenseStatus = overall
	}
	if user.AadharURL != nil {
		kyc.AadharStatus = overall
	}
	if user.VerificationNotes != nil {
		kyc.Notes = *user.VerificationNotes
	}
	if user.VerifiedBy != nil {
		by := user.VerifiedBy.String()
		kyc.VerifiedBy = &by
	}
	profile.KYC = kyc

	return profile
}
