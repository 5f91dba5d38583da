package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChallengeRetention keeps an expired challenge around long enough to answer
// "OTP expired" instead of "no OTP request found".
const ChallengeRetention = 10 * time.Minute

// ChallengeKind tags which OTP workflow a challenge belongs to.
type ChallengeKind string

const (
	ChallengeRegistration  ChallengeKind = "registration"
	ChallengeRecovery      ChallengeKind = "recovery"
	ChallengePasswordReset ChallengeKind = "password_reset"
)

// RegistrationPayload is the candidate user staged until both OTPs are confirmed.
type RegistrationPayload struct {
	Firstname         string     `json:"firstname"`
	Lastname          string     `json:"lastname"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	PasswordHash      string     `json:"password_hash"`
	Role              UserRole   `json:"role"`
	ProfileImageURL   *string    `json:"profile_image_url,omitempty"`
	LicenseNumber     *string    `json:"license_number,omitempty"`
	LicenseURL        *string    `json:"license_url,omitempty"`
	LicenseExpiryDate *time.Time `json:"license_expiry_date,omitempty"`
	AadharNumber      *string    `json:"aadhar_number,omitempty"`
	AadharURL         *string    `json:"aadhar_url,omitempty"`
}

type PendingRegistration struct {
	User     RegistrationPayload `json:"user"`
	EmailOTP string              `json:"email_otp"`
	PhoneOTP string              `json:"phone_otp"`
}

// EmailOTP backs both account recovery and password reset.
type EmailOTP struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Verified bool   `json:"verified"`
}

// Challenge is one live OTP workflow. Exactly one of Registration or EmailOTP is set,
// according to Kind.
type Challenge struct {
	Token        string               `json:"token"`
	Kind         ChallengeKind        `json:"kind"`
	Registration *PendingRegistration `json:"registration,omitempty"`
	EmailOTP     *EmailOTP            `json:"email_otp,omitempty"`
	ExpiresAt    time.Time            `json:"expires_at"`
	CreatedAt    time.Time            `json:"created_at"`
}

// Expired uses a strict comparison: a challenge is still valid at exactly ExpiresAt.
func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// RetainUntil is when the store may drop the challenge.
func (c *Challenge) RetainUntil() time.Time {
	return c.ExpiresAt.Add(ChallengeRetention)
}

// Email returns the address the challenge was issued for.
func (c *Challenge) Email() string {
	switch {
	case c.Registration != nil:
		return c.Registration.User.Email
	case c.EmailOTP != nil:
		return c.EmailOTP.Email
	}
	return ""
}

// ToUser materialises the staged registration as a verified, active user.
func (p *PendingRegistration) ToUser(now time.Time) *User {
	u := p.User
	user := &User{
		Base: Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Firstname:         u.Firstname,
		Lastname:          u.Lastname,
		Email:             u.Email,
		Phone:             u.Phone,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		ProfileImageURL:   u.ProfileImageURL,
		EmailVerified:     true,
		PhoneVerified:     true,
		AccountStatus:     AccountActive,
		LicenseNumber:     u.LicenseNumber,
		LicenseURL:        u.LicenseURL,
		LicenseExpiryDate: u.LicenseExpiryDate,
		AadharNumber:      u.AadharNumber,
		AadharURL:         u.AadharURL,
	}
	if user.IsDriver() {
		status := VerificationPending
		user.VerificationStatus = &status
	}
	return user
}
