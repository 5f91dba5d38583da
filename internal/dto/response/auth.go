package response

import (
	"time"
)

// RegistrationResponse is either a staged registration (OTPSent) or the recover
// signal for an email owned by an inactive account.
type RegistrationResponse struct {
	OTPSent           bool       `json:"otpSent,omitempty"`
	ChallengeToken    string     `json:"challenge_token,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	AlreadyRegistered bool       `json:"alreadyRegistered,omitempty"`
	Recover           bool       `json:"recover,omitempty"`
	Message           string     `json:"message,omitempty"`
}

type OTPSentResponse struct {
	OTPSent        bool      `json:"otpSent"`
	ChallengeToken string    `json:"challenge_token"`
	ExpiresAt      time.Time `json:"expires_at"`
}

type VerifyOTPResponse struct {
	Registered bool `json:"registered,omitempty"`
	Recovered  bool `json:"recovered,omitempty"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}
