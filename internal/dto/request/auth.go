package request

// RegisterRequest is read from a multipart form. Field presence is checked by
// the service so the failure order stays stable.
type RegisterRequest struct {
	Firstname         string `json:"firstname"`
	Lastname          string `json:"lastname"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Password          string `json:"password"`
	Role              string `json:"role"`
	LicenseNumber     string `json:"license_number"`
	LicenseExpiryDate string `json:"license_expiry_date"`
	AadharNumber      string `json:"aadhar_number"`
}

// Uploads carries the raw bytes of the optional multipart files.
type Uploads struct {
	Avatar  []byte
	License []byte
	Aadhar  []byte
}

type VerifyOTPRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Email          string `json:"email"`
	OTP            string `json:"otp"`
	PhoneOTP       string `json:"phone_otp"`
}

type RecoverAccountRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyForgotPasswordOTPRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Email          string `json:"email"`
	OTP            string `json:"otp"`
}

type ResetPasswordRequest struct {
	ChallengeToken string `json:"challenge_token"`
	Email          string `json:"email"`
	NewPassword    string `json:"newPassword"`
}
