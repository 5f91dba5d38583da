package adaptor

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service       usecase.AuthService
	secureCookies bool
	log           *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, secureCookies bool, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:       service,
		secureCookies: secureCookies,
		log:           log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/users/register (multipart)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	req := request.RegisterRequest{
		Firstname:         r.FormValue("firstname"),
		Lastname:          r.FormValue("lastname"),
		Email:             r.FormValue("email"),
		Phone:             r.FormValue("phone"),
		Password:          r.FormValue("password"),
		Role:              r.FormValue("role"),
		LicenseNumber:     r.FormValue("license_number"),
		LicenseExpiryDate: r.FormValue("license_expiry_date"),
		AadharNumber:      r.FormValue("aadhar_number"),
	}

	files, err := readUploads(r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid file upload", nil)
		return
	}

	resp, err := h.service.StartRegistration(r.Context(), &req, files)
	if err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	if resp.Recover {
		utils.ResponseSuccess(w, resp.Message, resp)
		return
	}

	if resp.ExpiresAt != nil {
		h.setChallengeCookie(w, resp.ChallengeToken, *resp.ExpiresAt)
	}
	utils.ResponseCreated(w, "OTP sent to email and phone", resp)
}

// VerifyOTP handles POST /api/users/verify-otp for both registration and recovery
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	req.ChallengeToken = utils.ChallengeToken(r, req.ChallengeToken)

	resp, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "verify OTP")
		return
	}

	utils.ClearCookie(w, utils.ChallengeTokenCookie, h.secureCookies)
	if resp.Recovered {
		utils.ResponseSuccess(w, "Account recovered successfully", resp)
		return
	}
	utils.ResponseCreated(w, "User registered successfully", resp)
}

// RecoverAccount handles POST /api/users/recover
func (h *AuthHandler) RecoverAccount(w http.ResponseWriter, r *http.Request) {
	var req request.RecoverAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.RecoverAccount(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "recover account")
		return
	}

	h.setChallengeCookie(w, resp.ChallengeToken, resp.ExpiresAt)
	utils.ResponseSuccess(w, "Recovery OTP sent to email", resp)
}

// Login handles POST /api/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	info, _ := json.Marshal(map[string]string{
		"user_id": resp.User.ID,
		"role":    string(resp.User.Role),
	})
	utils.SetCookie(w, utils.AccessTokenCookie, resp.AccessToken, resp.ExpiresAt, h.secureCookies)
	utils.SetCookie(w, utils.UserInfoCookie, url.QueryEscape(string(info)), resp.ExpiresAt, h.secureCookies)

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/users/logout (protected)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		h.handleServiceError(w, err, "logout")
		return
	}

	utils.ClearCookie(w, utils.AccessTokenCookie, h.secureCookies)
	utils.ClearCookie(w, utils.UserInfoCookie, h.secureCookies)
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// ForgotPassword handles POST /api/users/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.ForgotPassword(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "forgot password")
		return
	}

	h.setChallengeCookie(w, resp.ChallengeToken, resp.ExpiresAt)
	utils.ResponseSuccess(w, "OTP sent to email", resp)
}

// VerifyForgotPasswordOTP handles POST /api/users/verify-forgot-password-otp
func (h *AuthHandler) VerifyForgotPasswordOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyForgotPasswordOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	req.ChallengeToken = utils.ChallengeToken(r, req.ChallengeToken)

	if err := h.service.VerifyForgotPasswordOTP(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "verify forgot password OTP")
		return
	}

	utils.ResponseSuccess(w, "OTP verified. You can now reset your password", nil)
}

// ResetPassword handles POST /api/users/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	req.ChallengeToken = utils.ChallengeToken(r, req.ChallengeToken)

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		h.handleServiceError(w, err, "reset password")
		return
	}

	utils.ClearCookie(w, utils.ChallengeTokenCookie, h.secureCookies)
	utils.ResponseSuccess(w, "Password reset successfully", nil)
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	handleServiceError(h.log, w, err, operation)
}

// readUploads collects the optional avatar, license and aadhar files.
func readUploads(r *http.Request) (*request.Uploads, error) {
	var (
		files request.Uploads
		err   error
	)
	if files.Avatar, err = formFile(r, "avatar"); err != nil {
		return nil, err
	}
	if files.License, err = formFile(r, "license"); err != nil {
		return nil, err
	}
	if files.Aadhar, err = formFile(r, "aadhar"); err != nil {
		return nil, err
	}
	return &files, nil
}

// setChallengeCookie outlives the OTP by the store's retention window so an
// expired code is still answered with "OTP expired".
func (h *AuthHandler) setChallengeCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	utils.SetCookie(w, utils.ChallengeTokenCookie, token, expiresAt.Add(entity.ChallengeRetention), h.secureCookies)
}
