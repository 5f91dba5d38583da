package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/dto/response"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/storage"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minPasswordLength = 6
	licenseDateLayout = "2006-01-02"
	appDisplayName    = "Ride App"
)

const msgNoOTPRequest = "No OTP request found. Please register or recover again."

type AuthService interface {
	StartRegistration(ctx context.Context, req *request.RegisterRequest, files *request.Uploads) (*response.RegistrationResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.VerifyOTPResponse, error)
	RecoverAccount(ctx context.Context, req *request.RecoverAccountRequest) (*response.OTPSentResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.OTPSentResponse, error)
	VerifyForgotPasswordOTP(ctx context.Context, req *request.VerifyForgotPasswordOTPRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
	Logout(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	repo     *repository.Repository
	wallet   WalletService
	uploader storage.Uploader
	notifier notify.Notifier
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	wallet WalletService,
	uploader storage.Uploader,
	notifier notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		wallet:   wallet,
		uploader: uploader,
		notifier: notifier,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
		now:      time.Now,
	}
}

// ==================== REGISTRATION ====================

func (s *authService) StartRegistration(ctx context.Context, req *request.RegisterRequest, files *request.Uploads) (*response.RegistrationResponse, error) {
	if files == nil {
		files = &request.Uploads{}
	}
	email := normalizeEmail(req.Email)

	// 1. Existing email: inactive accounts are pointed at recovery
	if email != "" {
		existing, err := s.repo.User.FindByEmail(ctx, email)
		if err != nil {
			return nil, utils.ErrInternal("Failed to check email", err)
		}
		if existing != nil {
			if existing.AccountStatus == entity.AccountInactive {
				return &response.RegistrationResponse{
					AlreadyRegistered: true,
					Recover:           true,
					Message:           "Account exists but inactive. Please recover your account.",
				}, nil
			}
			return nil, utils.ErrConflict("Email already registered and active")
		}
	}

	// 2. Required fields
	firstname := strings.TrimSpace(req.Firstname)
	lastname := strings.TrimSpace(req.Lastname)
	phone := strings.TrimSpace(req.Phone)
	if firstname == "" || lastname == "" || email == "" || phone == "" || req.Password == "" {
		return nil, utils.ErrBadRequest("Missing required fields")
	}

	role := entity.UserRole(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = entity.RoleRider
	}
	if role != entity.RoleRider && role != entity.RoleDriver {
		return nil, utils.ErrBadRequest("Role must be rider or driver")
	}

	// 3. Phone uniqueness
	byPhone, err := s.repo.User.FindByPhone(ctx, phone)
	if err != nil {
		return nil, utils.ErrInternal("Failed to check phone", err)
	}
	if byPhone != nil {
		return nil, utils.ErrConflict("Phone already registered")
	}

	if len(req.Password) < minPasswordLength {
		return nil, utils.ErrBadRequest("Password length must be >= 6")
	}

	// 4. Documents
	if !isImage(files.Avatar) {
		return nil, utils.ErrUnprocessable("User must upload a valid profile photo")
	}

	var (
		licenseNumber, aadharNumber *string
		licenseExpiry               *time.Time
	)
	if role == entity.RoleDriver {
		ln := strings.TrimSpace(req.LicenseNumber)
		an := strings.TrimSpace(req.AadharNumber)
		le := strings.TrimSpace(req.LicenseExpiryDate)
		if ln == "" || le == "" || an == "" {
			return nil, utils.ErrUnprocessable("Driver must provide license number, expiry date, and Aadhaar")
		}
		expiry, err := time.Parse(licenseDateLayout, le)
		if err != nil {
			return nil, utils.ErrUnprocessable("License expiry date must be in YYYY-MM-DD format")
		}
		if !isImage(files.License) {
			return nil, utils.ErrUnprocessable("Driver must upload a valid license photo")
		}
		if !isImage(files.Aadhar) {
			return nil, utils.ErrUnprocessable("Driver must upload a valid Aadhaar photo")
		}
		licenseNumber, aadharNumber, licenseExpiry = &ln, &an, &expiry
	}

	// 5. Hash password
	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, utils.ErrInternal("Failed to process password", err)
	}

	// 6. Upload documents
	avatar := &imageUpload{Folder: storage.FolderAvatars, Data: files.Avatar}
	var license, aadhar *imageUpload
	if role == entity.RoleDriver {
		license = &imageUpload{Folder: storage.FolderLicenses, Data: files.License}
		aadhar = &imageUpload{Folder: storage.FolderAadhars, Data: files.Aadhar}
	}
	if err := uploadImages(ctx, s.uploader, avatar, license, aadhar); err != nil {
		s.log.Error("Registration upload failed", zap.Error(err), zap.String("email", email))
		return nil, utils.ErrInternal("File upload failed. Please try again.", err)
	}

	// 7. Stage the registration behind a challenge
	now := s.now()
	pending := &entity.PendingRegistration{
		User: entity.RegistrationPayload{
			Firstname:         firstname,
			Lastname:          lastname,
			Email:             email,
			Phone:             phone,
			PasswordHash:      passwordHash,
			Role:              role,
			ProfileImageURL:   avatar.urlOrNil(),
			LicenseNumber:     licenseNumber,
			LicenseURL:        license.urlOrNil(),
			LicenseExpiryDate: licenseExpiry,
			AadharNumber:      aadharNumber,
			AadharURL:         aadhar.urlOrNil(),
		},
		EmailOTP: utils.GenerateOTP(s.config.OTP.Length),
		PhoneOTP: utils.GenerateOTP(s.config.OTP.Length),
	}
	challenge := s.newChallenge(entity.ChallengeRegistration, now)
	challenge.Registration = pending

	if err := s.repo.Challenge.Save(ctx, challenge); err != nil {
		return nil, utils.ErrInternal("Failed to start registration", err)
	}

	// 8. Notifications never fail the request
	s.notifier.Enqueue(notify.Job{
		Channel: notify.ChannelSMS,
		To:      phone,
		Body:    "Your " + appDisplayName + " verification code is " + pending.PhoneOTP,
	})
	s.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       email,
		Subject:  "Welcome to Ride App!",
		Template: "welcome.html",
		Data: map[string]any{
			"username": firstname,
			"email":    email,
			"appname":  s.config.App.Name,
			"otpcode":  pending.EmailOTP,
		},
	})

	s.log.Info("Registration staged",
		zap.String("email", email),
		zap.String("role", string(role)),
		zap.Time("expires_at", challenge.ExpiresAt))

	expiresAt := challenge.ExpiresAt
	return &response.RegistrationResponse{
		OTPSent:        true,
		ChallengeToken: challenge.Token,
		ExpiresAt:      &expiresAt,
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.VerifyOTPResponse, error) {
	if req.ChallengeToken == "" {
		return nil, utils.ErrBadRequest(msgNoOTPRequest)
	}

	challenge, err := s.repo.Challenge.Get(ctx, req.ChallengeToken)
	if err != nil {
		return nil, utils.ErrInternal("Failed to load OTP request", err)
	}
	if challenge == nil {
		return nil, utils.ErrBadRequest(msgNoOTPRequest)
	}

	switch {
	case challenge.Kind == entity.ChallengeRegistration && challenge.Registration != nil:
		return s.completeRegistration(ctx, challenge, req)
	case challenge.Kind == entity.ChallengeRecovery && challenge.EmailOTP != nil:
		return s.completeRecovery(ctx, challenge, req)
	default:
		return nil, utils.ErrBadRequest(msgNoOTPRequest)
	}
}

func (s *authService) completeRegistration(ctx context.Context, challenge *entity.Challenge, req *request.VerifyOTPRequest) (*response.VerifyOTPResponse, error) {
	pending := challenge.Registration

	// 1. Validate against the peeked copy; failures leave the challenge for a retry
	if normalizeEmail(req.Email) != pending.User.Email {
		return nil, utils.ErrBadRequest("Email does not match OTP request")
	}
	if req.OTP != pending.EmailOTP {
		return nil, utils.ErrBadRequest("Invalid OTP")
	}
	if req.PhoneOTP != pending.PhoneOTP {
		return nil, utils.ErrBadRequest("Invalid OTP")
	}
	now := s.now()
	if challenge.Expired(now) {
		return nil, utils.ErrBadRequest("OTP expired")
	}

	// 2. Only the caller that removes the challenge may commit; a failed commit
	// restores it
	if err := s.consume(ctx, challenge.Token); err != nil {
		return nil, err
	}

	// 3. Persist the user
	user := pending.ToUser(now)
	if err := s.repo.User.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrConflict("Email or phone already registered")
		}
		s.restore(ctx, challenge)
		return nil, utils.ErrInternal("Failed to create account", err)
	}

	// 4. Drivers get a wallet; failure does not undo the registration
	if user.IsDriver() {
		if _, err := s.wallet.CreateDriverWallet(ctx, user.ID); err != nil {
			s.log.Error("Wallet creation failed after registration",
				zap.Error(err),
				zap.String("user_id", user.ID.String()))
		}
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return &response.VerifyOTPResponse{Registered: true}, nil
}

func (s *authService) completeRecovery(ctx context.Context, challenge *entity.Challenge, req *request.VerifyOTPRequest) (*response.VerifyOTPResponse, error) {
	recovery := challenge.EmailOTP
	email := normalizeEmail(req.Email)

	if email != recovery.Email {
		return nil, utils.ErrBadRequest("Email does not match recovery request")
	}
	if req.OTP != recovery.OTP {
		return nil, utils.ErrBadRequest("Invalid OTP")
	}
	if challenge.Expired(s.now()) {
		return nil, utils.ErrBadRequest("OTP expired")
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrInternal("Failed to find user", err)
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found for recovery")
	}

	if err := s.consume(ctx, challenge.Token); err != nil {
		return nil, err
	}

	if err := s.repo.User.UpdateAccountStatus(ctx, user.ID, entity.AccountActive); err != nil {
		s.restore(ctx, challenge)
		return nil, utils.ErrInternal("Failed to recover account", err)
	}

	s.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       user.Email,
		Subject:  "Your Ride App account has been recovered",
		Template: "accountrecovered.html",
		Data: map[string]any{
			"username": user.Firstname,
			"appname":  s.config.App.Name,
			"year":     s.now().Year(),
		},
	})

	s.log.Info("Account recovered", zap.String("user_id", user.ID.String()))

	return &response.VerifyOTPResponse{Recovered: true}, nil
}

// ==================== RECOVERY ====================

func (s *authService) RecoverAccount(ctx context.Context, req *request.RecoverAccountRequest) (*response.OTPSentResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, utils.ErrBadRequest("Email is required")
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrInternal("Failed to find user", err)
	}
	if user == nil {
		return nil, utils.ErrNotFound("No account found with this email")
	}
	if user.IsActive() {
		return nil, utils.ErrBadRequest("Account is already active")
	}

	challenge, err := s.stageEmailOTP(ctx, entity.ChallengeRecovery, email)
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       email,
		Subject:  "Recover your Ride App account",
		Template: "recover.html",
		Data: map[string]any{
			"username": user.Firstname,
			"otpcode":  challenge.EmailOTP.OTP,
		},
	})

	s.log.Info("Recovery OTP issued", zap.String("user_id", user.ID.String()))

	return otpSent(challenge), nil
}

// ==================== LOGIN ====================

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, utils.ErrBadRequest("Email and password are required")
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrInternal("Failed to find user", err)
	}
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", email))
		return nil, utils.ErrUnauthorized("Invalid credentials")
	}

	switch user.AccountStatus {
	case entity.AccountActive:
	case entity.AccountInactive:
		return nil, utils.ErrPaymentRequired("Your account is deactivated. For activation please register again or recover...")
	default:
		return nil, utils.ErrForbidden("Your account is " + string(user.AccountStatus))
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, utils.ErrUnauthorized("Invalid credentials")
	}

	ttl := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	token, expiresAt, err := utils.GenerateToken(s.config.JWT.Secret, user.ID, string(user.Role), ttl)
	if err != nil {
		return nil, utils.ErrInternal("Failed to issue token", err)
	}

	now := s.now()
	if err := s.repo.User.TouchLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to record last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	} else {
		user.LastLoginAt = &now
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return &response.AuthResponse{
		User:        response.UserToResponse(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.User.SetAvailability(ctx, userID, false); err != nil {
		return utils.ErrInternal("Failed to logout", err)
	}
	if err := s.repo.Location.Remove(ctx, userID); err != nil {
		s.log.Warn("Failed to drop location on logout", zap.Error(err), zap.String("user_id", userID.String()))
	}

	s.log.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

// ==================== PASSWORD RESET ====================

func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) (*response.OTPSentResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, utils.ErrBadRequest("Email is required")
	}

	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, utils.ErrInternal("Failed to find user", err)
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found")
	}

	challenge, err := s.stageEmailOTP(ctx, entity.ChallengePasswordReset, email)
	if err != nil {
		return nil, err
	}

	s.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       email,
		Subject:  "Reset your password",
		Template: "forgotpassword.html",
		Data: map[string]any{
			"username": user.Firstname,
			"otpcode":  challenge.EmailOTP.OTP,
			"appname":  s.config.App.Name,
		},
	})

	s.log.Info("Password reset OTP issued", zap.String("user_id", user.ID.String()))

	return otpSent(challenge), nil
}

func (s *authService) VerifyForgotPasswordOTP(ctx context.Context, req *request.VerifyForgotPasswordOTPRequest) error {
	challenge, err := s.passwordResetChallenge(ctx, req.ChallengeToken)
	if err != nil {
		return err
	}
	if challenge == nil {
		return utils.ErrBadRequest("No OTP request found. Please try again.")
	}

	reset := challenge.EmailOTP
	if normalizeEmail(req.Email) != reset.Email {
		return utils.ErrBadRequest("Email does not match OTP request")
	}
	if req.OTP != reset.OTP {
		return utils.ErrBadRequest("Invalid OTP")
	}
	if challenge.Expired(s.now()) {
		return utils.ErrBadRequest("OTP expired")
	}

	reset.Verified = true
	if err := s.repo.Challenge.Update(ctx, challenge); err != nil {
		if errors.Is(err, repository.ErrChallengeNotFound) {
			return utils.ErrBadRequest("No OTP request found. Please try again.")
		}
		return utils.ErrInternal("Failed to verify OTP", err)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" || req.NewPassword == "" {
		return utils.ErrBadRequest("Email and new password are required")
	}
	if len(req.NewPassword) < minPasswordLength {
		return utils.ErrBadRequest("Password length must be >= 6")
	}

	// 1. A verified, unexpired challenge for this email is required
	challenge, err := s.passwordResetChallenge(ctx, req.ChallengeToken)
	if err != nil {
		return err
	}
	if challenge == nil || !challenge.EmailOTP.Verified || challenge.EmailOTP.Email != email || challenge.Expired(s.now()) {
		return utils.ErrBadRequest("OTP verification required before resetting password")
	}

	// 2. Claim it so the same verification cannot reset twice
	consumed, err := s.repo.Challenge.Consume(ctx, challenge.Token)
	if err != nil {
		return utils.ErrInternal("Failed to reset password", err)
	}
	if !consumed {
		return utils.ErrBadRequest("OTP verification required before resetting password")
	}

	// 3. Store the new hash
	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.restore(ctx, challenge)
		return utils.ErrInternal("Failed to process password", err)
	}
	user, err := s.repo.User.UpdatePassword(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.ErrNotFound("User not found")
		}
		s.restore(ctx, challenge)
		return utils.ErrInternal("Failed to reset password", err)
	}

	s.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       email,
		Subject:  "Your Ride App password was changed successfully",
		Template: "passwordchangesuccess.html",
		Data: map[string]any{
			"username": user.FullName(),
			"appName":  appDisplayName,
			"year":     s.now().Year(),
		},
	})

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) newChallenge(kind entity.ChallengeKind, now time.Time) *entity.Challenge {
	return &entity.Challenge{
		Token:     utils.GenerateChallengeToken(),
		Kind:      kind,
		ExpiresAt: now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute),
		CreatedAt: now,
	}
}

func (s *authService) stageEmailOTP(ctx context.Context, kind entity.ChallengeKind, email string) (*entity.Challenge, error) {
	challenge := s.newChallenge(kind, s.now())
	challenge.EmailOTP = &entity.EmailOTP{
		Email: email,
		OTP:   utils.GenerateOTP(s.config.OTP.Length),
	}

	if err := s.repo.Challenge.Save(ctx, challenge); err != nil {
		return nil, utils.ErrInternal("Failed to issue OTP", err)
	}

	return challenge, nil
}

// passwordResetChallenge returns nil when the token is unknown or belongs to another flow.
func (s *authService) passwordResetChallenge(ctx context.Context, token string) (*entity.Challenge, error) {
	if token == "" {
		return nil, nil
	}
	challenge, err := s.repo.Challenge.Get(ctx, token)
	if err != nil {
		return nil, utils.ErrInternal("Failed to load OTP request", err)
	}
	if challenge == nil || challenge.Kind != entity.ChallengePasswordReset || challenge.EmailOTP == nil {
		return nil, nil
	}
	return challenge, nil
}

func (s *authService) consume(ctx context.Context, token string) error {
	consumed, err := s.repo.Challenge.Consume(ctx, token)
	if err != nil {
		return utils.ErrInternal("Failed to verify OTP", err)
	}
	if !consumed {
		return utils.ErrBadRequest(msgNoOTPRequest)
	}
	return nil
}

// restore puts back a challenge this caller consumed when the write it guarded
// failed, keeping the original expiry so the codes can be retried.
func (s *authService) restore(ctx context.Context, challenge *entity.Challenge) {
	if err := s.repo.Challenge.Save(context.WithoutCancel(ctx), challenge); err != nil {
		s.log.Error("Failed to restore challenge",
			zap.Error(err),
			zap.String("kind", string(challenge.Kind)),
			zap.String("email", challenge.Email()))
		return
	}
	s.log.Warn("Challenge restored after failed commit",
		zap.String("kind", string(challenge.Kind)),
		zap.String("email", challenge.Email()))
}

func otpSent(challenge *entity.Challenge) *response.OTPSentResponse {
	return &response.OTPSentResponse{
		OTPSent:        true,
		ChallengeToken: challenge.Token,
		ExpiresAt:      challenge.ExpiresAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isImage(data []byte) bool {
	_, err := storage.DetectImage(data)
	return err == nil
}
