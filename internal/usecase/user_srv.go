package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/dto/request"
	"ride-hailing/internal/dto/response"
	"ride-hailing/pkg/export"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/storage"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultExportDays = 14
	maxExportDays     = 90
	exportChunkDays   = 7

	// GEOADD rejects latitudes beyond the Web Mercator limits.
	maxGeoLatitude = 85.05112878

	nearbyScanLimit = 50
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, role entity.UserRole, req *request.UpdateProfileRequest, files *request.Uploads) (*response.ProfileResponse, error)
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*response.UserResponse, error)
	Deactivate(ctx context.Context, userID uuid.UUID) error
	UpdateLocation(ctx context.Context, userID uuid.UUID, req *request.LocationRequest) (*response.LocationResponse, error)
	NearbyDrivers(ctx context.Context, req *request.NearbyDriversRequest) ([]response.NearbyDriverResponse, error)
	ExportRides(ctx context.Context, userID uuid.UUID, days int) ([]byte, error)

	// Admin
	ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	PendingVerifications(ctx context.Context) ([]response.ProfileResponse, error)
	ApproveVerification(ctx context.Context, adminID, userID uuid.UUID, req *request.ApproveVerificationRequest) (*response.ProfileResponse, error)
	RejectVerification(ctx context.Context, adminID, userID uuid.UUID, req *request.RejectVerificationRequest) (*response.ProfileResponse, error)
}

type userService struct {
	repo     *repository.Repository
	uploader storage.Uploader
	notifier notify.Notifier
	config   *utils.Config
	log      *zap.Logger
	now      func() time.Time
}

func NewUserService(
	repo *repository.Repository,
	uploader storage.Uploader,
	notifier notify.Notifier,
	config *utils.Config,
	log *zap.Logger,
) UserService {
	return &userService{
		repo:     repo,
		uploader: uploader,
		notifier: notifier,
		config:   config,
		log:      log.With(zap.String("service", "user")),
		now:      time.Now,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := response.ProfileToResponse(user)
	return &profile, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, role entity.UserRole, req *request.UpdateProfileRequest, files *request.Uploads) (*response.ProfileResponse, error) {
	if role != entity.RoleRider && role != entity.RoleDriver {
		return nil, utils.ErrForbidden("Only riders and drivers can update profile")
	}
	if files == nil {
		files = &request.Uploads{}
	}

	// 1. Load
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. Common fields
	if req.Firstname != nil {
		user.Firstname = strings.TrimSpace(*req.Firstname)
	}
	if req.Lastname != nil {
		user.Lastname = strings.TrimSpace(*req.Lastname)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != user.Phone {
			owner, err := us.repo.User.FindByPhone(ctx, phone)
			if err != nil {
				return nil, utils.ErrInternal("Failed to check phone", err)
			}
			if owner != nil && owner.ID != user.ID {
				return nil, utils.ErrConflict("Phone already registered")
			}
			user.Phone = phone
		}
	}

	// 3. Driver documents
	var license, aadhar *imageUpload
	if user.IsDriver() {
		if req.LicenseNumber != nil {
			ln := strings.TrimSpace(*req.LicenseNumber)
			user.LicenseNumber = &ln
		}
		if req.LicenseExpiryDate != nil {
			expiry, err := time.Parse(licenseDateLayout, strings.TrimSpace(*req.LicenseExpiryDate))
			if err != nil {
				return nil, utils.ErrUnprocessable("License expiry date must be in YYYY-MM-DD format")
			}
			user.LicenseExpiryDate = &expiry
		}
		if req.AadharNumber != nil {
			an := strings.TrimSpace(*req.AadharNumber)
			user.AadharNumber = &an
		}
		if len(files.License) > 0 {
			if !isImage(files.License) {
				return nil, utils.ErrUnprocessable("Driver must upload a valid license photo")
			}
			license = &imageUpload{Folder: storage.FolderLicenses, Data: files.License}
		}
		if len(files.Aadhar) > 0 {
			if !isImage(files.Aadhar) {
				return nil, utils.ErrUnprocessable("Driver must upload a valid Aadhaar photo")
			}
			aadhar = &imageUpload{Folder: storage.FolderAadhars, Data: files.Aadhar}
		}
	}

	var avatar *imageUpload
	if len(files.Avatar) > 0 {
		if !isImage(files.Avatar) {
			return nil, utils.ErrUnprocessable("User must upload a valid profile photo")
		}
		avatar = &imageUpload{Folder: storage.FolderAvatars, Data: files.Avatar}
	}

	// 4. Upload whatever was sent
	if err := uploadImages(ctx, us.uploader, avatar, license, aadhar); err != nil {
		us.log.Error("Profile upload failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, utils.ErrInternal("File upload failed. Please try again.", err)
	}
	if url := avatar.urlOrNil(); url != nil {
		user.ProfileImageURL = url
	}
	if url := license.urlOrNil(); url != nil {
		user.LicenseURL = url
	}
	if url := aadhar.urlOrNil(); url != nil {
		user.AadharURL = url
	}

	// 5. Save
	user.UpdatedAt = us.now()
	if err := us.repo.User.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrConflict("Phone already registered")
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, utils.ErrNotFound("User not found")
		}
		return nil, utils.ErrInternal("Failed to update profile", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	profile := response.ProfileToResponse(user)
	return &profile, nil
}

func (us *userService) SetAvailability(ctx context.Context, userID uuid.UUID, available bool) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsDriver() {
		return nil, utils.ErrForbidden("Only drivers can change availability")
	}
	if available && !user.IsApprovedDriver() {
		return nil, utils.ErrForbidden("Driver account is not verified yet")
	}

	if err := us.repo.User.SetAvailability(ctx, userID, available); err != nil {
		return nil, utils.ErrInternal("Failed to update availability", err)
	}
	user.IsAvailable = available

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) Deactivate(ctx context.Context, userID uuid.UUID) error {
	if err := us.repo.User.UpdateAccountStatus(ctx, userID, entity.AccountInactive); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return utils.ErrNotFound("User not found or could not be deactivated")
		}
		return utils.ErrInternal("Failed to deactivate account", err)
	}

	if err := us.repo.Location.Remove(ctx, userID); err != nil {
		us.log.Warn("Failed to drop location of deactivated user", zap.Error(err), zap.String("user_id", userID.String()))
	}

	us.log.Info("Account deactivated", zap.String("user_id", userID.String()))
	return nil
}

func (us *userService) UpdateLocation(ctx context.Context, userID uuid.UUID, req *request.LocationRequest) (*response.LocationResponse, error) {
	if req.Longitude == nil || req.Latitude == nil {
		return nil, utils.ErrBadRequest("Missing the user coordinates")
	}
	lng, lat := *req.Longitude, *req.Latitude
	if lng < -180 || lng > 180 || lat < -maxGeoLatitude || lat > maxGeoLatitude {
		return nil, utils.ErrBadRequest("Coordinates out of range")
	}

	added, err := us.repo.Location.Upsert(ctx, userID, lng, lat)
	if err != nil {
		return nil, utils.ErrInternal("Failed to store location", err)
	}

	return &response.LocationResponse{Added: added}, nil
}

// NearbyDrivers returns available, verified, active drivers sorted by distance.
func (us *userService) NearbyDrivers(ctx context.Context, req *request.NearbyDriversRequest) ([]response.NearbyDriverResponse, error) {
	nearby, err := us.repo.Location.Nearby(ctx, req.Longitude, req.Latitude, req.RadiusKm, nearbyScanLimit)
	if err != nil {
		return nil, utils.ErrInternal("Failed to search nearby drivers", err)
	}
	if len(nearby) == 0 {
		return []response.NearbyDriverResponse{}, nil
	}

	ids := make([]uuid.UUID, len(nearby))
	for i, n := range nearby {
		ids[i] = n.UserID
	}
	users, err := us.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, utils.ErrInternal("Failed to load nearby drivers", err)
	}
	byID := make(map[uuid.UUID]*entity.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	drivers := make([]response.NearbyDriverResponse, 0, len(nearby))
	for _, n := range nearby {
		u, ok := byID[n.UserID]
		if !ok || !u.IsApprovedDriver() || !u.IsActive() || !u.IsAvailable {
			continue
		}
		drivers = append(drivers, response.NearbyDriverResponse{
			UserID:     u.ID.String(),
			Firstname:  u.Firstname,
			Lastname:   u.Lastname,
			Longitude:  n.Longitude,
			Latitude:   n.Latitude,
			DistanceKm: n.DistanceKm,
		})
	}

	return drivers, nil
}

// ExportRides bundles one PDF per non-empty 7-day window of the last days into a zip.
func (us *userService) ExportRides(ctx context.Context, userID uuid.UUID, days int) ([]byte, error) {
	if days <= 0 {
		days = defaultExportDays
	}
	if days > maxExportDays {
		return nil, utils.ErrBadRequest(fmt.Sprintf("Export is limited to the last %d days", maxExportDays))
	}

	end := us.now()
	start := end.AddDate(0, 0, -days)

	var files []export.File
	for i, window := range utils.SplitDateRanges(start, end, exportChunkDays) {
		rides, err := us.repo.Ride.FindByUserInRange(ctx, userID, window.Start, window.End)
		if err != nil {
			return nil, utils.ErrInternal("Failed to load rides", err)
		}
		if len(rides) == 0 {
			continue
		}

		title := fmt.Sprintf("Rides %s to %s", window.Start.Format("2006-01-02"), window.End.Format("2006-01-02"))
		var buf bytes.Buffer
		if err := export.RidesPDF(&buf, title, rideRows(rides)); err != nil {
			return nil, utils.ErrInternal("Failed to render ride export", err)
		}
		files = append(files, export.File{
			Name: fmt.Sprintf("user_%s_rides_%d.pdf", userID.String(), i+1),
			Data: buf.Bytes(),
		})
	}

	if len(files) == 0 {
		return nil, utils.ErrNotFound("No rides found for this user in the given range")
	}

	var archive bytes.Buffer
	if err := export.Zip(&archive, files); err != nil {
		return nil, utils.ErrInternal("Failed to build export archive", err)
	}

	us.log.Info("Rides exported",
		zap.String("user_id", userID.String()),
		zap.Int("days", days),
		zap.Int("files", len(files)))

	return archive.Bytes(), nil
}

// ==================== ADMIN METHODS ====================

func (us *userService) ListUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		return nil, utils.ErrInternal("Failed to count users", err)
	}
	if total == 0 {
		return nil, utils.ErrBadRequest("Currently there are no users")
	}

	users, err := us.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.ErrInternal("Failed to list users", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	return response.NewPaginatedResponse(response.UsersToResponse(users), page, req.Limit(), total), nil
}

func (us *userService) PendingVerifications(ctx context.Context) ([]response.ProfileResponse, error) {
	users, err := us.repo.User.FindByVerificationStatus(ctx, entity.VerificationPending, entity.RoleDriver)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get pending verifications", err)
	}
	if len(users) == 0 {
		return nil, utils.ErrNotFound("No pending verifications found")
	}

	profiles := make([]response.ProfileResponse, len(users))
	for i, u := range users {
		profiles[i] = response.ProfileToResponse(u)
	}
	return profiles, nil
}

func (us *userService) ApproveVerification(ctx context.Context, adminID, userID uuid.UUID, req *request.ApproveVerificationRequest) (*response.ProfileResponse, error) {
	var notes *string
	if n := strings.TrimSpace(req.Notes); n != "" {
		notes = &n
	}

	user, err := us.setVerification(ctx, adminID, userID, entity.VerificationApproved, notes, "Only active accounts can be verified")
	if err != nil {
		return nil, err
	}

	us.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       user.Email,
		Subject:  fmt.Sprintf("Ride App Verification Approved - Welcome on Board, %s!", user.FullName()),
		Template: "driveraccountapproval.html",
		Data: map[string]any{
			"driverName":   user.FullName(),
			"appName":      appDisplayName,
			"supportEmail": us.config.Email.From,
			"year":         us.now().Year(),
		},
	})

	profile := response.ProfileToResponse(user)
	return &profile, nil
}

func (us *userService) RejectVerification(ctx context.Context, adminID, userID uuid.UUID, req *request.RejectVerificationRequest) (*response.ProfileResponse, error) {
	reason := strings.TrimSpace(req.Reason)

	user, err := us.setVerification(ctx, adminID, userID, entity.VerificationRejected, &reason, "Only active accounts can be rejected")
	if err != nil {
		return nil, err
	}

	us.notifier.Enqueue(notify.Job{
		Channel:  notify.ChannelEmail,
		To:       user.Email,
		Subject:  "Ride App Verification Update",
		Template: "driveraccountreject.html",
		Data: map[string]any{
			"username":        user.FullName(),
			"driverName":      user.FullName(),
			"appname":         appDisplayName,
			"rejectionReason": reason,
			"supportEmail":    us.config.Email.From,
			"year":            us.now().Year(),
		},
	})

	profile := response.ProfileToResponse(user)
	return &profile, nil
}

// ==================== HELPER METHODS ====================

func (us *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get user", err)
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found")
	}
	return user, nil
}

func (us *userService) setVerification(ctx context.Context, adminID, userID uuid.UUID, status entity.VerificationStatus, notes *string, inactiveMsg string) (*entity.User, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, utils.ErrBadRequest(inactiveMsg)
	}
	if !user.IsDriver() {
		return nil, utils.ErrBadRequest("Only driver accounts go through verification")
	}

	if err := us.repo.User.UpdateVerificationStatus(ctx, userID, status, notes, adminID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, utils.ErrNotFound("User not found")
		}
		return nil, utils.ErrInternal("Failed to update verification status", err)
	}

	now := us.now()
	user.VerificationStatus = &status
	user.VerificationNotes = notes
	user.VerifiedBy = &adminID
	user.VerifiedAt = &now

	us.log.Info("Driver verification updated",
		zap.String("user_id", userID.String()),
		zap.String("status", string(status)),
		zap.String("admin_id", adminID.String()))

	return user, nil
}

func rideRows(rides []*entity.Ride) []export.RideRow {
	rows := make([]export.RideRow, len(rides))
	for i, r := range rides {
		rows[i] = export.RideRow{
			RideNumber: r.RideNumber,
			Date:       r.CreatedAt,
			Pickup:     r.PickupAddress,
			Drop:       r.DropAddress,
			DistanceKm: r.DistanceKm,
			Fare:       r.Fare,
			Status:     string(r.Status),
		}
	}
	return rows
}
