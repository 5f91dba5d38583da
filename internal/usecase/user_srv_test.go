package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	svc := f.service().User
	ctx := context.Background()

	rider := f.addUser(entity.RoleRider)
	other := f.addUser(entity.RoleRider)
	driver := f.addUser(entity.RoleDriver)

	_, err := svc.UpdateProfile(ctx, rider.ID, entity.RoleAdmin, &request.UpdateProfileRequest{}, nil)
	assertAppError(t, err, http.StatusForbidden, "Only riders and drivers can update profile")

	_, err = svc.UpdateProfile(ctx, rider.ID, entity.RoleRider, &request.UpdateProfileRequest{Phone: ptr(other.Phone)}, nil)
	assertAppError(t, err, http.StatusConflict, "Phone already registered")

	profile, err := svc.UpdateProfile(ctx, rider.ID, entity.RoleRider,
		&request.UpdateProfileRequest{Firstname: ptr(" Meera ")},
		&request.Uploads{Avatar: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "Meera", profile.Firstname)
	require.NotNil(t, profile.ProfileImageURL)
	assert.Equal(t, "Meera", f.users.get(rider.ID).Firstname)

	// riders cannot attach driver documents
	profile, err = svc.UpdateProfile(ctx, rider.ID, entity.RoleRider,
		&request.UpdateProfileRequest{LicenseNumber: ptr("DL-1")}, nil)
	require.NoError(t, err)
	assert.Nil(t, f.users.get(rider.ID).LicenseNumber)
	assert.Nil(t, profile.KYC)

	_, err = svc.UpdateProfile(ctx, driver.ID, entity.RoleDriver,
		&request.UpdateProfileRequest{LicenseExpiryDate: ptr("31/01/2030")}, nil)
	assertAppError(t, err, http.StatusUnprocessableEntity, "License expiry date must be in YYYY-MM-DD format")

	_, err = svc.UpdateProfile(ctx, driver.ID, entity.RoleDriver,
		&request.UpdateProfileRequest{}, &request.Uploads{License: []byte("plain text")})
	assertAppError(t, err, http.StatusUnprocessableEntity, "Driver must upload a valid license photo")

	profile, err = svc.UpdateProfile(ctx, driver.ID, entity.RoleDriver,
		&request.UpdateProfileRequest{LicenseNumber: ptr("DL-2"), LicenseExpiryDate: ptr("2031-05-01")},
		&request.Uploads{License: pngBytes})
	require.NoError(t, err)
	require.NotNil(t, profile.LicenseNumber)
	assert.Equal(t, "DL-2", *profile.LicenseNumber)
	require.NotNil(t, profile.KYC)
	assert.Equal(t, "approved", profile.KYC.LicenseStatus)
}

func TestSetAvailability(t *testing.T) {
	f := newFixture(t)
	svc := f.service().User
	ctx := context.Background()

	rider := f.addUser(entity.RoleRider)
	driver := f.addUser(entity.RoleDriver)
	pending := f.addUser(entity.RoleDriver, func(u *entity.User) {
		u.VerificationStatus = ptr(entity.VerificationPending)
		u.IsAvailable = false
	})

	_, err := svc.SetAvailability(ctx, rider.ID, true)
	assertAppError(t, err, http.StatusForbidden, "Only drivers can change availability")

	_, err = svc.SetAvailability(ctx, pending.ID, true)
	assertAppError(t, err, http.StatusForbidden, "")

	_, err = svc.SetAvailability(ctx, pending.ID, false)
	require.NoError(t, err)

	out, err := svc.SetAvailability(ctx, driver.ID, false)
	require.NoError(t, err)
	assert.False(t, out.IsAvailable)
	assert.False(t, f.users.get(driver.ID).IsAvailable)
}

func TestLocationAndNearbyDrivers(t *testing.T) {
	f := newFixture(t)
	svc := f.service().User
	ctx := context.Background()

	near := f.addUser(entity.RoleDriver)
	far := f.addUser(entity.RoleDriver)
	busy := f.addUser(entity.RoleDriver, func(u *entity.User) { u.IsAvailable = false })
	unverified := f.addUser(entity.RoleDriver, func(u *entity.User) {
		u.VerificationStatus = ptr(entity.VerificationPending)
	})
	rider := f.addUser(entity.RoleRider)

	_, err := svc.UpdateLocation(ctx, near.ID, &request.LocationRequest{Longitude: ptr(77.5946)})
	assertAppError(t, err, http.StatusBadRequest, "Missing the user coordinates")

	_, err = svc.UpdateLocation(ctx, near.ID, &request.LocationRequest{Longitude: ptr(77.5), Latitude: ptr(89.0)})
	assertAppError(t, err, http.StatusBadRequest, "Coordinates out of range")

	loc, err := svc.UpdateLocation(ctx, near.ID, &request.LocationRequest{Longitude: ptr(77.5950), Latitude: ptr(12.9720)})
	require.NoError(t, err)
	assert.True(t, loc.Added)
	loc, err = svc.UpdateLocation(ctx, near.ID, &request.LocationRequest{Longitude: ptr(77.5951), Latitude: ptr(12.9721)})
	require.NoError(t, err)
	assert.False(t, loc.Added)

	for id, pos := range map[uuid.UUID][2]float64{
		far.ID:        {77.6400, 12.9900},
		busy.ID:       {77.5947, 12.9717},
		unverified.ID: {77.5948, 12.9718},
		rider.ID:      {77.5946, 12.9716},
	} {
		_, err := svc.UpdateLocation(ctx, id, &request.LocationRequest{Longitude: ptr(pos[0]), Latitude: ptr(pos[1])})
		require.NoError(t, err)
	}

	drivers, err := svc.NearbyDrivers(ctx, &request.NearbyDriversRequest{Longitude: 77.5946, Latitude: 12.9716, RadiusKm: 10})
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, near.ID.String(), drivers[0].UserID)
	assert.Equal(t, far.ID.String(), drivers[1].UserID)
	assert.Less(t, drivers[0].DistanceKm, drivers[1].DistanceKm)

	drivers, err = svc.NearbyDrivers(ctx, &request.NearbyDriversRequest{Longitude: 77.5946, Latitude: 12.9716, RadiusKm: 1})
	require.NoError(t, err)
	require.Len(t, drivers, 1)

	// deactivation drops the stored position
	require.NoError(t, svc.Deactivate(ctx, near.ID))
	assert.Equal(t, entity.AccountInactive, f.users.get(near.ID).AccountStatus)
	drivers, err = svc.NearbyDrivers(ctx, &request.NearbyDriversRequest{Longitude: 77.5946, Latitude: 12.9716, RadiusKm: 1})
	require.NoError(t, err)
	assert.Empty(t, drivers)

	err = svc.Deactivate(ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound, "User not found or could not be deactivated")
}

func TestDriverVerification(t *testing.T) {
	f := newFixture(t)
	svc := f.service().User
	ctx := context.Background()
	admin := f.addUser(entity.RoleAdmin)
	rider := f.addUser(entity.RoleRider)

	_, err := svc.PendingVerifications(ctx)
	assertAppError(t, err, http.StatusNotFound, "No pending verifications found")

	pendingDriver := func(mutate ...func(*entity.User)) *entity.User {
		return f.addUser(entity.RoleDriver, append([]func(*entity.User){func(u *entity.User) {
			u.VerificationStatus = ptr(entity.VerificationPending)
			u.IsAvailable = false
		}}, mutate...)...)
	}
	approveMe := pendingDriver()
	rejectMe := pendingDriver()
	inactive := pendingDriver(func(u *entity.User) { u.AccountStatus = entity.AccountInactive })

	pending, err := svc.PendingVerifications(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	_, err = svc.ApproveVerification(ctx, admin.ID, rider.ID, &request.ApproveVerificationRequest{})
	assertAppError(t, err, http.StatusBadRequest, "Only driver accounts go through verification")

	_, err = svc.ApproveVerification(ctx, admin.ID, inactive.ID, &request.ApproveVerificationRequest{})
	assertAppError(t, err, http.StatusBadRequest, "Only active accounts can be verified")

	_, err = svc.RejectVerification(ctx, admin.ID, inactive.ID, &request.RejectVerificationRequest{Reason: "blurry"})
	assertAppError(t, err, http.StatusBadRequest, "Only active accounts can be rejected")

	_, err = svc.ApproveVerification(ctx, admin.ID, uuid.New(), &request.ApproveVerificationRequest{})
	assertAppError(t, err, http.StatusNotFound, "User not found")

	approved, err := svc.ApproveVerification(ctx, admin.ID, approveMe.ID, &request.ApproveVerificationRequest{Notes: "docs ok"})
	require.NoError(t, err)
	require.NotNil(t, approved.KYC)
	assert.Equal(t, "approved", approved.KYC.OverallStatus)
	assert.Equal(t, "docs ok", approved.KYC.Notes)
	assert.True(t, f.users.get(approveMe.ID).IsApprovedDriver())

	mail := f.notifier.byTemplate("driveraccountapproval.html")
	require.NotNil(t, mail)
	assert.Equal(t, approveMe.Email, mail.To)
	assert.Equal(t, "support@rideapp.test", mail.Data["supportEmail"])

	_, err = svc.RejectVerification(ctx, admin.ID, rejectMe.ID, &request.RejectVerificationRequest{Reason: " blurry licence "})
	require.NoError(t, err)
	stored := f.users.get(rejectMe.ID)
	require.NotNil(t, stored.VerificationStatus)
	assert.Equal(t, entity.VerificationRejected, *stored.VerificationStatus)

	mail = f.notifier.byTemplate("driveraccountreject.html")
	require.NotNil(t, mail)
	assert.Equal(t, "blurry licence", mail.Data["rejectionReason"])
}

func TestExportRides(t *testing.T) {
	f := newFixture(t)
	svc := f.service().User.(*userService)
	ctx := context.Background()

	fixed := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	rider := f.addUser(entity.RoleRider)

	_, err := svc.ExportRides(ctx, rider.ID, 91)
	assertAppError(t, err, http.StatusBadRequest, "")

	_, err = svc.ExportRides(ctx, rider.ID, 0)
	assertAppError(t, err, http.StatusNotFound, "No rides found for this user in the given range")

	for i, ago := range []time.Duration{time.Hour, 10 * 24 * time.Hour, 30 * 24 * time.Hour} {
		created := fixed.Add(-ago)
		require.NoError(t, f.rides.Create(ctx, &entity.Ride{
			Base:          entity.Base{ID: uuid.New(), CreatedAt: created, UpdatedAt: created},
			RideNumber:    "RIDE-" + string(rune('A'+i)),
			RiderID:       rider.ID,
			PickupAddress: "MG Road",
			DropAddress:   "Indiranagar",
			DistanceKm:    decimal.NewFromFloat(4.2),
			Fare:          decimal.NewFromFloat(80.4),
			Status:        entity.RideCompleted,
		}))
	}

	// default window is 14 days: two weekly chunks, one ride each
	data, err := svc.ExportRides(ctx, rider.ID, 0)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	for _, file := range zr.File {
		assert.Contains(t, file.Name, rider.ID.String())
		assert.Contains(t, file.Name, ".pdf")
	}

	data, err = svc.ExportRides(ctx, rider.ID, 35)
	require.NoError(t, err)
	zr, err = zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Len(t, zr.File, 3)
}

func TestListUsers(t *testing.T) {
	f := newFixture(t)
	svc := f.service().User
	ctx := context.Background()

	_, err := svc.ListUsers(ctx, &request.PaginatedRequest{Page: 1, PerPage: 10})
	assertAppError(t, err, http.StatusBadRequest, "Currently there are no users")

	for i := 0; i < 3; i++ {
		f.addUser(entity.RoleRider)
	}

	out, err := svc.ListUsers(ctx, &request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, out.Data, 2)
	assert.EqualValues(t, 3, out.Pagination.Total)
	assert.Equal(t, 2, out.Pagination.TotalPages)

	_, err = svc.GetProfile(ctx, uuid.New())
	assertAppError(t, err, http.StatusNotFound, "User not found")
}
