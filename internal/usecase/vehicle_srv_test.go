package usecase

import (
	"context"
	"net/http"
	"testing"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vehicleRequest(plate string) *request.RegisterVehicleRequest {
	return &request.RegisterVehicleRequest{
		Make:        "Hyundai",
		Model:       "i20",
		Color:       "Grey",
		PlateNumber: plate,
		VehicleType: "car",
		Seats:       4,
	}
}

func TestNormalizePlate(t *testing.T) {
	assert.Equal(t, "KA01AB1234", normalizePlate(" ka 01-ab 1234 "))
	assert.Equal(t, "MH12", normalizePlate("MH-12"))
}

func TestVehicleRegister(t *testing.T) {
	f := newFixture(t)
	svc := f.service().Vehicle
	ctx := context.Background()
	driver := f.addUser(entity.RoleDriver)
	other := f.addUser(entity.RoleDriver)

	v, err := svc.Register(ctx, driver.ID, vehicleRequest("ka-01 ab 1234"))
	require.NoError(t, err)
	assert.Equal(t, "KA01AB1234", v.PlateNumber)
	assert.True(t, v.IsActive)

	_, err = svc.Register(ctx, other.ID, vehicleRequest("KA01AB1234"))
	assertAppError(t, err, http.StatusConflict, "Vehicle with this plate number already exists")
}

func TestVehicleOwnership(t *testing.T) {
	f := newFixture(t)
	svc := f.service().Vehicle
	ctx := context.Background()
	driver := f.addUser(entity.RoleDriver)
	other := f.addUser(entity.RoleDriver)

	v, err := svc.Register(ctx, driver.ID, vehicleRequest("KA01AB1234"))
	require.NoError(t, err)
	vehicleID := uuid.MustParse(v.ID)

	color := "Red"
	_, err = svc.Update(ctx, other.ID, vehicleID, &request.UpdateVehicleRequest{Color: &color})
	assertAppError(t, err, http.StatusForbidden, "You can only manage your own vehicles")

	err = svc.Deactivate(ctx, other.ID, vehicleID)
	assertAppError(t, err, http.StatusForbidden, "You can only manage your own vehicles")

	_, err = svc.Update(ctx, driver.ID, uuid.New(), &request.UpdateVehicleRequest{Color: &color})
	assertAppError(t, err, http.StatusNotFound, "Vehicle not found")

	updated, err := svc.Update(ctx, driver.ID, vehicleID, &request.UpdateVehicleRequest{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Red", updated.Color)

	_, err = svc.ListByDriver(ctx, other.ID, entity.RoleDriver, driver.ID)
	assertAppError(t, err, http.StatusForbidden, "Forbidden: Access denied")

	require.NoError(t, svc.Deactivate(ctx, driver.ID, vehicleID))

	list, err := svc.ListByDriver(ctx, uuid.New(), entity.RoleAdmin, driver.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)
}

func TestVehicleUpdate_PlateConflict(t *testing.T) {
	f := newFixture(t)
	svc := f.service().Vehicle
	ctx := context.Background()
	driver := f.addUser(entity.RoleDriver)

	_, err := svc.Register(ctx, driver.ID, vehicleRequest("KA01AB1234"))
	require.NoError(t, err)
	second, err := svc.Register(ctx, driver.ID, vehicleRequest("KA05XY9999"))
	require.NoError(t, err)

	plate := "ka01ab1234"
	_, err = svc.Update(ctx, driver.ID, uuid.MustParse(second.ID), &request.UpdateVehicleRequest{PlateNumber: &plate})
	assertAppError(t, err, http.StatusConflict, "Vehicle with this plate number already exists")

	// keeping its own plate is fine
	same := "KA05-XY-9999"
	_, err = svc.Update(ctx, driver.ID, uuid.MustParse(second.ID), &request.UpdateVehicleRequest{PlateNumber: &same})
	require.NoError(t, err)
}
