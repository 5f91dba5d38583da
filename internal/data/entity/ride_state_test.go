package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionRide(t *testing.T) {
	tests := []struct {
		from  RideStatus
		to    RideStatus
		actor UserRole
		ok    bool
	}{
		{RideRequested, RideAccepted, RoleDriver, true},
		{RideRequested, RideAccepted, RoleRider, false},
		{RideAccepted, RideStarted, RoleDriver, true},
		{RideStarted, RideCompleted, RoleDriver, true},
		{RideRequested, RideCompleted, RoleDriver, false},
		{RideRequested, RideCancelled, RoleRider, true},
		{RideAccepted, RideCancelled, RoleDriver, true},
		{RideStarted, RideCancelled, RoleRider, false},
		{RideStarted, RideCancelled, RoleAdmin, true},
		{RideCompleted, RideCancelled, RoleAdmin, false},
		{RideCancelled, RideAccepted, RoleDriver, false},
	}

	for _, tt := range tests {
		err := CanTransitionRide(tt.from, tt.to, tt.actor)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s as %s", tt.from, tt.to, tt.actor)
		} else {
			assert.Error(t, err, "%s -> %s as %s", tt.from, tt.to, tt.actor)
		}
	}
}

func TestCanTransitionRide_TerminalMessage(t *testing.T) {
	err := CanTransitionRide(RideCompleted, RideStarted, RoleDriver)
	assert.ErrorContains(t, err, "terminal")
}

func TestRideStatus_IsTerminal(t *testing.T) {
	assert.True(t, RideCompleted.IsTerminal())
	assert.True(t, RideCancelled.IsTerminal())
	assert.False(t, RideStarted.IsTerminal())
	assert.Empty(t, NextRideStatuses(RideCompleted))
}

func TestRide_IsParticipant(t *testing.T) {
	rider, driver, other := uuid.New(), uuid.New(), uuid.New()
	ride := &Ride{RiderID: rider}

	assert.True(t, ride.IsParticipant(rider))
	assert.False(t, ride.IsParticipant(driver))

	ride.DriverID = &driver
	assert.True(t, ride.IsParticipant(driver))
	assert.False(t, ride.IsParticipant(other))
}
