package entity

import (
	"fmt"
	"strings"
)

type rideTransition struct {
	From  RideStatus
	To    RideStatus
	Actor UserRole
}

var rideTransitions = []rideTransition{
	// Driver takes, starts and finishes the trip
	{From: RideRequested, To: RideAccepted, Actor: RoleDriver},
	{From: RideAccepted, To: RideStarted, Actor: RoleDriver},
	{From: RideStarted, To: RideCompleted, Actor: RoleDriver},

	// Either side may back out before the trip starts
	{From: RideRequested, To: RideCancelled, Actor: RoleRider},
	{From: RideAccepted, To: RideCancelled, Actor: RoleRider},
	{From: RideAccepted, To: RideCancelled, Actor: RoleDriver},

	// Admin force-cancel
	{From: RideRequested, To: RideCancelled, Actor: RoleAdmin},
	{From: RideAccepted, To: RideCancelled, Actor: RoleAdmin},
	{From: RideStarted, To: RideCancelled, Actor: RoleAdmin},
}

var rideTransitionSet = func() map[rideTransition]bool {
	m := make(map[rideTransition]bool, len(rideTransitions))
	for _, t := range rideTransitions {
		m[t] = true
	}
	return m
}()

// NextRideStatuses lists the states reachable from status by any actor.
func NextRideStatuses(status RideStatus) []RideStatus {
	var next []RideStatus
	seen := map[RideStatus]bool{}
	for _, t := range rideTransitions {
		if t.From == status && !seen[t.To] {
			next = append(next, t.To)
			seen[t.To] = true
		}
	}
	return next
}

// CanTransitionRide returns an error describing why actor may not move a ride
// from one status to another.
func CanTransitionRide(from, to RideStatus, actor UserRole) error {
	if rideTransitionSet[rideTransition{From: from, To: to, Actor: actor}] {
		return nil
	}

	next := NextRideStatuses(from)
	allowed := "none (terminal state)"
	if len(next) > 0 {
		parts := make([]string, len(next))
		for i, s := range next {
			parts[i] = string(s)
		}
		allowed = strings.Join(parts, ", ")
	}

	return fmt.Errorf("ride cannot move from %s to %s as %s; allowed next: %s", from, to, actor, allowed)
}
