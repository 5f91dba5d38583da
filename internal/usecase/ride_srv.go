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
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var rideHistoryStatuses = []entity.RideStatus{entity.RideCompleted, entity.RideCancelled}

type RideService interface {
	// Rider
	CreateRide(ctx context.Context, riderID uuid.UUID, req *request.CreateRideRequest) (*response.RideResponse, error)
	GetOngoingForRider(ctx context.Context, riderID uuid.UUID) (*response.RideResponse, error)
	CancelRide(ctx context.Context, userID uuid.UUID, role entity.UserRole, rideID uuid.UUID, req *request.CancelRideRequest) (*response.RideResponse, error)

	// Shared
	ListRides(ctx context.Context, userID uuid.UUID, role entity.UserRole, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error)
	GetRide(ctx context.Context, userID uuid.UUID, role entity.UserRole, rideID uuid.UUID) (*response.RideResponse, error)

	// Driver
	GetAvailableRides(ctx context.Context, driverID uuid.UUID, req *request.PaginatedRequest) ([]response.RideResponse, error)
	GetOngoingForDriver(ctx context.Context, driverID uuid.UUID) (*response.RideResponse, error)
	GetDriverHistory(ctx context.Context, driverID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error)
	AcceptRide(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error)
	StartRide(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error)
	CompleteRide(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error)

	// Admin
	ListAllRides(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error)
	ForceCancelRide(ctx context.Context, rideID uuid.UUID, req *request.CancelRideRequest) (*response.RideResponse, error)
	DeleteRide(ctx context.Context, rideID uuid.UUID) error
}

type rideService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewRideService(repo *repository.Repository, log *zap.Logger) RideService {
	return &rideService{
		repo: repo,
		log:  log.With(zap.String("service", "ride")),
		now:  time.Now,
	}
}

// ==================== RIDER ====================

func (s *rideService) CreateRide(ctx context.Context, riderID uuid.UUID, req *request.CreateRideRequest) (*response.RideResponse, error) {
	// 1. One ongoing ride per rider
	ongoing, err := s.repo.Ride.FindOngoingByRider(ctx, riderID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to check ongoing rides", err)
	}
	if len(ongoing) > 0 {
		return nil, utils.ErrConflict("You already have an ongoing ride")
	}

	// 2. Price the trip
	distance, fare := estimateFare(req.PickupLat, req.PickupLng, req.DropLat, req.DropLng)
	if distance.IsZero() {
		return nil, utils.ErrBadRequest("Pickup and drop locations must be different")
	}

	// 3. Persist
	now := s.now()
	ride := &entity.Ride{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RideNumber:    utils.GenerateRideNumber(),
		RiderID:       riderID,
		PickupAddress: strings.TrimSpace(req.PickupAddress),
		PickupLat:     req.PickupLat,
		PickupLng:     req.PickupLng,
		DropAddress:   strings.TrimSpace(req.DropAddress),
		DropLat:       req.DropLat,
		DropLng:       req.DropLng,
		DistanceKm:    distance,
		Fare:          fare,
		Status:        entity.RideRequested,
		PaymentStatus: entity.RideUnpaid,
	}

	if err := s.repo.Ride.Create(ctx, ride); err != nil {
		return nil, utils.ErrInternal("Failed to create ride", err)
	}

	s.log.Info("Ride requested",
		zap.String("ride_id", ride.ID.String()),
		zap.String("ride_number", ride.RideNumber),
		zap.String("rider_id", riderID.String()),
		zap.String("fare", fare.StringFixed(2)))

	resp := response.RideToResponse(ride)
	return &resp, nil
}

func (s *rideService) GetOngoingForRider(ctx context.Context, riderID uuid.UUID) (*response.RideResponse, error) {
	rides, err := s.repo.Ride.FindOngoingByRider(ctx, riderID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get ongoing ride", err)
	}
	return firstRide(rides)
}

func (s *rideService) CancelRide(ctx context.Context, userID uuid.UUID, role entity.UserRole, rideID uuid.UUID, req *request.CancelRideRequest) (*response.RideResponse, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	switch role {
	case entity.RoleRider:
		if ride.RiderID != userID {
			return nil, utils.ErrForbidden("You can only cancel your own rides")
		}
	case entity.RoleDriver:
		if ride.DriverID == nil || *ride.DriverID != userID {
			return nil, utils.ErrForbidden("Ride is not assigned to you")
		}
	default:
		return nil, utils.ErrForbidden("Forbidden: Access denied")
	}

	return s.cancel(ctx, ride, role, req)
}

// ==================== SHARED ====================

func (s *rideService) ListRides(ctx context.Context, userID uuid.UUID, role entity.UserRole, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	var (
		rides []*entity.Ride
		total int64
		err   error
	)

	switch role {
	case entity.RoleRider:
		rides, err = s.repo.Ride.FindByRider(ctx, userID, req.Limit(), req.Offset())
		if err == nil {
			total, err = s.repo.Ride.CountByRider(ctx, userID)
		}
	case entity.RoleDriver:
		rides, err = s.repo.Ride.FindByDriver(ctx, userID, nil, req.Limit(), req.Offset())
		if err == nil {
			total, err = s.repo.Ride.CountByDriver(ctx, userID, nil)
		}
	case entity.RoleAdmin:
		return s.ListAllRides(ctx, req)
	default:
		return nil, utils.ErrForbidden("Forbidden: Access denied")
	}
	if err != nil {
		return nil, utils.ErrInternal("Failed to list rides", err)
	}

	return paginatedRides(rides, req, total), nil
}

func (s *rideService) GetRide(ctx context.Context, userID uuid.UUID, role entity.UserRole, rideID uuid.UUID) (*response.RideResponse, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if role != entity.RoleAdmin && !ride.IsParticipant(userID) {
		return nil, utils.ErrForbidden("You are not part of this ride")
	}

	resp := response.RideToResponse(ride)
	return &resp, nil
}

// ==================== DRIVER ====================

func (s *rideService) GetAvailableRides(ctx context.Context, driverID uuid.UUID, req *request.PaginatedRequest) ([]response.RideResponse, error) {
	if _, err := s.approvedDriver(ctx, driverID); err != nil {
		return nil, err
	}

	rides, err := s.repo.Ride.FindByStatus(ctx, entity.RideRequested, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.ErrInternal("Failed to get available rides", err)
	}

	return response.RidesToResponse(rides), nil
}

func (s *rideService) GetOngoingForDriver(ctx context.Context, driverID uuid.UUID) (*response.RideResponse, error) {
	rides, err := s.repo.Ride.FindOngoingByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get ongoing ride", err)
	}
	return firstRide(rides)
}

func (s *rideService) GetDriverHistory(ctx context.Context, driverID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	rides, err := s.repo.Ride.FindByDriver(ctx, driverID, rideHistoryStatuses, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.ErrInternal("Failed to get ride history", err)
	}
	total, err := s.repo.Ride.CountByDriver(ctx, driverID, rideHistoryStatuses)
	if err != nil {
		return nil, utils.ErrInternal("Failed to count ride history", err)
	}

	return paginatedRides(rides, req, total), nil
}

func (s *rideService) AcceptRide(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error) {
	// 1. Driver must be approved and available
	driver, err := s.approvedDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !driver.IsAvailable {
		return nil, utils.ErrBadRequest("Set yourself available before accepting rides")
	}

	// 2. Driver needs an active vehicle
	vehicle, err := s.repo.Vehicle.FindActiveByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get vehicle", err)
	}
	if vehicle == nil {
		return nil, utils.ErrBadRequest("Register an active vehicle before accepting rides")
	}

	// 3. One ongoing ride per driver
	ongoing, err := s.repo.Ride.FindOngoingByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to check ongoing rides", err)
	}
	if len(ongoing) > 0 {
		return nil, utils.ErrConflict("You already have an ongoing ride")
	}

	// 4. Claim the ride
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	err = s.transition(ctx, ride, entity.RideAccepted, entity.RoleDriver, func(r *entity.Ride, now time.Time) {
		r.DriverID = &driverID
		r.VehicleID = &vehicle.ID
		r.AcceptedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.setAvailability(ctx, driverID, false)

	s.log.Info("Ride accepted",
		zap.String("ride_id", ride.ID.String()),
		zap.String("driver_id", driverID.String()))

	resp := response.RideToResponse(ride)
	return &resp, nil
}

func (s *rideService) StartRide(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error) {
	ride, err := s.assignedRide(ctx, driverID, rideID)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, ride, entity.RideStarted, entity.RoleDriver, func(r *entity.Ride, now time.Time) {
		r.StartedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Ride started", zap.String("ride_id", ride.ID.String()))

	resp := response.RideToResponse(ride)
	return &resp, nil
}

func (s *rideService) CompleteRide(ctx context.Context, driverID, rideID uuid.UUID) (*response.RideResponse, error) {
	ride, err := s.assignedRide(ctx, driverID, rideID)
	if err != nil {
		return nil, err
	}

	err = s.transition(ctx, ride, entity.RideCompleted, entity.RoleDriver, func(r *entity.Ride, now time.Time) {
		r.CompletedAt = &now
	})
	if err != nil {
		return nil, err
	}

	s.setAvailability(ctx, driverID, true)

	s.log.Info("Ride completed",
		zap.String("ride_id", ride.ID.String()),
		zap.String("fare", ride.Fare.StringFixed(2)))

	resp := response.RideToResponse(ride)
	return &resp, nil
}

// ==================== ADMIN ====================

func (s *rideService) ListAllRides(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.RideResponse], error) {
	rides, err := s.repo.Ride.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.ErrInternal("Failed to list rides", err)
	}
	total, err := s.repo.Ride.CountAll(ctx)
	if err != nil {
		return nil, utils.ErrInternal("Failed to count rides", err)
	}

	return paginatedRides(rides, req, total), nil
}

func (s *rideService) ForceCancelRide(ctx context.Context, rideID uuid.UUID, req *request.CancelRideRequest) (*response.RideResponse, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, ride, entity.RoleAdmin, req)
}

func (s *rideService) DeleteRide(ctx context.Context, rideID uuid.UUID) error {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return err
	}
	if !ride.Status.IsTerminal() {
		return utils.ErrBadRequest("Only completed or cancelled rides can be deleted")
	}

	if err := s.repo.Ride.Delete(ctx, rideID); err != nil {
		return utils.ErrInternal("Failed to delete ride", err)
	}

	s.log.Info("Ride deleted", zap.String("ride_id", rideID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *rideService) findRide(ctx context.Context, rideID uuid.UUID) (*entity.Ride, error) {
	ride, err := s.repo.Ride.FindByID(ctx, rideID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get ride", err)
	}
	if ride == nil {
		return nil, utils.ErrNotFound("Ride not found")
	}
	return ride, nil
}

func (s *rideService) assignedRide(ctx context.Context, driverID, rideID uuid.UUID) (*entity.Ride, error) {
	ride, err := s.findRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.DriverID == nil || *ride.DriverID != driverID {
		return nil, utils.ErrForbidden("Ride is not assigned to you")
	}
	return ride, nil
}

func (s *rideService) approvedDriver(ctx context.Context, driverID uuid.UUID) (*entity.User, error) {
	driver, err := s.repo.User.FindByID(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get driver", err)
	}
	if driver == nil {
		return nil, utils.ErrNotFound("Driver not found")
	}
	if !driver.IsApprovedDriver() {
		return nil, utils.ErrForbidden("Driver account is not verified yet")
	}
	return driver, nil
}

func (s *rideService) cancel(ctx context.Context, ride *entity.Ride, actor entity.UserRole, req *request.CancelRideRequest) (*response.RideResponse, error) {
	var reason *string
	if req != nil {
		if r := strings.TrimSpace(req.Reason); r != "" {
			reason = &r
		}
	}

	err := s.transition(ctx, ride, entity.RideCancelled, actor, func(r *entity.Ride, now time.Time) {
		r.CancellationReason = reason
		r.CancelledBy = &actor
		r.CancelledAt = &now
	})
	if err != nil {
		return nil, err
	}

	// the assigned driver is free again
	if ride.DriverID != nil {
		s.setAvailability(ctx, *ride.DriverID, true)
	}

	s.log.Info("Ride cancelled",
		zap.String("ride_id", ride.ID.String()),
		zap.String("cancelled_by", string(actor)))

	resp := response.RideToResponse(ride)
	return &resp, nil
}

// transition applies mutate and persists the ride only if nobody moved it meanwhile.
func (s *rideService) transition(ctx context.Context, ride *entity.Ride, to entity.RideStatus, actor entity.UserRole, mutate func(r *entity.Ride, now time.Time)) error {
	if err := entity.CanTransitionRide(ride.Status, to, actor); err != nil {
		return utils.ErrConflict(err.Error())
	}

	expected := ride.Status
	now := s.now()
	ride.Status = to
	ride.UpdatedAt = now
	mutate(ride, now)

	if err := s.repo.Ride.UpdateState(ctx, ride, expected); err != nil {
		if errors.Is(err, repository.ErrRideStateChanged) {
			s.log.Warn("Ride transition lost a race",
				zap.String("ride_id", ride.ID.String()),
				zap.String("to", string(to)))
			return utils.ErrConflict("Ride was updated by another request, please refresh")
		}
		return utils.ErrInternal("Failed to update ride", err)
	}

	return nil
}

func (s *rideService) setAvailability(ctx context.Context, driverID uuid.UUID, available bool) {
	if err := s.repo.User.SetAvailability(ctx, driverID, available); err != nil {
		s.log.Error("Failed to update driver availability",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
			zap.Bool("available", available))
	}
}

func firstRide(rides []*entity.Ride) (*response.RideResponse, error) {
	if len(rides) == 0 {
		return nil, utils.ErrNotFound("No ongoing ride found")
	}
	resp := response.RideToResponse(rides[0])
	return &resp, nil
}

func paginatedRides(rides []*entity.Ride, req *request.PaginatedRequest, total int64) *response.PaginatedResponse[response.RideResponse] {
	page := req.Page
	if page < 1 {
		page = 1
	}
	return response.NewPaginatedResponse(response.RidesToResponse(rides), page, req.Limit(), total)
}
