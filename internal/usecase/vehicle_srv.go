package usecase

import (
	"context"
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

type VehicleService interface {
	Register(ctx context.Context, driverID uuid.UUID, req *request.RegisterVehicleRequest) (*response.VehicleResponse, error)
	Update(ctx context.Context, driverID, vehicleID uuid.UUID, req *request.UpdateVehicleRequest) (*response.VehicleResponse, error)
	Deactivate(ctx context.Context, driverID, vehicleID uuid.UUID) error
	ListByDriver(ctx context.Context, requesterID uuid.UUID, role entity.UserRole, driverID uuid.UUID) ([]response.VehicleResponse, error)
}

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	log         *zap.Logger
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, log *zap.Logger) VehicleService {
	return &vehicleService{
		vehicleRepo: vehicleRepo,
		log:         log.With(zap.String("service", "vehicle")),
	}
}

func (s *vehicleService) Register(ctx context.Context, driverID uuid.UUID, req *request.RegisterVehicleRequest) (*response.VehicleResponse, error) {
	plate := normalizePlate(req.PlateNumber)
	if err := s.ensurePlateFree(ctx, plate, uuid.Nil); err != nil {
		return nil, err
	}

	now := time.Now()
	vehicle := &entity.Vehicle{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID:    driverID,
		Make:        strings.TrimSpace(req.Make),
		Model:       strings.TrimSpace(req.Model),
		Color:       strings.TrimSpace(req.Color),
		PlateNumber: plate,
		VehicleType: entity.VehicleType(req.VehicleType),
		Seats:       req.Seats,
		IsActive:    true,
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrConflict("Vehicle with this plate number already exists")
		}
		return nil, utils.ErrInternal("Failed to register vehicle", err)
	}

	s.log.Info("Vehicle registered",
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("driver_id", driverID.String()),
		zap.String("plate", plate))

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) Update(ctx context.Context, driverID, vehicleID uuid.UUID, req *request.UpdateVehicleRequest) (*response.VehicleResponse, error) {
	vehicle, err := s.ownedVehicle(ctx, driverID, vehicleID)
	if err != nil {
		return nil, err
	}

	if req.Make != nil {
		vehicle.Make = strings.TrimSpace(*req.Make)
	}
	if req.Model != nil {
		vehicle.Model = strings.TrimSpace(*req.Model)
	}
	if req.Color != nil {
		vehicle.Color = strings.TrimSpace(*req.Color)
	}
	if req.PlateNumber != nil {
		plate := normalizePlate(*req.PlateNumber)
		if plate != vehicle.PlateNumber {
			if err := s.ensurePlateFree(ctx, plate, vehicle.ID); err != nil {
				return nil, err
			}
			vehicle.PlateNumber = plate
		}
	}
	if req.VehicleType != nil {
		vehicle.VehicleType = entity.VehicleType(*req.VehicleType)
	}
	if req.Seats != nil {
		vehicle.Seats = *req.Seats
	}
	vehicle.UpdatedAt = time.Now()

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, utils.ErrConflict("Vehicle with this plate number already exists")
		}
		return nil, utils.ErrInternal("Failed to update vehicle", err)
	}

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) Deactivate(ctx context.Context, driverID, vehicleID uuid.UUID) error {
	vehicle, err := s.ownedVehicle(ctx, driverID, vehicleID)
	if err != nil {
		return err
	}
	if !vehicle.IsActive {
		return nil
	}

	if err := s.vehicleRepo.Deactivate(ctx, vehicle.ID); err != nil {
		return utils.ErrInternal("Failed to remove vehicle", err)
	}

	s.log.Info("Vehicle deactivated", zap.String("vehicle_id", vehicle.ID.String()))
	return nil
}

func (s *vehicleService) ListByDriver(ctx context.Context, requesterID uuid.UUID, role entity.UserRole, driverID uuid.UUID) ([]response.VehicleResponse, error) {
	if role != entity.RoleAdmin && requesterID != driverID {
		return nil, utils.ErrForbidden("Forbidden: Access denied")
	}

	vehicles, err := s.vehicleRepo.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get vehicles", err)
	}

	return response.VehiclesToResponse(vehicles), nil
}

func (s *vehicleService) ownedVehicle(ctx context.Context, driverID, vehicleID uuid.UUID) (*entity.Vehicle, error) {
	vehicle, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get vehicle", err)
	}
	if vehicle == nil {
		return nil, utils.ErrNotFound("Vehicle not found")
	}
	if vehicle.DriverID != driverID {
		return nil, utils.ErrForbidden("You can only manage your own vehicles")
	}
	return vehicle, nil
}

// ensurePlateFree allows the plate when it is unused or belongs to self.
func (s *vehicleService) ensurePlateFree(ctx context.Context, plate string, self uuid.UUID) error {
	existing, err := s.vehicleRepo.FindByPlate(ctx, plate)
	if err != nil {
		return utils.ErrInternal("Failed to check plate number", err)
	}
	if existing != nil && existing.ID != self {
		return utils.ErrConflict("Vehicle with this plate number already exists")
	}
	return nil
}

// normalizePlate uppercases and drops spaces and dashes, so "ka 01-ab 1234" == "KA01AB1234".
func normalizePlate(plate string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(plate)))
}
