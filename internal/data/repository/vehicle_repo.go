package repository

import (
	"context"
	"errors"
	"fmt"

	"ride-hailing/internal/data/entity"
	"ride-hailing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID) ([]*entity.Vehicle, error)
	FindActiveByDriver(ctx context.Context, driverID uuid.UUID) (*entity.Vehicle, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type vehicleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewVehicleRepository(db database.PgxIface, log *zap.Logger) VehicleRepository {
	return &vehicleRepository{
		db:  db,
		log: log.With(zap.String("repository", "vehicle")),
	}
}

const vehicleColumns = `
	id, driver_id, make, model, color, plate_number, vehicle_type, seats, is_active,
	created_at, updated_at`

func scanVehicle(row rowScanner) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := row.Scan(
		&v.ID,
		&v.DriverID,
		&v.Make,
		&v.Model,
		&v.Color,
		&v.PlateNumber,
		&v.VehicleType,
		&v.Seats,
		&v.IsActive,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, driver_id, make, model, color, plate_number, vehicle_type,
		                      seats, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.DriverID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Color,
		vehicle.PlateNumber,
		vehicle.VehicleType,
		vehicle.Seats,
		vehicle.IsActive,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create vehicle",
			zap.Error(err),
			zap.String("driver_id", vehicle.DriverID.String()),
			zap.String("plate", vehicle.PlateNumber),
		)
		return fmt.Errorf("create vehicle %s: %w", vehicle.PlateNumber, err)
	}

	return nil
}

func (r *vehicleRepository) findOne(ctx context.Context, where string, arg any) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE ` + where

	v, err := scanVehicle(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	v, err := r.findOne(ctx, "id = $1", id)
	if err != nil {
		r.log.Error("Failed to find vehicle by ID", zap.Error(err), zap.String("vehicle_id", id.String()))
		return nil, fmt.Errorf("find vehicle by ID %s: %w", id.String(), err)
	}
	return v, nil
}

func (r *vehicleRepository) FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error) {
	v, err := r.findOne(ctx, "plate_number = $1", plate)
	if err != nil {
		r.log.Error("Failed to find vehicle by plate", zap.Error(err), zap.String("plate", plate))
		return nil, fmt.Errorf("find vehicle by plate %s: %w", plate, err)
	}
	return v, nil
}

func (r *vehicleRepository) FindActiveByDriver(ctx context.Context, driverID uuid.UUID) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE driver_id = $1 AND is_active = true
		ORDER BY created_at DESC
		LIMIT 1`

	v, err := scanVehicle(r.db.QueryRow(ctx, query, driverID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active vehicle", zap.Error(err), zap.String("driver_id", driverID.String()))
		return nil, fmt.Errorf("find active vehicle for %s: %w", driverID.String(), err)
	}
	return v, nil
}

func (r *vehicleRepository) FindByDriver(ctx context.Context, driverID uuid.UUID) ([]*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE driver_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, driverID)
	if err != nil {
		r.log.Error("Failed to list vehicles", zap.Error(err), zap.String("driver_id", driverID.String()))
		return nil, fmt.Errorf("list vehicles for %s: %w", driverID.String(), err)
	}
	defer rows.Close()

	var vehicles []*entity.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicle rows: %w", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		UPDATE vehicles
		SET make = $2, model = $3, color = $4, plate_number = $5, vehicle_type = $6,
		    seats = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Color,
		vehicle.PlateNumber,
		vehicle.VehicleType,
		vehicle.Seats,
		vehicle.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update vehicle", zap.Error(err), zap.String("vehicle_id", vehicle.ID.String()))
		return fmt.Errorf("update vehicle %s: %w", vehicle.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found", vehicle.ID.String())
	}

	return nil
}

func (r *vehicleRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE vehicles SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to deactivate vehicle", zap.Error(err), zap.String("vehicle_id", id.String()))
		return fmt.Errorf("deactivate vehicle %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found", id.String())
	}

	return nil
}
