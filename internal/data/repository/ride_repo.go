package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RideRepository interface {
	Create(ctx context.Context, ride *entity.Ride) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error)
	FindByRider(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*entity.Ride, error)
	CountByRider(ctx context.Context, riderID uuid.UUID) (int64, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID, statuses []entity.RideStatus, limit, offset int) ([]*entity.Ride, error)
	CountByDriver(ctx context.Context, driverID uuid.UUID, statuses []entity.RideStatus) (int64, error)
	FindOngoingByRider(ctx context.Context, riderID uuid.UUID) ([]*entity.Ride, error)
	FindOngoingByDriver(ctx context.Context, driverID uuid.UUID) ([]*entity.Ride, error)
	FindByStatus(ctx context.Context, status entity.RideStatus, limit, offset int) ([]*entity.Ride, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Ride, error)
	CountAll(ctx context.Context) (int64, error)
	FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Ride, error)

	// UpdateState persists the lifecycle columns only if the stored status still equals expected.
	UpdateState(ctx context.Context, ride *entity.Ride, expected entity.RideStatus) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.RidePaymentStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrRideStateChanged means another request moved the ride first.
var ErrRideStateChanged = errors.New("ride state changed concurrently")

var ongoingStatuses = []entity.RideStatus{entity.RideRequested, entity.RideAccepted, entity.RideStarted}

type rideRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRideRepository(db database.PgxIface, log *zap.Logger) RideRepository {
	return &rideRepository{
		db:  db,
		log: log.With(zap.String("repository", "ride")),
	}
}

const rideColumns = `
	id, ride_number, rider_id, driver_id, vehicle_id,
	pickup_address, pickup_lat, pickup_lng, drop_address, drop_lat, drop_lng,
	distance_km, fare, status, payment_status, cancellation_reason, cancelled_by,
	accepted_at, started_at, completed_at, cancelled_at,
	created_at, updated_at, deleted_at`

func scanRide(row rowScanner) (*entity.Ride, error) {
	var ride entity.Ride
	err := row.Scan(
		&ride.ID,
		&ride.RideNumber,
		&ride.RiderID,
		&ride.DriverID,
		&ride.VehicleID,
		&ride.PickupAddress,
		&ride.PickupLat,
		&ride.PickupLng,
		&ride.DropAddress,
		&ride.DropLat,
		&ride.DropLng,
		&ride.DistanceKm,
		&ride.Fare,
		&ride.Status,
		&ride.PaymentStatus,
		&ride.CancellationReason,
		&ride.CancelledBy,
		&ride.AcceptedAt,
		&ride.StartedAt,
		&ride.CompletedAt,
		&ride.CancelledAt,
		&ride.CreatedAt,
		&ride.UpdatedAt,
		&ride.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

func (r *rideRepository) Create(ctx context.Context, ride *entity.Ride) error {
	query := `
		INSERT INTO rides (id, ride_number, rider_id, pickup_address, pickup_lat, pickup_lng,
		                   drop_address, drop_lat, drop_lng, distance_km, fare, status,
		                   payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		ride.ID,
		ride.RideNumber,
		ride.RiderID,
		ride.PickupAddress,
		ride.PickupLat,
		ride.PickupLng,
		ride.DropAddress,
		ride.DropLat,
		ride.DropLng,
		ride.DistanceKm,
		ride.Fare,
		ride.Status,
		ride.PaymentStatus,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create ride",
			zap.Error(err),
			zap.String("rider_id", ride.RiderID.String()),
		)
		return fmt.Errorf("create ride for rider %s: %w", ride.RiderID.String(), err)
	}

	return nil
}

func (r *rideRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 AND deleted_at IS NULL`

	ride, err := scanRide(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ride by ID", zap.Error(err), zap.String("ride_id", id.String()))
		return nil, fmt.Errorf("find ride by ID %s: %w", id.String(), err)
	}

	return ride, nil
}

func (r *rideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*entity.Ride, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*entity.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ride row: %w", err)
		}
		rides = append(rides, ride)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ride rows: %w", err)
	}

	return rides, nil
}

func (r *rideRepository) FindByRider(ctx context.Context, riderID uuid.UUID, limit, offset int) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE rider_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rides, err := r.queryRides(ctx, query, riderID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find rides by rider", zap.Error(err), zap.String("rider_id", riderID.String()))
		return nil, fmt.Errorf("find rides by rider %s: %w", riderID.String(), err)
	}
	return rides, nil
}

func (r *rideRepository) CountByRider(ctx context.Context, riderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM rides WHERE rider_id = $1 AND deleted_at IS NULL`, riderID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rides by rider %s: %w", riderID.String(), err)
	}
	return count, nil
}

// FindByDriver lists the driver's rides; an empty statuses slice means all statuses.
func (r *rideRepository) FindByDriver(ctx context.Context, driverID uuid.UUID, statuses []entity.RideStatus, limit, offset int) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		  AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rides, err := r.queryRides(ctx, query, driverID, statusStrings(statuses), limit, offset)
	if err != nil {
		r.log.Error("Failed to find rides by driver", zap.Error(err), zap.String("driver_id", driverID.String()))
		return nil, fmt.Errorf("find rides by driver %s: %w", driverID.String(), err)
	}
	return rides, nil
}

func (r *rideRepository) CountByDriver(ctx context.Context, driverID uuid.UUID, statuses []entity.RideStatus) (int64, error) {
	query := `
		SELECT COUNT(*) FROM rides
		WHERE driver_id = $1
		  AND (cardinality($2::text[]) = 0 OR status = ANY($2::text[]))
		  AND deleted_at IS NULL`

	var count int64
	if err := r.db.QueryRow(ctx, query, driverID, statusStrings(statuses)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rides by driver %s: %w", driverID.String(), err)
	}
	return count, nil
}

func (r *rideRepository) FindOngoingByRider(ctx context.Context, riderID uuid.UUID) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE rider_id = $1 AND status = ANY($2::text[]) AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rides, err := r.queryRides(ctx, query, riderID, statusStrings(ongoingStatuses))
	if err != nil {
		r.log.Error("Failed to find ongoing rides for rider", zap.Error(err), zap.String("rider_id", riderID.String()))
		return nil, fmt.Errorf("find ongoing rides for rider %s: %w", riderID.String(), err)
	}
	return rides, nil
}

func (r *rideRepository) FindOngoingByDriver(ctx context.Context, driverID uuid.UUID) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE driver_id = $1 AND status = ANY($2::text[]) AND deleted_at IS NULL
		ORDER BY created_at DESC`

	rides, err := r.queryRides(ctx, query, driverID, statusStrings(ongoingStatuses))
	if err != nil {
		r.log.Error("Failed to find ongoing rides for driver", zap.Error(err), zap.String("driver_id", driverID.String()))
		return nil, fmt.Errorf("find ongoing rides for driver %s: %w", driverID.String(), err)
	}
	return rides, nil
}

func (r *rideRepository) FindByStatus(ctx context.Context, status entity.RideStatus, limit, offset int) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`

	rides, err := r.queryRides(ctx, query, status, limit, offset)
	if err != nil {
		r.log.Error("Failed to find rides by status", zap.Error(err), zap.String("status", string(status)))
		return nil, fmt.Errorf("find rides by status %s: %w", status, err)
	}
	return rides, nil
}

func (r *rideRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rides, err := r.queryRides(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all rides", zap.Error(err))
		return nil, fmt.Errorf("find all rides: %w", err)
	}
	return rides, nil
}

func (r *rideRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM rides WHERE deleted_at IS NULL`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count all rides: %w", err)
	}
	return count, nil
}

// FindByUserInRange returns rides the user took part in, as rider or driver,
// created within [start, end).
func (r *rideRepository) FindByUserInRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.Ride, error) {
	query := `SELECT ` + rideColumns + `
		FROM rides
		WHERE (rider_id = $1 OR driver_id = $1)
		  AND created_at >= $2 AND created_at < $3
		  AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rides, err := r.queryRides(ctx, query, userID, start, end)
	if err != nil {
		r.log.Error("Failed to find rides in range",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find rides for %s in range: %w", userID.String(), err)
	}
	return rides, nil
}

func (r *rideRepository) UpdateState(ctx context.Context, ride *entity.Ride, expected entity.RideStatus) error {
	query := `
		UPDATE rides
		SET status = $3, driver_id = $4, vehicle_id = $5,
		    cancellation_reason = $6, cancelled_by = $7,
		    accepted_at = $8, started_at = $9, completed_at = $10, cancelled_at = $11,
		    updated_at = $12
		WHERE id = $1 AND status = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		ride.ID,
		expected,
		ride.Status,
		ride.DriverID,
		ride.VehicleID,
		ride.CancellationReason,
		ride.CancelledBy,
		ride.AcceptedAt,
		ride.StartedAt,
		ride.CompletedAt,
		ride.CancelledAt,
		ride.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update ride state",
			zap.Error(err),
			zap.String("ride_id", ride.ID.String()),
			zap.String("from", string(expected)),
			zap.String("to", string(ride.Status)),
		)
		return fmt.Errorf("update ride %s state: %w", ride.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrRideStateChanged
	}

	return nil
}

func (r *rideRepository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status entity.RidePaymentStatus) error {
	query := `UPDATE rides SET payment_status = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update ride payment status", zap.Error(err), zap.String("ride_id", id.String()))
		return fmt.Errorf("update ride %s payment status: %w", id.String(), err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ride %s not found", id.String())
	}

	return nil
}

func (r *rideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE rides SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete ride", zap.Error(err), zap.String("ride_id", id.String()))
		return fmt.Errorf("delete ride %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ride %s not found", id.String())
	}

	r.log.Info("Ride deleted", zap.String("ride_id", id.String()))
	return nil
}

func statusStrings(statuses []entity.RideStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
