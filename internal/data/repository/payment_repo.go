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

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByGatewayOrderID(ctx context.Context, orderID string) (*entity.Payment, error)
	FindSuccessfulByRide(ctx context.Context, rideID uuid.UUID) (*entity.Payment, error)

	// Business queries
	UpdateStatus(ctx context.Context, payment *entity.Payment) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `
	id, wallet_id, ride_id, rider_id, driver_id, amount, payment_method, status,
	gateway_order_id, gateway_payment_id, transaction_meta_data, created_at, updated_at`

func scanPayment(row rowScanner) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(
		&p.ID,
		&p.WalletID,
		&p.RideID,
		&p.RiderID,
		&p.DriverID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.GatewayOrderID,
		&p.GatewayPaymentID,
		&p.Metadata,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, wallet_id, ride_id, rider_id, driver_id, amount, payment_method,
		                      status, gateway_order_id, gateway_payment_id, transaction_meta_data,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.WalletID,
		payment.RideID,
		payment.RiderID,
		payment.DriverID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.GatewayOrderID,
		payment.GatewayPaymentID,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("ride_id", payment.RideID.String()),
			zap.String("method", string(payment.Method)),
		)
		return fmt.Errorf("create payment for ride %s: %w", payment.RideID.String(), err)
	}

	return nil
}

func (r *paymentRepository) findOne(ctx context.Context, where string, arg any) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE ` + where

	p, err := scanPayment(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	p, err := r.findOne(ctx, "id = $1", id)
	if err != nil {
		r.log.Error("Failed to find payment by ID", zap.Error(err), zap.String("payment_id", id.String()))
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}
	return p, nil
}

func (r *paymentRepository) FindByGatewayOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	p, err := r.findOne(ctx, "gateway_order_id = $1", orderID)
	if err != nil {
		r.log.Error("Failed to find payment by order", zap.Error(err), zap.String("order_id", orderID))
		return nil, fmt.Errorf("find payment by order %s: %w", orderID, err)
	}
	return p, nil
}

func (r *paymentRepository) FindSuccessfulByRide(ctx context.Context, rideID uuid.UUID) (*entity.Payment, error) {
	p, err := r.findOne(ctx, "ride_id = $1 AND status = 'SUCCESS' LIMIT 1", rideID)
	if err != nil {
		r.log.Error("Failed to find payment by ride", zap.Error(err), zap.String("ride_id", rideID.String()))
		return nil, fmt.Errorf("find payment by ride %s: %w", rideID.String(), err)
	}
	return p, nil
}

// UpdateStatus only moves a PENDING payment, so a verified order cannot be settled twice.
func (r *paymentRepository) UpdateStatus(ctx context.Context, payment *entity.Payment) error {
	query := `
		UPDATE payments
		SET status = $2, gateway_payment_id = $3, transaction_meta_data = $4, updated_at = $5
		WHERE id = $1 AND status = 'PENDING'
	`

	result, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.Status,
		payment.GatewayPaymentID,
		payment.Metadata,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("payment_id", payment.ID.String()),
			zap.String("status", string(payment.Status)),
		)
		return fmt.Errorf("update payment %s status: %w", payment.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrPaymentSettled
	}

	return nil
}

var ErrPaymentSettled = errors.New("payment already settled")
