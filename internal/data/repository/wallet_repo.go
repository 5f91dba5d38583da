package repository

import (
	"context"
	"errors"
	"fmt"

	"ride-hailing/internal/data/entity"
	"ride-hailing/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WalletRepository interface {
	Create(ctx context.Context, wallet *entity.Wallet) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Wallet, error)
	FindByDriver(ctx context.Context, driverID uuid.UUID) (*entity.Wallet, error)

	// Credit adds amount to both balances atomically and returns the new state.
	Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.Wallet, error)
	UpdateBalances(ctx context.Context, wallet *entity.Wallet) error
}

type walletRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewWalletRepository(db database.PgxIface, log *zap.Logger) WalletRepository {
	return &walletRepository{
		db:  db,
		log: log.With(zap.String("repository", "wallet")),
	}
}

const walletColumns = `
	id, driver_id, total_balance, actual_balance, a_deduct, is_active, created_at, updated_at`

func scanWallet(row rowScanner) (*entity.Wallet, error) {
	var w entity.Wallet
	err := row.Scan(
		&w.ID,
		&w.DriverID,
		&w.TotalBalance,
		&w.ActualBalance,
		&w.PendingDeduction,
		&w.IsActive,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) Create(ctx context.Context, wallet *entity.Wallet) error {
	query := `
		INSERT INTO wallets (id, driver_id, total_balance, actual_balance, a_deduct, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		wallet.ID,
		wallet.DriverID,
		wallet.TotalBalance,
		wallet.ActualBalance,
		wallet.PendingDeduction,
		wallet.IsActive,
		wallet.CreatedAt,
		wallet.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create wallet", zap.Error(err), zap.String("driver_id", wallet.DriverID.String()))
		return fmt.Errorf("create wallet for driver %s: %w", wallet.DriverID.String(), err)
	}

	return nil
}

func (r *walletRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find wallet by ID", zap.Error(err), zap.String("wallet_id", id.String()))
		return nil, fmt.Errorf("find wallet by ID %s: %w", id.String(), err)
	}
	return w, nil
}

// FindByDriver prefers the active wallet when a driver has several.
func (r *walletRepository) FindByDriver(ctx context.Context, driverID uuid.UUID) (*entity.Wallet, error) {
	query := `SELECT ` + walletColumns + `
		FROM wallets
		WHERE driver_id = $1
		ORDER BY is_active DESC, created_at DESC
		LIMIT 1`

	w, err := scanWallet(r.db.QueryRow(ctx, query, driverID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find wallet by driver", zap.Error(err), zap.String("driver_id", driverID.String()))
		return nil, fmt.Errorf("find wallet for driver %s: %w", driverID.String(), err)
	}
	return w, nil
}

func (r *walletRepository) Credit(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.Wallet, error) {
	query := `
		UPDATE wallets
		SET total_balance = total_balance + $2,
		    actual_balance = actual_balance + $2,
		    updated_at = NOW()
		WHERE id = $1 AND is_active = true
		RETURNING ` + walletColumns

	w, err := scanWallet(r.db.QueryRow(ctx, query, id, amount))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to credit wallet",
			zap.Error(err),
			zap.String("wallet_id", id.String()),
			zap.String("amount", amount.String()),
		)
		return nil, fmt.Errorf("credit wallet %s: %w", id.String(), err)
	}

	return w, nil
}

func (r *walletRepository) UpdateBalances(ctx context.Context, wallet *entity.Wallet) error {
	query := `
		UPDATE wallets
		SET total_balance = $2, actual_balance = $3, a_deduct = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		wallet.ID,
		wallet.TotalBalance,
		wallet.ActualBalance,
		wallet.PendingDeduction,
		wallet.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update wallet balances", zap.Error(err), zap.String("wallet_id", wallet.ID.String()))
		return fmt.Errorf("update wallet %s: %w", wallet.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("wallet %s not found", wallet.ID.String())
	}

	return nil
}
