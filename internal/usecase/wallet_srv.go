package usecase

import (
	"context"
	"time"

	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/dto/response"
	"ride-hailing/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type WalletService interface {
	CreateDriverWallet(ctx context.Context, driverID uuid.UUID) (*entity.Wallet, error)
	GetByDriver(ctx context.Context, driverID uuid.UUID) (*response.WalletResponse, error)
	Credit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entity.Wallet, error)
}

type walletService struct {
	walletRepo repository.WalletRepository
	log        *zap.Logger
}

func NewWalletService(walletRepo repository.WalletRepository, log *zap.Logger) WalletService {
	return &walletService{
		walletRepo: walletRepo,
		log:        log.With(zap.String("service", "wallet")),
	}
}

// CreateDriverWallet is idempotent: an existing active wallet is returned unchanged.
func (s *walletService) CreateDriverWallet(ctx context.Context, driverID uuid.UUID) (*entity.Wallet, error) {
	// 1. Reuse active wallet
	existing, err := s.walletRepo.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to look up wallet", err)
	}
	if existing != nil && existing.IsActive {
		return existing, nil
	}

	// 2. Create new zero-balance wallet
	now := time.Now()
	wallet := &entity.Wallet{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		DriverID:         driverID,
		TotalBalance:     decimal.Zero,
		ActualBalance:    decimal.Zero,
		PendingDeduction: decimal.Zero,
		IsActive:         true,
	}

	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		// a concurrent call created it first
		if repository.IsUniqueViolation(err) {
			if existing, findErr := s.walletRepo.FindByDriver(ctx, driverID); findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, utils.ErrInternal("Failed to create wallet", err)
	}

	s.log.Info("Driver wallet created",
		zap.String("wallet_id", wallet.ID.String()),
		zap.String("driver_id", driverID.String()))

	return wallet, nil
}

func (s *walletService) GetByDriver(ctx context.Context, driverID uuid.UUID) (*response.WalletResponse, error) {
	wallet, err := s.walletRepo.FindByDriver(ctx, driverID)
	if err != nil {
		return nil, utils.ErrInternal("Failed to get wallet", err)
	}
	if wallet == nil {
		return nil, utils.ErrNotFound("Wallet not found")
	}

	resp := response.WalletToResponse(wallet)
	return &resp, nil
}

// Credit adds earnings and settles any pending deduction the new balance covers.
func (s *walletService) Credit(ctx context.Context, walletID uuid.UUID, amount decimal.Decimal) (*entity.Wallet, error) {
	if !amount.IsPositive() {
		return nil, utils.ErrBadRequest("Credit amount must be positive")
	}

	wallet, err := s.walletRepo.Credit(ctx, walletID, amount)
	if err != nil {
		return nil, utils.ErrInternal("Failed to credit wallet", err)
	}
	if wallet == nil {
		return nil, utils.ErrNotFound("Wallet not found or inactive")
	}

	if wallet.ApplyPendingDeduction() {
		wallet.UpdatedAt = time.Now()
		if err := s.walletRepo.UpdateBalances(ctx, wallet); err != nil {
			return nil, utils.ErrInternal("Failed to settle pending deduction", err)
		}
		s.log.Info("Pending deduction settled", zap.String("wallet_id", walletID.String()))
	}

	return wallet, nil
}
