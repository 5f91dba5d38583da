package usecase

import (
	"ride-hailing/internal/data/repository"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/payment"
	"ride-hailing/pkg/storage"
	"ride-hailing/pkg/utils"

	"go.uber.org/zap"
)

// Deps are the outbound adapters the services talk to besides the repositories.
type Deps struct {
	Uploader storage.Uploader
	Notifier notify.Notifier
	Gateway  payment.Gateway
}

type Service struct {
	Auth    AuthService
	User    UserService
	Ride    RideService
	Vehicle VehicleService
	Wallet  WalletService
	Payment PaymentService
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	wallet := NewWalletService(repo.Wallet, log)

	return &Service{
		Auth:    NewAuthService(repo, wallet, deps.Uploader, deps.Notifier, config, log),
		User:    NewUserService(repo, deps.Uploader, deps.Notifier, config, log),
		Ride:    NewRideService(repo, log),
		Vehicle: NewVehicleService(repo.Vehicle, log),
		Wallet:  wallet,
		Payment: NewPaymentService(repo, wallet, deps.Gateway, config, log),
	}
}
