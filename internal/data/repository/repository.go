package repository

import (
	"ride-hailing/pkg/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Ride      RideRepository
	Vehicle   VehicleRepository
	Wallet    WalletRepository
	Payment   PaymentRepository
	Challenge ChallengeStore
	Location  LocationRepository
}

// NewRepository builds every repository. challengeBackend selects where pending
// OTP challenges live: "postgres" or anything else for redis.
func NewRepository(db database.PgxIface, rdb redis.UniversalClient, challengeBackend string, log *zap.Logger) *Repository {
	var challenges ChallengeStore
	if challengeBackend == "postgres" {
		challenges = NewPostgresChallengeStore(db, log)
	} else {
		challenges = NewRedisChallengeStore(rdb, log)
	}

	return &Repository{
		User:      NewUserRepository(db, log),
		Ride:      NewRideRepository(db, log),
		Vehicle:   NewVehicleRepository(db, log),
		Wallet:    NewWalletRepository(db, log),
		Payment:   NewPaymentRepository(db, log),
		Challenge: challenges,
		Location:  NewLocationRepository(rdb, log),
	}
}
