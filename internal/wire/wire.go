package wire

import (
	"net/http"

	"ride-hailing/internal/adaptor"
	"ride-hailing/internal/data/entity"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/usecase"
	"ride-hailing/pkg/middleware"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var (
	roleRider  = string(entity.RoleRider)
	roleDriver = string(entity.RoleDriver)
	roleAdmin  = string(entity.RoleAdmin)
)

// App holds the wired HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes from the already connected adapters
func Wiring(
	repo *repository.Repository,
	deps usecase.Deps,
	deadLetters notify.DeadLetterReader,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, deadLetters, config, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	auth := middleware.JWTAuth(config.JWT.Secret, repo.User, logger)

	// Apply routes
	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth)
	wireAdmin(r, handler.User, handler.Admin, auth)
	wireRide(r, handler.Ride, auth)
	wireVehicle(r, handler.Vehicle, auth)
	wireWallet(r, handler.Wallet, auth)
	wirePayment(r, handler.Payment, auth)

	// Uploaded documents and avatars
	if config.Storage.RootDir != "" {
		wireUploads(r, config.Storage.RootDir, auth)
	}

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
