// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ride-hailing/cmd"
	"ride-hailing/internal/data/repository"
	"ride-hailing/internal/usecase"
	"ride-hailing/internal/wire"
	"ride-hailing/pkg/cache"
	"ride-hailing/pkg/database"
	"ride-hailing/pkg/notify"
	"ride-hailing/pkg/payment"
	"ride-hailing/pkg/storage"
	"ride-hailing/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const challengePurgeInterval = time.Minute

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Connect to redis (challenges, live locations, dead letters)
	rdb, err := cache.NewRedisClient(ctx, config.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	logger.Info("Redis connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, rdb, config.Challenge.Store, logger)

	// Notifications
	dispatcher, err := newDispatcher(config, rdb, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifications", zap.Error(err))
	}
	dispatchDone := make(chan struct{})
	go func() {
		defer close(dispatchDone)
		if err := dispatcher.Run(context.Background()); err != nil {
			logger.Error("Notification dispatcher stopped", zap.Error(err))
		}
	}()

	// Expired challenges only pile up in postgres; redis evicts them itself
	if config.Challenge.Store == "postgres" {
		go purgeChallenges(ctx, repos.Challenge, logger)
	}

	deps := usecase.Deps{
		Uploader: storage.NewLocalUploader(config.Storage.RootDir, config.Storage.PublicBaseURL, logger),
		Notifier: dispatcher,
		Gateway:  payment.NewRazorpayClient(config.Payment.KeyID, config.Payment.KeySecret, config.Payment.BaseURL, logger),
	}

	// Wire all dependencies
	app := wire.Wiring(repos, deps, dispatcher, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}

	// Flush queued mail and SMS before exit
	dispatcher.Close()
	<-dispatchDone
	logger.Info("Shutdown complete")
}

func newDispatcher(config *utils.Config, rdb redis.UniversalClient, logger *zap.Logger) (*notify.Dispatcher, error) {
	var mailer notify.Mailer
	if config.Email.Host != "" {
		mailer = notify.NewSMTPMailer(config.Email.Host, config.Email.Port, config.Email.User, config.Email.Password, config.Email.From)
	} else {
		logger.Warn("SMTP_HOST not set, emails will only be logged")
		mailer = notify.NewLogMailer(logger)
	}

	var sms notify.SMSSender
	if config.SMS.ProviderURL != "" {
		sms = notify.NewHTTPSMSSender(config.SMS.ProviderURL, config.SMS.APIKey, config.SMS.Sender)
	} else {
		logger.Warn("SMS_PROVIDER_URL not set, SMS will only be logged")
		sms = notify.NewLogSMSSender(logger)
	}

	templates, err := notify.NewTemplates(os.DirFS(config.Email.TemplatesDir))
	if err != nil {
		return nil, err
	}

	return notify.NewDispatcher(mailer, sms, templates, rdb, notify.Options{
		Workers:   config.Notify.Workers,
		QueueSize: config.Notify.QueueSize,
	}, logger), nil
}

func purgeChallenges(ctx context.Context, store repository.ChallengeStore, logger *zap.Logger) {
	ticker := time.NewTicker(challengePurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("Failed to purge expired challenges", zap.Error(err))
				continue
			}
			if purged > 0 {
				logger.Debug("Purged expired challenges", zap.Int64("count", purged))
			}
		}
	}
}
