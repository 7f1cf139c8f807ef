package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/Ashutosh26l/samay-capsule/cmd/api"
	authdomain "github.com/Ashutosh26l/samay-capsule/internal/auth/domain"
	authrepo "github.com/Ashutosh26l/samay-capsule/internal/auth/repository"
	authusecase "github.com/Ashutosh26l/samay-capsule/internal/auth/usecase"
	capsuledomain "github.com/Ashutosh26l/samay-capsule/internal/capsule/domain"
	capsulerepo "github.com/Ashutosh26l/samay-capsule/internal/capsule/repository"
	"github.com/Ashutosh26l/samay-capsule/internal/notification"
	"github.com/Ashutosh26l/samay-capsule/pkg/config"
	"github.com/Ashutosh26l/samay-capsule/pkg/database"
	"github.com/Ashutosh26l/samay-capsule/pkg/fcm"
	"github.com/Ashutosh26l/samay-capsule/pkg/storage"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.DeviceToken{},
		&capsuledomain.Capsule{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	userRepo := authrepo.NewUserRepository(db)
	deviceRepo := authrepo.NewDeviceTokenRepository(db)
	capsuleRepo := capsulerepo.NewCapsuleRepository(db)
	enrichmentWriter := capsulerepo.NewEnrichmentWriter(db)

	// Initialize media storage
	mediaStore, err := storage.NewS3Storage(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create S3 client")
	}

	// Initialize use cases
	authUsecase := authusecase.NewAuthUsecase(userRepo, cfg)

	// Initialize push notifications (optional, everything else works without them)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Warn().Err(err).Msg("push notifications disabled")
		}
	} else {
		log.Info().Msg("no Firebase credentials configured, push notifications disabled")
	}

	// Release scheduler: notifies owners when a capsule opens
	var scheduler *notification.ReleaseScheduler
	if fcmClient != nil {
		scheduler = notification.NewReleaseScheduler(capsuleRepo, deviceRepo, fcmClient)
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Initialize HTTP handler
	handler := api.NewHandler(cfg, authUsecase, capsuleRepo, enrichmentWriter, mediaStore, deviceRepo)
	defer handler.Stop()

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
