package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	api "calotrack-backend/cmd/api"
	authRepo "calotrack-backend/internal/auth/repository"
	authUsecase "calotrack-backend/internal/auth/usecase"
	mealRepo "calotrack-backend/internal/meal/repository"
	mealUsecase "calotrack-backend/internal/meal/usecase"
	"calotrack-backend/internal/notification"
	"calotrack-backend/pkg/config"
	"calotrack-backend/pkg/database"
	"calotrack-backend/pkg/fcm"
	"calotrack-backend/pkg/logger"
	"calotrack-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.Env)
	log := logger.For("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.RunMigrations(ctx, db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	deviceRepo := authRepo.NewDeviceTokenRepository(db)
	mealRepository := mealRepo.NewGormMealRepository(db)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, deviceRepo, cfg)
	mealUsecaseInstance := mealUsecase.NewMealUsecase(mealRepository)

	// Goal notifications (optional, meals are saved without them)
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.WithError(err).Warn("failed to initialize FCM client, push notifications disabled")
		} else {
			mealUsecaseInstance.SetGoalNotifier(notification.NewGoalService(userRepo, deviceRepo, mealRepository, fcmClient))
		}
	} else {
		log.Info("no Firebase credentials configured, push notifications disabled")
	}

	// Image storage (optional)
	var images storage.ImageStore
	if cfg.S3Bucket != "" {
		region := cfg.S3Region
		if region == "" {
			region = cfg.AWSRegion
		}
		store, err := storage.NewS3ImageStore(ctx, region, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			log.WithError(err).Warn("failed to initialize S3 image store, images will not be kept")
		} else {
			images = store
		}
	}

	// Initialize HTTP handler
	handler, err := api.NewHandler(ctx, authUsecaseInstance, mealUsecaseInstance, images, cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize HTTP handler")
	}

	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
