package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	analysisDelivery "calotrack-backend/internal/analysis/delivery"
	analysisUsecase "calotrack-backend/internal/analysis/usecase"
	authUsecase "calotrack-backend/internal/auth/usecase"
	"calotrack-backend/internal/common"
	mealDelivery "calotrack-backend/internal/meal/delivery"
	mealUsecase "calotrack-backend/internal/meal/usecase"
	"calotrack-backend/pkg/ai"
	"calotrack-backend/pkg/config"
	"calotrack-backend/pkg/logger"
	"calotrack-backend/pkg/metrics"
	"calotrack-backend/pkg/ratelimit"
	"calotrack-backend/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	limiterCleanupInterval = 5 * time.Minute
	limiterMaxIdle         = 30 * time.Minute
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	config          *config.Config
	mealHandler     *mealDelivery.MealHandler
	analysisHandler *analysisDelivery.AnalysisHandler
	settingsHandler *SettingsHandler
	aiLimiter       *ratelimit.RateLimiter
	log             *logrus.Entry
}

// NewHandler wires the HTTP layer. images may be nil when no bucket is configured.
func NewHandler(ctx context.Context, authUc authUsecase.AuthUsecase, mealUc mealUsecase.MealUsecase, images storage.ImageStore, cfg *config.Config) (*Handler, error) {
	log := logger.For("API")

	// Runtime settings for the vision classifier
	settings := NewClassifierSettings(cfg.OllamaBaseURL, cfg.OllamaModel)

	classifier, err := ai.NewClassifier(ctx, ai.Config{
		Provider:            ai.ProviderType(cfg.AIProvider),
		HuggingFaceAPIKey:   cfg.HuggingFaceAPIKey,
		HuggingFaceModelURL: cfg.HuggingFaceModelURL,
		GeminiAPIKey:        cfg.GeminiApiKey,
		OllamaBaseURL:       settings.OllamaBaseURL,
		OllamaModel:         settings.OllamaModel,
		AWSRegion:           cfg.AWSRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("init classifier: %w", err)
	}
	log.WithField("provider", cfg.AIProvider).Info("classifier initialized")

	analysisUc := analysisUsecase.NewAnalysisUsecase(classifier, mealUc, images)

	return &Handler{
		authUsecase:     authUc,
		config:          cfg,
		mealHandler:     mealDelivery.NewMealHandler(mealUc, cfg.DefaultDailyGoal),
		analysisHandler: analysisDelivery.NewAnalysisHandler(analysisUc),
		settingsHandler: NewSettingsHandler(settings, cfg.AIProvider),
		aiLimiter:       ratelimit.New(cfg.AIRateLimitRPS, cfg.AIRateLimitBurst),
		log:             log,
	}, nil
}

// Engine builds the gin engine with middleware and routes
func (h *Handler) Engine() *gin.Engine {
	if h.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		common.RespondError(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	}))
	r.Use(common.ErrorDetail(!h.config.IsProduction()))
	r.Use(logger.GinLogger())
	r.Use(metrics.GinMiddleware())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.mealHandler, h.analysisHandler, h.settingsHandler, h.aiLimiter, h.config.AdminEmails)
	return r
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (h *Handler) Start(ctx context.Context, addr string) error {
	h.aiLimiter.StartCleanup(ctx, limiterCleanupInterval, limiterMaxIdle)

	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.WithField("addr", addr).Info("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		h.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
