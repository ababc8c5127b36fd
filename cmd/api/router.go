package api

import (
	"net/http"

	analysisDelivery "calotrack-backend/internal/analysis/delivery"
	"calotrack-backend/internal/auth/delivery"
	authUsecase "calotrack-backend/internal/auth/usecase"
	mealDelivery "calotrack-backend/internal/meal/delivery"
	"calotrack-backend/pkg/metrics"
	"calotrack-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, mealHandler *mealDelivery.MealHandler, analysisHandler *analysisDelivery.AnalysisHandler, settingsHandler *SettingsHandler, aiLimiter *ratelimit.RateLimiter, adminEmails []string) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	requireAuth := delivery.AuthMiddleware(authUsecase)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.PUT("/update-goal", requireAuth, authHandler.UpdateGoal)
		}

		// Push device routes (protected)
		devices := api.Group("/devices")
		devices.Use(requireAuth)
		{
			devices.POST("", authHandler.RegisterDevice)
			devices.DELETE("/:token", authHandler.UnregisterDevice)
		}

		// Meal routes (protected)
		meals := api.Group("/meals")
		meals.Use(requireAuth)
		mealHandler.RegisterRoutes(meals)

		// AI routes (protected, rate limited per user)
		aiRoutes := api.Group("/ai")
		aiRoutes.Use(requireAuth)
		if aiLimiter != nil {
			aiRoutes.Use(aiLimiter.Middleware())
		}
		{
			aiRoutes.POST("/analyze-image", analysisHandler.AnalyzeImage)
			aiRoutes.POST("/identify-only", analysisHandler.IdentifyOnly)
			aiRoutes.POST("/confirm", analysisHandler.Confirm)
		}

		// Settings routes (admins only) - runtime classifier configuration shared by every user
		settings := api.Group("/settings")
		settings.Use(requireAuth, delivery.RequireAdmin(adminEmails))
		{
			settings.GET("/classifier", settingsHandler.GetSettings)
			settings.PUT("/classifier", settingsHandler.UpdateSettings)
			settings.POST("/classifier/test", settingsHandler.TestConnection)
		}
	}
}
