package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authdelivery "github.com/Ashutosh26l/samay-capsule/internal/auth/delivery"
	authrepo "github.com/Ashutosh26l/samay-capsule/internal/auth/repository"
	authusecase "github.com/Ashutosh26l/samay-capsule/internal/auth/usecase"
	capsuledelivery "github.com/Ashutosh26l/samay-capsule/internal/capsule/delivery"
	capsuleusecase "github.com/Ashutosh26l/samay-capsule/internal/capsule/usecase"
	"github.com/Ashutosh26l/samay-capsule/pkg/config"
)

func SetupRoutes(
	r *gin.Engine,
	authUsecase authusecase.AuthUsecase,
	capsuleUsecase capsuleusecase.CapsuleUsecase,
	enrichUsecase capsuleusecase.EnrichUsecase,
	deviceRepo authrepo.DeviceTokenRepository,
	cfg *config.Config,
	aiConfigured bool,
) {
	authHandler := authdelivery.NewAuthHandler(authUsecase, deviceRepo)
	capsuleHandler := capsuledelivery.NewCapsuleHandler(capsuleUsecase)
	processAIHandler := capsuledelivery.NewProcessAIHandler(enrichUsecase, cfg.ServiceToken, aiConfigured)

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
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", authdelivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Capsule routes (protected)
		capsules := api.Group("/capsules")
		capsules.Use(authdelivery.AuthMiddleware(authUsecase))
		{
			capsules.GET("", capsuleHandler.List)
			capsules.POST("", capsuleHandler.Create)
			capsules.GET("/:id", capsuleHandler.Get)
			capsules.POST("/:id/unlock", capsuleHandler.Unlock)
		}

		// Device routes (protected) - push notification registrations
		devices := api.Group("/devices")
		devices.Use(authdelivery.AuthMiddleware(authUsecase))
		{
			devices.POST("", authHandler.RegisterDevice)
			devices.DELETE("/:token", authHandler.UnregisterDevice)
		}
	}

	// Enrichment endpoint: service-token auth and its own CORS contract, so
	// it sits outside the authenticated /api/capsules group.
	r.Any("/api/capsules/process-ai", processAIHandler.Handle)
}
