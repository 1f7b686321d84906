package routes

import (
	"github.com/DO1FFE/adventskalender-backend/internal/config"
	"github.com/DO1FFE/adventskalender-backend/internal/handlers"
	"github.com/DO1FFE/adventskalender-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HandlerDependencies bundles the handlers wired in main
type HandlerDependencies struct {
	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	DoorHandler   *handlers.DoorHandler
	RewardHandler *handlers.RewardHandler
	AdminHandler  *handlers.AdminHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", deps.AuthHandler.Register)
			auth.POST("/login", deps.AuthHandler.Login)
		}
	}

	// Authenticated user routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg))
	{
		protected.GET("/calendar", deps.DoorHandler.GetCalendar)
		protected.POST("/doors/:day/open", deps.DoorHandler.OpenDoor)

		rewards := protected.Group("/rewards")
		{
			rewards.GET("", deps.RewardHandler.GetMyRewards)
			rewards.GET("/:day/qr", deps.RewardHandler.DownloadArtifact)
		}

		account := protected.Group("/account")
		{
			account.GET("", deps.UserHandler.GetMe)
			account.DELETE("", deps.UserHandler.DeleteAccount)
		}
	}

	// Admin routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg), middleware.AdminOnlyMiddleware())
	{
		admin.GET("/pool", deps.AdminHandler.GetPool)
		admin.PUT("/pool", deps.AdminHandler.ConfigurePool)
		admin.PUT("/calendar", deps.AdminHandler.SetCalendar)
		admin.GET("/participations", deps.AdminHandler.GetParticipations)
		admin.DELETE("/participations", deps.AdminHandler.ResetParticipations)
		admin.DELETE("/rewards", deps.AdminHandler.ResetRewards)
		admin.DELETE("/artifacts", deps.AdminHandler.PurgeArtifacts)
		admin.POST("/import-winners", deps.AdminHandler.ImportWinners)
	}

	return router
}
