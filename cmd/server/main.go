package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/well-broomed/cleaning-api/internal/config"
	"github.com/well-broomed/cleaning-api/internal/database"
	"github.com/well-broomed/cleaning-api/internal/handlers"
	"github.com/well-broomed/cleaning-api/internal/middleware"
	"github.com/well-broomed/cleaning-api/internal/repository"
	"github.com/well-broomed/cleaning-api/internal/services"
	"golang.org/x/time/rate"
)

func main() {
	// Load .env if present; real deployments configure through the environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	verifier, err := services.NewOIDCService(cfg.OIDCIssuer, cfg.OIDCAudience)
	if err != nil {
		log.Fatalf("Failed to configure identity verification: %v", err)
	}

	var notifier services.Notifier = services.LogNotifier{}
	if cfg.MailgunDomain != "" && cfg.MailgunKey != "" {
		notifier = services.NewMailgunNotifier(cfg.MailgunDomain, cfg.MailgunKey, cfg.MailSender, cfg.AppBaseURL)
	} else {
		log.Println("Mailgun not configured, notifications go to the process log")
	}

	var uploader services.Uploader
	if cfg.SupabaseURL != "" && cfg.SupabaseKey != "" {
		uploader = services.NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
	} else {
		log.Println("Supabase not configured, image uploads disabled")
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	authService := services.NewAuthService(userRepo)
	propertyService := services.NewPropertyService(propertyRepo, userRepo)
	cleanerService := services.NewCleanerService(userRepo, propertyRepo)
	guestService := services.NewGuestService(guestRepo, propertyRepo, userRepo, notifier)
	inviteService := services.NewInviteService(inviteRepo, userRepo, notifier)

	authHandler := handlers.NewAuthHandler(authService, inviteService)
	propertyHandler := handlers.NewPropertyHandler(propertyService, cleanerService, uploader)
	guestHandler := handlers.NewGuestHandler(guestService)
	cleanerHandler := handlers.NewCleanerHandler(cleanerService)
	inviteHandler := handlers.NewInviteHandler(inviteService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// One invite mail per second per client, small burst for retries
	inviteLimiter := middleware.NewRateLimiter(rate.Limit(1), 3)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(verifier))
	{
		// Login provisions the user row, so it only needs a verified token
		users := api.Group("/users")
		{
			users.POST("/login", authHandler.Login)
			users.POST("/login/:inviteCode", authHandler.Login)
			users.GET("/me", middleware.RequireUser(), authHandler.Me)
			users.PATCH("", middleware.RequireUser(), authHandler.UpdateUser)
		}

		properties := api.Group("/properties")
		properties.Use(middleware.RequireUser())
		{
			properties.GET("", propertyHandler.ListProperties)
			properties.GET("/defaults", propertyHandler.ListDefaultProperties)
			properties.GET("/:propertyId", propertyHandler.GetProperty)
			properties.GET("/:propertyId/cleaners", propertyHandler.ListPropertyCleaners)
			properties.POST("", middleware.RequireManager(), propertyHandler.CreateProperty)
			properties.PATCH("/:propertyId", middleware.RequireManager(), propertyHandler.UpdateProperty)
			properties.DELETE("/:propertyId", middleware.RequireManager(), propertyHandler.DeleteProperty)
			properties.PATCH("/:propertyId/cleaner", middleware.RequireManager(), cleanerHandler.ChangeDefaultCleaner)
			properties.PUT("/:propertyId/availability", cleanerHandler.SetAvailability)
		}

		guests := api.Group("/guests")
		guests.Use(middleware.RequireUser())
		{
			guests.GET("", guestHandler.ListGuests)
			guests.GET("/:guestId", guestHandler.GetGuest)
			guests.POST("", middleware.RequireManager(), guestHandler.CreateGuest)
			guests.PATCH("/:guestId", middleware.RequireManager(), guestHandler.UpdateGuest)
			guests.DELETE("/:guestId", middleware.RequireManager(), guestHandler.DeleteGuest)
			guests.POST("/:guestId/tasks", middleware.RequireManager(), guestHandler.CreateTask)
			guests.PATCH("/:guestId/tasks/:taskId", guestHandler.UpdateTask)
			guests.POST("/:guestId/reassignment", guestHandler.RequestReassignment)
			guests.PUT("/:guestId/reassignment", guestHandler.RespondReassignment)
		}

		cleaners := api.Group("/cleaners")
		cleaners.Use(middleware.RequireUser())
		{
			cleaners.GET("", middleware.RequireManager(), cleanerHandler.ListCleanerProfiles)
			cleaners.GET("/partners", middleware.RequireManager(), cleanerHandler.ListPartners)
			cleaners.GET("/partners/:cleanerId", middleware.RequireManager(), cleanerHandler.GetPartner)
		}

		invites := api.Group("/invites")
		invites.Use(middleware.RequireUser())
		{
			invites.POST("", middleware.RequireManager(), inviteLimiter.Middleware(), inviteHandler.SendInvite)
			invites.POST("/:inviteCode/accept", inviteHandler.AcceptInvite)
			invites.DELETE("/:inviteCode", middleware.RequireManager(), inviteHandler.DeleteInvite)
		}
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
