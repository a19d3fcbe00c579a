package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive-api/internal/cache"
	"github.com/taskhive/taskhive-api/internal/config"
	"github.com/taskhive/taskhive-api/internal/database"
	"github.com/taskhive/taskhive-api/internal/handlers"
	"github.com/taskhive/taskhive-api/internal/middleware"
	"github.com/taskhive/taskhive-api/internal/models"
	"github.com/taskhive/taskhive-api/internal/repository"
	"github.com/taskhive/taskhive-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Optional unread-count cache
	var counts *cache.CountCache
	if cfg.RedisAddr != "" {
		counts = cache.NewCountCache(cfg.RedisAddr, 30*time.Second)
		defer counts.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Services
	tokenService := services.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(userRepo)
	ledgerService := services.NewLedgerService(userRepo)
	taskService := services.NewTaskService(taskRepo)
	notificationService := services.NewNotificationService(notificationRepo, counts)
	submissionService := services.NewSubmissionService(submissionRepo, taskRepo, notificationService)
	withdrawalService := services.NewWithdrawalService(withdrawalRepo, notificationService)
	paymentService := services.NewPaymentService(paymentRepo, services.NewStripeGateway(cfg.StripeSecretKey))
	statsService := services.NewStatsService(userRepo, submissionRepo, paymentRepo)

	// Access gate
	gate := middleware.NewAccessGate(tokenService, userRepo)

	// Handlers
	isRelease := cfg.GinMode == "release"
	authHandler := handlers.NewAuthHandler(tokenService, isRelease)
	userHandler := handlers.NewUserHandler(userService, ledgerService)
	taskHandler := handlers.NewTaskHandler(taskService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Initialize Gin router
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TaskHive API is running",
		})
	})

	// API routes. Role gates are declared per operation; routes without a
	// gate are intentionally public.
	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/token", authHandler.IssueToken)
			auth.POST("/logout", authHandler.Logout)
		}

		users := api.Group("/users")
		{
			users.PUT("", userHandler.Upsert)
			users.GET("/top-coins", userHandler.TopByCoins)
			users.GET("/:email", userHandler.Get)
			users.PATCH("/:email/coins", gate.RequireRoles(models.RoleAdmin, models.RoleBuyer), userHandler.AdjustCoins)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("/available", taskHandler.ListAvailable)
			tasks.GET("/count", taskHandler.Count)
			tasks.POST("", gate.RequireRoles(models.RoleBuyer), taskHandler.Create)
			tasks.GET("/mine", gate.RequireRoles(models.RoleBuyer), taskHandler.ListMine)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PATCH("/:id", gate.RequireRoles(models.RoleBuyer), taskHandler.Update)
			tasks.DELETE("/:id", gate.RequireRoles(models.RoleBuyer), taskHandler.Delete)
		}

		submissions := api.Group("/submissions")
		{
			submissions.POST("", submissionHandler.Submit)
			submissions.GET("/count", submissionHandler.Count)
			submissions.PATCH("/:id/approve", submissionHandler.Approve)
			submissions.PATCH("/:id/reject", submissionHandler.Reject)
			submissions.GET("/buyer/:email/pending", submissionHandler.ListPendingForBuyer)
			submissions.GET("/worker/:email/approved", submissionHandler.ListApprovedForWorker)
			submissions.GET("/worker/:email", submissionHandler.ListByWorker)
		}

		notifications := api.Group("/notifications")
		{
			notifications.POST("", notificationHandler.Create)
			notifications.GET("/:email", notificationHandler.ListFor)
			notifications.GET("/:email/unread-count", notificationHandler.CountUnread)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}

		withdrawals := api.Group("/withdrawals")
		{
			withdrawals.POST("", gate.RequireRoles(models.RoleWorker), withdrawalHandler.Request)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/offers", paymentHandler.ListOffers)
			payments.GET("/offers/:id", paymentHandler.GetOffer)
			payments.POST("/intent", gate.RequireRoles(models.RoleBuyer), paymentHandler.CreateIntent)
			payments.POST("/confirm", gate.RequireRoles(models.RoleBuyer), paymentHandler.Confirm)
			payments.GET("/history/:email", gate.RequireRoles(models.RoleBuyer), paymentHandler.History)
		}

		stats := api.Group("/stats")
		{
			stats.GET("/buyer/:email", statsHandler.Buyer)
			stats.GET("/worker/:email", statsHandler.Worker)
		}

		admin := api.Group("/admin")
		admin.Use(gate.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/users", userHandler.ListManaged)
			admin.DELETE("/users/:id", userHandler.Delete)
			admin.PATCH("/users/:email/role", userHandler.UpdateRole)
			admin.GET("/tasks", taskHandler.ListAll)
			admin.DELETE("/tasks/:id", taskHandler.AdminDelete)
			admin.GET("/withdrawals", withdrawalHandler.List)
			admin.POST("/withdrawals/:id/approve", withdrawalHandler.Approve)
			admin.GET("/stats", statsHandler.Admin)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
