package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/soratani/task-tracker-api/internal/config"
	"github.com/soratani/task-tracker-api/internal/database"
	"github.com/soratani/task-tracker-api/internal/handlers"
	"github.com/soratani/task-tracker-api/internal/middleware"
	"github.com/soratani/task-tracker-api/internal/repository"
	"github.com/soratani/task-tracker-api/internal/services"
	"github.com/soratani/task-tracker-api/internal/token"
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

	// Token service around the injected signing secret. Every instance
	// sharing JWT_SECRET can verify tokens issued by any other.
	tokens := token.NewService(cfg.JWTSecret)

	// Repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	taskService := services.NewTaskService(taskRepo, userRepo, services.AllowAllAuthorizer{})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService, authService)

	// Initialize Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	// API routes; the token gate runs on everything and is fail-open, so
	// protected groups add RequireAuth explicitly.
	api := r.Group("/api")
	api.Use(middleware.Authenticate(tokens))
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(rate.Every(time.Second), 10))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/all", taskHandler.ListAllTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/status", taskHandler.CountByStatus)
			tasks.GET("/due-after", taskHandler.DueAfter)
			tasks.GET("/due-between", taskHandler.DueBetween)
			tasks.DELETE("/due-before", taskHandler.DeleteDueBefore)
			tasks.GET("/search/title", taskHandler.SearchTitle)
			tasks.GET("/search/description", taskHandler.SearchDescription)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// User administration routes (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/count", userHandler.CountUsers)
			users.GET("/exists", userHandler.UsernameExists)
			users.GET("/by-username/:username", userHandler.GetUserByUsername)
			users.DELETE("/by-username", userHandler.DeleteUserByUsername)
			users.GET("/:id", userHandler.GetUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.PATCH("/:username/password", userHandler.UpdatePassword)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
