package main

import (
	"fmt"
	"net/http"
	"os"

	"centime/internal/config"
	"centime/internal/database"
	"centime/internal/handlers"
	"centime/internal/logger"
	"centime/internal/middleware"
	"centime/internal/notify"
	"centime/internal/services"
	"centime/internal/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "centime/internal/docs" // Import swagger docs
)

// @title           Centime API
// @version         1.0
// @description     Centime tracks project budgets: envelopes, expenses, status transitions, and budget notifications.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom validation rules
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Transactional email
	mailer := notify.NewBrevoMailer(appConfig.BrevoAPIKey, appConfig.BrevoSenderEmail, appConfig.BrevoSenderName, nil)
	if appConfig.BrevoAPIKey == "" {
		log.Warn("BREVO_API_KEY not set, budget notifications will fail to deliver")
	}

	// Initialize services. Project and expense services share the lock
	// table so deletes and recordings on the same project serialize.
	db := dbManager.DB()
	locks := services.NewProjectLocks()
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db, locks)
	expenseService := services.NewExpenseService(db, mailer, locks)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Project routes
	projects := protected.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)

	// Expense routes nested under a project
	projects.POST("/:id/expenses", expenseHandler.RecordExpense)
	projects.GET("/:id/expenses", expenseHandler.GetExpenses)
	projects.GET("/:id/expenses/:expense_id", expenseHandler.GetExpense)
	projects.DELETE("/:id/expenses/:expense_id", expenseHandler.ReverseExpense)

	log.Infof("Starting Centime backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
