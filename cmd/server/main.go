package main

import (
	"log"
	"time"

	"taller_manager/internal/auth"
	"taller_manager/internal/config"
	"taller_manager/internal/database"
	"taller_manager/internal/handlers"
	"taller_manager/internal/middleware"
	"taller_manager/internal/migrations"
	"taller_manager/internal/redis"
	"taller_manager/internal/repository"
	"taller_manager/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Migrate schema and seed default data
	if err := migrations.RunMigrations(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenTTL)*time.Second)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, tokens)
	clientService := services.NewClientService(db)
	catalogService := services.NewCatalogService(catalogRepo, redisClient, cacheTTL)
	allocationService := services.NewAllocationService(db)
	ledgerService := services.NewLedgerService(db, redisClient)
	orderService := services.NewOrderService(db, clientService, catalogService, allocationService, redisClient, cacheTTL, cfg.WarrantyDays)
	statusService := services.NewStatusService(db, allocationService, redisClient)
	returnService := services.NewReturnService(db, redisClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	orderHandler := handlers.NewOrderHandler(orderService, statusService, ledgerService, returnService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService)
	storageHandler := handlers.NewStorageHandler(allocationService)

	// Setup routes
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.POST("/api/auth/login", authHandler.Login)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(tokens))
	{
		api.POST("/orders", orderHandler.CreateOrder)
		api.GET("/orders/:id", orderHandler.GetOrder)
		api.PUT("/orders/:id", orderHandler.UpdateOrder)
		api.PUT("/orders/:id/status", orderHandler.ChangeStatus)
		api.POST("/orders/:id/abonos", orderHandler.RecordAbono)
		api.GET("/orders/:id/abonos", orderHandler.ListAbonos)
		api.POST("/orders/:id/returns", orderHandler.RegisterReturn)

		api.POST("/movements", ledgerHandler.RecordMovement)
		api.GET("/movements", ledgerHandler.ListMovements)

		api.GET("/drawers", storageHandler.ListDrawers)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
