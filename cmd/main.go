package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"commerce-admin-service/internal/clients"
	"commerce-admin-service/internal/config"
	"commerce-admin-service/internal/events"
	"commerce-admin-service/internal/handlers"
	"commerce-admin-service/internal/middleware"
	"commerce-admin-service/internal/models"
	"commerce-admin-service/internal/repository"
	"commerce-admin-service/internal/services"
)

// @title Commerce Admin API
// @version 1.0.0
// @description Admin and analytics API for the storefront: vendor applications, sales analytics, categories, product import, promotions and order receipts

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8084
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.VendorApplication{},
		&models.VendorProfile{},
		&models.Category{},
		&models.FeaturedProduct{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis client for category caching
	var redisClient *redis.Client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
	} else {
		redisClient = redis.NewClient(redisOpts)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
			redisClient = nil
		} else {
			log.Println("✓ Redis connected successfully")
		}
		cancel()
	}

	// Initialize NATS events publisher
	eventsPublisher, err := events.NewPublisher(cfg.NATSURL, logger)
	if err != nil {
		log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
	} else {
		log.Println("✓ NATS events publisher initialized")
	}

	// Initialize external clients
	identityClient := clients.NewIdentityClient(cfg.IdentityURL, cfg.IdentityServiceKey)
	storageClient := clients.NewStorageClient(cfg.StorageURL, cfg.IdentityServiceKey)

	// Initialize repositories
	applicationRepo := repository.NewApplicationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db, redisClient)
	promotionRepo := repository.NewPromotionRepository(db)

	// Initialize services
	vendorService := services.NewVendorService(applicationRepo, identityClient, eventsPublisher, logger)
	analyticsService := services.NewAnalyticsService(orderRepo, productRepo, nil, logger)
	categoryService := services.NewCategoryService(categoryRepo, storageClient, cfg.StorageBucket, eventsPublisher, logger)
	productService := services.NewProductService(productRepo, logger)
	promotionService := services.NewPromotionService(promotionRepo, productRepo, nil, logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	applicationHandler := handlers.NewApplicationHandler(vendorService, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, logger)
	categoryHandler := handlers.NewCategoryHandler(categoryService, logger)
	productHandler := handlers.NewProductHandler(productService, logger)
	promotionHandler := handlers.NewPromotionHandler(promotionService, logger)
	orderHandler := handlers.NewOrderHandler(orderRepo, analyticsService, logger)
	importHandler := handlers.NewImportHandler(productRepo, logger)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)

	// Public storefront endpoints (no auth required)
	public := router.Group("/api/v1")
	{
		public.GET("/categories", categoryHandler.List)
		public.GET("/categories/:id", categoryHandler.Get)
		public.GET("/products", productHandler.List)
		public.GET("/products/:id", productHandler.Get)
		public.GET("/promotions/active", promotionHandler.ListActive)
		public.GET("/orders/:id/receipt", orderHandler.Receipt)
		public.POST("/vendor-applications", applicationHandler.Submit)
	}

	// Admin endpoints (JWT with admin flag required)
	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/analytics", analyticsHandler.Overview)
		admin.GET("/analytics/sales", analyticsHandler.Sales)
		admin.GET("/analytics/stock", analyticsHandler.Stock)
		admin.GET("/analytics/products", analyticsHandler.Products)
		admin.GET("/analytics/inventory", analyticsHandler.Inventory)

		admin.GET("/vendor-applications", applicationHandler.List)
		admin.PATCH("/vendor-applications/:id/review", applicationHandler.Review)
		admin.PATCH("/vendor-applications/:id/promote", applicationHandler.Promote)

		admin.POST("/categories", categoryHandler.Create)
		admin.PUT("/categories/:id", categoryHandler.Update)
		admin.DELETE("/categories/:id", categoryHandler.Delete)
		admin.POST("/categories/upload", categoryHandler.Upload)

		admin.POST("/products", productHandler.Create)
		admin.PUT("/products/:id", productHandler.Update)
		admin.DELETE("/products/:id", productHandler.Delete)
		admin.GET("/products/import/template", importHandler.GetImportTemplate)
		admin.POST("/products/import", importHandler.ImportProducts)

		admin.GET("/orders", orderHandler.List)

		admin.POST("/promotions", promotionHandler.Create)
		admin.GET("/promotions", promotionHandler.List)
		admin.DELETE("/promotions/:id", promotionHandler.Delete)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Commerce admin service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down commerce-admin-service...")

	if eventsPublisher != nil {
		eventsPublisher.Close()
		log.Println("✓ Events publisher closed")
	}

	log.Println("Commerce admin service stopped")
}
