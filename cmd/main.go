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

	"catalog-service/internal/catalog"
	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
)

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
	db, err := config.InitDB(context.Background(), cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
		redisClient = nil
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize NATS events publisher
	var eventsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (events won't be published)", err)
		} else {
			log.Println("✓ NATS events publisher initialized")
		}
	}

	// Initialize repositories with Redis for caching
	categoryRepo := repository.NewCategoryRepository(db, redisClient)
	subcategoryRepo := repository.NewSubcategoryRepository(db, redisClient)
	productRepo := repository.NewProductRepository(db, redisClient)

	// Initialize services
	categoryService := catalog.NewCategoryService(categoryRepo, subcategoryRepo, logger)
	subcategoryService := catalog.NewSubcategoryService(categoryRepo, subcategoryRepo, productRepo, logger)
	productService := catalog.NewProductService(categoryRepo, subcategoryRepo, productRepo, logger)

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(categoryService, eventsPublisher)
	subcategoryHandler := handlers.NewSubcategoryHandler(subcategoryService, eventsPublisher)
	productHandler := handlers.NewProductHandler(productService, eventsPublisher)
	exportHandler := handlers.NewExportHandler(productService)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	read := middleware.RequireAnyRole("admin", "coordinator")
	write := middleware.RequireAnyRole("admin", "coordinator")
	remove := middleware.RequireRole("admin")

	categories := api.Group("/categories")
	{
		categories.GET("", read, categoryHandler.GetCategoryList)
		categories.GET("/stats", remove, categoryHandler.GetCategoryStats)
		categories.GET("/:id", read, categoryHandler.GetCategory)
		categories.GET("/:id/subcategories", read, subcategoryHandler.GetSubcategoriesByCategory)
		categories.GET("/:id/products", read, productHandler.GetProductsByCategory)

		categories.POST("", write, categoryHandler.CreateCategory)
		categories.PUT("/:id", write, categoryHandler.UpdateCategory)
		categories.PATCH("/:id/toggle-status", write, categoryHandler.ToggleCategoryStatus)
		categories.POST("/reorder", write, categoryHandler.ReorderCategories)

		categories.DELETE("/:id", remove, categoryHandler.DeleteCategory)
	}

	subcategories := api.Group("/subcategories")
	{
		subcategories.GET("", read, subcategoryHandler.GetSubcategoryList)
		subcategories.GET("/stats", remove, subcategoryHandler.GetSubcategoryStats)
		subcategories.GET("/:id", read, subcategoryHandler.GetSubcategory)
		subcategories.GET("/:id/products", read, productHandler.GetProductsBySubcategory)

		subcategories.POST("", write, subcategoryHandler.CreateSubcategory)
		subcategories.PUT("/:id", write, subcategoryHandler.UpdateSubcategory)
		subcategories.PATCH("/:id/toggle-status", write, subcategoryHandler.ToggleSubcategoryStatus)
		subcategories.POST("/reorder", write, subcategoryHandler.ReorderSubcategories)

		subcategories.DELETE("/:id", remove, subcategoryHandler.DeleteSubcategory)
	}

	products := api.Group("/products")
	{
		products.GET("", read, productHandler.GetProductList)
		products.GET("/stats", remove, productHandler.GetProductStats)
		products.GET("/featured", read, productHandler.GetFeaturedProducts)
		products.GET("/export", read, exportHandler.ExportProducts)
		products.GET("/sku/:sku", read, productHandler.GetProductBySKU)
		products.GET("/:id", read, productHandler.GetProduct)

		products.POST("", write, productHandler.CreateProduct)
		products.PUT("/:id", write, productHandler.UpdateProduct)
		products.PATCH("/:id/toggle-status", write, productHandler.ToggleProductStatus)
		products.PATCH("/:id/toggle-featured", write, productHandler.ToggleProductFeatured)
		products.POST("/reorder", write, productHandler.ReorderProducts)

		products.DELETE("/:id", remove, productHandler.DeleteProduct)
	}

	// Public/Storefront endpoints for reading the catalog (no auth required)
	storefront := router.Group("/api/v1/storefront")
	{
		storefront.GET("/categories", categoryHandler.GetActiveCategories)
		storefront.GET("/categories/:id", categoryHandler.GetActiveCategory)
		storefront.GET("/categories/:id/subcategories", subcategoryHandler.GetSubcategoriesByCategory)
		storefront.GET("/subcategories", subcategoryHandler.GetActiveSubcategories)
		storefront.GET("/subcategories/:id/products", productHandler.GetProductsBySubcategory)
		storefront.GET("/products", productHandler.GetActiveProducts)
		storefront.GET("/products/featured", productHandler.GetFeaturedProducts)
		storefront.GET("/products/sku/:sku", productHandler.GetActiveProductBySKU)
		storefront.GET("/products/:id", productHandler.GetActiveProduct)
	}
	log.Println("✓ Public storefront routes initialized")

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down catalog-service...")

	// Close events publisher
	if eventsPublisher != nil {
		eventsPublisher.Close()
		log.Println("✓ Events publisher closed")
	}

	log.Println("Catalog service stopped")
}
