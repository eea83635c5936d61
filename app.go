package main

import (
	"errors"
	"fmt"
	"time"

	"tokoshop/internal/config"
	"tokoshop/internal/handlers"
	"tokoshop/internal/middleware"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"
	"tokoshop/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// webhookDedupeTTL bounds how long a processed gateway event id is remembered.
const webhookDedupeTTL = 72 * time.Hour

// Dependencies are the external resources the HTTP app is built on.
// Cache and Publisher are optional.
type Dependencies struct {
	DB        *gorm.DB
	Gateway   services.PaymentGateway
	Cache     cache.Cache
	Publisher services.EventPublisher
}

// NewApp builds the Fiber app with every route registered.
func NewApp(cfg *config.Config, deps Dependencies) (*fiber.App, error) {
	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	// --- Repositories ---
	var productRepo repositories.ProductRepository = repositories.NewGORMProductRepository(deps.DB)
	var deduper services.EventDeduper
	if deps.Cache != nil {
		productRepo = repositories.NewCacheAsideProductRepository(productRepo, deps.Cache, cfg.CacheTTL)
		deduper = cache.NewDeduper(deps.Cache, "webhook", webhookDedupeTTL)
	}
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	categoryRepo := repositories.NewGORMCatalogRepository[models.Category](deps.DB, "category")
	warehouseRepo := repositories.NewGORMCatalogRepository[models.Warehouse](deps.DB, "warehouse")
	imageRepo := repositories.NewGORMCatalogRepository[models.ProductImage](deps.DB, "product image")
	reviewRepo := repositories.NewGORMCatalogRepository[models.Review](deps.DB, "review")
	inventoryRepo := repositories.NewGORMCatalogRepository[models.Inventory](deps.DB, "inventory")
	cartRepo := repositories.NewGORMCartRepository(deps.DB)
	orderRepo := repositories.NewGORMOrderRepository(deps.DB)
	paymentRepo := repositories.NewGORMPaymentRepository(deps.DB)

	// --- Services ---
	authService := services.NewAuthService(userRepo, services.AuthConfig{
		AccessSecret:  cfg.JWTSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	})
	productService := services.NewProductService(productRepo, categoryRepo)
	catalogService := services.NewCatalogService(categoryRepo, warehouseRepo)
	imageService := services.NewProductImageService(imageRepo, productRepo)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	inventoryService := services.NewInventoryService(inventoryRepo, productRepo, warehouseRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, deps.Publisher)
	paymentService := services.NewPaymentService(paymentRepo, orderRepo, deps.Gateway, deps.Publisher, deduper, cfg.StripeCurrency)

	// --- Handlers ---
	validate := handlers.NewValidator()
	paymentHandler := handlers.NewPaymentHandler(paymentService, validate)

	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(recover.New())
	app.Use(cors.New())

	handlers.NewHealthHandler(sqlDB).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")

	// Public routes
	handlers.NewAuthHandler(authService, validate).RegisterRoutes(apiV1)
	paymentHandler.RegisterWebhook(apiV1)

	// Protected routes
	protected := apiV1.Group("", middleware.AuthRequired(cfg.JWTSecret))
	handlers.NewProductHandler(productService, validate).RegisterRoutes(protected)
	handlers.NewCatalogHandler(catalogService, validate).RegisterRoutes(protected)
	handlers.NewProductDetailHandler(imageService, reviewService, inventoryService, validate).RegisterRoutes(protected)
	handlers.NewCartHandler(cartService, validate).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService, cartService, validate).RegisterRoutes(protected)
	paymentHandler.RegisterRoutes(protected)

	return app, nil
}

// errorHandler renders errors that escape the handlers, such as unknown
// routes and recovered panics, in the response envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return c.Status(code).JSON(handlers.Response{Status: "error", Message: &message})
}
