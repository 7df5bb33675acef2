package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/payment"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the external resources the HTTP app is built on.
// Publisher may be nil when no broker is configured.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Payments  payment.Gateway
	Publisher services.OrderEventPublisher
}

// NewApp wires repositories, services and handlers into a Fiber app.
func NewApp(deps Dependencies) (*fiber.App, *services.AuthService, error) {
	if deps.Config == nil || deps.DB == nil || deps.Payments == nil {
		return nil, nil, errors.New("config, database and payment gateway are required")
	}
	cfg := deps.Config
	store := repositories.NewGORMStore(deps.DB)

	// --- Initialize Services ---
	authService := services.NewAuthService(store.Users(), cfg.JWTSecret)
	categoryService := services.NewCategoryService(store)
	productService := services.NewProductService(store)
	cartService := services.NewCartService(store)
	orderService := services.NewOrderService(store, deps.Publisher)
	checkoutService := services.NewCheckoutService(store, deps.Payments, cfg.PaymentCurrency, cfg.AppURL)
	webhookService := services.NewWebhookService(store, deps.Payments, orderService)
	userService := services.NewUserService(store)
	dashboardService := services.NewDashboardService(store)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(userService, dashboardService)

	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")
	auth := middleware.AuthRequired(authService)

	authHandler.RegisterRoutes(apiV1)
	categoryHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)
	webhookHandler.RegisterRoutes(apiV1)

	cartHandler.RegisterRoutes(apiV1, auth)
	checkoutHandler.RegisterRoutes(apiV1, auth)
	orderHandler.RegisterRoutes(apiV1, auth)

	admin := apiV1.Group("/admin", auth, middleware.AdminOnly())
	categoryHandler.RegisterAdminRoutes(admin)
	productHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	adminHandler.RegisterAdminRoutes(admin)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, authService, nil
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.SeedData {
		if err := seedCatalog(repositories.NewGORMStore(db)); err != nil {
			log.Printf("Warning: seeding failed: %v", err)
		}
	}

	deps := Dependencies{
		Config:   cfg,
		DB:       db,
		Payments: payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret),
	}

	// --- Initialize RabbitMQ Client ---
	// Orders are still materialized without a broker; only the events are lost.
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer mqClient.Close()
			deps.Publisher = mqClient

			log.Println("Starting RabbitMQ consumer for orders...")
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent); err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	app, _, err := NewApp(deps)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
