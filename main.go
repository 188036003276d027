package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"shopadmin/internal/config"
	"shopadmin/internal/handlers"
	"shopadmin/internal/middleware"
	"shopadmin/internal/models"
	"shopadmin/internal/repositories"
	"shopadmin/internal/services"
	"shopadmin/pkg/events"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// --- Messaging ---
	// The broker is optional; every publisher is nil-safe.
	var mqClient *events.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = events.NewClient(events.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize event client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg, mqClient)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, mqClient)
	statsService := services.NewStatsService(userRepo, productRepo, orderRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService, cfg.UploadDir)
	orderHandler := handlers.NewOrderHandler(orderService)
	superAdminHandler := handlers.NewSuperAdminHandler(userService)
	statsHandler := handlers.NewStatsHandler(statsService)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	// --- Fiber App ---
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(cfg)})
	app.Use(logger.New())
	app.Use(cors.New())
	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	authRequired := middleware.AuthRequired(authService, userRepo)
	authOptional := middleware.AuthOptional(authService, userRepo)
	adminOnly := middleware.PermitRoles(models.RoleAdmin, models.RoleSuperAdmin)
	superAdminOnly := middleware.PermitRoles(models.RoleSuperAdmin)

	api := app.Group("/api")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api, authRequired, authOptional)
	orderHandler.RegisterRoutes(api, authRequired)
	userHandler.RegisterRoutes(api, authRequired, adminOnly)
	statsHandler.RegisterRoutes(api, authRequired, adminOnly)
	uploadHandler.RegisterRoutes(api, authRequired, adminOnly)
	superAdminHandler.RegisterRoutes(api, authRequired, superAdminOnly)

	app.Use(handlers.NotFoundHandler)

	// --- Password-reset consumer ---
	// Email delivery is simulated: reset events are consumed and logged.
	if mqClient != nil {
		go func() {
			handler := func(msg amqp.Delivery) error {
				log.Printf("[email simulation] password reset event: %s", string(msg.Body))
				return nil
			}
			if consumeErr := mqClient.Consume("password_reset_events", handler); consumeErr != nil {
				log.Printf("Failed to start password reset consumer: %v", consumeErr)
			}
		}()
	}

	// --- Serve ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
