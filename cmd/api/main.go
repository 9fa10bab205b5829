package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/tillworks/checkout-api/internal/application/service"
	"github.com/tillworks/checkout-api/internal/config"
	"github.com/tillworks/checkout-api/internal/infrastructure/database"
	"github.com/tillworks/checkout-api/internal/infrastructure/repository"
	"github.com/tillworks/checkout-api/internal/presentation/http/handler"
	"github.com/tillworks/checkout-api/internal/presentation/http/routes"
	"github.com/tillworks/checkout-api/pkg/email"
	"github.com/tillworks/checkout-api/pkg/export"
	"github.com/tillworks/checkout-api/pkg/oauth"
	"github.com/tillworks/checkout-api/pkg/printer"
	"github.com/tillworks/checkout-api/pkg/terminal"
	"github.com/tillworks/checkout-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed the default business and admin user
	if err := database.SeedDefaultData(db); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	businessRepo := repository.NewBusinessRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	sessionRepo := repository.NewCartSessionRepository(db)
	itemRepo := repository.NewCartItemRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	shiftRepo := repository.NewShiftRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.JWT.RefreshExpiryHours)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize Google OAuth service
	googleOAuth := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:     cfg.OAuth.GoogleClientID,
		ClientSecret: cfg.OAuth.GoogleClientSecret,
		RedirectURL:  cfg.OAuth.GoogleRedirectURL,
	})

	// Initialize receipt printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: printer unavailable, receipts will not be printed: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize card terminal
	cardTerminal, err := terminal.NewTerminalFromConfig(cfg.Terminal.Type, cfg.Terminal.Address)
	if err != nil {
		log.Printf("Warning: card terminal unavailable, card payments will fail: %v", err)
		cardTerminal = terminal.NewNullTerminal()
	}

	// Initialize receipt exporter
	exporter := export.NewExporter(cfg.Storage.Path)

	// Initialize services
	paymentService := service.NewPaymentService(cardTerminal, cfg.Receipt.Currency)
	cartService := service.NewCartService(sessionRepo, itemRepo, productRepo, categoryRepo, shiftRepo, userRepo)
	receiptService := service.NewReceiptService(txnRepo, sessionRepo, userRepo, businessRepo, cartService, thermalPrinter, exporter, emailService, cfg.Printer.Width)
	checkoutService := service.NewCheckoutService(sessionRepo, txnRepo, shiftRepo, userRepo, businessRepo, paymentService, receiptService, thermalPrinter, cfg.Receipt.NumberPrefix)
	shiftService := service.NewShiftService(shiftRepo, txnRepo)
	transactionService := service.NewTransactionService(txnRepo)
	authService := service.NewAuthService(userRepo, businessRepo, jwtManager, googleOAuth)
	printerService := service.NewPrinterService(thermalPrinter, receiptService, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Cart:        handler.NewCartHandler(cartService),
		Checkout:    handler.NewCheckoutHandler(checkoutService, paymentService, cartService),
		Receipt:     handler.NewReceiptHandler(receiptService),
		Shift:       handler.NewShiftHandler(shiftService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Printer:     handler.NewPrinterHandler(printerService),
	}

	// Setup router
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Start server
	port := cfg.App.Port
	if envPort := os.Getenv("PORT"); envPort != "" {
		port = envPort
	}

	log.Printf("Starting %s on port %s", cfg.App.Name, port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
