package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tillworks/checkout-api/internal/config"
	"github.com/tillworks/checkout-api/internal/domain/enum"
	domainRepo "github.com/tillworks/checkout-api/internal/domain/repository"
	"github.com/tillworks/checkout-api/internal/presentation/http/handler"
	"github.com/tillworks/checkout-api/internal/presentation/http/middleware"
	"github.com/tillworks/checkout-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth        *handler.AuthHandler
	Cart        *handler.CartHandler
	Checkout    *handler.CheckoutHandler
	Receipt     *handler.ReceiptHandler
	Shift       *handler.ShiftHandler
	Transaction *handler.TransactionHandler
	Printer     *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-terminal rate limiter
		rateLimiter := middleware.NewTerminalRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		// Google sign-in routes
		auth.GET("/google", h.Auth.GoogleAuthURL)
		auth.POST("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile / user management
	protected.GET("/auth/me", h.Auth.Me)
	protected.POST("/auth/register",
		middleware.RequireRole(enum.RoleAdmin.String()), h.Auth.Register)

	// Cart sessions
	cart := protected.Group("/cart")
	{
		cart.GET("", h.Cart.GetActive)
		cart.POST("/:id/items", h.Cart.AddItem)
		cart.DELETE("/:id/items/:itemId", h.Cart.RemoveItem)
	}

	// Payment and completion
	checkout := protected.Group("/checkout")
	{
		checkout.POST("/:id/method", h.Checkout.SelectMethod)
		checkout.POST("/:id/tendered", h.Checkout.SetTendered)
		checkout.POST("/:id/capture", h.Checkout.Capture)
		checkout.POST("/:id/cancel", h.Checkout.CancelPayment)
		checkout.GET("/:id/payment", h.Checkout.PaymentState)
		// Completion accepts an Idempotency-Key header so a retried
		// submit replays the recorded response instead of re-running.
		checkout.POST("/:id/complete", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Checkout.Complete)
	}

	// Receipt dispositions
	receipts := protected.Group("/receipts")
	{
		receipts.POST("/finish", h.Receipt.Finish)
		receipts.POST("/:id/print", h.Receipt.Print)
		receipts.POST("/:id/export", h.Receipt.Export)
		receipts.POST("/:id/email", h.Receipt.Email)
	}

	// Shifts
	shifts := protected.Group("/shifts")
	{
		shifts.POST("", h.Shift.Open)
		shifts.GET("", h.Shift.List)
		shifts.GET("/active", h.Shift.GetActive)
		shifts.POST("/close", h.Shift.Close)
		shifts.GET("/:id/report", h.Shift.Report)
	}

	// Transactions
	transactions := protected.Group("/transactions")
	{
		transactions.GET("", h.Transaction.List)
		transactions.GET("/:id", h.Transaction.Get)
		transactions.GET("/receipt/:receiptNo", h.Transaction.GetByReceiptNo)
		transactions.POST("/:id/void",
			middleware.RequireRole(enum.RoleAdmin.String()), h.Transaction.Void)
	}

	// Printer diagnostics
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.Status)
		printerGroup.POST("/test", h.Printer.TestPrint)
	}
}
