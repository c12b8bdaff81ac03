package main

import (
	"github.com/OumaCavin/DataLinkCRM/internal/handler"
	mid "github.com/OumaCavin/DataLinkCRM/internal/middleware"
	"github.com/OumaCavin/DataLinkCRM/pkg/cache"
	"github.com/OumaCavin/DataLinkCRM/pkg/config"
	"github.com/OumaCavin/DataLinkCRM/pkg/database"
	"github.com/OumaCavin/DataLinkCRM/pkg/jwtutil"
	"github.com/OumaCavin/DataLinkCRM/pkg/logger"
	"github.com/OumaCavin/DataLinkCRM/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting DataLinkCRM service...", cfg.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", cfg.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize cache; the service degrades to DB-only without it
	if err := cache.Init(cfg); err != nil {
		log.Warn("Cache unavailable, running without dashboard caching", zap.Error(err))
	} else {
		log.Info("Cache connection established", zap.String("addr", cfg.Redis.Addr))
	}

	// Hand site and timezone configuration to the handlers
	handler.Init(cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(mid.MetricsMiddleware)

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/health/detailed", handler.DetailedHealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Dashboard routes - all require authentication
	dash := e.Group("/dashboard", mid.AuthMiddleware)
	dash.GET("", handler.DashboardIndex)
	dash.GET("/analytics", handler.DashboardAnalytics)
	dash.GET("/api/dashboard-data", handler.GetDashboardData)
	dash.POST("/stats/recompute", handler.RecomputeStats)

	// Notification center
	dash.GET("/notifications", handler.ListNotifications)
	dash.GET("/notifications/unread-count", handler.UnreadNotificationCount)
	dash.POST("/notifications/:id/mark-read", handler.MarkNotificationRead)
	dash.POST("/notifications/mark-all-read", handler.MarkAllNotificationsRead)

	// Widget and quick action configuration
	dash.GET("/widgets", handler.ListWidgets)
	dash.POST("/widgets", handler.CreateWidget)
	dash.GET("/widgets/:id/data", handler.WidgetData)
	dash.PUT("/widgets/:id", handler.UpdateWidget)
	dash.DELETE("/widgets/:id", handler.DeleteWidget)
	dash.GET("/quick-actions", handler.ListQuickActions)
	dash.POST("/quick-actions", handler.CreateQuickAction)
	dash.PUT("/quick-actions/:id", handler.UpdateQuickAction)
	dash.DELETE("/quick-actions/:id", handler.DeleteQuickAction)

	// Record store API routes
	customerAPI := e.Group("/api/customers", mid.AuthMiddleware)
	customerAPI.GET("", handler.ListCustomers)
	customerAPI.GET("/:id", handler.GetCustomer)
	customerAPI.POST("", handler.CreateCustomer)
	customerAPI.PUT("/:id", handler.UpdateCustomer)
	customerAPI.DELETE("/:id", handler.DeleteCustomer)

	projectAPI := e.Group("/api/projects", mid.AuthMiddleware)
	projectAPI.GET("", handler.ListProjects)
	projectAPI.GET("/:id", handler.GetProject)
	projectAPI.POST("", handler.CreateProject)
	projectAPI.PUT("/:id", handler.UpdateProject)
	projectAPI.DELETE("/:id", handler.DeleteProject)

	paymentAPI := e.Group("/api/payments", mid.AuthMiddleware)
	paymentAPI.GET("", handler.ListPayments)
	paymentAPI.GET("/:id", handler.GetPayment)
	paymentAPI.POST("", handler.CreatePayment)
	paymentAPI.PATCH("/:id/status", handler.UpdatePaymentStatus)
	paymentAPI.DELETE("/:id", handler.DeletePayment)

	subscriptionAPI := e.Group("/api/subscriptions", mid.AuthMiddleware)
	subscriptionAPI.GET("", handler.ListSubscriptions)
	subscriptionAPI.GET("/:id", handler.GetSubscription)
	subscriptionAPI.POST("", handler.CreateSubscription)
	subscriptionAPI.PUT("/:id", handler.UpdateSubscription)
	subscriptionAPI.DELETE("/:id", handler.DeleteSubscription)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
