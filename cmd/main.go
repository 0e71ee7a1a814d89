package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"cleanup-ventures/internal/auth"
	"cleanup-ventures/internal/config"
	"cleanup-ventures/internal/database"
	"cleanup-ventures/internal/handlers"
	"cleanup-ventures/internal/middleware"
	"cleanup-ventures/internal/repository"
	"cleanup-ventures/internal/services"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	db := database.GetDB()
	repo := repository.NewRepository(db)

	// Initialize services
	walletService := services.NewWalletService(db, repo, cfg.App.InitialWalletBalance, logger)
	settlementService := services.NewSettlementService(db, repo, walletService, logger)
	ventureService := services.NewVentureService(db, repo, settlementService, logger)
	membershipService := services.NewMembershipService(db, repo, settlementService, logger)
	requestService := services.NewRequestService(db, repo, settlementService, logger)
	taskService := services.NewTaskService(db, repo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	ventureHandler := handlers.NewVentureHandler(ventureService, membershipService, settlementService, logger)
	membershipHandler := handlers.NewMembershipHandler(membershipService, logger)
	requestHandler := handlers.NewRequestHandler(requestService, membershipService, logger)
	walletHandler := handlers.NewWalletHandler(walletService, settlementService, membershipService, logger)
	taskHandler := handlers.NewTaskHandler(taskService, membershipService)

	// Set up Gin router
	router := gin.New()
	router.Use(middleware.Logger(logger))
	router.Use(gin.Recovery())

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	router.POST("/auth/token", authHandler.Token)

	// Public venture routes
	router.GET("/api/ventures", ventureHandler.List)
	router.GET("/api/ventures/:id", ventureHandler.Get)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Venture lifecycle
		api.POST("/ventures", ventureHandler.Create)
		api.PATCH("/ventures/:id", ventureHandler.Patch)
		api.PUT("/ventures/:id/status", ventureHandler.UpdateStatus)
		api.GET("/ventures/:id/ledger", ventureHandler.GetLedger)

		// Membership
		api.GET("/ventures/:id/members", membershipHandler.List)
		api.GET("/ventures/:id/members/me", membershipHandler.Me)
		api.POST("/ventures/:id/members", membershipHandler.Add)
		api.PATCH("/ventures/:id/members/:memberId", membershipHandler.Update)
		api.DELETE("/ventures/:id/members/:memberId", membershipHandler.Remove)
		api.POST("/ventures/:id/leave", membershipHandler.Leave)

		// Join requests
		api.POST("/ventures/:id/requests", requestHandler.Submit)
		api.GET("/ventures/:id/requests", requestHandler.List)
		api.GET("/ventures/:id/requests/pending", requestHandler.HasPending)
		api.PUT("/ventures/:id/requests/:requestId", requestHandler.Decide)

		// Pledges and venture finances
		api.GET("/ventures/:id/pledges", walletHandler.GetPledges)
		api.POST("/ventures/:id/pledges", walletHandler.RecordPledge)
		api.DELETE("/ventures/:id/pledges/me", walletHandler.RemovePledge)
		api.POST("/ventures/:id/contributions", walletHandler.Contribute)
		api.POST("/ventures/:id/purchases", walletHandler.RecordPurchase)

		// Tasks
		api.GET("/ventures/:id/tasks", taskHandler.List)
		api.POST("/ventures/:id/tasks", taskHandler.Create)
		api.PUT("/ventures/:id/tasks/:taskId/complete", taskHandler.Complete)

		// Personal wallet
		api.GET("/wallet", walletHandler.GetBalance)
		api.GET("/wallet/transactions", walletHandler.GetTransactions)
		api.POST("/wallet/topup", walletHandler.Topup)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
