package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "garage/api/swagger" // swagger docs
	"garage/internal/app"
	"garage/internal/config"
	"garage/internal/database"
	"garage/internal/jobs"
	"garage/internal/middleware"
	"garage/internal/notification"
	"garage/internal/websocket"
	"garage/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Garage Work Order API
// @version         1.0
// @description     Work orders, customer approvals, inspections, invoicing and payments for an auto repair shop.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	middleware.SetJWTSecret(cfg.JWTSecret)

	db, err := database.NewConnection(cfg.Database.DSN(), !cfg.IsProduction())
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	zlog.Info("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(zlog.Named("ws"))
	go wsHub.Run()
	defer wsHub.Stop()

	store, err := app.NewStorage(cfg, zlog)
	if err != nil {
		zlog.Fatal("storage init failed", zap.Error(err))
	}
	gateway, err := app.NewGateway(cfg, zlog)
	if err != nil {
		zlog.Fatal("payment gateway init failed", zap.Error(err))
	}

	// Background jobs run in-process unless a worker is deployed next to Redis.
	var dispatcher jobs.Dispatcher
	mux := asynq.NewServeMux()
	if cfg.JobsInline {
		dispatcher = jobs.NewInlineDispatcher(mux, zlog.Named("jobs"))
	} else {
		asynqDispatcher := jobs.NewAsynqDispatcher(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, zlog.Named("jobs"))
		defer func() { _ = asynqDispatcher.Close() }()
		dispatcher = asynqDispatcher
	}

	container := app.NewContainer(cfg, db, app.Infra{
		Dispatcher: dispatcher,
		Publisher:  wsHub,
		Storage:    store,
		Gateway:    gateway,
	}, zlog)

	if cfg.JobsInline {
		jobs.Register(mux, container.Invoices, notification.NewLogDeliverer(zlog.Named("deliver")), zlog.Named("jobs"))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(zlog.Named("http")), middleware.Recovery(zlog))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	if cfg.Cloudinary == "" {
		router.Static(cfg.StorageURL, cfg.StorageDir)
	}

	container.RegisterRoutes(router.Group(""))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("server listening", zap.String("port", cfg.Port), zap.Bool("jobs_inline", cfg.JobsInline))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
