package main

import (
	"log"

	"garage/internal/app"
	"garage/internal/config"
	"garage/internal/database"
	"garage/internal/jobs"
	"garage/internal/notification"
	"garage/pkg/logger"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const concurrency = 10

// The worker consumes the tasks cmd/api enqueues when JOBS_INLINE=false:
// invoice PDF rendering and outbound notification delivery.
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

	db, err := database.NewConnection(cfg.Database.DSN(), !cfg.IsProduction())
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}

	store, err := app.NewStorage(cfg, zlog)
	if err != nil {
		zlog.Fatal("storage init failed", zap.Error(err))
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	dispatcher := jobs.NewAsynqDispatcher(redisOpt, zlog.Named("jobs"))
	defer func() { _ = dispatcher.Close() }()

	container := app.NewContainer(cfg, db, app.Infra{
		Dispatcher: dispatcher,
		Publisher:  notification.NewLogPublisher(zlog.Named("publish")),
		Storage:    store,
	}, zlog)

	mux := asynq.NewServeMux()
	jobs.Register(mux, container.Invoices, notification.NewLogDeliverer(zlog.Named("deliver")), zlog.Named("jobs"))

	srv := jobs.NewServer(redisOpt, concurrency, zlog.Named("worker"))
	zlog.Info("worker started", zap.String("redis", cfg.Redis.Addr))
	if err := srv.Run(mux); err != nil {
		zlog.Fatal("worker stopped", zap.Error(err))
	}
}
