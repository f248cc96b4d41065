// Package main runs the prize draw Telegram bot with the alert delivery
// worker and graceful shutdown.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/prizedraw/backend/config"
	"github.com/prizedraw/backend/internal/alerts"
	"github.com/prizedraw/backend/internal/flow"
	"github.com/prizedraw/backend/internal/participants"
	"github.com/prizedraw/backend/internal/session"
	"github.com/prizedraw/backend/internal/telegram"
	"github.com/prizedraw/backend/pkg/database"
	"github.com/prizedraw/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if err := cfg.ValidateBot(); err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}
	if err := database.MigrateLegacyCodeWord(ctx, pool); err != nil {
		logger.Fatal("legacy migrate", zap.Error(err))
	}

	rdb, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	sessions := session.NewStore(rdb, time.Duration(cfg.Registration.SessionTTLMinutes)*time.Minute)
	repo := participants.NewRepository(pool)
	alertQueue := alerts.NewQueue(rdb, logger)

	engine := flow.NewEngine(sessions, repo, alertQueue, logger, cfg.Registration.PhoneMinDigits)

	bot, err := telegram.New(cfg.Bot.Token, engine, repo, cfg.Bot.AdminChatID, logger)
	if err != nil {
		logger.Fatal("telegram", zap.Error(err))
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	worker := alerts.NewWorker(alertQueue, bot, logger)
	go worker.Run(runCtx)
	go bot.Run(runCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	logger.Info("bot shut down")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
