package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scientifictooffi/itransition-4task/internal/api"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/config"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/db/postgres"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/db/redis"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/mail"
	"github.com/scientifictooffi/itransition-4task/internal/infrastructure/queue"
	"github.com/scientifictooffi/itransition-4task/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.Database.URL, SSL: cfg.Database.SSL})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	var mailer ports.Mailer
	if cfg.SMTP.Configured() {
		mailer, err = mail.NewSMTPSender(mail.Config{
			Host: cfg.SMTP.Host,
			Port: cfg.SMTP.Port,
			User: cfg.SMTP.User,
			Pass: cfg.SMTP.Pass,
			From: cfg.SMTP.From,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to configure SMTP transport")
		}
	} else {
		log.Warn().Msg("no SMTP transport configured, verification links are logged only")
		mailer = mail.NewLogSender(log)
	}

	mailQueue := queue.NewDispatcher(0, mailer, log)
	mailQueue.Start(ctx)

	e := api.NewRouter(cfg, db, rdb, mailQueue, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
