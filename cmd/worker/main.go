package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/travelbackoffice/config"
	"github.com/Domenick1991/travelbackoffice/internal/kafka"
	"github.com/Domenick1991/travelbackoffice/internal/logger"
	"github.com/Domenick1991/travelbackoffice/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The worker drains the audit topic into the append-only audit_log table.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		l := logger.New("")
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.App.Env).With().Str("component", "audit_worker").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	auditRepo := repository.NewAuditRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.AuditTopic, log)
	defer consumer.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := consumer.Consume(ctx, kafka.AuditHandler(log, auditRepo.Append))
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("consumer stopped")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-done
	case <-done:
	}
}
