package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbackoffice/api"
	"github.com/Domenick1991/travelbackoffice/config"
	"github.com/Domenick1991/travelbackoffice/internal/bootstrap"
	"github.com/Domenick1991/travelbackoffice/internal/cache"
	"github.com/Domenick1991/travelbackoffice/internal/kafka"
	"github.com/Domenick1991/travelbackoffice/internal/logger"
	"github.com/Domenick1991/travelbackoffice/internal/repository"
	"github.com/Domenick1991/travelbackoffice/internal/schema"
	"github.com/Domenick1991/travelbackoffice/internal/service/booking"
	"github.com/Domenick1991/travelbackoffice/internal/service/directory"
	"github.com/Domenick1991/travelbackoffice/internal/service/lookup"
	"github.com/Domenick1991/travelbackoffice/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
)

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
	log := logger.New(cfg.App.Env)

	bookingSchema := config.DefaultSchema()
	if cfg.Draft.SchemaPath != "" {
		bookingSchema, err = config.LoadSchema(cfg.Draft.SchemaPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Draft.SchemaPath).Msg("load booking schema")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(
		cfg.Redis,
		time.Duration(cfg.Draft.SessionTTLMinutes)*time.Minute,
		time.Duration(cfg.Directory.CacheTTLSeconds)*time.Second,
	)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()

	mapper := schema.NewMapper(bookingSchema, log)
	bookingRepo := repository.NewBookingRepository(pool, mapper.Table())
	customerRepo := repository.NewCustomerRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		mapper,
		validation.NewDraftValidator(),
		producer,
		cfg.Draft.DefaultNationality,
		log,
		booking.WithAuditTopic(cfg.Kafka.AuditTopic),
	)
	lookupService := lookup.NewLookupService(
		customerRepo,
		time.Duration(cfg.Lookup.DebounceMillis)*time.Millisecond,
		cfg.Lookup.Limit,
	)
	directoryService := directory.NewDirectoryService(directoryRepo, redisCache, log)

	log.Info().Int("schema_version", mapper.Version()).Str("table", mapper.Table()).Msg("starting backoffice api")

	if err := bootstrap.Run(ctx, cfg, log,
		bootstrap.Route{Prefix: "/drafts", Handler: api.NewDraftHandler(bookingService)},
		bootstrap.Route{Prefix: "/lookup", Handler: api.NewLookupHandler(lookupService)},
		bootstrap.Route{Prefix: "/directory", Handler: api.NewDirectoryHandler(directoryService)},
	); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
