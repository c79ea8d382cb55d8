package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	proposalservice "reviewdesk/contexts/programme/proposal-service"
	proposalpostgres "reviewdesk/contexts/programme/proposal-service/adapters/postgres"
	rankingservice "reviewdesk/contexts/programme/ranking-service"
	rankingpostgres "reviewdesk/contexts/programme/ranking-service/adapters/postgres"
	rankingredis "reviewdesk/contexts/programme/ranking-service/adapters/redis"
	reviewservice "reviewdesk/contexts/programme/review-service"
	reviewpostgres "reviewdesk/contexts/programme/review-service/adapters/postgres"
	randomadapter "reviewdesk/contexts/programme/review-service/adapters/random"
	reviewredis "reviewdesk/contexts/programme/review-service/adapters/redis"
	"reviewdesk/internal/platform/config"
	"reviewdesk/internal/platform/db"
	"reviewdesk/internal/platform/httpserver"
	"reviewdesk/internal/platform/redisconn"
	"reviewdesk/internal/shared/notify"

	"github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *redis.Client
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	rdb, err := redisconn.Connect(cfg.RedisURL)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	notifier := notify.LogSender{Logger: logger}

	proposalRepo := proposalpostgres.NewRepository(pg.DB, logger)
	proposalModule := proposalservice.NewModule(proposalservice.Dependencies{
		Proposals: proposalRepo,
		Messages:  proposalRepo,
		Notifier:  notifier,
		Clock:     proposalpostgres.SystemClock{},
		IDGen:     proposalpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	reviewRepo := reviewpostgres.NewRepository(pg.DB, logger)
	reviewModule := reviewservice.NewModule(reviewservice.Dependencies{
		Votes:           reviewRepo,
		Proposals:       reviewRepo,
		Sessions:        reviewredis.NewSessionStore(rdb, logger),
		Clock:           reviewpostgres.SystemClock{},
		IDGen:           reviewpostgres.UUIDGenerator{},
		Shuffler:        randomadapter.Shuffler{},
		BatchSize:       cfg.ReviewBatchSize,
		RebuildInterval: cfg.ReviewRebuildInterval,
		Logger:          logger,
	})

	rankingModule := rankingservice.NewModule(rankingservice.Dependencies{
		Proposals:  rankingpostgres.NewRepository(pg.DB, logger),
		Thresholds: rankingredis.NewThresholdStore(rdb, logger),
		Notifier:   notifier,
		Clock:      rankingpostgres.SystemClock{},
		TokenTTL:   cfg.ThresholdTTL,
		Logger:     logger,
	})

	server := httpserver.New(
		proposalModule,
		reviewModule,
		rankingModule,
		[]byte(cfg.JWTSecret),
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    rdb,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
