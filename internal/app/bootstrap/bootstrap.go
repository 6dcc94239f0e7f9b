package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	client "crmhub/contexts/client-relations/client-service"
	clientpostgres "crmhub/contexts/client-relations/client-service/adapters/postgres"
	manager "crmhub/contexts/client-relations/manager-service"
	managerpostgres "crmhub/contexts/client-relations/manager-service/adapters/postgres"
	timeline "crmhub/contexts/client-relations/timeline-service"
	timelinepostgres "crmhub/contexts/client-relations/timeline-service/adapters/postgres"
	"crmhub/internal/platform/config"
	"crmhub/internal/platform/db"
	"crmhub/internal/platform/httpserver"
	"crmhub/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	clients  client.Module
	timeline timeline.Module
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

	pg, err := db.Connect(cfg.PostgresDSN, db.Options{
		MaxOpenConns:  cfg.MaxOpenConns,
		StatementWait: cfg.StatementWait,
	})
	if err != nil {
		return nil, err
	}

	clientRepo := clientpostgres.NewRepository(pg.DB, logger)
	clientModule := client.NewModule(client.Dependencies{
		Reader: clientRepo,
		Writer: clientRepo,
		Logger: logger,
	})

	managerRepo := managerpostgres.NewRepository(pg.DB, logger)
	managerModule := manager.NewModule(manager.Dependencies{
		Reader: managerRepo,
		Writer: managerRepo,
		Logger: logger,
	})

	timelineRepo := timelinepostgres.NewRepository(pg.DB, logger)
	directory := timelinepostgres.NewDirectory(pg.DB)
	timelineModule := timeline.NewModule(timeline.Dependencies{
		Events:      timelineRepo,
		Clients:     directory,
		Managers:    directory,
		Clock:       timelinepostgres.SystemClock{},
		IDGenerator: timelinepostgres.UUIDGenerator{},
		Logger:      logger,
	})

	server := httpserver.New(clientModule, managerModule, timelineModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, db.Options{
		MaxOpenConns:  cfg.MaxOpenConns,
		StatementWait: cfg.StatementWait,
	})
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	clientRepo := clientpostgres.NewRepository(pg.DB, logger)
	clientModule := client.NewModule(client.Dependencies{
		Reader:              clientRepo,
		Writer:              clientRepo,
		Subscriber:          kafka,
		ImportTopic:         cfg.ClientImportTopic,
		ImportConsumerGroup: "client-service-import-cg",
		ImportDisabled:      !cfg.EnableClientImportConsumer,
		Logger:              logger,
	})

	timelineRepo := timelinepostgres.NewRepository(pg.DB, logger)
	directory := timelinepostgres.NewDirectory(pg.DB)
	timelineModule := timeline.NewModule(timeline.Dependencies{
		Events:      timelineRepo,
		Clients:     directory,
		Managers:    directory,
		Clock:       timelinepostgres.SystemClock{},
		IDGenerator: timelinepostgres.UUIDGenerator{},

		Subscriber:             kafka,
		ReplyTopic:             cfg.ReplyTopic,
		ReplyConsumerGroup:     "timeline-service-reply-cg",
		ReplyDisabled:          !cfg.EnableReplyConsumer,
		EmailSentTopic:         cfg.EmailSentTopic,
		EmailSentConsumerGroup: "timeline-service-email-cg",
		EmailSentDisabled:      !cfg.EnableEmailSentConsumer,

		Logger: logger,
	})

	return &WorkerApp{
		postgres: pg,
		clients:  clientModule,
		timeline: timelineModule,
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
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run subscribes every enabled consumer; a failed subscription is fatal for
// the process so the supervisor can restart it.
func (w *WorkerApp) Run(ctx context.Context) error {
	if w.timeline.ReplyConsumer != nil {
		if err := w.timeline.ReplyConsumer.Start(ctx); err != nil {
			return err
		}
	}
	if w.timeline.EmailSentConsumer != nil {
		if err := w.timeline.EmailSentConsumer.Start(ctx); err != nil {
			return err
		}
	}
	if w.clients.ImportConsumer != nil {
		if err := w.clients.ImportConsumer.Start(ctx); err != nil {
			return err
		}
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	<-ctx.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
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
