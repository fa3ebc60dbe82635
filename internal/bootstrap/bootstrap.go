package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kirillkom/filenet-dms-connector/internal/config"
	"github.com/kirillkom/filenet-dms-connector/internal/core/identity"
	"github.com/kirillkom/filenet-dms-connector/internal/core/ports"
	"github.com/kirillkom/filenet-dms-connector/internal/core/usecase"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/ecm"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/filenet-dms-connector/internal/infrastructure/resilience"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Docs     *usecase.DocumentService
	Executor *resilience.Executor
	Audit    ports.AuditJournal

	closeFn func()
}

// New wires the document facade. The audit journal is only opened when a
// DSN is configured; observer may be nil.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, observer ports.OperationObserver) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	executor := resilience.NewExecutor(resilience.Config{
		BreakerEnabled:          cfg.ECMBreakerEnabled,
		BreakerMinRequests:      uint32(max(cfg.ECMBreakerMinRequests, 0)),
		BreakerFailureRatio:     cfg.ECMBreakerFailureRatio,
		BreakerOpenTimeout:      cfg.ECMBreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: uint32(max(cfg.ECMBreakerHalfOpenMaxCalls, 0)),
	}, logger)

	gateway, err := ecm.New(ecm.Config{
		BaseURL:      cfg.ECMBaseURL,
		Username:     cfg.ECMUsername,
		Password:     cfg.ECMPassword,
		Namespace:    cfg.FileNetNamespace,
		SourceSystem: cfg.ECMSourceSystem,
		Timeout:      cfg.ECMTimeout,
		Debug:        cfg.ECMDebug,
		RedactFields: cfg.ECMRedactFields,
	}, logger, executor)
	if err != nil {
		return nil, fmt.Errorf("init ecm gateway: %w", err)
	}

	resolver := identity.NewResolver(identity.Config{
		CallerKey:            cfg.IdentityCallerKey,
		ReauthorizeAttribute: cfg.IdentityReauthorizeAttribute,
		TechnicalUserID:      cfg.IdentityTechnicalUser,
	}, logger)

	opts := []usecase.DocumentServiceOption{
		usecase.WithLogger(logger),
		usecase.WithMetadataUpdate(!cfg.MetadataNotSupported),
	}
	if observer != nil {
		opts = append(opts, usecase.WithObserver(observer))
	}

	var db *sql.DB
	var journal ports.AuditJournal
	if cfg.AuditPostgresDSN != "" {
		db, err = postgres.OpenDB(cfg.AuditPostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open audit postgres: %w", err)
		}
		repo := postgres.NewAuditRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure audit schema: %w", err)
		}
		journal = repo
		opts = append(opts, usecase.WithAuditJournal(repo))
	}

	docs := usecase.NewDocumentService(gateway, resolver, cfg.FileNetNamespace, opts...)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Docs:     docs,
		Executor: executor,
		Audit:    journal,

		closeFn: func() {
			if db != nil {
				_ = db.Close()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
