package container

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/dispatcher"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/application/service"
	"github.com/garyjia/charge-information/internal/application/workflow"
	"github.com/garyjia/charge-information/internal/config"
	"github.com/garyjia/charge-information/internal/infrastructure/draftstore"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/repository"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/charge-information/internal/infrastructure/reference"
	"github.com/garyjia/charge-information/internal/infrastructure/worker"
	"github.com/garyjia/charge-information/migrations"
	"github.com/garyjia/charge-information/pkg/database"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	SqlDB          *sql.DB
	TransactionMgr *sqlite.DB
}

// RepositoryBundle groups all repositories for convenient access.
type RepositoryBundle struct {
	Workflow      port.WorkflowRepository
	History       port.HistoryRepository
	ChargeVersion port.ChargeVersionRepository
}

// DraftBundle holds the draft repository, its expiry purger and, for
// persistent backends, its closer.
type DraftBundle struct {
	Repository port.DraftRepository
	Purger     draftstore.Purger
	Close      func() error
}

// ProvideDatabase opens the database and applies pending migrations, from
// the configured directory or else from the embedded set.
func ProvideDatabase(cfg *config.DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		BusyTimeout:     cfg.BusyTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	migrator := database.NewMigrator(db, logger)
	if cfg.MigrationsDir != "" {
		err = migrator.RunMigrations(cfg.MigrationsDir)
	} else {
		err = migrator.RunMigrationsFS(migrations.FS)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if version, err := migrator.Version(context.Background()); err == nil {
		logger.Info("Database schema ready", zap.Int("version", version))
	}

	return &DatabaseBundle{
		SqlDB:          db.DB,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(sqlDB *sql.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if sqlDB == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		Workflow:      repository.NewWorkflowRepository(sqlDB, logger),
		History:       repository.NewHistoryRepository(sqlDB, logger),
		ChargeVersion: repository.NewChargeVersionRepository(sqlDB, logger),
	}, nil
}

// ProvideDraftStore creates the configured draft repository.
func ProvideDraftStore(cfg *config.DraftsConfig, logger *zap.Logger) (*DraftBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("drafts config is required")
	}

	var opts []draftstore.Option
	if cfg.TTL > 0 {
		opts = append(opts, draftstore.WithTTL(cfg.TTL))
	}

	switch cfg.Backend {
	case config.DraftBackendBolt:
		store, err := draftstore.NewBoltStore(cfg.Path, logger, opts...)
		if err != nil {
			return nil, err
		}
		return &DraftBundle{Repository: store, Purger: store, Close: store.Close}, nil

	case config.DraftBackendMemory, "":
		store := draftstore.NewMemoryStore(opts...)
		return &DraftBundle{Repository: store, Purger: store, Close: func() error { return nil }}, nil

	default:
		return nil, fmt.Errorf("unknown draft backend %q", cfg.Backend)
	}
}

// ProvideWorkers registers the background jobs. The draft sweeper is opt-in:
// it runs only when drafts expire and a sweep interval is set. Without it
// expired drafts are still dropped lazily on read.
func ProvideWorkers(cfg *config.DraftsConfig, drafts *DraftBundle, logger *zap.Logger) (*worker.Manager, error) {
	if cfg == nil || drafts == nil {
		return nil, fmt.Errorf("drafts config and draft store are required")
	}

	manager := worker.NewManager(logger)
	if cfg.TTL > 0 && cfg.SweepInterval > 0 && drafts.Purger != nil {
		manager.Register(worker.NewDraftSweeper(drafts.Purger, cfg.SweepInterval, logger))
	}
	return manager, nil
}

// ProvideReference loads the reference data catalogue.
func ProvideReference(cfg *config.ReferenceConfig) (*reference.Catalogue, error) {
	if cfg == nil {
		return nil, fmt.Errorf("reference config is required")
	}
	return reference.Load(cfg.Path)
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) (dispatcher.Dispatcher, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return dispatcher.NewDispatcher(
		dispatcher.WithLogger(&zapLoggerAdapter{logger: logger}),
	), nil
}

// WorkflowDeps holds dependencies required for creating the workflow engine.
type WorkflowDeps struct {
	Repos      *RepositoryBundle
	TxManager  port.TransactionManager
	Drafts     port.DraftRepository
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.Logger
}

// ProvideWorkflowEngine creates the workflow persistence service and the engine driving it.
func ProvideWorkflowEngine(deps *WorkflowDeps) (*persistence.WorkflowService, workflow.Engine, error) {
	if deps == nil {
		return nil, nil, fmt.Errorf("workflow dependencies are required")
	}
	if deps.Repos == nil {
		return nil, nil, fmt.Errorf("repositories are required")
	}
	if deps.TxManager == nil {
		return nil, nil, fmt.Errorf("transaction manager is required")
	}
	if deps.Drafts == nil {
		return nil, nil, fmt.Errorf("draft repository is required")
	}

	workflows := persistence.NewWorkflowService(deps.TxManager, deps.Repos.Workflow, deps.Repos.ChargeVersion, deps.Logger)

	var opts []workflow.EngineOption
	if deps.Dispatcher != nil {
		opts = append(opts, workflow.WithDispatcher(deps.Dispatcher))
	}
	engine := workflow.NewEngine(workflows, deps.Drafts, deps.Repos.History, deps.TxManager, opts...)

	return workflows, engine, nil
}

// ServiceDeps holds dependencies required for creating the charge information service.
type ServiceDeps struct {
	Drafts    port.DraftRepository
	Catalogue *reference.Catalogue
	Workflows port.WorkflowService
	Engine    workflow.Engine
	Charging  *config.ChargingConfig
	Logger    *zap.Logger
}

// ProvideChargeInformationService creates the charge information service.
func ProvideChargeInformationService(deps *ServiceDeps) (service.ChargeInformationService, error) {
	if deps == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}
	if deps.Catalogue == nil {
		return nil, fmt.Errorf("reference catalogue is required")
	}
	if deps.Charging == nil {
		return nil, fmt.Errorf("charging config is required")
	}

	cutover, err := deps.Charging.Cutover()
	if err != nil {
		return nil, fmt.Errorf("invalid sroc cutover: %w", err)
	}

	opts := []service.ServiceOption{service.WithCutover(cutover)}
	if deps.Charging.ChangeReasonType != "" {
		opts = append(opts, service.WithChangeReasonType(deps.Charging.ChangeReasonType))
	}

	return service.NewChargeInformationService(
		deps.Drafts,
		deps.Catalogue,
		deps.Catalogue,
		deps.Workflows,
		deps.Engine,
		&zapLoggerAdapter{logger: deps.Logger},
		opts...,
	), nil
}
