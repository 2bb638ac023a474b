// Package container wires the charge information service together and owns
// the lifecycle of its components.
package container

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garyjia/charge-information/internal/application/dispatcher"
	"github.com/garyjia/charge-information/internal/application/navigation"
	"github.com/garyjia/charge-information/internal/application/port"
	"github.com/garyjia/charge-information/internal/application/service"
	"github.com/garyjia/charge-information/internal/application/workflow"
	"github.com/garyjia/charge-information/internal/config"
	"github.com/garyjia/charge-information/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/charge-information/internal/infrastructure/storage"
	"github.com/garyjia/charge-information/internal/infrastructure/worker"
	"github.com/garyjia/charge-information/internal/interfaces/export"
	httpapi "github.com/garyjia/charge-information/internal/interfaces/http"
	"github.com/garyjia/charge-information/internal/observability/metrics"
)

// Container manages all application dependencies and lifecycle.
// Components are initialized in dependency order and torn down in reverse.
type Container struct {
	config *config.Config
	logger *zap.Logger

	sqlDB        *sql.DB
	db           *sqlite.DB
	repositories *RepositoryBundle
	drafts       *DraftBundle
	workers      *worker.Manager

	fileStorage port.FileStorage
	exporter    *export.Exporter

	dispatcher        dispatcher.Dispatcher
	workflows         port.WorkflowService
	engine            workflow.Engine
	chargeInformation service.ChargeInformationService
	server            *httpapi.Server

	mu     sync.RWMutex
	ready  atomic.Bool
	closed atomic.Bool
}

// HealthStatus represents the health of all components.
type HealthStatus struct {
	Overall    bool                       `json:"overall"`
	Components map[string]ComponentHealth `json:"components"`
}

// ComponentHealth represents health of a single component.
type ComponentHealth struct {
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// NewContainer creates a new container from configuration.
// It does not initialize components; call Start for that.
func NewContainer(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Container{
		config: cfg,
		logger: logger,
	}, nil
}

// Start initializes all components:
// 1. Step graphs are validated
// 2. Database, migrations and repositories
// 3. Draft store, its expiry sweeper and reference data
// 4. Dispatcher, metrics and workflow engine
// 5. Export storage and the charge information service
// 6. HTTP server (not listening until Server().Start is called)
func (c *Container) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container has been closed")
	}
	if c.ready.Load() {
		return fmt.Errorf("container already started")
	}

	c.logger.Info("Starting container initialization")

	if err := navigation.ValidateAll(); err != nil {
		return fmt.Errorf("invalid step graphs: %w", err)
	}

	if err := c.initDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database initialized", zap.String("path", c.config.Database.Path))

	drafts, err := ProvideDraftStore(&c.config.Drafts, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize draft store: %w", err)
	}
	c.drafts = drafts
	c.logger.Info("Draft store initialized", zap.String("backend", c.config.Drafts.Backend))

	c.workers, err = ProvideWorkers(&c.config.Drafts, c.drafts, c.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize workers: %w", err)
	}
	if err := c.workers.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}

	catalogue, err := ProvideReference(&c.config.Reference)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}

	if err := c.initDispatcherAndWorkflow(); err != nil {
		return fmt.Errorf("failed to initialize dispatcher and workflow: %w", err)
	}
	c.logger.Info("Dispatcher and workflow engine initialized")

	c.fileStorage = storage.NewLocalFileStorage(c.config.Export.Dir, c.logger)
	c.exporter = export.NewExporter(c.fileStorage, c.logger)

	c.chargeInformation, err = ProvideChargeInformationService(&ServiceDeps{
		Drafts:    c.drafts.Repository,
		Catalogue: catalogue,
		Workflows: c.workflows,
		Engine:    c.engine,
		Charging:  &c.config.Charging,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	c.server = httpapi.NewServer(httpapi.ServerConfig{
		Host:         c.config.Server.Host,
		Port:         c.config.Server.Port,
		ReadTimeout:  c.config.Server.ReadTimeout,
		WriteTimeout: c.config.Server.WriteTimeout,
	}, c.chargeInformation, c.exporter, &zapLoggerAdapter{logger: c.logger},
		httpapi.WithHealth(func() (bool, any) {
			h := c.Health()
			return h.Overall, h.Components
		}))

	c.ready.Store(true)
	c.logger.Info("Container started successfully")

	return nil
}

// Close gracefully shuts down all components in reverse order.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return fmt.Errorf("container already closed")
	}

	c.logger.Info("Closing container")

	var errs []error

	// Pending events are handled before their stores go away
	if c.dispatcher != nil {
		if err := c.dispatcher.Close(); err != nil {
			c.logger.Error("Failed to close dispatcher", zap.Error(err))
			errs = append(errs, fmt.Errorf("close dispatcher: %w", err))
		}
	}

	if c.workers != nil {
		if err := c.workers.StopAll(); err != nil {
			c.logger.Error("Failed to stop workers", zap.Error(err))
			errs = append(errs, fmt.Errorf("stop workers: %w", err))
		}
	}

	if c.drafts != nil {
		if err := c.drafts.Close(); err != nil {
			c.logger.Error("Failed to close draft store", zap.Error(err))
			errs = append(errs, fmt.Errorf("close draft store: %w", err))
		}
	}

	if c.sqlDB != nil {
		if err := c.sqlDB.Close(); err != nil {
			c.logger.Error("Failed to close database", zap.Error(err))
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}

	c.closed.Store(true)
	c.ready.Store(false)

	if len(errs) > 0 {
		c.logger.Error("Container closed with errors", zap.Int("error_count", len(errs)))
		return fmt.Errorf("container closed with %d errors", len(errs))
	}

	c.logger.Info("Container closed successfully")
	return nil
}

// Ready returns true when all components are initialized.
func (c *Container) Ready() bool {
	return c.ready.Load()
}

// Health returns health status of all components.
func (c *Container) Health() *HealthStatus {
	status := &HealthStatus{
		Overall:    true,
		Components: make(map[string]ComponentHealth),
	}

	check := func(name string, healthy bool, msg string) {
		status.Components[name] = ComponentHealth{Healthy: healthy, Message: msg}
		if !healthy {
			status.Overall = false
		}
	}

	switch {
	case c.sqlDB == nil:
		check("database", false, "not initialized")
	default:
		if err := c.sqlDB.Ping(); err != nil {
			check("database", false, fmt.Sprintf("ping failed: %v", err))
		} else {
			check("database", true, "")
		}
	}

	check("drafts", c.drafts != nil, notInitialized(c.drafts != nil))
	check("workers", c.workers != nil && c.workers.IsRunning(), notInitialized(c.workers != nil))
	check("dispatcher", c.dispatcher != nil, notInitialized(c.dispatcher != nil))
	check("workflow", c.engine != nil, notInitialized(c.engine != nil))

	return status
}

func notInitialized(ok bool) string {
	if ok {
		return ""
	}
	return "not initialized"
}

func (c *Container) initDatabase() error {
	dbBundle, err := ProvideDatabase(&c.config.Database, c.logger)
	if err != nil {
		return err
	}

	c.sqlDB = dbBundle.SqlDB
	c.db = dbBundle.TransactionMgr

	repos, err := ProvideRepositories(c.sqlDB, c.logger)
	if err != nil {
		c.sqlDB.Close()
		return err
	}

	c.repositories = repos
	return nil
}

func (c *Container) initDispatcherAndWorkflow() error {
	disp, err := ProvideDispatcher(c.logger)
	if err != nil {
		return err
	}
	c.dispatcher = disp

	metrics.Init(nil)
	metrics.Subscribe(c.dispatcher)

	workflows, engine, err := ProvideWorkflowEngine(&WorkflowDeps{
		Repos:      c.repositories,
		TxManager:  c.db,
		Drafts:     c.drafts.Repository,
		Dispatcher: c.dispatcher,
		Logger:     c.logger,
	})
	if err != nil {
		return err
	}
	c.workflows = workflows
	c.engine = engine

	return nil
}

// ChargeInformation returns the charge information service.
func (c *Container) ChargeInformation() service.ChargeInformationService {
	return c.chargeInformation
}

// Server returns the HTTP server.
func (c *Container) Server() *httpapi.Server {
	return c.server
}

// Exporter returns the check answers exporter.
func (c *Container) Exporter() *export.Exporter {
	return c.exporter
}

// WorkflowEngine returns the workflow engine.
func (c *Container) WorkflowEngine() workflow.Engine {
	return c.engine
}

// Dispatcher returns the event dispatcher.
func (c *Container) Dispatcher() dispatcher.Dispatcher {
	return c.dispatcher
}

// Logger returns the container's logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Config returns the container's configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// zapLoggerAdapter adapts a zap.Logger to the key-value Logger interfaces of
// the service, dispatcher and http packages.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, convertToZapFields(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, convertToZapFields(keysAndValues...)...)
}

// convertToZapFields converts key-value pairs to zap fields.
func convertToZapFields(keysAndValues ...interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, ok := keysAndValues[i+1].(error); ok {
			fields = append(fields, zap.NamedError(key, err))
			continue
		}
		fields = append(fields, zap.Any(key, keysAndValues[i+1]))
	}
	return fields
}
