package di

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-docflow/internal/approvers"
	"github.com/goliatone/go-docflow/internal/catalog"
	"github.com/goliatone/go-docflow/internal/documents"
	"github.com/goliatone/go-docflow/internal/logging/gologger"
	"github.com/goliatone/go-docflow/internal/notify"
	"github.com/goliatone/go-docflow/internal/runtimeconfig"
	"github.com/goliatone/go-docflow/internal/workflow"
	"github.com/goliatone/go-docflow/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	// ErrModuleDisabled indicates the module was constructed with Enabled off.
	ErrModuleDisabled = errors.New("di: docflow module is disabled")
	// ErrBunDBRequired indicates bun storage was selected without a database handle.
	ErrBunDBRequired = errors.New("di: bun storage requires a *bun.DB, use WithBunDB")
)

// Container wires module dependencies from configuration plus host overrides.
type Container struct {
	config runtimeconfig.Config

	bunDB          *bun.DB
	loggerProvider interfaces.LoggerProvider
	authorizer     interfaces.Authorizer
	dispatcher     notify.Dispatcher
	clock          func() time.Time

	catalog      *catalog.Catalog
	registry     approvers.Registry
	documentRepo documents.Repository
	instanceRepo documents.InstanceRepository
	engine       *workflow.Engine

	documentSvc documents.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds the database handle used when bun storage is selected.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithAuthorizer binds the host capability checker. Without one every
// capability check denies.
func WithAuthorizer(auth interfaces.Authorizer) Option {
	return func(c *Container) {
		if auth != nil {
			c.authorizer = auth
		}
	}
}

// WithDispatcher overrides the notification dispatcher.
func WithDispatcher(dispatcher notify.Dispatcher) Option {
	return func(c *Container) {
		if dispatcher != nil {
			c.dispatcher = dispatcher
		}
	}
}

// WithLoggerProvider overrides the logger provider built from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithRegistry overrides the approver registry built from configuration.
func WithRegistry(registry approvers.Registry) Option {
	return func(c *Container) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if !cfg.Enabled {
		return nil, ErrModuleDisabled
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		config:     cfg,
		authorizer: denyAll{},
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.buildLogging(); err != nil {
		return nil, err
	}
	if err := c.buildCatalog(); err != nil {
		return nil, err
	}
	if err := c.buildStorage(); err != nil {
		return nil, err
	}
	if err := c.buildRegistry(); err != nil {
		return nil, err
	}
	c.buildService()

	return c, nil
}

func (c *Container) buildLogging() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.config.Features.Logger {
		return nil
	}

	provider, err := gologger.NewProvider(gologger.Config{
		Level:     c.config.Logging.Level,
		Format:    c.config.Logging.Format,
		AddSource: c.config.Logging.AddSource,
		Focus:     c.config.Logging.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) buildCatalog() error {
	if len(c.config.Catalog.Categories) == 0 {
		c.catalog = catalog.Default()
		return nil
	}

	compiled, err := catalog.Compile(c.config.Catalog)
	if err != nil {
		return err
	}
	c.catalog = compiled
	return nil
}

func (c *Container) buildStorage() error {
	provider := strings.ToLower(strings.TrimSpace(c.config.Storage.Provider))
	switch provider {
	case "", "memory":
		c.documentRepo = documents.NewMemoryRepository()
		c.instanceRepo = documents.NewMemoryInstanceRepository()
	case "bun":
		if c.bunDB == nil {
			return ErrBunDBRequired
		}
		c.documentRepo = documents.NewBunRepository(c.bunDB)
		c.instanceRepo = documents.NewBunInstanceRepository(c.bunDB)
	default:
		return runtimeconfig.ErrStorageProviderUnknown
	}
	return nil
}

func (c *Container) buildRegistry() error {
	if c.registry != nil {
		return nil
	}

	if strings.EqualFold(strings.TrimSpace(c.config.Storage.Provider), "bun") {
		if c.bunDB == nil {
			return ErrBunDBRequired
		}
		c.registry = approvers.NewBunRegistry(c.bunDB)
		return nil
	}

	c.registry = approvers.NewMemoryRegistry()
	return nil
}

func (c *Container) buildService() {
	c.engine = workflow.NewDocumentEngine()

	opts := []documents.ServiceOption{
		documents.WithEngine(c.engine),
		documents.WithClock(c.clock),
		documents.WithNotificationsEnabled(c.config.Features.Notifications),
	}
	if c.dispatcher != nil {
		opts = append(opts, documents.WithDispatcher(c.dispatcher))
	} else if c.loggerProvider != nil {
		opts = append(opts, documents.WithDispatcher(notify.NewLoggerDispatcher(c.loggerProvider.GetLogger("docflow.notify"))))
	}
	if c.loggerProvider != nil {
		opts = append(opts, documents.WithLoggerProvider(c.loggerProvider))
	}

	c.documentSvc = documents.NewService(
		c.documentRepo,
		c.instanceRepo,
		c.catalog,
		c.registry,
		c.authorizer,
		opts...,
	)
}

// SeedApprovers loads configured approver assignments into a memory registry.
// It is a no-op when the registry came from the host or from bun storage.
func (c *Container) SeedApprovers(instanceID uuid.UUID) error {
	memory, ok := c.registry.(*approvers.MemoryRegistry)
	if !ok {
		return nil
	}
	return memory.Seed(instanceID, c.config.Approvers)
}

// Config returns the configuration the container was built with.
func (c *Container) Config() runtimeconfig.Config {
	return c.config
}

// DocumentService returns the wired document workflow service.
func (c *Container) DocumentService() documents.Service {
	return c.documentSvc
}

// Catalog returns the compiled category catalog.
func (c *Container) Catalog() *catalog.Catalog {
	return c.catalog
}

// Registry returns the approver registry in use.
func (c *Container) Registry() approvers.Registry {
	return c.registry
}

// WorkflowEngine returns the compiled document workflow engine.
func (c *Container) WorkflowEngine() *workflow.Engine {
	return c.engine
}

// LoggerProvider returns the configured logger provider, nil when logging is off.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// denyAll is the fallback authorizer: hosts must opt in to capabilities.
type denyAll struct{}

func (denyAll) HasCapability(context.Context, uuid.UUID, string, uuid.UUID) (bool, error) {
	return false, nil
}
