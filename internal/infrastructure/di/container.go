package di

import (
	"context"
	"fmt"

	"github.com/YoshitsuguKoike/taskcore/internal/app"
	"github.com/YoshitsuguKoike/taskcore/internal/application/port/input"
	taskusecase "github.com/YoshitsuguKoike/taskcore/internal/application/usecase/task"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/diag"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/event"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/model/settings"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/repository"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/service/dependency"
	"github.com/YoshitsuguKoike/taskcore/internal/domain/service/recurrence"
	"github.com/YoshitsuguKoike/taskcore/internal/infra/config"
	"github.com/YoshitsuguKoike/taskcore/internal/infra/persistence/file"
	"github.com/YoshitsuguKoike/taskcore/internal/infra/repository/vault"
	"github.com/spf13/afero"
)

// Container is the DI container that holds all dependencies
// This implements manual dependency injection for Clean Architecture
type Container struct {
	// Infrastructure Layer
	store    *file.Store
	settings *config.Settings
	taskRepo repository.TaskRepository

	// Domain Layer - Settings & Services
	provider *settings.Static
	resolver *recurrence.Resolver
	graph    *dependency.Graph

	// Application Layer - Use Cases
	taskUseCase *taskusecase.TaskUseCaseImpl

	// Configuration
	config Config
}

// Config holds configuration for the container
type Config struct {
	VaultDir   string // Vault root (default ".")
	ConfigPath string // Explicit settings file; empty searches the vault root

	Fs       afero.Fs       // Filesystem (default: OS filesystem)
	Warnings diag.Sink      // Non-fatal anomalies (default: app logger)
	Notifier event.Notifier // Domain events (default: debug log)
}

// NewContainer creates and initializes the DI container
func NewContainer(config Config) (*Container, error) {
	c := &Container{
		config: config,
	}

	if c.config.VaultDir == "" {
		c.config.VaultDir = "."
	}
	if c.config.Fs == nil {
		c.config.Fs = afero.NewOsFs()
	}
	if c.config.Warnings == nil {
		c.config.Warnings = app.WarningLogger{}
	}
	if c.config.Notifier == nil {
		c.config.Notifier = event.NotifierFunc(logEvent)
	}

	// Initialize dependencies in dependency order
	if err := c.initializeInfrastructure(); err != nil {
		return nil, fmt.Errorf("failed to initialize infrastructure: %w", err)
	}

	c.initializeDomain()
	c.initializeApplication()

	return c, nil
}

// initializeInfrastructure loads settings and opens the vault
func (c *Container) initializeInfrastructure() error {
	// 1. The vault must exist
	info, err := c.config.Fs.Stat(c.config.VaultDir)
	if err != nil {
		return fmt.Errorf("vault %s not accessible: %w", c.config.VaultDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("vault %s is not a directory", c.config.VaultDir)
	}

	// 2. Load settings (environment > settings file > defaults)
	loaded, err := config.NewLoader(c.config.Fs, c.config.Warnings).Load(c.config.VaultDir, c.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	c.settings = loaded
	c.provider = settings.NewStatic(loaded.Snapshot)

	// 3. Vault repository over a revision-checked file store
	c.store = file.NewStore(c.config.Fs)
	c.taskRepo = vault.NewTaskRepository(
		c.store,
		c.config.VaultDir,
		c.provider,
		vault.WithTaskTag(loaded.TaskTag),
		vault.WithTasksFolder(loaded.TasksFolder),
	)

	return nil
}

// initializeDomain initializes domain services
func (c *Container) initializeDomain() {
	c.resolver = recurrence.NewResolver(c.provider, c.config.Warnings, c.config.Notifier)
	c.graph = dependency.NewGraph(c.taskRepo, c.resolver, c.provider, c.config.Warnings, c.config.Notifier)
}

// initializeApplication initializes application layer components
func (c *Container) initializeApplication() {
	c.taskUseCase = taskusecase.NewTaskUseCaseImpl(c.taskRepo, c.provider, c.resolver, c.graph)
}

// GetTaskUseCase returns the task use case
func (c *Container) GetTaskUseCase() input.TaskUseCase {
	return c.taskUseCase
}

// GetDependencyUseCase returns the dependency use case
func (c *Container) GetDependencyUseCase() input.DependencyUseCase {
	return c.taskUseCase
}

// GetSettingsUseCase returns the settings use case
func (c *Container) GetSettingsUseCase() input.SettingsUseCase {
	return c.taskUseCase
}

// GetSettings returns the loaded settings
func (c *Container) GetSettings() *config.Settings {
	return c.settings
}

// GetTaskRepository returns the task repository
func (c *Container) GetTaskRepository() repository.TaskRepository {
	return c.taskRepo
}

// ReloadSettings re-reads the settings file. Calls already in flight keep
// the snapshot they started with; the task tag and tasks folder of the
// repository stay as loaded at startup.
func (c *Container) ReloadSettings() error {
	loaded, err := config.NewLoader(c.config.Fs, c.config.Warnings).Load(c.config.VaultDir, c.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to reload settings: %w", err)
	}
	c.settings = loaded
	c.provider.Replace(loaded.Snapshot)
	return nil
}

func logEvent(_ context.Context, name string, payload event.Payload) {
	app.GetLogger().Debug("event %s %v", name, payload)
}
