package container

import (
	"context"
	"fmt"
	"net/http"

	"solarweb/adapters/analysisapi"
	"solarweb/adapters/memory"
	"solarweb/adapters/postgres"
	"solarweb/internal"
	"solarweb/internal/api"
	"solarweb/internal/config"
	"solarweb/ports"
	"solarweb/ui"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Collaborators
	AnalysisAPI ports.AnalysisAPI
	Uploads     ports.UploadRepository
}

// New creates a new dependency injection container. The analysis client is
// created immediately; storage is initialized by InitStorage.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		AnalysisAPI: analysisapi.NewClient(cfg.AnalysisAPI.URL, cfg.AnalysisAPI.Timeout, logger),
	}
	return c, nil
}

// InitStorage opens the upload history database, or falls back to the
// in-memory repository when no DATABASE_URL is configured
func (c *Container) InitStorage(ctx context.Context) error {
	driver := c.Config.Database.Driver()
	if driver == "" {
		c.Logger.Info("No DATABASE_URL configured, keeping upload history in memory")
		c.Uploads = memory.NewUploadRepository()
		return nil
	}

	db, err := postgres.Open(ctx, driver, c.Config.Database.DSN())
	if err != nil {
		return err
	}
	c.DB = db
	c.Uploads = postgres.NewUploadRepository(db)
	c.Logger.Info("Upload history stored in %s database", driver)
	return nil
}

// APIHandler builds the gin engine serving /api
func (c *Container) APIHandler() http.Handler {
	handler := api.NewTableHandler(c.AnalysisAPI, c.Uploads, c.Config.Display.CopyGroups, c.Logger)
	return api.NewRouter(handler, c.Config.Server.GinMode)
}

// UIApp builds the page application with the API mounted under /api
func (c *Container) UIApp() (*ui.App, error) {
	return ui.NewApp(c.AnalysisAPI, c.Uploads, ui.Config{
		Timezone:       c.Config.Display.Timezone,
		CopyGroups:     c.Config.Display.CopyGroups,
		MaxUploadBytes: c.Config.Server.MaxUploadBytes,
		API:            c.APIHandler(),
	}, c.Logger)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
