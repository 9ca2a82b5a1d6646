// Package app wires configuration, storage, providers and the HTTP server
// into a runnable application.
package app

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"forecastapi.app/api"
	"forecastapi.app/config"
	"forecastapi.app/database"
	"forecastapi.app/providers"
	"forecastapi.app/providers/cache"
	"forecastapi.app/repository"
	"forecastapi.app/scheduler"
	"forecastapi.app/service"
)

// Application represents the main application with all its dependencies
type Application struct {
	config    *config.Config
	db        *gorm.DB
	server    *api.Server
	scheduler *scheduler.Scheduler
}

// NewApplication creates and initializes a new application instance
func NewApplication() (*Application, error) {
	app := &Application{}

	if err := app.loadConfiguration(); err != nil {
		return nil, err
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, err
	}

	if err := app.initializeServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (app *Application) loadConfiguration() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return fmt.Errorf("load application configuration: %w", err)
	}

	app.config = cfg
	return nil
}

func (app *Application) initializeDatabase() error {
	db, err := database.InitDB(app.config.Database)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		return fmt.Errorf("initialize database connection: %w", err)
	}

	if err := database.RunMigrations(db); err != nil {
		slog.Error("failed to run database migrations", "error", err)
		return fmt.Errorf("run database migrations: %w", err)
	}

	app.db = db
	return nil
}

func (app *Application) initializeServices() error {
	resolver, forecaster, err := app.buildLookupProviders()
	if err != nil {
		return fmt.Errorf("build lookup providers: %w", err)
	}

	weatherService := service.NewWeatherService(resolver, forecaster, &app.config.Weather)

	emailProvider := providers.NewSMTPEmailProvider(&app.config.Email)
	emailService := service.NewEmailService(emailProvider)

	subscriptionRepo := repository.NewSubscriptionRepository(app.db)
	tokenRepo := repository.NewTokenRepository(app.db)

	subscriptionService := service.NewSubscriptionService(
		app.db,
		subscriptionRepo,
		tokenRepo,
		emailService,
		weatherService,
		app.config,
	)

	app.server = api.NewServer(app.db, app.config, weatherService, subscriptionService)
	app.scheduler = scheduler.NewScheduler(&app.config.Scheduler, subscriptionService, tokenRepo)

	return nil
}

// buildLookupProviders assembles the two provider stacks: base HTTP client,
// optional request logging decorator, metric-instrumented cache and the
// read-through proxy on top.
func (app *Application) buildLookupProviders() (providers.GeocodeProvider, providers.ForecastProvider, error) {
	backend, err := cache.New(&app.config.Cache)
	if err != nil {
		return nil, nil, fmt.Errorf("create cache backend: %w", err)
	}

	weatherCfg := &app.config.Weather

	var resolver providers.GeocodeProvider = providers.NewOpenMeteoGeocodeProvider(weatherCfg)
	var forecaster providers.ForecastProvider = providers.NewOpenMeteoForecastProvider(weatherCfg)

	if weatherCfg.EnableProviderLogging {
		fileLogger, err := providers.NewFileLogger(weatherCfg.LogFilePath)
		if err != nil {
			return nil, nil, fmt.Errorf("create provider log file: %w", err)
		}
		resolver = providers.NewGeocodeLoggerDecorator(resolver, fileLogger, "open-meteo-geocoding")
		forecaster = providers.NewForecastLoggerDecorator(forecaster, fileLogger, "open-meteo-forecast")
	}

	geocodeCache := providers.NewInstrumentedCache(backend, "geocode")
	forecastCache := providers.NewInstrumentedCache(backend, "forecast")

	resolver = providers.NewGeocodeCacheProxy(resolver, geocodeCache, weatherCfg.GeocodeCacheTTL())
	forecaster = providers.NewForecastCacheProxy(forecaster, forecastCache, weatherCfg.ForecastCacheTTL())

	return resolver, forecaster, nil
}

// Start starts the application
func (app *Application) Start() error {
	slog.Info("starting scheduler")
	app.scheduler.Start()

	slog.Info("starting HTTP server", "port", app.config.Server.Port)
	return app.server.Start()
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	slog.Info("shutting down application")

	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.db != nil {
		if err := database.CloseDB(app.db); err != nil {
			slog.Warn("error closing database", "error", err)
		}
	}

	return nil
}

// Config returns the application configuration
func (app *Application) Config() *config.Config {
	return app.config
}
