// Package di provides dependency injection using Google Wire.
// This file contains the provider functions and the provider sets that
// group them by architectural layer.
package di

import (
	"github.com/go-chi/chi/v5"
	"github.com/google/wire"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/application/services"
	"loreweave-backend/internal/config"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/handlers"
	"loreweave-backend/internal/infrastructure/observability"
	"loreweave-backend/internal/infrastructure/persistence/memory"
	"loreweave-backend/internal/infrastructure/tracing"
	"loreweave-backend/internal/service/generation"
)

// ============================================================================
// PROVIDER SETS - Organized by architectural layer
// ============================================================================

// SuperSet combines all provider sets for the complete application.
var SuperSet = wire.NewSet(
	ConfigProviders,
	InfrastructureProviders,
	ApplicationProviders,
	InterfaceProviders,
)

// ConfigProviders provides configuration-related dependencies.
// These are the foundation that other layers depend upon.
var ConfigProviders = wire.NewSet(
	provideConfig,
	provideLogger,
)

// InfrastructureProviders provides operation storage, observability, and the
// generation backend.
var InfrastructureProviders = wire.NewSet(
	provideCollector,
	provideTracerProvider,
	provideOperationStore,
	provideTracedStore,
	provideGenerationProvider,
	provideProfiles,
	provideGenerationClient,
)

// ApplicationProviders provides application services (use cases).
var ApplicationProviders = wire.NewSet(
	provideCanvasService,
)

// InterfaceProviders provides the HTTP layer: handlers and the router.
var InterfaceProviders = wire.NewSet(
	provideCanvasHandler,
	provideGenerationHandler,
	provideHealthHandler,
	provideRouter,
)

// ============================================================================
// CONFIGURATION PROVIDERS
// ============================================================================

func provideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsDevelopment() {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ============================================================================
// INFRASTRUCTURE PROVIDERS
// ============================================================================

func provideCollector() *observability.Collector {
	return observability.NewCollector("loreweave")
}

// provideTracerProvider initializes the OTLP exporter when tracing is
// enabled. Returns nil otherwise; downstream consumers treat nil as off.
func provideTracerProvider(cfg *config.Config) (*tracing.TracerProvider, error) {
	if !cfg.Observability.EnableTracing {
		return nil, nil
	}
	return tracing.InitTracing(
		cfg.Observability.ServiceName,
		cfg.Environment,
		cfg.Observability.OTLPEndpoint,
	)
}

func provideOperationStore(cfg *config.Config) *memory.OperationStore {
	return memory.NewOperationStore(cfg.Canvas.OperationTTL)
}

// provideTracedStore decorates the store with span recording when tracing is
// up. Tracer is nil whenever tracing is disabled.
func provideTracedStore(store *memory.OperationStore, tracer *tracing.TracerProvider) ports.OperationStore {
	if tracer == nil {
		return store
	}
	return tracing.TraceOperationStore(store, tracer.Tracer())
}

func provideGenerationProvider(cfg *config.Config, logger *zap.Logger) generation.Provider {
	var provider generation.Provider
	switch cfg.Generation.Provider {
	case "http":
		provider = generation.NewHTTPProvider(generation.HTTPProviderConfig{
			BaseURL: cfg.Generation.BaseURL,
			APIKey:  cfg.Generation.APIKey,
			Model:   cfg.Generation.Model,
			Timeout: cfg.Generation.Timeout,
		})
	default:
		provider = generation.NewMockProvider()
	}

	if cfg.Generation.BreakerEnabled {
		provider = generation.NewBreakerProvider(provider, generation.DefaultBreakerConfig("generation"), logger)
	}
	return provider
}

func provideProfiles(cfg *config.Config, logger *zap.Logger) (generation.Profiles, error) {
	profiles, err := config.LoadProfiles(cfg.Generation.ProfilesPath)
	if err != nil {
		return generation.Profiles{}, err
	}
	if cfg.Generation.ProfilesPath != "" {
		logger.Info("loaded generation profiles", zap.String("path", cfg.Generation.ProfilesPath))
	}
	return profiles, nil
}

func provideGenerationClient(provider generation.Provider, profiles generation.Profiles, logger *zap.Logger) *generation.Client {
	return generation.NewClient(provider, profiles, logger.Named("generation"))
}

// ============================================================================
// APPLICATION PROVIDERS
// ============================================================================

func provideCanvasService(
	cfg *config.Config,
	client *generation.Client,
	store ports.OperationStore,
	collector *observability.Collector,
	logger *zap.Logger,
) *services.CanvasService {
	return services.NewCanvasService(services.Config{
		Client:         client,
		Store:          store,
		MinimumLoading: cfg.Canvas.MinimumLoading,
		CanvasLimits: canvas.Limits{
			MaxNodes: cfg.Canvas.MaxNodes,
			MaxEdges: cfg.Canvas.MaxEdges,
		},
		Logger:                   logger.Named("canvas"),
		Recorder:                 collector,
		Graphs:                   collector,
		MaxConcurrentGenerations: cfg.Generation.MaxConcurrent,
	})
}

// ============================================================================
// INTERFACE PROVIDERS
// ============================================================================

func provideCanvasHandler(service *services.CanvasService, logger *zap.Logger) *handlers.CanvasHandler {
	return handlers.NewCanvasHandler(service, logger.Named("http"))
}

func provideGenerationHandler(service *services.CanvasService, logger *zap.Logger) *handlers.GenerationHandler {
	return handlers.NewGenerationHandler(service, logger.Named("http"))
}

func provideHealthHandler(client *generation.Client, cfg *config.Config) *handlers.HealthHandler {
	return handlers.NewHealthHandler(client, cfg.Environment)
}

func provideRouter(
	cfg *config.Config,
	logger *zap.Logger,
	collector *observability.Collector,
	canvases *handlers.CanvasHandler,
	generations *handlers.GenerationHandler,
	health *handlers.HealthHandler,
) *chi.Mux {
	return newRouter(cfg, logger, collector, canvases, generations, health)
}
