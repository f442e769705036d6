//go:build !wireinject
// +build !wireinject

// Package di provides a centralized dependency injection container.
package di

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"loreweave-backend/internal/application/ports"
	"loreweave-backend/internal/application/services"
	"loreweave-backend/internal/config"
	"loreweave-backend/internal/domain/canvas"
	"loreweave-backend/internal/infrastructure/observability"
	"loreweave-backend/internal/infrastructure/persistence/memory"
	"loreweave-backend/internal/infrastructure/tracing"
	"loreweave-backend/internal/service/generation"
)

// Container holds all application dependencies with lifecycle management.
type Container struct {
	Config    *config.Config
	Logger    *zap.Logger
	Collector *observability.Collector
	Tracer    *tracing.TracerProvider
	Store     ports.OperationStore
	Client    *generation.Client
	Service   *services.CanvasService
	Watcher   *config.Watcher
	Router    *chi.Mux

	// Executed in reverse order on Shutdown.
	shutdownFunctions []func() error
}

// NewContainer creates and initializes a new dependency injection container.
func NewContainer(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config:            cfg,
		shutdownFunctions: make([]func() error, 0),
	}

	if err := c.initialize(); err != nil {
		c.closeQuietly()
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}

	return c, nil
}

// initialize sets up all dependencies in the correct order.
func (c *Container) initialize() error {
	cfg := c.Config

	// 1. Logger
	logger, err := provideLogger(cfg)
	if err != nil {
		return err
	}
	c.Logger = logger
	c.addShutdownFunction(func() error {
		// Sync flushes buffered entries; stderr sync failures are expected
		// on some platforms and not worth surfacing.
		_ = logger.Sync()
		return nil
	})

	// 2. Metrics collector. Built unconditionally because it doubles as the
	// mutation recorder; config only gates the HTTP exposure.
	c.Collector = provideCollector()

	// 3. Tracing
	tracer, err := provideTracerProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if tracer != nil {
		c.Tracer = tracer
		c.addShutdownFunction(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return tracer.Shutdown(ctx)
		})
	}

	// 4. Operation store
	store := memory.NewOperationStore(cfg.Canvas.OperationTTL)
	c.addShutdownFunction(func() error {
		store.Close()
		return nil
	})
	c.Store = provideTracedStore(store, c.Tracer)

	// 5. Generation client
	provider := provideGenerationProvider(cfg, logger)
	profiles, err := provideProfiles(cfg, logger)
	if err != nil {
		return err
	}
	c.Client = provideGenerationClient(provider, profiles, logger)

	// 6. Canvas service
	c.Service = provideCanvasService(cfg, c.Client, c.Store, c.Collector, logger)

	// 7. Runtime tuning watcher
	if cfg.TuningPath != "" {
		if err := c.initializeTuning(); err != nil {
			return fmt.Errorf("failed to initialize tuning watcher: %w", err)
		}
	}

	// 8. HTTP surface
	canvases := provideCanvasHandler(c.Service, logger)
	generations := provideGenerationHandler(c.Service, logger)
	health := provideHealthHandler(c.Client, cfg)
	c.Router = provideRouter(cfg, logger, c.Collector, canvases, generations, health)

	return nil
}

// initializeTuning starts the hot-reload watcher and binds its limits to the
// canvas service. Tuning values override the static config when set; a zero
// falls back to the value the process booted with.
func (c *Container) initializeTuning() error {
	watcher, err := config.NewWatcher(c.Config.TuningPath, c.Logger)
	if err != nil {
		return err
	}
	c.Watcher = watcher

	cfg := c.Config
	mockConfigured := cfg.Generation.Provider == "mock"
	apply := func(t *config.Tuning) {
		limits := canvas.Limits{
			MaxNodes: cfg.Canvas.MaxNodes,
			MaxEdges: cfg.Canvas.MaxEdges,
		}
		if t.Limits.MaxNodesPerCanvas > 0 {
			limits.MaxNodes = t.Limits.MaxNodesPerCanvas
		}
		if t.Limits.MaxEdgesPerCanvas > 0 {
			limits.MaxEdges = t.Limits.MaxEdgesPerCanvas
		}
		c.Service.SetCanvasLimits(limits)

		if n := t.Limits.MaxConcurrentGenerations; n > 0 {
			c.Service.SetMaxConcurrentGenerations(n)
		} else {
			c.Service.SetMaxConcurrentGenerations(cfg.Generation.MaxConcurrent)
		}

		if t.Features.MockGeneration != mockConfigured {
			c.Logger.Info("generation provider toggle changed, takes effect on restart",
				zap.Bool("mock_generation", t.Features.MockGeneration),
				zap.String("active_provider", cfg.Generation.Provider),
			)
		}
	}

	apply(watcher.GetCurrent())
	watcher.OnChange(apply)
	watcher.Start()

	c.addShutdownFunction(func() error {
		watcher.Stop()
		return nil
	})
	return nil
}

func (c *Container) addShutdownFunction(fn func() error) {
	c.shutdownFunctions = append(c.shutdownFunctions, fn)
}

// Shutdown gracefully shuts down all container components in reverse
// initialization order.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Logger != nil {
		c.Logger.Info("shutting down container")
	}

	var errs []error
	for i := len(c.shutdownFunctions) - 1; i >= 0; i-- {
		if err := c.shutdownFunctions[i](); err != nil {
			errs = append(errs, err)
			if c.Logger != nil {
				c.Logger.Error("shutdown step failed", zap.Error(err))
			}
		}
	}
	c.shutdownFunctions = nil

	if len(errs) > 0 {
		return fmt.Errorf("shutdown completed with %d errors", len(errs))
	}
	return nil
}

// closeQuietly tears down whatever a failed initialize managed to start.
func (c *Container) closeQuietly() {
	for i := len(c.shutdownFunctions) - 1; i >= 0; i-- {
		_ = c.shutdownFunctions[i]()
	}
	c.shutdownFunctions = nil
}

// GetRouter returns the configured HTTP router.
func (c *Container) GetRouter() *chi.Mux {
	return c.Router
}
