package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Zemnmez/MeteoNook/internal/controllers/restserver"
	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/managers"
	"github.com/Zemnmez/MeteoNook/internal/observations"
	"github.com/Zemnmez/MeteoNook/internal/oracle"
	"github.com/Zemnmez/MeteoNook/internal/solver"
	"github.com/Zemnmez/MeteoNook/pkg/config"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	oracleConfig, err := a.configProvider.GetOracle()
	if err != nil {
		return fmt.Errorf("error loading oracle configuration: %v", err)
	}
	if oracleConfig.Endpoint == "" {
		return fmt.Errorf("no oracle endpoint configured")
	}

	// The health endpoint probes the raw client; everything else goes
	// through the memoizing wrapper unless caching is disabled.
	client := oracle.NewClient(oracleConfig.Endpoint, time.Duration(oracleConfig.TimeoutSeconds)*time.Second)
	var sky weather.Oracle = client
	if !oracleConfig.DisableCache {
		sky = oracle.NewCached(client)
	}

	store := observations.NewStore()
	engine := solver.New(sky)
	forecasts := forecast.New(sky)

	// Initialize the storage manager
	storageManager, err := managers.NewStorageManager(ctx, &wg, a.configProvider)
	if err != nil {
		return err
	}
	forecasts.SendTo(storageManager.GetDayDistributor())

	// Initialize the capture manager
	captureManager, err := managers.NewCaptureManager(ctx, &wg, a.configProvider, store, a.logger)
	if err != nil {
		return err
	}
	go func() {
		if err := captureManager.StartCaptures(); err != nil {
			log.Errorf("error starting capture listeners: %v", err)
		}
	}()

	// Initialize the controller manager
	deps := restserver.Deps{
		Store:     store,
		Solver:    engine,
		Forecasts: forecasts,
		Oracle:    client,
	}
	cm, err := managers.NewControllerManager(ctx, &wg, a.configProvider, deps, a.logger)
	if err != nil {
		return err
	}
	err = cm.StartControllers()
	if err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
