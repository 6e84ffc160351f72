package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/storage"
	"github.com/Zemnmez/MeteoNook/internal/storage/timescaledb"
	"github.com/Zemnmez/MeteoNook/pkg/config"
)

// StorageManager holds our active storage backends
type StorageManager struct {
	Engines        []StorageEngine
	DayDistributor chan forecast.Day
}

// StorageEngine holds a backend storage engine's interface as well as
// a channel for passing forecast days to the engine
type StorageEngine struct {
	Engine storage.StorageEngineInterface
	C      chan<- forecast.Day
}

// NewStorageManager creates a StorageManager object, populated with all configured StorageEngines
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider) (*StorageManager, error) {
	storageConfig, err := configProvider.GetStorageConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading storage configuration: %v", err)
	}

	s := StorageManager{}

	// Initialize our channel for passing forecast days to the distributor
	s.DayDistributor = make(chan forecast.Day, 20)

	// Start our distributor to fan received days out to storage backends
	go s.startDayDistributor(ctx, wg)

	if storageConfig.TimescaleDB != nil && storageConfig.TimescaleDB.ConnectionString != "" {
		err = s.AddEngine(ctx, wg, "timescaledb", configProvider)
		if err != nil {
			return &s, fmt.Errorf("could not add TimescaleDB storage backend: %v", err)
		}
	}

	return &s, nil
}

// GetDayDistributor returns the forecast day distributor channel
func (s *StorageManager) GetDayDistributor() chan forecast.Day {
	return s.DayDistributor
}

// AddEngine adds a new StorageEngine of name engineName to our Storage object
func (s *StorageManager) AddEngine(ctx context.Context, wg *sync.WaitGroup, engineName string, configProvider config.ConfigProvider) error {
	switch engineName {
	case "timescaledb":
		se := StorageEngine{}
		engine, err := timescaledb.New(ctx, configProvider)
		if err != nil {
			return err
		}
		se.Engine = engine
		se.C = se.Engine.StartStorageEngine(ctx, wg)
		s.Engines = append(s.Engines, se)
	default:
		return fmt.Errorf("unknown storage engine: %s", engineName)
	}

	return nil
}

// startDayDistributor receives forecast days from the aggregator and fans
// them out to the various storage backends
func (s *StorageManager) startDayDistributor(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	defer wg.Done()

	for {
		select {
		case d := <-s.DayDistributor:
			// With no engines configured the day is discarded silently.
			for _, e := range s.Engines {
				e.C <- d
			}
		case <-ctx.Done():
			return
		}
	}
}
