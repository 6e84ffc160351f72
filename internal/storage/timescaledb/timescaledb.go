package timescaledb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"

	"github.com/Zemnmez/MeteoNook/internal/database"
	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/storage"
	"github.com/Zemnmez/MeteoNook/pkg/config"
)

// Storage holds the connection for a TimescaleDB storage backend
type Storage struct {
	DB *gorm.DB
}

// ForecastDayRecord is one computed forecast day persisted for later analysis.
// Hemisphere, seed and date constitute a composite unique key for the table:
// a rebuild for the same island day replaces the stored row.
type ForecastDayRecord struct {
	gorm.Model

	Hemisphere   string       `gorm:"uniqueIndex:idx_island_day;not null"`
	Seed         int64        `gorm:"uniqueIndex:idx_island_day;not null"`
	Date         time.Time    `gorm:"uniqueIndex:idx_island_day;not null;type:date"`
	Pattern      string       `gorm:"not null"`
	SpecialDay   bool
	SnowLevel    string
	CloudLevel   string
	FogLevel     string
	WaterFog     bool
	Aurora       bool
	LightShower  bool
	HeavyShower  bool
	RainbowCount int16
	RainbowHour  int16
	Hours        pgtype.JSONB `gorm:"type:jsonb;default:'[]';not null"`
	Stars        pgtype.JSONB `gorm:"type:jsonb;default:'[]';not null"`
}

// TableName specifies the table name for ForecastDayRecord
func (ForecastDayRecord) TableName() string {
	return "forecast_days"
}

// StartStorageEngine creates a goroutine loop to receive forecast days and
// send them off to TimescaleDB
func (t *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- forecast.Day {
	log.Info("starting TimescaleDB storage engine...")
	dayChan := make(chan forecast.Day, 10)
	go storage.ProcessDays(ctx, wg, dayChan, t.StoreDay, "TimescaleDB")
	return dayChan
}

// StoreDay upserts one forecast day into TimescaleDB
func (t *Storage) StoreDay(d forecast.Day) error {
	record, err := buildRecord(d)
	if err != nil {
		return err
	}

	var existing ForecastDayRecord
	err = t.DB.Where("hemisphere = ? AND seed = ? AND date = ?",
		record.Hemisphere, record.Seed, record.Date).First(&existing).Error

	switch {
	case err == gorm.ErrRecordNotFound:
		err = t.DB.Create(record).Error
	case err == nil:
		record.Model = existing.Model
		err = t.DB.Save(record).Error
	default:
		return fmt.Errorf("could not query forecast day: %w", err)
	}

	if err != nil {
		log.Error("could not store forecast day:", err)
		return err
	}
	return nil
}

func buildRecord(d forecast.Day) (*ForecastDayRecord, error) {
	hoursJSON, err := json.Marshal(d.Hours)
	if err != nil {
		return nil, fmt.Errorf("could not marshal hourly forecast to JSON: %v", err)
	}

	stars := d.Stars
	if stars == nil {
		stars = []forecast.StarEvent{}
	}
	starsJSON, err := json.Marshal(stars)
	if err != nil {
		return nil, fmt.Errorf("could not marshal star events to JSON: %v", err)
	}

	record := ForecastDayRecord{
		Hemisphere:   d.Hemisphere.String(),
		Seed:         int64(d.Seed),
		Date:         time.Date(d.Date.Year, time.Month(d.Date.Month), d.Date.Day, 0, 0, 0, 0, time.UTC),
		Pattern:      d.PatternName,
		SpecialDay:   d.SpecialDay,
		SnowLevel:    d.SnowLevelName,
		CloudLevel:   d.CloudLevelName,
		FogLevel:     d.FogLevelName,
		WaterFog:     d.WaterFog,
		Aurora:       d.Aurora,
		LightShower:  d.LightShower,
		HeavyShower:  d.HeavyShower,
		RainbowCount: int16(d.RainbowCount),
		RainbowHour:  int16(d.RainbowHour),
	}
	if err := record.Hours.Set(hoursJSON); err != nil {
		return nil, fmt.Errorf("could not set hourly forecast JSONB: %v", err)
	}
	if err := record.Stars.Set(starsJSON); err != nil {
		return nil, fmt.Errorf("could not set star events JSONB: %v", err)
	}

	return &record, nil
}

// New sets up a new TimescaleDB storage backend
func New(ctx context.Context, configProvider config.ConfigProvider) (*Storage, error) {
	storageConfig, err := configProvider.GetStorageConfig()
	if err != nil {
		return &Storage{}, fmt.Errorf("could not load storage config: %w", err)
	}
	if storageConfig.TimescaleDB == nil || storageConfig.TimescaleDB.ConnectionString == "" {
		return &Storage{}, fmt.Errorf("no TimescaleDB connection string configured")
	}

	t := Storage{}
	t.DB, err = database.CreateConnection(storageConfig.TimescaleDB.ConnectionString)
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return &Storage{}, err
	}

	log.Info("creating forecast_days table...")
	if err := t.DB.WithContext(ctx).AutoMigrate(&ForecastDayRecord{}); err != nil {
		return &Storage{}, fmt.Errorf("error creating or migrating forecast_days table: %v", err)
	}

	return &t, nil
}
