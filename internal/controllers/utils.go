// Package controllers holds helpers shared by the lifecycle controllers.
package controllers

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/snofokk/snofokk/internal/database"
	"github.com/snofokk/snofokk/internal/drift"
	"github.com/snofokk/snofokk/pkg/config"
)

// ValidateTimescaleDBConfig validates TimescaleDB configuration exists
func ValidateTimescaleDBConfig(configProvider config.ConfigProvider, controllerName string) error {
	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %v", err)
	}

	if cfgData.Storage.TimescaleDB == nil || cfgData.Storage.TimescaleDB.ConnectionString == "" {
		return fmt.Errorf("TimescaleDB storage must be configured for the %s controller to function", controllerName)
	}

	return nil
}

// SetupDatabaseConnection creates and connects to the TimescaleDB cache
func SetupDatabaseConnection(configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*database.Client, error) {
	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %v", err)
	}
	if cfgData.Storage.TimescaleDB == nil {
		return nil, fmt.Errorf("TimescaleDB storage is not configured")
	}

	db := database.NewClient(cfgData.Storage.TimescaleDB.ConnectionString, logger)
	if err := db.Connect(); err != nil {
		return nil, fmt.Errorf("could not connect to TimescaleDB: %v", err)
	}

	return db, nil
}

// DriftParams builds estimator parameters from configuration, falling
// back to the model defaults for unset values.
func DriftParams(dd config.DriftData) drift.Params {
	p := drift.DefaultParams()
	if dd.SeasonStartMonth >= 1 && dd.SeasonStartMonth <= 12 {
		p.SeasonStartMonth = time.Month(dd.SeasonStartMonth)
	}
	if dd.ThresholdWindSpeed > 0 {
		p.ThresholdWindSpeed = dd.ThresholdWindSpeed
	}
	if dd.SnowTempMax != nil {
		p.SnowTempMax = *dd.SnowTempMax
	}
	if dd.RelocationCoeff > 0 {
		p.RelocationCoeff = dd.RelocationCoeff
	}
	if dd.FetchDistance > 0 {
		p.FetchDistance = dd.FetchDistance
	}
	return p
}

// RefreshInterval parses the configured cache refresh interval, falling
// back to the given default.
func RefreshInterval(dd config.DriftData, fallback time.Duration) time.Duration {
	if dd.RefreshInterval == "" {
		return fallback
	}
	d, err := time.ParseDuration(dd.RefreshInterval)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
