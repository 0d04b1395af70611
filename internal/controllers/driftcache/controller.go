// Package driftcache provides a dedicated controller that periodically
// recomputes drift estimates for the configured sites and caches them in
// the database, so the sites API serves precomputed tables instead of
// fetching a decade of archive data per request.
package driftcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/snofokk/snofokk/internal/controllers"
	"github.com/snofokk/snofokk/internal/database"
	"github.com/snofokk/snofokk/internal/drift"
	"github.com/snofokk/snofokk/internal/meteo"
	"github.com/snofokk/snofokk/pkg/config"
)

// defaultRefreshInterval applies when no interval is configured.
const defaultRefreshInterval = 6 * time.Hour

// historySeasons is how many snow seasons back each refresh analyzes.
const historySeasons = 10

// Controller manages the drift cache refresh lifecycle
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
	db             *database.Client
	estimator      *drift.Estimator
	meteoClient    *meteo.Client
	sites          []config.SiteData
	interval       time.Duration
	seasonStart    time.Month
}

// NewController creates a new drift cache controller. Returns an error
// when no sites are configured or the cache database is unavailable.
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*Controller, error) {
	if err := controllers.ValidateTimescaleDBConfig(configProvider, "drift cache"); err != nil {
		return nil, err
	}

	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if len(cfgData.Sites) == 0 {
		return nil, fmt.Errorf("no sites configured for the drift cache controller")
	}

	db, err := controllers.SetupDatabaseConnection(configProvider, logger)
	if err != nil {
		return nil, err
	}
	if err := db.CreateTables(); err != nil {
		return nil, err
	}

	params := controllers.DriftParams(cfgData.Drift)
	return &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		logger:         logger,
		db:             db,
		estimator:      drift.NewEstimator(params),
		meteoClient:    meteo.NewClient(cfgData.Meteo.APIEndpoint, logger),
		sites:          cfgData.Sites,
		interval:       controllers.RefreshInterval(cfgData.Drift, defaultRefreshInterval),
		seasonStart:    params.SeasonStartMonth,
	}, nil
}

// StartController begins the refresh loop. An initial refresh runs
// immediately so the cache is warm before the first tick.
func (c *Controller) StartController() error {
	c.logger.Infof("Starting drift cache controller for %d site(s), refresh every %v", len(c.sites), c.interval)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.refreshAll()

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.refreshAll()
			case <-c.ctx.Done():
				c.logger.Info("drift cache controller shutting down")
				return
			}
		}
	}()

	return nil
}

// refreshAll recomputes every site estimate. A failing site keeps its
// previously cached estimate and does not block the others.
func (c *Controller) refreshAll() {
	start, end := c.analysisRange(time.Now().UTC())
	for _, site := range c.sites {
		if err := c.refreshSite(site, start, end); err != nil {
			c.logger.Warnf("drift refresh failed for site %s, keeping previous estimate: %v", site.Name, err)
		}
	}
}

func (c *Controller) refreshSite(site config.SiteData, start, end time.Time) error {
	location := database.LocationString(site.Latitude, site.Longitude)

	series, err := c.db.GetWeatherFetch(location, start, end)
	if err != nil {
		c.logger.Warnf("weather cache lookup failed for site %s: %v", site.Name, err)
	}
	if series == nil {
		series, err = c.meteoClient.FetchArchive(c.ctx, meteo.Request{
			Latitude:  site.Latitude,
			Longitude: site.Longitude,
			Start:     start,
			End:       end,
		})
		if err != nil {
			return fmt.Errorf("archive fetch: %w", err)
		}
		if err := c.db.UpsertWeatherFetch(location, start, end, series); err != nil {
			c.logger.Warnf("could not cache weather payload for site %s: %v", site.Name, err)
		}
	}

	result, err := c.estimator.Estimate(series)
	if err != nil {
		return fmt.Errorf("estimation: %w", err)
	}

	if err := c.db.UpsertDriftEstimate(site.Name, location, site.PriceArea, result); err != nil {
		return fmt.Errorf("cache write: %w", err)
	}

	c.logger.Debugf("drift cache refreshed for site %s: %d seasons", site.Name, len(result.Seasons))
	return nil
}

// analysisRange spans the past historySeasons snow seasons, ending a few
// days back to allow for archive reanalysis lag.
func (c *Controller) analysisRange(now time.Time) (time.Time, time.Time) {
	end := now.AddDate(0, 0, -3)
	start := time.Date(end.Year()-historySeasons, c.seasonStart, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}
