// Package restserver exposes the map-data and snow-drift analysis REST
// API consumed by the dashboard frontend.
package restserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/snofokk/snofokk/internal/controllers"
	"github.com/snofokk/snofokk/internal/database"
	"github.com/snofokk/snofokk/internal/drift"
	"github.com/snofokk/snofokk/internal/elhub"
	"github.com/snofokk/snofokk/internal/geo"
	"github.com/snofokk/snofokk/internal/meteo"
	"github.com/snofokk/snofokk/pkg/config"
)

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	Server         http.Server
	DB             *database.Client
	DBEnabled      bool
	logger         *zap.SugaredLogger

	estimator   *drift.Estimator
	meteoClient *meteo.Client
	elhubClient *elhub.Client
	dataset     string

	// areasMu guards the feature properties: Enrich writes them while
	// Locate and Labels read them.
	areasMu sync.RWMutex
	areas   *geo.Areas

	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*Controller, error) {
	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %v", err)
	}

	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		logger:         logger,
		estimator:      drift.NewEstimator(controllers.DriftParams(cfgData.Drift)),
		meteoClient:    meteo.NewClient(cfgData.Meteo.APIEndpoint, logger),
		elhubClient:    elhub.NewClient(cfgData.Elhub.APIEndpoint, logger),
		dataset:        cfgData.Elhub.Dataset,
	}
	if ctrl.dataset == "" {
		ctrl.dataset = elhub.DatasetConsumptionPerGroupMBAHour
	}

	if cfgData.Map.GeoJSONPath != "" {
		areas, err := geo.LoadAreas(cfgData.Map.GeoJSONPath, logger)
		if err != nil {
			return nil, fmt.Errorf("error loading price area GeoJSON: %v", err)
		}
		ctrl.areas = areas
	}

	// The cache database is optional for the REST server; without it the
	// sites endpoint degrades to 503 while analysis stays available.
	if cfgData.Storage.TimescaleDB != nil && cfgData.Storage.TimescaleDB.ConnectionString != "" {
		db, err := controllers.SetupDatabaseConnection(configProvider, logger)
		if err != nil {
			logger.Warnf("REST server starting without cache database: %v", err)
		} else {
			ctrl.DB = db
			ctrl.DBEnabled = true
		}
	}

	ctrl.handlers = NewHandlers(ctrl)

	listenAddr := net.JoinHostPort(cfgData.HTTP.ListenAddr, strconv.Itoa(port(cfgData.HTTP.Port)))
	ctrl.Server = http.Server{
		Addr:         listenAddr,
		Handler:      ctrl.router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return ctrl, nil
}

func port(p int) int {
	if p == 0 {
		return 8080
	}
	return p
}

// router builds the API route table
func (c *Controller) router() http.Handler {
	r := mux.NewRouter()
	r.Use(c.requestLogger)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/snowdrift", c.handlers.GetSnowDrift).Methods(http.MethodGet)
	api.HandleFunc("/map", c.handlers.GetMap).Methods(http.MethodGet)
	api.HandleFunc("/areas", c.handlers.GetAreas).Methods(http.MethodGet)
	api.HandleFunc("/locate", c.handlers.GetLocate).Methods(http.MethodGet)
	api.HandleFunc("/sites", c.handlers.GetSites).Methods(http.MethodGet)
	api.HandleFunc("/health", c.handlers.GetHealth).Methods(http.MethodGet)

	return r
}

// StartController starts the HTTP listener and ties its lifetime to the
// controller context.
func (c *Controller) StartController() error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("error shutting down REST server: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Infof("REST server listening on %s", c.Server.Addr)
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	return nil
}
