package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Zemnmez/MeteoNook/internal/forecast"
	"github.com/Zemnmez/MeteoNook/internal/log"
	"github.com/Zemnmez/MeteoNook/internal/metrics"
	"github.com/Zemnmez/MeteoNook/internal/observations"
	"github.com/Zemnmez/MeteoNook/internal/solver"
	"github.com/Zemnmez/MeteoNook/pkg/config"
	"github.com/Zemnmez/MeteoNook/pkg/weather"
)

// Deps are the domain dependencies the REST server serves from. Oracle is
// the uncached client handle used only for health probes.
type Deps struct {
	Store     *observations.Store
	Solver    *solver.Engine
	Forecasts *forecast.Aggregator
	Oracle    weather.Oracle
}

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	restConfig     config.RESTServerData
	Server         http.Server

	island     config.IslandData
	hemisphere weather.Hemisphere
	deps       Deps

	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, rc config.RESTServerData, deps Deps, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		restConfig:     rc,
		deps:           deps,
		logger:         logger,
	}

	island, err := configProvider.GetIsland()
	if err != nil {
		return nil, fmt.Errorf("error loading island configuration: %v", err)
	}
	ctrl.island = *island

	ctrl.hemisphere, err = weather.ParseHemisphere(island.Hemisphere)
	if err != nil {
		return nil, fmt.Errorf("invalid island hemisphere: %v", err)
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl.restConfig = rc
	ctrl.handlers = NewHandlers(ctrl)

	router := ctrl.setupRouter()
	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = router

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.requestIDMiddleware)
	router.Use(c.observeMiddleware)
	if c.restConfig.RateLimit > 0 {
		router.Use(c.rateLimitMiddleware())
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/observations", c.handlers.ListObservations).Methods(http.MethodGet)
	api.HandleFunc("/observations/{date}", c.handlers.GetObservation).Methods(http.MethodGet)
	api.HandleFunc("/observations/{date}", c.handlers.PutObservation).Methods(http.MethodPut)
	api.HandleFunc("/observations/{date}", c.handlers.DeleteObservation).Methods(http.MethodDelete)
	api.HandleFunc("/observations/{date}/patterns", c.handlers.GetDayPatterns).Methods(http.MethodGet)
	api.HandleFunc("/solve", c.handlers.Solve).Methods(http.MethodPost)
	api.HandleFunc("/forecast/{year}", c.handlers.GetYearForecast).Methods(http.MethodGet)
	api.HandleFunc("/forecast/{year}/{month}", c.handlers.GetMonthForecast).Methods(http.MethodGet)
	api.HandleFunc("/patterns", c.handlers.ListPatterns).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	router.HandleFunc("/health", c.handlers.GetHealth).Methods(http.MethodGet)

	return router
}

// requestHemisphere resolves the hemisphere for a read-only request: the
// island's hemisphere unless ?hemisphere= overrides it.
func (c *Controller) requestHemisphere(req *http.Request) (weather.Hemisphere, error) {
	override := req.URL.Query().Get("hemisphere")
	if override == "" {
		return c.hemisphere, nil
	}
	return weather.ParseHemisphere(override)
}
