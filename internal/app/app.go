package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"nsepulse/internal/breakout"
	"nsepulse/internal/config"
	"nsepulse/internal/dataprocessing"
	"nsepulse/internal/errors"
	"nsepulse/internal/infrastructure"
	customMiddleware "nsepulse/internal/middleware"
	"nsepulse/internal/services"
	handlers "nsepulse/internal/transport/http"
	ws "nsepulse/internal/websocket"
)

const (
	Version = "1.2.0"
	AppName = "NSE Pulse - Breakout Prediction Engine"
)

// Application is the main dependency container for the web server.
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	Metrics         *infrastructure.MetricsProvider
	EngineMetrics   *infrastructure.EngineMetrics
	WebSocketHub    *ws.Hub
	AnalysisService *services.AnalysisService
}

// NewApplication loads configuration, initializes infrastructure, loads the
// data series, and wires all services and routes.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	metrics, err := infrastructure.InitializeMetrics(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	engineMetrics, err := infrastructure.CreateEngineMetrics(metrics.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine metrics: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		EngineMetrics: engineMetrics,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices loads the series files and builds the analysis service.
func (a *Application) initializeServices() error {
	stock, err := LoadStockSeries(a.Config.Data.StockFile, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to load stock series: %w", err)
	}

	var market []breakout.MarketIndexDay
	if a.Config.Data.IndexFile != "" {
		market, err = LoadIndexSeries(a.Config.Data.IndexFile, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to load index series: %w", err)
		}
	} else {
		a.Logger.Warn("no index file configured, market factors will stay neutral")
	}

	a.Logger.Info("series loaded",
		slog.Int("stock_days", len(stock)),
		slog.Int("index_days", len(market)),
	)

	a.AnalysisService = services.NewAnalysisService(
		stock,
		market,
		EngineWeights(a.Config.Engine.Weights),
		a.Config.Engine.MaxConcurrency,
		a.Logger,
		a.EngineMetrics,
	)

	hub := ws.NewHub(a.Logger)
	hub.Start()
	a.WebSocketHub = hub

	return nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Minimal middleware first so the websocket upgrade is not wrapped
	// by anything that replaces the ResponseWriter.
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	wsHandler := handlers.NewWebSocketHandler(
		a.WebSocketHub,
		a.AnalysisService,
		a.Config.WebSocket,
		a.Config.Security.AllowedOrigins,
		a.Logger,
	)
	r.Handle("/ws", wsHandler)

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.Metrics(a.EngineMetrics))
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	if a.Metrics.PrometheusHTTP != nil {
		r.Handle("/metrics", a.Metrics.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures the API endpoints.
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		healthHandler := handlers.NewHealthHandler(a.Logger, Version, a.AnalysisService.Days)
		r.Mount("/healthz", healthHandler.Routes())

		errorHandler := errors.NewErrorHandler(a.Logger)
		analysisHandler := handlers.NewAnalysisHandler(a.AnalysisService, a.Logger, errorHandler)
		analysisHandler.SetBatchNotifier(func(count int) {
			a.WebSocketHub.Broadcast(ws.TypeBatch, map[string]int{"predictions": count})
		})
		r.Mount("/analysis", analysisHandler.Routes())
	})
}

// createServer builds the http.Server from config.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run starts the server and blocks until an interrupt, then shuts down
// gracefully within the configured timeout.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("http server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		a.Logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	return a.Stop()
}

// Stop shuts the server, hub, and infrastructure down.
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	a.WebSocketHub.Stop()

	if err := a.Server.Shutdown(ctx); err != nil {
		a.Logger.Error("graceful shutdown failed", slog.String("error", err.Error()))
		return err
	}

	if err := a.Metrics.Shutdown(ctx); err != nil {
		a.Logger.Warn("metrics shutdown failed", slog.String("error", err.Error()))
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("shutdown complete")
	return nil
}

// LoadStockSeries parses a bhavcopy file, dispatching on extension.
func LoadStockSeries(path string, logger *slog.Logger) ([]breakout.TradingDay, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return dataprocessing.ParseBhavcopyXLSX(path, logger)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		return dataprocessing.ParseBhavcopyCSV(f, logger)
	}
}

// LoadIndexSeries parses a market index CSV.
func LoadIndexSeries(path string, logger *slog.Logger) ([]breakout.MarketIndexDay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return dataprocessing.ParseIndexCSV(f, logger)
}

// EngineWeights converts configured weights into engine form.
func EngineWeights(w config.WeightsConfig) breakout.FactorWeights {
	return breakout.FactorWeights{
		StockTechnicals:   w.StockTechnicals,
		MarketCorrelation: w.MarketCorrelation,
		VolumePattern:     w.VolumePattern,
		DeliveryTrend:     w.DeliveryTrend,
		MarketSentiment:   w.MarketSentiment,
	}
}
