package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/kumohax/platform/pkg/alerts"
	"github.com/kumohax/platform/pkg/analytics"
	"github.com/kumohax/platform/pkg/common/config"
	"github.com/kumohax/platform/pkg/common/database"
	"github.com/kumohax/platform/pkg/common/kafka"
	"github.com/kumohax/platform/pkg/common/logger"
	"github.com/kumohax/platform/pkg/gateway/middleware"
	"github.com/kumohax/platform/pkg/gateway/routes"
	"github.com/kumohax/platform/pkg/ingest"
	"github.com/kumohax/platform/pkg/observability/metrics"
	"github.com/kumohax/platform/pkg/patient"
	"github.com/kumohax/platform/pkg/prediction"
)

func main() {
	logger.Init()
	cfg := config.Load()

	catalog, err := prediction.LoadCatalog(cfg.EventCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Warn("event catalog unavailable, using built-in defaults")
		catalog = prediction.DefaultCatalog()
	}

	store := patient.NewStore()
	mock := prediction.NewMockGenerator(catalog, nil)
	client := prediction.NewClient(cfg, mock)
	batch := prediction.NewBatchPredictor(client, mock)
	aggregator := analytics.NewAggregator(cfg.DemoMultiplier, nil)

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.IngestionKafkaTopic)
	if producer != nil {
		defer producer.Close()
	}

	service := ingest.NewService(store, client, batch, producer)
	service.Seed(context.Background())

	generator := alerts.NewGenerator(store, client.Configured, cfg.AlertMinInterval, cfg.AlertMaxInterval, nil)

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	if rdb := database.NewRedis(cfg); rdb != nil {
		bridge := alerts.NewRedisBridge(rdb, "alerts.stream")
		generator.SetPublisher(bridge)
		go bridge.Run(rootCtx, generator)
		logger.Log.Info("alert fan-out through redis enabled")
	}
	go generator.Run(rootCtx)

	// Setup router
	router := mux.NewRouter()

	// Middleware
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	// Health answers at the root as well as under /api
	health := routes.NewHealthHandler(store, client)
	health.Register(router)

	// API routes
	apiRouter := router.PathPrefix("/api").Subrouter()
	health.Register(apiRouter)
	routes.NewDashboardHandler(store, aggregator, client).Register(apiRouter)
	routes.NewPatientsHandler(store, service, client).Register(apiRouter)
	routes.NewCohortHandler(store, batch).Register(apiRouter)
	routes.NewPredictHandler(store, client, batch).Register(apiRouter)
	routes.NewRecentAlertsHandler(store).Register(apiRouter)
	routes.NewModelHandler(client).Register(apiRouter)
	routes.NewKumoHandler(client).Register(apiRouter)
	ingest.NewHTTPHandler(service, cfg.MaxRequestBody).Register(apiRouter)
	alerts.NewSSEHandler(generator).Register(apiRouter)

	// WriteTimeout stays zero: the alert stream holds connections open
	// indefinitely and a server-wide write deadline would sever it.
	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:     router,
		ReadTimeout: cfg.ReadTimeout,
		IdleTimeout: 120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("RFM service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down RFM service...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("RFM service stopped")
}
