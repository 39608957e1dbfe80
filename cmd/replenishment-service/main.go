package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ridadata/procurement-pipeline/internal/replenishment/engine"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/events"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/facts"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/handler"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/output"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/repository"
	"github.com/Ridadata/procurement-pipeline/internal/replenishment/service"
	"github.com/Ridadata/procurement-pipeline/pkg/config"
	"github.com/Ridadata/procurement-pipeline/pkg/database"
	"github.com/Ridadata/procurement-pipeline/pkg/httputil"
	"github.com/Ridadata/procurement-pipeline/pkg/logger"
	"github.com/Ridadata/procurement-pipeline/pkg/messaging"
	"github.com/Ridadata/procurement-pipeline/pkg/metrics"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation("replenishment-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("replenishment-service", cfg.Server.Environment)
	log.Info().Msg("starting Replenishment Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	// Initialize event publisher
	publisher, err := events.NewRunEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Initialize pipeline components
	masterRepo := repository.NewMasterRepository(db)
	runRepo := repository.NewRunRepository(db)
	factStore := facts.NewStore(cfg.Pipeline.DataDir, log)
	orderWriter := output.NewWriter(cfg.Pipeline.OutputDir, log)
	eng := engine.New(cfg.Pipeline.SpikeMultiplier, log)
	m := metrics.NewDefault()

	// Initialize service
	replenishmentService := service.NewReplenishmentService(
		factStore, masterRepo, runRepo, orderWriter, publisher, eng, m, log,
	)

	// Initialize handlers
	runHandler := handler.NewRunHandler(replenishmentService, log)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "replenishment-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api/v1/replenishment", runHandler.Routes)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
