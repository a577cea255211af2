package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdpranavl/SanjeevanAI/internal/cases"
	"github.com/gdpranavl/SanjeevanAI/internal/iam"
	"github.com/gdpranavl/SanjeevanAI/internal/prescriptions"
	"github.com/gdpranavl/SanjeevanAI/internal/server"
	"github.com/gdpranavl/SanjeevanAI/pkg/config"
	"github.com/gdpranavl/SanjeevanAI/pkg/database"
	"github.com/gdpranavl/SanjeevanAI/pkg/logger"
	"github.com/gdpranavl/SanjeevanAI/pkg/monitoring"
)

const (
	serviceName    = "case-service"
	serviceVersion = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel)
	log.WithFields(map[string]interface{}{
		"service": serviceName,
		"version": serviceVersion,
	}).Info("Starting case service")

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.WithError(err).Error("Failed to close database connection")
		}
	}()

	// Initialize monitoring
	metrics := monitoring.NewMetricsCollector(serviceName)
	health := monitoring.NewHealthManager(serviceName, serviceVersion)
	health.RegisterChecker("mongodb", monitoring.NewMongoHealthChecker(db))
	health.SetTimeout(5 * time.Second)

	// Initialize repositories
	caseRepo := cases.NewRepository(db, log, metrics)
	prescriptionRepo := prescriptions.NewRepository(db, log, metrics)
	doctorRepo := iam.NewRepository(db, log, metrics)

	// The unique Email index backs the duplicate signup check
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := doctorRepo.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		log.WithError(err).Error("Failed to ensure doctor indexes")
		os.Exit(1)
	}
	indexCancel()

	// Initialize services
	caseService := cases.NewService(caseRepo, log)
	prescriptionService := prescriptions.NewService(prescriptionRepo, log)
	iamService := iam.NewService(&cfg.JWT, log, doctorRepo, iam.NewPasswordManager())

	// Rate limiter lives here so its cleanup goroutine stops on shutdown
	var limiter *server.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = server.NewRateLimiter(cfg.RateLimit.RequestsPerMin, time.Minute)
		limiter.StartCleanup(time.Duration(cfg.RateLimit.CleanupInterval) * time.Second)
		defer limiter.Stop()
	}

	// Initialize HTTP handlers and router
	router := server.NewRouter(&server.Dependencies{
		Config:               cfg,
		Logger:               log,
		Metrics:              metrics,
		Health:               health,
		RateLimiter:          limiter,
		CaseHandlers:         cases.NewHandlers(caseService, log, metrics),
		PrescriptionHandlers: prescriptions.NewHandlers(prescriptionService, log, metrics),
		AuthHandlers:         iam.NewHandlers(iamService, log, metrics),
	})

	// Setup HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.WithField("address", srv.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start HTTP server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down case service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Case service stopped")
}
