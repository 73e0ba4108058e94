// Package main implements the report server: it consumes the daily-task
// lifecycle event stream into the archive and serves the reporting API on
// top of it.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/grouptaskmanager/taskflow/internal/api"
	"github.com/grouptaskmanager/taskflow/internal/api/middleware"
	"github.com/grouptaskmanager/taskflow/internal/archive"
	"github.com/grouptaskmanager/taskflow/internal/authclient"
	"github.com/grouptaskmanager/taskflow/internal/config"
	"github.com/grouptaskmanager/taskflow/internal/eventlog"
	"github.com/grouptaskmanager/taskflow/internal/platform/logger"
	"github.com/grouptaskmanager/taskflow/internal/platform/postgres"
	"github.com/grouptaskmanager/taskflow/internal/report"
	"github.com/grouptaskmanager/taskflow/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("report server failed: %v", err)
	}
}

func run() error {
	// A missing .env is fine outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logg := logger.Setup(cfg.Server)
	logg.Info("report server starting",
		"port", cfg.Server.Port,
		"kafka_topic", cfg.Kafka.Topic,
		"consumer_group", cfg.Kafka.ConsumerGroup)

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		return err
	}

	entryStore := postgres.NewArchiveEntryStore(db, logg)
	directory := authclient.New(cfg.Auth, logg)

	consumer := eventlog.NewKafkaConsumer(
		cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup, logg)
	defer func() {
		if err := consumer.Close(); err != nil {
			logg.Error("failed to close event consumer", "error", err)
		}
	}()

	builder, err := archive.NewBuilder(entryStore, consumer, logg)
	if err != nil {
		return fmt.Errorf("failed to create archive builder: %w", err)
	}

	reportService, err := report.NewService(entryStore, directory, logg)
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}

	// The builder runs for the life of the process; a hard failure there
	// takes the server down so the deployment restarts it cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builderErr := make(chan error, 1)
	go func() {
		builderErr <- builder.Run(ctx)
	}()

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.TraceMiddleware)
	router.Use(middleware.IdentityMiddleware)
	router.Route("/api", func(r chi.Router) {
		api.NewReportHandler(reportService, logg).RegisterRoutes(r)
	})

	return serve(router, cfg.Server.Port, builderErr, cancel, logg)
}

// serve runs the HTTP server until SIGINT, SIGTERM, or an archive builder
// failure, then drains in-flight requests within the shutdown timeout.
func serve(
	handler http.Handler,
	port int,
	builderErr <-chan error,
	stopBuilder context.CancelFunc,
	logg *slog.Logger,
) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case err := <-serverErr:
		runErr = fmt.Errorf("http server failed: %w", err)
	case err := <-builderErr:
		if err != nil {
			runErr = fmt.Errorf("archive builder failed: %w", err)
		} else {
			logg.Info("archive builder finished")
		}
	case sig := <-stop:
		logg.Info("shutting down", "signal", sig.String())
	}

	stopBuilder()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to shut down http server: %w", err)
	}
	return runErr
}
