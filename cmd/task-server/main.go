// Package main implements the task server: the daily-task HTTP API, the
// day-rollover scheduler, and the lifecycle event producer feeding the
// report server's archive.
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
	"github.com/grouptaskmanager/taskflow/internal/authclient"
	"github.com/grouptaskmanager/taskflow/internal/config"
	"github.com/grouptaskmanager/taskflow/internal/eventlog"
	"github.com/grouptaskmanager/taskflow/internal/platform/logger"
	"github.com/grouptaskmanager/taskflow/internal/platform/postgres"
	"github.com/grouptaskmanager/taskflow/internal/producer"
	"github.com/grouptaskmanager/taskflow/internal/rollover"
	"github.com/grouptaskmanager/taskflow/internal/service"
	"github.com/grouptaskmanager/taskflow/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("task server failed: %v", err)
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
	logg.Info("task server starting",
		"port", cfg.Server.Port,
		"kafka_topic", cfg.Kafka.Topic,
		"rollover_run_at", cfg.Rollover.RunAt)

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

	publisher := eventlog.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logg)
	defer func() {
		if err := publisher.Close(); err != nil {
			logg.Error("failed to close event publisher", "error", err)
		}
	}()

	taskStore := postgres.NewDailyTaskStore(db, logg)
	directory := authclient.New(cfg.Auth, logg)
	eventProducer := producer.New(publisher, logg)

	taskService, err := service.NewDailyTaskService(taskStore, directory, eventProducer, logg)
	if err != nil {
		return fmt.Errorf("failed to create task service: %w", err)
	}

	scheduler, err := rollover.New(taskStore, eventProducer, cfg.Rollover.RunAt, logg)
	if err != nil {
		return fmt.Errorf("failed to create rollover scheduler: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.TraceMiddleware)
	router.Use(middleware.IdentityMiddleware)
	router.Route("/api", func(r chi.Router) {
		api.NewDailyTaskHandler(taskService, logg).RegisterRoutes(r)
	})

	return serve(router, cfg.Server.Port, logg)
}

// serve runs the HTTP server until SIGINT or SIGTERM, then drains in-flight
// requests within the shutdown timeout.
func serve(handler http.Handler, port int, logg *slog.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-stop:
		logg.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
