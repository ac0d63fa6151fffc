// Package api boots the task board HTTP process.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	boardshttp "github.com/taskhive/taskhive-api/internal/domains/boards/adapters/http"
	boardsapp "github.com/taskhive/taskhive-api/internal/domains/boards/application"
	taskshttp "github.com/taskhive/taskhive-api/internal/domains/tasks/adapters/http"
	tasksobs "github.com/taskhive/taskhive-api/internal/domains/tasks/adapters/observability"
	tasksapp "github.com/taskhive/taskhive-api/internal/domains/tasks/application"
	"github.com/taskhive/taskhive-api/internal/platform/events"
	platformmigrations "github.com/taskhive/taskhive-api/internal/platform/migrations"
	platformobservability "github.com/taskhive/taskhive-api/internal/platform/observability"
	"github.com/taskhive/taskhive-api/internal/platform/persistence"
	platformpostgres "github.com/taskhive/taskhive-api/internal/platform/postgres"
	platformtemporal "github.com/taskhive/taskhive-api/internal/platform/temporal"
	platformuow "github.com/taskhive/taskhive-api/internal/platform/uow"
)

// Run boots the task board HTTP API with observability, persistence, and
// event delivery wired.
func Run(ctx context.Context) error {
	const serviceName = "taskhive-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer platformpostgres.Close(db)
	if err := platformmigrations.Run(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	dispatcher, cleanupDispatcher := buildDispatcher(cfg, instruments)
	defer cleanupDispatcher()

	uowFactory := platformuow.NewFactory(db,
		persistence.WithDispatcher(dispatcher),
		persistence.WithActorProvider(persistence.ContextActorProvider{}),
		persistence.WithLogger(logger),
	)

	boardService := boardsapp.NewService(uowFactory)
	taskService := tasksobs.New(
		tasksapp.NewService(uowFactory),
		tasksobs.WithLogger(logger),
		tasksobs.WithTracer(instruments.Tracer("internal.tasks.application")),
		tasksobs.WithMeter(instruments.Meter("internal.tasks.application")),
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(actorMiddleware())
	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	v1 := router.Group("/api/v1")
	boardshttp.NewHandler(boardService).Register(v1)
	taskshttp.NewHandler(taskService).Register(v1)

	addr := ":" + cfg.Port
	logger.Info("task board API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("task board API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// buildDispatcher prefers the Temporal relay and falls back to the
// in-process bus with a logging subscriber.
func buildDispatcher(cfg Config, instruments *platformobservability.Instruments) (persistence.Dispatcher, func()) {
	logger := effectiveLogger(instruments)
	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal event relay unavailable, dispatching in process", slog.String("error", err.Error()))
		bus := events.NewBus(logger)
		bus.Subscribe("*", events.LogHandler(logger))
		return bus, func() {}
	}
	logger.Info("Temporal event relay enabled", slog.String("namespace", cfg.TemporalNamespace))
	return platformtemporal.NewDispatcher(temporalClient, logger), temporalClient.Close
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
