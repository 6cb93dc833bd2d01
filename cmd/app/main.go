package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/jobs"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := newLogger(configs.LogLevel)
	slog.SetDefault(logger)

	gormDB := mustGormOpen(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}

	consumerDone := startConsumer(ctx, app, logger)

	e := newWebServer(app, logger)
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
	<-consumerDone
	shutdown(app, jobManager, logger)
}

func getConfigs() cmd.Config {
	// .env is optional; real environment variables win.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:                    envOr("HTTP_PORT", "8080"),
		DBHost:                      envOr("DB_HOST", "localhost"),
		DBPort:                      envOr("DB_PORT", "5432"),
		DBUser:                      envOr("DB_USER", "postgres"),
		DBPassword:                  os.Getenv("DB_PASSWORD"),
		DBName:                      envOr("DB_NAME", "fulfillment"),
		DBSslMode:                   envOr("DB_SSLMODE", "disable"),
		KafkaHost:                   os.Getenv("KAFKA_HOST"),
		KafkaConsumerGroup:          envOr("KAFKA_CONSUMER_GROUP", "fulfillment"),
		KafkaOrderCompletedTopic:    envOr("KAFKA_ORDER_COMPLETED_TOPIC", "orders.completed"),
		KafkaFulfillmentStatusTopic: envOr("KAFKA_FULFILLMENT_STATUS_TOPIC", "fulfillment.status-changed"),
		StrictTransitions:           envBool("FULFILLMENT_STRICT_TRANSITIONS", true),
		ShipPolicy:                  envOr("FULFILLMENT_SHIP_POLICY", "permissive"),
		StatsJobSchedule:            envOr("STATS_JOB_SCHEDULE", jobs.DefaultStatsSchedule),
		LogLevel:                    envOr("LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	gormDB, err := gorm.Open(pgdriver.New(pgdriver.Config{DSN: dsn}), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}
	return gormDB
}

func startConsumer(ctx context.Context, app *cmd.CompositionRoot, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	consumer := app.CreateOrderCompletedConsumer()
	if consumer == nil {
		logger.Info("kafka not configured, order completed consumer disabled")
		close(done)
		return done
	}

	go func() {
		defer close(done)
		if err := consumer.Run(ctx); err != nil {
			logger.Error("order completed consumer stopped", "error", err)
		}
		if err := consumer.Close(); err != nil {
			logger.Error("failed to close order completed consumer", "error", err)
		}
	}()
	return done
}

func newWebServer(app *cmd.CompositionRoot, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(httpin.MetricsMiddleware(app.Recorder()))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(app.Recorder().Handler()))

	httpin.NewServer(app.HTTPHandlers(), logger).Register(e)
	return e
}

func shutdown(app *cmd.CompositionRoot, jobManager *jobs.JobManager, logger *slog.Logger) {
	jobManager.StopAll()
	if err := app.Close(); err != nil {
		logger.Error("failed to close status publisher", "error", err)
	}
	if sqlDB, err := app.DB().DB(); err == nil {
		_ = sqlDB.Close()
	}
}
