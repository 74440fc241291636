package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/config"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/handler"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/health"
	infrafiredlog "github.com/KasumiMercury/primind-exercise-reminder/internal/infra/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/notificationcenter"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/pushgateway"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/queuerecorder"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/repository"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/logging"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/metrics"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/middleware"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/firedlog"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/lane"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/nexttime"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/profile"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/queue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/reminder"
)

// Version is set via ldflags at build time
var Version = "dev"

const moduleName = logging.Module("exercise-reminder")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	obs, err := initObservability(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	queueMetrics, err := metrics.NewQueueMetrics()
	if err != nil {
		slog.Error("failed to initialize queue metrics", slog.String("error", err.Error()))
		return 1
	}

	// Queue runs go to InfluxDB locally and BigQuery on gcloud.
	runRecorder, err := queuerecorder.NewRecorder(ctx, queuerecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize queue run recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := runRecorder.Close(); err != nil {
			slog.Warn("failed to close queue run recorder", slog.String("error", err.Error()))
		}
	}()

	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	firedStore, err := newFiredLogStore(cfg.Reminder)
	if err != nil {
		slog.Error("failed to initialize fired log store", slog.String("error", err.Error()))
		return 1
	}

	clock := domain.SystemClock{Location: cfg.Location}
	classifier := lane.NewClassifier(cfg.Location)
	calculator := nexttime.NewCalculator(newJitter(cfg.Reminder))
	b := cfg.Budget.Budget

	centers := notificationcenter.NewProvider(redisClient, taskQueue, clock, b.PendingCeiling, cfg.TaskQueue.DeleteConcurrency)
	centerFor := func(userID string) reminder.Center { return centers.For(userID) }

	profileRepo := repository.NewProfileRepository(redisClient)
	legacyRepo := repository.NewLegacySettingsRepository(redisClient)

	reminderService := reminder.NewService(reminder.Dependencies{
		Profiles:     profile.NewService(profileRepo, legacyRepo, clock, cfg.Reminder.FreeProfileLimit),
		Legacy:       legacyRepo,
		Settings:     repository.NewUserSettingsRepository(redisClient),
		ExerciseLogs: repository.NewExerciseLogRepository(redisClient),
		Achievements: repository.NewAchievementRepository(redisClient),
		Centers:      centerFor,
		Queues: queue.NewRegistry(func(userID string) *queue.Manager {
			return queue.NewManager(userID, centers.For(userID), calculator, classifier, b, clock, queueMetrics, runRecorder)
		}),
		FiredLog:   firedlog.NewLog(firedStore, clock),
		Gateway:    pushgateway.NewClient(cfg.PushGateway.URL),
		Classifier: classifier,
		Calculator: calculator,
		Budget:     b,
		Clock:      clock,
	})

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     moduleName,
		Worker:     true,
		TracerName: "github.com/KasumiMercury/primind-exercise-reminder/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if taskName := c.Request.Header.Get("X-CloudTasks-TaskName"); taskName != "" {
				return taskName
			}
			return c.FullPath()
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())
	grpcPath, grpcHandler := healthChecker.GRPCHandler()
	r.Any(grpcPath+"*method", gin.WrapH(grpcHandler))

	handler.RegisterRoutes(r, reminderService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("timezone", cfg.Location.String()),
			slog.Int("pending_ceiling", b.PendingCeiling),
			slog.Int("exercise_cap", b.ExerciseCap),
			slog.Int("refill_threshold", b.RefillThreshold),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}

func newFiredLogStore(cfg *config.ReminderConfig) (domain.FiredLogStore, error) {
	if cfg.FiredLogMode == config.FiredLogModeMemory {
		return infrafiredlog.NewMemoryStore(), nil
	}
	return infrafiredlog.NewFileStore(cfg.FiredLogDir)
}

func newJitter(cfg *config.ReminderConfig) nexttime.Jitter {
	if cfg.HasJitterSeed {
		return nexttime.NewRandomJitter(uint64(cfg.JitterSeed))
	}
	return nexttime.NewRandomJitter(uint64(time.Now().UnixNano()))
}
