//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/config"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability"
	"github.com/KasumiMercury/primind-exercise-reminder/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if cfg.TaskQueue.PrimindTasksURL == "" {
		slog.Warn("PRIMIND_TASKS_URL not set, pending notifications will never be delivered")

		return taskqueue.NewNoopQueue(), nil, nil
	}

	tq := taskqueue.NewPrimindTasksClient(taskqueue.PrimindTasksConfig{
		BaseURL:           cfg.TaskQueue.PrimindTasksURL,
		QueueName:         cfg.TaskQueue.QueueName,
		CallbackURL:       cfg.TaskQueue.DeliveryCallbackURL,
		MaxRetries:        cfg.TaskQueue.MaxRetries,
		RequestsPerSecond: cfg.TaskQueue.RequestsPerSecond,
		Burst:             cfg.TaskQueue.Burst,
	})

	slog.Info("task queue initialized",
		slog.String("type", "primind_tasks"),
		slog.String("url", cfg.TaskQueue.PrimindTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
		slog.Float64("requests_per_second", cfg.TaskQueue.RequestsPerSecond),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "exercise-reminder"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:   env,
		GCPProjectID:  "",
		SamplingRate:  1.0,
		DefaultModule: moduleName,
		LogLevel:      cfg.LogLevel,
		LogFile: logging.FileConfig{
			Path:       cfg.LogFile,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 14,
		},
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
