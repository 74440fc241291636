//go:build !gcloud

package queuerecorder

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const measurement = "queue_run"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.QueueRunRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "queue run recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, queue run recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "queue run recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func runPoint(record domain.QueueRunRecord) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	return influxdb2.NewPoint(
		measurement,
		map[string]string{
			"run_id":    runID,
			"user_id":   record.UserID,
			"operation": record.Operation,
			"state":     record.State,
		},
		map[string]any{
			"before_count":    record.BeforeCount,
			"after_count":     record.AfterCount,
			"scheduled_count": record.ScheduledCount,
			"failed_count":    record.FailedCount,
			"cancelled_count": record.CancelledCount,
		},
		record.RecordedAt,
	)
}

// RecordRun never fails the queue operation; write errors are logged.
func (r *influxDBRecorder) RecordRun(ctx context.Context, record domain.QueueRunRecord) error {
	if err := r.writeAPI.WritePoint(ctx, runPoint(record)); err != nil {
		slog.WarnContext(ctx, "failed to write queue run to InfluxDB",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID),
			slog.String("operation", record.Operation),
		)
	}
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
