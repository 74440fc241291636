//go:build gcloud

package queuerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

type bigQueryRecord struct {
	RunID          string    `bigquery:"run_id"`
	RecordedAt     time.Time `bigquery:"recorded_at"`
	UserID         string    `bigquery:"user_id"`
	Operation      string    `bigquery:"operation"`
	State          string    `bigquery:"state"`
	BeforeCount    int64     `bigquery:"before_count"`
	AfterCount     int64     `bigquery:"after_count"`
	ScheduledCount int64     `bigquery:"scheduled_count"`
	FailedCount    int64     `bigquery:"failed_count"`
	CancelledCount int64     `bigquery:"cancelled_count"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.QueueRunRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "queue run recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, queue run recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, queue run recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "queue run recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordRun(ctx context.Context, record domain.QueueRunRecord) error {
	row := &bigQueryRecord{
		RunID:          record.RunID,
		RecordedAt:     record.RecordedAt,
		UserID:         record.UserID,
		Operation:      record.Operation,
		State:          record.State,
		BeforeCount:    int64(record.BeforeCount),
		AfterCount:     int64(record.AfterCount),
		ScheduledCount: int64(record.ScheduledCount),
		FailedCount:    int64(record.FailedCount),
		CancelledCount: int64(record.CancelledCount),
	}

	if err := r.inserter.Put(ctx, row); err != nil {
		slog.WarnContext(ctx, "failed to insert queue run to BigQuery",
			slog.String("error", err.Error()),
			slog.String("user_id", record.UserID),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
