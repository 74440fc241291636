package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const (
	exerciseLogKeyPrefix = "reminder:exercise_logs:"

	// exerciseLogRetention bounds the history kept per user.
	exerciseLogRetention = 400 * 24 * time.Hour
)

type exerciseLogRepository struct {
	client *redis.Client
}

func NewExerciseLogRepository(client *redis.Client) domain.ExerciseLogRepository {
	return &exerciseLogRepository{
		client: client,
	}
}

func (r *exerciseLogRepository) AddLog(ctx context.Context, userID string, log domain.ExerciseLog) error {
	if log.CompletedAt.IsZero() {
		return ErrInvalidExerciseLog
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExerciseLog, err)
	}

	key := exerciseLogKeyPrefix + userID
	cutoff := log.CompletedAt.Add(-exerciseLogRetention).UnixMilli()

	pipe := r.client.TxPipeline()
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(log.CompletedAt.UnixMilli()), Member: data})
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))

	_, err = pipe.Exec(ctx)
	return err
}

// LogsInRange returns logs completed in [start, end), oldest first.
func (r *exerciseLogRepository) LogsInRange(ctx context.Context, userID string, start, end time.Time) ([]domain.ExerciseLog, error) {
	minScore := "-inf"
	if !start.IsZero() {
		minScore = strconv.FormatInt(start.UnixMilli(), 10)
	}

	members, err := r.client.ZRangeByScore(ctx, exerciseLogKeyPrefix+userID, &redis.ZRangeBy{
		Min: minScore,
		Max: "(" + strconv.FormatInt(end.UnixMilli(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	logs := make([]domain.ExerciseLog, 0, len(members))
	for _, m := range members {
		var l domain.ExerciseLog
		if err := json.Unmarshal([]byte(m), &l); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExerciseLog, err)
		}
		logs = append(logs, l)
	}

	return logs, nil
}
