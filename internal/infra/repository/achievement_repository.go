package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const achievementKeyPrefix = "reminder:achievements:"

type achievementRepository struct {
	client *redis.Client
}

func NewAchievementRepository(client *redis.Client) domain.AchievementRepository {
	return &achievementRepository{
		client: client,
	}
}

func (r *achievementRepository) UnlockedAchievements(ctx context.Context, userID string) (map[string]time.Time, error) {
	raw, err := r.client.HGetAll(ctx, achievementKeyPrefix+userID).Result()
	if err != nil {
		return nil, err
	}

	unlocked := make(map[string]time.Time, len(raw))
	for id, at := range raw {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			continue
		}
		unlocked[id] = t
	}

	return unlocked, nil
}

func (r *achievementRepository) MarkUnlocked(ctx context.Context, userID, achievementID string, at time.Time) (bool, error) {
	return r.client.HSetNX(ctx, achievementKeyPrefix+userID, achievementID, at.Format(time.RFC3339)).Result()
}
