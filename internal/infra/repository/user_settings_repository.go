package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const userSettingsKeyPrefix = "reminder:settings:"

type userSettingsRepository struct {
	client *redis.Client
}

func NewUserSettingsRepository(client *redis.Client) domain.UserSettingsRepository {
	return &userSettingsRepository{
		client: client,
	}
}

// GetUserSettings returns the defaults for users that never saved settings.
func (r *userSettingsRepository) GetUserSettings(ctx context.Context, userID string) (domain.UserSettings, error) {
	data, err := r.client.Get(ctx, userSettingsKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.DefaultUserSettings(), nil
		}
		return domain.UserSettings{}, err
	}

	settings := domain.DefaultUserSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return domain.UserSettings{}, fmt.Errorf("%w: %v", ErrInvalidSettingsData, err)
	}

	return settings, nil
}

func (r *userSettingsRepository) SaveUserSettings(ctx context.Context, userID string, settings domain.UserSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettingsData, err)
	}
	return r.client.Set(ctx, userSettingsKeyPrefix+userID, data, 0).Err()
}
