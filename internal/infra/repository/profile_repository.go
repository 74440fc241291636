package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/domain"
)

const (
	profileKeyPrefix       = "reminder:profiles:"
	activeProfileKeyPrefix = "reminder:profiles:active:"
	legacyKeyPrefix        = "reminder:legacy:"
)

type profileRepository struct {
	client *redis.Client
}

func NewProfileRepository(client *redis.Client) domain.ProfileRepository {
	return &profileRepository{
		client: client,
	}
}

func (r *profileRepository) ListProfiles(ctx context.Context, userID string) ([]*domain.ScheduleProfile, error) {
	raw, err := r.client.HGetAll(ctx, profileKeyPrefix+userID).Result()
	if err != nil {
		return nil, err
	}

	profiles := make([]*domain.ScheduleProfile, 0, len(raw))
	for id, data := range raw {
		var p domain.ScheduleProfile
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("%w: profile %s: %v", ErrInvalidProfileData, id, err)
		}
		profiles = append(profiles, &p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})

	return profiles, nil
}

func (r *profileRepository) GetProfile(ctx context.Context, userID, profileID string) (*domain.ScheduleProfile, error) {
	data, err := r.client.HGet(ctx, profileKeyPrefix+userID, profileID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	var p domain.ScheduleProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfileData, err)
	}

	return &p, nil
}

func (r *profileRepository) SaveProfile(ctx context.Context, userID string, profile *domain.ScheduleProfile) error {
	if profile == nil || profile.ID == "" {
		return ErrInvalidProfileData
	}

	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfileData, err)
	}

	return r.client.HSet(ctx, profileKeyPrefix+userID, profile.ID, data).Err()
}

func (r *profileRepository) DeleteProfile(ctx context.Context, userID, profileID string) error {
	removed, err := r.client.HDel(ctx, profileKeyPrefix+userID, profileID).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func (r *profileRepository) GetActiveProfileID(ctx context.Context, userID string) (string, error) {
	id, err := r.client.Get(ctx, activeProfileKeyPrefix+userID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return id, nil
}

// SetActiveProfileID stores the pointer; an empty id clears it.
func (r *profileRepository) SetActiveProfileID(ctx context.Context, userID, profileID string) error {
	key := activeProfileKeyPrefix + userID
	if profileID == "" {
		return r.client.Del(ctx, key).Err()
	}
	return r.client.Set(ctx, key, profileID, 0).Err()
}

type legacySettingsRepository struct {
	client *redis.Client
}

func NewLegacySettingsRepository(client *redis.Client) domain.LegacySettingsRepository {
	return &legacySettingsRepository{
		client: client,
	}
}

func (r *legacySettingsRepository) GetLegacySettings(ctx context.Context, userID string) (*domain.LegacySettings, error) {
	data, err := r.client.Get(ctx, legacyKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrLegacySettingsAbsent
		}
		return nil, err
	}

	var s domain.LegacySettings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettingsData, err)
	}

	return &s, nil
}

func (r *legacySettingsRepository) DeleteLegacySettings(ctx context.Context, userID string) error {
	return r.client.Del(ctx, legacyKeyPrefix+userID).Err()
}
