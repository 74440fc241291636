package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/profile"
)

const (
	firedLogModeEnv     = "FIRED_LOG_MODE"
	firedLogDirEnv      = "FIRED_LOG_DIR"
	freeProfileLimitEnv = "FREE_PROFILE_LIMIT"
	jitterSeedEnv       = "JITTER_SEED"

	FiredLogModeFile   = "file"
	FiredLogModeMemory = "memory"

	defaultFiredLogDir = "data/fired"
)

type ReminderConfig struct {
	FiredLogMode     string
	FiredLogDir      string
	FreeProfileLimit int
	// JitterSeed makes reminder jitter reproducible when set.
	JitterSeed    int64
	HasJitterSeed bool
}

func LoadReminderConfig() (*ReminderConfig, error) {
	cfg := &ReminderConfig{
		FiredLogMode:     os.Getenv(firedLogModeEnv),
		FiredLogDir:      os.Getenv(firedLogDirEnv),
		FreeProfileLimit: profile.DefaultFreeProfileLimit,
	}

	if cfg.FiredLogMode == "" {
		cfg.FiredLogMode = FiredLogModeFile
	}
	if cfg.FiredLogDir == "" {
		cfg.FiredLogDir = defaultFiredLogDir
	}

	if v := os.Getenv(freeProfileLimitEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInteger, freeProfileLimitEnv)
		}
		cfg.FreeProfileLimit = parsed
	}

	if v := os.Getenv(jitterSeedEnv); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInteger, jitterSeedEnv)
		}
		cfg.JitterSeed = parsed
		cfg.HasJitterSeed = true
	}

	return cfg, nil
}

func (c *ReminderConfig) Validate() error {
	switch c.FiredLogMode {
	case FiredLogModeFile:
		if c.FiredLogDir == "" {
			return ErrFiredLogDirMissing
		}
	case FiredLogModeMemory:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFiredLogMode, c.FiredLogMode)
	}
	if c.FreeProfileLimit <= 0 {
		return ErrInvalidProfileLimit
	}
	return nil
}
