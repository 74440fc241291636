package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/KasumiMercury/primind-exercise-reminder/internal/service/budget"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "REMINDER_TIMEZONE", "REDIS_ADDR", "REDIS_DB",
		pendingCeilingEnv, exerciseCapEnv, refillThresholdEnv,
		firedLogModeEnv, firedLogDirEnv, freeProfileLimitEnv, jitterSeedEnv,
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Redis.Addr != defaultRedisAddr {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Budget.Budget != budget.Default() {
		t.Errorf("Budget = %+v, want defaults", cfg.Budget.Budget)
	}
	if cfg.Reminder.FiredLogMode != FiredLogModeFile || cfg.Reminder.HasJitterSeed {
		t.Errorf("Reminder = %+v", cfg.Reminder)
	}
	if err := ValidateForRun(cfg); err != nil {
		t.Errorf("ValidateForRun() error = %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REMINDER_TIMEZONE", "Asia/Tokyo")
	t.Setenv(exerciseCapEnv, "40")
	t.Setenv(refillThresholdEnv, "20")
	t.Setenv(firedLogModeEnv, FiredLogModeMemory)
	t.Setenv(jitterSeedEnv, "42")
	t.Setenv("TASK_QUEUE_RATE_LIMIT", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Location.String() != "Asia/Tokyo" {
		t.Errorf("Location = %v", cfg.Location)
	}
	if cfg.Budget.ExerciseCap != 40 || cfg.Budget.RefillThreshold != 20 {
		t.Errorf("Budget = %+v", cfg.Budget.Budget)
	}
	if !cfg.Reminder.HasJitterSeed || cfg.Reminder.JitterSeed != 42 {
		t.Errorf("JitterSeed = %d (set %v)", cfg.Reminder.JitterSeed, cfg.Reminder.HasJitterSeed)
	}
	if cfg.TaskQueue.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.TaskQueue.RequestsPerSecond)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{name: "timezone", key: "REMINDER_TIMEZONE", val: "Mars/Olympus", want: ErrInvalidTimezone},
		{name: "redis db", key: "REDIS_DB", val: "zero", want: ErrInvalidRedisDB},
		{name: "redis pool", key: redisPoolSizeEnv, val: "-1", want: ErrInvalidInteger},
		{name: "budget", key: pendingCeilingEnv, val: "many", want: ErrInvalidInteger},
		{name: "seed", key: jitterSeedEnv, val: "x", want: ErrInvalidInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateForRun_Budget(t *testing.T) {
	t.Setenv(pendingCeilingEnv, "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := ValidateForRun(cfg); !errors.Is(err, budget.ErrBudgetExceedsCeiling) {
		t.Errorf("ValidateForRun() error = %v, want ErrBudgetExceedsCeiling", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("REMINDER_DOTENV_PROBE=loaded\nPORT=9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "8081")
	t.Setenv("REMINDER_DOTENV_PROBE", "")
	os.Unsetenv("REMINDER_DOTENV_PROBE")

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	if got := os.Getenv("REMINDER_DOTENV_PROBE"); got != "loaded" {
		t.Errorf("REMINDER_DOTENV_PROBE = %q, want loaded", got)
	}
	if got := os.Getenv("PORT"); got != "8081" {
		t.Errorf("PORT = %q, existing variables must win", got)
	}
}

func TestRedisConfig_Options(t *testing.T) {
	plain := (&RedisConfig{Addr: "cache:6379", DB: 2, PoolSize: 20}).Options()
	if plain.Addr != "cache:6379" || plain.DB != 2 || plain.PoolSize != 20 {
		t.Errorf("Options() = %+v", plain)
	}
	if plain.TLSConfig != nil {
		t.Error("TLSConfig set without REDIS_TLS")
	}

	secure := (&RedisConfig{Addr: "cache:6380", TLS: true}).Options()
	if secure.TLSConfig == nil {
		t.Fatal("TLSConfig missing with REDIS_TLS")
	}
}
