package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	LogLevel    slog.Level
	LogFile     string
	Location    *time.Location
	TaskQueue   TaskQueueConfig
	PushGateway PushGatewayConfig
	Redis       *RedisConfig
	Budget      *BudgetConfig
	Reminder    *ReminderConfig
}

type TaskQueueConfig struct {
	PrimindTasksURL string
	QueueName       string

	GCloudProjectID           string
	GCloudLocationID          string
	GCloudQueueID             string
	GCloudServiceAccountEmail string

	// DeliveryCallbackURL receives fired notifications.
	DeliveryCallbackURL string

	MaxRetries        int
	RequestsPerSecond float64
	Burst             int
	DeleteConcurrency int
}

type PushGatewayConfig struct {
	URL string
}

// LoadDotEnv reads .env (or the given files) into the environment without
// overriding variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("failed to load env file",
				slog.String("file", f),
				slog.String("error", err.Error()),
			)
		}
	}
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	queueName := os.Getenv("TASK_QUEUE_NAME")
	if queueName == "" {
		queueName = "default"
	}

	location, err := loadLocation(os.Getenv("REMINDER_TIMEZONE"))
	if err != nil {
		return nil, err
	}

	redisConfig, err := LoadRedisConfig()
	if err != nil {
		return nil, err
	}

	budgetConfig, err := LoadBudgetConfig()
	if err != nil {
		return nil, err
	}

	reminderConfig, err := LoadReminderConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     port,
		LogLevel: parseLogLevel(os.Getenv("LOG_LEVEL")),
		LogFile:  os.Getenv("LOG_FILE"),
		Location: location,
		TaskQueue: TaskQueueConfig{
			PrimindTasksURL: os.Getenv("PRIMIND_TASKS_URL"),
			QueueName:       queueName,

			GCloudProjectID:           os.Getenv("GCLOUD_PROJECT_ID"),
			GCloudLocationID:          os.Getenv("GCLOUD_LOCATION_ID"),
			GCloudQueueID:             os.Getenv("GCLOUD_QUEUE_ID"),
			GCloudServiceAccountEmail: os.Getenv("GCLOUD_SERVICE_ACCOUNT_EMAIL"),

			DeliveryCallbackURL: os.Getenv("DELIVERY_CALLBACK_URL"),

			MaxRetries:        positiveIntEnv("TASK_QUEUE_MAX_RETRIES", 3),
			RequestsPerSecond: positiveFloatEnv("TASK_QUEUE_RATE_LIMIT", 0),
			Burst:             positiveIntEnv("TASK_QUEUE_BURST", 10),
			DeleteConcurrency: positiveIntEnv("TASK_QUEUE_DELETE_CONCURRENCY", 8),
		},
		PushGateway: PushGatewayConfig{
			URL: os.Getenv("PUSH_GATEWAY_URL"),
		},
		Redis:    redisConfig,
		Budget:   budgetConfig,
		Reminder: reminderConfig,
	}, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}

func positiveIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func positiveFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
