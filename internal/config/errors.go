package config

import "errors"

var (
	ErrRedisAddrMissing    = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB      = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidInteger      = errors.New("value must be a valid integer")
	ErrInvalidTimezone     = errors.New("REMINDER_TIMEZONE must be a valid IANA time zone")
	ErrBudgetMissing       = errors.New("notification budget is not configured")
	ErrFiredLogDirMissing  = errors.New("FIRED_LOG_DIR is required in file mode")
	ErrInvalidFiredLogMode = errors.New("FIRED_LOG_MODE must be file or memory")
	ErrInvalidProfileLimit = errors.New("FREE_PROFILE_LIMIT must be positive")
	ErrCallbackURLMissing  = errors.New("DELIVERY_CALLBACK_URL is required")
)
