package config

import "errors"

// ValidateForRun checks everything the server needs before it starts.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Budget.Validate(); err != nil {
		errs = append(errs, err)
	}
	if cfg.Reminder == nil {
		errs = append(errs, ErrFiredLogDirMissing)
	} else if err := cfg.Reminder.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
