package domain

import "errors"

var (
	ErrCapExceeded          = errors.New("pending notification ceiling reached")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrStaleDelivery        = errors.New("delivery does not match the pending request")
	ErrProfileNotFound      = errors.New("schedule profile not found")
	ErrNoActiveProfile      = errors.New("no active schedule profile")
	ErrProfileNameEmpty     = errors.New("schedule profile name cannot be empty")
	ErrInvalidProfile       = errors.New("invalid schedule profile")
	ErrInvalidTimeBlock     = errors.New("time block start must be before end")
	ErrProfileLimitReached  = errors.New("schedule profile limit reached")
	ErrLegacySettingsAbsent = errors.New("legacy settings not found")
)
