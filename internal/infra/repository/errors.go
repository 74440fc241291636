package repository

import "errors"

var (
	ErrRedisConnection      = errors.New("redis connection error")
	ErrInvalidProfileData   = errors.New("invalid profile data")
	ErrInvalidExerciseLog   = errors.New("invalid exercise log data")
	ErrInvalidSettingsData  = errors.New("invalid settings data")
	ErrInvalidRequestRecord = errors.New("invalid notification request data")
)
