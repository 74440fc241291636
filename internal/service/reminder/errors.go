package reminder

import "errors"

var (
	ErrInvalidFrequency   = errors.New("report frequency must be daily, weekly or monthly")
	ErrInvalidExerciseLog = errors.New("exercise log needs a name and a positive duration")
)
