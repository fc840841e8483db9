package scheduler

import "errors"

var (
	// ErrCycleInProgress is returned when a multi-platform cycle is
	// already executing; single-flight rejects the new trigger
	ErrCycleInProgress = errors.New("scheduler: sync cycle already in progress")

	// ErrNoEnabledPlatforms is returned when a cycle finds nothing to run
	ErrNoEnabledPlatforms = errors.New("scheduler: no enabled platforms")

	// ErrInvalidConfig is returned when scheduler configuration is invalid
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
)
