package sampler

import "github.com/joker5bb/msrtherm/internal/errors"

const (
	// Fatal errors: the whole pass aborts
	ErrNoProcessors = errors.ErrorCode("sampler_no_processors")
	ErrAborted      = errors.ErrorCode("sampler_aborted")
	ErrStuckCores   = errors.ErrorCode("sampler_stuck_cores")

	// Per-core errors: absorbed into that core's result
	ErrLaunchFailed = errors.ErrorCode("sampler_launch_failed")
	ErrPinFailed    = errors.ErrorCode("sampler_pin_failed")
	ErrReadFaulted  = errors.ErrorCode("sampler_read_faulted")
)
