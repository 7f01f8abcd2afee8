package msr

import "github.com/joker5bb/msrtherm/internal/errors"

const (
	// Access errors
	ErrDeviceOpen  = errors.ErrorCode("msr_device_open_failed")
	ErrReadFaulted = errors.ErrorCode("msr_read_faulted")
)
