package sampler

import (
	"golang.org/x/sys/unix"

	"github.com/joker5bb/msrtherm/internal/errors"
	"github.com/joker5bb/msrtherm/internal/logger"
)

// Pinner restricts the calling thread to a single logical CPU. Pin
// returns a restore function that reinstates the mask in effect before
// the call; callers must invoke it on every path so pinning never
// leaks into whatever the scheduler runs on that thread next. The
// calling goroutine must already be locked to its OS thread.
type Pinner interface {
	Pin(cpu int) (restore func(), err error)
}

type unixPinner struct{}

// NewUnixPinner returns the sched_setaffinity-backed Pinner used in
// production.
func NewUnixPinner() Pinner {
	return unixPinner{}
}

func (unixPinner) Pin(cpu int) (func(), error) {
	errFactory := errors.New()

	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		return nil, errFactory.Wrap(ErrPinFailed, err).WithData(cpu)
	}

	var set unix.CPUSet
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return nil, errFactory.Wrap(ErrPinFailed, err).WithData(cpu)
	}

	restore := func() {
		if err := unix.SchedSetaffinity(0, &prev); err != nil {
			logger.Warn().Err(err).Msgf("Core(%d): failed to restore affinity mask", cpu)
		}
	}

	return restore, nil
}
