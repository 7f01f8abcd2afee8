package sampler

import (
	"runtime"

	"github.com/joker5bb/msrtherm/internal/errors"
	"github.com/joker5bb/msrtherm/internal/logger"
	"github.com/joker5bb/msrtherm/internal/msr"
	"github.com/joker5bb/msrtherm/internal/report"
)

// sample is the per-core unit of work. It runs on a dedicated OS
// thread pinned to c.CPU, reads the three registers, decodes them and
// reports one line. Every exit path restores the prior affinity mask
// and closes the slot's done channel exactly once.
func (s *Sampler) sample(c *CoreSample) {
	defer close(c.done)

	errFactory := errors.New()

	// MSRs are processor-local; the reads must execute on the core
	// being reported on, so the thread is locked and pinned for the
	// duration of the read phase.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	restore, err := s.pinner.Pin(c.CPU)
	if err != nil {
		logger.ErrorWithCode(errFactory.Wrap(ErrPinFailed, err).WithData(c.CPU)).Send()
		s.report(c)
		return
	}

	readErr := s.readRegisters(c)
	restore()

	if readErr != nil {
		logger.ErrorWithCode(errFactory.Wrap(ErrReadFaulted, readErr).WithData(c.CPU)).Send()
		s.report(c)
		return
	}

	c.Target = msr.DecodeTemperatureTarget(c.RawTjMax)
	c.Status = msr.DecodeThermStatus(c.RawThermStatus)
	if c.Status.ReadingValid {
		c.Temperature = int(c.Target.Target) - int(c.Status.DTS)
	}

	s.report(c)
}

// readRegisters captures the three raw values in fixed order: thermal
// target, thermal status, then the custom register. The first failing
// read aborts the rest; decode never sees partial garbage flagged as
// valid because Temperature stays at the sentinel.
func (s *Sampler) readRegisters(c *CoreSample) error {
	var err error
	if c.RawTjMax, err = s.reader.Read(c.CPU, msr.AddrTemperatureTarget); err != nil {
		return err
	}
	if c.RawThermStatus, err = s.reader.Read(c.CPU, msr.AddrThermStatus); err != nil {
		return err
	}
	if c.RawMsr808, err = s.reader.Read(c.CPU, msr.AddrCustom808); err != nil {
		return err
	}
	return nil
}

func (s *Sampler) report(c *CoreSample) {
	line := report.FormatLine(c.CPU, c.Temperature, c.RawMsr808, c.Status)
	if err := s.sink.Write(line); err != nil {
		logger.Warn().Err(err).Msgf("Core(%d): report delivery failed", c.CPU)
	}
}
