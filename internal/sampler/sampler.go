// Package sampler runs one worker per logical processor, each pinned
// to its target CPU, and collects the decoded thermal reading of every
// core behind a single completion barrier.
package sampler

import (
	"context"
	"time"

	"github.com/joker5bb/msrtherm/internal/errors"
	"github.com/joker5bb/msrtherm/internal/logger"
	"github.com/joker5bb/msrtherm/internal/msr"
	"github.com/joker5bb/msrtherm/internal/report"
)

// InvalidReading marks a core whose temperature could not be sampled:
// the sensor reported no valid reading, the register read faulted, or
// the worker never launched.
const InvalidReading = -1

// CoreSample is the per-processor result slot. Exactly one worker
// writes a slot, and only before its done channel is closed; the
// orchestrator reads it only afterwards.
type CoreSample struct {
	CPU            int
	RawTjMax       uint64
	RawThermStatus uint64
	RawMsr808      uint64
	Target         msr.TemperatureTarget
	Status         msr.ThermStatus
	Temperature    int

	done chan struct{}
}

// Sampler orchestrates one sampling pass across all logical CPUs.
type Sampler struct {
	reader  msr.Reader
	pinner  Pinner
	sink    report.Sink
	timeout time.Duration
	launch  func(fn func()) error
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithPinner overrides the affinity pinner. Tests substitute a fake so
// sampling does not need a real scheduler.
func WithPinner(p Pinner) Option {
	return func(s *Sampler) {
		s.pinner = p
	}
}

// WithTimeout bounds the wait for worker completion. Zero keeps the
// wait unbounded.
func WithTimeout(d time.Duration) Option {
	return func(s *Sampler) {
		s.timeout = d
	}
}

// WithLauncher overrides how workers are started. The default launcher
// starts a goroutine and cannot fail; tests inject failures to cover
// the degraded path.
func WithLauncher(launch func(fn func()) error) Option {
	return func(s *Sampler) {
		s.launch = launch
	}
}

// New builds a Sampler reading registers through reader and handing
// each formatted line to sink.
func New(reader msr.Reader, sink report.Sink, opts ...Option) *Sampler {
	s := &Sampler{
		reader: reader,
		pinner: NewUnixPinner(),
		sink:   sink,
		launch: func(fn func()) error {
			go fn()
			return nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run samples every logical processor in [0, processorCount) and
// returns one CoreSample per index. A worker that fails to launch or
// faults mid-read yields an InvalidReading slot; the other cores are
// unaffected. Run returns early with an error when the context is
// canceled or the configured timeout expires, in which case the error
// names the cores that never signaled.
func (s *Sampler) Run(ctx context.Context, processorCount int) ([]CoreSample, error) {
	errFactory := errors.New()

	if processorCount <= 0 {
		return nil, errFactory.New(ErrNoProcessors)
	}

	samples := make([]CoreSample, processorCount)
	for i := range samples {
		c := &samples[i]
		c.CPU = i
		c.Temperature = InvalidReading
		c.done = make(chan struct{})
	}

	for i := range samples {
		c := &samples[i]
		if err := s.launch(func() { s.sample(c) }); err != nil {
			logger.ErrorWithCode(errFactory.Wrap(ErrLaunchFailed, err).WithData(c.CPU)).Send()
			// The operator report stays uniform: an unlaunched core
			// still gets its invalid-marker line
			s.report(c)
			close(c.done)
		}
	}

	var deadline <-chan time.Time
	if s.timeout > 0 {
		t := time.NewTimer(s.timeout)
		defer t.Stop()
		deadline = t.C
	}

	// Completion signals arrive in arbitrary order; waiting on the
	// slots in index order still observes every one of them.
	for i := range samples {
		select {
		case <-samples[i].done:
		case <-ctx.Done():
			return samples, errFactory.Wrap(ErrAborted, ctx.Err()).WithData(stuckCores(samples))
		case <-deadline:
			return samples, errFactory.WithData(ErrStuckCores, stuckCores(samples))
		}
	}

	return samples, nil
}

func stuckCores(samples []CoreSample) []int {
	var stuck []int
	for i := range samples {
		select {
		case <-samples[i].done:
		default:
			stuck = append(stuck, samples[i].CPU)
		}
	}
	return stuck
}
