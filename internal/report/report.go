// Package report formats per-core thermal readings and fans them out
// to the configured sinks.
package report

import (
	"fmt"

	"github.com/joker5bb/msrtherm/internal/logger"
	"github.com/joker5bb/msrtherm/internal/msr"
)

// Sink receives one newline-terminated report line per core.
type Sink interface {
	Write(line string) error
	Close() error
}

// FormatLine renders the operator-facing line for one core. Invalid
// readings get an explicit marker instead of a number; the raw custom
// register is echoed verbatim in hex either way.
func FormatLine(cpu, temperature int, rawMsr808 uint64, status msr.ThermStatus) string {
	if temperature < 0 {
		return fmt.Sprintf("Core(%02d): Temperature reading invalid, MSR808=0x%016X\n", cpu, rawMsr808)
	}

	return fmt.Sprintf(
		"Core(%02d): Temp=%d°C, MSR808=0x%016X\n"+
			"  ThermStatus: StatusBit=%d, PROCHOT=%d, CriticalTemp=%d, Threshold1=%d, Threshold2=%d, PowerLimit=%d\n"+
			"  DTS=%d, Resolution=%d, ReadingValid=%d\n",
		cpu,
		temperature,
		rawMsr808,
		boolToInt(status.StatusBit),
		boolToInt(status.PROCHOT),
		boolToInt(status.CriticalTemp),
		boolToInt(status.Threshold1),
		boolToInt(status.Threshold2),
		boolToInt(status.PowerLimit),
		status.DTS,
		status.Resolution,
		boolToInt(status.ReadingValid),
	)
}

type logSink struct{}

// NewLogSink returns a Sink that writes each line to the debug/log
// channel.
func NewLogSink() Sink {
	return logSink{}
}

func (logSink) Write(line string) error {
	logger.Info().Msg(line)
	return nil
}

func (logSink) Close() error {
	return nil
}

type multiSink struct {
	sinks []Sink
}

// NewMultiSink fans each line out to every given sink. A failing sink
// does not stop delivery to the others; the first error is returned.
func NewMultiSink(sinks ...Sink) Sink {
	return &multiSink{sinks: sinks}
}

func (m *multiSink) Write(line string) error {
	var first error
	for _, s := range m.sinks {
		if err := s.Write(line); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *multiSink) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
