// Package msr reads and decodes the model-specific registers that carry
// per-core thermal telemetry on Intel CPUs.
package msr

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/joker5bb/msrtherm/internal/errors"
)

// Register addresses sampled on every core.
const (
	AddrTemperatureTarget uint32 = 0x1A2
	AddrThermStatus       uint32 = 0x19C
	AddrCustom808         uint32 = 0x808
)

// DefaultDevicePath is the msr driver's per-CPU character device. The
// %d verb receives the logical CPU index.
const DefaultDevicePath = "/dev/cpu/%d/msr"

// Reader reads a single 64-bit register on a specific logical CPU.
// Implementations must treat unknown or disallowed addresses as an
// error, never as a crash; the msr device faults in the kernel and
// surfaces EIO here.
type Reader interface {
	Read(cpu int, addr uint32) (uint64, error)
}

type devReader struct {
	pathFormat string
}

// NewDevReader returns a Reader backed by the Linux msr character
// devices. pathFormat must contain a single %d for the CPU index; the
// empty string selects DefaultDevicePath.
func NewDevReader(pathFormat string) Reader {
	if pathFormat == "" {
		pathFormat = DefaultDevicePath
	}
	return &devReader{pathFormat: pathFormat}
}

func (r *devReader) Read(cpu int, addr uint32) (uint64, error) {
	errFactory := errors.New()

	f, err := os.Open(fmt.Sprintf(r.pathFormat, cpu))
	if err != nil {
		return 0, errFactory.Wrap(ErrDeviceOpen, err)
	}
	defer f.Close()

	buf := make([]byte, 8)
	if _, err := f.ReadAt(buf, int64(addr)); err != nil {
		return 0, errFactory.Wrap(ErrReadFaulted, err).WithData(fmt.Sprintf("cpu=%d msr=0x%X", cpu, addr))
	}

	return binary.LittleEndian.Uint64(buf), nil
}
