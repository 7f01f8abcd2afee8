package telemetry

import (
	"context"
	"time"
)

// Recorder persists the outcome of one sampling pass.
type Recorder interface {
	Record(ctx context.Context, snapshot *RunSnapshot) error
	Close() error
}

// Repository defines the interface for reading storage
type Repository interface {
	Store(ctx context.Context, snapshot *RunSnapshot) error
	Close() error
}

// RunSnapshot is one sampling pass: a timestamp and one reading per
// logical CPU.
type RunSnapshot struct {
	Timestamp time.Time
	Cores     []CoreReading
}

// CoreReading is the persisted projection of one core's sample.
type CoreReading struct {
	CPU          int
	Temperature  int
	TjMax        uint8
	DTS          uint8
	Resolution   uint8
	ReadingValid bool
	PROCHOT      bool
	CriticalTemp bool
	PowerLimit   bool
	RawMsr808    uint64
}
