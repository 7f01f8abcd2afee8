package report

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/joker5bb/msrtherm/internal/errors"
	"github.com/joker5bb/msrtherm/internal/logger"
)

const fifoPerm = 0o644

type fifoSink struct {
	path string
	f    *os.File
}

// NewFIFOSink creates (if needed) a named pipe at path and returns a
// Sink writing raw newline-terminated lines into it. A pipe with no
// reader attached is not an error: the sink is returned in a detached
// state and every Write becomes a no-op, so a one-shot run never
// blocks waiting for a consumer.
func NewFIFOSink(path string) (Sink, error) {
	errFactory := errors.New()

	if err := unix.Mkfifo(path, fifoPerm); err != nil && !errors.Is(err, unix.EEXIST) {
		return nil, errFactory.Wrap(ErrFIFOCreate, err).WithData(path)
	}

	// O_NONBLOCK makes the open fail with ENXIO instead of blocking
	// until a reader shows up.
	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) {
			logger.Debug().Msgf("No reader on %s, report pipe disabled for this run", path)
			return &fifoSink{path: path}, nil
		}
		return nil, errFactory.Wrap(ErrFIFOOpen, err).WithData(path)
	}

	return &fifoSink{path: path, f: f}, nil
}

func (s *fifoSink) Write(line string) error {
	if s.f == nil {
		return nil
	}
	if _, err := s.f.WriteString(line); err != nil {
		return errors.New().Wrap(ErrFIFOWrite, err).WithData(s.path)
	}
	return nil
}

func (s *fifoSink) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}
