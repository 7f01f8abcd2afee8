package report_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/joker5bb/msrtherm/internal/logger"
	"github.com/joker5bb/msrtherm/internal/msr"
	"github.com/joker5bb/msrtherm/internal/report"
)

func TestMain(m *testing.M) {
	logger.Init("error", true)
	os.Exit(m.Run())
}

func TestFormatLineValidReading(t *testing.T) {
	status := msr.DecodeThermStatus(0x00000000800F0001)

	line := report.FormatLine(3, 85, 0x00000000DEADBEEF, status)

	assert.Contains(t, line, "Core(03)")
	assert.Contains(t, line, "Temp=85°C")
	assert.Contains(t, line, "MSR808=0x00000000DEADBEEF")
	assert.Contains(t, line, "DTS=15")
	assert.Contains(t, line, "ReadingValid=1")
	assert.Contains(t, line, "StatusBit=1")
	assert.True(t, line[len(line)-1] == '\n', "lines are newline-terminated")
}

func TestFormatLineInvalidReading(t *testing.T) {
	line := report.FormatLine(5, -1, 0x1234, msr.ThermStatus{})

	assert.Contains(t, line, "Core(05)")
	assert.Contains(t, line, "invalid")
	assert.Contains(t, line, "MSR808=0x0000000000001234")
	assert.NotContains(t, line, "Temp=")
	assert.True(t, line[len(line)-1] == '\n')
}

type countingSink struct {
	writes int
	closed bool
	err    error
}

func (s *countingSink) Write(string) error {
	s.writes++
	return s.err
}

func (s *countingSink) Close() error {
	s.closed = true
	return nil
}

func TestMultiSinkFansOut(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{err: fmt.Errorf("pipe gone")}
	c := &countingSink{}

	sink := report.NewMultiSink(a, b, c)

	err := sink.Write("line\n")
	require.Error(t, err, "first sink error is surfaced")

	assert.Equal(t, 1, a.writes)
	assert.Equal(t, 1, b.writes)
	assert.Equal(t, 1, c.writes, "a failing sink does not stop the others")

	require.NoError(t, sink.Close())
	assert.True(t, a.closed)
	assert.True(t, c.closed)
}

func TestFIFOSinkWithoutReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.fifo")

	sink, err := report.NewFIFOSink(path)
	require.NoError(t, err, "a pipe with no reader must not fail sink construction")
	defer sink.Close()

	// Writes are dropped, not blocked, when nobody is listening
	require.NoError(t, sink.Write("Core(00): Temp=85°C\n"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.ModeNamedPipe, info.Mode()&os.ModeNamedPipe, "the pipe was created")
}

func TestFIFOSinkDeliversToReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.fifo")
	require.NoError(t, unix.Mkfifo(path, 0o644))

	reader, err := os.OpenFile(path, os.O_RDONLY|unix.O_NONBLOCK, 0)
	require.NoError(t, err)
	defer reader.Close()

	sink, err := report.NewFIFOSink(path)
	require.NoError(t, err)
	defer sink.Close()

	const line = "Core(01): Temperature reading invalid, MSR808=0x0000000000000000\n"
	require.NoError(t, sink.Write(line))

	buf := make([]byte, 256)
	n, err := reader.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, line, string(buf[:n]), "raw bytes, no framing")
}
