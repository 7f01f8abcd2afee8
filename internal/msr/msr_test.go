package msr_test

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joker5bb/msrtherm/internal/msr"
)

// writeFakeDevice lays raw register values out at their register
// offsets, the same way the msr character device exposes them.
func writeFakeDevice(t *testing.T, dir string, cpu int, values map[uint32]uint64) string {
	t.Helper()

	buf := make([]byte, 0x1000)
	for addr, value := range values {
		binary.LittleEndian.PutUint64(buf[addr:], value)
	}

	path := filepath.Join(dir, fmt.Sprintf("msr%d", cpu))
	require.NoError(t, os.WriteFile(path, buf, 0o600))

	return filepath.Join(dir, "msr%d")
}

func TestDevReaderRead(t *testing.T) {
	dir := t.TempDir()
	pathFormat := writeFakeDevice(t, dir, 0, map[uint32]uint64{
		msr.AddrTemperatureTarget: 0x0000000000640000,
		msr.AddrThermStatus:       0x00000000800F0001,
		msr.AddrCustom808:         0xDEADBEEFCAFEF00D,
	})

	reader := msr.NewDevReader(pathFormat)

	value, err := reader.Read(0, msr.AddrTemperatureTarget)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0000000000640000), value)

	value, err = reader.Read(0, msr.AddrThermStatus)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x00000000800F0001), value)

	value, err = reader.Read(0, msr.AddrCustom808)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEFCAFEF00D), value)
}

func TestDevReaderMissingDevice(t *testing.T) {
	reader := msr.NewDevReader(filepath.Join(t.TempDir(), "msr%d"))

	_, err := reader.Read(3, msr.AddrThermStatus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "msr")
}

func TestDevReaderShortDevice(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "msr0")
	require.NoError(t, os.WriteFile(path, make([]byte, 8), 0o600))

	reader := msr.NewDevReader(filepath.Join(dir, "msr%d"))

	// Offset beyond the device is the fault path, not a crash
	_, err := reader.Read(0, msr.AddrCustom808)
	require.Error(t, err)
}
