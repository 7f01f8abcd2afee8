package telemetry_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joker5bb/msrtherm/internal/logger"
	"github.com/joker5bb/msrtherm/internal/telemetry"
)

func TestMain(m *testing.M) {
	logger.Init("error", true)
	os.Exit(m.Run())
}

func testSnapshot(cores int) *telemetry.RunSnapshot {
	snapshot := &telemetry.RunSnapshot{
		Timestamp: time.Unix(1700000000, 0),
		Cores:     make([]telemetry.CoreReading, cores),
	}
	for i := range snapshot.Cores {
		snapshot.Cores[i] = telemetry.CoreReading{
			CPU:          i,
			Temperature:  85,
			TjMax:        100,
			DTS:          15,
			ReadingValid: true,
			RawMsr808:    0xDEADBEEF,
		}
	}
	return snapshot
}

func TestRecordPersistsOneRowPerCore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "readings.db")

	recorder, err := telemetry.NewService(telemetry.Config{DBPath: dbPath})
	require.NoError(t, err)

	require.NoError(t, recorder.Record(context.Background(), testSnapshot(4)))
	require.NoError(t, recorder.Close())

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&count))
	assert.Equal(t, 4, count)

	var temperature, valid int
	var msr808 string
	err = db.QueryRow(`SELECT temperature, reading_valid, msr808 FROM readings WHERE cpu = 2`).
		Scan(&temperature, &valid, &msr808)
	require.NoError(t, err)
	assert.Equal(t, 85, temperature)
	assert.Equal(t, 1, valid)
	assert.Equal(t, "00000000DEADBEEF", msr808)
}

func TestRecordEmptySnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "readings.db")

	recorder, err := telemetry.NewService(telemetry.Config{DBPath: dbPath})
	require.NoError(t, err)
	defer recorder.Close()

	require.Error(t, recorder.Record(context.Background(), nil))
	require.Error(t, recorder.Record(context.Background(), &telemetry.RunSnapshot{}))
}

func TestNewServiceRejectsEmptyPath(t *testing.T) {
	_, err := telemetry.NewService(telemetry.Config{})
	require.Error(t, err)
}
