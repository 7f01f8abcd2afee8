package telemetry

import (
	"database/sql"

	"github.com/joker5bb/msrtherm/internal/errors"
)

// initSchema initializes the database schema for per-core readings
func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS readings (
            run_at INTEGER NOT NULL,
            cpu INTEGER NOT NULL,
            temperature INTEGER NOT NULL,
            tjmax INTEGER NOT NULL,
            dts INTEGER NOT NULL,
            resolution INTEGER NOT NULL,
            reading_valid INTEGER NOT NULL,
            prochot INTEGER NOT NULL,
            critical_temp INTEGER NOT NULL,
            power_limit INTEGER NOT NULL,
            msr808 TEXT NOT NULL,
            PRIMARY KEY (run_at, cpu)
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrSchemaInitFailed, err)
	}

	return nil
}
