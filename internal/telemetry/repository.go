package telemetry

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joker5bb/msrtherm/internal/errors"
	"github.com/joker5bb/msrtherm/internal/logger"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing readings repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, snapshot *RunSnapshot) error {
	errFactory := errors.New()

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO readings (
            run_at, cpu, temperature, tjmax, dts, resolution,
            reading_valid, prochot, critical_temp, power_limit, msr808
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(run_at, cpu) DO UPDATE SET
            temperature = excluded.temperature,
            tjmax = excluded.tjmax,
            dts = excluded.dts,
            resolution = excluded.resolution,
            reading_valid = excluded.reading_valid,
            prochot = excluded.prochot,
            critical_temp = excluded.critical_temp,
            power_limit = excluded.power_limit,
            msr808 = excluded.msr808
    `)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer stmt.Close()

	runAt := snapshot.Timestamp.Unix()
	for i := range snapshot.Cores {
		c := &snapshot.Cores[i]
		_, err := stmt.ExecContext(ctx,
			runAt,
			c.CPU,
			c.Temperature,
			c.TjMax,
			c.DTS,
			c.Resolution,
			c.ReadingValid,
			c.PROCHOT,
			c.CriticalTemp,
			c.PowerLimit,
			fmt.Sprintf("%016X", c.RawMsr808),
		)
		if err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}
