package telemetry

import "github.com/joker5bb/msrtherm/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/msrtherm/readings.db"
)

type Config struct {
	DBPath string
}

func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()
	if c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}
