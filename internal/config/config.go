package config

import (
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/joker5bb/msrtherm/internal/errors"
	"github.com/joker5bb/msrtherm/internal/msr"
)

const (
	DefaultLogLevel    = "info"
	DefaultWaitTimeout = 30
	defaultDBPath      = "/var/lib/msrtherm/readings.db"
)

type Config struct {
	LogLevel    string `mapstructure:"log-level"`
	MSRDevice   string `mapstructure:"msr-device"`
	FIFO        string `mapstructure:"fifo"`
	WaitTimeout int    `mapstructure:"wait-timeout"`
	Telemetry   bool   `mapstructure:"telemetry"`
	Database    string `mapstructure:"database"`
}

// Load reads configuration from /etc/msrtherm.toml (or the file named
// by MSRTHERM_CONFIG) and overlays any command-line flags on top.
func Load() (*Config, error) {
	errFactory := errors.New()

	flags := pflag.NewFlagSet("msrtherm", pflag.ContinueOnError)
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("msr-device", msr.DefaultDevicePath, "MSR device path format, %d is the CPU index")
	flags.String("fifo", "", "Named pipe to mirror report lines into (empty disables)")
	flags.Int("wait-timeout", DefaultWaitTimeout, "Seconds to wait for all cores before declaring them stuck (0 waits forever)")
	flags.Bool("telemetry", false, "Record the pass into the readings database")
	flags.String("database", defaultDBPath, "Path to the readings database")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	v.SetDefault("log-level", DefaultLogLevel)
	v.SetDefault("msr-device", msr.DefaultDevicePath)
	v.SetDefault("wait-timeout", DefaultWaitTimeout)
	v.SetDefault("database", defaultDBPath)

	if path := os.Getenv("MSRTHERM_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("msrtherm")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	// Flags set on the command line win over file values
	flags.Visit(func(f *pflag.Flag) {
		v.Set(f.Name, f.Value.String())
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.WaitTimeout < 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "wait-timeout must not be negative")
	}

	if c.Telemetry && c.Database == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "telemetry requires a database path")
	}

	return nil
}
