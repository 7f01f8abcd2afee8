package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joker5bb/msrtherm/internal/config"
	"github.com/joker5bb/msrtherm/internal/cpuinfo"
	"github.com/joker5bb/msrtherm/internal/logger"
	"github.com/joker5bb/msrtherm/internal/msr"
	"github.com/joker5bb/msrtherm/internal/pid"
	"github.com/joker5bb/msrtherm/internal/report"
	"github.com/joker5bb/msrtherm/internal/sampler"
	"github.com/joker5bb/msrtherm/internal/telemetry"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer pid.Remove()

	if brand, err := cpuinfo.BrandString(); err != nil {
		logger.Warn().Err(err).Msg("failed to read CPU brand string")
	} else {
		logger.Info().Msgf("CPU Brand: %s", brand)
	}

	if err := run(); err != nil {
		logger.Error().Err(err).Msg("sampling pass failed")
		os.Exit(1)
	}
}

func run() error {
	sink, err := buildSink()
	if err != nil {
		return err
	}
	defer sink.Close()

	s := sampler.New(
		msr.NewDevReader(cfg.MSRDevice),
		sink,
		sampler.WithTimeout(time.Duration(cfg.WaitTimeout)*time.Second),
	)

	ctx := context.Background()

	// The processor count is a host fact, taken once at startup
	samples, err := s.Run(ctx, runtime.NumCPU())
	if err != nil {
		return err
	}

	if cfg.Telemetry {
		if err := record(ctx, samples); err != nil {
			logger.Error().Err(err).Msg("failed to record readings")
		}
	}

	logger.Info().Msg("All core temperature readings completed")

	return nil
}

func buildSink() (report.Sink, error) {
	sinks := []report.Sink{report.NewLogSink()}

	if cfg.FIFO != "" {
		fifo, err := report.NewFIFOSink(cfg.FIFO)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, fifo)
	}

	return report.NewMultiSink(sinks...), nil
}

func record(ctx context.Context, samples []sampler.CoreSample) error {
	recorder, err := telemetry.NewService(telemetry.Config{DBPath: cfg.Database})
	if err != nil {
		return err
	}
	defer recorder.Close()

	return recorder.Record(ctx, snapshotFrom(samples))
}

func snapshotFrom(samples []sampler.CoreSample) *telemetry.RunSnapshot {
	snapshot := &telemetry.RunSnapshot{
		Timestamp: time.Now(),
		Cores:     make([]telemetry.CoreReading, len(samples)),
	}
	for i := range samples {
		c := &samples[i]
		snapshot.Cores[i] = telemetry.CoreReading{
			CPU:          c.CPU,
			Temperature:  c.Temperature,
			TjMax:        c.Target.Target,
			DTS:          c.Status.DTS,
			Resolution:   c.Status.Resolution,
			ReadingValid: c.Status.ReadingValid,
			PROCHOT:      c.Status.PROCHOT,
			CriticalTemp: c.Status.CriticalTemp,
			PowerLimit:   c.Status.PowerLimit,
			RawMsr808:    c.RawMsr808,
		}
	}
	return snapshot
}
