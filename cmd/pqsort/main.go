// Command pqsort reads "priority value" lines and prints them lowest
// priority first.
//
// Usage:
//
//	pqsort [file ...]
//
// With no arguments standard input is read. Each file is loaded into its own
// queue concurrently and the queues are merged on output. Configuration is
// read from PQSORT_CAPACITY, PQSORT_LOG_LEVEL and PQSORT_WORKERS.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidvella/minpq/metrics"
	"github.com/davidvella/minpq/priority"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"
)

const configPrefix = "PQSORT"

type config struct {
	Capacity int    `envconfig:"CAPACITY" default:"16"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Workers  int    `envconfig:"WORKERS" default:"4"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pqsort: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := new(config)
	if err := envconfig.Process(configPrefix, cfg); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := metrics.NewRegistry()
	s := &sorter{
		capacity: cfg.Capacity,
		workers:  cfg.Workers,
		logger:   logger,
		registry: registry,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
	if err := s.run(ctx, os.Args[1:]); err != nil {
		logger.Error("sort failed", zap.Error(err))
		return err
	}

	logger.Debug("sort complete",
		zap.Float64("inserted", registry.Counter(priority.MetricInserts)),
		zap.Float64("removed", registry.Counter(priority.MetricRemovals)),
	)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}
