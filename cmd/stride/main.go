// Package main is the entry point for the stride locomotion runner.
//
// Usage:
//
//	stride [flags] scenario.yaml [scenario.yaml...]
//
// --save-config writes the effective config (defaults, file and flags
// merged) to the user config directory instead of running anything.
//
// Every scenario runs headless on its own goroutine. With --telemetry each
// scene writes ticks.csv and summary.csv under <dir>/<scene>. With --watch
// the scenarios run again whenever the config file changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-stride/internal/config"
	"github.com/Faultbox/midgard-stride/internal/logger"
	"github.com/Faultbox/midgard-stride/internal/sim"
	"github.com/Faultbox/midgard-stride/internal/telemetry"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(loggerOptions(cfg.Logging)); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", path))
		return
	}

	paths := config.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: stride [flags] scenario.yaml [scenario.yaml...]")
		os.Exit(2)
	}

	logger.Info("=== Midgard Stride ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scenarios, err := loadScenarios(paths)
	if err != nil {
		logger.Error("failed to load scenarios", zap.Error(err))
		os.Exit(1)
	}

	if err := run(ctx, cfg, scenarios); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}

	if config.WatchEnabled() {
		if err := watch(ctx, scenarios); err != nil {
			logger.Error("watch failed", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("done")
}

func loggerOptions(cfg config.LoggingConfig) logger.Options {
	opts := logger.Options{
		Level:   cfg.Level,
		Console: true,
	}
	if cfg.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.LogFile)
	}
	if cfg.Sampling {
		opts.SampleFirst = 10
		opts.SampleThereafter = 100
	}
	return opts
}

func loadScenarios(paths []string) ([]*sim.Scenario, error) {
	out := make([]*sim.Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := sim.LoadScenario(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// run builds a fresh scene per scenario, runs them all and logs a summary
// line per actor.
func run(ctx context.Context, cfg *config.Config, scenarios []*sim.Scenario) error {
	collector := telemetry.NewCollector()
	scenes := make([]*sim.Scene, 0, len(scenarios))
	writers := make(map[string]*telemetry.Writer, len(scenarios))
	defer func() {
		for _, w := range writers {
			if err := w.Close(); err != nil {
				logger.Warn("closing telemetry", zap.String("dir", w.Dir()), zap.Error(err))
			}
		}
	}()

	for _, sc := range scenarios {
		opts := []sim.Option{
			sim.WithLogger(logger.Named("sim")),
			sim.WithRecorder(collector),
		}
		if cfg.Telemetry.Dir != "" {
			w, err := telemetry.NewWriter(filepath.Join(cfg.Telemetry.Dir, sc.Name))
			if err != nil {
				return err
			}
			writers[sc.Name] = w
			opts = append(opts, sim.WithRecorder(w))
		}

		s, err := sim.NewScene(sc, cfg, opts...)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		scenes = append(scenes, s)
	}

	if err := sim.RunAll(ctx, scenes...); err != nil {
		return err
	}

	summaries := collector.Summarize()
	for _, s := range summaries {
		logger.Info("summary",
			zap.String("scene", s.Scene),
			zap.String("actor", s.Actor),
			zap.String("kind", s.Kind),
			zap.Float64("mean_h_speed", s.MeanSpeed),
			zap.Float64("max_h_speed", s.MaxSpeed),
			zap.Float64("yaw_jitter", s.YawJitter),
			zap.Float64("grounded_ratio", s.GroundedRatio),
			zap.Int("stairs_ticks", s.StairsTicks),
		)
	}
	for name, w := range writers {
		var own []telemetry.Summary
		for _, s := range summaries {
			if s.Scene == name {
				own = append(own, s)
			}
		}
		if err := w.WriteSummary(own); err != nil {
			return err
		}
	}
	return nil
}

// watch reruns the scenarios with every reloaded config until ctx is done.
// Flag overrides do not apply to reloaded configs.
func watch(ctx context.Context, scenarios []*sim.Scenario) error {
	path := config.ConfigPath()
	if path == "" {
		logger.Warn("--watch needs --config, nothing to watch")
		return nil
	}
	logger.Info("watching config", zap.String("path", path))

	reloads := make(chan *config.Config, 1)
	go func() {
		err := config.Watch(ctx, path,
			func(cfg *config.Config) {
				select {
				case reloads <- cfg:
				default:
					// A rerun is already pending; keep the newest config
					select {
					case <-reloads:
					default:
					}
					reloads <- cfg
				}
			},
			func(err error) {
				logger.Warn("config reload failed", zap.Error(err))
			},
		)
		if err != nil {
			logger.Error("config watcher stopped", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg := <-reloads:
			logger.Info("config changed, rerunning")
			if err := run(ctx, cfg, scenarios); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("rerun failed", zap.Error(err))
			}
		}
	}
}
