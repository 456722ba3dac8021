package config

import (
	"flag"
	"time"
)

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Write logs to this file as well")
	flagTelemetry = flag.String("telemetry", "", "Directory for per-tick CSV output")
	flagFixedStep = flag.Duration("fixed-step", 0, "Physics tick length (e.g. 20ms)")
	flagWatch     = flag.Bool("watch", false, "Reload the config file when it changes")
	flagSave      = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WatchEnabled reports whether --watch was given.
func WatchEnabled() bool {
	return *flagWatch
}

// SaveRequested reports whether --save-config was given.
func SaveRequested() bool {
	return *flagSave
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagTelemetry != "" {
		cfg.Telemetry.Dir = *flagTelemetry
	}
	if *flagFixedStep > time.Duration(0) {
		cfg.Simulation.FixedStep = *flagFixedStep
	}
}
