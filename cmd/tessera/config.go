package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"tessera/internal/absint"
	"tessera/internal/trace"
)

// config mirrors the optional tessera.toml manifest.
type config struct {
	Fuel       int    `toml:"fuel"`
	TraceLevel string `toml:"trace_level"`
	Strategy   string `toml:"strategy"` // alljoins|never|delayed
	Delay      int    `toml:"delay"`    // delayed strategy only
	CachePath  string `toml:"cache_path"`
}

func defaultConfig() config {
	return config{Strategy: "alljoins", Delay: 3}
}

// loadConfig reads the manifest named by --config, falling back to
// ./tessera.toml when present and to defaults otherwise.
func loadConfig(cmd *cobra.Command) (config, error) {
	cfg := defaultConfig()

	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = "tessera.toml"
	}
	if _, err := os.Stat(path); err != nil {
		if explicit {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c config) strategy() (absint.Strategy, error) {
	switch c.Strategy {
	case "", "alljoins":
		return absint.AllJoins(), nil
	case "never":
		return absint.Never(), nil
	case "delayed":
		return absint.Delayed(c.Delay), nil
	default:
		return absint.Strategy{}, fmt.Errorf("unknown strategy %q (expected: alljoins|never|delayed)", c.Strategy)
	}
}

// tracerFor builds the tracer from flags and config; flag wins.
func tracerFor(cmd *cobra.Command, cfg config) (trace.Tracer, error) {
	level := cfg.TraceLevel
	if flag, _ := cmd.Flags().GetString("trace-level"); flag != "" {
		level = flag
	}
	if level == "" {
		return trace.Nop, nil
	}
	parsed, err := trace.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if parsed == trace.LevelOff {
		return trace.Nop, nil
	}
	return trace.NewStreamTracer(os.Stderr, parsed), nil
}
