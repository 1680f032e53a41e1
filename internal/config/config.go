// Package config loads gdl90ctl settings from TOML.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	homedir "github.com/mitchellh/go-homedir"

	"github.com/danmuck/gdl90/internal/export"
	"github.com/danmuck/gdl90/internal/logging"
)

// DefaultPath is where gdl90ctl looks for a config file when none is given.
const DefaultPath = "~/.config/gdl90/config.toml"

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Decode  DecodeConfig  `toml:"decode"`
	Encode  EncodeConfig  `toml:"encode"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

type DecodeConfig struct {
	IncomingLSB   bool   `toml:"incoming_lsb"`
	IgnoreUnknown bool   `toml:"ignore_unknown"`
	KeepUnknown   bool   `toml:"keep_unknown"`
	Workers       int    `toml:"workers"`
	Format        string `toml:"format"`
	HexInput      bool   `toml:"hex_input"`
	MaxFrameBytes int    `toml:"max_frame_bytes"`
}

type EncodeConfig struct {
	OutgoingLSB bool `toml:"outgoing_lsb"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

type MetricsConfig struct {
	// Textfile receives a Prometheus text dump after each run when set.
	Textfile string `toml:"textfile"`
}

func Default() Config {
	return Config{
		Decode: DecodeConfig{
			Workers:       1,
			Format:        export.FormatJSON,
			MaxFrameBytes: 64 * 1024,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Load reads path over the defaults. Keys absent from the file keep their
// default values and unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	resolved, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config path %s: %w", path, err)
	}
	meta, err := toml.DecodeFile(resolved, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", resolved, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalidConfig, resolved, strings.Join(keys, ", "))
	}
	if meta.IsDefined("decode", "format") {
		cfg.Decode.Format = strings.ToLower(strings.TrimSpace(cfg.Decode.Format))
	}
	if err := cfg.expandPaths(); err != nil {
		return Config{}, err
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) expandPaths() error {
	for _, p := range []*string{&c.Log.File, &c.Metrics.Textfile} {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("expand %s: %w", *p, err)
		}
		*p = filepath.Clean(expanded)
	}
	return nil
}

func Validate(cfg Config) error {
	if !export.KnownFormat(cfg.Decode.Format) {
		return fmt.Errorf("%w: decode.format %q", ErrInvalidConfig, cfg.Decode.Format)
	}
	if cfg.Decode.Workers < 0 {
		return fmt.Errorf("%w: decode.workers must not be negative", ErrInvalidConfig)
	}
	if cfg.Decode.MaxFrameBytes <= 0 {
		return fmt.Errorf("%w: decode.max_frame_bytes must be positive", ErrInvalidConfig)
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, cfg.Log.Level)
	}
	if cfg.Log.MaxSizeMB < 0 || cfg.Log.MaxBackups < 0 || cfg.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation limits must not be negative", ErrInvalidConfig)
	}
	return nil
}
