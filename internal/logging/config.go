package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLogLevel     = "GDL90_LOG_LEVEL"
	EnvLogTimestamp = "GDL90_LOG_TIMESTAMP"
	EnvLogNoColor   = "GDL90_LOG_NOCOLOR"
	EnvLogFile      = "GDL90_LOG_FILE"
)

// MessageTypeKey names the GDL90 message type on log lines. zerolog reserves
// "message" for the line text.
const MessageTypeKey = "msg_type"

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	// Console is where human-readable output goes; stderr when nil.
	Console io.Writer
	File    FileConfig
}

// FileConfig enables rotating JSON log output when Path is set.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

func Configure(profile Profile) {
	cfg := DefaultConfig(profile)
	ApplyEnv(&cfg)
	ConfigureWith(cfg)
}

// ConfigureWith installs cfg as the process logger. Only the first call of
// any Configure variant takes effect.
func ConfigureWith(cfg Config) {
	configureOnce.Do(func() {
		log.Logger = New(cfg)
		zerolog.SetGlobalLevel(cfg.Level)
	})
}

func DefaultConfig(profile Profile) Config {
	cfg := Config{
		File: FileConfig{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 7},
	}
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.Timestamp = false
		cfg.NoColor = true
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.Timestamp = true
	}
	return cfg
}

// ApplyEnv overlays the GDL90_LOG_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if path := strings.TrimSpace(os.Getenv(EnvLogFile)); path != "" {
		cfg.File.Path = path
	}
}

// New builds a logger from cfg without installing it.
func New(cfg Config) zerolog.Logger {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}
	cw := zerolog.ConsoleWriter{
		Out:        console,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		cw.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	var out io.Writer = cw
	if cfg.File.Path != "" {
		out = zerolog.MultiLevelWriter(cw, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    max(cfg.File.MaxSizeMB, 1),
			MaxBackups: max(cfg.File.MaxBackups, 0),
			MaxAge:     max(cfg.File.MaxAgeDays, 0),
			Compress:   cfg.File.Compress,
		})
	}

	ctx := zerolog.New(out).Level(cfg.Level).With()
	if cfg.Timestamp || cfg.File.Path != "" {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// ParseLevel accepts the usual level names plus a few aliases for "off".
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace", "diagnostics":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none", "inactive":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
