package config

import (
	"github.com/danmuck/gdl90/internal/logging"
	"github.com/danmuck/gdl90/internal/protocol"
	"github.com/danmuck/gdl90/internal/protocol/frame"
)

func (d DecodeConfig) Options() protocol.Options {
	return protocol.Options{
		IncomingLSB:   d.IncomingLSB,
		IgnoreUnknown: d.IgnoreUnknown,
		KeepUnknown:   d.KeepUnknown,
	}
}

func (d DecodeConfig) Limits() frame.Limits {
	return frame.Limits{MaxFrameBytes: d.MaxFrameBytes}
}

// Logging overlays the file settings onto the runtime logging profile.
// Environment variables still win.
func (l LogConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	if lvl, ok := logging.ParseLevel(l.Level); ok {
		cfg.Level = lvl
	}
	cfg.File = logging.FileConfig{
		Path:       l.File,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
	logging.ApplyEnv(&cfg)
	return cfg
}
