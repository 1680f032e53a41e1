package main

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/danmuck/gdl90/internal/config"
	"github.com/danmuck/gdl90/internal/export"
	"github.com/danmuck/gdl90/internal/observability"
	"github.com/danmuck/gdl90/internal/protocol"
	"github.com/danmuck/gdl90/internal/protocol/frame"
)

// decodeSettings overlays command flags onto the loaded config.
func (r *runner) decodeSettings(c *cli.Context) (config.Config, bool, error) {
	cfg := r.cfg
	if c.IsSet("hex") {
		cfg.Decode.HexInput = c.Bool("hex")
	}
	if c.IsSet("lsb") {
		cfg.Decode.IncomingLSB = c.Bool("lsb")
	}
	if c.IsSet("ignore-unknown") {
		cfg.Decode.IgnoreUnknown = c.Bool("ignore-unknown")
	}
	if c.IsSet("keep-unknown") {
		cfg.Decode.KeepUnknown = c.Bool("keep-unknown")
	}
	if c.IsSet("workers") {
		cfg.Decode.Workers = c.Int("workers")
	}
	if c.IsSet("format") {
		cfg.Decode.Format = strings.ToLower(strings.TrimSpace(c.String("format")))
	}
	if c.IsSet("metrics-textfile") {
		cfg.Metrics.Textfile = c.String("metrics-textfile")
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, false, err
	}
	return cfg, c.Bool("keep-going"), nil
}

func (r *runner) decodeCommand(c *cli.Context) error {
	cfg, keepGoing, err := r.decodeSettings(c)
	if err != nil {
		return err
	}
	registry, err := export.NewRegistry()
	if err != nil {
		return err
	}
	codec, ok := registry.Get(cfg.Decode.Format)
	if !ok {
		return fmt.Errorf("unknown format %q", cfg.Decode.Format)
	}

	in, closeIn, err := r.open(c.Args().First())
	if err != nil {
		return err
	}
	defer closeIn()
	if cfg.Decode.HexInput {
		if in, err = hexReader(in); err != nil {
			return err
		}
	}

	w := export.NewWriter(r.out, codec)
	var stats decodeStats
	if cfg.Decode.Workers > 1 {
		err = r.decodeParallel(in, cfg, w, &stats)
	} else {
		err = r.decodeStream(in, cfg, keepGoing, w, &stats)
	}
	log.Info().
		Int("frames", stats.frames).
		Int("decoded", stats.decoded).
		Int("skipped", stats.skipped).
		Int("failed", stats.failed).
		Msg("decode finished")

	if cfg.Metrics.Textfile != "" {
		if werr := observability.WriteTextfile(cfg.Metrics.Textfile); werr != nil && err == nil {
			err = fmt.Errorf("write metrics: %w", werr)
		}
	}
	return err
}

type decodeStats struct {
	frames, decoded, skipped, failed int
}

func (r *runner) decodeStream(in io.Reader, cfg config.Config, keepGoing bool, w *export.Writer, stats *decodeStats) error {
	sc := frame.NewScanner(in, cfg.Decode.Limits())
	opts := cfg.Decode.Options()
	for sc.Scan() {
		raw := sc.Bytes()
		stats.frames++
		start := time.Now()
		m, err := protocol.ParseMessage(raw, opts)
		elapsed := time.Since(start)

		name, outcome := "", protocol.ErrorKind(err)
		if m != nil {
			name = m.Name()
		} else if err == nil {
			outcome = observability.OutcomeSkipped
		}
		observability.RecordDecode(name, outcome, len(raw), elapsed)
		observability.LogFrame(log.Logger, name, outcome, len(raw), elapsed, err)

		switch {
		case err != nil:
			stats.failed++
			if !keepGoing {
				return fmt.Errorf("frame %d: %w", stats.frames-1, err)
			}
		case m == nil:
			stats.skipped++
		default:
			stats.decoded++
			if err := w.Write(m); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read frames: %w", err)
	}
	return nil
}

// decodeParallel reads the whole input and fails on the first bad frame.
func (r *runner) decodeParallel(in io.Reader, cfg config.Config, w *export.Writer, stats *decodeStats) error {
	data, err := readLimited(in, cfg.Decode.MaxFrameBytes)
	if err != nil {
		return err
	}
	start := time.Now()
	msgs, err := protocol.ParseMessagesParallel(context.Background(), data, cfg.Decode.Options(), cfg.Decode.Workers)
	if err != nil {
		stats.failed++
		observability.RecordDecode("", protocol.ErrorKind(err), len(data), time.Since(start))
		return err
	}
	log.Debug().Int("messages", len(msgs)).Dur("duration", time.Since(start)).Msg("parallel decode")
	for _, m := range msgs {
		stats.frames++
		stats.decoded++
		observability.RecordDecode(m.Name(), observability.OutcomeOK, 0, 0)
		if err := w.Write(m); err != nil {
			return err
		}
	}
	return nil
}

// readLimited caps a whole-capture read at 1024 frames of the configured
// maximum size.
func readLimited(in io.Reader, maxFrame int) ([]byte, error) {
	limit := int64(maxFrame) * 1024
	data, err := io.ReadAll(io.LimitReader(in, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("input exceeds %d bytes", limit)
	}
	return data, nil
}

func (r *runner) open(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return r.in, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func hexReader(in io.Reader) (io.Reader, error) {
	text, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	raw, err := parseHex(string(text))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(raw), nil
}

// parseHex accepts hex digits separated by whitespace, colons or commas,
// with an optional 0x prefix on each group.
func parseHex(text string) ([]byte, error) {
	var b strings.Builder
	for _, group := range strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == ','
	}) {
		group = strings.TrimPrefix(strings.TrimPrefix(group, "0x"), "0X")
		b.WriteString(group)
	}
	raw, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("parse hex: %w", err)
	}
	return raw, nil
}
