package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/danmuck/gdl90/internal/config"
	"github.com/danmuck/gdl90/internal/logging"
)

const defaultConfigHint = config.DefaultPath

type runner struct {
	in  io.Reader
	out io.Writer
	cfg config.Config
}

func (r *runner) commands() []cli.Command {
	return []cli.Command{
		{
			Name:      "decode",
			Usage:     "Decode a captured GDL90 stream into records",
			ArgsUsage: "[file]",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "hex", Usage: "input is hex text instead of raw bytes"},
				cli.BoolFlag{Name: "lsb", Usage: "wire bytes carry their bits least significant first"},
				cli.BoolFlag{Name: "ignore-unknown", Usage: "skip frames with unregistered ids"},
				cli.BoolFlag{Name: "keep-unknown", Usage: "emit frames with unregistered ids as unknown records"},
				cli.BoolFlag{Name: "keep-going", Usage: "log bad frames and continue"},
				cli.IntFlag{Name: "workers, w", Usage: "decode the whole input with this many workers"},
				cli.StringFlag{Name: "format, f", Usage: "record format: json, yaml or cbor"},
				cli.StringFlag{Name: "metrics-textfile", Usage: "write Prometheus metrics here when done"},
			},
			Action: r.decodeCommand,
		},
		{
			Name:  "encode",
			Usage: "Frame a raw message payload",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "id", Usage: "message id bytes in hex, e.g. 00 or 6501"},
				cli.StringFlag{Name: "payload, p", Usage: "payload bytes in hex"},
				cli.BoolFlag{Name: "lsb", Usage: "emit bits least significant first"},
				cli.BoolFlag{Name: "raw", Usage: "write binary instead of hex"},
				cli.BoolFlag{Name: "check", Usage: "fail unless the frame decodes as a known message"},
			},
			Action: r.encodeCommand,
		},
		{
			Name:      "crc",
			Usage:     "Print the frame check sequence of hex bytes",
			ArgsUsage: "<hex>",
			Action:    r.crcCommand,
		},
		{
			Name:   "messages",
			Usage:  "List registered message types",
			Action: r.messagesCommand,
		},
		{
			Name:  "config",
			Usage: "Manage the config file",
			Subcommands: []cli.Command{
				{
					Name:      "init",
					Usage:     "Write a default config",
					ArgsUsage: "[path]",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
					},
					Action: r.configInitCommand,
				},
				{
					Name:      "validate",
					Usage:     "Check a config file",
					ArgsUsage: "[path]",
					Action:    r.configValidateCommand,
				},
			},
		},
	}
}

// before loads the config named by --config, or the default file when it
// exists, then installs the logger.
func (r *runner) before(c *cli.Context) error {
	r.cfg = config.Default()
	path := c.GlobalString("config")
	if path == "" {
		if p, ok := defaultConfigPath(); ok {
			path = p
		}
	}
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		r.cfg = cfg
	}
	logging.ConfigureWith(r.cfg.Log.Logging())
	log.Debug().Str("config", path).Msg("gdl90ctl starting")
	return nil
}

func defaultConfigPath() (string, bool) {
	p, err := homedir.Expand(config.DefaultPath)
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(p); err != nil {
		return "", false
	}
	return p, true
}

func (r *runner) configInitCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		p, err := homedir.Expand(config.DefaultPath)
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.WriteTemplate(path, c.Bool("force")); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s\n", path)
	return nil
}

func (r *runner) configValidateCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = c.GlobalString("config")
	}
	if path == "" {
		p, ok := defaultConfigPath()
		if !ok {
			return errors.New("no config file to validate")
		}
		path = p
	}
	if _, err := config.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "valid %s\n", path)
	return nil
}
