package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := newApp(os.Stdin, os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "gdl90ctl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	r := &runner{in: in, out: out}
	app := cli.NewApp()
	app.Name = "gdl90ctl"
	app.Usage = "decode, encode and inspect GDL90 frames"
	app.Version = "0.1.0"
	app.Writer = out
	app.ErrWriter = os.Stderr
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "config file (defaults to " + defaultConfigHint + " when present)",
		},
	}
	app.Before = r.before
	app.Commands = r.commands()
	return app
}
