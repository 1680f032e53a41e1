package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"github.com/danmuck/gdl90/internal/logging"
	"github.com/danmuck/gdl90/internal/observability"
	"github.com/danmuck/gdl90/internal/protocol"
	"github.com/danmuck/gdl90/internal/protocol/frame"
)

func (r *runner) encodeCommand(c *cli.Context) error {
	ids, err := parseHex(c.String("id"))
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if len(ids) == 0 {
		return errors.New("--id is required")
	}
	payload, err := parseHex(c.String("payload"))
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}
	lsb := c.Bool("lsb")
	if !c.IsSet("lsb") {
		lsb = r.cfg.Encode.OutgoingLSB
	}

	out := frame.Build(ids, payload, lsb)
	name := "unknown"
	if desc, ok := protocol.DefaultRegistry().Lookup(append(append([]byte{}, ids...), payload...)); ok {
		name = desc.Name
	}
	if c.Bool("check") {
		m, err := protocol.ParseMessage(out, protocol.Options{IncomingLSB: lsb})
		if err != nil {
			observability.RecordEncode(name, protocol.ErrorKind(err))
			return fmt.Errorf("check %s: %w", name, err)
		}
		log.Debug().Str(logging.MessageTypeKey, m.Name()).Msg("frame checked")
	}
	observability.RecordEncode(name, observability.OutcomeOK)

	if c.Bool("raw") {
		_, err = r.out.Write(out)
		return err
	}
	_, err = fmt.Fprintf(r.out, "%x\n", out)
	return err
}

func (r *runner) crcCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("crc needs hex bytes")
	}
	data, err := parseHex(strings.Join(c.Args(), " "))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "%04x wire %x\n", frame.CRC16(data), frame.ComputeCRC(data))
	return err
}

func (r *runner) messagesCommand(c *cli.Context) error {
	for _, d := range protocol.DefaultRegistry().Descriptors() {
		if _, err := fmt.Fprintf(r.out, "%-6x %s\n", d.IDs, d.Name); err != nil {
			return err
		}
	}
	return nil
}
