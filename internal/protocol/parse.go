package protocol

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/danmuck/gdl90/internal/logging"
	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/frame"
	"github.com/danmuck/gdl90/internal/protocol/message"
)

// Options controls frame parsing. The zero value expects MSB-first wire bytes
// and fails on unknown message ids.
type Options struct {
	// IncomingLSB marks wire bytes as carrying their bits least significant first.
	IncomingLSB bool
	// IgnoreUnknown skips frames with unregistered ids.
	IgnoreUnknown bool
	// KeepUnknown returns unregistered frames as message.Unknown. It wins over
	// IgnoreUnknown.
	KeepUnknown bool
}

// ParseMessage decodes a single frame. A skipped unknown frame yields a nil
// message and a nil error.
func (r *Registry) ParseMessage(data []byte, opts Options) (message.Message, error) {
	content, err := frame.Unframe(data, !opts.IncomingLSB)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, ErrEmptyFrame
	}

	d, ok := r.Lookup(content)
	if !ok {
		return r.unknown(content, opts)
	}
	m, err := d.Decode(bits.FromBytes(content[len(d.IDs):]))
	if err != nil {
		return nil, err
	}
	log.Debug().Str(logging.MessageTypeKey, d.Name).Int("bytes", len(data)).Msg("decoded frame")
	return m, nil
}

func (r *Registry) unknown(content []byte, opts Options) (message.Message, error) {
	ids := r.idsOf(content)
	switch {
	case opts.KeepUnknown:
		m, err := message.DecodeUnknown(content[0], bits.FromBytes(content[1:]))
		if err != nil {
			return nil, err
		}
		return m, nil
	case opts.IgnoreUnknown:
		log.Debug().Hex("ids", ids).Msg("skipped unknown message")
		return nil, nil
	}
	return nil, fmt.Errorf("%w: % x", ErrUnknownMessageID, ids)
}

// ParseMessages decodes every frame in data in order. Any failing frame fails
// the whole call.
func (r *Registry) ParseMessages(data []byte, opts Options) ([]message.Message, error) {
	frames, err := frame.Split(data)
	if err != nil {
		return nil, err
	}
	out := make([]message.Message, 0, len(frames))
	for i, f := range frames {
		m, err := r.ParseMessage(f, opts)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// ParseMessagesParallel is ParseMessages with frames decoded on up to workers
// goroutines; workers <= 0 means unbounded. Results keep input order and the
// first failure cancels frames not yet started.
func (r *Registry) ParseMessagesParallel(ctx context.Context, data []byte, opts Options, workers int) ([]message.Message, error) {
	frames, err := frame.Split(data)
	if err != nil {
		return nil, err
	}

	results := make([]message.Message, len(frames))
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, f := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := r.ParseMessage(f, opts)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			results[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := results[:0]
	for _, m := range results {
		if m != nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// ParseMessage decodes one frame with the default registry.
func ParseMessage(data []byte, opts Options) (message.Message, error) {
	return DefaultRegistry().ParseMessage(data, opts)
}

// ParseMessages decodes a buffer of frames with the default registry.
func ParseMessages(data []byte, opts Options) ([]message.Message, error) {
	return DefaultRegistry().ParseMessages(data, opts)
}

// ParseMessagesParallel decodes a buffer of frames concurrently with the
// default registry.
func ParseMessagesParallel(ctx context.Context, data []byte, opts Options, workers int) ([]message.Message, error) {
	return DefaultRegistry().ParseMessagesParallel(ctx, data, opts, workers)
}

// Encode frames m for the wire.
func Encode(m message.Message, outgoingLSB bool) ([]byte, error) {
	return message.Serialize(m, outgoingLSB)
}

// EncodeAll frames each message and concatenates the frames.
func EncodeAll(msgs []message.Message, outgoingLSB bool) ([]byte, error) {
	var out []byte
	for i, m := range msgs {
		data, err := Encode(m, outgoingLSB)
		if err != nil {
			return nil, fmt.Errorf("message %d (%s): %w", i, m.Name(), err)
		}
		out = append(out, data...)
	}
	return out, nil
}
