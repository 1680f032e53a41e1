package frame

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/danmuck/gdl90/internal/protocol/bits"
)

const (
	FlagByte   byte = 0x7E
	EscapeByte byte = 0x7D
	EscapeXor  byte = 0x20
	CRCLen          = 2
)

var (
	ErrMissingFlagBytes = errors.New("frame: missing flag bytes")
	ErrInvalidCRC       = errors.New("frame: invalid crc")
	ErrInvalidFrame     = errors.New("frame: invalid frame")
	ErrUnalignedPayload = errors.New("frame: payload is not byte aligned")
)

// Build assembles a wire frame: flag, escaped(ids ++ payload ++ crc), flag.
//
// The CRC covers ids and payload in their natural bit order. With outgoingLSB
// set, the whole ids+payload+crc region is bit-reversed per byte after the CRC
// is appended and before escaping.
func Build(ids, payload []byte, outgoingLSB bool) []byte {
	region := make([]byte, 0, len(ids)+len(payload)+CRCLen)
	region = append(region, ids...)
	region = append(region, payload...)
	region = append(region, ComputeCRC(region)...)
	if outgoingLSB {
		region = bits.ReverseBytes(region)
	}

	stuffed := Escape(region)
	out := make([]byte, 0, len(stuffed)+2)
	out = append(out, FlagByte)
	out = append(out, stuffed...)
	out = append(out, FlagByte)
	return out
}

// BuildBits is Build for a payload held as a bit sequence.
func BuildBits(ids []byte, payload *bits.Seq, outgoingLSB bool) ([]byte, error) {
	if payload.Len()%8 != 0 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnalignedPayload, payload.Len())
	}
	return Build(ids, payload.Bytes(), outgoingLSB), nil
}

// Unframe validates one wire frame and returns its unescaped ids and payload
// with the CRC stripped. With incomingMSB unset the wire bytes are taken as
// LSB first and bit-reversed back before the CRC check.
func Unframe(data []byte, incomingMSB bool) ([]byte, error) {
	if len(data) < 2 || data[0] != FlagByte || data[len(data)-1] != FlagByte {
		return nil, ErrMissingFlagBytes
	}
	inner := data[1 : len(data)-1]
	if bytes.IndexByte(inner, FlagByte) >= 0 {
		return nil, fmt.Errorf("%w: unescaped flag byte inside frame", ErrInvalidFrame)
	}
	body, err := Unescape(inner)
	if err != nil {
		return nil, err
	}
	if !incomingMSB {
		body = bits.ReverseBytes(body)
	}
	if len(body) < CRCLen {
		return nil, fmt.Errorf("%w: %d bytes between flags", ErrInvalidFrame, len(body))
	}
	content, crc := body[:len(body)-CRCLen], body[len(body)-CRCLen:]
	if err := CheckCRC(content, crc); err != nil {
		return nil, err
	}
	return content, nil
}

// Deconstruct unframes data and splits off the first idLen bytes as message ids.
func Deconstruct(data []byte, idLen int, incomingMSB bool) ([]byte, *bits.Seq, error) {
	content, err := Unframe(data, incomingMSB)
	if err != nil {
		return nil, nil, err
	}
	if idLen < 0 || len(content) < idLen {
		return nil, nil, fmt.Errorf("%w: %d content bytes for %d id bytes", ErrInvalidFrame, len(content), idLen)
	}
	ids := make([]byte, idLen)
	copy(ids, content[:idLen])
	return ids, bits.FromBytes(content[idLen:]), nil
}

// Split cuts a buffer of concatenated frames into individual frames, each
// still carrying both flag bytes. Adjacent frames may share a flag byte and
// empty runs between flags are skipped. The returned slices alias data.
func Split(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] != FlagByte || data[len(data)-1] != FlagByte {
		return nil, ErrMissingFlagBytes
	}
	var frames [][]byte
	start := 0
	for i := 1; i < len(data); i++ {
		if data[i] != FlagByte {
			continue
		}
		if i > start+1 {
			frames = append(frames, data[start:i+1])
		}
		start = i
	}
	return frames, nil
}
