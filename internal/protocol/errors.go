package protocol

import (
	"errors"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/frame"
	"github.com/danmuck/gdl90/internal/protocol/message"
)

var (
	ErrUnknownMessageID   = errors.New("protocol: unknown message id")
	ErrDuplicateMessageID = errors.New("protocol: duplicate message id")
	ErrInvalidDescriptor  = errors.New("protocol: invalid message descriptor")
	ErrEmptyFrame         = errors.New("protocol: frame carries no message id")
)

// ErrorKind names the failure class of err for metrics and logs. It returns
// "ok" for nil and "decode" for field-level failures it does not single out.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, frame.ErrMissingFlagBytes):
		return "missing_flag_bytes"
	case errors.Is(err, frame.ErrInvalidCRC):
		return "invalid_crc"
	case errors.Is(err, frame.ErrInvalidFrame), errors.Is(err, ErrEmptyFrame):
		return "invalid_frame"
	case errors.Is(err, ErrUnknownMessageID):
		return "unknown_message_id"
	case errors.Is(err, message.ErrDataTooLong):
		return "data_too_long"
	case errors.Is(err, bits.ErrInsufficientBits):
		return "insufficient_bits"
	default:
		return "decode"
	}
}
