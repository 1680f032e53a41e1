// Package field converts semantic values to and from fixed-width bit fields.
//
// Every function is pure. Encoders validate width and sign before emitting any
// bits; decoders take exactly the bits of one field, as popped by the caller.
package field

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/danmuck/gdl90/internal/protocol/bits"
)

var (
	ErrBadIntegerSize     = errors.New("field: integer does not fit width")
	ErrUnexpectedNegative = errors.New("field: unexpected negative value")
	ErrBadWidth           = errors.New("field: invalid width")
	ErrUnknownEnumValue   = errors.New("field: unknown enum value")
)

// Integer is any built-in integer type.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func checkWidth(width int) error {
	if width < 1 || width > 64 {
		return fmt.Errorf("%w: %d bits", ErrBadWidth, width)
	}
	return nil
}

// MaxUint returns the largest unsigned value representable in width bits.
func MaxUint(width int) uint64 {
	if width >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(width) - 1
}

// IntRange returns the two's-complement range of width bits.
func IntRange(width int) (lo, hi int64) {
	if width >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	hi = 1<<uint(width-1) - 1
	return -hi - 1, hi
}

// Sentinel returns pattern as a width-bit field. It never fails, so message
// encoders can always fall back to a field's "unknown" value.
func Sentinel(pattern uint64, width int) *bits.Seq {
	return bits.FromUint(pattern, width)
}

// AllOnes is the common "invalid" sentinel.
func AllOnes(width int) *bits.Seq {
	return bits.FromUint(MaxUint(width), width)
}

// EncodeUint encodes v as an unsigned field. With constrain set, values above
// the range saturate to the maximum. Negative values always fail.
func EncodeUint[T Integer](v T, width int, constrain bool) (*bits.Seq, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedNegative, v)
	}
	u := uint64(v)
	if max := MaxUint(width); u > max {
		if !constrain {
			return nil, fmt.Errorf("%w: %d in %d bits", ErrBadIntegerSize, u, width)
		}
		u = max
	}
	return bits.FromUint(u, width), nil
}

func DecodeUint(s *bits.Seq) uint64 {
	return s.Uint()
}

// EncodeInt encodes v in two's complement. With constrain set, values outside
// the range saturate to its bounds.
func EncodeInt(v int64, width int, constrain bool) (*bits.Seq, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	lo, hi := IntRange(width)
	if v < lo || v > hi {
		if !constrain {
			return nil, fmt.Errorf("%w: %d in %d bits", ErrBadIntegerSize, v, width)
		}
		if v < lo {
			v = lo
		} else {
			v = hi
		}
	}
	return bits.FromUint(uint64(v), width), nil
}

func DecodeInt(s *bits.Seq) int64 {
	return s.Int()
}

// quantize divides by resolution and rounds half away from zero.
func quantize(v, resolution float64) (float64, error) {
	q := math.Round(v / resolution)
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, fmt.Errorf("%w: %v at resolution %v", ErrBadIntegerSize, v, resolution)
	}
	return q, nil
}

// EncodeScaledUint encodes round(v/resolution) as an unsigned field.
func EncodeScaledUint(v, resolution float64, width int, constrain bool) (*bits.Seq, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	q, err := quantize(v, resolution)
	if err != nil {
		return nil, err
	}
	if q < 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedNegative, v)
	}
	if q > float64(MaxUint(width)) {
		if !constrain {
			return nil, fmt.Errorf("%w: %v in %d bits", ErrBadIntegerSize, v, width)
		}
		return AllOnes(width), nil
	}
	return EncodeUint(uint64(q), width, constrain)
}

func DecodeScaledUint(s *bits.Seq, resolution float64) float64 {
	return float64(s.Uint()) * resolution
}

// EncodeScaledInt encodes round(v/resolution) in two's complement.
func EncodeScaledInt(v, resolution float64, width int, constrain bool) (*bits.Seq, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	q, err := quantize(v, resolution)
	if err != nil {
		return nil, err
	}
	lo, hi := IntRange(width)
	if q < float64(lo) || q > float64(hi) {
		if !constrain {
			return nil, fmt.Errorf("%w: %v in %d bits", ErrBadIntegerSize, v, width)
		}
		q = math.Max(float64(lo), math.Min(q, float64(hi)))
	}
	return EncodeInt(int64(q), width, constrain)
}

func DecodeScaledInt(s *bits.Seq, resolution float64) float64 {
	return float64(s.Int()) * resolution
}

// EncodeOffsetUint encodes round((v-offset)/resolution) as an unsigned field.
func EncodeOffsetUint(v, offset, resolution float64, width int, constrain bool) (*bits.Seq, error) {
	return EncodeScaledUint(v-offset, resolution, width, constrain)
}

func DecodeOffsetUint(s *bits.Seq, offset, resolution float64) float64 {
	return offset + resolution*float64(s.Uint())
}

func EncodeBool(v bool) *bits.Seq {
	s := bits.New()
	s.AppendBit(v)
	return s
}

func DecodeBool(s *bits.Seq) bool {
	return s.Uint() != 0
}

// EncodeText writes s into width/8 bytes, right padding short input with
// spaces. Long input is cut at the last UTF-8 rune that fits whole.
func EncodeText(s string, width int) (*bits.Seq, error) {
	if width <= 0 || width%8 != 0 {
		return nil, fmt.Errorf("%w: text of %d bits", ErrBadWidth, width)
	}
	n := width / 8
	if len(s) > n {
		cut := n
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut]
	}
	buf := make([]byte, n)
	copied := copy(buf, s)
	for i := copied; i < n; i++ {
		buf[i] = ' '
	}
	return bits.FromBytes(buf), nil
}

// DecodeText returns the raw text of the field. Padding is kept.
func DecodeText(s *bits.Seq) string {
	return string(s.Bytes())
}

// EncodeUintLE encodes v like EncodeUint and then reverses byte order, for
// fields the wire carries least significant byte first.
func EncodeUintLE[T Integer](v T, width int, constrain bool) (*bits.Seq, error) {
	if width%8 != 0 {
		return nil, fmt.Errorf("%w: little-endian field of %d bits", ErrBadWidth, width)
	}
	s, err := EncodeUint(v, width, constrain)
	if err != nil {
		return nil, err
	}
	return bits.FromBytes(swap(s.Bytes())), nil
}

func DecodeUintLE(s *bits.Seq) uint64 {
	return bits.FromBytes(swap(s.Bytes())).Uint()
}

func swap(b []byte) []byte {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
