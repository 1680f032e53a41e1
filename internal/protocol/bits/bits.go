// Package bits owns the MSB-first bit sequence that every field codec reads from
// and writes to.
//
// Reading is destructive: Pop removes bits from the front of a Seq and returns
// them as a new Seq. A Seq is not safe for concurrent use; each decode works on
// its own copy.
package bits

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficientBits = errors.New("bits: insufficient bits")
	ErrInvalidLiteral   = errors.New("bits: invalid literal")
)

// Seq is an ordered run of bits, most significant bit of each byte first.
//
// Invariant: len(buf) == (end+7)/8 and every bit at or past end is zero.
type Seq struct {
	buf []byte
	off int
	end int
}

// New returns an empty sequence.
func New() *Seq {
	return &Seq{}
}

// FromBytes returns a sequence holding a copy of b.
func FromBytes(b []byte) *Seq {
	buf := make([]byte, len(b))
	copy(buf, b)
	return &Seq{buf: buf, end: len(b) * 8}
}

// FromUint returns the low width bits of v, most significant first.
func FromUint(v uint64, width int) *Seq {
	s := New()
	s.AppendUint(v, width)
	return s
}

// Parse reads a "0b" binary or "0x" hex literal.
func Parse(lit string) (*Seq, error) {
	s := New()
	switch {
	case strings.HasPrefix(lit, "0b"):
		for _, r := range lit[2:] {
			switch r {
			case '0':
				s.AppendBit(false)
			case '1':
				s.AppendBit(true)
			default:
				return nil, fmt.Errorf("%w: %q", ErrInvalidLiteral, lit)
			}
		}
	case strings.HasPrefix(lit, "0x"):
		for _, r := range strings.ToLower(lit[2:]) {
			var nib uint64
			switch {
			case r >= '0' && r <= '9':
				nib = uint64(r - '0')
			case r >= 'a' && r <= 'f':
				nib = uint64(r-'a') + 10
			default:
				return nil, fmt.Errorf("%w: %q", ErrInvalidLiteral, lit)
			}
			s.AppendUint(nib, 4)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLiteral, lit)
	}
	return s, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(lit string) *Seq {
	s, err := Parse(lit)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of bits left in the sequence.
func (s *Seq) Len() int {
	return s.end - s.off
}

// Bit reports bit i counted from the front.
func (s *Seq) Bit(i int) bool {
	p := s.off + i
	return s.buf[p>>3]&(0x80>>(p&7)) != 0
}

func (s *Seq) AppendBit(v bool) {
	if s.end>>3 >= len(s.buf) {
		s.buf = append(s.buf, 0)
	}
	if v {
		s.buf[s.end>>3] |= 0x80 >> (s.end & 7)
	}
	s.end++
}

// AppendUint appends the low width bits of v, most significant first.
func (s *Seq) AppendUint(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		s.AppendBit((v>>uint(i))&1 == 1)
	}
}

func (s *Seq) AppendBytes(b []byte) {
	if s.end&7 == 0 {
		s.buf = append(s.buf, b...)
		s.end += len(b) * 8
		return
	}
	for _, c := range b {
		s.AppendUint(uint64(c), 8)
	}
}

// Append appends every bit of o. o is not modified.
func (s *Seq) Append(o *Seq) {
	if o.off&7 == 0 && o.end&7 == 0 {
		s.AppendBytes(o.buf[o.off>>3 : o.end>>3])
		return
	}
	for i := 0; i < o.Len(); i++ {
		s.AppendBit(o.Bit(i))
	}
}

// Pop removes the first n bits and returns them.
func (s *Seq) Pop(n int) (*Seq, error) {
	if n < 0 || n > s.Len() {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrInsufficientBits, n, s.Len())
	}
	var out *Seq
	if s.off&7 == 0 && n&7 == 0 {
		out = FromBytes(s.buf[s.off>>3 : (s.off+n)>>3])
	} else {
		out = New()
		for i := 0; i < n; i++ {
			out.AppendBit(s.Bit(i))
		}
	}
	s.off += n
	if drop := s.off >> 3; drop > 0 {
		s.buf = s.buf[drop:]
		s.off -= drop * 8
		s.end -= drop * 8
	}
	return out, nil
}

// PopWidth pops a field of width w.
func (s *Seq) PopWidth(w Width) (*Seq, error) {
	return s.Pop(w.Resolve(s.Len()))
}

// Uint returns the bits as an unsigned integer. Only the last 64 bits survive
// in longer sequences.
func (s *Seq) Uint() uint64 {
	var v uint64
	for i := 0; i < s.Len(); i++ {
		v <<= 1
		if s.Bit(i) {
			v |= 1
		}
	}
	return v
}

// Int returns the bits as a two's-complement integer.
func (s *Seq) Int() int64 {
	n := s.Len()
	u := s.Uint()
	if n == 0 || n >= 64 || !s.Bit(0) {
		return int64(u)
	}
	return int64(u) - int64(1)<<uint(n)
}

// Bytes packs the bits into bytes, zero padding a trailing partial byte.
func (s *Seq) Bytes() []byte {
	if s.off&7 == 0 {
		out := make([]byte, len(s.buf)-s.off>>3)
		copy(out, s.buf[s.off>>3:])
		return out
	}
	out := make([]byte, (s.Len()+7)/8)
	for i := 0; i < s.Len(); i++ {
		if s.Bit(i) {
			out[i>>3] |= 0x80 >> (i & 7)
		}
	}
	return out
}

func (s *Seq) Clone() *Seq {
	buf := make([]byte, len(s.buf))
	copy(buf, s.buf)
	return &Seq{buf: buf, off: s.off, end: s.end}
}

func (s *Seq) Equal(o *Seq) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.Bit(i) != o.Bit(i) {
			return false
		}
	}
	return true
}

// Bin returns the bits as a run of '0' and '1'.
func (s *Seq) Bin() string {
	var b strings.Builder
	b.Grow(s.Len())
	for i := 0; i < s.Len(); i++ {
		if s.Bit(i) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (s *Seq) String() string {
	return "0b" + s.Bin()
}
