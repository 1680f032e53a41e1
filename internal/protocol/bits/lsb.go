package bits

import (
	mbits "math/bits"
	"strings"
)

// The wire carries frame contents least significant bit first within each byte,
// while every field is laid out most significant bit first. These helpers flip
// bit order inside each byte and never move bytes.

func ReverseByte(b byte) byte {
	return mbits.Reverse8(b)
}

// ReverseBytes returns a copy of b with every byte bit-reversed.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = mbits.Reverse8(c)
	}
	return out
}

// ReverseUint bit-reverses each byte of v in place.
func ReverseUint(v uint64) uint64 {
	return mbits.ReverseBytes64(mbits.Reverse64(v))
}

// Reverse returns s with the bits of every 8-bit group reversed. A trailing
// group shorter than 8 bits is reversed on its own.
func Reverse(s *Seq) *Seq {
	out := New()
	for start := 0; start < s.Len(); start += 8 {
		stop := start + 8
		if stop > s.Len() {
			stop = s.Len()
		}
		for i := stop - 1; i >= start; i-- {
			out.AppendBit(s.Bit(i))
		}
	}
	return out
}

// FormatHex renders b as space separated 0x-prefixed bytes.
func FormatHex(b []byte) string {
	const digits = "0123456789abcdef"
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = "0x" + string([]byte{digits[c>>4], digits[c&0x0f]})
	}
	return strings.Join(parts, " ")
}
