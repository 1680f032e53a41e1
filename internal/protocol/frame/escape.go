package frame

import "fmt"

// Escape byte-stuffs data: every flag or escape byte becomes the escape byte
// followed by the original XOR 0x20. data is not modified.
func Escape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b == FlagByte || b == EscapeByte {
			out = append(out, EscapeByte, b^EscapeXor)
			continue
		}
		out = append(out, b)
	}
	return out
}

// Unescape reverses Escape. A trailing escape byte is an invalid frame.
func Unescape(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		b := data[i]
		if b != EscapeByte {
			out = append(out, b)
			continue
		}
		if i+1 >= len(data) {
			return nil, fmt.Errorf("%w: trailing escape byte", ErrInvalidFrame)
		}
		i++
		out = append(out, data[i]^EscapeXor)
	}
	return out, nil
}
