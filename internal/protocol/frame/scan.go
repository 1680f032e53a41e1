package frame

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Limits constrains stream scanning memory use.
type Limits struct {
	MaxFrameBytes int
}

func DefaultLimits() Limits {
	return Limits{MaxFrameBytes: 64 * 1024}
}

// ScanFrames is a bufio.SplitFunc yielding one flag-delimited frame per token.
// Bytes before the first flag are discarded so a reader can join a stream
// mid-frame; the closing flag of one frame may open the next.
func ScanFrames(data []byte, atEOF bool) (int, []byte, error) {
	start := bytes.IndexByte(data, FlagByte)
	if start < 0 {
		return len(data), nil, nil
	}
	for start+1 < len(data) && data[start+1] == FlagByte {
		start++
	}
	end := bytes.IndexByte(data[start+1:], FlagByte)
	if end < 0 {
		if !atEOF {
			return start, nil, nil
		}
		if start+1 == len(data) {
			return len(data), nil, nil
		}
		return 0, nil, fmt.Errorf("%w: unterminated frame at end of stream", ErrMissingFlagBytes)
	}
	end += start + 1
	return end, data[start : end+1], nil
}

// NewScanner returns a scanner over r that yields frames. Tokens alias the
// scanner buffer and must be copied to be retained.
func NewScanner(r io.Reader, limits Limits) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	initial := 4096
	if limits.MaxFrameBytes < initial {
		initial = limits.MaxFrameBytes
	}
	sc.Buffer(make([]byte, 0, initial), limits.MaxFrameBytes)
	sc.Split(ScanFrames)
	return sc
}
