package bits

import "strconv"

// Width is the size of a field: either a fixed number of bits or everything
// that remains in the sequence.
type Width struct {
	n         int
	remaining bool
}

func Fixed(n int) Width {
	return Width{n: n}
}

func Remaining() Width {
	return Width{remaining: true}
}

func (w Width) IsRemaining() bool {
	return w.remaining
}

// Bits returns the fixed width, or 0 for Remaining.
func (w Width) Bits() int {
	return w.n
}

// Resolve returns the concrete width given the number of available bits.
func (w Width) Resolve(available int) int {
	if w.remaining {
		return available
	}
	return w.n
}

func (w Width) String() string {
	if w.remaining {
		return "remaining"
	}
	return strconv.Itoa(w.n) + " bits"
}
