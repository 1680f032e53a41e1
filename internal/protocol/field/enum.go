package field

import (
	"fmt"

	"github.com/danmuck/gdl90/internal/protocol/bits"
)

// Enum is a closed set of uint8 codes.
type Enum interface {
	~uint8
	Valid() bool
}

func EncodeEnum[E Enum](e E, width int) (*bits.Seq, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEnumValue, uint8(e))
	}
	return EncodeUint(uint8(e), width, false)
}

// DecodeEnum maps the field back to a member of E, failing on codes E does
// not define.
func DecodeEnum[E Enum](s *bits.Seq) (E, error) {
	raw := s.Uint()
	if raw > 0xFF {
		return 0, fmt.Errorf("%w: %d", ErrUnknownEnumValue, raw)
	}
	e := E(raw)
	if !e.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownEnumValue, raw)
	}
	return e, nil
}
