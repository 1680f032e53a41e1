package message

import (
	"fmt"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

const (
	nameHeightAboveTerrain  = "height_above_terrain"
	heightBits              = 16
	heightInvalid    uint64 = 0x8000
)

// HeightAboveTerrain reports ownship height above terrain in feet.
type HeightAboveTerrain struct {
	Height *int `json:"height,omitempty" yaml:"height,omitempty"`
}

func (HeightAboveTerrain) Name() string { return nameHeightAboveTerrain }

func (HeightAboveTerrain) MessageIDs() []byte { return []byte{IDHeightAboveTerrain} }

func (m HeightAboveTerrain) MarshalPayload() (*bits.Seq, error) {
	w := newWriter(nameHeightAboveTerrain).at("height")
	switch {
	case m.Height == nil:
		w.put(field.Sentinel(heightInvalid, heightBits))
	case *m.Height == -1<<15:
		// The lowest code is the invalid sentinel.
		w.fail(fmt.Errorf("%w: %d collides with the invalid marker", field.ErrBadIntegerSize, *m.Height))
	default:
		w.add(field.EncodeInt(int64(*m.Height), heightBits, false))
	}
	return w.result()
}

func DecodeHeightAboveTerrain(s *bits.Seq) (HeightAboveTerrain, error) {
	r := newReader(nameHeightAboveTerrain, s)
	var m HeightAboveTerrain
	if f := r.pop("height", heightBits); f != nil && f.Uint() != heightInvalid {
		m.Height = Ptr(int(f.Int()))
	}
	if err := r.done(); err != nil {
		return HeightAboveTerrain{}, err
	}
	return m, nil
}
