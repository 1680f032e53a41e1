package message

import (
	"fmt"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

const (
	nameOwnshipGeometricAltitude = "ownship_geometric_altitude"

	geoAltitudeBits       = 16
	geoAltitudeResolution = 5
	vfomBits              = 15
	vfomInvalid    uint64 = 0x7FFF
	vfomMax               = 0x7FFE
)

// OwnshipGeometricAltitude reports ownship altitude above the WGS-84
// ellipsoid with its vertical figure of merit.
type OwnshipGeometricAltitude struct {
	// Altitude is feet, carried in 5 ft steps.
	Altitude        int  `json:"altitude" yaml:"altitude"`
	VerticalWarning bool `json:"vertical_warning" yaml:"vertical_warning"`
	// VFOM is metres; nil is "not available" and values above 32766 saturate.
	VFOM *int `json:"vfom,omitempty" yaml:"vfom,omitempty"`
}

func (OwnshipGeometricAltitude) Name() string { return nameOwnshipGeometricAltitude }

func (OwnshipGeometricAltitude) MessageIDs() []byte { return []byte{IDOwnshipGeometricAltitude} }

func (m OwnshipGeometricAltitude) MarshalPayload() (*bits.Seq, error) {
	w := newWriter(nameOwnshipGeometricAltitude)
	w.at("altitude").add(field.EncodeScaledInt(float64(m.Altitude), geoAltitudeResolution, geoAltitudeBits, true))
	w.at("vertical_warning").put(field.EncodeBool(m.VerticalWarning))
	w.at("vfom")
	switch {
	case m.VFOM == nil:
		w.put(field.Sentinel(vfomInvalid, vfomBits))
	case *m.VFOM < 0:
		w.fail(fmt.Errorf("%w: %d m", field.ErrUnexpectedNegative, *m.VFOM))
	default:
		w.add(field.EncodeUint(min(*m.VFOM, vfomMax), vfomBits, false))
	}
	return w.result()
}

func DecodeOwnshipGeometricAltitude(s *bits.Seq) (OwnshipGeometricAltitude, error) {
	r := newReader(nameOwnshipGeometricAltitude, s)
	var m OwnshipGeometricAltitude
	m.Altitude = int(r.signed("altitude", geoAltitudeBits)) * geoAltitudeResolution
	m.VerticalWarning = r.flag("vertical_warning")
	if raw := r.unsigned("vfom", vfomBits); raw != vfomInvalid && r.err == nil {
		m.VFOM = Ptr(int(raw))
	}
	if err := r.done(); err != nil {
		return OwnshipGeometricAltitude{}, err
	}
	return m, nil
}
