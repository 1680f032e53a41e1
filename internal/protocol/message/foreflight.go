package message

import (
	"fmt"
	"math"
	"strings"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

const (
	nameForeFlightID   = "foreflight_id"
	nameForeFlightAHRS = "foreflight_ahrs"

	ForeFlightIDVersion = 1

	deviceNameBytes     = 8
	deviceLongNameBytes = 16

	attitudeBits            = 16
	attitudeInvalid  uint64 = 0x7FFF
	attitudeLimit           = 180.0
	headingBits             = 15
	headingInvalid   uint64 = 0xFFFF
	headingLimit            = 360.0
	airspeedBits            = 16
	airspeedInvalid  uint64 = 0xFFFF
	tenthsResolution        = 0.1
)

// ForeFlightID identifies a device to ForeFlight.
type ForeFlightID struct {
	// SerialNumber nil travels as all ones.
	SerialNumber *uint64 `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	DeviceName   string  `json:"name" yaml:"name"`
	// LongName falls back to DeviceName when empty.
	LongName string `json:"long_name" yaml:"long_name"`
	// MSLAltitude reports ownship geometric altitude as MSL instead of WGS-84.
	MSLAltitude bool `json:"msl_altitude" yaml:"msl_altitude"`
}

func (ForeFlightID) Name() string { return nameForeFlightID }

func (ForeFlightID) MessageIDs() []byte { return []byte{IDForeFlight, SubIDForeFlightID} }

func (m ForeFlightID) MarshalPayload() (*bits.Seq, error) {
	w := newWriter(nameForeFlightID)
	w.at("version").add(field.EncodeUint(ForeFlightIDVersion, 8, false))
	if m.SerialNumber == nil {
		w.at("serial_number").put(field.AllOnes(64))
	} else {
		w.at("serial_number").add(field.EncodeUint(*m.SerialNumber, 64, false))
	}
	long := m.LongName
	if long == "" {
		long = m.DeviceName
	}
	w.at("name").add(field.EncodeText(m.DeviceName, deviceNameBytes*8))
	w.at("long_name").add(field.EncodeText(long, deviceLongNameBytes*8))
	w.at("capabilities")
	w.put(field.Sentinel(0, 7))
	w.put(field.EncodeBool(m.MSLAltitude))
	w.put(field.Sentinel(0, 24))
	return w.result()
}

func DecodeForeFlightID(s *bits.Seq) (ForeFlightID, error) {
	r := newReader(nameForeFlightID, s)
	var m ForeFlightID
	if v := r.unsigned("version", 8); r.err == nil && v != ForeFlightIDVersion {
		r.fail("version", fmt.Errorf("%w: %d", ErrUnsupportedVersion, v))
	}
	if f := r.pop("serial_number", 64); f != nil && f.Uint() != math.MaxUint64 {
		m.SerialNumber = Ptr(f.Uint())
	}
	m.DeviceName = strings.TrimRight(r.text("name", deviceNameBytes), " ")
	m.LongName = strings.TrimRight(r.text("long_name", deviceLongNameBytes), " ")
	r.skip("capabilities", 7)
	m.MSLAltitude = r.flag("capabilities")
	r.skip("capabilities", 24)
	if err := r.done(); err != nil {
		return ForeFlightID{}, err
	}
	return m, nil
}

// ForeFlightAHRS carries attitude and air data. Angles are degrees and
// airspeeds knots; nil values and values outside the field's range travel
// as invalid.
type ForeFlightAHRS struct {
	Roll    *float64 `json:"roll,omitempty" yaml:"roll,omitempty"`
	Pitch   *float64 `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Heading *float64 `json:"heading,omitempty" yaml:"heading,omitempty"`
	// MagneticHeading is meaningful only with a heading.
	MagneticHeading   bool `json:"magnetic_heading" yaml:"magnetic_heading"`
	IndicatedAirspeed *int `json:"indicated_airspeed,omitempty" yaml:"indicated_airspeed,omitempty"`
	TrueAirspeed      *int `json:"true_airspeed,omitempty" yaml:"true_airspeed,omitempty"`
}

func (ForeFlightAHRS) Name() string { return nameForeFlightAHRS }

func (ForeFlightAHRS) MessageIDs() []byte { return []byte{IDForeFlight, SubIDForeFlightAHRS} }

func (m ForeFlightAHRS) MarshalPayload() (*bits.Seq, error) {
	w := newWriter(nameForeFlightAHRS)
	w.at("roll").add(encodeAttitude(m.Roll))
	w.at("pitch").add(encodeAttitude(m.Pitch))
	w.at("heading")
	if !inRange(m.Heading, headingLimit) {
		w.put(field.Sentinel(headingInvalid, attitudeBits))
	} else {
		w.put(field.EncodeBool(m.MagneticHeading))
		w.add(field.EncodeScaledInt(*m.Heading, tenthsResolution, headingBits, false))
	}
	w.at("indicated_airspeed").add(encodeAirspeed(m.IndicatedAirspeed))
	w.at("true_airspeed").add(encodeAirspeed(m.TrueAirspeed))
	return w.result()
}

func DecodeForeFlightAHRS(s *bits.Seq) (ForeFlightAHRS, error) {
	r := newReader(nameForeFlightAHRS, s)
	var m ForeFlightAHRS
	m.Roll = decodeAttitude(r, "roll")
	m.Pitch = decodeAttitude(r, "pitch")
	if f := r.pop("heading", attitudeBits); f != nil && f.Uint() != headingInvalid {
		m.MagneticHeading = f.Bit(0)
		if _, err := f.Pop(1); err == nil {
			m.Heading = Ptr(tenths(f.Int()))
		}
	}
	m.IndicatedAirspeed = decodeAirspeed(r, "indicated_airspeed")
	m.TrueAirspeed = decodeAirspeed(r, "true_airspeed")
	if err := r.done(); err != nil {
		return ForeFlightAHRS{}, err
	}
	return m, nil
}

func inRange(v *float64, limit float64) bool {
	return v != nil && !math.IsNaN(*v) && *v >= -limit && *v <= limit
}

// tenths converts a raw tenth-of-a-unit count without accumulating
// multiplication error.
func tenths(raw int64) float64 {
	return float64(raw) / 10
}

func encodeAttitude(deg *float64) (*bits.Seq, error) {
	if !inRange(deg, attitudeLimit) {
		return field.Sentinel(attitudeInvalid, attitudeBits), nil
	}
	return field.EncodeScaledInt(*deg, tenthsResolution, attitudeBits, false)
}

func decodeAttitude(r *reader, name string) *float64 {
	f := r.pop(name, attitudeBits)
	if f == nil || f.Uint() == attitudeInvalid {
		return nil
	}
	return Ptr(tenths(f.Int()))
}

func encodeAirspeed(kt *int) (*bits.Seq, error) {
	if kt == nil || *kt < 0 || uint64(*kt) >= airspeedInvalid {
		return field.Sentinel(airspeedInvalid, airspeedBits), nil
	}
	return field.EncodeUint(*kt, airspeedBits, false)
}

func decodeAirspeed(r *reader, name string) *int {
	f := r.pop(name, airspeedBits)
	if f == nil || f.Uint() == airspeedInvalid {
		return nil
	}
	return Ptr(int(f.Uint()))
}
