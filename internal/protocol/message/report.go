package message

import (
	"fmt"
	"math"
	"strings"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

const (
	nameOwnshipReport = "ownship_report"
	nameTrafficReport = "traffic_report"

	// ReportPayloadBytes is the size of a traffic or ownship report.
	ReportPayloadBytes = 27

	degreesBits       = 24
	degreesResolution = 180.0 / (1 << 23)
	maxLatitude       = 90.0
	maxLongitude      = 180.0

	altitudeBits              = 12
	altitudeOffset            = -1000
	altitudeResolution        = 25
	altitudeInvalid    uint64 = 0xFFF
	altitudeMax               = altitudeOffset + altitudeResolution*0xFFE

	velocityBits                = 12
	horizontalInvalid    uint64 = 0xFFF
	horizontalMax               = 0xFFE
	verticalInvalid      uint64 = 0x800
	verticalResolution          = 64
	verticalMaxRaw              = 510

	trackBits       = 8
	trackResolution = 360.0 / 256

	callsignBytes = 8
)

// Report is the common layout of traffic and ownship reports.
type Report struct {
	TrafficAlert bool        `json:"traffic_alert" yaml:"traffic_alert"`
	AddressType  AddressType `json:"address_type" yaml:"address_type"`
	Address      uint32      `json:"address" yaml:"address"`
	// Latitude and Longitude are degrees; they are truncated toward zero to
	// the 24-bit wire resolution.
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	// PressureAltitude is feet referenced to 29.92 inHg.
	PressureAltitude *int      `json:"pressure_altitude,omitempty" yaml:"pressure_altitude,omitempty"`
	Airborne         bool      `json:"airborne" yaml:"airborne"`
	Extrapolated     bool      `json:"extrapolated" yaml:"extrapolated"`
	TrackType        TrackType `json:"track_type" yaml:"track_type"`
	Integrity        Integrity `json:"integrity" yaml:"integrity"`
	Accuracy         Accuracy  `json:"accuracy" yaml:"accuracy"`
	// HorizontalVelocity is knots, VerticalVelocity feet per minute.
	HorizontalVelocity    *int                  `json:"horizontal_velocity,omitempty" yaml:"horizontal_velocity,omitempty"`
	VerticalVelocity      *int                  `json:"vertical_velocity,omitempty" yaml:"vertical_velocity,omitempty"`
	Track                 float64               `json:"track" yaml:"track"`
	EmitterCategory       EmitterCategory       `json:"emitter_category" yaml:"emitter_category"`
	Callsign              string                `json:"callsign" yaml:"callsign"`
	EmergencyPriorityCode EmergencyPriorityCode `json:"emergency_priority_code" yaml:"emergency_priority_code"`
}

func (m Report) marshal(name string) (*bits.Seq, error) {
	w := newWriter(name)
	alert := uint8(0)
	if m.TrafficAlert {
		alert = 1
	}
	w.at("traffic_alert").add(field.EncodeUint(alert, 4, false))
	w.at("address_type").add(field.EncodeEnum(m.AddressType, 4))
	w.at("address").add(field.EncodeUint(m.Address, 24, false))
	w.at("latitude").add(encodeDegrees(m.Latitude, maxLatitude))
	w.at("longitude").add(encodeDegrees(m.Longitude, maxLongitude))
	w.at("pressure_altitude").add(encodeAltitude(m.PressureAltitude))
	w.at("misc")
	w.put(field.EncodeBool(m.Airborne))
	w.put(field.EncodeBool(m.Extrapolated))
	w.at("track_type").add(field.EncodeEnum(m.TrackType, 2))
	w.at("integrity").add(field.EncodeEnum(m.Integrity, 4))
	w.at("accuracy").add(field.EncodeEnum(m.Accuracy, 4))
	w.at("horizontal_velocity").add(encodeHorizontalVelocity(m.HorizontalVelocity))
	w.at("vertical_velocity").add(encodeVerticalVelocity(m.VerticalVelocity))
	w.at("track").add(encodeTrack(m.Track))
	w.at("emitter_category").add(field.EncodeEnum(m.EmitterCategory, 8))
	w.at("callsign").add(encodeCallsign(m.Callsign))
	w.at("emergency_priority_code").add(field.EncodeEnum(m.EmergencyPriorityCode, 4))
	w.at("spare").put(field.Sentinel(0, 4))
	return w.result()
}

func decodeReport(name string, s *bits.Seq) (Report, error) {
	r := newReader(name, s)
	var m Report
	m.TrafficAlert = r.unsigned("traffic_alert", 4) != 0
	m.AddressType = readEnum[AddressType](r, "address_type", 4)
	m.Address = uint32(r.unsigned("address", 24))
	m.Latitude = float64(r.signed("latitude", degreesBits)) * degreesResolution
	m.Longitude = float64(r.signed("longitude", degreesBits)) * degreesResolution
	if raw := r.unsigned("pressure_altitude", altitudeBits); raw != altitudeInvalid && r.err == nil {
		m.PressureAltitude = Ptr(altitudeOffset + altitudeResolution*int(raw))
	}
	m.Airborne = r.flag("airborne")
	m.Extrapolated = r.flag("extrapolated")
	m.TrackType = readEnum[TrackType](r, "track_type", 2)
	m.Integrity = readEnum[Integrity](r, "integrity", 4)
	m.Accuracy = readEnum[Accuracy](r, "accuracy", 4)
	if raw := r.unsigned("horizontal_velocity", velocityBits); raw != horizontalInvalid && r.err == nil {
		m.HorizontalVelocity = Ptr(int(raw))
	}
	if f := r.pop("vertical_velocity", velocityBits); f != nil && f.Uint() != verticalInvalid {
		m.VerticalVelocity = Ptr(int(f.Int()) * verticalResolution)
	}
	m.Track = float64(r.unsigned("track", trackBits)) * trackResolution
	m.EmitterCategory = readEnum[EmitterCategory](r, "emitter_category", 8)
	if cs := strings.TrimRight(r.text("callsign", callsignBytes), " "); r.err == nil {
		if err := checkCallsign(cs); err != nil {
			r.fail("callsign", err)
		}
		m.Callsign = cs
	}
	m.EmergencyPriorityCode = readEnum[EmergencyPriorityCode](r, "emergency_priority_code", 4)
	r.skip("spare", 4)
	if err := r.done(); err != nil {
		return Report{}, err
	}
	return m, nil
}

// encodeDegrees clamps deg to ±limit. A longitude of +180 lands on the
// largest raw value, just west of the antimeridian.
func encodeDegrees(deg, limit float64) (*bits.Seq, error) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return nil, fmt.Errorf("%w: %v degrees", field.ErrBadIntegerSize, deg)
	}
	deg = min(max(deg, -limit), limit)
	return field.EncodeInt(int64(math.Trunc(deg/degreesResolution)), degreesBits, true)
}

func encodeAltitude(ft *int) (*bits.Seq, error) {
	if ft == nil {
		return field.Sentinel(altitudeInvalid, altitudeBits), nil
	}
	v := min(max(*ft, altitudeOffset), altitudeMax)
	return field.EncodeOffsetUint(float64(v), altitudeOffset, altitudeResolution, altitudeBits, false)
}

func encodeHorizontalVelocity(kt *int) (*bits.Seq, error) {
	if kt == nil {
		return field.Sentinel(horizontalInvalid, velocityBits), nil
	}
	if *kt < 0 {
		return nil, fmt.Errorf("%w: %d kt", field.ErrUnexpectedNegative, *kt)
	}
	return field.EncodeUint(min(*kt, horizontalMax), velocityBits, false)
}

func encodeVerticalVelocity(fpm *int) (*bits.Seq, error) {
	if fpm == nil {
		return field.Sentinel(verticalInvalid, velocityBits), nil
	}
	raw := math.Round(float64(*fpm) / verticalResolution)
	raw = math.Max(-verticalMaxRaw, math.Min(raw, verticalMaxRaw))
	return field.EncodeInt(int64(raw), velocityBits, false)
}

// encodeTrack wraps the angle into [0, 360) before quantizing.
func encodeTrack(deg float64) (*bits.Seq, error) {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return nil, fmt.Errorf("%w: %v degrees", field.ErrBadIntegerSize, deg)
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	raw := uint64(math.Round(deg/trackResolution)) % 256
	return field.EncodeUint(raw, trackBits, false)
}

func encodeCallsign(cs string) (*bits.Seq, error) {
	if err := checkCallsign(cs); err != nil {
		return nil, err
	}
	return field.EncodeText(cs, callsignBytes*8)
}

func checkCallsign(cs string) error {
	if len(cs) > callsignBytes {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidCallsign, cs, callsignBytes)
	}
	for _, c := range []byte(cs) {
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') && c != ' ' {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidCallsign, cs, c)
		}
	}
	return nil
}

// TrafficReport describes another aircraft or vehicle.
type TrafficReport struct {
	Report `yaml:",inline"`
}

func (TrafficReport) Name() string { return nameTrafficReport }

func (TrafficReport) MessageIDs() []byte { return []byte{IDTrafficReport} }

func (m TrafficReport) MarshalPayload() (*bits.Seq, error) { return m.marshal(nameTrafficReport) }

func DecodeTrafficReport(s *bits.Seq) (TrafficReport, error) {
	rep, err := decodeReport(nameTrafficReport, s)
	return TrafficReport{rep}, err
}

// OwnshipReport describes the aircraft carrying the device.
type OwnshipReport struct {
	Report `yaml:",inline"`
}

func (OwnshipReport) Name() string { return nameOwnshipReport }

func (OwnshipReport) MessageIDs() []byte { return []byte{IDOwnshipReport} }

func (m OwnshipReport) MarshalPayload() (*bits.Seq, error) { return m.marshal(nameOwnshipReport) }

func DecodeOwnshipReport(s *bits.Seq) (OwnshipReport, error) {
	rep, err := decodeReport(nameOwnshipReport, s)
	return OwnshipReport{rep}, err
}
