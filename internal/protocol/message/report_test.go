package message

import (
	"errors"
	"math"
	"testing"

	"github.com/danmuck/gdl90/internal/protocol/field"
)

const trafficFrame = "7E 14 00 AB 45 49 1F EF 15 A8 89 78 0F 09 A9 07 B0 01 20 01 4E 38 32 35 56 20 20 20 00 57 D6 7e"

func sampleReport() Report {
	return Report{
		AddressType:           AddressADSBICAO,
		Address:               0o52642511,
		Latitude:              44.90708,
		Longitude:             -122.99488,
		PressureAltitude:      Ptr(5000),
		Airborne:              true,
		TrackType:             TrackTrueTrackAngle,
		Integrity:             IntegrityHPL25mVPL37_5m,
		Accuracy:              AccuracyHFOM30mVFOM45m,
		HorizontalVelocity:    Ptr(123),
		VerticalVelocity:      Ptr(64),
		Track:                 45,
		EmitterCategory:       EmitterLight,
		Callsign:              "N825V",
		EmergencyPriorityCode: EmergencyNone,
	}
}

func TestTrafficReportSerialize(t *testing.T) {
	expectFrame(t, TrafficReport{sampleReport()}, mustHex(t, trafficFrame))
}

func TestTrafficReportDeserialize(t *testing.T) {
	got, err := DecodeTrafficReport(payloadOf(t, mustHex(t, trafficFrame), 1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := sampleReport()
	if math.Abs(got.Latitude-want.Latitude) > degreesResolution || math.Abs(got.Longitude-want.Longitude) > degreesResolution {
		t.Fatalf("expected position near %v,%v, got %v,%v", want.Latitude, want.Longitude, got.Latitude, got.Longitude)
	}
	got.Latitude, got.Longitude = want.Latitude, want.Longitude
	if got.TrafficAlert || got.AddressType != want.AddressType || got.Address != want.Address {
		t.Fatalf("unexpected header fields %+v", got.Report)
	}
	if got.PressureAltitude == nil || *got.PressureAltitude != 5000 {
		t.Fatalf("expected altitude 5000, got %v", got.PressureAltitude)
	}
	if !got.Airborne || got.Extrapolated || got.TrackType != TrackTrueTrackAngle {
		t.Fatalf("unexpected misc fields %+v", got.Report)
	}
	if got.Integrity != want.Integrity || got.Accuracy != want.Accuracy {
		t.Fatalf("expected NIC %v NACp %v, got %v %v", want.Integrity, want.Accuracy, got.Integrity, got.Accuracy)
	}
	if *got.HorizontalVelocity != 123 || *got.VerticalVelocity != 64 || got.Track != 45 {
		t.Fatalf("unexpected motion fields %+v", got.Report)
	}
	if got.EmitterCategory != EmitterLight || got.Callsign != "N825V" || got.EmergencyPriorityCode != EmergencyNone {
		t.Fatalf("unexpected identity fields %+v", got.Report)
	}
}

func TestOwnshipReport(t *testing.T) {
	rep := sampleReport()
	rep.Callsign = "ABC"
	data := mustHex(t, "7e 0a 00 ab 45 49 1f ef 15 a8 89 78 0f 09 a9 07 b0 01 20 01 41 42 43 20 20 20 20 20 00 6f 68 7e")
	expectFrame(t, OwnshipReport{rep}, data)

	got, err := DecodeOwnshipReport(payloadOf(t, data, 1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Callsign != "ABC" {
		t.Fatalf("expected trimmed callsign ABC, got %q", got.Callsign)
	}
}

func TestReportSentinels(t *testing.T) {
	rep := sampleReport()
	rep.PressureAltitude = nil
	rep.HorizontalVelocity = nil
	rep.VerticalVelocity = nil
	data := serialize(t, TrafficReport{rep})
	// payload byte n sits at data[n+2]
	if data[12] != 0xFF || data[13]>>4 != 0xF {
		t.Fatalf("expected altitude fff, got % x", data[12:14])
	}
	if data[15] != 0xFF || data[16] != 0xF8 || data[17] != 0x00 {
		t.Fatalf("expected velocities fff 800, got % x", data[15:18])
	}
	got, err := DecodeTrafficReport(payloadOf(t, data, 1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.PressureAltitude != nil || got.HorizontalVelocity != nil || got.VerticalVelocity != nil {
		t.Fatalf("expected nil optional fields, got %+v", got.Report)
	}
}

func TestReportSaturates(t *testing.T) {
	rep := sampleReport()
	rep.PressureAltitude = Ptr(200000)
	rep.HorizontalVelocity = Ptr(9000)
	rep.VerticalVelocity = Ptr(-100000)
	rep.Track = -45
	got, err := DecodeTrafficReport(payloadOf(t, serialize(t, TrafficReport{rep}), 1))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got.PressureAltitude != altitudeMax {
		t.Fatalf("expected altitude %d, got %d", altitudeMax, *got.PressureAltitude)
	}
	if *got.HorizontalVelocity != horizontalMax {
		t.Fatalf("expected horizontal velocity %d, got %d", horizontalMax, *got.HorizontalVelocity)
	}
	if *got.VerticalVelocity != -verticalMaxRaw*verticalResolution {
		t.Fatalf("expected vertical velocity %d, got %d", -verticalMaxRaw*verticalResolution, *got.VerticalVelocity)
	}
	if got.Track != 315 {
		t.Fatalf("expected track 315, got %v", got.Track)
	}
}

func TestReportInvalidCallsign(t *testing.T) {
	for _, cs := range []string{"n825v", "N825V-1", "TOOLONGCS"} {
		rep := sampleReport()
		rep.Callsign = cs
		if _, err := Serialize(TrafficReport{rep}, false); !errors.Is(err, ErrInvalidCallsign) {
			t.Fatalf("callsign %q: expected ErrInvalidCallsign, got %v", cs, err)
		}
	}
}

func TestReportUnknownEnum(t *testing.T) {
	data := mustHex(t, trafficFrame)
	payload := payloadOf(t, data, 1)
	raw := payload.Bytes()
	raw[0] = 0x09
	_, err := DecodeTrafficReport(bitsFrom(raw))
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "address_type" || !errors.Is(err, field.ErrUnknownEnumValue) {
		t.Fatalf("expected address_type ErrUnknownEnumValue, got %v", err)
	}
}

func TestReportRejectsNaN(t *testing.T) {
	rep := sampleReport()
	rep.Latitude = math.NaN()
	if _, err := Serialize(TrafficReport{rep}, false); !errors.Is(err, field.ErrBadIntegerSize) {
		t.Fatalf("expected ErrBadIntegerSize, got %v", err)
	}
}

func TestReportClampsPosition(t *testing.T) {
	cases := []struct {
		lat, lon         float64
		wantLat, wantLon float64
	}{
		{91, 22.5, 90, 22.5},
		{-135.5, -22.5, -90, -22.5},
		{45, 200, 45, 180 - degreesResolution},
		{45, -181, 45, -180},
	}
	for _, tc := range cases {
		rep := sampleReport()
		rep.Latitude, rep.Longitude = tc.lat, tc.lon
		got, err := DecodeTrafficReport(payloadOf(t, serialize(t, TrafficReport{rep}), 1))
		if err != nil {
			t.Fatalf("%v,%v: decode: %v", tc.lat, tc.lon, err)
		}
		if got.Latitude != tc.wantLat || got.Longitude != tc.wantLon {
			t.Fatalf("%v,%v: expected %v,%v, got %v,%v", tc.lat, tc.lon, tc.wantLat, tc.wantLon, got.Latitude, got.Longitude)
		}
	}
}

func TestEnumStrings(t *testing.T) {
	if EmitterLight.String() != "light" || AddressTISBTrackFile.String() != "tisb_track_file" {
		t.Fatalf("unexpected enum names")
	}
	if AddressType(9).Valid() || AddressType(9).String() != "unknown(9)" {
		t.Fatalf("expected AddressType(9) to be invalid")
	}
	text, err := IntegrityHPL25mVPL37_5m.MarshalText()
	if err != nil || string(text) != "hpl_lt_25m_vpl_lt_37.5m" {
		t.Fatalf("unexpected MarshalText %q (%v)", text, err)
	}
}
