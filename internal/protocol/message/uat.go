package message

import (
	"fmt"
	"time"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/field"
)

const (
	nameUplinkData     = "uplink_data"
	nameBasicUATReport = "basic_uat_report"
	nameLongUATReport  = "long_uat_report"

	UplinkPayloadBytes    = 432
	BasicUATPayloadBytes  = 18
	LongUATPayloadBytes   = 34
	torBits               = 24
	torResolution         = 80 * time.Nanosecond
	torInvalid     uint64 = 0xFFFFFF
	// MaxTimeOfReception is the last 80 ns tick of the UTC second.
	MaxTimeOfReception = 12499999 * torResolution
)

// UATReport is the layout shared by messages that relay a received UAT
// frame: a time of reception followed by the raw over-the-air payload.
type UATReport struct {
	// TimeOfReception is the fraction of the current UTC second at which the
	// frame arrived. Nil, negative or out of range values travel as invalid.
	TimeOfReception *time.Duration `json:"time_of_reception,omitempty" yaml:"time_of_reception,omitempty"`
	Payload         []byte         `json:"payload" yaml:"payload"`
}

func (m UATReport) marshal(name string, size int) (*bits.Seq, error) {
	w := newWriter(name)
	w.at("time_of_reception").add(encodeTOR(m.TimeOfReception))
	if len(m.Payload) != size {
		w.at("payload").fail(fmt.Errorf("%w: %d bytes, want %d", ErrUplinkDataWrongSize, len(m.Payload), size))
		return w.result()
	}
	w.put(bits.FromBytes(m.Payload))
	return w.result()
}

func encodeTOR(tor *time.Duration) (*bits.Seq, error) {
	if tor == nil || *tor < 0 || *tor > MaxTimeOfReception {
		return field.Sentinel(torInvalid, torBits), nil
	}
	raw, err := field.EncodeScaledUint(float64(*tor), float64(torResolution), torBits, false)
	if err != nil {
		return nil, err
	}
	return field.EncodeUintLE(raw.Uint(), torBits, false)
}

func decodeUATReport(name string, size int, s *bits.Seq) (UATReport, error) {
	r := newReader(name, s)
	var m UATReport
	if raw := r.uintLE("time_of_reception", torBits); raw != torInvalid && r.err == nil {
		m.TimeOfReception = Ptr(time.Duration(raw) * torResolution)
	}
	m.Payload = r.bytes("payload", size)
	if err := r.done(); err != nil {
		return UATReport{}, err
	}
	return m, nil
}

// UplinkData carries a received FIS-B uplink.
type UplinkData struct {
	UATReport `yaml:",inline"`
}

func (UplinkData) Name() string { return nameUplinkData }

func (UplinkData) MessageIDs() []byte { return []byte{IDUplinkData} }

func (m UplinkData) MarshalPayload() (*bits.Seq, error) {
	return m.marshal(nameUplinkData, UplinkPayloadBytes)
}

func DecodeUplinkData(s *bits.Seq) (UplinkData, error) {
	rep, err := decodeUATReport(nameUplinkData, UplinkPayloadBytes, s)
	return UplinkData{rep}, err
}

// BasicUATReport carries a received basic UAT ADS-B frame.
type BasicUATReport struct {
	UATReport `yaml:",inline"`
}

func (BasicUATReport) Name() string { return nameBasicUATReport }

func (BasicUATReport) MessageIDs() []byte { return []byte{IDBasicUATReport} }

func (m BasicUATReport) MarshalPayload() (*bits.Seq, error) {
	return m.marshal(nameBasicUATReport, BasicUATPayloadBytes)
}

func DecodeBasicUATReport(s *bits.Seq) (BasicUATReport, error) {
	rep, err := decodeUATReport(nameBasicUATReport, BasicUATPayloadBytes, s)
	return BasicUATReport{rep}, err
}

// LongUATReport carries a received long UAT ADS-B frame.
type LongUATReport struct {
	UATReport `yaml:",inline"`
}

func (LongUATReport) Name() string { return nameLongUATReport }

func (LongUATReport) MessageIDs() []byte { return []byte{IDLongUATReport} }

func (m LongUATReport) MarshalPayload() (*bits.Seq, error) {
	return m.marshal(nameLongUATReport, LongUATPayloadBytes)
}

func DecodeLongUATReport(s *bits.Seq) (LongUATReport, error) {
	rep, err := decodeUATReport(nameLongUATReport, LongUATPayloadBytes, s)
	return LongUATReport{rep}, err
}
