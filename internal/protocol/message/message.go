// Package message defines the typed GDL90 and ForeFlight messages and their
// payload layouts.
//
// Each message is an immutable value. Optional values are nil pointers and
// travel on the wire as the field's sentinel. Decoders consume exactly the
// payload bits of their message and fail with ErrDataTooLong when bits remain.
package message

import (
	"errors"
	"fmt"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/frame"
)

// Message IDs. ForeFlight extensions share IDForeFlight and are told apart by
// a second ID byte.
const (
	IDHeartbeat                byte = 0x00
	IDInitialization           byte = 0x02
	IDUplinkData               byte = 0x07
	IDHeightAboveTerrain       byte = 0x09
	IDOwnshipReport            byte = 0x0A
	IDOwnshipGeometricAltitude byte = 0x0B
	IDTrafficReport            byte = 0x14
	IDBasicUATReport           byte = 0x1E
	IDLongUATReport            byte = 0x1F
	IDForeFlight               byte = 0x65

	SubIDForeFlightID   byte = 0x00
	SubIDForeFlightAHRS byte = 0x01
)

var (
	ErrDataTooLong         = errors.New("message: data too long")
	ErrUplinkDataWrongSize = errors.New("message: uplink payload has wrong size")
	ErrInvalidCallsign     = errors.New("message: invalid callsign")
	ErrUnsupportedVersion  = errors.New("message: unsupported version")
)

// Message is implemented by every typed message.
type Message interface {
	Name() string
	MessageIDs() []byte
	MarshalPayload() (*bits.Seq, error)
}

// Descriptor is the static registration record of one message type.
type Descriptor struct {
	Name   string
	IDs    []byte
	Decode func(*bits.Seq) (Message, error)
}

// FieldError attaches the message and field to a codec failure.
type FieldError struct {
	Message string
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("message: %s.%s: %v", e.Message, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Serialize encodes m into a complete wire frame.
func Serialize(m Message, outgoingLSB bool) ([]byte, error) {
	payload, err := m.MarshalPayload()
	if err != nil {
		return nil, err
	}
	return frame.BuildBits(m.MessageIDs(), payload, outgoingLSB)
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func descriptor[M Message](name string, ids []byte, decode func(*bits.Seq) (M, error)) Descriptor {
	return Descriptor{
		Name: name,
		IDs:  ids,
		Decode: func(s *bits.Seq) (Message, error) {
			m, err := decode(s)
			if err != nil {
				return nil, err
			}
			return m, nil
		},
	}
}

// Descriptors lists every built-in message type.
func Descriptors() []Descriptor {
	return []Descriptor{
		descriptor(nameHeartbeat, []byte{IDHeartbeat}, DecodeHeartbeat),
		descriptor(nameInitialization, []byte{IDInitialization}, DecodeInitialization),
		descriptor(nameUplinkData, []byte{IDUplinkData}, DecodeUplinkData),
		descriptor(nameHeightAboveTerrain, []byte{IDHeightAboveTerrain}, DecodeHeightAboveTerrain),
		descriptor(nameOwnshipReport, []byte{IDOwnshipReport}, DecodeOwnshipReport),
		descriptor(nameOwnshipGeometricAltitude, []byte{IDOwnshipGeometricAltitude}, DecodeOwnshipGeometricAltitude),
		descriptor(nameTrafficReport, []byte{IDTrafficReport}, DecodeTrafficReport),
		descriptor(nameBasicUATReport, []byte{IDBasicUATReport}, DecodeBasicUATReport),
		descriptor(nameLongUATReport, []byte{IDLongUATReport}, DecodeLongUATReport),
		descriptor(nameForeFlightID, []byte{IDForeFlight, SubIDForeFlightID}, DecodeForeFlightID),
		descriptor(nameForeFlightAHRS, []byte{IDForeFlight, SubIDForeFlightAHRS}, DecodeForeFlightAHRS),
	}
}
