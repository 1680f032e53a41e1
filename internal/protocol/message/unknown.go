package message

import "github.com/danmuck/gdl90/internal/protocol/bits"

const nameUnknown = "unknown"

// Unknown holds a frame whose ID has no registered decoder. Payload is every
// byte after the leading ID, including any sub-ID.
type Unknown struct {
	ID      byte   `json:"id" yaml:"id"`
	Payload []byte `json:"payload" yaml:"payload"`
}

func (Unknown) Name() string { return nameUnknown }

func (m Unknown) MessageIDs() []byte { return []byte{m.ID} }

func (m Unknown) MarshalPayload() (*bits.Seq, error) {
	return bits.FromBytes(m.Payload), nil
}

// DecodeUnknown keeps the remaining payload verbatim.
func DecodeUnknown(id byte, s *bits.Seq) (Unknown, error) {
	r := newReader(nameUnknown, s)
	m := Unknown{ID: id}
	m.Payload = r.rest("payload")
	if err := r.done(); err != nil {
		return Unknown{}, err
	}
	return m, nil
}
