package export

import (
	"encoding/json"

	cbor "github.com/fxamacker/cbor/v2"
	yaml "gopkg.in/yaml.v2"
)

type jsonCodec struct{}

func JSON() Codec { return jsonCodec{} }

func (jsonCodec) Name() string                       { return FormatJSON }
func (jsonCodec) ContentType() string                { return "application/json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// One record per line.
func (jsonCodec) frame(doc []byte) []byte { return append(doc, '\n') }

type yamlCodec struct{}

func YAML() Codec { return yamlCodec{} }

func (yamlCodec) Name() string                       { return FormatYAML }
func (yamlCodec) ContentType() string                { return "application/yaml" }
func (yamlCodec) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (yamlCodec) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

func (yamlCodec) frame(doc []byte) []byte { return append([]byte("---\n"), doc...) }

type cborCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// CBOR returns a deterministic CBOR codec. Records written back to back form
// a CBOR sequence.
func CBOR() (Codec, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}
	dm, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, err
	}
	return cborCodec{enc: em, dec: dm}, nil
}

func (cborCodec) Name() string                         { return FormatCBOR }
func (cborCodec) ContentType() string                  { return "application/cbor" }
func (c cborCodec) Marshal(v any) ([]byte, error)      { return c.enc.Marshal(v) }
func (c cborCodec) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }
