// Package export renders decoded messages as self-describing records.
package export

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/danmuck/gdl90/internal/protocol/message"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// Codec defines a simple interface for marshaling records.
type Codec interface {
	Name() string
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// framer is implemented by codecs whose documents need delimiting when
// several share one stream.
type framer interface {
	frame(doc []byte) []byte
}

// HexBytes renders as a hex string in text formats.
type HexBytes []byte

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(b)), nil
}

func (b *HexBytes) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	*b = raw
	return nil
}

// Record wraps one decoded message with its type name and ids.
type Record struct {
	Type    string          `json:"type" yaml:"type" cbor:"type"`
	IDs     HexBytes        `json:"ids" yaml:"ids" cbor:"ids"`
	Message message.Message `json:"message" yaml:"message" cbor:"message"`
}

func NewRecord(m message.Message) Record {
	return Record{Type: m.Name(), IDs: m.MessageIDs(), Message: m}
}

// Registry maps format names and content types to codecs.
type Registry struct {
	byName map[string]Codec
}

// NewRegistry returns a registry with the JSON, YAML and CBOR codecs.
func NewRegistry() (*Registry, error) {
	r := &Registry{byName: make(map[string]Codec)}
	r.Register(JSON())
	r.Register(YAML())
	c, err := CBOR()
	if err != nil {
		return nil, fmt.Errorf("export: cbor codec: %w", err)
	}
	r.Register(c)
	return r, nil
}

func (r *Registry) Register(c Codec) {
	r.byName[strings.ToLower(c.Name())] = c
	r.byName[strings.ToLower(c.ContentType())] = c
}

// Get looks a codec up by format name or content type.
func (r *Registry) Get(name string) (Codec, bool) {
	c, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// Names lists the registered format names.
func (r *Registry) Names() []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range r.byName {
		if !seen[c.Name()] {
			seen[c.Name()] = true
			names = append(names, c.Name())
		}
	}
	sort.Strings(names)
	return names
}

// KnownFormat reports whether name is a built-in format.
func KnownFormat(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatJSON, FormatYAML, FormatCBOR:
		return true
	}
	return false
}

// Writer streams records through one codec.
type Writer struct {
	w     io.Writer
	codec Codec
}

func NewWriter(w io.Writer, c Codec) *Writer {
	return &Writer{w: w, codec: c}
}

func (w *Writer) Write(m message.Message) error {
	doc, err := w.codec.Marshal(NewRecord(m))
	if err != nil {
		return fmt.Errorf("export %s as %s: %w", m.Name(), w.codec.Name(), err)
	}
	if f, ok := w.codec.(framer); ok {
		doc = f.frame(doc)
	}
	_, err = w.w.Write(doc)
	return err
}
