package message

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/danmuck/gdl90/internal/protocol/bits"
	"github.com/danmuck/gdl90/internal/protocol/frame"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("decode hex %q: %v", s, err)
	}
	return b
}

// payloadOf unframes an MSB-first frame and returns its payload bits.
func payloadOf(t *testing.T, data []byte, idLen int) *bits.Seq {
	t.Helper()
	_, payload, err := frame.Deconstruct(data, idLen, true)
	if err != nil {
		t.Fatalf("deconstruct: %v", err)
	}
	return payload
}

func serialize(t *testing.T, m Message) []byte {
	t.Helper()
	data, err := Serialize(m, false)
	if err != nil {
		t.Fatalf("serialize %s: %v", m.Name(), err)
	}
	return data
}

func expectFrame(t *testing.T, m Message, want []byte) {
	t.Helper()
	if got := serialize(t, m); !bytes.Equal(got, want) {
		t.Fatalf("serialize %s:\n got % x\nwant % x", m.Name(), got, want)
	}
}

func bitsFrom(b []byte) *bits.Seq {
	return bits.FromBytes(b)
}
