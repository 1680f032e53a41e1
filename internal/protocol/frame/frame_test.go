package frame

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/gdl90/internal/protocol/bits"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("decode hex %q: %v", s, err)
	}
	return b
}

func TestCRCTable(t *testing.T) {
	table := CRCTable()
	if table[0] != 0 {
		t.Fatalf("table[0] = %#04x, want 0", table[0])
	}
	if table[1] != Polynomial {
		t.Fatalf("table[1] = %#04x, want %#04x", table[1], Polynomial)
	}
	table[1] = 0
	if CRCTable()[1] != Polynomial {
		t.Fatalf("CRCTable returned a shared table")
	}
}

func TestComputeCRC(t *testing.T) {
	data := mustHex(t, "00 81 41 DB D0 08 02")
	if got := ComputeCRC(data); !bytes.Equal(got, []byte{0xB3, 0x8B}) {
		t.Fatalf("ComputeCRC = % x, want b3 8b", got)
	}
	if got := CRC16(data); got != 0x8BB3 {
		t.Fatalf("CRC16 = %#04x, want 0x8bb3", got)
	}
}

func TestCheckCRC(t *testing.T) {
	data := mustHex(t, "00 81 41 DB D0 08 02")
	if err := CheckCRC(data, []byte{0xB3, 0x8B}); err != nil {
		t.Fatalf("CheckCRC valid: %v", err)
	}
	if err := CheckCRC(data, []byte{0xB3, 0x8C}); !errors.Is(err, ErrInvalidCRC) {
		t.Fatalf("CheckCRC invalid err = %v, want ErrInvalidCRC", err)
	}
	if ValidCRC(data, []byte{0xB3}) {
		t.Fatalf("ValidCRC accepted a short crc")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"0102030405", "0102030405"},
		{"01027d0405", "01027d5d0405"},
		{"017d027e037d047e", "017d5d027d5e037d5d047d5e"},
	}
	for _, tc := range tests {
		in := mustHex(t, tc.in)
		orig := append([]byte(nil), in...)
		if got := Escape(in); !bytes.Equal(got, mustHex(t, tc.want)) {
			t.Fatalf("Escape(%s) = %x, want %s", tc.in, got, tc.want)
		}
		if !bytes.Equal(in, orig) {
			t.Fatalf("Escape modified its input")
		}
		got, err := Unescape(mustHex(t, tc.want))
		if err != nil {
			t.Fatalf("Unescape(%s): %v", tc.want, err)
		}
		if !bytes.Equal(got, in) {
			t.Fatalf("Unescape(%s) = %x, want %s", tc.want, got, tc.in)
		}
	}
}

func TestUnescapeTrailingEscape(t *testing.T) {
	if _, err := Unescape([]byte{0x01, EscapeByte}); !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("err = %v, want ErrInvalidFrame", err)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		ids     string
		payload string
		lsb     bool
		want    string
	}{
		{"msb", "00", "0102030405", false, "7e 00 01 02 03 04 05 34 65 7e"},
		{"lsb", "00", "0102030405", true, "7e 00 80 40 c0 20 a0 2c a6 7e"},
		{"escaped payload", "02", "7e7d", false, "7e 02 7d 5e 7d 5d 3f 5e 7e"},
		{"escaped crc", "0a", "7e", false, "7e 0a 7d 5e 7d 5e 0a 7e"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Build(mustHex(t, tc.ids), mustHex(t, tc.payload), tc.lsb)
			if want := mustHex(t, tc.want); !bytes.Equal(got, want) {
				t.Fatalf("Build = % x, want % x", got, want)
			}
			content, err := Unframe(got, !tc.lsb)
			if err != nil {
				t.Fatalf("Unframe: %v", err)
			}
			if want := mustHex(t, tc.ids+tc.payload); !bytes.Equal(content, want) {
				t.Fatalf("Unframe = % x, want % x", content, want)
			}
		})
	}
}

func TestBuildBitsRejectsUnaligned(t *testing.T) {
	if _, err := BuildBits([]byte{0x00}, bits.MustParse("0b101"), false); !errors.Is(err, ErrUnalignedPayload) {
		t.Fatalf("err = %v, want ErrUnalignedPayload", err)
	}
	got, err := BuildBits([]byte{0x00}, bits.FromBytes(mustHex(t, "0102030405")), false)
	if err != nil {
		t.Fatalf("BuildBits: %v", err)
	}
	if want := mustHex(t, "7e 00 01 02 03 04 05 34 65 7e"); !bytes.Equal(got, want) {
		t.Fatalf("BuildBits = % x, want % x", got, want)
	}
}

func TestUnframeErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", ErrMissingFlagBytes},
		{"no leading flag", "00 01 02 03 04 05 34 65 7e", ErrMissingFlagBytes},
		{"no trailing flag", "7e 00 01 02 03 04 05 34 65", ErrMissingFlagBytes},
		{"bad crc", "7e 00 01 02 03 04 05 34 66 7e", ErrInvalidCRC},
		{"trailing escape", "7e 00 01 7d 7e", ErrInvalidFrame},
		{"too short", "7e 00 7e", ErrInvalidFrame},
		{"inner flag", "7e 00 7e 01 02 7e", ErrInvalidFrame},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Unframe(mustHex(t, tc.data), true); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUnframeWrongBitOrder(t *testing.T) {
	data := mustHex(t, "7e 00 80 40 c0 20 a0 2c a6 7e")
	if _, err := Unframe(data, true); !errors.Is(err, ErrInvalidCRC) {
		t.Fatalf("err = %v, want ErrInvalidCRC", err)
	}
}

func TestDeconstruct(t *testing.T) {
	ids, payload, err := Deconstruct(mustHex(t, "7e 00 01 02 03 04 05 34 65 7e"), 1, true)
	if err != nil {
		t.Fatalf("Deconstruct: %v", err)
	}
	if !bytes.Equal(ids, []byte{0x00}) {
		t.Fatalf("ids = % x, want 00", ids)
	}
	if payload.Len() != 40 || !bytes.Equal(payload.Bytes(), mustHex(t, "0102030405")) {
		t.Fatalf("payload = %s", payload)
	}
	if _, _, err := Deconstruct(mustHex(t, "7e 00 01 02 03 04 05 34 65 7e"), 7, true); !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("err = %v, want ErrInvalidFrame", err)
	}
}

func TestSplit(t *testing.T) {
	a := "7e 00 01 02 03 04 05 34 65 7e"
	b := "7e 02 41 01 43 61 7e"
	tests := []struct {
		name string
		data string
		want []string
	}{
		{"empty", "", nil},
		{"single", a, []string{a}},
		{"separate flags", a + b, []string{a, b}},
		{"shared flag", "7e 02 41 01 43 61 7e 00 01 02 03 04 05 34 65 7e", []string{b, a}},
		{"flag runs", "7e 7e " + b + " 7e", []string{b}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Split(mustHex(t, tc.data))
			if err != nil {
				t.Fatalf("Split: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("Split returned %d frames, want %d", len(got), len(tc.want))
			}
			for i := range got {
				if want := mustHex(t, tc.want[i]); !bytes.Equal(got[i], want) {
					t.Fatalf("frame %d = % x, want % x", i, got[i], want)
				}
			}
		})
	}
	if _, err := Split(mustHex(t, "01 "+b)); !errors.Is(err, ErrMissingFlagBytes) {
		t.Fatalf("err = %v, want ErrMissingFlagBytes", err)
	}
}
