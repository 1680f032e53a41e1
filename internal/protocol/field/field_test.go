package field

import (
	"errors"
	"testing"

	"github.com/danmuck/gdl90/internal/protocol/bits"
)

func TestEncodeUint(t *testing.T) {
	cases := []struct {
		value     int
		width     int
		constrain bool
		want      string
	}{
		{10, 8, true, "0b00001010"},
		{255, 8, false, "0b11111111"},
		{256, 8, true, "0b11111111"},
		{1000, 16, true, "0b0000001111101000"},
	}
	for _, tc := range cases {
		got, err := EncodeUint(tc.value, tc.width, tc.constrain)
		if err != nil {
			t.Fatalf("encode %d: %v", tc.value, err)
		}
		if !got.Equal(bits.MustParse(tc.want)) {
			t.Fatalf("encode %d: expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

func TestEncodeUintFailures(t *testing.T) {
	if _, err := EncodeUint(-1, 8, true); !errors.Is(err, ErrUnexpectedNegative) {
		t.Fatalf("expected ErrUnexpectedNegative, got %v", err)
	}
	if _, err := EncodeUint(256, 8, false); !errors.Is(err, ErrBadIntegerSize) {
		t.Fatalf("expected ErrBadIntegerSize, got %v", err)
	}
	if _, err := EncodeUint(1, 0, true); !errors.Is(err, ErrBadWidth) {
		t.Fatalf("expected ErrBadWidth, got %v", err)
	}
}

func TestEncodeUint64Full(t *testing.T) {
	got, err := EncodeUint(uint64(0xFFFFFFFFFFFFFFFF), 64, false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !got.Equal(AllOnes(64)) {
		t.Fatalf("expected all ones, got %s", got)
	}
}

func TestDecodeUint(t *testing.T) {
	cases := map[string]uint64{
		"0b00001010":         10,
		"0b11111111":         255,
		"0b0000001111101000": 1000,
	}
	for lit, want := range cases {
		if got := DecodeUint(bits.MustParse(lit)); got != want {
			t.Fatalf("%s: expected %d, got %d", lit, want, got)
		}
	}
}

func TestEncodeInt(t *testing.T) {
	cases := []struct {
		value     int64
		width     int
		constrain bool
		want      string
	}{
		{10, 8, true, "0b00001010"},
		{-10, 8, false, "0b11110110"},
		{256, 8, true, "0b01111111"},
		{-256, 8, true, "0b10000000"},
		{127, 8, false, "0b01111111"},
		{-128, 8, false, "0b10000000"},
		{1000, 16, true, "0b0000001111101000"},
	}
	for _, tc := range cases {
		got, err := EncodeInt(tc.value, tc.width, tc.constrain)
		if err != nil {
			t.Fatalf("encode %d: %v", tc.value, err)
		}
		if !got.Equal(bits.MustParse(tc.want)) {
			t.Fatalf("encode %d: expected %s, got %s", tc.value, tc.want, got)
		}
	}
}

func TestEncodeIntOutOfRange(t *testing.T) {
	for _, v := range []int64{-129, 128} {
		if _, err := EncodeInt(v, 8, false); !errors.Is(err, ErrBadIntegerSize) {
			t.Fatalf("%d: expected ErrBadIntegerSize, got %v", v, err)
		}
	}
}

func TestDecodeInt(t *testing.T) {
	cases := map[string]int64{
		"0b00001010":         10,
		"0b11110110":         -10,
		"0b01111111":         127,
		"0b10000000":         -128,
		"0b0000001111101000": 1000,
	}
	for lit, want := range cases {
		if got := DecodeInt(bits.MustParse(lit)); got != want {
			t.Fatalf("%s: expected %d, got %d", lit, want, got)
		}
	}
}

func TestScaledUint(t *testing.T) {
	cases := []struct {
		value      float64
		resolution float64
		lit        string
	}{
		{200, 10, "0b00010100"},
		{450, 50, "0b00001001"},
		{3, 1.5, "0b00000010"},
	}
	for _, tc := range cases {
		got, err := EncodeScaledUint(tc.value, tc.resolution, 8, true)
		if err != nil {
			t.Fatalf("encode %v: %v", tc.value, err)
		}
		if !got.Equal(bits.MustParse(tc.lit)) {
			t.Fatalf("encode %v: expected %s, got %s", tc.value, tc.lit, got)
		}
		if back := DecodeScaledUint(bits.MustParse(tc.lit), tc.resolution); back != tc.value {
			t.Fatalf("decode %s: expected %v, got %v", tc.lit, tc.value, back)
		}
	}
}

func TestScaledUintRoundsHalfAwayFromZero(t *testing.T) {
	got, err := EncodeScaledUint(25, 10, 8, true)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got.Uint() != 3 {
		t.Fatalf("expected 3, got %d", got.Uint())
	}
	neg, err := EncodeScaledInt(-25, 10, 8, true)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if neg.Int() != -3 {
		t.Fatalf("expected -3, got %d", neg.Int())
	}
}

func TestScaledInt(t *testing.T) {
	cases := []struct {
		value      float64
		resolution float64
		lit        string
	}{
		{200, 10, "0b00010100"},
		{450, 50, "0b00001001"},
		{3, 1.5, "0b00000010"},
		{-200, 10, "0b11101100"},
		{-450, 50, "0b11110111"},
		{-3, 1.5, "0b11111110"},
	}
	for _, tc := range cases {
		got, err := EncodeScaledInt(tc.value, tc.resolution, 8, true)
		if err != nil {
			t.Fatalf("encode %v: %v", tc.value, err)
		}
		if !got.Equal(bits.MustParse(tc.lit)) {
			t.Fatalf("encode %v: expected %s, got %s", tc.value, tc.lit, got)
		}
		if back := DecodeScaledInt(bits.MustParse(tc.lit), tc.resolution); back != tc.value {
			t.Fatalf("decode %s: expected %v, got %v", tc.lit, tc.value, back)
		}
	}
}

func TestScaledIntSaturates(t *testing.T) {
	got, err := EncodeScaledInt(10000, 10, 8, true)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got.Int() != 127 {
		t.Fatalf("expected 127, got %d", got.Int())
	}
	if _, err := EncodeScaledInt(10000, 10, 8, false); !errors.Is(err, ErrBadIntegerSize) {
		t.Fatalf("expected ErrBadIntegerSize, got %v", err)
	}
}

func TestScaledRejectsZeroResolution(t *testing.T) {
	if _, err := EncodeScaledUint(1, 0, 8, true); !errors.Is(err, ErrBadIntegerSize) {
		t.Fatalf("expected ErrBadIntegerSize, got %v", err)
	}
}

func TestOffsetUint(t *testing.T) {
	cases := []struct {
		value, offset, resolution float64
		lit                       string
	}{
		{200, -20, 10, "0b00010110"},
		{450, -100, 50, "0b00001011"},
		{3, -2, 1, "0b00000101"},
	}
	for _, tc := range cases {
		got, err := EncodeOffsetUint(tc.value, tc.offset, tc.resolution, 8, true)
		if err != nil {
			t.Fatalf("encode %v: %v", tc.value, err)
		}
		if !got.Equal(bits.MustParse(tc.lit)) {
			t.Fatalf("encode %v: expected %s, got %s", tc.value, tc.lit, got)
		}
		if back := DecodeOffsetUint(bits.MustParse(tc.lit), tc.offset, tc.resolution); back != tc.value {
			t.Fatalf("decode %s: expected %v, got %v", tc.lit, tc.value, back)
		}
	}
}

func TestBool(t *testing.T) {
	if EncodeBool(true).Bin() != "1" || EncodeBool(false).Bin() != "0" {
		t.Fatalf("unexpected bool encoding")
	}
	if !DecodeBool(bits.MustParse("0b1")) || DecodeBool(bits.MustParse("0b0")) {
		t.Fatalf("unexpected bool decoding")
	}
}

func TestEncodeText(t *testing.T) {
	cases := []struct {
		value string
		width int
		lit   string
	}{
		{"N12345", 48, "0x4e3132333435"},
		{"too long", 16, "0x746f"},
		{"too short", 128, "0x746f6f2073686f727420202020202020"},
		{"", 8, "0x20"},
		{"abé", 24, "0x616220"},
		{"a😎", 40, "0x61f09f988e"},
		{"a😎", 32, "0x61202020"},
		{"a😎", 24, "0x612020"},
	}
	for _, tc := range cases {
		got, err := EncodeText(tc.value, tc.width)
		if err != nil {
			t.Fatalf("encode %q: %v", tc.value, err)
		}
		if !got.Equal(bits.MustParse(tc.lit)) {
			t.Fatalf("encode %q: expected %s, got % x", tc.value, tc.lit, got.Bytes())
		}
	}
	if _, err := EncodeText("x", 12); !errors.Is(err, ErrBadWidth) {
		t.Fatalf("expected ErrBadWidth, got %v", err)
	}
}

func TestDecodeTextKeepsPadding(t *testing.T) {
	cases := map[string]string{
		"0x4e3132333435":                     "N12345",
		"0x746f":                             "to",
		"0x746f6f2073686f727420202020202020": "too short       ",
		"0x20":                               " ",
	}
	for lit, want := range cases {
		if got := DecodeText(bits.MustParse(lit)); got != want {
			t.Fatalf("%s: expected %q, got %q", lit, want, got)
		}
	}
}

func TestUintLittleEndian(t *testing.T) {
	got, err := EncodeUintLE(625000, 24, false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !got.Equal(bits.MustParse("0x688909")) {
		t.Fatalf("expected 688909, got % x", got.Bytes())
	}
	if back := DecodeUintLE(got); back != 625000 {
		t.Fatalf("expected 625000, got %d", back)
	}
}

func TestSentinel(t *testing.T) {
	if got := Sentinel(0x8000, 16); !got.Equal(bits.MustParse("0x8000")) {
		t.Fatalf("unexpected sentinel: %s", got)
	}
	if got := AllOnes(12); got.Bin() != "111111111111" {
		t.Fatalf("unexpected all-ones: %s", got)
	}
}
