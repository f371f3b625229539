package ucs2

import "testing"

func TestRoundTripBMP(t *testing.T) {
	cases := []string{
		"",
		"Play",
		"Hello, World!",
		"§4Red §1Blue",
		"日本語",
	}
	for _, s := range cases {
		b, err := EncodeBytes(s)
		if err != nil {
			t.Fatalf("EncodeBytes(%q): %v", s, err)
		}
		got, err := DecodeBytes(b)
		if err != nil {
			t.Fatalf("DecodeBytes round-trip of %q: %v", s, err)
		}
		if got != s {
			t.Errorf("round-trip mismatch: got %q, want %q", got, s)
		}
	}
}

func TestEncodeRejectsAstral(t *testing.T) {
	// U+1F600 GRINNING FACE is outside the BMP.
	if _, err := Encode("\U0001F600"); err == nil {
		t.Error("expected error encoding astral code point, got nil")
	}
}

func TestDecodeRejectsLoneSurrogate(t *testing.T) {
	// 0xD800 is a high surrogate with no following low surrogate.
	if _, err := Decode([]uint16{0xD800, 0x0041}); err == nil {
		t.Error("expected error decoding lone surrogate, got nil")
	}
}

func TestHandshakeWireBytes(t *testing.T) {
	// From spec.md S1: "Play" encodes to these 8 UCS-2BE bytes.
	want := []byte{0x00, 0x50, 0x00, 0x6C, 0x00, 0x61, 0x00, 0x79}
	got, err := EncodeBytes("Play")
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = 0x%02X, want 0x%02X", i, got[i], want[i])
		}
	}
}
