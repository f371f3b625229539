package protocol

import (
	"bufio"
	"bytes"
	"io"
	"testing"
)

func decodeHex(t *testing.T, hex string) []byte {
	t.Helper()
	var b []byte
	for i := 0; i < len(hex); {
		for hex[i] == ' ' {
			i++
		}
		var v byte
		for j := 0; j < 2; j++ {
			c := hex[i+j]
			v <<= 4
			switch {
			case c >= '0' && c <= '9':
				v |= c - '0'
			case c >= 'A' && c <= 'F':
				v |= c - 'A' + 10
			case c >= 'a' && c <= 'f':
				v |= c - 'a' + 10
			}
		}
		b = append(b, v)
		i += 2
	}
	return b
}

// S1 Handshake: 02 00 04 00 50 00 6C 00 61 00 79 decodes to handshake{"Play"}.
func TestScenarioS1Handshake(t *testing.T) {
	raw := decodeHex(t, "02 00 04 00 50 00 6C 00 61 00 79")
	sr := NewStreamReader(bytes.NewReader(raw))
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	hs, ok := pkt.(Handshake)
	if !ok {
		t.Fatalf("got %T, want Handshake", pkt)
	}
	if hs.Payload != "Play" {
		t.Fatalf("Payload = %q, want Play", hs.Payload)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, hs); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		t.Fatalf("re-encoded = % X, want % X", buf.Bytes(), raw)
	}
}

// S2 Keep-alive echo: 00 00 00 00 2A round-trips as id=42.
func TestScenarioS2KeepAlive(t *testing.T) {
	raw := decodeHex(t, "00 00 00 00 2A")
	sr := NewStreamReader(bytes.NewReader(raw))
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	ka, ok := pkt.(KeepAlive)
	if !ok {
		t.Fatalf("got %T, want KeepAlive", pkt)
	}
	if ka.ID != 42 {
		t.Fatalf("ID = %d, want 42", ka.ID)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, ka); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		t.Fatalf("re-encoded = % X, want % X", buf.Bytes(), raw)
	}
}

// S3 Player-place with empty hand: no Amount/Damage tail when ItemID == -1.
func TestScenarioS3PlayerPlaceEmptyHand(t *testing.T) {
	want := decodeHex(t, "0F 00 00 00 0A 40 FF FF FF FD 01 FF FF")
	p := PlayerPlace{X: 10, Y: 64, Z: -3, Direction: 1, ItemID: -1}

	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("encoded = % X, want % X", buf.Bytes(), want)
	}

	sr := NewStreamReader(bytes.NewReader(want))
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	got, ok := pkt.(PlayerPlace)
	if !ok {
		t.Fatalf("got %T, want PlayerPlace", pkt)
	}
	if got != p {
		t.Fatalf("decoded = %+v, want %+v", got, p)
	}
}

// S4 Block-change apply: 35 00 00 00 05 40 00 00 00 07 01 00 describes cell
// (5, 64, 7) becoming block=1, metadata=0.
func TestScenarioS4BlockChange(t *testing.T) {
	raw := decodeHex(t, "35 00 00 00 05 40 00 00 00 07 01 00")
	sr := NewStreamReader(bytes.NewReader(raw))
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	bc, ok := pkt.(BlockChange)
	if !ok {
		t.Fatalf("got %T, want BlockChange", pkt)
	}
	if bc.X != 5 || bc.Y != 64 || bc.Z != 7 || bc.BlockID != 1 || bc.Metadata != 0 {
		t.Fatalf("decoded = %+v, want X=5 Y=64 Z=7 BlockID=1 Metadata=0", bc)
	}
}

// S6 Kick: FF 00 05 00 42 00 79 00 65 00 21 00 21 carries reason "Bye!!".
func TestScenarioS6Kick(t *testing.T) {
	raw := decodeHex(t, "FF 00 05 00 42 00 79 00 65 00 21 00 21")
	sr := NewStreamReader(bytes.NewReader(raw))
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	k, ok := pkt.(Kick)
	if !ok {
		t.Fatalf("got %T, want Kick", pkt)
	}
	if k.Reason != "Bye!!" {
		t.Fatalf("Reason = %q, want Bye!!", k.Reason)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, k); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), raw) {
		t.Fatalf("re-encoded = % X, want % X", buf.Bytes(), raw)
	}
}

// byteAtATimeReader forces StreamReader to deal with many small reads,
// exercising the "partial reads are the norm" requirement without any
// framing loss.
type byteAtATimeReader struct {
	data []byte
}

func (r *byteAtATimeReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}

func TestStreamReaderNoFramingLossByteAtATime(t *testing.T) {
	var buf bytes.Buffer
	want := []Packet{
		KeepAlive{ID: 1},
		Chat{Message: "hi"},
		PlayerPlace{X: 1, Y: 2, Z: 3, Direction: 0, ItemID: -1},
		Kick{Reason: "done"},
	}
	for _, p := range want {
		if err := Encode(&buf, p); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	sr := NewStreamReader(&byteAtATimeReader{data: buf.Bytes()})
	for i, exp := range want {
		got, err := sr.Next()
		if err != nil {
			t.Fatalf("packet %d: Next: %v", i, err)
		}
		if got != exp {
			t.Fatalf("packet %d = %+v, want %+v", i, got, exp)
		}
	}
	if _, err := sr.Next(); err != io.EOF {
		t.Fatalf("trailing Next() = %v, want io.EOF", err)
	}
}

func TestStreamReaderUnknownPacketID(t *testing.T) {
	sr := NewStreamReader(bytes.NewReader([]byte{0x9A}))
	_, err := sr.Next()
	var unk *UnknownPacketIDError
	if err == nil {
		t.Fatal("want UnknownPacketIDError, got nil")
	}
	if !asUnknownPacketID(err, &unk) {
		t.Fatalf("err = %v (%T), want *UnknownPacketIDError", err, err)
	}
	if unk.ID != 0x9A {
		t.Fatalf("ID = 0x%02X, want 0x9A", unk.ID)
	}
}

func asUnknownPacketID(err error, target **UnknownPacketIDError) bool {
	if e, ok := err.(*UnknownPacketIDError); ok {
		*target = e
		return true
	}
	return false
}

func TestEntityMetadataRoundTrip(t *testing.T) {
	entries := []MetadataEntry{
		{Index: 0, Kind: MetaByte, Byte: -1},
		{Index: 1, Kind: MetaShort, Short: 300},
		{Index: 2, Kind: MetaString, String: "§4Boss"},
		{Index: 3, Kind: MetaSlot, Slot: Slot{ItemID: -1}},
		{Index: 4, Kind: MetaBlockTriple, X: 1, Y: 2, Z: 3},
	}
	var buf bytes.Buffer
	if err := WriteEntityMetadata(&buf, entries); err != nil {
		t.Fatalf("WriteEntityMetadata: %v", err)
	}
	got, err := ReadEntityMetadata(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("ReadEntityMetadata: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("got %d entries, want %d", len(got), len(entries))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestSlotEmptyHasNoTail(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSlot(&buf, Slot{ItemID: -1}); err != nil {
		t.Fatalf("WriteSlot: %v", err)
	}
	if buf.Len() != 2 {
		t.Fatalf("encoded empty slot is %d bytes, want 2", buf.Len())
	}
}
