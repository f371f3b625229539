package protocol

import (
	"bufio"
	"fmt"
	"io"
)

// Packet is the tagged-sum interface every packet kind implements. There is
// no runtime inheritance (spec.md §9): the dispatch table in this file maps
// an id byte directly to a decode function, and each concrete type supplies
// its own EncodeBody.
type Packet interface {
	// PacketID returns the fixed 1-byte id for this kind.
	PacketID() byte
	// EncodeBody writes the kind-specific payload (not the id byte).
	EncodeBody(w io.Writer) error
}

// Decoder parses one packet body (the id byte has already been consumed).
type Decoder func(r io.Reader) (Packet, error)

var registry = map[byte]Decoder{}

// register associates a packet id with its decoder. Called from each
// packet file's init(); panics on a duplicate id, which is a build-time
// programmer error, not a runtime condition.
func register(id byte, dec Decoder) {
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("protocol: duplicate packet id 0x%02X", id))
	}
	registry[id] = dec
}

// UnknownPacketIDError is returned for any id byte with no registered
// schema. Per spec.md §4.3, this is connection-fatal: there is no sync
// marker to resume from.
type UnknownPacketIDError struct {
	ID byte
}

func (e *UnknownPacketIDError) Error() string {
	return fmt.Sprintf("protocol: unknown packet id 0x%02X", e.ID)
}

// Encode writes a packet's id byte followed by its body.
func Encode(w io.Writer, p Packet) error {
	if err := WriteU8(w, p.PacketID()); err != nil {
		return err
	}
	return p.EncodeBody(w)
}

// StreamReader incrementally decodes a byte stream into whole packets. It
// wraps any io.Reader (a net.Conn in production, a bytes.Reader or a
// byte-at-a-time reader in tests) in a bufio.Reader and reads exactly as
// many bytes as each packet's schema calls for — no outer length prefix
// exists, so framing is entirely schema-driven (spec.md §4.3).
//
// Each session owns exactly one StreamReader and runs it on its own
// goroutine; a blocking Read here only blocks that session, never another
// one (spec.md §5).
type StreamReader struct {
	br *bufio.Reader
}

// NewStreamReader wraps r for incremental packet decoding.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{br: bufio.NewReader(r)}
}

// Next reads exactly one packet, blocking until it is fully available. It
// returns the underlying io.EOF (or a wrapped network error) unaltered when
// the stream ends cleanly between packets; any error while a packet is
// partially read is always wrapped with context since that indicates
// framing corruption, not a normal hangup.
func (s *StreamReader) Next() (Packet, error) {
	id, err := ReadU8(s.br)
	if err != nil {
		return nil, err
	}
	dec, ok := registry[id]
	if !ok {
		return nil, &UnknownPacketIDError{ID: id}
	}
	pkt, err := dec(s.br)
	if err != nil {
		return nil, fmt.Errorf("protocol: decoding packet 0x%02X: %w", id, err)
	}
	return pkt, nil
}
