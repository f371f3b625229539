// Package protocol implements the protocol-17 wire codec: big-endian
// scalar primitives, the ~70-packet schema catalog, and an incremental
// stream reader that yields whole packets with no outer length prefix.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/blockworld-proto/mcs17/pkg/ucs2"
)

// ProtocolVersion is the dialect this codec implements.
const ProtocolVersion = 17

// MaxChatLength is the wire limit on a single chat packet's string, per
// spec.md §6 (packet 0x03).
const MaxChatLength = 100

// MaxUsernameLength is the wire limit on a login/handshake username.
const MaxUsernameLength = 16

func readFull(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func ReadI8(r io.Reader) (int8, error) {
	b, err := readFull(r, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func WriteI8(w io.Writer, v int8) error {
	_, err := w.Write([]byte{byte(v)})
	return err
}

func ReadU8(r io.Reader) (uint8, error) {
	b, err := readFull(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func WriteU8(w io.Writer, v uint8) error {
	_, err := w.Write([]byte{v})
	return err
}

func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadU8(r)
	if err != nil {
		return false, err
	}
	if b != 0 && b != 1 {
		return false, fmt.Errorf("protocol: boolean byte 0x%02X is neither 0 nor 1", b)
	}
	return b != 0, nil
}

func WriteBool(w io.Writer, v bool) error {
	if v {
		return WriteU8(w, 1)
	}
	return WriteU8(w, 0)
}

func ReadI16(r io.Reader) (int16, error) {
	b, err := readFull(r, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func WriteI16(w io.Writer, v int16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	_, err := w.Write(b[:])
	return err
}

func ReadU16(r io.Reader) (uint16, error) {
	b, err := readFull(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func WriteU16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func ReadI32(r io.Reader) (int32, error) {
	b, err := readFull(r, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

func WriteI32(w io.Writer, v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	_, err := w.Write(b[:])
	return err
}

func ReadI64(r io.Reader) (int64, error) {
	b, err := readFull(r, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

func WriteI64(w io.Writer, v int64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	_, err := w.Write(b[:])
	return err
}

func ReadF32(r io.Reader) (float32, error) {
	b, err := readFull(r, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

func WriteF32(w io.Writer, v float32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	_, err := w.Write(b[:])
	return err
}

func ReadF64(r io.Reader) (float64, error) {
	b, err := readFull(r, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

func WriteF64(w io.Writer, v float64) error {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	_, err := w.Write(b[:])
	return err
}

// ReadString reads a u16-BE code-unit count followed by that many UCS-2BE
// code units, converting to UTF-8.
func ReadString(r io.Reader) (string, error) {
	n, err := ReadU16(r)
	if err != nil {
		return "", err
	}
	raw, err := readFull(r, int(n)*2)
	if err != nil {
		return "", err
	}
	return ucs2.DecodeBytes(raw)
}

// WriteString writes s as a u16-BE count-prefixed UCS-2BE string.
func WriteString(w io.Writer, s string) error {
	raw, err := ucs2.EncodeBytes(s)
	if err != nil {
		return err
	}
	if err := WriteU16(w, uint16(len(raw)/2)); err != nil {
		return err
	}
	_, err = w.Write(raw)
	return err
}

// ReadBytes reads exactly n raw bytes (used by schema extensions whose
// length was decoded from an earlier field, e.g. the chunk-map payload).
func ReadBytes(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("protocol: negative byte count %d", n)
	}
	return readFull(r, n)
}
