// Package ucs2 converts between UTF-8 and the big-endian UCS-2 encoding
// used by protocol-17 strings: a u16 code-unit count followed by that many
// big-endian u16 code units, no surrogate pairs.
package ucs2

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

var be16 = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Encode converts a UTF-8 string to UCS-2BE code units. It fails for any
// string containing an astral (non-BMP) code point, since the protocol
// predates surrogate-pair handling.
func Encode(s string) ([]uint16, error) {
	for _, r := range s {
		if r > 0xFFFF {
			return nil, fmt.Errorf("ucs2: %q contains non-BMP code point U+%X, protocol 17 has no surrogate-pair support", s, r)
		}
		if utf16.IsSurrogate(r) {
			return nil, fmt.Errorf("ucs2: %q contains a lone surrogate code point U+%X", s, r)
		}
	}
	units := make([]uint16, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		units = append(units, uint16(r))
	}
	return units, nil
}

// Decode converts UCS-2BE code units back to a UTF-8 string, rejecting any
// surrogate unit, paired or not, since UCS-2 has no surrogate pairs.
func Decode(units []uint16) (string, error) {
	for i, u := range units {
		if utf16.IsSurrogate(rune(u)) {
			return "", fmt.Errorf("ucs2: surrogate unit 0x%04X at index %d", u, i)
		}
	}
	return string(utf16.Decode(units)), nil
}

// DecodeBytes converts a raw big-endian byte buffer (2*len(units) bytes)
// into a UTF-8 string. The bytes are first passed through the x/text
// UTF-16 transformer so malformed encodings surface as a decode error
// rather than silently substituting U+FFFD, then the result is re-checked
// for lone surrogates the transformer tolerates but protocol 17 must not.
func DecodeBytes(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", fmt.Errorf("ucs2: odd byte length %d", len(b))
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = uint16(b[2*i])<<8 | uint16(b[2*i+1])
	}
	decoded, err := be16.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("ucs2: utf16 transform: %w", err)
	}
	if !utf8.Valid(decoded) {
		return "", fmt.Errorf("ucs2: invalid utf-8 after utf16 transform")
	}
	return Decode(units)
}

// EncodeBytes converts a UTF-8 string directly to its big-endian byte form.
func EncodeBytes(s string) ([]byte, error) {
	units, err := Encode(s)
	if err != nil {
		return nil, err
	}
	b := make([]byte, len(units)*2)
	for i, u := range units {
		b[2*i] = byte(u >> 8)
		b[2*i+1] = byte(u)
	}
	return b, nil
}
