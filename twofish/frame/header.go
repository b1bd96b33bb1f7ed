package frame

import (
	"encoding/binary"
	"math"
)

const (
	// HeaderSize is the size of the encrypted message header (one block).
	HeaderSize = 16
	// MagicSize is the length of the header magic.
	MagicSize = 4
	// MaxMessageSize is the largest plaintext the length field can carry.
	MaxMessageSize = math.MaxUint32
)

// Magic identifies a successfully decrypted header.
var Magic = [MagicSize]byte{'T', 'w', 'o', 'F'}

// Header is the first plaintext block of every framed message.
//
//	bytes 0..4   magic
//	bytes 4..8   plaintext length, little endian
//	bytes 8..16  salt, little endian
type Header struct {
	Magic  [MagicSize]byte
	Length uint32
	Salt   uint64
}

// Encode writes the wire form of h.
func (h Header) Encode() [HeaderSize]byte {
	var b [HeaderSize]byte
	copy(b[:MagicSize], h.Magic[:])
	binary.LittleEndian.PutUint32(b[4:8], h.Length)
	binary.LittleEndian.PutUint64(b[8:16], h.Salt)
	return b
}

// DecodeHeader parses a decrypted header block.
func DecodeHeader(b []byte) Header {
	var h Header
	copy(h.Magic[:], b[:MagicSize])
	h.Length = binary.LittleEndian.Uint32(b[4:8])
	h.Salt = binary.LittleEndian.Uint64(b[8:16])
	return h
}

// Valid reports whether the magic matches.
func (h Header) Valid() bool { return h.Magic == Magic }
