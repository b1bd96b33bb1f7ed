package core

import (
	"encoding/binary"
	"math/bits"
)

// Cipher is a Twofish block cipher bound to one expanded key.
// It implements crypto/cipher.Block and is safe for concurrent use.
type Cipher struct {
	s *Schedule
}

// NewCipher expands key and returns a block cipher for it.
func NewCipher(key []byte) (*Cipher, error) {
	s, err := Expand(key)
	if err != nil {
		return nil, err
	}
	return &Cipher{s: s}, nil
}

// NewCipherFromSchedule wraps an already expanded key.
func NewCipherFromSchedule(s *Schedule) *Cipher { return &Cipher{s: s} }

// Schedule returns the expanded key backing c.
func (c *Cipher) Schedule() *Schedule { return c.s }

func (c *Cipher) BlockSize() int { return BlockSize }

// Encrypt encrypts the first block of src into dst. dst and src may overlap.
func (c *Cipher) Encrypt(dst, src []byte) { c.ProcessBlock(dst, src, false) }

// Decrypt decrypts the first block of src into dst. dst and src may overlap.
func (c *Cipher) Decrypt(dst, src []byte) { c.ProcessBlock(dst, src, true) }

func (c *Cipher) fe320(x uint32) uint32 {
	sb := &c.s.SBox
	return sb[2*(x&0xff)] ^
		sb[2*(x>>8&0xff)+1] ^
		sb[0x200+2*(x>>16&0xff)] ^
		sb[0x200+2*(x>>24)+1]
}

func (c *Cipher) fe323(x uint32) uint32 {
	sb := &c.s.SBox
	return sb[2*(x>>24)] ^
		sb[2*(x&0xff)+1] ^
		sb[0x200+2*(x>>8&0xff)] ^
		sb[0x200+2*(x>>16&0xff)+1]
}

// ProcessBlock runs one 16-byte block through the cipher.
// It panics if either slice is shorter than a block.
func (c *Cipher) ProcessBlock(dst, src []byte, decrypt bool) {
	if len(src) < BlockSize {
		panic("core: input not full block")
	}
	if len(dst) < BlockSize {
		panic("core: output not full block")
	}

	k := &c.s.SubKeys
	x0 := binary.LittleEndian.Uint32(src[0:])
	x1 := binary.LittleEndian.Uint32(src[4:])
	x2 := binary.LittleEndian.Uint32(src[8:])
	x3 := binary.LittleEndian.Uint32(src[12:])

	if !decrypt {
		x0 ^= k[0]
		x1 ^= k[1]
		x2 ^= k[2]
		x3 ^= k[3]
		n := 8
		for r := 0; r < Rounds; r += 2 {
			t0 := c.fe320(x0)
			t1 := c.fe323(x1)
			x2 = bits.RotateLeft32(x2^(t0+t1+k[n]), -1)
			x3 = bits.RotateLeft32(x3, 1) ^ (t0 + 2*t1 + k[n+1])

			t0 = c.fe320(x2)
			t1 = c.fe323(x3)
			x0 = bits.RotateLeft32(x0^(t0+t1+k[n+2]), -1)
			x1 = bits.RotateLeft32(x1, 1) ^ (t0 + 2*t1 + k[n+3])
			n += 4
		}
		x2 ^= k[4]
		x3 ^= k[5]
		x0 ^= k[6]
		x1 ^= k[7]
	} else {
		x0 ^= k[4]
		x1 ^= k[5]
		x2 ^= k[6]
		x3 ^= k[7]
		n := NumSubKeys - 1
		for r := 0; r < Rounds; r += 2 {
			t0 := c.fe320(x0)
			t1 := c.fe323(x1)
			x3 = bits.RotateLeft32(x3^(t0+2*t1+k[n]), -1)
			x2 = bits.RotateLeft32(x2, 1) ^ (t0 + t1 + k[n-1])

			t0 = c.fe320(x2)
			t1 = c.fe323(x3)
			x1 = bits.RotateLeft32(x1^(t0+2*t1+k[n-2]), -1)
			x0 = bits.RotateLeft32(x0, 1) ^ (t0 + t1 + k[n-3])
			n -= 4
		}
		x2 ^= k[0]
		x3 ^= k[1]
		x0 ^= k[2]
		x1 ^= k[3]
	}

	// Output order is x2, x3, x0, x1.
	binary.LittleEndian.PutUint32(dst[0:], x2)
	binary.LittleEndian.PutUint32(dst[4:], x3)
	binary.LittleEndian.PutUint32(dst[8:], x0)
	binary.LittleEndian.PutUint32(dst[12:], x1)
}
