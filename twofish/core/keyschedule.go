package core

import (
	"encoding/binary"
	"math/bits"
	"strconv"
)

const (
	// BlockSize is the Twofish block size in bytes.
	BlockSize = 16
	// MaxKeySize is the largest key the schedule accepts (256 bits).
	MaxKeySize = 32
	// Rounds is the number of Feistel rounds.
	Rounds = 16

	// NumSubKeys is 8 whitening words plus two words per round.
	NumSubKeys = 8 + 2*Rounds
	// SBoxSize is the number of words in the key-dependent S-box.
	SBoxSize = 4 * 256

	subKeyBump = 0x01010101
	subKeyRotl = 9
)

// KeySizeError is returned by Expand for keys outside 1..MaxKeySize bytes.
type KeySizeError int

func (k KeySizeError) Error() string {
	return "core: invalid key size " + strconv.Itoa(int(k))
}

// Schedule is an expanded key: 40 subkeys and the 1024-word S-box.
// It is immutable once Expand returns.
type Schedule struct {
	SubKeys [NumSubKeys]uint32
	SBox    [SBoxSize]uint32
	groups  int
}

// Groups reports how many 64-bit key groups the schedule was built from.
func (s *Schedule) Groups() int { return s.groups }

// Expand runs the key schedule over key. The key is split into 8-byte
// groups; a trailing short group is zero-filled.
func Expand(key []byte) (*Schedule, error) {
	if len(key) == 0 || len(key) > MaxKeySize {
		return nil, KeySizeError(len(key))
	}
	EnsureTables()

	var padded [MaxKeySize]byte
	copy(padded[:], key)
	groups := (len(key) + 7) / 8

	var even, odd, sboxKey [4]uint32
	for i := 0; i < groups; i++ {
		even[i] = binary.LittleEndian.Uint32(padded[8*i:])
		odd[i] = binary.LittleEndian.Uint32(padded[8*i+4:])
		sboxKey[groups-1-i] = rsEncode(even[i], odd[i])
	}

	s := &Schedule{groups: groups}
	var q uint32
	for i := 0; i < NumSubKeys; i += 2 {
		a := h(q, &even, groups)
		q += subKeyBump
		b := h(q, &odd, groups)
		q += subKeyBump
		b = bits.RotateLeft32(b, 8)
		a += b
		s.SubKeys[i] = a
		a += b
		s.SubKeys[i+1] = bits.RotateLeft32(a, subKeyRotl)
	}

	for i := 0; i < 256; i++ {
		x := byte(i)
		s.SBox[2*i] = mds[0][keyed(0, x, &sboxKey, groups)]
		s.SBox[2*i+1] = mds[1][keyed(1, x, &sboxKey, groups)]
		s.SBox[0x200+2*i] = mds[2][keyed(2, x, &sboxKey, groups)]
		s.SBox[0x200+2*i+1] = mds[3][keyed(3, x, &sboxKey, groups)]
	}
	return s, nil
}

// keyed runs byte x of lane through the key stages, top group first.
// The stages are cumulative: a 4-group key passes through stages 4, 3, 2
// and 1, a 3-group key through 3, 2 and 1, and so on down to stage 1 alone.
func keyed(lane int, x byte, key *[4]uint32, groups int) byte {
	shift := 8 * uint(lane)
	for g := groups; g >= 1; g-- {
		x = p[qsel[lane][g]][x] ^ byte(key[g-1]>>shift)
	}
	return x
}

// h is the F32 function of the key schedule.
func h(x uint32, key *[4]uint32, groups int) uint32 {
	return mds[0][keyed(0, byte(x), key, groups)] ^
		mds[1][keyed(1, byte(x>>8), key, groups)] ^
		mds[2][keyed(2, byte(x>>16), key, groups)] ^
		mds[3][keyed(3, byte(x>>24), key, groups)]
}

// rsRem performs one step of the RS remainder computation.
func rsRem(x uint32) uint32 {
	b := x >> 24
	g2 := (b << 1) & 0xff
	if b&0x80 != 0 {
		g2 = (b<<1 ^ rsPoly) & 0xff
	}
	g3 := (b >> 1) & 0x7f
	if b&1 != 0 {
		g3 ^= rsPoly >> 1
	}
	g3 ^= g2
	return x<<8 ^ g3<<24 ^ g2<<16 ^ g3<<8 ^ b
}

// rsEncode maps one even/odd key word pair through the (12,8) RS code.
func rsEncode(k0, k1 uint32) uint32 {
	r := k1
	for i := 0; i < 4; i++ {
		r = rsRem(r)
	}
	r ^= k0
	for i := 0; i < 4; i++ {
		r = rsRem(r)
	}
	return r
}
