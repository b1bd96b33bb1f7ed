package frame

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// SaltSource supplies the 8-byte header salt.
type SaltSource interface {
	NextSalt() uint64
}

// LegacySalt reproduces the classic salt: a process-wide pseudo-random
// generator seeded once from wall-clock time, combined as r1*65536+r2 in
// 32-bit signed arithmetic and widened to 64 bits. It is predictable and
// only varies the header; it is the default for wire compatibility.
var LegacySalt SaltSource = legacySalt{}

// CryptoSalt draws the salt from crypto/rand.
var CryptoSalt SaltSource = cryptoSalt{}

var (
	legacyOnce sync.Once
	legacyMu   sync.Mutex
	legacyRand *rand.Rand
)

type legacySalt struct{}

func (legacySalt) NextSalt() uint64 {
	legacyOnce.Do(func() {
		legacyRand = rand.New(rand.NewSource(time.Now().Unix()))
	})
	legacyMu.Lock()
	r1, r2 := legacyRand.Int31(), legacyRand.Int31()
	legacyMu.Unlock()

	v := int32(uint32(r1)<<16 + uint32(r2))
	return uint64(int64(v))
}

type cryptoSalt struct{}

func (cryptoSalt) NextSalt() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return LegacySalt.NextSalt()
	}
	return binary.LittleEndian.Uint64(b[:])
}
