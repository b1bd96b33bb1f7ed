package chain

import (
	"bytes"
	"crypto/cipher"
	"errors"
	"math/rand"
	"testing"

	"github.com/TheusHen/TwoFish/twofish/core"
)

func newCipher(t testing.TB) *core.Cipher {
	t.Helper()
	c, err := core.NewCipher([]byte("chain engine test key, 32 bytes!"))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	return c
}

func randomBytes(rng *rand.Rand, n int) []byte {
	b := make([]byte, n)
	rng.Read(b)
	return b
}

func run(t testing.TB, c *core.Cipher, data []byte, decrypt bool) []byte {
	t.Helper()
	var out bytes.Buffer
	e := New(c, &out)
	if err := e.Process(data, decrypt); err != nil {
		t.Fatalf("Process: %v", err)
	}
	return out.Bytes()
}

func TestAlignedMatchesCBC(t *testing.T) {
	c := newCipher(t)
	rng := rand.New(rand.NewSource(1))
	for blocks := 1; blocks <= 8; blocks++ {
		data := randomBytes(rng, blocks*BlockSize)

		want := make([]byte, len(data))
		cipher.NewCBCEncrypter(c, make([]byte, BlockSize)).CryptBlocks(want, data)

		got := run(t, c, data, false)
		if !bytes.Equal(got, want) {
			t.Fatalf("%d blocks: chain output differs from CBC", blocks)
		}
		if back := run(t, c, got, true); !bytes.Equal(back, data) {
			t.Fatalf("%d blocks: decrypt mismatch", blocks)
		}
	}
}

func TestStealingRoundTrip(t *testing.T) {
	c := newCipher(t)
	rng := rand.New(rand.NewSource(2))
	for n := BlockSize + 1; n <= 10*BlockSize; n++ {
		data := randomBytes(rng, n)
		ct := run(t, c, data, false)
		if len(ct) != n {
			t.Fatalf("len %d: ciphertext length %d", n, len(ct))
		}
		if pt := run(t, c, ct, true); !bytes.Equal(pt, data) {
			t.Fatalf("len %d: round trip mismatch", n)
		}
	}
}

func TestStealingLayout(t *testing.T) {
	c := newCipher(t)
	rng := rand.New(rand.NewSource(3))
	for tail := 1; tail < BlockSize; tail++ {
		data := randomBytes(rng, BlockSize+tail)

		c1 := make([]byte, BlockSize)
		c.Encrypt(c1, data[:BlockSize])
		x := make([]byte, BlockSize)
		copy(x, data[BlockSize:])
		for i := range x {
			x[i] ^= c1[i]
		}
		c2 := make([]byte, BlockSize)
		c.Encrypt(c2, x)

		got := run(t, c, data, false)
		if !bytes.Equal(got[:BlockSize], c2) {
			t.Fatalf("tail %d: first block is not the stolen block", tail)
		}
		if !bytes.Equal(got[BlockSize:], c1[:tail]) {
			t.Fatalf("tail %d: tail is not the truncated previous block", tail)
		}
	}
}

func TestStateTransitions(t *testing.T) {
	c := newCipher(t)
	var out bytes.Buffer
	e := New(c, &out)
	if e.State() != Idle {
		t.Fatalf("new engine state = %v", e.State())
	}
	if err := e.ProcessBlock(make([]byte, BlockSize), false); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	if e.State() != Chaining {
		t.Fatalf("state after block = %v", e.State())
	}
	if out.Len() != 0 {
		t.Fatalf("first block must be held back, got %d bytes", out.Len())
	}
	if err := e.ProcessBlock([]byte{1, 2, 3}, false); err != nil {
		t.Fatalf("ProcessBlock partial: %v", err)
	}
	if e.State() != Finished {
		t.Fatalf("state after stealing = %v", e.State())
	}
	if out.Len() != BlockSize+3 {
		t.Fatalf("output length = %d", out.Len())
	}
	if err := e.ProcessBlock(make([]byte, BlockSize), false); !errors.Is(err, ErrFinished) {
		t.Fatalf("expected ErrFinished, got %v", err)
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("Finish after stealing: %v", err)
	}
	if out.Len() != BlockSize+3 {
		t.Fatalf("Finish wrote after stealing")
	}

	e.Reset()
	if e.State() != Idle {
		t.Fatalf("state after Reset = %v", e.State())
	}
}

func TestHoldSwallowsOneFlush(t *testing.T) {
	c := newCipher(t)
	var out bytes.Buffer
	e := New(c, &out)

	b1 := bytes.Repeat([]byte{0x11}, BlockSize)
	b2 := bytes.Repeat([]byte{0x22}, BlockSize)
	if err := e.ProcessBlock(b1, false); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	e.Hold()
	if e.Mode() != Holding {
		t.Fatalf("mode = %v, want Holding", e.Mode())
	}
	if err := e.ProcessBlock(b2, false); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("held flush reached the sink")
	}
	if e.Mode() != Flushing {
		t.Fatalf("hold is not one-shot")
	}
	if err := e.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	want := make([]byte, 2*BlockSize)
	cipher.NewCBCEncrypter(c, make([]byte, BlockSize)).CryptBlocks(want, append(b1, b2...))
	if !bytes.Equal(out.Bytes(), want[BlockSize:]) {
		t.Fatalf("Finish did not write the second block")
	}
}

func TestResetClearsChaining(t *testing.T) {
	c := newCipher(t)
	var out bytes.Buffer
	e := New(c, &out)
	msg := bytes.Repeat([]byte("abcdefghijklmnop"), 3)

	if err := e.Process(msg, false); err != nil {
		t.Fatalf("Process: %v", err)
	}
	first := append([]byte(nil), out.Bytes()...)

	out.Reset()
	e.Reset()
	if err := e.Process(msg, false); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !bytes.Equal(out.Bytes(), first) {
		t.Fatalf("output after Reset differs")
	}
}

type failingSink struct{ calls int }

func (f *failingSink) Write(p []byte) (int, error) {
	f.calls++
	return 0, errors.New("sink closed")
}

func TestSinkErrorIsSticky(t *testing.T) {
	c := newCipher(t)
	sink := &failingSink{}
	e := New(c, sink)
	data := make([]byte, 4*BlockSize)
	err := e.Process(data, false)
	if err == nil {
		t.Fatalf("expected sink error")
	}
	if sink.calls != 1 {
		t.Fatalf("sink called %d times after failure", sink.calls)
	}
	if e.Err() == nil {
		t.Fatalf("Err() lost the sink error")
	}
}

func TestPartialWithoutPendingPanics(t *testing.T) {
	e := New(newCipher(t), &bytes.Buffer{})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = e.ProcessBlock([]byte{1}, false)
}

func BenchmarkProcess(b *testing.B) {
	c := newCipher(b)
	data := make([]byte, 64*1024+7)
	var out bytes.Buffer
	out.Grow(len(data))
	e := New(c, &out)
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out.Reset()
		e.Reset()
		if err := e.Process(data, false); err != nil {
			b.Fatalf("Process: %v", err)
		}
	}
}
