package chain

import (
	"errors"
	"io"
)

// BlockSize is the size of one chained block.
const BlockSize = 16

var (
	// ErrFinished is returned when a block is submitted after the message
	// has been completed. Call Reset to start a new message.
	ErrFinished = errors.New("chain: message already finished")
)

// BlockCipher transforms exactly one 16-byte block.
type BlockCipher interface {
	ProcessBlock(dst, src []byte, decrypt bool)
}

// Sink receives finished output bytes, in stream order.
type Sink interface {
	Write(p []byte) (int, error)
}

// State is the chaining state of an Engine.
type State int

const (
	// Idle means no block is pending.
	Idle State = iota
	// Chaining means one block is held back for possible stealing.
	Chaining
	// Finished means the message is complete; only Reset leaves this state.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case Chaining:
		return "CHAINING"
	case Finished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// FlushMode controls whether the next flush reaches the sink.
type FlushMode int

const (
	// Flushing writes every flush through to the sink.
	Flushing FlushMode = iota
	// Holding swallows exactly one flush, then reverts to Flushing.
	Holding
)

// blockPair is one processed block: the cipher input and its output.
// For encryption that is (chained plaintext, ciphertext); for decryption
// (ciphertext, plaintext).
type blockPair struct {
	in, out [BlockSize]byte
}

// Engine runs CBC over a stream of blocks with a one-block lookahead, so
// that a short final block can be handled by ciphertext stealing and the
// output stays exactly as long as the input.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	c    BlockCipher
	sink Sink

	slot    blockPair
	pending *blockPair // nil when no block is held

	last  [BlockSize]byte // input of the most recently pushed block
	prior [BlockSize]byte // input pushed before the pending block

	mode  FlushMode
	state State
	err   error
}

// New returns an Engine in the Idle state writing to sink.
func New(c BlockCipher, sink Sink) *Engine {
	return &Engine{c: c, sink: sink}
}

// SetSink redirects future output. The chaining state is kept.
func (e *Engine) SetSink(sink Sink) { e.sink = sink }

// State reports the current chaining state.
func (e *Engine) State() State { return e.state }

// Mode reports the current flush mode.
func (e *Engine) Mode() FlushMode { return e.mode }

// Err returns the first sink error seen since the last Reset.
func (e *Engine) Err() error { return e.err }

// Hold suppresses the next flush to the sink.
func (e *Engine) Hold() { e.mode = Holding }

// Reset drops the pending block and the chaining history. It must be
// called between messages and never between blocks of one message.
func (e *Engine) Reset() {
	e.pending = nil
	e.last = [BlockSize]byte{}
	e.prior = [BlockSize]byte{}
	e.mode = Flushing
	e.state = Idle
	e.err = nil
}

// ProcessBlock chains one block. A 16-byte block is a regular CBC step;
// 1 to 15 bytes is the final partial block of a message and completes it
// with ciphertext stealing. Any other length panics, as does a partial
// block with nothing pending to steal from.
func (e *Engine) ProcessBlock(in []byte, decrypt bool) error {
	if e.err != nil {
		return e.err
	}
	if e.state == Finished {
		return ErrFinished
	}

	switch n := len(in); {
	case n == BlockSize:
		e.full(in, decrypt)
	case n > 0 && n < BlockSize:
		if e.pending == nil {
			panic("chain: partial block without a preceding block")
		}
		if decrypt {
			e.stealDecrypt(in)
		} else {
			e.stealEncrypt(in)
		}
	default:
		panic("chain: block must be 1 to 16 bytes")
	}
	return e.err
}

// Process chains a whole payload: full blocks while more than one block
// remains, then the tail (full or partial), then Finish.
func (e *Engine) Process(data []byte, decrypt bool) error {
	for len(data) > BlockSize {
		if err := e.ProcessBlock(data[:BlockSize], decrypt); err != nil {
			return err
		}
		data = data[BlockSize:]
	}
	if len(data) > 0 {
		if err := e.ProcessBlock(data, decrypt); err != nil {
			return err
		}
	}
	return e.Finish()
}

// Finish flushes the held-back block, if any, and completes the message.
func (e *Engine) Finish() error {
	if e.err != nil {
		return e.err
	}
	if e.state == Finished {
		return nil
	}
	if e.pending != nil {
		e.flush(e.pending.out[:])
	}
	e.state = Finished
	return e.err
}

func (e *Engine) full(in []byte, decrypt bool) {
	var x, out [BlockSize]byte
	copy(x[:], in)
	if decrypt {
		e.c.ProcessBlock(out[:], x[:], true)
		if e.pending != nil {
			xorBlock(&out, &e.pending.in)
		}
	} else {
		if e.pending != nil {
			xorBlock(&x, &e.pending.out)
		}
		e.c.ProcessBlock(out[:], x[:], false)
	}
	e.push(&x, &out)
	e.state = Chaining
}

// stealEncrypt emits the stolen full block followed by the first n bytes
// of the previous ciphertext block.
func (e *Engine) stealEncrypt(in []byte) {
	prev := e.pop()

	var x, out [BlockSize]byte
	copy(x[:], in)
	xorBlock(&x, &prev.out)
	e.c.ProcessBlock(out[:], x[:], false)

	e.push(&x, &out)
	e.flush(e.pending.out[:])
	e.flush(prev.out[:len(in)])
	e.pending = nil
	e.state = Finished
}

// stealDecrypt undoes stealEncrypt. The pending input is the stolen full
// block; its decryption yields the final plaintext bytes and the tail of
// the previous ciphertext block.
func (e *Engine) stealDecrypt(in []byte) {
	stolen := e.pop()
	n := len(in)

	var raw [BlockSize]byte
	e.c.ProcessBlock(raw[:], stolen.in[:], true)

	var tail [BlockSize]byte
	for i := 0; i < n; i++ {
		tail[i] = in[i] ^ raw[i]
	}

	var prevCipher, prevPlain [BlockSize]byte
	copy(prevCipher[:], in)
	copy(prevCipher[n:], raw[n:])
	e.c.ProcessBlock(prevPlain[:], prevCipher[:], true)
	xorBlock(&prevPlain, &e.prior)

	e.push(&prevCipher, &prevPlain)
	e.flush(e.pending.out[:])
	e.flush(tail[:n])
	e.pending = nil
	e.state = Finished
}

// push makes (in, out) the pending pair, flushing the one it replaces.
func (e *Engine) push(in, out *[BlockSize]byte) {
	if e.pending != nil {
		e.flush(e.pending.out[:])
	}
	e.prior = e.last
	e.last = *in
	e.slot = blockPair{in: *in, out: *out}
	e.pending = &e.slot
}

func (e *Engine) pop() blockPair {
	bp := *e.pending
	e.pending = nil
	return bp
}

func (e *Engine) flush(b []byte) {
	if e.mode == Holding {
		e.mode = Flushing
		return
	}
	if e.err != nil || len(b) == 0 {
		return
	}
	n, err := e.sink.Write(b)
	if err == nil && n != len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		e.err = err
	}
}

func xorBlock(dst, src *[BlockSize]byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
