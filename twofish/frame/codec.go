package frame

import (
	"bytes"
	"fmt"

	"github.com/TheusHen/TwoFish/twofish/chain"
	"github.com/TheusHen/TwoFish/twofish/core"
)

const (
	// KeySize is the fixed key slot; shorter keys are repeated to fill it.
	KeySize = core.MaxKeySize
	// DefaultPassphrase is used when an empty key is supplied.
	DefaultPassphrase = "SnortHas2FishEncryptionRoutines!"
)

// Options configures a Codec.
type Options struct {
	// Salt supplies header salts. Nil means LegacySalt.
	Salt SaltSource
	// RejectEmptyKey makes NewCodec fail on an empty key instead of
	// falling back to DefaultPassphrase.
	RejectEmptyKey bool
}

// Codec encrypts and decrypts framed messages under one key.
// A Codec is not safe for concurrent use; use one per stream.
type Codec struct {
	block  *core.Cipher
	engine *chain.Engine
	salt   SaltSource
}

// TileKey repeats key until it fills KeySize bytes. Keys longer than
// KeySize are truncated. An empty key tiles DefaultPassphrase.
func TileKey(key []byte) [KeySize]byte {
	if len(key) == 0 {
		key = []byte(DefaultPassphrase)
	}
	var k [KeySize]byte
	for i := 0; i < KeySize; {
		i += copy(k[i:], key)
	}
	return k
}

// NewCodec tiles key to 32 bytes and runs the key schedule once.
func NewCodec(key []byte, opts Options) (*Codec, error) {
	if len(key) == 0 && opts.RejectEmptyKey {
		return nil, fmt.Errorf("%w: key", ErrEmptyInput)
	}
	tiled := TileKey(key)
	block, err := core.NewCipher(tiled[:])
	if err != nil {
		return nil, err
	}
	salt := opts.Salt
	if salt == nil {
		salt = LegacySalt
	}
	return &Codec{
		block:  block,
		engine: chain.New(block, nil),
		salt:   salt,
	}, nil
}

// Cipher returns the block cipher behind the codec.
func (c *Codec) Cipher() *core.Cipher { return c.block }

// Encrypt frames plaintext behind a fresh header and encrypts it.
// The result is len(plaintext)+HeaderSize bytes, or twice that as hex.
func (c *Codec) Encrypt(plaintext []byte, useHex bool) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrEmptyInput
	}
	if uint64(len(plaintext)) > MaxMessageSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds the length field", ErrAllocationFailure, len(plaintext))
	}

	hdr := Header{
		Magic:  Magic,
		Length: uint32(len(plaintext)),
		Salt:   c.salt.NextSalt(),
	}.Encode()

	var out bytes.Buffer
	out.Grow(HeaderSize + len(plaintext))
	c.engine.SetSink(&out)
	c.engine.Reset()
	if err := c.engine.ProcessBlock(hdr[:], false); err != nil {
		return nil, err
	}
	if err := c.engine.Process(plaintext, false); err != nil {
		return nil, err
	}

	if useHex {
		return EncodeHex(out.Bytes()), nil
	}
	return out.Bytes(), nil
}

// Decrypt reverses Encrypt. Nothing is returned unless the header magic
// verifies; the payload is cut to the header length, clamped to the
// bytes actually present.
func (c *Codec) Decrypt(ciphertext []byte, useHex bool) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, ErrEmptyInput
	}
	data := ciphertext
	if useHex {
		var err error
		if data, err = DecodeHex(ciphertext); err != nil {
			return nil, err
		}
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrIntegrityCheckFailed, len(data))
	}

	var tmp bytes.Buffer
	tmp.Grow(len(data))
	c.engine.SetSink(&tmp)
	c.engine.Reset()
	if err := c.engine.Process(data, true); err != nil {
		return nil, err
	}

	buf := tmp.Bytes()
	h := DecodeHeader(buf)
	if !h.Valid() {
		return nil, ErrIntegrityCheckFailed
	}
	n := len(buf) - HeaderSize
	if uint64(h.Length) < uint64(n) {
		n = int(h.Length)
	}
	return buf[HeaderSize : HeaderSize+n], nil
}

// EncryptTerminated encrypts buf up to its first NUL byte.
func (c *Codec) EncryptTerminated(buf []byte, useHex bool) ([]byte, error) {
	return c.Encrypt(terminated(buf), useHex)
}

// DecryptTerminated decrypts buf up to its first NUL byte.
func (c *Codec) DecryptTerminated(buf []byte, useHex bool) ([]byte, error) {
	return c.Decrypt(terminated(buf), useHex)
}

// EncryptRaw encrypts without a header. Inputs of one block or less are
// zero-padded to a single block; longer inputs are chained with
// ciphertext stealing and keep their length.
func (c *Codec) EncryptRaw(data []byte) ([]byte, error) { return c.raw(data, false) }

// DecryptRaw reverses EncryptRaw. A single-block result keeps its padding.
func (c *Codec) DecryptRaw(data []byte) ([]byte, error) { return c.raw(data, true) }

func (c *Codec) raw(data []byte, decrypt bool) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	var out bytes.Buffer
	out.Grow(EncryptedRawLen(len(data)))
	c.engine.SetSink(&out)
	c.engine.Reset()

	if len(data) > core.BlockSize {
		if err := c.engine.Process(data, decrypt); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	}

	var blk [core.BlockSize]byte
	copy(blk[:], data)
	if err := c.engine.ProcessBlock(blk[:], decrypt); err != nil {
		return nil, err
	}
	if err := c.engine.Finish(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// EncryptedLen is the output size of Encrypt for an n-byte plaintext.
func EncryptedLen(n int, useHex bool) int {
	l := n + HeaderSize
	if useHex {
		l *= 2
	}
	return l
}

// DecryptedLen is the largest plaintext Decrypt can return for an n-byte
// ciphertext.
func DecryptedLen(n int, useHex bool) int {
	if useHex {
		n /= 2
	}
	if n < HeaderSize {
		return 0
	}
	return n - HeaderSize
}

// EncryptedRawLen is the output size of EncryptRaw for n bytes.
func EncryptedRawLen(n int) int {
	if n < core.BlockSize {
		return core.BlockSize
	}
	return n
}

func terminated(buf []byte) []byte {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return buf[:i]
	}
	return buf
}
