package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/TheusHen/TwoFish/twofish/frame"
)

var ErrChannelClosed = errors.New("transport: channel closed")

// Config controls how a Channel encodes messages. Both ends must agree
// on Hex; compression is signalled per frame.
type Config struct {
	Hex              bool
	Compress         bool
	CompressionLevel CompressionLevel
	// Salt overrides the header salt source; nil means frame.LegacySalt.
	Salt frame.SaltSource
}

// DefaultConfig returns binary framing with LZ4 when it helps.
func DefaultConfig() Config {
	return Config{
		Compress:         true,
		CompressionLevel: CompressionDefault,
	}
}

// Channel exchanges encrypted messages over a byte stream. Each message
// is one framed Twofish ciphertext inside one wire frame.
//
// Send and Receive may run concurrently with each other; each direction
// has its own codec.
type Channel struct {
	rw  io.ReadWriter
	cfg Config

	sendMu sync.Mutex
	send   *frame.Codec
	closed bool

	recvMu sync.Mutex
	recv   *frame.Codec
}

// NewChannel wraps rw. key is tiled the same way on both ends.
func NewChannel(rw io.ReadWriter, key []byte, cfg Config) (*Channel, error) {
	opts := frame.Options{Salt: cfg.Salt}
	send, err := frame.NewCodec(key, opts)
	if err != nil {
		return nil, err
	}
	recv, err := frame.NewCodec(key, opts)
	if err != nil {
		return nil, err
	}
	return &Channel{rw: rw, cfg: cfg, send: send, recv: recv}, nil
}

// Send encrypts msg and writes it as one frame.
func (c *Channel) Send(msg []byte) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return ErrChannelClosed
	}

	payload, typ := msg, MessageTypeData
	if c.cfg.Compress {
		if compressed, ok := maybeCompress(msg, c.cfg.CompressionLevel); ok {
			payload, typ = compressed, MessageTypeDataLZ4
		}
	}

	ct, err := c.send.Encrypt(payload, c.cfg.Hex)
	if err != nil {
		return err
	}
	return WriteFrame(c.rw, Frame{Type: typ, Payload: ct})
}

// Receive reads and decrypts the next message. It returns io.EOF once
// the peer has closed the channel.
func (c *Channel) Receive() ([]byte, error) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	f, err := ReadFrame(c.rw)
	if err != nil {
		return nil, err
	}

	switch f.Type {
	case MessageTypeClose:
		return nil, io.EOF
	case MessageTypeData, MessageTypeDataLZ4:
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidType, f.Type)
	}

	pt, err := c.recv.Decrypt(f.Payload, c.cfg.Hex)
	if err != nil {
		return nil, err
	}
	if f.Type == MessageTypeDataLZ4 {
		return Decompress(pt)
	}
	return pt, nil
}

// Close tells the peer no more messages follow and closes the underlying
// stream if it is an io.Closer.
func (c *Channel) Close() error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	err := WriteFrame(c.rw, Frame{Type: MessageTypeClose})
	if cl, ok := c.rw.(io.Closer); ok {
		if cerr := cl.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
