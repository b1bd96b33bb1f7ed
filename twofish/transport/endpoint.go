package transport

import (
	"context"
	"errors"

	"github.com/TheusHen/TwoFish/twofish/transport/quic"
)

var ErrNotListening = errors.New("transport: endpoint is not listening")

// Endpoint combines the QUIC transport with encrypted channels.
// Both ends must be created with the same key and Hex setting.
type Endpoint struct {
	key      []byte
	cfg      Config
	listener *quic.Listener
}

func NewEndpoint(key []byte, cfg Config) *Endpoint {
	return &Endpoint{key: append([]byte(nil), key...), cfg: cfg}
}

func (e *Endpoint) Listen(addr string) error {
	ln, err := quic.Listen(addr)
	if err != nil {
		return err
	}
	e.listener = ln
	return nil
}

func (e *Endpoint) Close() error {
	if e.listener == nil {
		return nil
	}
	return e.listener.Close()
}

func (e *Endpoint) ListenAddr() string {
	if e.listener == nil {
		return ""
	}
	return e.listener.AddrString()
}

// Accept returns a channel for the next peer. QUIC announces a stream
// only once data arrives, so this returns after the peer's first send.
func (e *Endpoint) Accept(ctx context.Context) (*Channel, error) {
	if e.listener == nil {
		return nil, ErrNotListening
	}
	st, err := e.listener.Accept(ctx)
	if err != nil {
		return nil, err
	}
	return e.wrap(st)
}

func (e *Endpoint) Dial(ctx context.Context, addr string) (*Channel, error) {
	st, err := quic.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}
	return e.wrap(st)
}

func (e *Endpoint) wrap(st *quic.Stream) (*Channel, error) {
	ch, err := NewChannel(st, e.key, e.cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return ch, nil
}
