package quic

import (
	"context"
	"net"
	"time"

	q "github.com/quic-go/quic-go"
)

const idleTimeout = 60 * time.Second

func config() *q.Config {
	return &q.Config{MaxIdleTimeout: idleTimeout, KeepAlivePeriod: idleTimeout / 3}
}

type Listener struct {
	inner *q.Listener
}

func Listen(addr string) (*Listener, error) {
	tlsConf, err := NewServerTLSConfig()
	if err != nil {
		return nil, err
	}
	ln, err := q.ListenAddr(addr, tlsConf, config())
	if err != nil {
		return nil, err
	}
	return &Listener{inner: ln}, nil
}

// Accept waits for a connection and its first stream.
func (l *Listener) Accept(ctx context.Context) (*Stream, error) {
	conn, err := l.inner.Accept(ctx)
	if err != nil {
		return nil, err
	}
	st, err := conn.AcceptStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "no stream")
		return nil, err
	}
	return &Stream{conn: conn, Stream: st}, nil
}

func (l *Listener) Addr() net.Addr { return l.inner.Addr() }

func (l *Listener) AddrString() string {
	if l.inner == nil {
		return ""
	}
	return l.inner.Addr().String()
}

func (l *Listener) Close() error { return l.inner.Close() }

// Dial connects to addr and opens one bidirectional stream.
func Dial(ctx context.Context, addr string) (*Stream, error) {
	tlsConf, err := NewClientTLSConfig()
	if err != nil {
		return nil, err
	}
	conn, err := q.DialAddr(ctx, addr, tlsConf, config())
	if err != nil {
		return nil, err
	}
	st, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "no stream")
		return nil, err
	}
	return &Stream{conn: conn, Stream: st}, nil
}

// Stream is a QUIC stream that owns its connection.
type Stream struct {
	q.Stream
	conn q.Connection
}

// RemoteAddr returns the peer address.
func (s *Stream) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// Close closes the stream and then the connection.
func (s *Stream) Close() error {
	err := s.Stream.Close()
	if cerr := s.conn.CloseWithError(0, "closed"); err == nil {
		err = cerr
	}
	return err
}
