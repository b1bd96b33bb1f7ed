package transport

import (
	"context"
	"testing"
	"time"
)

func TestEndpointEcho(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	key := []byte("endpoint key")
	server := NewEndpoint(key, DefaultConfig())
	if err := server.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer server.Close()

	addr := server.ListenAddr()
	if addr == "" {
		t.Fatalf("expected listener addr")
	}

	errCh := make(chan error, 1)
	go func() {
		ch, err := server.Accept(ctx)
		if err != nil {
			errCh <- err
			return
		}
		msg, err := ch.Receive()
		if err != nil {
			errCh <- err
			return
		}
		errCh <- ch.Send(append([]byte("echo: "), msg...))
	}()

	client := NewEndpoint(key, DefaultConfig())
	ch, err := client.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer ch.Close()

	if err := ch.Send([]byte("block 10.1.2.3")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	reply, err := ch.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("server: %v", err)
	}
	if string(reply) != "echo: block 10.1.2.3" {
		t.Fatalf("reply = %q", reply)
	}
}

func TestEndpointNotListening(t *testing.T) {
	e := NewEndpoint([]byte("k"), Config{})
	if _, err := e.Accept(context.Background()); err != ErrNotListening {
		t.Fatalf("expected ErrNotListening, got %v", err)
	}
	if e.ListenAddr() != "" || e.Close() != nil {
		t.Fatalf("idle endpoint should have no address and close cleanly")
	}
}
