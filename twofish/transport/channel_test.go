package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/TheusHen/TwoFish/twofish/frame"
)

func newLoopback(t *testing.T, cfg Config) (*Channel, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	ch, err := NewChannel(&buf, []byte("channel key"), cfg)
	if err != nil {
		t.Fatalf("NewChannel: %v", err)
	}
	return ch, &buf
}

func TestChannelSendReceive(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Hex: true},
		DefaultConfig(),
		{Hex: true, Compress: true, CompressionLevel: CompressionBest},
	} {
		ch, _ := newLoopback(t, cfg)
		msgs := [][]byte{
			[]byte("x"),
			[]byte("Hello, Twofish!"),
			bytes.Repeat([]byte("compressible "), 500),
			bytes.Repeat([]byte{0x5a}, 16),
		}
		for _, m := range msgs {
			if err := ch.Send(m); err != nil {
				t.Fatalf("Send: %v", err)
			}
		}
		for i, want := range msgs {
			got, err := ch.Receive()
			if err != nil {
				t.Fatalf("Receive %d: %v", i, err)
			}
			if !bytes.Equal(got, want) {
				t.Fatalf("cfg %+v: message %d mismatch", cfg, i)
			}
		}
	}
}

func TestChannelUsesCompressionWhenSmaller(t *testing.T) {
	ch, buf := newLoopback(t, DefaultConfig())
	msg := bytes.Repeat([]byte("aaaaaaaa"), 1000)
	if err := ch.Send(msg); err != nil {
		t.Fatalf("Send: %v", err)
	}
	f, err := ReadFrame(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if f.Type != MessageTypeDataLZ4 {
		t.Fatalf("frame type = %v, want DATA_LZ4", f.Type)
	}
	if len(f.Payload) >= len(msg) {
		t.Fatalf("compressed frame not smaller: %d", len(f.Payload))
	}
}

func TestChannelClose(t *testing.T) {
	ch, _ := newLoopback(t, Config{})
	if err := ch.Send([]byte("last")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := ch.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := ch.Send([]byte("late")); !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("expected ErrChannelClosed, got %v", err)
	}
	if got, err := ch.Receive(); err != nil || string(got) != "last" {
		t.Fatalf("Receive = %q, %v", got, err)
	}
	if _, err := ch.Receive(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestChannelWrongKey(t *testing.T) {
	var buf bytes.Buffer
	tx, err := NewChannel(&buf, []byte("right"), Config{})
	if err != nil {
		t.Fatalf("NewChannel: %v", err)
	}
	rx, err := NewChannel(&buf, []byte("wrong"), Config{})
	if err != nil {
		t.Fatalf("NewChannel: %v", err)
	}
	if err := tx.Send([]byte("secret message")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := rx.Receive(); !errors.Is(err, frame.ErrIntegrityCheckFailed) {
		t.Fatalf("expected ErrIntegrityCheckFailed, got %v", err)
	}
}

func TestChannelRejectsUnknownFrame(t *testing.T) {
	ch, buf := newLoopback(t, Config{})
	if err := WriteFrame(buf, Frame{Type: MessageType(42), Payload: []byte("?")}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	if _, err := ch.Receive(); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestChannelEmptyMessage(t *testing.T) {
	ch, _ := newLoopback(t, Config{})
	if err := ch.Send(nil); !errors.Is(err, frame.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}
