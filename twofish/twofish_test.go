package twofish

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	key := []byte("facade key")
	msg := []byte("block 2 10.0.0.1 for 3600 seconds")

	for _, useHex := range []bool{false, true} {
		ct, err := Encrypt(key, msg, useHex)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		pt, err := Decrypt(key, ct, useHex)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(pt, msg) {
			t.Fatalf("hex=%v: round trip mismatch", useHex)
		}
	}
}

func TestDefaultPassphraseInteroperates(t *testing.T) {
	ct, err := Encrypt(nil, []byte("x"), false)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	pt, err := Decrypt([]byte("SnortHas2FishEncryptionRoutines!"), ct, false)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(pt) != "x" {
		t.Fatalf("Decrypt = %q", pt)
	}
}

func TestSentinels(t *testing.T) {
	if _, err := Encrypt([]byte("k"), nil, false); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Decrypt([]byte("k"), []byte("xyz!"), true); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
	if k := TileKey([]byte("ab")); k[31] != 'b' {
		t.Fatalf("TileKey tail = %q", k[31])
	}
}
