package twofish

import "github.com/TheusHen/TwoFish/twofish/frame"

var (
	ErrEmptyInput           = frame.ErrEmptyInput
	ErrAllocationFailure    = frame.ErrAllocationFailure
	ErrIntegrityCheckFailed = frame.ErrIntegrityCheckFailed
	ErrInvalidEncoding      = frame.ErrInvalidEncoding
)

// Encrypt frames and encrypts plaintext under key.
func Encrypt(key, plaintext []byte, useHex bool) ([]byte, error) {
	c, err := frame.NewCodec(key, frame.Options{})
	if err != nil {
		return nil, err
	}
	return c.Encrypt(plaintext, useHex)
}

// Decrypt reverses Encrypt.
func Decrypt(key, ciphertext []byte, useHex bool) ([]byte, error) {
	c, err := frame.NewCodec(key, frame.Options{})
	if err != nil {
		return nil, err
	}
	return c.Decrypt(ciphertext, useHex)
}

// TileKey repeats key to the 32-byte key slot.
func TileKey(key []byte) [frame.KeySize]byte { return frame.TileKey(key) }
