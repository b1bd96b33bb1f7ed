package frame

import (
	"encoding/hex"
	"fmt"
)

// EncodeHex returns src as lowercase hex, most significant nibble first.
func EncodeHex(src []byte) []byte {
	dst := make([]byte, hex.EncodedLen(len(src)))
	hex.Encode(dst, src)
	return dst
}

// DecodeHex parses hex digits (either case) into bytes.
func DecodeHex(src []byte) ([]byte, error) {
	dst := make([]byte, hex.DecodedLen(len(src)))
	n, err := hex.Decode(dst, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return dst[:n], nil
}
