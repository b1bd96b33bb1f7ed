package transport

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// MaxDecompressedSize bounds the output of Decompress.
const MaxDecompressedSize = 16 << 20

var (
	ErrCompressionFailed   = errors.New("transport: compression failed")
	ErrDecompressionFailed = errors.New("transport: decompression failed")
)

// CompressionLevel controls the speed/ratio tradeoff.
type CompressionLevel int

const (
	CompressionFast    CompressionLevel = iota // Fastest, lower ratio
	CompressionDefault                         // Balanced
	CompressionBest                            // Best ratio, slower
)

var compressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

var decompressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewReader(nil)
	},
}

// Compress compresses data into an LZ4 frame.
func Compress(data []byte, level CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	w := compressorPool.Get().(*lz4.Writer)
	defer compressorPool.Put(w)

	w.Reset(&buf)
	switch level {
	case CompressionFast:
		_ = w.Apply(lz4.CompressionLevelOption(lz4.Fast))
	case CompressionBest:
		_ = w.Apply(lz4.CompressionLevelOption(lz4.Level9))
	default:
		_ = w.Apply(lz4.CompressionLevelOption(lz4.Level4))
	}

	if _, err := w.Write(data); err != nil {
		return nil, ErrCompressionFailed
	}
	if err := w.Close(); err != nil {
		return nil, ErrCompressionFailed
	}
	return buf.Bytes(), nil
}

// Decompress expands an LZ4 frame of at most MaxDecompressedSize bytes.
func Decompress(data []byte) ([]byte, error) {
	r := decompressorPool.Get().(*lz4.Reader)
	defer decompressorPool.Put(r)

	r.Reset(bytes.NewReader(data))

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil || n > MaxDecompressedSize {
		return nil, ErrDecompressionFailed
	}
	return buf.Bytes(), nil
}

// maybeCompress returns the compressed form only when it is smaller.
func maybeCompress(data []byte, level CompressionLevel) ([]byte, bool) {
	compressed, err := Compress(data, level)
	if err != nil || len(compressed) >= len(data) {
		return data, false
	}
	return compressed, true
}
